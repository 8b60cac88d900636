package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/bissaliev/ReferalProject/internal/model"
	"github.com/bissaliev/ReferalProject/internal/repository"
	"github.com/bissaliev/ReferalProject/pkg/codegen"
)

// ── 内存数据库：模拟 users / referrals 两张表及其唯一约束 ──

type mockDB struct {
	mu        sync.Mutex
	users     map[string]*model.User     // key: user_id
	referrals map[string]*model.Referral // key: invitee_id
}

func newMockDB() *mockDB {
	return &mockDB{
		users:     make(map[string]*model.User),
		referrals: make(map[string]*model.Referral),
	}
}

// newMockRepository 返回共享同一 mockDB 的 Repository 聚合
func newMockRepository() (*repository.Repository, *mockDB) {
	db := newMockDB()
	return &repository.Repository{
		User:     &mockUserRepo{db: db},
		Referral: &mockReferralRepo{db: db},
	}, db
}

// seedUser 直接写入一个用户（绕过服务层）
func (d *mockDB) seedUser(id, phone, code string) *model.User {
	d.mu.Lock()
	defer d.mu.Unlock()
	u := &model.User{UserID: id, PhoneNumber: phone, InviteCode: code}
	u.CreatedAt = time.Now()
	d.users[id] = u
	return copyUser(u)
}

func (d *mockDB) userCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.users)
}

func copyUser(u *model.User) *model.User {
	c := *u
	c.Referral = nil
	return &c
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	db *mockDB
}

func (m *mockUserRepo) CreateIfPhoneAbsent(_ context.Context, user *model.User) (bool, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	for _, u := range m.db.users {
		if u.PhoneNumber == user.PhoneNumber {
			return false, nil
		}
	}
	for _, u := range m.db.users {
		if u.InviteCode == user.InviteCode {
			return false, gorm.ErrDuplicatedKey
		}
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.db.users[user.UserID] = copyUser(user)
	return true, nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	u, ok := m.db.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := copyUser(u)
	if r, ok := m.db.referrals[id]; ok {
		rc := *r
		c.Referral = &rc
	}
	return c, nil
}

func (m *mockUserRepo) GetByPhone(_ context.Context, phone string) (*model.User, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, u := range m.db.users {
		if u.PhoneNumber == phone {
			return copyUser(u), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByInviteCode(_ context.Context, code string) (*model.User, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, u := range m.db.users {
		if u.InviteCode == code {
			return copyUser(u), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) UpdateProfile(_ context.Context, user *model.User) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	stored, ok := m.db.users[user.UserID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if user.Username != nil {
		for id, u := range m.db.users {
			if id != user.UserID && u.Username != nil && *u.Username == *user.Username {
				return gorm.ErrDuplicatedKey
			}
		}
	}
	stored.Username = user.Username
	stored.Email = user.Email
	stored.FirstName = user.FirstName
	stored.LastName = user.LastName
	stored.UpdatedAt = time.Now()
	return nil
}

// Delete 模拟外键策略：inviter_id 置空，invitee 记录级联删除
func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, ok := m.db.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.db.users, id)
	delete(m.db.referrals, id)
	for _, r := range m.db.referrals {
		if r.InviterID != nil && *r.InviterID == id {
			r.InviterID = nil
		}
	}
	return nil
}

func (m *mockUserRepo) List(_ context.Context, offset, limit int) ([]model.User, int64, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	all := make([]model.User, 0, len(m.db.users))
	for _, u := range m.db.users {
		all = append(all, *copyUser(u))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].PhoneNumber < all[j].PhoneNumber })

	total := int64(len(all))
	if offset > len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

// ── Mock ReferralRepository ──

type mockReferralRepo struct {
	db *mockDB
}

func (m *mockReferralRepo) Create(_ context.Context, referral *model.Referral) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, ok := m.db.referrals[referral.InviteeID]; ok {
		return gorm.ErrDuplicatedKey
	}
	c := *referral
	c.Inviter, c.Invitee = nil, nil
	m.db.referrals[referral.InviteeID] = &c
	return nil
}

func (m *mockReferralRepo) GetByInvitee(_ context.Context, inviteeID string) (*model.Referral, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	r, ok := m.db.referrals[inviteeID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *r
	return &c, nil
}

func (m *mockReferralRepo) ListByInviter(_ context.Context, inviterID string) ([]model.Referral, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var result []model.Referral
	for _, r := range m.db.referrals {
		if r.InviterID == nil || *r.InviterID != inviterID {
			continue
		}
		c := *r
		if u, ok := m.db.users[r.InviteeID]; ok {
			c.Invitee = copyUser(u)
		}
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

// ── 可控生成器 ──

// scriptedGenerator 按预设序列返回邀请码，序列耗尽后回落到随机生成
type scriptedGenerator struct {
	mu      sync.Mutex
	invites []string
	confirm string
}

func (g *scriptedGenerator) InviteCode() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.invites) > 0 {
		code := g.invites[0]
		g.invites = g.invites[1:]
		return code, nil
	}
	return codegen.GenerateInviteCode(codegen.InviteCodeLength)
}

func (g *scriptedGenerator) ConfirmationCode() (string, error) {
	if g.confirm != "" {
		return g.confirm, nil
	}
	return codegen.GenerateConfirmationCode()
}

// constantGenerator 永远返回同一个邀请码
type constantGenerator struct {
	code string
}

func (g constantGenerator) InviteCode() (string, error)       { return g.code, nil }
func (g constantGenerator) ConfirmationCode() (string, error) { return "1234", nil }

// ── 时钟 ──

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
