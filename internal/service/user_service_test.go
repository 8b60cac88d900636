package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/bissaliev/ReferalProject/internal/dto"
	"github.com/bissaliev/ReferalProject/internal/model"
	"github.com/bissaliev/ReferalProject/pkg/codegen"
)

var inviteFormat = regexp.MustCompile(`^[a-zA-Z0-9]{6}$`)

func setupTestUserService(gen codegen.Generator) (UserService, *mockDB) {
	repo, db := newMockRepository()
	return NewUserService(repo, gen, zap.NewNop()), db
}

// ── GetOrCreate / AssignInviteCode 测试 ──

func TestUserService_GetOrCreate_ReturnsExisting(t *testing.T) {
	svc, db := setupTestUserService(codegen.NewGenerator())
	existing := db.seedUser("u-1", "+12025550123", "AB12C3")

	got, err := svc.GetOrCreate(context.Background(), "+12025550123")
	if err != nil {
		t.Fatalf("GetOrCreate 失败: %v", err)
	}
	if got.UserID != existing.UserID || got.InviteCode != "AB12C3" {
		t.Errorf("应返回已有用户，实际=%+v", got)
	}
	if db.userCount() != 1 {
		t.Errorf("不应创建新用户，实际用户数=%d", db.userCount())
	}
}

func TestUserService_AssignInviteCode_RetriesOnCollision(t *testing.T) {
	gen := &scriptedGenerator{invites: []string{"AAAAAA", "AAAAAA", "BBBBBB"}}
	svc, db := setupTestUserService(gen)
	db.seedUser("u-1", "+12025550001", "AAAAAA")

	user, err := svc.GetOrCreate(context.Background(), "+12025550002")
	if err != nil {
		t.Fatalf("GetOrCreate 失败: %v", err)
	}
	if user.InviteCode != "BBBBBB" {
		t.Errorf("冲突后应重新生成邀请码，期望 BBBBBB，实际=%s", user.InviteCode)
	}
}

func TestUserService_AssignInviteCode_Exhausted(t *testing.T) {
	svc, db := setupTestUserService(constantGenerator{code: "AAAAAA"})
	db.seedUser("u-1", "+12025550001", "AAAAAA")

	_, err := svc.GetOrCreate(context.Background(), "+12025550002")
	if !errors.Is(err, ErrInviteCodeExhausted) {
		t.Fatalf("期望 ErrInviteCodeExhausted，实际: %v", err)
	}
	if db.userCount() != 1 {
		t.Errorf("分配失败时不应写入用户，实际用户数=%d", db.userCount())
	}
}

func TestUserService_AssignInviteCode_PhoneTaken(t *testing.T) {
	svc, db := setupTestUserService(codegen.NewGenerator())
	db.seedUser("u-1", "+12025550001", "AAAAAA")

	err := svc.AssignInviteCode(context.Background(), &model.User{UserID: "u-2", PhoneNumber: "+12025550001"})
	if !errors.Is(err, ErrPhoneTaken) {
		t.Errorf("期望 ErrPhoneTaken，实际: %v", err)
	}
}

func TestUserService_GetOrCreate_ConcurrentDistinctCodes(t *testing.T) {
	// 前 9 次返回同一个码，迫使并发创建者在唯一约束上冲突（少于重试上限）
	seed := make([]string, 9)
	for i := range seed {
		seed[i] = "SAME00"
	}
	svc, _ := setupTestUserService(&scriptedGenerator{invites: seed})

	const n = 50
	codes := make([]string, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u, err := svc.GetOrCreate(context.Background(), fmt.Sprintf("+1202555%04d", i))
			errs[i] = err
			if err == nil {
				codes[i] = u.InviteCode
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		if errs[i] != nil {
			t.Fatalf("第 %d 个用户创建失败: %v", i, errs[i])
		}
		if !inviteFormat.MatchString(codes[i]) {
			t.Errorf("邀请码格式错误: %q", codes[i])
		}
		if seen[codes[i]] {
			t.Errorf("邀请码重复: %s", codes[i])
		}
		seen[codes[i]] = true
	}
}

func TestUserService_GetOrCreate_ConcurrentSamePhone(t *testing.T) {
	svc, db := setupTestUserService(codegen.NewGenerator())

	const n = 20
	ids := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u, err := svc.GetOrCreate(context.Background(), "+12025550123")
			if err != nil {
				t.Errorf("GetOrCreate 失败: %v", err)
				return
			}
			ids[i] = u.UserID
		}(i)
	}
	wg.Wait()

	if db.userCount() != 1 {
		t.Fatalf("同一手机号并发创建应只产生 1 个用户，实际=%d", db.userCount())
	}
	for i := 1; i < n; i++ {
		if ids[i] != ids[0] {
			t.Errorf("所有请求应得到同一用户，%s != %s", ids[i], ids[0])
		}
	}
}

// ── Profile 测试 ──

func TestUserService_GetProfile(t *testing.T) {
	repo, db := newMockRepository()
	svc := NewUserService(repo, codegen.NewGenerator(), zap.NewNop())
	refSvc := NewReferralService(repo, zap.NewNop())
	ctx := context.Background()

	a := db.seedUser("u-a", "+12025550001", "AB12C3")
	db.seedUser("u-b", "+12025550002", "BBBBBB")
	db.seedUser("u-c", "+12025550003", "CCCCCC")

	if _, err := refSvc.Activate(ctx, "u-b", a.InviteCode); err != nil {
		t.Fatalf("Activate 失败: %v", err)
	}
	if _, err := refSvc.Activate(ctx, "u-a", "CCCCCC"); err != nil {
		t.Fatalf("Activate 失败: %v", err)
	}

	profile, err := svc.GetProfile(ctx, "u-a")
	if err != nil {
		t.Fatalf("GetProfile 失败: %v", err)
	}
	if profile.InviteCode != "AB12C3" {
		t.Errorf("期望邀请码 AB12C3，实际=%s", profile.InviteCode)
	}
	if profile.ActiveInviteCode == nil || *profile.ActiveInviteCode != "CCCCCC" {
		t.Errorf("期望已激活邀请码 CCCCCC，实际=%v", profile.ActiveInviteCode)
	}
	if len(profile.InvitedUsers) != 1 || profile.InvitedUsers[0] != "+12025550002" {
		t.Errorf("期望邀请列表 [+12025550002]，实际=%v", profile.InvitedUsers)
	}

	profileC, _ := svc.GetProfile(ctx, "u-c")
	if profileC.ActiveInviteCode != nil {
		t.Error("未激活用户的 active_invite_code 应为空")
	}
}

func TestUserService_GetProfile_NotFound(t *testing.T) {
	svc, _ := setupTestUserService(codegen.NewGenerator())

	_, err := svc.GetProfile(context.Background(), "nonexistent")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}
}

func TestUserService_UpdateProfile(t *testing.T) {
	svc, db := setupTestUserService(codegen.NewGenerator())
	db.seedUser("u-a", "+12025550001", "AAAAAA")
	db.seedUser("u-b", "+12025550002", "BBBBBB")
	ctx := context.Background()

	name := "alice"
	email := "alice@example.com"
	profile, err := svc.UpdateProfile(ctx, "u-a", &dto.UpdateProfileRequest{Username: &name, Email: &email})
	if err != nil {
		t.Fatalf("UpdateProfile 失败: %v", err)
	}
	if profile.Username == nil || *profile.Username != "alice" || profile.Email != email {
		t.Errorf("资料未更新: %+v", profile)
	}
	if profile.InviteCode != "AAAAAA" {
		t.Errorf("邀请码不应被修改，实际=%s", profile.InviteCode)
	}

	_, err = svc.UpdateProfile(ctx, "u-b", &dto.UpdateProfileRequest{Username: &name})
	if !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("期望 ErrUsernameTaken，实际: %v", err)
	}
}

func TestUserService_Delete_InviterKeepsReferral(t *testing.T) {
	repo, db := newMockRepository()
	svc := NewUserService(repo, codegen.NewGenerator(), zap.NewNop())
	refSvc := NewReferralService(repo, zap.NewNop())
	ctx := context.Background()

	db.seedUser("u-a", "+12025550001", "AAAAAA")
	db.seedUser("u-b", "+12025550002", "BBBBBB")
	if _, err := refSvc.Activate(ctx, "u-b", "AAAAAA"); err != nil {
		t.Fatalf("Activate 失败: %v", err)
	}

	if err := svc.Delete(ctx, "u-a"); err != nil {
		t.Fatalf("Delete 失败: %v", err)
	}

	ref, err := repo.Referral.GetByInvitee(ctx, "u-b")
	if err != nil {
		t.Fatalf("邀请人注销后邀请关系应保留: %v", err)
	}
	if ref.InviterID != nil {
		t.Error("邀请人注销后 inviter_id 应为空")
	}

	// 已激活状态不可逆
	if _, err := refSvc.Activate(ctx, "u-b", "AAAAAA"); !errors.Is(err, ErrAlreadyActivated) {
		t.Errorf("期望 ErrAlreadyActivated，实际: %v", err)
	}

	if err := svc.Delete(ctx, "u-a"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("重复删除期望 ErrUserNotFound，实际: %v", err)
	}
}

func TestUserService_List(t *testing.T) {
	svc, db := setupTestUserService(codegen.NewGenerator())
	for i := 0; i < 5; i++ {
		db.seedUser(fmt.Sprintf("u-%d", i), fmt.Sprintf("+1202555000%d", i), fmt.Sprintf("CODE0%d", i))
	}

	list, total, err := svc.List(context.Background(), &dto.UserListRequest{
		PaginationRequest: dto.PaginationRequest{Page: 2, PageSize: 2},
	})
	if err != nil {
		t.Fatalf("List 失败: %v", err)
	}
	if total != 5 {
		t.Errorf("期望 total=5，实际=%d", total)
	}
	if len(list) != 2 {
		t.Errorf("期望第 2 页 2 条，实际=%d", len(list))
	}
}
