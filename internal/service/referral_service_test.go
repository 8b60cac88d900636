package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestReferralService() (ReferralService, *mockDB) {
	repo, db := newMockRepository()
	return NewReferralService(repo, zap.NewNop()), db
}

func TestReferralService_Activate_Scenario(t *testing.T) {
	svc, db := setupTestReferralService()
	ctx := context.Background()
	db.seedUser("u-a", "+12025550001", "AB12C3")
	db.seedUser("u-b", "+12025550002", "BBBBBB")

	ref, err := svc.Activate(ctx, "u-b", "AB12C3")
	require.NoError(t, err)
	require.NotNil(t, ref.InviterID)
	assert.Equal(t, "u-a", *ref.InviterID)
	assert.Equal(t, "u-b", ref.InviteeID)
	assert.Equal(t, "AB12C3", ref.ActivatedInviteCode)
	assert.NotEmpty(t, ref.CreatedAt)

	_, err = svc.Activate(ctx, "u-b", "AB12C3")
	assert.ErrorIs(t, err, ErrAlreadyActivated)

	invited, err := svc.ListInvited(ctx, "u-a")
	require.NoError(t, err)
	require.Len(t, invited, 1)
	assert.Equal(t, "+12025550002", invited[0].PhoneNumber)
}

func TestReferralService_Activate_SecondCodeRejected(t *testing.T) {
	svc, db := setupTestReferralService()
	ctx := context.Background()
	db.seedUser("u-a", "+12025550001", "AAAAAA")
	db.seedUser("u-c", "+12025550003", "CCCCCC")
	db.seedUser("u-b", "+12025550002", "BBBBBB")

	_, err := svc.Activate(ctx, "u-b", "AAAAAA")
	require.NoError(t, err)

	_, err = svc.Activate(ctx, "u-b", "CCCCCC")
	assert.ErrorIs(t, err, ErrAlreadyActivated, "换一个有效邀请码也不能再次激活")
}

func TestReferralService_Activate_SelfInvite(t *testing.T) {
	svc, db := setupTestReferralService()
	db.seedUser("u-a", "+12025550001", "AB12C3")

	_, err := svc.Activate(context.Background(), "u-a", "AB12C3")
	assert.ErrorIs(t, err, ErrSelfInviteNotAllowed)
}

func TestReferralService_Activate_UnknownCode(t *testing.T) {
	svc, db := setupTestReferralService()
	db.seedUser("u-a", "+12025550001", "AB12C3")

	_, err := svc.Activate(context.Background(), "u-a", "ZZZZZZ")
	assert.ErrorIs(t, err, ErrInviteCodeNotFound)
}

func TestReferralService_Activate_CaseSensitive(t *testing.T) {
	svc, db := setupTestReferralService()
	db.seedUser("u-a", "+12025550001", "AB12C3")
	db.seedUser("u-b", "+12025550002", "BBBBBB")

	_, err := svc.Activate(context.Background(), "u-b", "ab12c3")
	assert.ErrorIs(t, err, ErrInviteCodeNotFound)
}

func TestReferralService_Activate_InvalidFormat(t *testing.T) {
	svc, db := setupTestReferralService()
	db.seedUser("u-a", "+12025550001", "AB12C3")

	for _, code := range []string{"", "AB12C", "AB12C34", "AB-2C3", "AB 2C3", "АБ12C3"} {
		_, err := svc.Activate(context.Background(), "u-a", code)
		assert.ErrorIs(t, err, ErrInvalidInviteCodeFormat, "code=%q", code)
	}
}

func TestReferralService_Activate_AlreadyActivatedCheckedFirst(t *testing.T) {
	svc, db := setupTestReferralService()
	ctx := context.Background()
	db.seedUser("u-a", "+12025550001", "AAAAAA")
	db.seedUser("u-b", "+12025550002", "BBBBBB")

	_, err := svc.Activate(ctx, "u-b", "AAAAAA")
	require.NoError(t, err)

	// 已激活用户提交自己的码或不存在的码，均返回 ErrAlreadyActivated
	_, err = svc.Activate(ctx, "u-b", "BBBBBB")
	assert.ErrorIs(t, err, ErrAlreadyActivated)
	_, err = svc.Activate(ctx, "u-b", "ZZZZZZ")
	assert.ErrorIs(t, err, ErrAlreadyActivated)
}

func TestReferralService_Activate_UnknownInvitee(t *testing.T) {
	svc, db := setupTestReferralService()
	db.seedUser("u-a", "+12025550001", "AAAAAA")

	_, err := svc.Activate(context.Background(), "ghost", "AAAAAA")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestReferralService_Activate_ConcurrentSingleWinner(t *testing.T) {
	svc, db := setupTestReferralService()
	ctx := context.Background()
	db.seedUser("u-x", "+12025550000", "XXXXXX")
	codes := []string{"AAAAAA", "BBBBBB", "CCCCCC", "DDDDDD", "EEEEEE"}
	for i, c := range codes {
		db.seedUser("inviter-"+c, "+1202555100"+string(rune('0'+i)), c)
	}

	var mu sync.Mutex
	var wins, already int
	var wg sync.WaitGroup
	for _, c := range codes {
		for j := 0; j < 4; j++ {
			wg.Add(1)
			go func(code string) {
				defer wg.Done()
				_, err := svc.Activate(ctx, "u-x", code)
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					wins++
				case assert.ErrorIs(t, err, ErrAlreadyActivated):
					already++
				}
			}(c)
		}
	}
	wg.Wait()

	assert.Equal(t, 1, wins, "并发激活应恰好成功一次")
	assert.Equal(t, len(codes)*4-1, already)
}

func TestReferralService_ListInvited_Empty(t *testing.T) {
	svc, db := setupTestReferralService()
	db.seedUser("u-a", "+12025550001", "AAAAAA")

	invited, err := svc.ListInvited(context.Background(), "u-a")
	require.NoError(t, err)
	assert.Empty(t, invited)
	assert.NotNil(t, invited)
}
