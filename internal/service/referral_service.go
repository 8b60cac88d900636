package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/bissaliev/ReferalProject/internal/dto"
	"github.com/bissaliev/ReferalProject/internal/model"
	"github.com/bissaliev/ReferalProject/internal/repository"
)

// ReferralService 邀请关系业务接口
//
// 用户状态只有 未激活 → 已激活 一次转换，已激活为终态。
// 激活检查按固定顺序短路执行，全部通过前不写入任何数据。
type ReferralService interface {
	// Activate 为当前用户激活他人的邀请码
	Activate(ctx context.Context, inviteeID, code string) (*dto.ReferralResponse, error)
	// ListInvited 列出通过当前用户邀请码激活的全部用户
	ListInvited(ctx context.Context, inviterID string) ([]dto.InvitedUserResponse, error)
}

type referralService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewReferralService 创建 ReferralService 实例
func NewReferralService(repo *repository.Repository, logger *zap.Logger) ReferralService {
	return &referralService{repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// Activate
// ═══════════════════════════════════════════════════════════
//
// 检查顺序：
//  1. 被邀请人已有邀请关系 → ErrAlreadyActivated
//  2. 提交的邀请码就是自己的邀请码 → ErrSelfInviteNotAllowed
//  3. 邀请码无人持有 → ErrInviteCodeNotFound
//  4. 解析出的邀请人就是自己 → ErrSelfInviteNotAllowed
//  5. 写入；invitee_id 唯一约束冲突说明并发激活已成功 → ErrAlreadyActivated

func (s *referralService) Activate(ctx context.Context, inviteeID, code string) (*dto.ReferralResponse, error) {
	if err := ValidateInviteCode(code); err != nil {
		return nil, err
	}

	invitee, err := s.repo.User.GetByID(ctx, inviteeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询被邀请人失败", zap.String("invitee_id", inviteeID), zap.Error(err))
		return nil, err
	}

	// 1
	if _, err := s.repo.Referral.GetByInvitee(ctx, inviteeID); err == nil {
		return nil, ErrAlreadyActivated
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询邀请关系失败", zap.String("invitee_id", inviteeID), zap.Error(err))
		return nil, err
	}

	// 2
	if code == invitee.InviteCode {
		return nil, ErrSelfInviteNotAllowed
	}

	// 3
	inviter, err := s.repo.User.GetByInviteCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInviteCodeNotFound
		}
		s.logger.Error("按邀请码查询用户失败", zap.Error(err))
		return nil, err
	}

	// 4
	if inviter.UserID == invitee.UserID {
		return nil, ErrSelfInviteNotAllowed
	}

	// 5
	referral := &model.Referral{
		ReferralID:          uuid.NewString(),
		InviterID:           &inviter.UserID,
		InviteeID:           invitee.UserID,
		ActivatedInviteCode: code,
		CreatedAt:           time.Now(),
	}
	if err := s.repo.Referral.Create(ctx, referral); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyActivated
		}
		s.logger.Error("创建邀请关系失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("邀请码已激活",
		zap.String("inviter_id", inviter.UserID),
		zap.String("invitee_id", invitee.UserID),
	)

	return toReferralResponse(referral), nil
}

// ═══════════════════════════════════════════════════════════
// ListInvited
// ═══════════════════════════════════════════════════════════

func (s *referralService) ListInvited(ctx context.Context, inviterID string) ([]dto.InvitedUserResponse, error) {
	referrals, err := s.repo.Referral.ListByInviter(ctx, inviterID)
	if err != nil {
		s.logger.Error("查询邀请列表失败", zap.String("inviter_id", inviterID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.InvitedUserResponse, 0, len(referrals))
	for _, r := range referrals {
		item := dto.InvitedUserResponse{
			ID:          r.InviteeID,
			ActivatedAt: r.CreatedAt.Format(time.RFC3339),
		}
		if r.Invitee != nil {
			item.PhoneNumber = r.Invitee.PhoneNumber
		}
		result = append(result, item)
	}
	return result, nil
}

func toReferralResponse(r *model.Referral) *dto.ReferralResponse {
	return &dto.ReferralResponse{
		InviterID:           r.InviterID,
		InviteeID:           r.InviteeID,
		ActivatedInviteCode: r.ActivatedInviteCode,
		CreatedAt:           r.CreatedAt.Format(time.RFC3339),
	}
}
