package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/bissaliev/ReferalProject/internal/model"
)

// ReferralRepository 邀请关系数据访问接口
type ReferralRepository interface {
	// Create 写入邀请关系；同一被邀请人重复写入以 gorm.ErrDuplicatedKey 返回
	Create(ctx context.Context, referral *model.Referral) error
	GetByInvitee(ctx context.Context, inviteeID string) (*model.Referral, error)
	// ListByInviter 按激活时间顺序列出某邀请人的全部邀请关系（含被邀请人信息）
	ListByInviter(ctx context.Context, inviterID string) ([]model.Referral, error)
}

type referralRepo struct {
	db *gorm.DB
}

// NewReferralRepo 创建 ReferralRepository 实例
func NewReferralRepo(db *gorm.DB) ReferralRepository {
	return &referralRepo{db: db}
}

func (r *referralRepo) Create(ctx context.Context, referral *model.Referral) error {
	return r.db.WithContext(ctx).Create(referral).Error
}

func (r *referralRepo) GetByInvitee(ctx context.Context, inviteeID string) (*model.Referral, error) {
	var referral model.Referral
	err := r.db.WithContext(ctx).
		Where("invitee_id = ?", inviteeID).
		First(&referral).Error
	if err != nil {
		return nil, err
	}
	return &referral, nil
}

func (r *referralRepo) ListByInviter(ctx context.Context, inviterID string) ([]model.Referral, error) {
	var referrals []model.Referral
	err := r.db.WithContext(ctx).
		Preload("Invitee").
		Where("inviter_id = ?", inviterID).
		Order("created_at ASC").
		Find(&referrals).Error
	if err != nil {
		return nil, err
	}
	return referrals, nil
}
