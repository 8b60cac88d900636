package model

import "time"

// Referral 邀请关系表，对应 referrals
// 每个被邀请人至多一条记录（invitee_id 唯一）；邀请人注销后 inviter_id 置空
type Referral struct {
	ReferralID          string    `gorm:"type:uuid;primaryKey"                  json:"referral_id"`
	InviterID           *string   `gorm:"type:uuid;index"                       json:"inviter_id"`
	InviteeID           string    `gorm:"type:uuid;not null;uniqueIndex"        json:"invitee_id"`
	ActivatedInviteCode string    `gorm:"type:char(6);not null"                 json:"activated_invite_code"`
	CreatedAt           time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"    json:"created_at"`

	// 关联
	Inviter *User `gorm:"foreignKey:InviterID;references:UserID" json:"inviter,omitempty"`
	Invitee *User `gorm:"foreignKey:InviteeID;references:UserID" json:"invitee,omitempty"`
}

// TableName 指定表名
func (Referral) TableName() string { return "referrals" }
