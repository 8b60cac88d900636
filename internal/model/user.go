package model

// User 用户表，对应 users
// PhoneNumber 与 InviteCode 全局唯一；InviteCode 创建后不再变更
type User struct {
	UserID      string  `gorm:"type:uuid;primaryKey"                  json:"user_id"`
	PhoneNumber string  `gorm:"type:varchar(16);not null;uniqueIndex" json:"phone_number"`
	InviteCode  string  `gorm:"type:char(6);not null;uniqueIndex"     json:"invite_code"`
	Username    *string `gorm:"type:varchar(150);uniqueIndex"         json:"username,omitempty"`
	Email       string  `gorm:"type:varchar(254);not null;default:''" json:"email"`
	FirstName   string  `gorm:"type:varchar(150);not null;default:''" json:"first_name"`
	LastName    string  `gorm:"type:varchar(150);not null;default:''" json:"last_name"`
	BaseModel

	// 关联
	Referral *Referral `gorm:"foreignKey:InviteeID;references:UserID" json:"referral,omitempty"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }
