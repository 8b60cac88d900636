package dto

// ── 认证模块响应 ──

// RequestCodeResponse 验证码已发送响应
// ConfirmationCode 仅在开启回显开关时返回
type RequestCodeResponse struct {
	PhoneNumber      string `json:"phone_number"`
	ExpiresIn        int    `json:"expires_in"` // 验证码有效期（秒）
	ConfirmationCode string `json:"confirmation_code,omitempty"`
}

// TokenResponse 登录成功响应
type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	ExpiresIn   int          `json:"expires_in"` // Access Token 有效期（秒）
	User        UserResponse `json:"user"`
}

// ── 用户模块响应 ──

// UserResponse 用户公开信息
type UserResponse struct {
	ID          string  `json:"id"`
	PhoneNumber string  `json:"phone_number"`
	Username    *string `json:"username"`
	Email       string  `json:"email"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	InviteCode  string  `json:"invite_code"`
}

// ProfileResponse 个人资料（GET /users/me）
type ProfileResponse struct {
	UserResponse
	ActiveInviteCode *string  `json:"active_invite_code"`
	InvitedUsers     []string `json:"invited_users"`
	CreatedAt        string   `json:"created_at"`
}

// ── 邀请模块响应 ──

// ReferralResponse 邀请关系
type ReferralResponse struct {
	InviterID           *string `json:"inviter_id"`
	InviteeID           string  `json:"invitee_id"`
	ActivatedInviteCode string  `json:"activated_invite_code"`
	CreatedAt           string  `json:"created_at"`
}

// InvitedUserResponse 被邀请人信息
type InvitedUserResponse struct {
	ID          string `json:"id"`
	PhoneNumber string `json:"phone_number"`
	ActivatedAt string `json:"activated_at"`
}

// ── 分页请求 ──

// PaginationRequest 通用分页参数
type PaginationRequest struct {
	Page     int `form:"page"      binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// GetPage 获取页码（含默认值）
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// GetPageSize 获取每页数量（含默认值）
func (p *PaginationRequest) GetPageSize() int {
	if p.PageSize <= 0 {
		return 20
	}
	return p.PageSize
}

// GetOffset 计算偏移量
func (p *PaginationRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}
