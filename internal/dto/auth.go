package dto

// ── 认证模块 DTO ──

// PhoneRequest 提交手机号请求验证码
type PhoneRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required"`
}

// VerifyRequest 提交手机号与验证码登录
type VerifyRequest struct {
	PhoneNumber      string `json:"phone_number"      binding:"required"`
	ConfirmationCode string `json:"confirmation_code" binding:"required"`
}
