package dto

// ── 邀请模块 DTO ──

// ActivateInviteRequest 激活他人邀请码请求
type ActivateInviteRequest struct {
	InviteCode string `json:"invite_code" binding:"required"`
}
