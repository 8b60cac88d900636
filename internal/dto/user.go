package dto

// ── 用户模块 DTO ──

// UserListRequest 用户列表查询参数
type UserListRequest struct {
	PaginationRequest
}

// UpdateProfileRequest 更新个人资料请求（仅更新非 nil 字段）
type UpdateProfileRequest struct {
	Username  *string `json:"username"   binding:"omitempty,min=1,max=150,alphanum"`
	Email     *string `json:"email"      binding:"omitempty,email,max=254"`
	FirstName *string `json:"first_name" binding:"omitempty,max=150"`
	LastName  *string `json:"last_name"  binding:"omitempty,max=150"`
}
