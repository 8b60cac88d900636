package service

import "errors"

// ── 认证模块业务错误 ──

var (
	ErrInvalidPhoneFormat   = errors.New("手机号格式无效，应为 10-15 位数字，可带前导 +")
	ErrInvalidOrExpiredCode = errors.New("验证码错误或已过期")
)

// ── 邀请模块业务错误 ──

var (
	ErrInvalidInviteCodeFormat = errors.New("邀请码格式无效，应为 6 位字母或数字")
	ErrInviteCodeNotFound      = errors.New("邀请码不存在")
	ErrSelfInviteNotAllowed    = errors.New("不能激活自己的邀请码")
	ErrAlreadyActivated        = errors.New("已激活过邀请码")
)

// ── 用户模块业务错误 ──

var (
	ErrUserNotFound  = errors.New("用户不存在")
	ErrUsernameTaken = errors.New("用户名已被占用")
	// ErrPhoneTaken 并发请求已为该手机号创建用户
	ErrPhoneTaken = errors.New("手机号已注册")
	// ErrInviteCodeExhausted 多次生成的邀请码均与已有邀请码冲突
	ErrInviteCodeExhausted = errors.New("邀请码分配失败，请稍后重试")
	ErrExportGenerateFail  = errors.New("生成 Excel 文件失败")
)
