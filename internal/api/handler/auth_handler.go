package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/bissaliev/ReferalProject/internal/dto"
	"github.com/bissaliev/ReferalProject/internal/service"
	"github.com/bissaliev/ReferalProject/pkg/response"
)

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// RequestCode 提交手机号获取验证码
// POST /api/v1/auth/phone
func (h *AuthHandler) RequestCode(c *gin.Context) {
	var req dto.PhoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.authSvc.RequestCode(c.Request.Context(), req.PhoneNumber)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, result)
}

// Verify 校验验证码并登录
// POST /api/v1/auth/verify
func (h *AuthHandler) Verify(c *gin.Context) {
	var req dto.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.authSvc.VerifyAndLogin(c.Request.Context(), req.PhoneNumber, req.ConfirmationCode)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, result)
}

// Logout 登出，当前 Token 加入黑名单
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	jti, exp, ok := MustGetToken(c)
	if !ok {
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), jti, exp); err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, nil)
}
