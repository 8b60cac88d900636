package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bissaliev/ReferalProject/internal/service"
	"github.com/bissaliev/ReferalProject/pkg/response"
)

// bizError 业务错误到 HTTP 状态码与业务码的映射
type bizError struct {
	err    error
	status int
	code   int
}

var bizErrors = []bizError{
	// 认证模块 11xxx
	{service.ErrInvalidPhoneFormat, http.StatusBadRequest, 11001},
	{service.ErrInvalidOrExpiredCode, http.StatusBadRequest, 11002},
	// 邀请模块 12xxx
	{service.ErrInvalidInviteCodeFormat, http.StatusBadRequest, 12001},
	{service.ErrInviteCodeNotFound, http.StatusNotFound, 12002},
	{service.ErrSelfInviteNotAllowed, http.StatusBadRequest, 12003},
	{service.ErrAlreadyActivated, http.StatusConflict, 12004},
	// 用户模块 20xxx
	{service.ErrUserNotFound, http.StatusNotFound, 20001},
	{service.ErrUsernameTaken, http.StatusConflict, 20002},
	{service.ErrInviteCodeExhausted, http.StatusServiceUnavailable, 20003},
}

// handleServiceError 将 Service 层错误写为统一响应；未知错误一律 500
func handleServiceError(c *gin.Context, err error) {
	for _, be := range bizErrors {
		if errors.Is(err, be.err) {
			response.Error(c, be.status, be.code, be.err.Error())
			return
		}
	}
	_ = c.Error(err)
	response.InternalError(c)
}
