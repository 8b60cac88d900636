package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/bissaliev/ReferalProject/internal/dto"
	"github.com/bissaliev/ReferalProject/internal/service"
	"github.com/bissaliev/ReferalProject/pkg/response"
)

// ReferralHandler 邀请模块 HTTP 处理器
type ReferralHandler struct {
	referralSvc service.ReferralService
}

// NewReferralHandler 创建 ReferralHandler
func NewReferralHandler(referralSvc service.ReferralService) *ReferralHandler {
	return &ReferralHandler{referralSvc: referralSvc}
}

// ActivateInviteCode 激活他人邀请码
// POST /api/v1/users/me/activate-invite-code
func (h *ReferralHandler) ActivateInviteCode(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ActivateInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	referral, err := h.referralSvc.Activate(c.Request.Context(), userID, req.InviteCode)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, referral)
}

// ListInvited 当前用户邀请的用户列表
// GET /api/v1/users/me/invited
func (h *ReferralHandler) ListInvited(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	invited, err := h.referralSvc.ListInvited(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, invited)
}
