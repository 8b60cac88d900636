package handler

import "github.com/bissaliev/ReferalProject/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth     *AuthHandler
	User     *UserHandler
	Referral *ReferralHandler
	Export   *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(svc.Auth),
		User:     NewUserHandler(svc.User),
		Referral: NewReferralHandler(svc.Referral),
		Export:   NewExportHandler(svc.Export),
	}
}
