package service

import (
	"go.uber.org/zap"

	"github.com/bissaliev/ReferalProject/config"
	"github.com/bissaliev/ReferalProject/internal/repository"
	"github.com/bissaliev/ReferalProject/pkg/codegen"
	"github.com/bissaliev/ReferalProject/pkg/notify"
	"github.com/bissaliev/ReferalProject/pkg/verification"
)

// Deps Service 层依赖的外部协作方
type Deps struct {
	Store   verification.Store
	Sender  notify.Sender
	Gen     codegen.Generator
	Tokens  TokenIssuer
	Revoker TokenRevoker // Redis 不可用时为 nil
}

// Service 所有 Service 的聚合入口
type Service struct {
	Auth     AuthService
	User     UserService
	Referral ReferralService
	Export   ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	deps Deps,
	logger *zap.Logger,
) *Service {
	user := NewUserService(repo, deps.Gen, logger)
	return &Service{
		Auth:     NewAuthService(cfg, user, deps.Store, deps.Sender, deps.Gen, deps.Tokens, deps.Revoker, logger),
		User:     user,
		Referral: NewReferralService(repo, logger),
		Export:   NewExportService(repo, logger),
	}
}
