package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/bissaliev/ReferalProject/config"
	"github.com/bissaliev/ReferalProject/internal/dto"
	"github.com/bissaliev/ReferalProject/pkg/codegen"
	"github.com/bissaliev/ReferalProject/pkg/logger"
	"github.com/bissaliev/ReferalProject/pkg/notify"
	"github.com/bissaliev/ReferalProject/pkg/verification"
)

// TokenIssuer 会话令牌签发方，由 pkg/jwt.Manager 实现
type TokenIssuer interface {
	GenerateAccessToken(userID, phoneNumber string) (string, error)
	AccessTokenTTL() time.Duration
}

// TokenRevoker Token 吊销（黑名单），由 pkg/redis.Client 实现；Redis 不可用时为 nil
type TokenRevoker interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
}

// AuthService 认证业务接口
type AuthService interface {
	// RequestCode 为手机号生成验证码并投递；用户不存在时自动创建
	RequestCode(ctx context.Context, phone string) (*dto.RequestCodeResponse, error)
	// VerifyAndLogin 校验验证码（成功即消费）并签发会话令牌
	VerifyAndLogin(ctx context.Context, phone, code string) (*dto.TokenResponse, error)
	// Logout 吊销当前 Token 直至其自然过期
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
}

type authService struct {
	cfg     *config.Config
	users   UserService
	store   verification.Store
	sender  notify.Sender
	gen     codegen.Generator
	tokens  TokenIssuer
	revoker TokenRevoker
	logger  *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(
	cfg *config.Config,
	users UserService,
	store verification.Store,
	sender notify.Sender,
	gen codegen.Generator,
	tokens TokenIssuer,
	revoker TokenRevoker,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:     cfg,
		users:   users,
		store:   store,
		sender:  sender,
		gen:     gen,
		tokens:  tokens,
		revoker: revoker,
		logger:  logger,
	}
}

func (s *authService) RequestCode(ctx context.Context, phone string) (*dto.RequestCodeResponse, error) {
	// 1. 格式校验先于任何存储访问
	if err := ValidatePhone(phone); err != nil {
		return nil, err
	}

	// 2. 查找或创建用户
	if _, err := s.users.GetOrCreate(ctx, phone); err != nil {
		return nil, err
	}

	// 3. 生成并保存验证码（覆盖旧验证码）
	code, err := s.gen.ConfirmationCode()
	if err != nil {
		s.logger.Error("生成验证码失败", zap.Error(err))
		return nil, err
	}
	if err := s.store.Put(ctx, phone, code); err != nil {
		s.logger.Error("保存验证码失败", logger.Phone(phone), zap.Error(err))
		return nil, err
	}

	// 4. 投递验证码，失败仅记录日志
	if err := s.sender.Send(ctx, phone, code); err != nil {
		s.logger.Warn("验证码投递失败", logger.Phone(phone), zap.Error(err))
	}

	resp := &dto.RequestCodeResponse{
		PhoneNumber: phone,
		ExpiresIn:   int(s.cfg.Verification.CodeTTL.Seconds()),
	}
	if s.cfg.Feature.ExposeConfirmationCode {
		resp.ConfirmationCode = code
	}
	return resp, nil
}

func (s *authService) VerifyAndLogin(ctx context.Context, phone, code string) (*dto.TokenResponse, error) {
	if err := ValidatePhone(phone); err != nil {
		return nil, err
	}

	ok, err := s.store.Verify(ctx, phone, code)
	if err != nil {
		s.logger.Error("校验验证码失败", logger.Phone(phone), zap.Error(err))
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidOrExpiredCode
	}

	user, err := s.users.GetOrCreate(ctx, phone)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.GenerateAccessToken(user.UserID, user.PhoneNumber)
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("用户登录成功", zap.String("user_id", user.UserID), logger.Phone(phone))

	return &dto.TokenResponse{
		AccessToken: token,
		ExpiresIn:   int(s.tokens.AccessTokenTTL().Seconds()),
		User:        toUserResponse(user),
	}, nil
}

func (s *authService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if s.revoker == nil {
		s.logger.Warn("Redis 不可用，Token 无法加入黑名单", zap.String("jti", jti))
		return nil
	}
	if err := s.revoker.BlacklistToken(ctx, jti, time.Until(expiresAt)); err != nil {
		s.logger.Error("Token 加入黑名单失败", zap.String("jti", jti), zap.Error(err))
		return err
	}
	return nil
}
