package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/bissaliev/ReferalProject/internal/dto"
	"github.com/bissaliev/ReferalProject/internal/model"
	"github.com/bissaliev/ReferalProject/internal/repository"
	"github.com/bissaliev/ReferalProject/pkg/codegen"
	"github.com/bissaliev/ReferalProject/pkg/logger"
)

// maxInviteCodeAttempts 邀请码冲突时的最大重试次数
const maxInviteCodeAttempts = 10

// UserService 用户业务接口
type UserService interface {
	// GetOrCreate 按手机号查找用户，不存在时创建并分配邀请码
	GetOrCreate(ctx context.Context, phone string) (*model.User, error)
	// AssignInviteCode 为新用户生成邀请码并落库，邀请码冲突时重新生成
	AssignInviteCode(ctx context.Context, user *model.User) error
	GetProfile(ctx context.Context, id string) (*dto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, id string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*dto.UserResponse, error)
	List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error)
}

type userService struct {
	repo   *repository.Repository
	gen    codegen.Generator
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, gen codegen.Generator, logger *zap.Logger) UserService {
	return &userService{repo: repo, gen: gen, logger: logger}
}

// ────────────────────── GetOrCreate ──────────────────────

func (s *userService) GetOrCreate(ctx context.Context, phone string) (*model.User, error) {
	user, err := s.repo.User.GetByPhone(ctx, phone)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("按手机号查询用户失败", logger.Phone(phone), zap.Error(err))
		return nil, err
	}

	user = &model.User{
		UserID:      uuid.NewString(),
		PhoneNumber: phone,
	}
	if err := s.AssignInviteCode(ctx, user); err != nil {
		if !errors.Is(err, ErrPhoneTaken) {
			return nil, err
		}
		// 并发请求先一步创建了该用户，直接读取
		existing, err := s.repo.User.GetByPhone(ctx, phone)
		if err != nil {
			s.logger.Error("读取并发创建的用户失败", logger.Phone(phone), zap.Error(err))
			return nil, err
		}
		return existing, nil
	}

	s.logger.Info("新用户已创建", zap.String("user_id", user.UserID), logger.Phone(phone))
	return user, nil
}

// ────────────────────── AssignInviteCode ──────────────────────

func (s *userService) AssignInviteCode(ctx context.Context, user *model.User) error {
	for attempt := 1; attempt <= maxInviteCodeAttempts; attempt++ {
		code, err := s.gen.InviteCode()
		if err != nil {
			s.logger.Error("生成邀请码失败", zap.Error(err))
			return err
		}
		user.InviteCode = code

		created, err := s.repo.User.CreateIfPhoneAbsent(ctx, user)
		switch {
		case err == nil && created:
			return nil
		case err == nil:
			return ErrPhoneTaken
		case errors.Is(err, gorm.ErrDuplicatedKey):
			s.logger.Debug("邀请码冲突，重新生成", zap.Int("attempt", attempt))
		default:
			s.logger.Error("创建用户失败", logger.Phone(user.PhoneNumber), zap.Error(err))
			return err
		}
	}

	user.InviteCode = ""
	s.logger.Error("邀请码重试次数耗尽", zap.Int("attempts", maxInviteCodeAttempts))
	return ErrInviteCodeExhausted
}

// ────────────────────── Profile ──────────────────────

func (s *userService) GetProfile(ctx context.Context, id string) (*dto.ProfileResponse, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}

	invited, err := s.repo.Referral.ListByInviter(ctx, id)
	if err != nil {
		s.logger.Error("查询邀请列表失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	phones := make([]string, 0, len(invited))
	for _, r := range invited {
		if r.Invitee != nil {
			phones = append(phones, r.Invitee.PhoneNumber)
		}
	}

	var active *string
	if user.Referral != nil {
		code := user.Referral.ActivatedInviteCode
		active = &code
	}

	return &dto.ProfileResponse{
		UserResponse:     toUserResponse(user),
		ActiveInviteCode: active,
		InvitedUsers:     phones,
		CreatedAt:        user.CreatedAt.Format(time.RFC3339),
	}, nil
}

func (s *userService) UpdateProfile(ctx context.Context, id string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}

	// 应用更新字段（仅更新非 nil 字段）
	if req.Username != nil {
		user.Username = req.Username
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}

	if err := s.repo.User.UpdateProfile(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		s.logger.Error("更新用户资料失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.GetProfile(ctx, id)
}

func (s *userService) Delete(ctx context.Context, id string) error {
	if err := s.repo.User.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("删除用户失败", zap.String("id", id), zap.Error(err))
		return err
	}
	s.logger.Info("用户已注销", zap.String("id", id))
	return nil
}

// ────────────────────── Directory ──────────────────────

func (s *userService) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error) {
	users, total, err := s.repo.User.List(ctx, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出用户失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, toUserResponse(&users[i]))
	}
	return result, total, nil
}

// ── 辅助函数 ──

func (s *userService) getUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return user, nil
}

func toUserResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:          u.UserID,
		PhoneNumber: u.PhoneNumber,
		Username:    u.Username,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		InviteCode:  u.InviteCode,
	}
}
