package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/audlex/audlex-api/internal/models"
	appErrors "github.com/audlex/audlex-api/pkg/errors"
)

type userRepository interface {
	List(ctx context.Context) ([]models.UserInfo, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, user *models.User) error
}

// RegisterUserRequest holds the payload for registering a user.
type RegisterUserRequest struct {
	Name     string `validate:"required,max=100"`
	Password string `validate:"required"`
	Level    int    `validate:"min=1,max=3"`
}

// UserService manages the user directory.
type UserService struct {
	repo      userRepository
	validator *validator.Validate
	logger    *zap.Logger
	cache     *CacheService
}

// NewUserService constructs the user service. cache may be nil.
func NewUserService(repo userRepository, validate *validator.Validate, logger *zap.Logger, cache *CacheService) *UserService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{repo: repo, validator: validate, logger: logger, cache: cache}
}

// List returns all users without credentials.
func (s *UserService) List(ctx context.Context) ([]models.UserInfo, error) {
	var cached []models.UserInfo
	if s.cache.Get(ctx, userListCacheKey, &cached) {
		return cached, nil
	}

	users, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to fetch users", zap.Error(err))
		return nil, appErrors.Internal(err, "failed to fetch users")
	}
	s.cache.Set(ctx, userListCacheKey, users, 0)
	return users, nil
}

// Register creates a user with a bcrypt password hash.
func (s *UserService) Register(ctx context.Context, req RegisterUserRequest) (*models.UserInfo, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "name must not be empty and level must be between 1 and 3")
	}

	exists, err := s.repo.ExistsByName(ctx, req.Name)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to validate user name")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "user name already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to hash password")
	}

	user := &models.User{Name: req.Name, PasswordHash: string(hash), Level: req.Level}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, appErrors.Internal(err, "failed to create user")
	}
	s.cache.Invalidate(ctx, userListCacheKey)
	s.logger.Info("user registered", zap.Int64("user_id", user.ID), zap.Int("level", user.Level))

	info := user.Info()
	return &info, nil
}
