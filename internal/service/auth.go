package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/product-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/product-catalog/internal/auth"
	"github.com/tuanvumaihuynh/product-catalog/internal/model"
	"github.com/tuanvumaihuynh/product-catalog/internal/ratelimit"
	"github.com/tuanvumaihuynh/product-catalog/internal/repository"
	"github.com/tuanvumaihuynh/product-catalog/pkg/validator"
)

type TokenIssuer interface {
	Issue(identity auth.Identity) (string, error)
}

type LoginParams struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterParams struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Name     string `json:"name" validate:"required,max=100"`
}

type AuthResult struct {
	Token string
	Admin model.Admin
}

type AuthService interface {
	Login(ctx context.Context, params LoginParams) (AuthResult, error)
	Register(ctx context.Context, params RegisterParams) (AuthResult, error)
	GetAdmin(ctx context.Context, id uuid.UUID) (model.Admin, error)
}

type authService struct {
	logger     *slog.Logger
	validator  validator.Validator
	adminRepo  repository.AdminRepository
	tokens     TokenIssuer
	limiter    ratelimit.Limiter
	bcryptCost int
	now        func() time.Time
}

func NewAuthService(
	logger *slog.Logger,
	validator validator.Validator,
	adminRepo repository.AdminRepository,
	tokens TokenIssuer,
	limiter ratelimit.Limiter,
	bcryptCost int,
) AuthService {
	return &authService{
		logger:     logger.With(slog.String("service", "auth")),
		validator:  validator,
		adminRepo:  adminRepo,
		tokens:     tokens,
		limiter:    limiter,
		bcryptCost: bcryptCost,
		now:        time.Now,
	}
}

func (s *authService) Login(ctx context.Context, params LoginParams) (AuthResult, error) {
	params.Email = repository.NormalizeEmail(params.Email)

	if err := s.validator.Validate(params); err != nil {
		return AuthResult{}, fmt.Errorf("validate params: %w", err)
	}

	allowed, err := s.limiter.Allow(ctx, params.Email)
	if err != nil {
		// Fail open when the limiter is unavailable.
		s.logger.WarnContext(ctx, "login rate limiter unavailable", slog.Any("error", err))
		allowed = true
	}
	if !allowed {
		return AuthResult{}, apperr.TooManyAttemptsErr
	}

	admin, err := s.adminRepo.GetAdminByEmail(ctx, params.Email)
	if err != nil {
		if errors.Is(err, apperr.AdminNotFoundErr) {
			return AuthResult{}, apperr.InvalidCredentialsErr
		}
		return AuthResult{}, fmt.Errorf("admin repository get admin by email: %w", err)
	}

	ok, err := auth.CheckPassword(admin.PasswordHash, params.Password)
	if err != nil {
		return AuthResult{}, fmt.Errorf("check password: %w", err)
	}
	if !ok {
		return AuthResult{}, apperr.InvalidCredentialsErr
	}

	if err := s.limiter.Reset(ctx, params.Email); err != nil {
		s.logger.WarnContext(ctx, "error resetting login rate limit", slog.Any("error", err))
	}

	return s.issue(admin)
}

func (s *authService) Register(ctx context.Context, params RegisterParams) (AuthResult, error) {
	params.Email = repository.NormalizeEmail(params.Email)
	params.Name = strings.TrimSpace(params.Name)

	if err := s.validator.Validate(params); err != nil {
		return AuthResult{}, fmt.Errorf("validate params: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return AuthResult{}, fmt.Errorf("generate uuid v7: %w", err)
	}

	hash, err := auth.HashPassword(params.Password, s.bcryptCost)
	if err != nil {
		return AuthResult{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	admin := model.Admin{
		ID:           id,
		Email:        params.Email,
		PasswordHash: hash,
		Name:         params.Name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.adminRepo.CreateAdmin(ctx, admin); err != nil {
		return AuthResult{}, fmt.Errorf("admin repository create admin: %w", err)
	}

	return s.issue(admin)
}

func (s *authService) GetAdmin(ctx context.Context, id uuid.UUID) (model.Admin, error) {
	admin, err := s.adminRepo.GetAdminByID(ctx, id)
	if err != nil {
		return model.Admin{}, fmt.Errorf("admin repository get admin by id: %w", err)
	}

	return admin, nil
}

func (s *authService) issue(admin model.Admin) (AuthResult, error) {
	token, err := s.tokens.Issue(auth.Identity{
		AdminID: admin.ID,
		Email:   admin.Email,
	})
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue token: %w", err)
	}

	return AuthResult{
		Token: token,
		Admin: admin,
	}, nil
}
