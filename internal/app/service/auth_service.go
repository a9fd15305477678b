package service

import (
	"context"
	"log/slog"
	"time"

	"algojudge/internal/common"
	"algojudge/internal/common/security"
	"algojudge/internal/domain/model"
	"algojudge/internal/domain/repository"

	"github.com/google/uuid"
)

type AuthService struct {
	userRepo    repository.UserRepository
	revocations repository.RevocationStore
	jwtManager  *security.JWTManager
	logger      *slog.Logger
}

func NewAuthService(
	userRepo repository.UserRepository,
	revocations repository.RevocationStore,
	jwtManager *security.JWTManager,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		revocations: revocations,
		jwtManager:  jwtManager,
		logger:      logger,
	}
}

type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return nil, common.Errorf("username, email and password are required: %w", common.ErrValidation)
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, common.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:             uuid.NewString(),
		Username:       req.Username,
		Email:          req.Email,
		HashedPassword: hashedPassword,
		Role:           model.RoleUser, // Default role
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Repo returns common.ErrConflict on duplicate username/email
		return nil, common.Errorf("failed to create user: %w", err)
	}

	token, err := s.jwtManager.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, common.Errorf("failed to generate token: %w", err)
	}
	user.HashedPassword = "" // Clear password before returning
	return &AuthResponse{User: user, Token: token}, nil
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, common.Errorf("email and password are required: %w", common.ErrValidation)
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		// Generic message regardless of whether the account exists.
		return nil, common.ErrUnauthorized
	}

	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		return nil, common.ErrUnauthorized
	}

	token, err := s.jwtManager.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, common.Errorf("failed to generate token: %w", err)
	}
	user.HashedPassword = ""
	return &AuthResponse{User: user, Token: token}, nil
}

// Logout denylists the presented token for exactly its remaining lifetime.
// After expiresAt the token fails verification on its own, so the entry is
// allowed to disappear.
func (s *AuthService) Logout(ctx context.Context, token string, expiresAt time.Time) error {
	if token == "" {
		return common.ErrTokenMissing
	}
	if err := s.revocations.Revoke(ctx, token, expiresAt); err != nil {
		return common.Errorf("failed to revoke token: %w", err)
	}
	s.logger.Info("token revoked", "expires_at", expiresAt)
	return nil
}
