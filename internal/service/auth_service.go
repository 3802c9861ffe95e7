package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/google/uuid"
	"github.com/weddingwise/weddingwise-bookings/internal/domain"
	"github.com/weddingwise/weddingwise-bookings/internal/mailer"
	"github.com/weddingwise/weddingwise-bookings/internal/repo/postgres"
	"github.com/weddingwise/weddingwise-bookings/pkg/auth"
	"github.com/weddingwise/weddingwise-bookings/pkg/events"
	"github.com/weddingwise/weddingwise-bookings/pkg/logger"
)

// AuthService handles registration, login, password reset, and token
// refresh.
type AuthService struct {
	users       postgres.UserRepository
	resets      postgres.ResetRepository
	mailer      mailer.Service
	publisher   events.Publisher
	jwtSecret   string
	tokenTTL    time.Duration
	resetTTL    time.Duration
	frontendURL string
}

func NewAuthService(
	users postgres.UserRepository,
	resets postgres.ResetRepository,
	m mailer.Service,
	publisher events.Publisher,
	jwtSecret string,
	tokenTTL, resetTTL time.Duration,
	frontendURL string,
) *AuthService {
	return &AuthService{
		users:       users,
		resets:      resets,
		mailer:      m,
		publisher:   publisher,
		jwtSecret:   jwtSecret,
		tokenTTL:    tokenTTL,
		resetTTL:    resetTTL,
		frontendURL: frontendURL,
	}
}

func (s *AuthService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.AuthResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := argon2id.CreateHash(req.Password, argon2id.DefaultParams)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.Create(ctx, req.Name, req.Email, hash)
	if err != nil {
		return nil, err
	}

	// Bookings made by email before the account existed become the
	// new account's bookings.
	if err := s.users.LinkExistingBookings(ctx, user.ID, user.Email); err != nil {
		logger.WarnContext(ctx, "Failed to link existing bookings", "user_id", user.ID, "error", err)
	}

	if err := s.publisher.Publish(ctx, events.UserRegistered, events.UserRegisteredEvent{
		UserID:    user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}); err != nil {
		logger.WarnContext(ctx, "Failed to publish user registered event", "error", err)
	}

	return s.issueToken(user)
}

func (s *AuthService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NewError(domain.KindValidation, "invalid credentials")
	}

	match, err := argon2id.ComparePasswordAndHash(req.Password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !match {
		return nil, domain.NewError(domain.KindValidation, "invalid credentials")
	}

	return s.issueToken(user)
}

// SendResetEmail creates a single-use reset token and mails the link.
func (s *AuthService) SendResetEmail(ctx context.Context, email string) error {
	if !domain.IsValidEmail(email) {
		return domain.NewError(domain.KindValidation, "please provide a valid email address")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.NotFoundf("user not found with this email")
	}

	token := uuid.New().String()
	expiresAt := time.Now().Add(s.resetTTL)
	if err := s.resets.CreatePasswordReset(ctx, user.ID, token, expiresAt); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", s.frontendURL, token)
	if err := s.mailer.SendResetPasswordEmail(user.Email, user.Name, resetURL); err != nil {
		logger.ErrorContext(ctx, "Failed to send reset email", "user_id", user.ID, "error", err)
		return domain.WrapError(domain.KindInternal, "failed to send reset email", err)
	}

	logger.InfoContext(ctx, "Password reset email sent", "user_id", user.ID)
	return nil
}

// ResetPassword consumes a reset token and sets a new password. A used
// or expired token never resolves to a user.
func (s *AuthService) ResetPassword(ctx context.Context, req *domain.ResetPasswordRequest) error {
	if req.Token == "" {
		return domain.NewError(domain.KindValidation, "reset token is required")
	}
	if err := domain.ValidatePassword(req.NewPassword); err != nil {
		return err
	}

	userID, err := s.resets.ConsumePasswordReset(ctx, req.Token)
	if err != nil {
		return err
	}
	if userID == 0 {
		return domain.NewError(domain.KindUnauthorized, "invalid or expired reset token")
	}

	hash, err := argon2id.CreateHash(req.NewPassword, argon2id.DefaultParams)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}

	logger.InfoContext(ctx, "Password reset completed", "user_id", userID)
	return nil
}

// UpdateProfile changes the display name and reissues the token so the
// client's stored claims stay current.
func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, req *domain.UpdateProfileRequest) (*domain.AuthResponse, error) {
	name := req.Name
	if len(name) < 2 {
		return nil, domain.NewError(domain.KindValidation, "name must be at least 2 characters")
	}

	user, err := s.users.UpdateName(ctx, userID, name)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NotFoundf("user not found")
	}

	return s.issueToken(user)
}

// Refresh issues a fresh token for an expired but otherwise valid one.
// A token that has not expired yet is rejected. The new token is built
// from the current user row, so a stale name or role does not carry
// over and a deleted account cannot refresh.
func (s *AuthService) Refresh(ctx context.Context, tokenString string) (string, error) {
	if tokenString == "" {
		return "", domain.NewError(domain.KindValidation, "token is required")
	}

	claims, err := auth.ParseAllowExpired(tokenString, s.jwtSecret)
	if err != nil {
		return "", domain.NewError(domain.KindUnauthorized, "invalid token")
	}

	if claims.ExpiresAt == nil || claims.ExpiresAt.After(time.Now()) {
		return "", domain.NewError(domain.KindValidation, "token is still valid")
	}

	user, err := s.users.FindByID(ctx, claims.Sub)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", domain.NewError(domain.KindUnauthorized, "invalid token")
	}

	token, err := auth.NewAccessToken(user.ID, user.Email, user.Name, user.Role, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	logger.InfoContext(ctx, "Token refreshed", "user_id", user.ID)
	return token, nil
}

func (s *AuthService) issueToken(user *domain.User) (*domain.AuthResponse, error) {
	token, err := auth.NewAccessToken(user.ID, user.Email, user.Name, user.Role, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &domain.AuthResponse{Token: token, UserData: user.ToUserInfo()}, nil
}
