package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vncsmyrnk/notes/internal/core/domain"
	"github.com/vncsmyrnk/notes/internal/core/ports"
	"github.com/vncsmyrnk/notes/internal/core/validation"
	"github.com/vncsmyrnk/notes/internal/logging"
)

type AuthService struct {
	userRepo ports.UserRepository
	tokens   ports.TokenIssuer
	hasher   ports.PasswordHasher
	lock     domain.LockPolicy
	log      logging.Logger
	now      func() time.Time
}

func NewAuthService(userRepo ports.UserRepository, tokens ports.TokenIssuer, hasher ports.PasswordHasher, lock domain.LockPolicy, log logging.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		hasher:   hasher,
		lock:     lock,
		log:      log,
		now:      time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error) {
	input, err := validation.ValidateRegistration(input)
	if err != nil {
		return nil, err
	}

	emailTaken, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if emailTaken {
		return nil, domain.ErrEmailTaken
	}

	usernameTaken, err := s.userRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if usernameTaken {
		return nil, domain.ErrUsernameTaken
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now().UTC()
	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		IsActive:     true,
		LastLogin:    &now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// a concurrent registration can still win the unique index
		if errors.Is(err, domain.ErrEmailTaken) || errors.Is(err, domain.ErrUsernameTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	tokens, err := s.tokens.GenerateTokenPair(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	s.log.Info(ctx, "user registered", "user_id", user.ID, "username", user.Username)

	user.PasswordHash = ""
	return &ports.AuthResult{
		User:             user,
		Tokens:           tokens,
		PasswordStrength: validation.CheckPassword(input.Password).Strength,
	}, nil
}

// Login checks, in order: existence, active state, lock state, password.
// Unknown identifiers and wrong passwords share one generic error.
func (s *AuthService) Login(ctx context.Context, input ports.LoginInput) (*ports.AuthResult, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByLogin(ctx, input.Identifier)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	now := s.now().UTC()
	if !user.IsActive {
		return nil, domain.ErrAccountInactive
	}
	if user.IsLocked(now) {
		return nil, domain.ErrAccountLocked
	}

	if err := s.hasher.Compare(user.PasswordHash, input.Password); err != nil {
		updated, err := s.userRepo.RegisterFailedLogin(ctx, user.ID, now, s.lock)
		if err != nil {
			return nil, fmt.Errorf("failed to record login attempt: %w", err)
		}
		if updated.IsLocked(now) {
			s.log.Warn(ctx, "account locked", "user_id", updated.ID, "until", updated.LockUntil)
		}
		return nil, domain.ErrInvalidCredentials
	}

	user.RegisterSuccessfulLogin(now)
	if err := s.userRepo.UpdateLoginState(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}

	tokens, err := s.tokens.GenerateTokenPair(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	s.log.Info(ctx, "user logged in", "user_id", user.ID)

	user.PasswordHash = ""
	return &ports.AuthResult{User: user, Tokens: tokens}, nil
}

// Refresh is stateless: the token is trusted if it verifies, but the user
// is reloaded so deleted or deactivated accounts cannot renew.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	if refreshToken == "" {
		return nil, domain.NewValidationError("refreshToken", "Refresh token is required")
	}

	userID, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !user.IsActive {
		return nil, domain.ErrAccountInactive
	}

	tokens, err := s.tokens.GenerateTokenPair(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}
	return tokens, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID string, input ports.ChangePasswordInput) error {
	if err := validation.Struct(input); err != nil {
		return err
	}

	user, err := s.userRepo.GetByIDWithPassword(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.hasher.Compare(user.PasswordHash, input.CurrentPassword); err != nil {
		return domain.NewValidationError("currentPassword", "Current password is incorrect")
	}
	if err := validation.ValidatePassword("newPassword", input.NewPassword); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(input.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.log.Info(ctx, "password changed", "user_id", userID)
	return nil
}

// Logout only records the event. Tokens stay valid until they expire.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	s.log.Info(ctx, "user logged out", "user_id", userID)
	return nil
}
