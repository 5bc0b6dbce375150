package ports

import (
	"context"

	"github.com/vncsmyrnk/notes/internal/core/domain"
)

type TokenIssuer interface {
	GenerateTokenPair(user *domain.User) (*domain.TokenPair, error)
	VerifyAccess(token string) (*domain.Identity, error)
	VerifyRefresh(token string) (string, error) // returns the user id
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type RegisterInput struct {
	Username  string `json:"username" validate:"required,min=3,max=30,username"`
	Email     string `json:"email" validate:"required,max=254"`
	Password  string `json:"password" validate:"required,max=128"`
	FirstName string `json:"firstName" validate:"required,max=50"`
	LastName  string `json:"lastName" validate:"required,max=50"`
}

type LoginInput struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,max=128"`
}

type AuthResult struct {
	User             *domain.User
	Tokens           *domain.TokenPair
	PasswordStrength string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, input LoginInput) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	ChangePassword(ctx context.Context, userID string, input ChangePasswordInput) error
	Logout(ctx context.Context, userID string) error
}
