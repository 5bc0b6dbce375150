package ports

import (
	"context"
	"time"

	"github.com/vncsmyrnk/notes/internal/core/domain"
)

// UserRepository reads users without their password hash unless the method
// says otherwise.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByIDWithPassword(ctx context.Context, id string) (*domain.User, error)
	FindByLogin(ctx context.Context, identifier string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	UpdateLoginState(ctx context.Context, user *domain.User) error
	// RegisterFailedLogin applies domain.User.RegisterFailedLogin to the
	// stored user in one atomic step and returns the result.
	RegisterFailedLogin(ctx context.Context, id string, now time.Time, policy domain.LockPolicy) (*domain.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}
