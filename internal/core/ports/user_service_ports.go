package ports

import (
	"context"

	"github.com/vncsmyrnk/notes/internal/core/domain"
)

type UserService interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}
