package ports

import (
	"context"

	"github.com/custrec/customer-service/internal/core/domain"
)

// UserRepository persists user credentials.
type UserRepository interface {
	// FindByEmail returns the full user record, password hash included.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByID returns the user without its password hash.
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	// Create inserts a user; ErrDuplicateEmail when the address is taken.
	Create(ctx context.Context, email, passwordHash string) (*domain.User, error)
}
