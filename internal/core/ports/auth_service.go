package ports

import (
	"context"

	"github.com/custrec/customer-service/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	Me(ctx context.Context, userID int64) (*domain.User, error)
}

// TokenIssuer signs bearer tokens for a user.
type TokenIssuer interface {
	Issue(userID int64) (string, error)
}

// TokenVerifier resolves a bearer token back to its user id.
type TokenVerifier interface {
	Verify(token string) (int64, error)
}
