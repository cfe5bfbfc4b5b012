package ports

import (
	"context"

	"github.com/sweetshop/inventory-system/internal/core/domain"
)

// RegisterInput carries the fields accepted at registration. Role is
// optional; an empty value defaults to customer.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// TokenClaims is the identity extracted from a verified token. It is
// self-contained: no database round-trip is needed to produce it.
type TokenClaims struct {
	UserID string
	Role   string
}

// TokenVerifier validates a signed token and returns its claims.
// The auth middleware depends on this narrow interface rather than on the
// full AuthService.
type TokenVerifier interface {
	Verify(token string) (*TokenClaims, error)
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	TokenVerifier
}
