package ports

import (
	"context"

	"github.com/sweetshop/inventory-system/internal/core/domain"
)

// AuthRepository defines the interface for user credential persistence.
// Email lookup is exact-match; uniqueness is enforced by the store.
type AuthRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
