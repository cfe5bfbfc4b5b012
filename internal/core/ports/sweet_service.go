package ports

import (
	"context"

	"github.com/sweetshop/inventory-system/internal/core/domain"
)

// CreateSweetInput carries all data needed to create a new sweet.
type CreateSweetInput struct {
	Name     string
	Category string
	Price    float64
	Quantity int64
}

// SweetService defines the use-case operations over the inventory.
type SweetService interface {
	Create(ctx context.Context, input CreateSweetInput) (*domain.Sweet, error)
	List(ctx context.Context) ([]*domain.Sweet, error)
	Search(ctx context.Context, filter SearchFilter) ([]*domain.Sweet, error)
	Update(ctx context.Context, id string, input UpdateSweetInput) (*domain.Sweet, error)
	Remove(ctx context.Context, id string) error
	Purchase(ctx context.Context, id string) (*domain.Sweet, error)
	// Restock increments quantity by amount. A nil amount defaults to 1;
	// zero or negative amounts are rejected with ErrValidation.
	Restock(ctx context.Context, id string, amount *int64) (*domain.Sweet, error)
	Categories(ctx context.Context) ([]string, error)
}
