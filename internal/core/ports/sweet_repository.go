package ports

import (
	"context"

	"github.com/sweetshop/inventory-system/internal/core/domain"
)

// SearchFilter carries the optional, conjunctive search criteria.
// Zero values mean "not supplied"; an empty filter matches everything.
type SearchFilter struct {
	Name     string   // case-insensitive substring match
	Category string   // exact match
	MinPrice *float64 // inclusive lower bound
	MaxPrice *float64 // inclusive upper bound
}

// IsEmpty reports whether no criteria were supplied.
func (f SearchFilter) IsEmpty() bool {
	return f.Name == "" && f.Category == "" && f.MinPrice == nil && f.MaxPrice == nil
}

// UpdateSweetInput is an explicit partial update: each field is
// independently absent (nil) or present. Absent fields are left unchanged.
type UpdateSweetInput struct {
	Name     *string
	Category *string
	Price    *float64
	Quantity *int64
}

// IsEmpty reports whether the update carries no fields at all.
func (u UpdateSweetInput) IsEmpty() bool {
	return u.Name == nil && u.Category == nil && u.Price == nil && u.Quantity == nil
}

// SweetRepository defines persistence operations for sweets.
//
// Purchase and Restock are single atomic conditional updates at the storage
// layer: Purchase decrements quantity by one only where quantity > 0, so
// concurrent purchases can never drive quantity negative or lose a decrement.
type SweetRepository interface {
	Create(ctx context.Context, s *domain.Sweet) (*domain.Sweet, error)
	FindByID(ctx context.Context, id string) (*domain.Sweet, error)
	List(ctx context.Context) ([]*domain.Sweet, error)
	Search(ctx context.Context, filter SearchFilter) ([]*domain.Sweet, error)
	Update(ctx context.Context, id string, input UpdateSweetInput) (*domain.Sweet, error)
	Delete(ctx context.Context, id string) error
	// Purchase atomically decrements quantity by exactly one.
	// Returns ErrSweetNotFound if id does not exist, ErrOutOfStock if
	// quantity is zero.
	Purchase(ctx context.Context, id string) (*domain.Sweet, error)
	// Restock atomically increments quantity by amount (amount > 0 is the
	// caller's responsibility). Returns ErrSweetNotFound if id does not exist.
	Restock(ctx context.Context, id string, amount int64) (*domain.Sweet, error)
	// Categories returns the distinct non-empty category labels across all
	// current sweets.
	Categories(ctx context.Context) ([]string, error)
}
