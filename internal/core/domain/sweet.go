package domain

import (
	"errors"
	"time"
)

var ErrSweetNotFound = errors.New("sweet not found")
var ErrOutOfStock = errors.New("out of stock")
var ErrValidation = errors.New("validation failed")
var ErrForbidden = errors.New("access forbidden")

// Sweet is the core inventory aggregate: a priced, quantified product.
// Category is a free-text label, not a reference — the set of known
// categories is derived from the sweets that currently exist.
type Sweet struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Price     float64   `json:"price"`
	Quantity  int64     `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// InStock reports whether at least one unit can be purchased.
func (s *Sweet) InStock() bool {
	return s.Quantity > 0
}
