package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type createSweetRequest struct {
	Name     string  `json:"name"     validate:"required"`
	Category string  `json:"category"`
	Price    float64 `json:"price"    validate:"gte=0"`
	Quantity int64   `json:"quantity" validate:"gte=0"`
}

// updateSweetRequest is an explicit partial update: every field is optional
// and only the fields present in the body are applied.
type updateSweetRequest struct {
	Name     *string  `json:"name"     validate:"omitempty,min=1"`
	Category *string  `json:"category"`
	Price    *float64 `json:"price"    validate:"omitempty,gte=0"`
	Quantity *int64   `json:"quantity" validate:"omitempty,gte=0"`
}

type restockRequest struct {
	// Amount defaults to 1 when absent; the service rejects non-positive values.
	Amount *int64 `json:"amount"`
}

// --- Response types ---
// Owned by the transport layer so the JSON contract is not coupled to
// internal service changes.

type sweetResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Price     float64   `json:"price"`
	Quantity  int64     `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type categoriesResponse struct {
	Categories []string `json:"categories"`
}
