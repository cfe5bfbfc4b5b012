package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sweetshop/inventory-system/internal/core/domain"
)

func renderError(t *testing.T, err error) (int, string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid error envelope: %v", err)
	}
	return rec.Code, body.Error
}

func TestHTTPErrorHandler_DomainErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"validation", fmt.Errorf("%w: price must be non-negative", domain.ErrValidation), http.StatusBadRequest, "validation failed: price must be non-negative"},
		{"sweet not found", domain.ErrSweetNotFound, http.StatusNotFound, "sweet not found"},
		{"out of stock", domain.ErrOutOfStock, http.StatusBadRequest, "out of stock"},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "access forbidden"},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{"invalid token", domain.ErrInvalidToken, http.StatusUnauthorized, "invalid credentials"},
		{"email taken", domain.ErrEmailTaken, http.StatusConflict, "email already registered"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			code, msg := renderError(t, tc.err)
			if code != tc.wantCode {
				t.Fatalf("status = %d, want %d", code, tc.wantCode)
			}
			if msg != tc.wantMsg {
				t.Fatalf("message = %q, want %q", msg, tc.wantMsg)
			}
		})
	}
}

func TestHTTPErrorHandler_EchoErrorsPassThrough(t *testing.T) {
	code, msg := renderError(t, echo.NewHTTPError(http.StatusTeapot, "short and stout"))
	if code != http.StatusTeapot {
		t.Fatalf("status = %d, want 418", code)
	}
	if msg != "short and stout" {
		t.Fatalf("message = %q", msg)
	}
}

func TestHTTPErrorHandler_UnexpectedErrorsAreOpaque(t *testing.T) {
	code, msg := renderError(t, errors.New("mongo: connection reset by peer"))
	if code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", code)
	}
	if strings.Contains(msg, "mongo") {
		t.Fatalf("internal detail leaked to client: %q", msg)
	}
	if msg != "internal server error" {
		t.Fatalf("message = %q", msg)
	}
}
