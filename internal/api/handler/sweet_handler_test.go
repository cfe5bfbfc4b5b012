package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/sweetshop/inventory-system/internal/core/domain"
	"github.com/sweetshop/inventory-system/internal/core/ports"
)

// stubSweetService records the last call so tests can assert on the exact
// input the handler produced from the HTTP request.
type stubSweetService struct {
	lastFilter  ports.SearchFilter
	lastUpdate  ports.UpdateSweetInput
	lastAmount  *int64
	returnSweet *domain.Sweet
	returnList  []*domain.Sweet
	returnErr   error
}

func (s *stubSweetService) Create(ctx context.Context, input ports.CreateSweetInput) (*domain.Sweet, error) {
	return s.returnSweet, s.returnErr
}

func (s *stubSweetService) List(ctx context.Context) ([]*domain.Sweet, error) {
	return s.returnList, s.returnErr
}

func (s *stubSweetService) Search(ctx context.Context, filter ports.SearchFilter) ([]*domain.Sweet, error) {
	s.lastFilter = filter
	return s.returnList, s.returnErr
}

func (s *stubSweetService) Update(ctx context.Context, id string, input ports.UpdateSweetInput) (*domain.Sweet, error) {
	s.lastUpdate = input
	return s.returnSweet, s.returnErr
}

func (s *stubSweetService) Remove(ctx context.Context, id string) error {
	return s.returnErr
}

func (s *stubSweetService) Purchase(ctx context.Context, id string) (*domain.Sweet, error) {
	return s.returnSweet, s.returnErr
}

func (s *stubSweetService) Restock(ctx context.Context, id string, amount *int64) (*domain.Sweet, error) {
	s.lastAmount = amount
	return s.returnSweet, s.returnErr
}

func (s *stubSweetService) Categories(ctx context.Context) ([]string, error) {
	return []string{"chocolate", "gummy"}, s.returnErr
}

func newSweetContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func sampleSweet() *domain.Sweet {
	return &domain.Sweet{ID: "s1", Name: "Fudge", Category: "fudge", Price: 3.5, Quantity: 7}
}

func TestSweetHandler_Create_Success(t *testing.T) {
	stub := &stubSweetService{returnSweet: sampleSweet()}
	h := NewSweetHandler(stub)

	c, rec := newSweetContext(t, http.MethodPost, "/api/sweets", `{"name":"Fudge","category":"fudge","price":3.5,"quantity":7}`)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp sweetResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.ID != "s1" || resp.Quantity != 7 {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestSweetHandler_Create_RejectsNegativePrice(t *testing.T) {
	stub := &stubSweetService{returnSweet: sampleSweet()}
	h := NewSweetHandler(stub)

	c, _ := newSweetContext(t, http.MethodPost, "/api/sweets", `{"name":"Fudge","price":-1}`)
	err := h.Create(c)

	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestSweetHandler_Search_ParsesFilter(t *testing.T) {
	stub := &stubSweetService{}
	h := NewSweetHandler(stub)

	c, rec := newSweetContext(t, http.MethodGet, "/api/sweets/search?name=choco&category=fudge&minPrice=5&maxPrice=10.5", "")
	if err := h.Search(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	f := stub.lastFilter
	if f.Name != "choco" || f.Category != "fudge" {
		t.Fatalf("unexpected filter: %+v", f)
	}
	if f.MinPrice == nil || *f.MinPrice != 5 {
		t.Fatalf("minPrice not parsed: %+v", f.MinPrice)
	}
	if f.MaxPrice == nil || *f.MaxPrice != 10.5 {
		t.Fatalf("maxPrice not parsed: %+v", f.MaxPrice)
	}
}

func TestSweetHandler_Search_RejectsBadPrice(t *testing.T) {
	stub := &stubSweetService{}
	h := NewSweetHandler(stub)

	c, _ := newSweetContext(t, http.MethodGet, "/api/sweets/search?minPrice=cheap", "")
	err := h.Search(c)

	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestSweetHandler_Update_PartialBody(t *testing.T) {
	stub := &stubSweetService{returnSweet: sampleSweet()}
	h := NewSweetHandler(stub)

	c, rec := newSweetContext(t, http.MethodPut, "/api/sweets/s1", `{"price":9.99}`)
	c.SetParamNames("id")
	c.SetParamValues("s1")
	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	u := stub.lastUpdate
	if u.Price == nil || *u.Price != 9.99 {
		t.Fatalf("price not forwarded: %+v", u)
	}
	if u.Name != nil || u.Category != nil || u.Quantity != nil {
		t.Fatalf("absent fields must stay nil: %+v", u)
	}
}

func TestSweetHandler_Update_PropagatesNotFound(t *testing.T) {
	stub := &stubSweetService{returnErr: domain.ErrSweetNotFound}
	h := NewSweetHandler(stub)

	c, _ := newSweetContext(t, http.MethodPut, "/api/sweets/missing", `{"price":1}`)
	c.SetParamNames("id")
	c.SetParamValues("missing")

	if err := h.Update(c); !errors.Is(err, domain.ErrSweetNotFound) {
		t.Fatalf("expected ErrSweetNotFound to propagate, got %v", err)
	}
}

func TestSweetHandler_Delete_NoContent(t *testing.T) {
	stub := &stubSweetService{}
	h := NewSweetHandler(stub)

	c, rec := newSweetContext(t, http.MethodDelete, "/api/sweets/s1", "")
	c.SetParamNames("id")
	c.SetParamValues("s1")
	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestSweetHandler_Purchase_PropagatesOutOfStock(t *testing.T) {
	stub := &stubSweetService{returnErr: domain.ErrOutOfStock}
	h := NewSweetHandler(stub)

	c, _ := newSweetContext(t, http.MethodPost, "/api/sweets/s1/purchase", "")
	c.SetParamNames("id")
	c.SetParamValues("s1")

	if err := h.Purchase(c); !errors.Is(err, domain.ErrOutOfStock) {
		t.Fatalf("expected ErrOutOfStock to propagate, got %v", err)
	}
}

func TestSweetHandler_Restock_DefaultsAmountToNil(t *testing.T) {
	stub := &stubSweetService{returnSweet: sampleSweet()}
	h := NewSweetHandler(stub)

	// Empty body: amount stays nil so the service applies its default of 1.
	c, rec := newSweetContext(t, http.MethodPost, "/api/sweets/s1/restock", `{}`)
	c.SetParamNames("id")
	c.SetParamValues("s1")
	if err := h.Restock(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if stub.lastAmount != nil {
		t.Fatalf("expected nil amount for empty body, got %v", *stub.lastAmount)
	}
}

func TestSweetHandler_Restock_ForwardsAmount(t *testing.T) {
	stub := &stubSweetService{returnSweet: sampleSweet()}
	h := NewSweetHandler(stub)

	c, _ := newSweetContext(t, http.MethodPost, "/api/sweets/s1/restock", `{"amount":5}`)
	c.SetParamNames("id")
	c.SetParamValues("s1")
	if err := h.Restock(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if stub.lastAmount == nil || *stub.lastAmount != 5 {
		t.Fatalf("amount not forwarded: %v", stub.lastAmount)
	}
}

func TestSweetHandler_Categories(t *testing.T) {
	stub := &stubSweetService{}
	h := NewSweetHandler(stub)

	c, rec := newSweetContext(t, http.MethodGet, "/api/sweets/categories", "")
	if err := h.Categories(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp categoriesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Categories) != 2 {
		t.Fatalf("unexpected categories: %v", resp.Categories)
	}
}
