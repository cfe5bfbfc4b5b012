// Package client provides a typed Go client for the sweet shop API.
//
// The client keeps an advisory cache of the last-fetched sweet list. The
// cache is never authoritative: every mutation triggers a full refetch from
// the server rather than applying the returned delta locally.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"sync"
	"time"
)

// ErrNotAuthenticated signals a 401 response. The stored token has already
// been dropped when it is returned; callers should redirect to login rather
// than retry.
var ErrNotAuthenticated = errors.New("not authenticated")

// APIError carries the status code and error message of a non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

// Sweet mirrors the server's sweet representation.
type Sweet struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Price     float64   `json:"price"`
	Quantity  int64     `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SweetSpec carries the fields for creating a sweet.
type SweetSpec struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Quantity int64   `json:"quantity"`
}

// SweetPatch is a partial update; nil fields are omitted from the request.
type SweetPatch struct {
	Name     *string  `json:"name,omitempty"`
	Category *string  `json:"category,omitempty"`
	Price    *float64 `json:"price,omitempty"`
	Quantity *int64   `json:"quantity,omitempty"`
}

// SearchFilter carries the optional search criteria.
type SearchFilter struct {
	Name     string
	Category string
	MinPrice *float64
	MaxPrice *float64
}

// Client is a sweet shop API client with an advisory list cache.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu     sync.RWMutex
	token  string
	sweets []Sweet // last fetched list; nil until the first fetch
}

// New creates a Client for the given base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Token returns the currently stored credential, empty when logged out.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Register creates a new account. It does not log in.
func (c *Client) Register(ctx context.Context, name, email, password string) error {
	body := map[string]string{"name": name, "email": email, "password": password}
	return c.do(ctx, http.MethodPost, "/api/auth/register", body, nil)
}

// Login authenticates and stores the returned token for subsequent calls.
func (c *Client) Login(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &resp); err != nil {
		return err
	}

	c.mu.Lock()
	c.token = resp.Token
	c.mu.Unlock()
	return nil
}

// Logout drops the stored token and the cached list.
func (c *Client) Logout() {
	c.mu.Lock()
	c.token = ""
	c.sweets = nil
	c.mu.Unlock()
}

// Sweets returns the cached sweet list, fetching it when no cache exists.
func (c *Client) Sweets(ctx context.Context) ([]Sweet, error) {
	c.mu.RLock()
	cached := c.sweets
	c.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}
	return c.RefreshSweets(ctx)
}

// RefreshSweets fetches the full list from the server and replaces the cache.
func (c *Client) RefreshSweets(ctx context.Context) ([]Sweet, error) {
	var sweets []Sweet
	if err := c.do(ctx, http.MethodGet, "/api/sweets", nil, &sweets); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.sweets = sweets
	c.mu.Unlock()
	return sweets, nil
}

// Search queries the server directly; results are not cached.
func (c *Client) Search(ctx context.Context, filter SearchFilter) ([]Sweet, error) {
	q := url.Values{}
	if filter.Name != "" {
		q.Set("name", filter.Name)
	}
	if filter.Category != "" {
		q.Set("category", filter.Category)
	}
	if filter.MinPrice != nil {
		q.Set("minPrice", strconv.FormatFloat(*filter.MinPrice, 'f', -1, 64))
	}
	if filter.MaxPrice != nil {
		q.Set("maxPrice", strconv.FormatFloat(*filter.MaxPrice, 'f', -1, 64))
	}

	path := "/api/sweets/search"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var sweets []Sweet
	if err := c.do(ctx, http.MethodGet, path, nil, &sweets); err != nil {
		return nil, err
	}
	return sweets, nil
}

// Categories derives the distinct non-empty category labels from the cached
// list, fetching the list first when needed.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	sweets, err := c.Sweets(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var categories []string
	for _, s := range sweets {
		if s.Category == "" {
			continue
		}
		if _, ok := seen[s.Category]; ok {
			continue
		}
		seen[s.Category] = struct{}{}
		categories = append(categories, s.Category)
	}
	sort.Strings(categories)
	return categories, nil
}

// CreateSweet creates a sweet and refreshes the cached list.
func (c *Client) CreateSweet(ctx context.Context, spec SweetSpec) (*Sweet, error) {
	var sweet Sweet
	if err := c.do(ctx, http.MethodPost, "/api/sweets", spec, &sweet); err != nil {
		return nil, err
	}
	return &sweet, c.refreshAfterMutation(ctx)
}

// UpdateSweet applies a partial update and refreshes the cached list.
func (c *Client) UpdateSweet(ctx context.Context, id string, patch SweetPatch) (*Sweet, error) {
	var sweet Sweet
	if err := c.do(ctx, http.MethodPut, "/api/sweets/"+id, patch, &sweet); err != nil {
		return nil, err
	}
	return &sweet, c.refreshAfterMutation(ctx)
}

// DeleteSweet removes a sweet and refreshes the cached list.
func (c *Client) DeleteSweet(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/api/sweets/"+id, nil, nil); err != nil {
		return err
	}
	return c.refreshAfterMutation(ctx)
}

// Purchase buys one unit and refreshes the cached list.
func (c *Client) Purchase(ctx context.Context, id string) (*Sweet, error) {
	var sweet Sweet
	if err := c.do(ctx, http.MethodPost, "/api/sweets/"+id+"/purchase", nil, &sweet); err != nil {
		return nil, err
	}
	return &sweet, c.refreshAfterMutation(ctx)
}

// Restock adds amount units (server default 1 when amount is nil) and
// refreshes the cached list.
func (c *Client) Restock(ctx context.Context, id string, amount *int64) (*Sweet, error) {
	body := map[string]any{}
	if amount != nil {
		body["amount"] = *amount
	}

	var sweet Sweet
	if err := c.do(ctx, http.MethodPost, "/api/sweets/"+id+"/restock", body, &sweet); err != nil {
		return nil, err
	}
	return &sweet, c.refreshAfterMutation(ctx)
}

// refreshAfterMutation implements the full-refresh-on-write policy. A failed
// refresh drops the cache instead of leaving a stale list behind.
func (c *Client) refreshAfterMutation(ctx context.Context) error {
	if _, err := c.RefreshSweets(ctx); err != nil {
		c.mu.Lock()
		c.sweets = nil
		c.mu.Unlock()
		return err
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.Logout()
		return ErrNotAuthenticated
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var envelope struct {
			Error string `json:"error"`
		}
		msg := "request failed"
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Error != "" {
			msg = envelope.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
