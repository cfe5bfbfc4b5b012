package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sweetshop/inventory-system/internal/api/metrics"
	"github.com/sweetshop/inventory-system/internal/core/domain"
	"github.com/sweetshop/inventory-system/internal/core/ports"
)

// CategoryCache abstracts the derived-category cache (Redis). The cache is
// advisory: every failure falls back to the store, and every inventory
// mutation invalidates it.
type CategoryCache interface {
	Get(ctx context.Context) ([]string, error)
	Set(ctx context.Context, categories []string) error
	Invalidate(ctx context.Context) error
}

// ErrCacheMiss is returned by CategoryCache.Get when no cached value exists.
var ErrCacheMiss = errors.New("category cache miss")

type SweetService struct {
	repo   ports.SweetRepository
	cache  CategoryCache
	logger zerolog.Logger
}

func NewSweetService(repo ports.SweetRepository, cache CategoryCache, logger zerolog.Logger) *SweetService {
	return &SweetService{repo: repo, cache: cache, logger: logger}
}

// Create inserts a new sweet. Names are not unique; two sweets may share a
// name and differ only by id.
func (s *SweetService) Create(ctx context.Context, input ports.CreateSweetInput) (*domain.Sweet, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if input.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", domain.ErrValidation)
	}
	if input.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity must not be negative", domain.ErrValidation)
	}

	sweet := &domain.Sweet{
		Name:     input.Name,
		Category: input.Category,
		Price:    input.Price,
		Quantity: input.Quantity,
	}

	created, err := s.repo.Create(ctx, sweet)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create sweet")
		return nil, err
	}

	s.invalidateCategories(ctx)
	metrics.SweetsCreatedTotal.Inc()
	s.logger.Info().Str("sweet_id", created.ID).Str("name", created.Name).Msg("sweet created")
	return created, nil
}

// List returns all current sweets in store-native order.
func (s *SweetService) List(ctx context.Context) ([]*domain.Sweet, error) {
	return s.repo.List(ctx)
}

// Search returns sweets matching all supplied filter fields. An empty filter
// behaves identically to List.
func (s *SweetService) Search(ctx context.Context, filter ports.SearchFilter) ([]*domain.Sweet, error) {
	if filter.MinPrice != nil && *filter.MinPrice < 0 {
		return nil, fmt.Errorf("%w: minPrice must not be negative", domain.ErrValidation)
	}
	if filter.MaxPrice != nil && *filter.MaxPrice < 0 {
		return nil, fmt.Errorf("%w: maxPrice must not be negative", domain.ErrValidation)
	}
	if filter.IsEmpty() {
		return s.repo.List(ctx)
	}
	return s.repo.Search(ctx, filter)
}

// Update merges the supplied fields onto the stored sweet; absent fields are
// left unchanged. A sweet that does not exist is reported, never silently
// skipped.
func (s *SweetService) Update(ctx context.Context, id string, input ports.UpdateSweetInput) (*domain.Sweet, error) {
	if input.Name != nil && *input.Name == "" {
		return nil, fmt.Errorf("%w: name must not be empty", domain.ErrValidation)
	}
	if input.Price != nil && *input.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", domain.ErrValidation)
	}
	if input.Quantity != nil && *input.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity must not be negative", domain.ErrValidation)
	}

	if input.IsEmpty() {
		return s.repo.FindByID(ctx, id)
	}

	updated, err := s.repo.Update(ctx, id, input)
	if err != nil {
		return nil, err
	}

	if input.Category != nil {
		s.invalidateCategories(ctx)
	}
	s.logger.Info().Str("sweet_id", id).Msg("sweet updated")
	return updated, nil
}

// Remove hard-deletes a sweet. Deleting an id that no longer exists reports
// ErrSweetNotFound rather than succeeding silently.
func (s *SweetService) Remove(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateCategories(ctx)
	metrics.SweetsDeletedTotal.Inc()
	s.logger.Info().Str("sweet_id", id).Msg("sweet deleted")
	return nil
}

// Purchase decrements quantity by exactly one. The decrement happens as a
// single conditional update in the repository, so concurrent purchases of the
// last unit cannot both succeed.
func (s *SweetService) Purchase(ctx context.Context, id string) (*domain.Sweet, error) {
	sweet, err := s.repo.Purchase(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOutOfStock):
			metrics.PurchasesTotal.WithLabelValues("out_of_stock").Inc()
		case errors.Is(err, domain.ErrSweetNotFound):
			metrics.PurchasesTotal.WithLabelValues("not_found").Inc()
		}
		return nil, err
	}

	metrics.PurchasesTotal.WithLabelValues("success").Inc()
	s.logger.Info().Str("sweet_id", id).Int64("quantity", sweet.Quantity).Msg("sweet purchased")
	return sweet, nil
}

// Restock increments quantity by amount. A nil amount defaults to 1; zero or
// negative amounts are rejected so a restock can never subtract stock.
func (s *SweetService) Restock(ctx context.Context, id string, amount *int64) (*domain.Sweet, error) {
	qty := int64(1)
	if amount != nil {
		qty = *amount
	}
	if qty <= 0 {
		return nil, fmt.Errorf("%w: amount must be a positive integer", domain.ErrValidation)
	}

	sweet, err := s.repo.Restock(ctx, id, qty)
	if err != nil {
		return nil, err
	}

	metrics.RestocksTotal.Inc()
	s.logger.Info().Str("sweet_id", id).Int64("amount", qty).Int64("quantity", sweet.Quantity).Msg("sweet restocked")
	return sweet, nil
}

// Categories returns the distinct category labels currently in use,
// served from the cache when fresh and recomputed from the store otherwise.
func (s *SweetService) Categories(ctx context.Context) ([]string, error) {
	if cached, err := s.cache.Get(ctx); err == nil {
		metrics.CategoryCacheTotal.WithLabelValues("hit").Inc()
		return cached, nil
	} else if !errors.Is(err, ErrCacheMiss) {
		s.logger.Warn().Err(err).Msg("category cache read failed, falling back to store")
	}

	metrics.CategoryCacheTotal.WithLabelValues("miss").Inc()
	categories, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, categories); err != nil {
		s.logger.Warn().Err(err).Msg("failed to populate category cache")
	}
	return categories, nil
}

// invalidateCategories drops the cached category set after a mutation.
// Cache failures are non-fatal: the store remains the source of truth.
func (s *SweetService) invalidateCategories(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate category cache")
	}
}
