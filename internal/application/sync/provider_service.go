package sync

import (
	"context"

	"github.com/catalogsync/backend/internal/domain/catalog"
	"github.com/catalogsync/backend/internal/infrastructure/cache"
	"go.uber.org/zap"
)

const providerListCacheKey = "providers:list"

// ProviderService exposes the provider roster and the enable/disable
// toggle operators use to gate syncs
type ProviderService struct {
	providerRepo catalog.ProviderRepository
	productRepo  catalog.ProductRepository
	cache        *cache.CatalogCache
	logger       *zap.Logger
}

// NewProviderService creates a new ProviderService
func NewProviderService(providerRepo catalog.ProviderRepository, productRepo catalog.ProductRepository, c *cache.CatalogCache, logger *zap.Logger) *ProviderService {
	return &ProviderService{providerRepo: providerRepo, productRepo: productRepo, cache: c, logger: logger}
}

// List returns all providers with their product counts, cache-aside
func (s *ProviderService) List(ctx context.Context) ([]ProviderResponse, error) {
	if s.cache != nil {
		var cached []ProviderResponse
		if s.cache.Get(ctx, providerListCacheKey, &cached) {
			return cached, nil
		}
	}

	providers, err := s.providerRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ProviderResponse, 0, len(providers))
	for i := range providers {
		count, err := s.productRepo.CountForProvider(ctx, providers[i].ID)
		if err != nil {
			return nil, err
		}
		out = append(out, ToProviderResponse(&providers[i], count))
	}

	if s.cache != nil {
		s.cache.Set(ctx, providerListCacheKey, out)
	}
	return out, nil
}

// SetEnabled toggles a provider and invalidates the cached listing
func (s *ProviderService) SetEnabled(ctx context.Context, key string, enabled bool) (ProviderResponse, error) {
	prov, err := s.providerRepo.FindByKey(ctx, key)
	if err != nil {
		return ProviderResponse{}, err
	}
	prov.SetEnabled(enabled)
	if err := s.providerRepo.Save(ctx, prov); err != nil {
		return ProviderResponse{}, err
	}

	if s.cache != nil {
		s.cache.InvalidatePrefix(ctx, "providers")
	}
	s.logger.Info("provider toggled", zap.String("provider", key), zap.Bool("enabled", enabled))

	count, err := s.productRepo.CountForProvider(ctx, prov.ID)
	if err != nil {
		return ProviderResponse{}, err
	}
	return ToProviderResponse(prov, count), nil
}
