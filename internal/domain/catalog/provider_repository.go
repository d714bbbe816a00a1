package catalog

import (
	"context"
)

// ProviderRepository defines the persistence port for providers
type ProviderRepository interface {
	// FindByKey finds a provider by its unique key
	FindByKey(ctx context.Context, key string) (*Provider, error)

	// FindAll returns all providers ordered by key
	FindAll(ctx context.Context) ([]Provider, error)

	// FindEnabledKeys returns the keys of all enabled providers
	FindEnabledKeys(ctx context.Context) ([]string, error)

	// Save creates or updates a provider
	Save(ctx context.Context, provider *Provider) error
}
