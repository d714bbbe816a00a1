package distributor

import (
	"fmt"
	"sort"

	"github.com/catalogsync/backend/internal/domain/provider"
	"github.com/catalogsync/backend/internal/infrastructure/config"
)

// Registry builds distributor adapters from configuration. Get constructs
// a fresh adapter on every call so a credential change in configuration
// takes effect on the next sync without a restart. This is the only place
// that enumerates adapter keys.
type Registry struct {
	factories map[string]func() (provider.Adapter, error)
}

// NewRegistry creates a registry over the configured distributor credentials
func NewRegistry(cfg *config.ProvidersConfig) *Registry {
	return &Registry{
		factories: map[string]func() (provider.Adapter, error){
			"nod": func() (provider.Adapter, error) {
				return NewNODAdapter(&NODConfig{
					BaseURL: cfg.NOD.BaseURL,
					APIUser: cfg.NOD.APIUser,
					APIKey:  cfg.NOD.APIKey,
					Timeout: cfg.NOD.Timeout,
				})
			},
			"elko": func() (provider.Adapter, error) {
				return NewElkoAdapter(&ElkoConfig{
					BaseURL: cfg.Elko.BaseURL,
					Token:   cfg.Elko.Token,
					Timeout: cfg.Elko.Timeout,
				})
			},
			"ingram": func() (provider.Adapter, error) {
				return NewIngramAdapter(&IngramConfig{
					BaseURL: cfg.Ingram.BaseURL,
					APIKey:  cfg.Ingram.APIKey,
					Timeout: cfg.Ingram.Timeout,
				})
			},
			"also": func() (provider.Adapter, error) {
				return NewALSOAdapter(&ALSOConfig{
					Host:       cfg.ALSO.Host,
					Port:       cfg.ALSO.Port,
					Username:   cfg.ALSO.Username,
					Password:   cfg.ALSO.Password,
					RemotePath: cfg.ALSO.RemotePath,
					Timeout:    cfg.ALSO.Timeout,
				})
			},
		},
	}
}

// Get returns a new adapter for the given key
func (r *Registry) Get(key string) (provider.Adapter, error) {
	factory, ok := r.factories[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", provider.ErrAdapterNotRegistered, key)
	}
	adapter, err := factory()
	if err != nil {
		return nil, fmt.Errorf("building adapter %s: %w", key, err)
	}
	return adapter, nil
}

// Keys returns the keys of all registered adapters, sorted
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.factories))
	for k := range r.factories {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Ensure Registry implements provider.Registry
var _ provider.Registry = (*Registry)(nil)
