package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/catalogsync/backend/internal/domain/catalog"
	"github.com/catalogsync/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormProviderRepository implements ProviderRepository using GORM
type GormProviderRepository struct {
	db *gorm.DB
}

// NewGormProviderRepository creates a new GormProviderRepository
func NewGormProviderRepository(db *gorm.DB) *GormProviderRepository {
	return &GormProviderRepository{db: db}
}

// FindByKey finds a provider by its unique key
func (r *GormProviderRepository) FindByKey(ctx context.Context, key string) (*catalog.Provider, error) {
	var p catalog.Provider
	if err := r.db.WithContext(ctx).First(&p, "key = ?", strings.ToLower(key)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindAll returns all providers ordered by key
func (r *GormProviderRepository) FindAll(ctx context.Context) ([]catalog.Provider, error) {
	var providers []catalog.Provider
	if err := r.db.WithContext(ctx).Order("key ASC").Find(&providers).Error; err != nil {
		return nil, err
	}
	return providers, nil
}

// FindEnabledKeys returns the keys of all enabled providers ordered by key
func (r *GormProviderRepository) FindEnabledKeys(ctx context.Context) ([]string, error) {
	var keys []string
	if err := r.db.WithContext(ctx).
		Model(&catalog.Provider{}).
		Where("enabled = ?", true).
		Order("key ASC").
		Pluck("key", &keys).Error; err != nil {
		return nil, err
	}
	return keys, nil
}

// Save creates or updates a provider
func (r *GormProviderRepository) Save(ctx context.Context, provider *catalog.Provider) error {
	return r.db.WithContext(ctx).Save(provider).Error
}

// Ensure GormProviderRepository implements ProviderRepository
var _ catalog.ProviderRepository = (*GormProviderRepository)(nil)
