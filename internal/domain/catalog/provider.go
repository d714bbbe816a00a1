package catalog

import (
	"strings"

	"github.com/catalogsync/backend/internal/domain/shared"
)

// Provider represents a distributor integration whose catalog is aggregated.
// Providers are created by seeding, toggled by operators and never deleted
// during normal operation.
type Provider struct {
	shared.BaseEntity
	Key         string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name        string `gorm:"type:varchar(100);not null"`
	Description string `gorm:"type:text"`
	Enabled     bool   `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Provider) TableName() string {
	return "providers"
}

// NewProvider creates a new provider with the given key and display name
func NewProvider(key, name string) (*Provider, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return nil, shared.NewDomainError("INVALID_PROVIDER_KEY", "Provider key is required")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PROVIDER_NAME", "Provider name is required")
	}
	return &Provider{
		BaseEntity: shared.NewBaseEntity(),
		Key:        key,
		Name:       name,
	}, nil
}

// SetEnabled toggles the provider's enabled flag
func (p *Provider) SetEnabled(enabled bool) {
	p.Enabled = enabled
	p.Touch()
}
