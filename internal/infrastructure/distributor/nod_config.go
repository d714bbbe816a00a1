package distributor

import (
	"fmt"
	"time"

	"github.com/catalogsync/backend/internal/domain/provider"
)

// NODDefaultBaseURL is the production NOD B2B API endpoint
const NODDefaultBaseURL = "https://api.b2b.nod.ro"

// NODConfig holds configuration for the NOD B2B API integration
type NODConfig struct {
	// BaseURL is the API endpoint, defaulted to production
	BaseURL string
	// APIUser is the webservice account name
	APIUser string
	// APIKey is the shared HMAC secret
	APIKey string
	// Timeout bounds one feed request; the full feed is slow
	Timeout time.Duration
}

// Validate validates the NOD configuration and applies defaults
func (c *NODConfig) Validate() error {
	if c.APIUser == "" {
		return fmt.Errorf("%w: nod api user", provider.ErrMissingCredential)
	}
	if c.APIKey == "" {
		return fmt.Errorf("%w: nod api key", provider.ErrMissingCredential)
	}
	if c.BaseURL == "" {
		c.BaseURL = NODDefaultBaseURL
	}
	if c.Timeout == 0 {
		c.Timeout = 3 * time.Minute
	}
	return nil
}
