package distributor

import (
	"fmt"
	"strings"
	"time"

	"github.com/catalogsync/backend/internal/domain/provider"
)

// IngramDefaultBaseURL is the production Ingram Micro 24 portal
const IngramDefaultBaseURL = "https://www.ingrammicro24.com"

// IngramConfig holds configuration for the Ingram Micro 24 feed.
// Authentication is an API key embedded in the URL, not a header.
type IngramConfig struct {
	// BaseURL is the portal address, defaulted to production
	BaseURL string
	// APIKey is the feed key issued per reseller
	APIKey string
	// Timeout bounds one feed download
	Timeout time.Duration
}

// Validate validates the Ingram configuration and applies defaults
func (c *IngramConfig) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("%w: ingram api key", provider.ErrMissingCredential)
	}
	if c.BaseURL == "" {
		c.BaseURL = IngramDefaultBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Timeout == 0 {
		c.Timeout = 2 * time.Minute
	}
	return nil
}

// availabilityURL returns the hourly availability CSV endpoint
func (c *IngramConfig) availabilityURL() string {
	return c.BaseURL + "/ro/api/availability/" + c.APIKey + "/"
}
