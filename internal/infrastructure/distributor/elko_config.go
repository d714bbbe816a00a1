package distributor

import (
	"fmt"
	"strings"
	"time"

	"github.com/catalogsync/backend/internal/domain/provider"
)

// ElkoDefaultBaseURL is the production ELKO cloud API endpoint
const ElkoDefaultBaseURL = "https://roapi.elko.cloud/v3.0"

// ElkoConfig holds configuration for the ELKO B2B API integration
type ElkoConfig struct {
	// BaseURL is the API endpoint, defaulted to production
	BaseURL string
	// Token is the bearer JWT issued by the ELKO portal
	Token string
	// Timeout bounds one API request
	Timeout time.Duration
}

// Validate validates the ELKO configuration and applies defaults
func (c *ElkoConfig) Validate() error {
	if c.Token == "" {
		return fmt.Errorf("%w: elko token", provider.ErrMissingCredential)
	}
	if c.BaseURL == "" {
		c.BaseURL = ElkoDefaultBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
	return nil
}
