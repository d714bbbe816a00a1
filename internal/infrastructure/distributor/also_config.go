package distributor

import (
	"fmt"
	"time"

	"github.com/catalogsync/backend/internal/domain/provider"
	"github.com/shopspring/decimal"
)

// ALSOConfig holds configuration for the ALSO SFTP price list.
// Credential problems surface here, before any dial.
type ALSOConfig struct {
	// Host is the SFTP server
	Host string
	// Port is the SSH port, defaulted to 22
	Port int
	// Username and Password authenticate the SSH session
	Username string
	Password string
	// RemotePath is the price list file on the server
	RemotePath string
	// VATRate divides the VAT-inclusive feed price down to net
	VATRate decimal.Decimal
	// Timeout bounds the SSH dial
	Timeout time.Duration
}

// Validate validates the ALSO configuration and applies defaults
func (c *ALSOConfig) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("%w: also host", provider.ErrMissingCredential)
	}
	if c.Username == "" {
		return fmt.Errorf("%w: also username", provider.ErrMissingCredential)
	}
	if c.Password == "" {
		return fmt.Errorf("%w: also password", provider.ErrMissingCredential)
	}
	if c.Port == 0 {
		c.Port = 22
	}
	if c.RemotePath == "" {
		c.RemotePath = "pricelist-1.csv"
	}
	if c.VATRate.IsZero() {
		c.VATRate = decimal.RequireFromString("1.19")
	}
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
	return nil
}
