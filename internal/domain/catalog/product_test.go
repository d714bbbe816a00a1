package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestNewProduct(t *testing.T) {
	providerID := uuid.New()

	t.Run("valid", func(t *testing.T) {
		p, err := NewProduct(providerID, "EXT-1", "Widget")
		require.NoError(t, err)
		assert.Equal(t, providerID, p.ProviderID)
		assert.Equal(t, "EXT-1", p.ExternalID)
		assert.Equal(t, "RON", p.Currency)
		assert.NotEqual(t, uuid.Nil, p.ID)
	})

	t.Run("missing external id", func(t *testing.T) {
		_, err := NewProduct(providerID, "", "Widget")
		assert.Error(t, err)
	})

	t.Run("missing name", func(t *testing.T) {
		_, err := NewProduct(providerID, "EXT-1", "")
		assert.Error(t, err)
	})
}

func TestProduct_PriceChanged(t *testing.T) {
	tests := []struct {
		name     string
		stored   *decimal.Decimal
		observed *decimal.Decimal
		want     bool
	}{
		{"absent observation never changes", dec("10"), nil, false},
		{"absent observation on priceless product", nil, nil, false},
		{"first price counts", nil, dec("10"), true},
		{"same price", dec("10"), dec("10.00"), false},
		{"different price", dec("10"), dec("12.50"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Product{Price: tt.stored}
			assert.Equal(t, tt.want, p.PriceChanged(tt.observed))
		})
	}
}

func TestProduct_SetRawPayload(t *testing.T) {
	p, err := NewProduct(uuid.New(), "EXT-1", "Widget")
	require.NoError(t, err)

	p.SetRawPayload(map[string]any{"id": "EXT-1", "price": 10.5})
	assert.JSONEq(t, `{"id":"EXT-1","price":10.5}`, p.RawPayload)

	// Unmarshalable payloads leave the stored text untouched
	p.SetRawPayload(func() {})
	assert.JSONEq(t, `{"id":"EXT-1","price":10.5}`, p.RawPayload)
}

func TestNewProductAttribute(t *testing.T) {
	productID := uuid.New()
	attr := NewProductAttribute(productID, "ean", "5901234")

	assert.Equal(t, productID, attr.ProductID)
	assert.Equal(t, "ean", attr.Key)
	assert.Equal(t, "5901234", attr.Value)
	assert.NotEqual(t, uuid.Nil, attr.ID)
}

func TestNewPriceHistory(t *testing.T) {
	productID := uuid.New()
	entry := NewPriceHistory(productID, decimal.RequireFromString("99.99"), "RON")

	assert.Equal(t, productID, entry.ProductID)
	assert.Equal(t, "99.99", entry.Price.String())
	assert.Equal(t, "RON", entry.Currency)
	assert.False(t, entry.ObservedAt.IsZero())
}
