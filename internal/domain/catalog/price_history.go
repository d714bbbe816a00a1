package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceHistory is one immutable price observation. Entries are appended only
// when a sync sees a price different from the one currently stored, so the
// sequence is a log of changes rather than a log of syncs.
type PriceHistory struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Price      decimal.Decimal `gorm:"type:numeric(14,4);not null"`
	Currency   string          `gorm:"type:varchar(10);not null"`
	ObservedAt time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (PriceHistory) TableName() string {
	return "price_history"
}

// NewPriceHistory creates a price observation for a product
func NewPriceHistory(productID uuid.UUID, price decimal.Decimal, currency string) PriceHistory {
	return PriceHistory{
		ID:         uuid.New(),
		ProductID:  productID,
		Price:      price,
		Currency:   currency,
		ObservedAt: time.Now(),
	}
}
