package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PricingSimulation is a stored what-if retail price for a product.
// At most one simulation per product has IsApplied=true.
type PricingSimulation struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name                string          `gorm:"not null"`
	BaseCost            decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	MarginType          string          `gorm:"not null"` // percentage | fixed
	MarginValue         decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	DiscountType        *string         // percentage | fixed | nil
	DiscountValue       decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	PriceBeforeDiscount decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	RetailPrice         decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Profit              decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	ProfitPercentage    decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	IsApplied           bool            `gorm:"not null;default:false"`
	Notes               *string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (PricingSimulation) TableName() string { return "pricing_simulations" }
