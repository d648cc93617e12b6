package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CostLine is one itemized cost of a product or service (tables
// product_costs / service_costs). Amount is always derived from
// UnitPrice, Quantity and ConversionQty.
type CostLine struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EntityID        uuid.UUID       `gorm:"type:uuid;not null"`
	CostComponentID uuid.UUID       `gorm:"type:uuid;not null"`
	Unit            string          `gorm:"not null"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(15,4);not null"`
	Quantity        decimal.Decimal `gorm:"type:decimal(15,4);not null"`
	ConversionQty   decimal.Decimal `gorm:"type:decimal(15,4);not null;default:0"`
	Amount          decimal.Decimal `gorm:"type:decimal(18,6);not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CostLineDetail is a cost line joined with its component, as read for
// listings and aggregation.
type CostLineDetail struct {
	CostLine
	ComponentName string
	ComponentType string
}
