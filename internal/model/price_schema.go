package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceSchema is one level of an entity's reseller price ladder (tables
// product_price_schemas / service_price_schemas). LevelOrder is dense 1..N
// per entity; level k>1 buys at level k-1's selling price.
type PriceSchema struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EntityID           uuid.UUID       `gorm:"type:uuid;not null"`
	LevelName          string          `gorm:"not null"`
	LevelOrder         int             `gorm:"not null"`
	DiscountPercentage decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0"`
	PurchasePrice      decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	SellingPrice       decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	ProfitAmount       decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Notes              *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
