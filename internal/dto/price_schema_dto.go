package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CreatePriceSchemaRequest appends a level to an entity's chain. Supply either
// DiscountPercentage or SellingPrice; PurchasePrice overrides the base cost and
// is only honoured when the new level is level 1.
type CreatePriceSchemaRequest struct {
	EntityID           string           `json:"entity_id"           validate:"required,uuid"`
	LevelName          string           `json:"level_name"          validate:"required,min=1,max=100"`
	DiscountPercentage *decimal.Decimal `json:"discount_percentage" validate:"omitempty,min=0"`
	SellingPrice       *decimal.Decimal `json:"selling_price"       validate:"omitempty,min=0"`
	PurchasePrice      *decimal.Decimal `json:"purchase_price"      validate:"omitempty,min=0"`
	Notes              *string          `json:"notes"               validate:"omitempty,max=500"`
}

type UpdatePriceSchemaRequest struct {
	LevelName          *string          `json:"level_name"          validate:"omitempty,min=1,max=100"`
	LevelOrder         *int             `json:"level_order"`
	DiscountPercentage *decimal.Decimal `json:"discount_percentage" validate:"omitempty,min=0"`
	SellingPrice       *decimal.Decimal `json:"selling_price"       validate:"omitempty,min=0"`
	PurchasePrice      *decimal.Decimal `json:"purchase_price"      validate:"omitempty,min=0"`
	Notes              *string          `json:"notes"               validate:"omitempty,max=500"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PriceSchemaResponse struct {
	ID                 string          `json:"id"`
	EntityID           string          `json:"entity_id"`
	LevelName          string          `json:"level_name"`
	LevelOrder         int             `json:"level_order"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	PurchasePrice      decimal.Decimal `json:"purchase_price"`
	SellingPrice       decimal.Decimal `json:"selling_price"`
	ProfitAmount       decimal.Decimal `json:"profit_amount"`
	Notes              *string         `json:"notes"`
}

type PriceSchemaListResponse struct {
	Entity *EntityRef            `json:"entity"`
	Data   []PriceSchemaResponse `json:"data"`
}

// PriceCardResponse is the cached read model of an entity's current prices.
type PriceCardResponse struct {
	Entity EntityRef             `json:"entity"`
	Levels []PriceSchemaResponse `json:"levels"`
}
