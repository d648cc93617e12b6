package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CreateCostLineRequest carries no amount: it is always computed.
type CreateCostLineRequest struct {
	EntityID        string          `json:"entity_id"         validate:"required,uuid"`
	CostComponentID string          `json:"cost_component_id" validate:"required,uuid"`
	Unit            string          `json:"unit"              validate:"required,max=20"`
	UnitPrice       decimal.Decimal `json:"unit_price"        validate:"min=0"`
	Quantity        decimal.Decimal `json:"quantity"          validate:"min=0"`
	ConversionQty   decimal.Decimal `json:"conversion_qty"    validate:"min=0"`
}

type UpdateCostLineRequest struct {
	CostComponentID *string          `json:"cost_component_id" validate:"omitempty,uuid"`
	Unit            *string          `json:"unit"              validate:"omitempty,max=20"`
	UnitPrice       *decimal.Decimal `json:"unit_price"        validate:"omitempty,min=0"`
	Quantity        *decimal.Decimal `json:"quantity"          validate:"omitempty,min=0"`
	ConversionQty   *decimal.Decimal `json:"conversion_qty"    validate:"omitempty,min=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CostLineResponse struct {
	ID              string          `json:"id"`
	EntityID        string          `json:"entity_id"`
	CostComponentID string          `json:"cost_component_id"`
	ComponentName   string          `json:"component_name,omitempty"`
	ComponentType   string          `json:"component_type,omitempty"`
	Unit            string          `json:"unit"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Quantity        decimal.Decimal `json:"quantity"`
	ConversionQty   decimal.Decimal `json:"conversion_qty"`
	Amount          decimal.Decimal `json:"amount"`
}

// CostLineMutationResponse is returned by create/update/delete: the line plus
// the entity's recomputed HPP.
type CostLineMutationResponse struct {
	Line *CostLineResponse `json:"line,omitempty"`
	HPP  decimal.Decimal   `json:"hpp"`
}

type CategoryShare struct {
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
}

// HPPBreakdownResponse is the CostAggregator output: one entry per category
// plus the total.
type HPPBreakdownResponse struct {
	Categories map[string]CategoryShare `json:"categories"`
	Total      decimal.Decimal          `json:"total"`
}

type CostLineListResponse struct {
	Entity    EntityRef            `json:"entity"`
	Data      []CostLineResponse   `json:"data"`
	Breakdown HPPBreakdownResponse `json:"breakdown"`
}
