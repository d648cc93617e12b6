package dto

import "github.com/shopspring/decimal"

type SimulatePricingRequest struct {
	ProductID     string          `json:"product_id"     validate:"required,uuid"`
	Name          string          `json:"name"           validate:"omitempty,max=100"`
	MarginType    string          `json:"margin_type"    validate:"required,oneof=percentage fixed"`
	MarginValue   decimal.Decimal `json:"margin_value"   validate:"min=0"`
	DiscountType  *string         `json:"discount_type"  validate:"omitempty,oneof=percentage fixed"`
	DiscountValue decimal.Decimal `json:"discount_value" validate:"min=0"`
	Notes         *string         `json:"notes"          validate:"omitempty,max=500"`
}

type SimulationResponse struct {
	ID                  string          `json:"id"`
	ProductID           string          `json:"product_id"`
	Name                string          `json:"name"`
	BaseCost            decimal.Decimal `json:"base_cost"`
	MarginType          string          `json:"margin_type"`
	MarginValue         decimal.Decimal `json:"margin_value"`
	DiscountType        *string         `json:"discount_type"`
	DiscountValue       decimal.Decimal `json:"discount_value"`
	PriceBeforeDiscount decimal.Decimal `json:"price_before_discount"`
	RetailPrice         decimal.Decimal `json:"retail_price"`
	Profit              decimal.Decimal `json:"profit"`
	ProfitPercentage    decimal.Decimal `json:"profit_percentage"`
	IsApplied           bool            `json:"is_applied"`
	Notes               *string         `json:"notes"`
	CreatedAt           string          `json:"created_at"`
}
