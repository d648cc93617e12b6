package pricing

import "github.com/shopspring/decimal"

// Adjustment types for simulator margins and discounts.
const (
	AdjustPercentage = "percentage"
	AdjustFixed      = "fixed"
)

// SimulationInput is a what-if pricing configuration over a base cost.
// DiscountType empty means no discount.
type SimulationInput struct {
	BaseCost      decimal.Decimal
	MarginType    string
	MarginValue   decimal.Decimal
	DiscountType  string
	DiscountValue decimal.Decimal
}

// SimulationResult holds the simulator outputs, money rounded to 2dp.
type SimulationResult struct {
	PriceBeforeDiscount decimal.Decimal
	RetailPrice         decimal.Decimal
	Profit              decimal.Decimal
	ProfitPercentage    decimal.Decimal
}

// markup applies a percentage (as a divisor) or fixed amount on top of price.
// A "discount" is modelled with the same markup formula, so it raises the price.
func markup(price decimal.Decimal, kind string, value decimal.Decimal) decimal.Decimal {
	if kind == AdjustFixed {
		return price.Add(value)
	}
	v := ClampDiscount(value)
	return price.Div(hundred.Sub(v).Div(hundred))
}

// Simulate computes a hypothetical retail price from a base cost.
func Simulate(in SimulationInput) SimulationResult {
	before := markup(in.BaseCost, in.MarginType, in.MarginValue).Round(2)

	retail := before
	if in.DiscountType != "" && in.DiscountValue.IsPositive() {
		retail = markup(before, in.DiscountType, in.DiscountValue).Round(2)
	}

	profit := before.Sub(in.BaseCost)
	pct := decimal.Zero
	if in.BaseCost.IsPositive() {
		pct = profit.Div(in.BaseCost).Mul(hundred).Round(2)
	}

	return SimulationResult{
		PriceBeforeDiscount: before,
		RetailPrice:         retail,
		Profit:              profit.Round(2),
		ProfitPercentage:    pct,
	}
}
