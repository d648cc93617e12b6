// Package pricing holds the pure arithmetic of the cost and price engine:
// cost-line amounts, HPP aggregation, price-schema derivation and the retail
// pricing simulator. Nothing here touches storage.
package pricing

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrNegativeInput is returned when a monetary or quantity input is below zero.
var ErrNegativeInput = errors.New("pricing: negative input")

var (
	hundred    = decimal.NewFromInt(100)
	maxPercent = decimal.RequireFromString("99.99")
)

// LineAmount computes a cost line's amount. conversionQty converts the
// purchased unit into the costing unit; zero means no conversion.
// The result is not rounded.
func LineAmount(unitPrice, quantity, conversionQty decimal.Decimal) (decimal.Decimal, error) {
	if unitPrice.IsNegative() || quantity.IsNegative() || conversionQty.IsNegative() {
		return decimal.Zero, ErrNegativeInput
	}
	if conversionQty.IsPositive() {
		return unitPrice.Div(conversionQty).Mul(quantity), nil
	}
	return unitPrice.Mul(quantity), nil
}
