package pricing

import "github.com/shopspring/decimal"

// ClampDiscount caps a discount percentage at 99.99 so the divisor in
// CalcSelling never reaches zero.
func ClampDiscount(d decimal.Decimal) decimal.Decimal {
	if d.GreaterThan(maxPercent) {
		return maxPercent
	}
	return d
}

// CalcSelling returns the selling price whose discount from the buyer's point
// of view equals discount: price / ((100 - discount) / 100), rounded to 2dp.
func CalcSelling(price, discount decimal.Decimal) decimal.Decimal {
	d := ClampDiscount(discount)
	divisor := hundred.Sub(d)
	if divisor.IsZero() {
		return price
	}
	return price.Div(divisor.Div(hundred)).Round(2)
}

// CalcDiscount is the inverse of CalcSelling: the percentage that turns
// price into sellingPrice, capped at 99.99 and rounded to 2dp.
// Non-positive inputs yield zero.
func CalcDiscount(price, sellingPrice decimal.Decimal) decimal.Decimal {
	if !price.IsPositive() || !sellingPrice.IsPositive() {
		return decimal.Zero
	}
	d := hundred.Sub(price.Div(sellingPrice).Mul(hundred))
	return decimal.Min(d, maxPercent).Round(2)
}

// Level holds the derived price fields of one schema level.
type Level struct {
	PurchasePrice      decimal.Decimal
	DiscountPercentage decimal.Decimal
	SellingPrice       decimal.Decimal
	ProfitAmount       decimal.Decimal
}

// Derive applies the level derivation rule to a resolved purchase price.
// A supplied discount wins over a supplied selling price; with neither the
// level sells at its purchase price. Money inputs are rounded to 2dp first so
// profit always equals selling minus purchase as stored.
func Derive(purchase decimal.Decimal, discount, selling *decimal.Decimal) Level {
	purchase = purchase.Round(2)
	lv := Level{PurchasePrice: purchase}
	switch {
	case discount != nil:
		lv.DiscountPercentage = ClampDiscount(*discount)
		lv.SellingPrice = CalcSelling(purchase, lv.DiscountPercentage)
	case selling != nil:
		lv.SellingPrice = selling.Round(2)
		lv.DiscountPercentage = CalcDiscount(purchase, lv.SellingPrice)
	default:
		lv.DiscountPercentage = decimal.Zero
		lv.SellingPrice = CalcSelling(purchase, decimal.Zero)
	}
	lv.ProfitAmount = lv.SellingPrice.Sub(lv.PurchasePrice)
	return lv
}

// Relink re-anchors a level that keeps its selling price onto a new purchase
// price, recomputing profit and discount.
func Relink(purchase, selling decimal.Decimal) Level {
	purchase, selling = purchase.Round(2), selling.Round(2)
	return Level{
		PurchasePrice:      purchase,
		DiscountPercentage: CalcDiscount(purchase, selling),
		SellingPrice:       selling,
		ProfitAmount:       selling.Sub(purchase),
	}
}
