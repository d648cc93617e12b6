package pricing

import "github.com/shopspring/decimal"

// Cost categories accepted for new cost components.
const (
	CategoryDirectMaterial = "direct_material"
	CategoryDirectLabor    = "direct_labor"
	CategoryOverhead       = "overhead"
	CategoryPackaging      = "packaging"
	CategoryOther          = "other"

	// CategoryIndirectMaterial only exists in legacy rows; it is never accepted on write.
	CategoryIndirectMaterial = "indirect_material"
)

// Categories lists the canonical categories in display order.
var Categories = []string{
	CategoryDirectMaterial,
	CategoryDirectLabor,
	CategoryOverhead,
	CategoryPackaging,
	CategoryOther,
}

// IsValidCategory reports whether t may be used when writing a cost component.
func IsValidCategory(t string) bool {
	for _, c := range Categories {
		if c == t {
			return true
		}
	}
	return false
}

// CostEntry is one cost line reduced to what the aggregator needs.
type CostEntry struct {
	Category string
	Amount   decimal.Decimal
}

// CategoryShare is the aggregated amount of one category.
type CategoryShare struct {
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
}

// Breakdown is the result of aggregating an entity's cost lines.
// Total is unrounded; use HPP for the stored value.
type Breakdown struct {
	Total      decimal.Decimal
	Categories map[string]CategoryShare
}

// HPP returns the total rounded to two decimals, the value persisted on the entity.
func (b Breakdown) HPP() decimal.Decimal {
	return b.Total.Round(2)
}

// Aggregate sums the entries into a total HPP and a per-category breakdown.
// Every canonical category is present in the result, zero-valued if unused;
// legacy categories appear only when they carry lines.
func Aggregate(entries []CostEntry) Breakdown {
	sums := make(map[string]decimal.Decimal, len(Categories))
	for _, c := range Categories {
		sums[c] = decimal.Zero
	}

	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Amount)
		sums[e.Category] = sums[e.Category].Add(e.Amount)
	}

	out := Breakdown{Total: total, Categories: make(map[string]CategoryShare, len(sums))}
	for cat, amount := range sums {
		pct := decimal.Zero
		if !total.IsZero() {
			pct = amount.Mul(hundred).Div(total).Round(2)
		}
		out.Categories[cat] = CategoryShare{Amount: amount.Round(2), Percentage: pct}
	}
	return out
}
