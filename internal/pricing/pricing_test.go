package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr(d decimal.Decimal) *decimal.Decimal { return &d }

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), append([]interface{}{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

// ── CostLineComputer ──────────────────────────────────────────────────────────

func TestLineAmount_WithConversion(t *testing.T) {
	// 1000 g box at 50000, 250 g used
	amount, err := LineAmount(dec("50000"), dec("250"), dec("1000"))
	require.NoError(t, err)
	assertDecimal(t, "12500", amount)
}

func TestLineAmount_ZeroConversionMultipliesDirectly(t *testing.T) {
	amount, err := LineAmount(dec("7500"), dec("3"), decimal.Zero)
	require.NoError(t, err)
	assertDecimal(t, "22500", amount)
}

func TestLineAmount_NotRounded(t *testing.T) {
	amount, err := LineAmount(dec("10"), dec("1"), dec("3"))
	require.NoError(t, err)
	assert.True(t, amount.GreaterThan(dec("3.333333")))
	assert.True(t, amount.LessThan(dec("3.333334")))
}

func TestLineAmount_RejectsNegativeInputs(t *testing.T) {
	cases := [][3]string{
		{"-1", "1", "0"},
		{"1", "-1", "0"},
		{"1", "1", "-1"},
	}
	for _, c := range cases {
		_, err := LineAmount(dec(c[0]), dec(c[1]), dec(c[2]))
		assert.ErrorIs(t, err, ErrNegativeInput)
	}
}

// ── CostAggregator ────────────────────────────────────────────────────────────

func TestAggregate_TotalsAndPercentages(t *testing.T) {
	b := Aggregate([]CostEntry{
		{Category: CategoryDirectMaterial, Amount: dec("40")},
		{Category: CategoryDirectMaterial, Amount: dec("20")},
		{Category: CategoryDirectLabor, Amount: dec("40")},
	})

	assertDecimal(t, "100", b.HPP())
	assertDecimal(t, "60", b.Categories[CategoryDirectMaterial].Amount)
	assertDecimal(t, "60", b.Categories[CategoryDirectMaterial].Percentage)
	assertDecimal(t, "40", b.Categories[CategoryDirectLabor].Percentage)
	assertDecimal(t, "0", b.Categories[CategoryOverhead].Amount)
	assertDecimal(t, "0", b.Categories[CategoryOverhead].Percentage)
}

func TestAggregate_EmptyHasZeroPercentages(t *testing.T) {
	b := Aggregate(nil)
	assertDecimal(t, "0", b.HPP())
	for _, c := range Categories {
		share, ok := b.Categories[c]
		require.True(t, ok, c)
		assertDecimal(t, "0", share.Percentage)
	}
}

func TestAggregate_RoundsCategoryAmounts(t *testing.T) {
	third, _ := LineAmount(dec("10"), dec("1"), dec("3"))
	b := Aggregate([]CostEntry{{Category: CategoryPackaging, Amount: third}})
	assertDecimal(t, "3.33", b.Categories[CategoryPackaging].Amount)
	assertDecimal(t, "3.33", b.HPP())
	assertDecimal(t, "100", b.Categories[CategoryPackaging].Percentage)
}

func TestIsValidCategory_RejectsLegacyIndirectMaterial(t *testing.T) {
	assert.True(t, IsValidCategory(CategoryOverhead))
	assert.False(t, IsValidCategory(CategoryIndirectMaterial))
	assert.False(t, IsValidCategory("rent"))
}

// ── Schema derivation ─────────────────────────────────────────────────────────

func TestCalcSelling(t *testing.T) {
	assertDecimal(t, "125000", CalcSelling(dec("100000"), dec("20")))
	assertDecimal(t, "160000", CalcSelling(dec("120000"), dec("25")))
	assertDecimal(t, "100000", CalcSelling(dec("100000"), decimal.Zero))
	// 100 and above clamp to 99.99
	assertDecimal(t, CalcSelling(dec("10"), dec("99.99")).String(), CalcSelling(dec("10"), dec("150")))
}

func TestCalcDiscount(t *testing.T) {
	assertDecimal(t, "20", CalcDiscount(dec("100000"), dec("125000")))
	assertDecimal(t, "0", CalcDiscount(decimal.Zero, dec("125000")))
	assertDecimal(t, "0", CalcDiscount(dec("100"), decimal.Zero))
	// selling below purchase yields a negative discount
	assertDecimal(t, "-25", CalcDiscount(dec("100"), dec("80")))
}

func TestCalcDiscount_ApproximatesInverseOfCalcSelling(t *testing.T) {
	prices := []string{"1000", "100000", "2500000"}
	discounts := []string{"0", "5", "12.5", "20", "33", "50", "75", "99.99"}
	for _, p := range prices {
		for _, d := range discounts {
			got := CalcDiscount(dec(p), CalcSelling(dec(p), dec(d)))
			diff := got.Sub(dec(d)).Abs()
			assert.True(t, diff.LessThanOrEqual(dec("0.05")), "P=%s D=%s got %s", p, d, got)
		}
	}
}

func TestDerive_ScenarioA_DiscountOnly(t *testing.T) {
	lv := Derive(dec("100000"), ptr(dec("20")), nil)
	assertDecimal(t, "125000", lv.SellingPrice)
	assertDecimal(t, "25000", lv.ProfitAmount)
	assertDecimal(t, "20", lv.DiscountPercentage)
}

func TestDerive_SellingPriceOnly(t *testing.T) {
	lv := Derive(dec("100000"), nil, ptr(dec("120000")))
	assertDecimal(t, "120000", lv.SellingPrice)
	assertDecimal(t, "16.67", lv.DiscountPercentage)
	assertDecimal(t, "20000", lv.ProfitAmount)
}

func TestDerive_DiscountWinsOverSellingPrice(t *testing.T) {
	lv := Derive(dec("100000"), ptr(dec("20")), ptr(dec("999999")))
	assertDecimal(t, "125000", lv.SellingPrice)
}

func TestDerive_NeitherSellsAtPurchase(t *testing.T) {
	lv := Derive(dec("5000"), nil, nil)
	assertDecimal(t, "5000", lv.SellingPrice)
	assertDecimal(t, "0", lv.DiscountPercentage)
	assertDecimal(t, "0", lv.ProfitAmount)
}

func TestDerive_ClampsDiscountAbove99_99(t *testing.T) {
	lv := Derive(dec("1"), ptr(dec("100")), nil)
	assertDecimal(t, "99.99", lv.DiscountPercentage)
	assertDecimal(t, "10000", lv.SellingPrice)
}

func TestRelink(t *testing.T) {
	lv := Relink(dec("100000"), dec("160000"))
	assertDecimal(t, "100000", lv.PurchasePrice)
	assertDecimal(t, "60000", lv.ProfitAmount)
	assertDecimal(t, "37.5", lv.DiscountPercentage)
}

func TestDerive_RoundsSuppliedMoneyTo2dp(t *testing.T) {
	lv := Derive(dec("100000"), nil, ptr(dec("120000.555")))
	assertDecimal(t, "120000.56", lv.SellingPrice)
	assertDecimal(t, "20000.56", lv.ProfitAmount)
	assertDecimal(t, "16.67", lv.DiscountPercentage)

	lv = Derive(dec("99999.994"), ptr(dec("0")), nil)
	assertDecimal(t, "99999.99", lv.PurchasePrice)
	assertDecimal(t, "99999.99", lv.SellingPrice)
	assertDecimal(t, "0", lv.ProfitAmount)
}

func TestRelink_RoundsAndKeepsProfitExact(t *testing.T) {
	lv := Relink(dec("120000.555"), dec("160000"))
	assertDecimal(t, "120000.56", lv.PurchasePrice)
	assertDecimal(t, "39999.44", lv.ProfitAmount)
	assert.True(t, lv.SellingPrice.Sub(lv.PurchasePrice).Equal(lv.ProfitAmount))
}

func TestRelink_TinySellingPriceGivesLargeNegativeDiscount(t *testing.T) {
	lv := Derive(dec("120000"), nil, ptr(dec("1")))
	assertDecimal(t, "-11999900", lv.DiscountPercentage)
	assertDecimal(t, "-119999", lv.ProfitAmount)

	// largest purchase a numeric(15,2) column holds against the smallest price
	lv = Relink(dec("9999999999999.99"), dec("0.01"))
	assert.True(t, lv.DiscountPercentage.Abs().LessThan(dec("1e18")), "discount %s must fit numeric(20,2)", lv.DiscountPercentage)
}

// ── Chain helpers ─────────────────────────────────────────────────────────────

func TestClampOrder(t *testing.T) {
	assert.Equal(t, 1, ClampOrder(0, 3))
	assert.Equal(t, 1, ClampOrder(-4, 3))
	assert.Equal(t, 2, ClampOrder(2, 3))
	assert.Equal(t, 3, ClampOrder(9, 3))
	assert.Equal(t, 1, ClampOrder(5, 0))
}

func TestMove(t *testing.T) {
	in := []string{"a", "b", "c", "d"}
	assert.Equal(t, []string{"d", "a", "b", "c"}, Move(in, 3, 0))
	assert.Equal(t, []string{"b", "c", "d", "a"}, Move(in, 0, 3))
	assert.Equal(t, []string{"a", "c", "b", "d"}, Move(in, 1, 2))
	assert.Equal(t, in, Move(in, 1, 1))
	assert.Equal(t, []string{"a", "b", "c", "d"}, in, "input must not be mutated")
}

// ── Simulator ─────────────────────────────────────────────────────────────────

func TestSimulate_ScenarioD_PercentageMargin(t *testing.T) {
	r := Simulate(SimulationInput{
		BaseCost:    dec("80000"),
		MarginType:  AdjustPercentage,
		MarginValue: dec("25"),
	})
	assertDecimal(t, "106666.67", r.PriceBeforeDiscount)
	assertDecimal(t, "106666.67", r.RetailPrice)
	assertDecimal(t, "26666.67", r.Profit)
	assertDecimal(t, "33.33", r.ProfitPercentage)
}

func TestSimulate_FixedMarginAndDiscounts(t *testing.T) {
	base := SimulationInput{BaseCost: dec("1000"), MarginType: AdjustFixed, MarginValue: dec("250")}

	r := Simulate(base)
	assertDecimal(t, "1250", r.PriceBeforeDiscount)
	assertDecimal(t, "250", r.Profit)
	assertDecimal(t, "25", r.ProfitPercentage)

	pct := base
	pct.DiscountType, pct.DiscountValue = AdjustPercentage, dec("10")
	assertDecimal(t, "1388.89", Simulate(pct).RetailPrice)

	fixed := base
	fixed.DiscountType, fixed.DiscountValue = AdjustFixed, dec("50")
	assertDecimal(t, "1300", Simulate(fixed).RetailPrice)

	zero := base
	zero.DiscountType, zero.DiscountValue = AdjustFixed, decimal.Zero
	assertDecimal(t, "1250", Simulate(zero).RetailPrice)
}

func TestSimulate_ZeroBaseCost(t *testing.T) {
	r := Simulate(SimulationInput{BaseCost: decimal.Zero, MarginType: AdjustFixed, MarginValue: dec("10")})
	assertDecimal(t, "10", r.RetailPrice)
	assertDecimal(t, "0", r.ProfitPercentage)
}
