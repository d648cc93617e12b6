package infra

import (
	"bytes"
	"testing"
	"time"

	"hppkit/internal/model"
	"hppkit/internal/pricing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleReport() PriceReport {
	dec := decimal.RequireFromString
	entityID := uuid.New()
	line := func(name, category, amount string) model.CostLineDetail {
		return model.CostLineDetail{
			CostLine: model.CostLine{
				EntityID:  entityID,
				Unit:      "pcs",
				UnitPrice: dec(amount),
				Quantity:  decimal.NewFromInt(1),
				Amount:    dec(amount),
			},
			ComponentName: name,
			ComponentType: category,
		}
	}
	lines := []model.CostLineDetail{
		line("Flour", pricing.CategoryDirectMaterial, "7000"),
		line("Wages", pricing.CategoryDirectLabor, "3000"),
	}
	entries := []pricing.CostEntry{
		{Category: pricing.CategoryDirectMaterial, Amount: dec("7000")},
		{Category: pricing.CategoryDirectLabor, Amount: dec("3000")},
	}
	return PriceReport{
		Kind:      model.KindProduct,
		Entity:    model.PricedEntity{ID: entityID, Code: "BRD-1", Name: "Bread", HPP: dec("10000"), SellingPrice: dec("15625")},
		Lines:     lines,
		Breakdown: pricing.Aggregate(entries),
		Levels: []model.PriceSchema{
			{EntityID: entityID, LevelName: "Distributor", LevelOrder: 1, DiscountPercentage: dec("20"), PurchasePrice: dec("10000"), SellingPrice: dec("12500"), ProfitAmount: dec("2500")},
			{EntityID: entityID, LevelName: "Retail", LevelOrder: 2, DiscountPercentage: dec("20"), PurchasePrice: dec("12500"), SellingPrice: dec("15625"), ProfitAmount: dec("3125")},
		},
	}
}

func TestBuildCostWorkbook_WritesLinesAndLevels(t *testing.T) {
	data, err := BuildCostWorkbook(sampleReport())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{costSheet, levelSheet}, f.GetSheetList())

	title, _ := f.GetCellValue(costSheet, "A1")
	assert.Equal(t, "Product BRD-1 - Bread", title)
	first, _ := f.GetCellValue(costSheet, "A4")
	assert.Equal(t, "Flour", first)
	second, _ := f.GetCellValue(costSheet, "B5")
	assert.Equal(t, pricing.CategoryDirectLabor, second)
	hppLabel, _ := f.GetCellValue(costSheet, "F7")
	assert.Equal(t, "HPP", hppLabel)
	hpp, _ := f.GetCellValue(costSheet, "G7")
	assert.Equal(t, "10000", hpp)

	rows, err := f.GetRows(levelSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Distributor", rows[1][1])
	assert.Equal(t, "Retail", rows[2][1])
	assert.Equal(t, "15625", rows[2][4])
}

func TestBuildCostWorkbook_EmptyReport(t *testing.T) {
	data, err := BuildCostWorkbook(PriceReport{Kind: model.KindService, Breakdown: pricing.Aggregate(nil)})
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestBuildPriceListPDF_ProducesPDF(t *testing.T) {
	data, err := BuildPriceListPDF(sampleReport(), time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestBuildPriceListPDF_EmptyChain(t *testing.T) {
	report := sampleReport()
	report.Levels = nil
	data, err := BuildPriceListPDF(report, time.Now())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}
