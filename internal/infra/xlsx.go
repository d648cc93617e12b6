package infra

// xlsx.go: cost sheet export using excelize.
// Two sheets:
//   - "Costs": one row per cost line plus the HPP total and category shares
//   - "Price levels": the price chain in level order

import (
	"fmt"

	"hppkit/internal/pricing"

	"github.com/xuri/excelize/v2"
)

const (
	costSheet  = "Costs"
	levelSheet = "Price levels"
)

// BuildCostWorkbook renders report as an .xlsx document.
func BuildCostWorkbook(report PriceReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", costSheet); err != nil {
		return nil, fmt.Errorf("xlsx: rename sheet: %w", err)
	}
	if _, err := f.NewSheet(levelSheet); err != nil {
		return nil, fmt.Errorf("xlsx: new sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx: style: %w", err)
	}

	// ── Costs ─────────────────────────────────────────────────────────────────
	title := fmt.Sprintf("%s %s - %s", report.Kind.Label(), report.Entity.Code, report.Entity.Name)
	_ = f.SetCellValue(costSheet, "A1", title)
	_ = f.SetCellStyle(costSheet, "A1", "A1", bold)

	headers := []string{"Component", "Category", "Unit", "Unit price", "Quantity", "Conversion", "Amount"}
	if err := writeRow(f, costSheet, 3, headers); err != nil {
		return nil, err
	}
	_ = f.SetCellStyle(costSheet, "A3", "G3", bold)

	row := 4
	for _, l := range report.Lines {
		values := []interface{}{
			l.ComponentName,
			l.ComponentType,
			l.Unit,
			l.UnitPrice.InexactFloat64(),
			l.Quantity.InexactFloat64(),
			l.ConversionQty.InexactFloat64(),
			l.Amount.Round(2).InexactFloat64(),
		}
		if err := writeRow(f, costSheet, row, values); err != nil {
			return nil, err
		}
		row++
	}

	row++
	_ = f.SetCellValue(costSheet, cell("F", row), "HPP")
	_ = f.SetCellValue(costSheet, cell("G", row), report.Breakdown.HPP().InexactFloat64())
	_ = f.SetCellStyle(costSheet, cell("F", row), cell("G", row), bold)

	row += 2
	if err := writeRow(f, costSheet, row, []string{"Category", "Amount", "Share %"}); err != nil {
		return nil, err
	}
	_ = f.SetCellStyle(costSheet, cell("A", row), cell("C", row), bold)
	for _, c := range pricing.Categories {
		row++
		share := report.Breakdown.Categories[c]
		values := []interface{}{c, share.Amount.InexactFloat64(), share.Percentage.InexactFloat64()}
		if err := writeRow(f, costSheet, row, values); err != nil {
			return nil, err
		}
	}

	// ── Price levels ──────────────────────────────────────────────────────────
	levelHeaders := []string{"Order", "Level", "Purchase price", "Discount %", "Selling price", "Profit"}
	if err := writeRow(f, levelSheet, 1, levelHeaders); err != nil {
		return nil, err
	}
	_ = f.SetCellStyle(levelSheet, "A1", "F1", bold)
	for i, lv := range report.Levels {
		values := []interface{}{
			lv.LevelOrder,
			lv.LevelName,
			lv.PurchasePrice.InexactFloat64(),
			lv.DiscountPercentage.InexactFloat64(),
			lv.SellingPrice.InexactFloat64(),
			lv.ProfitAmount.InexactFloat64(),
		}
		if err := writeRow(f, levelSheet, i+2, values); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: write: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow[T any](f *excelize.File, sheet string, row int, values []T) error {
	for i, v := range values {
		name, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return fmt.Errorf("xlsx: cell name: %w", err)
		}
		if err := f.SetCellValue(sheet, name, v); err != nil {
			return fmt.Errorf("xlsx: set %s: %w", name, err)
		}
	}
	return nil
}

func cell(col string, row int) string { return fmt.Sprintf("%s%d", col, row) }
