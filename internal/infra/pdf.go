package infra

// pdf.go: A4 price list generation using go-pdf/fpdf.
// Layout:
//   - Entity code, name and HPP header
//   - Price level table (order, name, purchase, discount, selling, profit)
//   - Current selling price footer

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

// BuildPriceListPDF renders the price chain of report as a one-page PDF.
func BuildPriceListPDF(report PriceReport, now time.Time) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, "Price list", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, fmt.Sprintf("%s %s - %s", report.Kind.Label(), report.Entity.Code, report.Entity.Name), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 6, "HPP: "+report.Entity.HPP.StringFixed(2), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Generated "+now.Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// ── Level table ───────────────────────────────────────────────────────────
	widths := []float64{contentW * 0.08, contentW * 0.28, contentW * 0.17, contentW * 0.12, contentW * 0.18, contentW * 0.17}
	headers := []string{"#", "Level", "Purchase", "Disc. %", "Selling", "Profit"}

	pdf.SetFont("Helvetica", "B", 9)
	for i, h := range headers {
		align := "R"
		if i < 2 {
			align = "L"
		}
		pdf.CellFormat(widths[i], 6, h, "B", 0, align, false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	if len(report.Levels) == 0 {
		pdf.CellFormat(contentW, 6, "No price levels defined", "", 1, "L", false, 0, "")
	}
	for _, lv := range report.Levels {
		name := lv.LevelName
		if len(name) > 40 {
			name = name[:39] + "..."
		}
		pdf.CellFormat(widths[0], 6, fmt.Sprintf("%d", lv.LevelOrder), "", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, name, "", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6, lv.PurchasePrice.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 6, lv.DiscountPercentage.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 6, lv.SellingPrice.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(widths[5], 6, lv.ProfitAmount.StringFixed(2), "", 1, "R", false, 0, "")
	}

	// ── Footer ────────────────────────────────────────────────────────────────
	pdf.Ln(3)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW*0.65, 7, "Selling price", "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.35, 7, report.Entity.SellingPrice.StringFixed(2), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: write: %w", err)
	}
	return buf.Bytes(), nil
}
