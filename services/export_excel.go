package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// GenerateQuotationExcel creates an Excel workbook for a quotation and
// returns the file contents as a byte slice.
func GenerateQuotationExcel(data *QuotationExportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// Sheet name: stripped quote number (max 31 chars).
	sheetName := data.DisplayNumber()
	if len(sheetName) > 31 {
		sheetName = sheetName[:31]
	}
	if sheetName == "" {
		sheetName = "Quotation"
	}

	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	columns := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	lastCol := columns[len(columns)-1]

	widths := []float64{6, 14, 44, 10, 8, 16, 10, 16}
	for i, colRef := range columns {
		if err := f.SetColWidth(sheetName, colRef, colRef, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", colRef, err)
		}
	}

	// ── Styles ──────────────────────────────────────────────────────────

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}

	subtitleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 11},
	})
	if err != nil {
		return nil, fmt.Errorf("create subtitle style: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#333333"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	itemStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create item style: %w", err)
	}

	summaryLabelStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary label style: %w", err)
	}

	summaryValueStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary value style: %w", err)
	}

	// ── Header Rows (1-4) ───────────────────────────────────────────────

	if err := f.MergeCell(sheetName, "A1", lastCol+"1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(sheetName, "A1", "QUOTATION "+data.DisplayNumber())
	f.SetCellStyle(sheetName, "A1", lastCol+"1", titleStyle)

	if err := f.MergeCell(sheetName, "A2", lastCol+"2"); err != nil {
		return nil, fmt.Errorf("merge client: %w", err)
	}
	f.SetCellValue(sheetName, "A2", sanitizeExcelCell(data.ClientName)+" <"+data.ClientEmail+">")
	f.SetCellStyle(sheetName, "A2", lastCol+"2", subtitleStyle)

	if err := f.MergeCell(sheetName, "A3", lastCol+"3"); err != nil {
		return nil, fmt.Errorf("merge dates: %w", err)
	}
	f.SetCellValue(sheetName, "A3", "Created: "+data.CreatedDate+"  |  Valid Until: "+data.ValidUntilDate)
	f.SetCellStyle(sheetName, "A3", lastCol+"3", subtitleStyle)

	// ── Row 5: Column Headers ───────────────────────────────────────────

	headers := []string{"#", "SKU", "Description", "LT (wks)", "MOQ",
		fmt.Sprintf("Unit Price (%s)", data.Currency), "Disc %", "Total"}
	for i, h := range headers {
		f.SetCellValue(sheetName, fmt.Sprintf("%s5", columns[i]), h)
	}
	f.SetCellStyle(sheetName, "A5", lastCol+"5", headerStyle)

	// ── Data Rows (starting row 6) ──────────────────────────────────────

	rowNum := 6
	for _, item := range data.Items {
		rowStr := fmt.Sprintf("%d", rowNum)

		desc := item.Description
		if item.Notes != "" {
			desc += "\nNote: " + item.Notes
		}

		f.SetCellValue(sheetName, "A"+rowStr, item.Number)
		f.SetCellValue(sheetName, "B"+rowStr, sanitizeExcelCell(item.SKU))
		f.SetCellValue(sheetName, "C"+rowStr, sanitizeExcelCell(desc))
		f.SetCellValue(sheetName, "D"+rowStr, sanitizeExcelCell(item.LeadTime))
		f.SetCellValue(sheetName, "E"+rowStr, item.MOQ)
		f.SetCellValue(sheetName, "F"+rowStr, item.UnitPrice)
		f.SetCellValue(sheetName, "G"+rowStr, item.DiscountPercent)
		f.SetCellValue(sheetName, "H"+rowStr, item.LineTotal)

		f.SetCellStyle(sheetName, "A"+rowStr, lastCol+rowStr, itemStyle)
		rowNum++
	}

	// ── Summary Rows ────────────────────────────────────────────────────

	rowNum++

	writeSummary := func(label, value string) {
		rowStr := fmt.Sprintf("%d", rowNum)
		f.SetCellValue(sheetName, "G"+rowStr, label)
		f.SetCellStyle(sheetName, "G"+rowStr, "G"+rowStr, summaryLabelStyle)
		f.SetCellValue(sheetName, "H"+rowStr, value)
		f.SetCellStyle(sheetName, "H"+rowStr, "H"+rowStr, summaryValueStyle)
		rowNum++
	}

	writeSummary("Subtotal:", data.Subtotal)
	if data.DiscountShown {
		label := "Discount:"
		if data.DiscountPercent != "" {
			label = fmt.Sprintf("Discount (%s%%):", data.DiscountPercent)
		}
		writeSummary(label, "-"+data.Discount)
	}
	if data.TaxShown {
		writeSummary(fmt.Sprintf("Tax (%s%%):", data.TaxRate), data.Tax)
	}
	writeSummary("Total:", data.Total)

	// ── Write to buffer ─────────────────────────────────────────────────

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}

	return buf.Bytes(), nil
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +,
// -, @, \t or \r as formulas.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns excelize.Border entries for thin borders on all four
// sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}
