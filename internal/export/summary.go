// Package export renders reports as spreadsheet workbooks.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"fintrack/internal/money"
	"fintrack/internal/services"
)

// ContentType is the MIME type of an .xlsx workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Sheet names of a summary workbook.
const (
	SheetSummary    = "Summary"
	SheetByCategory = "By Category"
	SheetBudgets    = "Budgets"
)

// numFmtTwoDecimals is the built-in "0.00" number format.
const numFmtTwoDecimals = 2

// SummaryFilename returns the download name for a summary, e.g.
// "summary-2025-08.xlsx" or "summary-2025.xlsx".
func SummaryFilename(p services.SummaryPeriod) string {
	if p.Month != nil {
		return fmt.Sprintf("summary-%04d-%02d.xlsx", p.Year, *p.Month)
	}
	return fmt.Sprintf("summary-%04d.xlsx", p.Year)
}

// SummaryWorkbook renders a summary report into a workbook with one sheet
// for the totals, one for the per-category breakdown and one for budgets.
// The caller must Close the returned file.
func SummaryWorkbook(report *services.SummaryReport) (*excelize.File, error) {
	f := excelize.NewFile()

	w := &sheetWriter{f: f}
	if err := w.init(); err != nil {
		_ = f.Close()
		return nil, err
	}

	w.sheet(SheetSummary, []string{"Field", "Value"}, []float64{16, 16})
	month := ""
	if report.Period.Month != nil {
		month = fmt.Sprintf("%d", *report.Period.Month)
	}
	w.row("Year", report.Period.Year)
	w.row("Month", month)
	w.row("Income", amount(report.Totals.Income))
	w.row("Expense", amount(report.Totals.Expense))
	w.row("Balance", amount(report.Totals.Balance))
	w.formatColumn("B", 4, 6)

	w.sheet(SheetByCategory, []string{"Category ID", "Category", "Type", "Total"}, []float64{38, 24, 10, 14})
	for _, ct := range report.ByCategory {
		w.row(ct.CategoryID, ct.CategoryName, string(ct.Type), amount(ct.Total))
	}
	w.formatColumn("D", 2, len(report.ByCategory)+1)

	w.sheet(SheetBudgets, []string{"Budget ID", "Category", "Period", "Year", "Month", "Limit", "Utilized", "Remaining"},
		[]float64{38, 24, 8, 8, 8, 14, 14, 14})
	for _, b := range report.Budgets {
		category := "All expenses"
		if b.Category != nil {
			category = *b.Category
		}
		var m interface{}
		if b.Month != nil {
			m = *b.Month
		}
		w.row(b.ID, category, string(b.Period), b.Year, m, amount(b.Limit), amount(b.Utilized), amount(b.Remaining))
	}
	w.formatColumn("F", 2, len(report.Budgets)+1)
	w.formatColumn("G", 2, len(report.Budgets)+1)
	w.formatColumn("H", 2, len(report.Budgets)+1)

	if w.err != nil {
		_ = f.Close()
		return nil, w.err
	}
	f.SetActiveSheet(0)
	return f, nil
}

// amount converts to a spreadsheet number. Cells carry a two-decimal format.
func amount(a money.Amount) float64 {
	return a.Decimal().InexactFloat64()
}

// sheetWriter appends rows to the current sheet and keeps the first error.
type sheetWriter struct {
	f           *excelize.File
	name        string
	next        int
	headerStyle int
	moneyStyle  int
	first       bool
	err         error
}

func (w *sheetWriter) init() error {
	var err error
	w.headerStyle, err = w.f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	w.moneyStyle, err = w.f.NewStyle(&excelize.Style{NumFmt: numFmtTwoDecimals})
	if err != nil {
		return err
	}
	w.first = true
	return nil
}

// sheet starts a new sheet with a styled header row. The default sheet of
// a new file is renamed for the first one.
func (w *sheetWriter) sheet(name string, headers []string, widths []float64) {
	if w.err != nil {
		return
	}
	if w.first {
		w.err = w.f.SetSheetName("Sheet1", name)
		w.first = false
	} else {
		_, w.err = w.f.NewSheet(name)
	}
	if w.err != nil {
		return
	}
	w.name = name
	w.next = 1

	cells := make([]interface{}, len(headers))
	for i, h := range headers {
		cells[i] = h
	}
	w.row(cells...)

	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		w.err = err
		return
	}
	if w.err = w.f.SetCellStyle(name, "A1", last, w.headerStyle); w.err != nil {
		return
	}
	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			w.err = err
			return
		}
		if w.err = w.f.SetColWidth(name, col, col, width); w.err != nil {
			return
		}
	}
}

func (w *sheetWriter) row(values ...interface{}) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, w.next)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetSheetRow(w.name, cell, &values)
	w.next++
}

// formatColumn applies the money format to rows from..to of col.
func (w *sheetWriter) formatColumn(col string, from, to int) {
	if w.err != nil || to < from {
		return
	}
	w.err = w.f.SetCellStyle(w.name, fmt.Sprintf("%s%d", col, from), fmt.Sprintf("%s%d", col, to), w.moneyStyle)
}
