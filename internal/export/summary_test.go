package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"fintrack/internal/models"
	"fintrack/internal/money"
	"fintrack/internal/services"
)

func sampleReport() *services.SummaryReport {
	month := 8
	groceries := "Groceries"
	return &services.SummaryReport{
		Period: services.SummaryPeriod{Year: 2025, Month: &month},
		Totals: services.Totals{
			Income:  money.MustParse("3000.00"),
			Expense: money.MustParse("950.50"),
			Balance: money.MustParse("2049.50"),
		},
		ByCategory: []services.CategoryTotal{
			{CategoryID: "c1", CategoryName: "Salary", Type: models.EntryTypeIncome, Total: money.MustParse("3000.00")},
			{CategoryID: "c2", CategoryName: "Groceries", Type: models.EntryTypeExpense, Total: money.MustParse("50.50")},
		},
		Budgets: []services.BudgetSummaryItem{
			{ID: "b1", Category: &groceries, Period: models.BudgetPeriodMonth, Year: 2025, Month: &month,
				Limit: money.MustParse("200.00"), Utilized: money.MustParse("50.50"), Remaining: money.MustParse("149.50")},
			{ID: "b2", Period: models.BudgetPeriodYear, Year: 2025,
				Limit: money.MustParse("1000.00"), Utilized: money.MustParse("1200.00"), Remaining: money.MustParse("-200.00")},
		},
	}
}

func roundTrip(t *testing.T, report *services.SummaryReport) *excelize.File {
	t.Helper()
	f, err := SummaryWorkbook(report)
	require.NoError(t, err)
	defer f.Close()

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	opened, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = opened.Close() })
	return opened
}

func TestSummaryWorkbook(t *testing.T) {
	f := roundTrip(t, sampleReport())

	assert.Equal(t, []string{SheetSummary, SheetByCategory, SheetBudgets}, f.GetSheetList())

	raw := excelize.Options{RawCellValue: true}
	cell := func(sheet, axis string) string {
		v, err := f.GetCellValue(sheet, axis, raw)
		require.NoError(t, err)
		return v
	}

	t.Run("summary sheet", func(t *testing.T) {
		assert.Equal(t, "Field", cell(SheetSummary, "A1"))
		assert.Equal(t, "2025", cell(SheetSummary, "B2"))
		assert.Equal(t, "8", cell(SheetSummary, "B3"))
		assert.Equal(t, "3000", cell(SheetSummary, "B4"))
		assert.Equal(t, "950.5", cell(SheetSummary, "B5"))
		assert.Equal(t, "2049.5", cell(SheetSummary, "B6"))
	})

	t.Run("category sheet", func(t *testing.T) {
		rows, err := f.GetRows(SheetByCategory, raw)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, []string{"c2", "Groceries", "EXPENSE", "50.5"}, rows[2])
	})

	t.Run("budget sheet", func(t *testing.T) {
		rows, err := f.GetRows(SheetBudgets, raw)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, "Groceries", rows[1][1])
		assert.Equal(t, "All expenses", rows[2][1])
		assert.Equal(t, "-200", rows[2][7])
	})
}

func TestSummaryWorkbookEmpty(t *testing.T) {
	f := roundTrip(t, &services.SummaryReport{Period: services.SummaryPeriod{Year: 2024}})

	rows, err := f.GetRows(SheetBudgets)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	month, err := f.GetCellValue(SheetSummary, "B3")
	require.NoError(t, err)
	assert.Empty(t, month)
}

func TestSummaryFilename(t *testing.T) {
	month := 3
	assert.Equal(t, "summary-2025-03.xlsx", SummaryFilename(services.SummaryPeriod{Year: 2025, Month: &month}))
	assert.Equal(t, "summary-2025.xlsx", SummaryFilename(services.SummaryPeriod{Year: 2025}))
}
