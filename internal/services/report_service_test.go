package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/models"
	"fintrack/internal/testutil"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestSummary(t *testing.T) {
	t.Run("month_summary", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)
		salary := testutil.CreateTestCategoryNamed(t, db, user.ID, "Salary", models.EntryTypeIncome)
		food := testutil.CreateTestCategoryNamed(t, db, user.ID, "Food", models.EntryTypeExpense)
		rent := testutil.CreateTestCategoryNamed(t, db, user.ID, "Rent", models.EntryTypeExpense)

		testutil.CreateTestTransaction(t, db, salary, "3000.00", testutil.Date(2025, 8, 1))
		testutil.CreateTestTransaction(t, db, food, "20.00", testutil.Date(2025, 8, 3))
		testutil.CreateTestTransaction(t, db, food, "30.00", testutil.Date(2025, 8, 20))
		testutil.CreateTestTransaction(t, db, rent, "900.00", testutil.Date(2025, 8, 2))
		testutil.CreateTestTransaction(t, db, rent, "900.00", testutil.Date(2025, 7, 2))

		testutil.CreateTestMonthlyBudget(t, db, user.ID, &food.ID, 2025, 8, "200.00")
		testutil.CreateTestMonthlyBudget(t, db, user.ID, &food.ID, 2025, 7, "200.00")
		testutil.CreateTestYearlyBudget(t, db, user.ID, nil, 2025, "20000.00")

		svc := NewReportService(db, fixedClock(time.Date(2025, 8, 15, 12, 0, 0, 0, time.UTC)))
		year, month := 2025, 8
		report, err := svc.Summary(user.ID, &year, &month)
		require.NoError(t, err)

		assert.Equal(t, 2025, report.Period.Year)
		require.NotNil(t, report.Period.Month)
		assert.Equal(t, 8, *report.Period.Month)

		assert.Equal(t, "3000.00", report.Totals.Income.String())
		assert.Equal(t, "950.00", report.Totals.Expense.String())
		assert.Equal(t, "2050.00", report.Totals.Balance.String())

		require.Len(t, report.ByCategory, 3)
		assert.Equal(t, "Salary", report.ByCategory[0].CategoryName)
		assert.Equal(t, "3000.00", report.ByCategory[0].Total.String())
		assert.Equal(t, "Rent", report.ByCategory[1].CategoryName)
		assert.Equal(t, "Food", report.ByCategory[2].CategoryName)
		assert.Equal(t, models.EntryTypeExpense, report.ByCategory[2].Type)
		assert.Equal(t, "50.00", report.ByCategory[2].Total.String())

		// The July budget is excluded; August and the yearly one are in.
		require.Len(t, report.Budgets, 2)
		for _, b := range report.Budgets {
			switch b.Period {
			case models.BudgetPeriodMonth:
				require.NotNil(t, b.Category)
				assert.Equal(t, "Food", *b.Category)
				assert.Equal(t, "50.00", b.Utilized.String())
				assert.Equal(t, "150.00", b.Remaining.String())
			case models.BudgetPeriodYear:
				assert.Nil(t, b.Category)
				assert.Equal(t, "1850.00", b.Utilized.String())
			}
		}
	})

	t.Run("year_summary_only_yearly_budgets", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)
		food := testutil.CreateTestCategory(t, db, user.ID, models.EntryTypeExpense)
		testutil.CreateTestTransaction(t, db, food, "10.00", testutil.Date(2025, 1, 1))
		testutil.CreateTestTransaction(t, db, food, "15.00", testutil.Date(2025, 12, 31))
		testutil.CreateTestTransaction(t, db, food, "99.00", testutil.Date(2026, 1, 1))
		testutil.CreateTestMonthlyBudget(t, db, user.ID, nil, 2025, 1, "100.00")
		testutil.CreateTestYearlyBudget(t, db, user.ID, &food.ID, 2025, "100.00")

		svc := NewReportService(db, nil)
		year := 2025
		report, err := svc.Summary(user.ID, &year, nil)
		require.NoError(t, err)

		assert.Nil(t, report.Period.Month)
		assert.Equal(t, "25.00", report.Totals.Expense.String())
		require.Len(t, report.Budgets, 1)
		assert.Equal(t, models.BudgetPeriodYear, report.Budgets[0].Period)
		assert.Equal(t, "75.00", report.Budgets[0].Remaining.String())
	})

	t.Run("defaults_to_current_year", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)

		svc := NewReportService(db, fixedClock(time.Date(2031, 3, 1, 0, 0, 0, 0, time.UTC)))
		report, err := svc.Summary(user.ID, nil, nil)
		require.NoError(t, err)

		assert.Equal(t, 2031, report.Period.Year)
	})

	t.Run("empty_period_is_zero", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)

		svc := NewReportService(db, nil)
		year := 2020
		report, err := svc.Summary(user.ID, &year, nil)
		require.NoError(t, err)

		assert.Equal(t, "0.00", report.Totals.Income.String())
		assert.Equal(t, "0.00", report.Totals.Expense.String())
		assert.Equal(t, "0.00", report.Totals.Balance.String())
		assert.NotNil(t, report.ByCategory)
		assert.Empty(t, report.ByCategory)
		assert.Empty(t, report.Budgets)
	})

	t.Run("equal_totals_ordered_by_category_id", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)
		a := testutil.CreateTestCategory(t, db, user.ID, models.EntryTypeExpense)
		b := testutil.CreateTestCategory(t, db, user.ID, models.EntryTypeExpense)
		testutil.CreateTestTransaction(t, db, b, "10.00", testutil.Date(2025, 5, 1))
		testutil.CreateTestTransaction(t, db, a, "10.00", testutil.Date(2025, 5, 1))

		year := 2025
		report, err := NewReportService(db, nil).Summary(user.ID, &year, nil)
		require.NoError(t, err)

		require.Len(t, report.ByCategory, 2)
		assert.Less(t, report.ByCategory[0].CategoryID, report.ByCategory[1].CategoryID)
	})

	t.Run("invalid_month", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)

		year, month := 2025, 13
		_, err := NewReportService(db, nil).Summary(user.ID, &year, &month)
		testutil.AssertFieldError(t, err, "VALIDATION_FAILED", "month")
	})

	t.Run("excludes_other_users", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		alice := testutil.CreateTestUser(t, db)
		bob := testutil.CreateTestUser(t, db)
		testutil.CreateTestTransaction(t, db, testutil.CreateTestCategory(t, db, bob.ID, models.EntryTypeIncome), "500.00", testutil.Date(2025, 5, 1))
		testutil.CreateTestYearlyBudget(t, db, bob.ID, nil, 2025, "10.00")

		year := 2025
		report, err := NewReportService(db, nil).Summary(alice.ID, &year, nil)
		require.NoError(t, err)

		assert.Equal(t, "0.00", report.Totals.Income.String())
		assert.Empty(t, report.ByCategory)
		assert.Empty(t, report.Budgets)
	})
}

func TestDashboard(t *testing.T) {
	t.Run("current_month_totals", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)
		salary := testutil.CreateTestCategory(t, db, user.ID, models.EntryTypeIncome)
		food := testutil.CreateTestCategory(t, db, user.ID, models.EntryTypeExpense)

		testutil.CreateTestTransaction(t, db, salary, "1000.00", testutil.Date(2024, 2, 1))
		testutil.CreateTestTransaction(t, db, food, "40.25", testutil.Date(2024, 2, 29))
		testutil.CreateTestTransaction(t, db, food, "9.75", testutil.Date(2024, 2, 10))
		testutil.CreateTestTransaction(t, db, food, "500.00", testutil.Date(2024, 3, 1))
		testutil.CreateTestTransaction(t, db, food, "500.00", testutil.Date(2024, 1, 31))

		svc := NewReportService(db, fixedClock(time.Date(2024, 2, 14, 9, 30, 0, 0, time.UTC)))
		report, err := svc.Dashboard(user.ID)
		require.NoError(t, err)

		assert.Equal(t, "2024-02-01", report.Period.Start)
		assert.Equal(t, "2024-02-29", report.Period.End)
		assert.Equal(t, "1000.00", report.Income.String())
		assert.Equal(t, "50.00", report.Expense.String())
		assert.Equal(t, "950.00", report.Balance.String())
		assert.Equal(t, int64(3), report.TransactionsCount)
	})

	t.Run("idempotent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestTransaction(t, db, testutil.CreateTestCategory(t, db, user.ID, models.EntryTypeExpense), "5.00", testutil.Date(2025, 6, 6))

		svc := NewReportService(db, fixedClock(time.Date(2025, 6, 30, 23, 59, 0, 0, time.UTC)))
		first, err := svc.Dashboard(user.ID)
		require.NoError(t, err)
		second, err := svc.Dashboard(user.ID)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("empty_month", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)

		svc := NewReportService(db, fixedClock(time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC)))
		report, err := svc.Dashboard(user.ID)
		require.NoError(t, err)

		assert.Equal(t, "2025-04-30", report.Period.End)
		assert.Equal(t, "0.00", report.Balance.String())
		assert.Zero(t, report.TransactionsCount)
	})
}
