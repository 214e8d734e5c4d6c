package services

import (
	"time"

	"fintrack/internal/models"
	"fintrack/internal/money"
)

// BudgetView is a budget together with its derived utilization.
type BudgetView struct {
	ID        string              `json:"id"`
	Category  *string             `json:"category"`
	Period    models.BudgetPeriod `json:"period"`
	Year      int                 `json:"year"`
	Month     *int                `json:"month"`
	Limit     money.Amount        `json:"limit"`
	Utilized  money.Amount        `json:"utilized"`
	Remaining money.Amount        `json:"remaining"`
	CreatedAt time.Time           `json:"created_at"`
}

func newBudgetView(b *models.Budget, utilized money.Amount) BudgetView {
	return BudgetView{
		ID:        b.ID,
		Category:  b.CategoryID,
		Period:    b.Period,
		Year:      b.Year,
		Month:     b.Month,
		Limit:     b.Limit,
		Utilized:  utilized,
		Remaining: b.Limit.Sub(utilized),
		CreatedAt: b.CreatedAt,
	}
}

// SummaryPeriod identifies the year, and optionally the month, a summary covers.
type SummaryPeriod struct {
	Year  int  `json:"year"`
	Month *int `json:"month"`
}

// Totals holds income, expense and their difference.
type Totals struct {
	Income  money.Amount `json:"income"`
	Expense money.Amount `json:"expense"`
	Balance money.Amount `json:"balance"`
}

func newTotals(income, expense money.Amount) Totals {
	return Totals{Income: income, Expense: expense, Balance: income.Sub(expense)}
}

// CategoryTotal is the summed amount of one category over a period.
type CategoryTotal struct {
	CategoryID   string           `json:"category_id"`
	CategoryName string           `json:"category_name"`
	Type         models.EntryType `gorm:"column:choice_type" json:"choice_type"`
	Total        money.Amount     `json:"total"`
}

// BudgetSummaryItem is a budget as it appears in a summary report. Category
// holds the category name, or nil for budgets covering all expenses.
type BudgetSummaryItem struct {
	ID        string              `json:"id"`
	Category  *string             `json:"category"`
	Period    models.BudgetPeriod `json:"period"`
	Year      int                 `json:"year"`
	Month     *int                `json:"month"`
	Limit     money.Amount        `json:"limit"`
	Utilized  money.Amount        `json:"utilized"`
	Remaining money.Amount        `json:"remaining"`
}

// SummaryReport aggregates a user's transactions over a year or a month.
type SummaryReport struct {
	Period     SummaryPeriod       `json:"period"`
	Totals     Totals              `json:"totals"`
	ByCategory []CategoryTotal     `json:"by_category"`
	Budgets    []BudgetSummaryItem `json:"budgets"`
}

// DashboardPeriod holds the first and last day of a month as YYYY-MM-DD.
type DashboardPeriod struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DashboardReport is the snapshot of the current calendar month.
type DashboardReport struct {
	Period            DashboardPeriod `json:"period"`
	Income            money.Amount    `json:"income"`
	Expense           money.Amount    `json:"expense"`
	Balance           money.Amount    `json:"balance"`
	TransactionsCount int64           `json:"transactions_count"`
}
