package services

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fintrack/internal/models"
	"fintrack/internal/money"
)

// DateLayout is the calendar date format used in requests and reports.
const DateLayout = "2006-01-02"

// periodRange returns the half-open interval [start, end) covering a whole
// year, or a single month of it when month is set.
func periodRange(year int, month *int) (time.Time, time.Time) {
	if month != nil {
		start := time.Date(year, time.Month(*month), 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, 0)
	}
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(1, 0, 0)
}

// monthBounds returns the first and the last calendar day of t's month.
// Day 0 of the next month normalizes to the last day of this one, which
// accounts for month length and leap years.
func monthBounds(t time.Time) (time.Time, time.Time) {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC), time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC)
}

// inDateRange restricts a transaction query to start <= date < end. Bounds
// are bound as calendar date strings, which compare correctly against both a
// Postgres DATE column and SQLite's textual timestamps.
func inDateRange(start, end time.Time) func(db *gorm.DB) *gorm.DB {
	column := clause.Column{Table: clause.CurrentTable, Name: "date"}
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(clause.Gte{Column: column, Value: start.Format(DateLayout)}).
			Where(clause.Lt{Column: column, Value: end.Format(DateLayout)})
	}
}

// transactionsIn starts a fresh query over userID's transactions in [start, end).
func transactionsIn(db *gorm.DB, userID string, start, end time.Time) *gorm.DB {
	return db.Model(&models.Transaction{}).Scopes(ownedBy(userID), inDateRange(start, end))
}

// UtilizedForBudget sums the user's expense transactions that fall in the
// budget's year, its month for MONTH budgets, and its category when the
// budget is category-scoped. No matching rows yields zero.
func UtilizedForBudget(db *gorm.DB, b *models.Budget) (money.Amount, error) {
	var month *int
	if b.Period == models.BudgetPeriodMonth {
		month = b.Month
	}
	start, end := periodRange(b.Year, month)

	q := transactionsIn(db, b.UserID, start, end).
		Where("choice_type = ?", models.EntryTypeExpense)
	if b.CategoryID != nil {
		q = q.Where("category_id = ?", *b.CategoryID)
	}

	var total money.Amount
	if err := q.Select("COALESCE(SUM(amount), 0)").Row().Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

type typeTotal struct {
	Type  models.EntryType `gorm:"column:choice_type"`
	Total money.Amount
}

// totalsByType sums amounts per entry type. Types without rows are zero.
func totalsByType(q *gorm.DB) (income, expense money.Amount, err error) {
	var rows []typeTotal
	err = q.Select("choice_type, COALESCE(SUM(amount), 0) AS total").
		Group("choice_type").
		Scan(&rows).Error
	if err != nil {
		return 0, 0, err
	}
	for _, r := range rows {
		switch r.Type {
		case models.EntryTypeIncome:
			income = r.Total
		case models.EntryTypeExpense:
			expense = r.Total
		}
	}
	return income, expense, nil
}

// categoryBreakdown groups amounts by category and type, largest total
// first. Equal totals are ordered by category id.
func categoryBreakdown(q *gorm.DB) ([]CategoryTotal, error) {
	rows := []CategoryTotal{}
	err := q.Joins("JOIN categories ON categories.id = transactions.category_id").
		Select("transactions.category_id AS category_id, categories.name AS category_name, " +
			"transactions.choice_type AS choice_type, COALESCE(SUM(transactions.amount), 0) AS total").
		Group("transactions.category_id, categories.name, transactions.choice_type").
		Order("total DESC, category_id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
