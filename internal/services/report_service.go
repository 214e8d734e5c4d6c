package services

import (
	"time"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
)

// reportService composes aggregation results into report payloads.
type reportService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewReportService creates a new ReportServicer. now supplies the current
// time for defaults and the dashboard month; nil means time.Now.
func NewReportService(db *gorm.DB, now func() time.Time) ReportServicer {
	if now == nil {
		now = time.Now
	}
	return &reportService{db: db, now: now}
}

// Summary aggregates the user's transactions for a year, or one month of it.
// A nil year means the current year. Yearly budgets of that year are always
// included; monthly budgets only when a month is requested and matches.
func (s *reportService) Summary(userID string, year, month *int) (*SummaryReport, error) {
	y := s.now().UTC().Year()
	if year != nil {
		y = *year
	}

	fields := fieldErrors{}
	if y < minYear || y > maxYear {
		fields.add("year", "Year must be between 1 and 9999.")
	}
	if month != nil && (*month < minMonth || *month > maxMonth) {
		fields.add("month", "Month must be between 1 and 12.")
	}
	if err := fields.err(); err != nil {
		return nil, err
	}

	start, end := periodRange(y, month)
	txs := func() *gorm.DB { return transactionsIn(s.db, userID, start, end) }

	income, expense, err := totalsByType(txs())
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	byCategory, err := categoryBreakdown(txs())
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	budgets, err := s.summaryBudgets(userID, y, month)
	if err != nil {
		return nil, err
	}

	return &SummaryReport{
		Period:     SummaryPeriod{Year: y, Month: month},
		Totals:     newTotals(income, expense),
		ByCategory: byCategory,
		Budgets:    budgets,
	}, nil
}

func (s *reportService) summaryBudgets(userID string, year int, month *int) ([]BudgetSummaryItem, error) {
	q := s.db.Model(&models.Budget{}).Scopes(ownedBy(userID)).Where("year = ?", year)
	if month != nil {
		q = q.Where("(period = ? OR (period = ? AND month = ?))",
			models.BudgetPeriodYear, models.BudgetPeriodMonth, *month)
	} else {
		q = q.Where("period = ?", models.BudgetPeriodYear)
	}

	var budgets []models.Budget
	if err := q.Preload("Category").Order(budgetOrder).Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	items := make([]BudgetSummaryItem, 0, len(budgets))
	for i := range budgets {
		b := &budgets[i]
		utilized, err := UtilizedForBudget(s.db, b)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		var categoryName *string
		if b.Category != nil {
			categoryName = &b.Category.Name
		}
		items = append(items, BudgetSummaryItem{
			ID:        b.ID,
			Category:  categoryName,
			Period:    b.Period,
			Year:      b.Year,
			Month:     b.Month,
			Limit:     b.Limit,
			Utilized:  utilized,
			Remaining: b.Limit.Sub(utilized),
		})
	}
	return items, nil
}

// Dashboard reports totals and the transaction count for the current
// calendar month.
func (s *reportService) Dashboard(userID string) (*DashboardReport, error) {
	first, last := monthBounds(s.now().UTC())
	txs := func() *gorm.DB { return transactionsIn(s.db, userID, first, last.AddDate(0, 0, 1)) }

	income, expense, err := totalsByType(txs())
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var count int64
	if err := txs().Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	totals := newTotals(income, expense)
	return &DashboardReport{
		Period: DashboardPeriod{
			Start: first.Format(DateLayout),
			End:   last.Format(DateLayout),
		},
		Income:            totals.Income,
		Expense:           totals.Expense,
		Balance:           totals.Balance,
		TransactionsCount: count,
	}, nil
}
