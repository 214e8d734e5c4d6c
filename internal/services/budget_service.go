package services

import (
	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// budgetOrder lists the most recent period first.
const budgetOrder = "year DESC, COALESCE(month, 0) DESC, id"

// budgetService handles budget-related business logic.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// CreateBudget validates and stores a new budget.
func (s *budgetService) CreateBudget(userID string, in BudgetInput) (*BudgetView, error) {
	budget := &models.Budget{
		UserID:     userID,
		CategoryID: in.CategoryID,
		Period:     in.Period,
		Year:       in.Year,
		Month:      in.Month,
		Limit:      in.Limit,
	}
	if budget.Period == "" {
		budget.Period = models.BudgetPeriodMonth
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := validateBudget(tx, userID, budget); err != nil {
			return err
		}
		return tx.Create(budget).Error
	})
	if err != nil {
		return nil, asAppError(err)
	}
	return s.view(budget)
}

// GetUserBudgets returns a paginated list of the user's budgets, each with
// its current utilization.
func (s *budgetService) GetUserBudgets(userID string, filter BudgetFilter, page pagination.PageRequest) (*pagination.PageResponse[BudgetView], error) {
	page.Defaults()

	base := s.db.Model(&models.Budget{}).Scopes(ownedBy(userID))
	if filter.Period != nil {
		base = base.Where("period = ?", *filter.Period)
	}
	if filter.Year != nil {
		base = base.Where("year = ?", *filter.Year)
	}
	base = base.Session(&gorm.Session{})

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := base.Scopes(pagination.Paginate(page)).Order(budgetOrder).Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	views := make([]BudgetView, 0, len(budgets))
	for i := range budgets {
		v, err := s.view(&budgets[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *v)
	}

	result := pagination.NewPageResponse(views, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBudgetByID returns a budget with its utilization. Budgets of other
// users yield ErrForbidden.
func (s *budgetService) GetBudgetByID(userID, budgetID string) (*BudgetView, error) {
	budget, err := loadOwned[models.Budget](s.db, budgetID, userID, apperrors.ErrBudgetNotFound)
	if err != nil {
		return nil, err
	}
	return s.view(budget)
}

// UpdateBudget applies a patch and re-validates the merged budget.
func (s *budgetService) UpdateBudget(userID, budgetID string, patch BudgetPatch) (*BudgetView, error) {
	var budget *models.Budget
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		budget, err = loadOwned[models.Budget](tx, budgetID, userID, apperrors.ErrBudgetNotFound)
		if err != nil {
			return err
		}

		if patch.SetCategory {
			budget.CategoryID = patch.CategoryID
		}
		if patch.Period != nil {
			budget.Period = *patch.Period
		}
		if patch.Year != nil {
			budget.Year = *patch.Year
		}
		if patch.SetMonth {
			budget.Month = patch.Month
		}
		if patch.Limit != nil {
			budget.Limit = *patch.Limit
		}

		if err := validateBudget(tx, userID, budget); err != nil {
			return err
		}
		return tx.Save(budget).Error
	})
	if err != nil {
		return nil, asAppError(err)
	}
	return s.view(budget)
}

// DeleteBudget deletes a budget.
func (s *budgetService) DeleteBudget(userID, budgetID string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		budget, err := loadOwned[models.Budget](tx, budgetID, userID, apperrors.ErrBudgetNotFound)
		if err != nil {
			return err
		}
		return tx.Delete(budget).Error
	})
	return asAppError(err)
}

func (s *budgetService) view(budget *models.Budget) (*BudgetView, error) {
	utilized, err := UtilizedForBudget(s.db, budget)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	v := newBudgetView(budget, utilized)
	return &v, nil
}
