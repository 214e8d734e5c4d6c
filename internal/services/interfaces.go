package services

import (
	"time"

	"fintrack/internal/models"
	"fintrack/internal/money"
	"fintrack/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, username, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(identifier, password string) (*models.User, error)
	ChangePassword(userID, currentPassword, newPassword string) error
	DeleteUser(userID string) error
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// CategoryFilter holds optional filter parameters for listing categories.
type CategoryFilter struct {
	Type *models.EntryType
}

// CategoryPatch carries the fields to change on a category. Nil fields are left as they are.
type CategoryPatch struct {
	Name *string
	Type *models.EntryType
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID, name string, categoryType models.EntryType) (*models.Category, error)
	GetUserCategories(userID string, filter CategoryFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(userID, categoryID string) (*models.Category, error)
	UpdateCategory(userID, categoryID string, patch CategoryPatch) (*models.Category, error)
	DeleteCategory(userID, categoryID string) error
}

// TransactionInput holds the writable fields of a new transaction.
type TransactionInput struct {
	CategoryID  string
	Type        models.EntryType
	Amount      money.Amount
	Date        time.Time
	Description string
}

// TransactionPatch carries the fields to change on a transaction. Nil fields are left as they are.
type TransactionPatch struct {
	CategoryID  *string
	Type        *models.EntryType
	Amount      *money.Amount
	Date        *time.Time
	Description *string
}

// TransactionFilter holds optional filter parameters for listing transactions.
// All set filters are combined with AND.
type TransactionFilter struct {
	FromDate   *time.Time
	ToDate     *time.Time
	Type       *models.EntryType
	CategoryID *string
	MinAmount  *money.Amount
	MaxAmount  *money.Amount
	Search     string
	Ordering   string
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID string, in TransactionInput) (*models.Transaction, error)
	GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID string, patch TransactionPatch) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID string) error
}

// BudgetInput holds the writable fields of a new budget.
type BudgetInput struct {
	CategoryID *string
	Period     models.BudgetPeriod
	Year       int
	Month      *int
	Limit      money.Amount
}

// BudgetPatch carries the fields to change on a budget. Category and month
// are nullable, so each has a Set flag; when the flag is set a nil value clears it.
type BudgetPatch struct {
	SetCategory bool
	CategoryID  *string
	Period      *models.BudgetPeriod
	Year        *int
	SetMonth    bool
	Month       *int
	Limit       *money.Amount
}

// BudgetFilter holds optional filter parameters for listing budgets.
type BudgetFilter struct {
	Period *models.BudgetPeriod
	Year   *int
}

// BudgetServicer defines the contract for budget-related business logic.
// Reads return views carrying the derived utilization.
type BudgetServicer interface {
	CreateBudget(userID string, in BudgetInput) (*BudgetView, error)
	GetUserBudgets(userID string, filter BudgetFilter, page pagination.PageRequest) (*pagination.PageResponse[BudgetView], error)
	GetBudgetByID(userID, budgetID string) (*BudgetView, error)
	UpdateBudget(userID, budgetID string, patch BudgetPatch) (*BudgetView, error)
	DeleteBudget(userID, budgetID string) error
}

// ReportServicer defines the contract for the aggregate reports.
type ReportServicer interface {
	Summary(userID string, year, month *int) (*SummaryReport, error)
	Dashboard(userID string) (*DashboardReport, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
