package services

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// defaultTransactionOrder lists newest first.
const defaultTransactionOrder = "date DESC, id DESC"

// transactionOrderColumns maps the accepted ordering keys to columns.
var transactionOrderColumns = map[string]string{
	"date":       "date",
	"amount":     "amount",
	"created_at": "created_at",
}

// transactionService handles transaction-related business logic.
type transactionService struct {
	db *gorm.DB
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{db: db}
}

// CreateTransaction validates and stores a new transaction. Validation and
// the insert share one database transaction, so a rejected write leaves no row.
func (s *transactionService) CreateTransaction(userID string, in TransactionInput) (*models.Transaction, error) {
	transaction := &models.Transaction{
		UserID:      userID,
		CategoryID:  in.CategoryID,
		Type:        in.Type,
		Amount:      in.Amount,
		Date:        in.Date,
		Description: in.Description,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := validateTransaction(tx, userID, transaction); err != nil {
			return err
		}
		return tx.Create(transaction).Error
	})
	if err != nil {
		return nil, asAppError(err)
	}
	return transaction, nil
}

// GetUserTransactions retrieves a paginated, filtered list of the user's transactions.
func (s *transactionService) GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	order, err := parseTransactionOrdering(filter.Ordering)
	if err != nil {
		return nil, err
	}

	base := applyTransactionFilters(s.db.Model(&models.Transaction{}).Scopes(ownedBy(userID)), filter).
		Session(&gorm.Session{})

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order(order).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	date := clause.Column{Table: clause.CurrentTable, Name: "date"}
	if f.FromDate != nil {
		q = q.Where(clause.Gte{Column: date, Value: f.FromDate.Format(DateLayout)})
	}
	if f.ToDate != nil {
		// Inclusive upper bound on the calendar day.
		q = q.Where(clause.Lt{Column: date, Value: f.ToDate.AddDate(0, 0, 1).Format(DateLayout)})
	}
	if f.Type != nil {
		q = q.Where("choice_type = ?", *f.Type)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.MinAmount != nil {
		q = q.Where("amount >= ?", *f.MinAmount)
	}
	if f.MaxAmount != nil {
		q = q.Where("amount <= ?", *f.MaxAmount)
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		q = q.Where(`LOWER(description) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(term))+"%")
	}
	return q
}

// escapeLike escapes LIKE wildcards so the term matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// parseTransactionOrdering turns a comma separated list such as "-amount,date"
// into an ORDER BY clause. Unknown keys are rejected.
func parseTransactionOrdering(ordering string) (string, error) {
	if strings.TrimSpace(ordering) == "" {
		return defaultTransactionOrder, nil
	}

	var terms []string
	for _, key := range strings.Split(ordering, ",") {
		key = strings.TrimSpace(key)
		direction := "ASC"
		if strings.HasPrefix(key, "-") {
			direction = "DESC"
			key = key[1:]
		}
		column, ok := transactionOrderColumns[key]
		if !ok {
			return "", apperrors.WithFields(apperrors.ErrInvalidInput, map[string]string{
				"ordering": fmt.Sprintf("Cannot order by %q; use date, amount or created_at.", key),
			})
		}
		terms = append(terms, column+" "+direction)
	}
	return strings.Join(append(terms, "id DESC"), ", "), nil
}

// GetTransactionByID retrieves a transaction by ID. Transactions of other
// users yield ErrForbidden.
func (s *transactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	return loadOwned[models.Transaction](s.db, transactionID, userID, apperrors.ErrTransactionNotFound)
}

// UpdateTransaction applies a patch and re-validates the merged transaction.
func (s *transactionService) UpdateTransaction(userID, transactionID string, patch TransactionPatch) (*models.Transaction, error) {
	var transaction *models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		transaction, err = loadOwned[models.Transaction](tx, transactionID, userID, apperrors.ErrTransactionNotFound)
		if err != nil {
			return err
		}

		if patch.CategoryID != nil {
			transaction.CategoryID = *patch.CategoryID
		}
		if patch.Type != nil {
			transaction.Type = *patch.Type
		}
		if patch.Amount != nil {
			transaction.Amount = *patch.Amount
		}
		if patch.Date != nil {
			transaction.Date = *patch.Date
		}
		if patch.Description != nil {
			transaction.Description = *patch.Description
		}

		if err := validateTransaction(tx, userID, transaction); err != nil {
			return err
		}
		return tx.Save(transaction).Error
	})
	if err != nil {
		return nil, asAppError(err)
	}
	return transaction, nil
}

// DeleteTransaction deletes a transaction
func (s *transactionService) DeleteTransaction(userID, transactionID string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		transaction, err := loadOwned[models.Transaction](tx, transactionID, userID, apperrors.ErrTransactionNotFound)
		if err != nil {
			return err
		}
		return tx.Delete(transaction).Error
	})
	return asAppError(err)
}
