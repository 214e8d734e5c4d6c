package services

import (
	"errors"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/uuid"
)

const (
	maxCategoryName = 50
	maxDescription  = 255
	minYear         = 1
	maxYear         = 9999
	minMonth        = 1
	maxMonth        = 12
)

// fieldErrors collects validation failures keyed by request field. Only the
// first message per field is kept.
type fieldErrors map[string]string

func (f fieldErrors) add(field, message string) {
	if _, ok := f[field]; !ok {
		f[field] = message
	}
}

// err returns nil when nothing was collected, otherwise a VALIDATION_FAILED
// AppError carrying every field message.
func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return apperrors.WithFields(apperrors.ErrValidation, f)
}

// lookupCategory loads the category referenced by a transaction or budget
// and records a field error when it is missing or foreign.
func lookupCategory(tx *gorm.DB, userID, categoryID string, fields fieldErrors) (*models.Category, error) {
	if !uuid.IsValid(categoryID) {
		fields.add("category", "Category not found.")
		return nil, nil
	}
	var category models.Category
	if err := tx.Where("id = ?", categoryID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fields.add("category", "Category not found.")
			return nil, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if authorize(category, userID) != nil {
		fields.add("category", "Category does not belong to you.")
		return nil, nil
	}
	return &category, nil
}

// validateCategory checks name and type, then the (user, name, type) uniqueness.
func validateCategory(tx *gorm.DB, userID string, c *models.Category) error {
	fields := fieldErrors{}
	c.Name = strings.TrimSpace(c.Name)
	switch {
	case c.Name == "":
		fields.add("name", "This field may not be blank.")
	case utf8.RuneCountInString(c.Name) > maxCategoryName:
		fields.add("name", "Ensure this field has no more than 50 characters.")
	}
	if !c.Type.Valid() {
		fields.add("choice_type", "Must be INCOME or EXPENSE.")
	}
	if err := fields.err(); err != nil {
		return err
	}

	q := tx.Model(&models.Category{}).Scopes(ownedBy(userID)).
		Where("name = ? AND choice_type = ?", c.Name, c.Type)
	if c.ID != "" {
		q = q.Where("id <> ?", c.ID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return apperrors.WithFields(apperrors.ErrDuplicateCategory, map[string]string{
			"name": "You already have a category with this name and type.",
		})
	}
	return nil
}

// validateTransaction enforces category ownership, type consistency with the
// category and a positive amount. Every violation is reported at once.
func validateTransaction(tx *gorm.DB, userID string, t *models.Transaction) error {
	fields := fieldErrors{}

	if !t.Type.Valid() {
		fields.add("choice_type", "Must be INCOME or EXPENSE.")
	}
	if t.CategoryID == "" {
		fields.add("category", "This field is required.")
	} else {
		category, err := lookupCategory(tx, userID, t.CategoryID, fields)
		if err != nil {
			return err
		}
		if category != nil && t.Type.Valid() && category.Type != t.Type {
			fields.add("choice_type", "Transaction type must match category type.")
		}
	}
	if !t.Amount.IsPositive() {
		fields.add("amount", "Amount must be greater than zero.")
	}
	if t.Date.IsZero() {
		fields.add("date", "This field is required.")
	}
	if utf8.RuneCountInString(t.Description) > maxDescription {
		fields.add("description", "Ensure this field has no more than 255 characters.")
	}

	return fields.err()
}

// validateBudget enforces category ownership, the month/period pairing and a
// positive limit, then the (user, category, period, year, month) uniqueness.
func validateBudget(tx *gorm.DB, userID string, b *models.Budget) error {
	fields := fieldErrors{}

	if b.CategoryID != nil {
		if _, err := lookupCategory(tx, userID, *b.CategoryID, fields); err != nil {
			return err
		}
	}

	switch b.Period {
	case models.BudgetPeriodMonth:
		if b.Month == nil {
			fields.add("month", "Month is required for monthly budgets.")
		}
	case models.BudgetPeriodYear:
		if b.Month != nil {
			fields.add("month", "Month must be empty for yearly budgets.")
		}
	default:
		fields.add("period", "Must be MONTH or YEAR.")
	}
	if b.Month != nil && (*b.Month < minMonth || *b.Month > maxMonth) {
		fields.add("month", "Month must be between 1 and 12.")
	}
	if b.Year < minYear || b.Year > maxYear {
		fields.add("year", "Year must be between 1 and 9999.")
	}
	if !b.Limit.IsPositive() {
		fields.add("limit", "Budget limit must be greater than zero.")
	}
	if err := fields.err(); err != nil {
		return err
	}

	q := tx.Model(&models.Budget{}).Scopes(ownedBy(userID)).
		Where("period = ? AND year = ?", b.Period, b.Year)
	if b.CategoryID == nil {
		q = q.Where("category_id IS NULL")
	} else {
		q = q.Where("category_id = ?", *b.CategoryID)
	}
	if b.Month == nil {
		q = q.Where("month IS NULL")
	} else {
		q = q.Where("month = ?", *b.Month)
	}
	if b.ID != "" {
		q = q.Where("id <> ?", b.ID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return apperrors.WithFields(apperrors.ErrDuplicateBudget, map[string]string{
			"scope": "You already have a budget for this category and period.",
		})
	}
	return nil
}
