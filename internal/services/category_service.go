package services

import (
	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// categoryService handles category-related business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// CreateCategory creates a new category
func (s *categoryService) CreateCategory(userID, name string, categoryType models.EntryType) (*models.Category, error) {
	category := &models.Category{
		UserID: userID,
		Name:   name,
		Type:   categoryType,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := validateCategory(tx, userID, category); err != nil {
			return err
		}
		return tx.Create(category).Error
	})
	if err != nil {
		return nil, asAppError(err)
	}
	return category, nil
}

// GetUserCategories retrieves a paginated list of categories for a user,
// ordered by type then name.
func (s *categoryService) GetUserCategories(userID string, filter CategoryFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error) {
	page.Defaults()

	base := s.db.Model(&models.Category{}).Scopes(ownedBy(userID))
	if filter.Type != nil {
		base = base.Where("choice_type = ?", *filter.Type)
	}
	base = base.Session(&gorm.Session{})

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var categories []models.Category
	if err := base.Scopes(pagination.Paginate(page)).
		Order("choice_type, name, id").
		Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(categories, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetCategoryByID retrieves a category by ID. Categories of other users
// yield ErrForbidden.
func (s *categoryService) GetCategoryByID(userID, categoryID string) (*models.Category, error) {
	return loadOwned[models.Category](s.db, categoryID, userID, apperrors.ErrCategoryNotFound)
}

// UpdateCategory applies a patch to a category. The type cannot change
// while transactions reference the category.
func (s *categoryService) UpdateCategory(userID, categoryID string, patch CategoryPatch) (*models.Category, error) {
	var category *models.Category
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		category, err = loadOwned[models.Category](tx, categoryID, userID, apperrors.ErrCategoryNotFound)
		if err != nil {
			return err
		}

		if patch.Type != nil && *patch.Type != category.Type {
			var refs int64
			if err := tx.Model(&models.Transaction{}).Where("category_id = ?", category.ID).Count(&refs).Error; err != nil {
				return err
			}
			if refs > 0 {
				return apperrors.WithFields(apperrors.ErrValidation, map[string]string{
					"choice_type": "Cannot change the type of a category that has transactions.",
				})
			}
			category.Type = *patch.Type
		}
		if patch.Name != nil {
			category.Name = *patch.Name
		}

		if err := validateCategory(tx, userID, category); err != nil {
			return err
		}
		return tx.Save(category).Error
	})
	if err != nil {
		return nil, asAppError(err)
	}
	return category, nil
}

// DeleteCategory deletes a category together with the budgets scoped to it.
// Categories referenced by transactions are protected and yield ErrCategoryInUse.
func (s *categoryService) DeleteCategory(userID, categoryID string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		category, err := loadOwned[models.Category](tx, categoryID, userID, apperrors.ErrCategoryNotFound)
		if err != nil {
			return err
		}

		var refs int64
		if err := tx.Model(&models.Transaction{}).Where("category_id = ?", category.ID).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return apperrors.ErrCategoryInUse
		}

		if err := tx.Where("category_id = ?", category.ID).Delete(&models.Budget{}).Error; err != nil {
			return err
		}
		return tx.Delete(category).Error
	})
	return asAppError(err)
}
