package services

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "fintrack/internal/errors"
)

// owned is implemented by every user-owned model.
type owned interface {
	OwnerID() string
}

// ownedBy returns a GORM scope restricting a query to rows of userID.
// The column is qualified with the query's table so the scope survives joins.
func ownedBy(userID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(clause.Eq{
			Column: clause.Column{Table: clause.CurrentTable, Name: "user_id"},
			Value:  userID,
		})
	}
}

// authorize fails with ErrForbidden unless obj belongs to userID.
func authorize(obj owned, userID string) error {
	if obj.OwnerID() != userID {
		return apperrors.ErrForbidden
	}
	return nil
}

// loadOwned loads a row by primary key and checks ownership. A missing row
// yields notFound; a row owned by someone else yields ErrForbidden.
func loadOwned[T owned](db *gorm.DB, id, userID string, notFound *apperrors.AppError) (*T, error) {
	var obj T
	if err := db.Where("id = ?", id).First(&obj).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := authorize(obj, userID); err != nil {
		return nil, err
	}
	return &obj, nil
}

// asAppError passes AppErrors through and wraps anything else as internal.
func asAppError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}
