package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/money"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the password of every fixture user.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// Date returns the calendar date as UTC midnight.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// CreateTestUser creates a user with a hashed password and unique email and username.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	n := nextID()
	return CreateTestUserWithEmail(t, db, fmt.Sprintf("user%d@test.com", n))
}

// CreateTestUserWithEmail creates a user with the given email. The username
// is derived from it.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Username: fmt.Sprintf("user_%d", nextID()),
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCategory creates a category of the given type with a unique name.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID string, categoryType models.EntryType) *models.Category {
	t.Helper()
	return CreateTestCategoryNamed(t, db, userID, fmt.Sprintf("Test Category %d", nextID()), categoryType)
}

// CreateTestCategoryNamed creates a category with the given name and type.
func CreateTestCategoryNamed(t *testing.T, db *gorm.DB, userID, name string, categoryType models.EntryType) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID: userID,
		Name:   name,
		Type:   categoryType,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTransaction creates a transaction against the category, taking
// the category's type. amount is a decimal string such as "50.00".
func CreateTestTransaction(t *testing.T, db *gorm.DB, category *models.Category, amount string, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:     category.UserID,
		CategoryID: category.ID,
		Type:       category.Type,
		Amount:     money.MustParse(amount),
		Date:       date,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestMonthlyBudget creates a MONTH budget. categoryID may be nil.
func CreateTestMonthlyBudget(t *testing.T, db *gorm.DB, userID string, categoryID *string, year, month int, limit string) *models.Budget {
	t.Helper()
	return createTestBudget(t, db, &models.Budget{
		UserID:     userID,
		CategoryID: categoryID,
		Period:     models.BudgetPeriodMonth,
		Year:       year,
		Month:      &month,
		Limit:      money.MustParse(limit),
	})
}

// CreateTestYearlyBudget creates a YEAR budget. categoryID may be nil.
func CreateTestYearlyBudget(t *testing.T, db *gorm.DB, userID string, categoryID *string, year int, limit string) *models.Budget {
	t.Helper()
	return createTestBudget(t, db, &models.Budget{
		UserID:     userID,
		CategoryID: categoryID,
		Period:     models.BudgetPeriodYear,
		Year:       year,
		Limit:      money.MustParse(limit),
	})
}

func createTestBudget(t *testing.T, db *gorm.DB, budget *models.Budget) *models.Budget {
	t.Helper()
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}
