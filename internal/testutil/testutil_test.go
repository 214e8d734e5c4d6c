package testutil_test

import (
	"testing"

	"fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	// Verify all tables exist by doing a simple count query on each model.
	var count int64
	for _, table := range []string{"users", "categories", "transactions", "budgets", "audit_logs"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestSetupTestDB_isolated(t *testing.T) {
	first := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, first)
	second := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, second)

	testutil.CreateTestUser(t, first)

	var count int64
	second.Model(&models.User{}).Count(&count)
	if count != 0 {
		t.Errorf("expected databases to be isolated, found %d users", count)
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	if user.ID == "" {
		t.Fatal("user should have an ID")
	}

	category := testutil.CreateTestCategory(t, db, user.ID, models.EntryTypeExpense)
	if category.Type != models.EntryTypeExpense {
		t.Errorf("expected expense category, got %s", category.Type)
	}

	tx := testutil.CreateTestTransaction(t, db, category, "10.00", testutil.Date(2025, 8, 10))
	if tx.Amount != 1000 {
		t.Errorf("expected amount 1000, got %d", tx.Amount)
	}
	if tx.Type != category.Type {
		t.Errorf("expected transaction to take the category type, got %s", tx.Type)
	}

	budget := testutil.CreateTestMonthlyBudget(t, db, user.ID, &category.ID, 2025, 8, "100.00")
	if budget.Limit != 10000 || budget.Month == nil || *budget.Month != 8 {
		t.Errorf("unexpected budget: %+v", budget)
	}

	yearly := testutil.CreateTestYearlyBudget(t, db, user.ID, nil, 2025, "1200.00")
	if yearly.Month != nil || yearly.CategoryID != nil {
		t.Errorf("expected yearly budget without month or category: %+v", yearly)
	}
}

func TestAssertAppError(t *testing.T) {
	err := errors.WithMessage(errors.ErrBudgetNotFound, "custom message")
	testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
}

func TestAssertFieldError(t *testing.T) {
	err := errors.WithFields(errors.ErrValidation, map[string]string{"amount": "must be positive"})
	testutil.AssertFieldError(t, err, "VALIDATION_FAILED", "amount")
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}
