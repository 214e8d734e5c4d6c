package services

import (
	"testing"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/money"
	"fintrack/internal/pagination"
	"fintrack/internal/testutil"
)

func expenseInput(cat *models.Category, amount string) TransactionInput {
	return TransactionInput{
		CategoryID: cat.ID,
		Type:       models.EntryTypeExpense,
		Amount:     money.MustParse(amount),
		Date:       testutil.Date(2025, 8, 10),
	}
}

func countTransactions(t *testing.T, svc TransactionServicer, userID string) int64 {
	t.Helper()
	result, err := svc.GetUserTransactions(userID, pagination.PageRequest{Page: 1, PageSize: 100}, TransactionFilter{})
	testutil.AssertNoError(t, err)
	return result.TotalItems
}

func TestCreateTransaction(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, models.EntryTypeExpense)

		in := expenseInput(cat, "50.00")
		in.Description = "Weekly shop"
		tx, err := svc.CreateTransaction(user.ID, in)
		testutil.AssertNoError(t, err)

		if tx.ID == "" {
			t.Fatal("expected transaction ID to be set")
		}
		if tx.Amount != money.MustParse("50.00") {
			t.Errorf("expected amount 50.00, got %s", tx.Amount)
		}
		if tx.UserID != user.ID {
			t.Errorf("expected owner %s, got %s", user.ID, tx.UserID)
		}
	})

	t.Run("type_must_match_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, models.EntryTypeExpense)

		in := expenseInput(cat, "20.00")
		in.Type = models.EntryTypeIncome
		_, err := svc.CreateTransaction(user.ID, in)
		testutil.AssertFieldError(t, err, "VALIDATION_FAILED", "choice_type")

		if n := countTransactions(t, svc, user.ID); n != 0 {
			t.Errorf("expected nothing persisted, got %d transactions", n)
		}
	})

	t.Run("category_of_other_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		alice := testutil.CreateTestUser(t, db)
		bob := testutil.CreateTestUser(t, db)
		bobsCat := testutil.CreateTestCategory(t, db, bob.ID, models.EntryTypeExpense)

		_, err := svc.CreateTransaction(alice.ID, expenseInput(bobsCat, "5.00"))
		testutil.AssertFieldError(t, err, "VALIDATION_FAILED", "category")

		if n := countTransactions(t, svc, alice.ID); n != 0 {
			t.Errorf("expected nothing persisted, got %d transactions", n)
		}
	})

	t.Run("unknown_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		in := TransactionInput{
			CategoryID: "0190f2b4-6c7e-7d3a-9c1b-2e4f5a6b7c8d",
			Type:       models.EntryTypeExpense,
			Amount:     money.MustParse("5.00"),
			Date:       testutil.Date(2025, 8, 1),
		}
		_, err := svc.CreateTransaction(user.ID, in)
		testutil.AssertFieldError(t, err, "VALIDATION_FAILED", "category")
	})

	t.Run("non_positive_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, models.EntryTypeExpense)

		for _, amount := range []string{"0", "-20.00"} {
			_, err := svc.CreateTransaction(user.ID, expenseInput(cat, amount))
			testutil.AssertFieldError(t, err, "VALIDATION_FAILED", "amount")
		}
	})

	t.Run("missing_date", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, models.EntryTypeExpense)

		in := expenseInput(cat, "1.00")
		in.Date = time.Time{}
		_, err := svc.CreateTransaction(user.ID, in)
		testutil.AssertFieldError(t, err, "VALIDATION_FAILED", "date")
	})

	t.Run("reports_every_field", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, models.EntryTypeExpense)

		in := expenseInput(cat, "0")
		in.Type = models.EntryTypeIncome
		_, err := svc.CreateTransaction(user.ID, in)
		testutil.AssertFieldError(t, err, "VALIDATION_FAILED", "amount")
		testutil.AssertFieldError(t, err, "VALIDATION_FAILED", "choice_type")
	})
}

func TestGetUserTransactions(t *testing.T) {
	t.Run("newest_first_by_default", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, models.EntryTypeExpense)

		testutil.CreateTestTransaction(t, db, cat, "1.00", testutil.Date(2025, 1, 1))
		testutil.CreateTestTransaction(t, db, cat, "2.00", testutil.Date(2025, 3, 1))
		testutil.CreateTestTransaction(t, db, cat, "3.00", testutil.Date(2025, 2, 1))

		result, err := svc.GetUserTransactions(user.ID, pagination.PageRequest{}, TransactionFilter{})
		testutil.AssertNoError(t, err)

		want := []string{"2.00", "3.00", "1.00"}
		for i, amount := range want {
			if got := result.Data[i].Amount.String(); got != amount {
				t.Errorf("position %d: expected %s, got %s", i, amount, got)
			}
		}
	})

	t.Run("ordering_by_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, models.EntryTypeExpense)

		testutil.CreateTestTransaction(t, db, cat, "30.00", testutil.Date(2025, 1, 1))
		testutil.CreateTestTransaction(t, db, cat, "10.00", testutil.Date(2025, 1, 2))
		testutil.CreateTestTransaction(t, db, cat, "20.00", testutil.Date(2025, 1, 3))

		result, err := svc.GetUserTransactions(user.ID, pagination.PageRequest{}, TransactionFilter{Ordering: "-amount"})
		testutil.AssertNoError(t, err)

		want := []string{"30.00", "20.00", "10.00"}
		for i, amount := range want {
			if got := result.Data[i].Amount.String(); got != amount {
				t.Errorf("position %d: expected %s, got %s", i, amount, got)
			}
		}
	})

	t.Run("unknown_ordering", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.GetUserTransactions(user.ID, pagination.PageRequest{}, TransactionFilter{Ordering: "password"})
		testutil.AssertFieldError(t, err, "INVALID_INPUT", "ordering")
	})

	t.Run("date_range_is_inclusive", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, models.EntryTypeExpense)

		testutil.CreateTestTransaction(t, db, cat, "1.00", testutil.Date(2025, 7, 31))
		testutil.CreateTestTransaction(t, db, cat, "2.00", testutil.Date(2025, 8, 1))
		testutil.CreateTestTransaction(t, db, cat, "3.00", testutil.Date(2025, 8, 31))
		testutil.CreateTestTransaction(t, db, cat, "4.00", testutil.Date(2025, 9, 1))

		from, to := testutil.Date(2025, 8, 1), testutil.Date(2025, 8, 31)
		result, err := svc.GetUserTransactions(user.ID, pagination.PageRequest{}, TransactionFilter{FromDate: &from, ToDate: &to})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 2 {
			t.Errorf("expected 2 transactions in August, got %d", result.TotalItems)
		}
	})

	t.Run("filters_combine", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		food := testutil.CreateTestCategory(t, db, user.ID, models.EntryTypeExpense)
		salary := testutil.CreateTestCategory(t, db, user.ID, models.EntryTypeIncome)

		testutil.CreateTestTransaction(t, db, food, "5.00", testutil.Date(2025, 8, 1))
		testutil.CreateTestTransaction(t, db, food, "50.00", testutil.Date(2025, 8, 2))
		testutil.CreateTestTransaction(t, db, food, "500.00", testutil.Date(2025, 8, 3))
		testutil.CreateTestTransaction(t, db, salary, "50.00", testutil.Date(2025, 8, 4))

		expense := models.EntryTypeExpense
		lo, hi := money.MustParse("10"), money.MustParse("100")
		result, err := svc.GetUserTransactions(user.ID, pagination.PageRequest{}, TransactionFilter{
			Type:       &expense,
			CategoryID: &food.ID,
			MinAmount:  &lo,
			MaxAmount:  &hi,
		})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 1 {
			t.Fatalf("expected 1 transaction, got %d", result.TotalItems)
		}
		if result.Data[0].Amount.String() != "50.00" {
			t.Errorf("expected the 50.00 expense, got %s", result.Data[0].Amount)
		}
	})

	t.Run("search_description", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, models.EntryTypeExpense)

		for _, desc := range []string{"Coffee at Mario's", "Groceries", "100% juice"} {
			in := expenseInput(cat, "3.00")
			in.Description = desc
			_, err := svc.CreateTransaction(user.ID, in)
			testutil.AssertNoError(t, err)
		}

		result, err := svc.GetUserTransactions(user.ID, pagination.PageRequest{}, TransactionFilter{Search: "coffee"})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 1 {
			t.Errorf("expected 1 match for coffee, got %d", result.TotalItems)
		}

		result, err = svc.GetUserTransactions(user.ID, pagination.PageRequest{}, TransactionFilter{Search: "%"})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 1 {
			t.Errorf("expected %% to match literally once, got %d", result.TotalItems)
		}
	})

	t.Run("only_own_transactions", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		alice := testutil.CreateTestUser(t, db)
		bob := testutil.CreateTestUser(t, db)
		testutil.CreateTestTransaction(t, db, testutil.CreateTestCategory(t, db, alice.ID, models.EntryTypeExpense), "1.00", testutil.Date(2025, 1, 1))
		testutil.CreateTestTransaction(t, db, testutil.CreateTestCategory(t, db, bob.ID, models.EntryTypeExpense), "1.00", testutil.Date(2025, 1, 1))

		if n := countTransactions(t, svc, alice.ID); n != 1 {
			t.Errorf("expected 1 transaction, got %d", n)
		}
	})
}

func TestGetTransactionByID(t *testing.T) {
	t.Run("other_users_transaction_is_forbidden", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		owner := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		tx := testutil.CreateTestTransaction(t, db, testutil.CreateTestCategory(t, db, owner.ID, models.EntryTypeExpense), "9.99", testutil.Date(2025, 1, 1))

		_, err := svc.GetTransactionByID(other.ID, tx.ID)
		testutil.AssertAppError(t, err, "FORBIDDEN")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.GetTransactionByID(user.ID, "0190f2b4-6c7e-7d3a-9c1b-2e4f5a6b7c8d")
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}

func TestUpdateTransaction(t *testing.T) {
	t.Run("partial_update", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, models.EntryTypeExpense)
		tx := testutil.CreateTestTransaction(t, db, cat, "10.00", testutil.Date(2025, 4, 1))

		amount := money.MustParse("12.50")
		updated, err := svc.UpdateTransaction(user.ID, tx.ID, TransactionPatch{Amount: &amount})
		testutil.AssertNoError(t, err)

		if updated.Amount.String() != "12.50" {
			t.Errorf("expected amount 12.50, got %s", updated.Amount)
		}
		if !updated.Date.Equal(testutil.Date(2025, 4, 1)) {
			t.Errorf("expected date unchanged, got %s", updated.Date)
		}
	})

	t.Run("move_to_category_of_other_type", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		expense := testutil.CreateTestCategory(t, db, user.ID, models.EntryTypeExpense)
		income := testutil.CreateTestCategory(t, db, user.ID, models.EntryTypeIncome)
		tx := testutil.CreateTestTransaction(t, db, expense, "10.00", testutil.Date(2025, 4, 1))

		_, err := svc.UpdateTransaction(user.ID, tx.ID, TransactionPatch{CategoryID: &income.ID})
		testutil.AssertFieldError(t, err, "VALIDATION_FAILED", "choice_type")

		reloaded, _ := svc.GetTransactionByID(user.ID, tx.ID)
		if reloaded.CategoryID != expense.ID {
			t.Error("expected the stored transaction to be unchanged")
		}
	})

	t.Run("move_category_and_type_together", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		expense := testutil.CreateTestCategory(t, db, user.ID, models.EntryTypeExpense)
		income := testutil.CreateTestCategory(t, db, user.ID, models.EntryTypeIncome)
		tx := testutil.CreateTestTransaction(t, db, expense, "10.00", testutil.Date(2025, 4, 1))

		typ := models.EntryTypeIncome
		updated, err := svc.UpdateTransaction(user.ID, tx.ID, TransactionPatch{CategoryID: &income.ID, Type: &typ})
		testutil.AssertNoError(t, err)

		if updated.Type != models.EntryTypeIncome {
			t.Errorf("expected type INCOME, got %s", updated.Type)
		}
	})
}

func TestDeleteTransaction(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		tx := testutil.CreateTestTransaction(t, db, testutil.CreateTestCategory(t, db, user.ID, models.EntryTypeExpense), "1.00", testutil.Date(2025, 1, 1))

		testutil.AssertNoError(t, svc.DeleteTransaction(user.ID, tx.ID))

		_, err := svc.GetTransactionByID(user.ID, tx.ID)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})

	t.Run("other_users_transaction_is_forbidden", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		owner := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		tx := testutil.CreateTestTransaction(t, db, testutil.CreateTestCategory(t, db, owner.ID, models.EntryTypeExpense), "1.00", testutil.Date(2025, 1, 1))

		err := svc.DeleteTransaction(other.ID, tx.ID)
		testutil.AssertAppError(t, err, "FORBIDDEN")

		_, err = svc.GetTransactionByID(owner.ID, tx.ID)
		testutil.AssertNoError(t, err)
	})
}
