package models

import "fmt"

// EntryType classifies a category and the transactions recorded against it.
type EntryType string

const (
	EntryTypeIncome  EntryType = "INCOME"
	EntryTypeExpense EntryType = "EXPENSE"
)

// Valid reports whether t is one of the known entry types.
func (t EntryType) Valid() bool {
	return t == EntryTypeIncome || t == EntryTypeExpense
}

// UnmarshalText rejects anything other than INCOME or EXPENSE.
func (t *EntryType) UnmarshalText(text []byte) error {
	v := EntryType(text)
	if !v.Valid() {
		return fmt.Errorf("%q is not a valid choice", string(text))
	}
	*t = v
	return nil
}

// BudgetPeriod is the granularity of a budget.
type BudgetPeriod string

const (
	BudgetPeriodMonth BudgetPeriod = "MONTH"
	BudgetPeriodYear  BudgetPeriod = "YEAR"
)

// Valid reports whether p is one of the known periods.
func (p BudgetPeriod) Valid() bool {
	return p == BudgetPeriodMonth || p == BudgetPeriodYear
}

// UnmarshalText rejects anything other than MONTH or YEAR.
func (p *BudgetPeriod) UnmarshalText(text []byte) error {
	v := BudgetPeriod(text)
	if !v.Valid() {
		return fmt.Errorf("%q is not a valid choice", string(text))
	}
	*p = v
	return nil
}
