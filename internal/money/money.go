// Package money implements the fixed-point monetary amount used for
// transaction amounts, budget limits and every aggregate derived from them.
//
// An Amount counts minor units (cents), so sums computed by the database
// stay exact integers. Decimal parsing and rendering go through
// shopspring/decimal; floating point is never involved.
package money

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits carried by an Amount.
const Scale = 2

// maxUnits bounds amounts to 12 significant digits (9,999,999,999.99).
const maxUnits = 999_999_999_999

var (
	// ErrInvalidAmount is returned for input that is not a decimal number.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrTooPrecise is returned for input with more than two decimal places.
	ErrTooPrecise = errors.New("amount must have at most 2 decimal places")
	// ErrOutOfRange is returned for input with more than 12 digits.
	ErrOutOfRange = errors.New("amount must have at most 12 digits")
)

// Amount is a monetary value in minor units.
type Amount int64

// Zero is the additive identity.
const Zero Amount = 0

// FromDecimal converts a decimal to an Amount without rounding.
func FromDecimal(d decimal.Decimal) (Amount, error) {
	units := d.Shift(Scale)
	if !units.IsInteger() {
		return 0, ErrTooPrecise
	}
	if units.Abs().GreaterThan(decimal.NewFromInt(maxUnits)) {
		return 0, ErrOutOfRange
	}
	return Amount(units.IntPart()), nil
}

// Parse reads a decimal string such as "50", "50.5" or "1234.56".
func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return FromDecimal(d)
}

// MustParse is Parse for literals known to be valid. It panics otherwise.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("money: MustParse(%q): %v", s, err))
	}
	return a
}

// Decimal returns the amount as a decimal in major units.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -Scale)
}

// String renders the amount with exactly two decimal places.
func (a Amount) String() string {
	return a.Decimal().StringFixed(Scale)
}

// IsPositive reports whether the amount is strictly greater than zero.
func (a Amount) IsPositive() bool { return a > 0 }

// Sub returns a - b.
func (a Amount) Sub(b Amount) Amount { return a - b }

// Add returns a + b.
func (a Amount) Add(b Amount) Amount { return a + b }

// MarshalJSON renders the amount as a two-decimal string, e.g. "150.00".
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts either a JSON number or a numeric string.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return nil
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// Value stores the amount as a BIGINT count of minor units.
func (a Amount) Value() (driver.Value, error) {
	return int64(a), nil
}

// Scan reads a count of minor units. Aggregates come back as int64 from
// SQLite and as a numeric string from Postgres.
func (a *Amount) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*a = 0
	case int64:
		*a = Amount(v)
	case []byte:
		return a.scanString(string(v))
	case string:
		return a.scanString(v)
	default:
		return fmt.Errorf("money: cannot scan %T into Amount", src)
	}
	return nil
}

func (a *Amount) scanString(s string) error {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("money: cannot scan %q into Amount: %w", s, err)
	}
	if !d.IsInteger() {
		return fmt.Errorf("money: stored value %q is not a whole number of minor units", s)
	}
	*a = Amount(d.IntPart())
	return nil
}
