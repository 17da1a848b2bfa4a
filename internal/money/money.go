// Package money implements the fixed-point monetary type used for all
// ledger arithmetic. Every value is truncated to a fixed number of
// fractional digits on construction and after every operation, so that
// amounts can be persisted, compared and partitioned to the cent.
package money

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultDigits is the number of fractional digits used when no
// explicit factory is configured.
const DefaultDigits int32 = 2

// ErrParse is returned when a value cannot be interpreted as money.
var ErrParse = errors.New("cannot parse monetary value")

// Money is an immutable fixed-point amount. Every operation returns a
// new value truncated to the precision of its receiver. The zero value
// is 0.00 with the default precision.
type Money struct {
	amount decimal.Decimal
	digits int32
}

// Factory creates Money values with an explicit precision. Using a
// factory rather than a package constant keeps the precision visible
// wherever values enter the system.
type Factory struct {
	Digits int32
}

// Default is the factory used for ledger amounts.
var Default = Factory{Digits: DefaultDigits}

// FromDecimal truncates d to the factory precision.
func (f Factory) FromDecimal(d decimal.Decimal) Money {
	return Money{amount: d.Truncate(f.Digits), digits: f.Digits}
}

// FromCents returns the amount that c cents represent.
func (f Factory) FromCents(c int64) Money {
	return Money{amount: decimal.New(c, -f.Digits), digits: f.Digits}
}

// Zero returns the zero amount.
func (f Factory) Zero() Money {
	return Money{digits: f.Digits}
}

// Parse parses a decimal string.
func (f Factory) Parse(s string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrParse, s)
	}

	return f.FromDecimal(d), nil
}

// From converts a numeric, string or money-like value. When v is nil
// the fallback is used; without a fallback the conversion fails.
func (f Factory) From(v any, fallback ...Money) (Money, error) {
	switch value := v.(type) {
	case nil:
		if len(fallback) > 0 {
			return fallback[0], nil
		}
		return Money{}, fmt.Errorf("%w: no value and no fallback given", ErrParse)
	case Money:
		return f.FromDecimal(value.amount), nil
	case decimal.Decimal:
		return f.FromDecimal(value), nil
	case string:
		return f.Parse(value)
	case int:
		return f.FromDecimal(decimal.NewFromInt(int64(value))), nil
	case int64:
		return f.FromDecimal(decimal.NewFromInt(value)), nil
	case float64:
		return f.FromDecimal(decimal.NewFromFloat(value)), nil
	default:
		return Money{}, fmt.Errorf("%w: unsupported type %T", ErrParse, v)
	}
}

func (m Money) prec() int32 {
	if m.digits == 0 {
		return DefaultDigits
	}

	return m.digits
}

func (m Money) with(d decimal.Decimal) Money {
	return Money{amount: d.Truncate(m.prec()), digits: m.prec()}
}

// Add returns m + o.
func (m Money) Add(o Money) Money {
	return m.with(m.amount.Add(o.amount))
}

// Sub returns m - o.
func (m Money) Sub(o Money) Money {
	return m.with(m.amount.Sub(o.amount))
}

// Mul returns m * o, truncated.
func (m Money) Mul(o Money) Money {
	return m.with(m.amount.Mul(o.amount))
}

// Div returns m / o, truncated toward zero. Callers that need an exact
// partition of an amount must use the share splitter instead.
func (m Money) Div(o Money) Money {
	q, _ := m.amount.QuoRem(o.amount, m.prec())
	return m.with(q)
}

// Neg returns -m.
func (m Money) Neg() Money {
	return m.with(m.amount.Neg())
}

// Cents returns the amount in cents (the smallest representable unit).
func (m Money) Cents() int64 {
	return m.amount.Shift(m.prec()).IntPart()
}

// Decimal returns the underlying decimal value.
func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

// Cmp compares the decimal values, ignoring representation.
func (m Money) Cmp(o Money) int {
	return m.amount.Cmp(o.amount)
}

// Equal reports whether both amounts represent the same value.
func (m Money) Equal(o Money) bool {
	return m.amount.Equal(o.amount)
}

// LessThan reports whether m < o.
func (m Money) LessThan(o Money) bool {
	return m.amount.LessThan(o.amount)
}

// GreaterThan reports whether m > o.
func (m Money) GreaterThan(o Money) bool {
	return m.amount.GreaterThan(o.amount)
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// String returns the amount with all fractional digits, e.g. "7.01".
func (m Money) String() string {
	return m.amount.StringFixed(m.prec())
}

// MarshalJSON implements the json.Marshaler interface.
// The amount is emitted as a plain JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
// Both numbers and quoted decimal strings are accepted.
func (m *Money) UnmarshalJSON(data []byte) error {
	value := strings.Trim(string(data), `"`)
	if value == "" || value == "null" {
		*m = Money{}
		return nil
	}

	parsed, err := Default.Parse(value)
	if err != nil {
		return err
	}

	*m = parsed
	return nil
}

// Scan reads the value from the database.
func (m *Money) Scan(value interface{}) error {
	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return err
	}

	*m = Default.FromDecimal(d)
	return nil
}

// Value returns the value for the SQL driver to write to the database.
func (m Money) Value() (driver.Value, error) {
	return m.amount.Value()
}

// GormDataType defines the data type used by gorm for the type.
func (Money) GormDataType() string {
	return "DECIMAL(20,8)"
}
