// Package money holds monetary amounts as integer cents and confines
// decimal parsing and formatting to the boundaries of the system.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Cents is a non-negative monetary amount in minor units.
type Cents int64

var hundred = decimal.NewFromInt(100)

// Parse converts a user-entered amount string into cents. Both comma and
// dot are accepted as the decimal separator; at most two fraction digits
// are allowed. A leading separator (",50") is valid keypad output and
// parses as 0.50.
func Parse(raw string) (Cents, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("amount is empty")
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.Count(s, ".") > 1 {
		return 0, fmt.Errorf("amount %q has multiple decimal separators", raw)
	}
	if i := strings.IndexByte(s, '.'); i >= 0 && len(s)-i-1 > 2 {
		return 0, fmt.Errorf("amount %q has more than two fraction digits", raw)
	}
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	if strings.HasSuffix(s, ".") {
		s += "0"
	}

	dec, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parsing amount %q: %w", raw, err)
	}
	if dec.IsNegative() {
		return 0, fmt.Errorf("amount %q must not be negative", raw)
	}
	return Cents(dec.Mul(hundred).IntPart()), nil
}

// FromDecimal converts a major-unit decimal (e.g. 29.99) into cents,
// rounding half away from zero beyond two fraction digits.
func FromDecimal(d decimal.Decimal) Cents {
	return Cents(d.Round(2).Mul(hundred).IntPart())
}

// Decimal returns the amount in major units.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.NewFromInt(int64(c)).Shift(-2)
}

// StringFixed renders the amount with exactly two fraction digits and a
// literal decimal point, for machine-readable output.
func (c Cents) StringFixed() string {
	return c.Decimal().StringFixed(2)
}
