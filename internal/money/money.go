package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Amounts are stored as integers scaled by 10^4 so balance arithmetic
// never touches floating point.
const Scale = 4

var ErrRange = errors.New("money: amount out of range")

// Amount is a monetary value with four decimal places of precision.
type Amount int64

// Parse converts a decimal string into an Amount. Digits beyond the
// fourth decimal place are truncated toward zero. Sign is preserved;
// callers decide whether a negative amount is acceptable.
func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("money: parse %q: %w", s, err)
	}
	scaled := d.Shift(Scale).Truncate(0)
	bi := scaled.BigInt()
	if !bi.IsInt64() {
		return 0, ErrRange
	}
	return Amount(bi.Int64()), nil
}

// MustParse is Parse for statically known values; it panics on error.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Amount) Add(b Amount) Amount { return a + b }
func (a Amount) Sub(b Amount) Amount { return a - b }

func (a Amount) IsPositive() bool { return a > 0 }
func (a Amount) IsNegative() bool { return a < 0 }

// String renders the amount as a minimal decimal string ("1.5", not "1.5000").
func (a Amount) String() string {
	return decimal.New(int64(a), -Scale).String()
}

// MarshalJSON renders amounts as quoted decimal strings so API clients
// never see the scaled integer representation.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*a = v
	return nil
}
