package normalize

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrMalformedAmount is returned when monetary text cannot be read as a number.
var ErrMalformedAmount = errors.New("malformed amount")

// CleanMoney reads a bank monetary string. Commas become periods, all but the
// last period are dropped as thousands separators, and anything other than
// digits, '-' and '.' is removed. An empty result is zero.
func CleanMoney(raw string) (decimal.Decimal, error) {
	s := strings.ReplaceAll(raw, ",", ".")
	if last := strings.LastIndex(s, "."); last >= 0 {
		s = strings.ReplaceAll(s[:last], ".", "") + s[last:]
	}
	s = strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' || r == '-' || r == '.' {
			return r
		}
		return -1
	}, s)
	if s == "" {
		return decimal.Zero, nil
	}
	if !strings.ContainsAny(s, "0123456789") {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrMalformedAmount, raw)
	}

	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	if strings.HasPrefix(s, "-.") {
		s = "-0" + s[1:]
	} else if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	if strings.LastIndex(s, "-") > 0 {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrMalformedAmount, raw)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrMalformedAmount, raw)
	}
	return d, nil
}

// ApplyDivisor divides v by divisor. A zero or unit divisor leaves v untouched.
func ApplyDivisor(v, divisor decimal.Decimal) decimal.Decimal {
	if divisor.IsZero() || divisor.Equal(decimal.NewFromInt(1)) {
		return v
	}
	return v.Div(divisor)
}
