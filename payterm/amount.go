package payterm

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Amount is the monetary breakdown of one terminal transaction. All
// fields are minor currency units (cents); the wire format is a
// two-decimal string produced by FormatMinor. A zero Authorize means
// the field is absent from the request.
type Amount struct {
	Purchase  int64
	Tax       int64
	Gratuity  int64
	Authorize int64
}

var (
	ErrNegativeAmount    = errors.New("amount fields must not be negative")
	ErrAuthorizeTooSmall = errors.New("authorize amount must not be less than purchase")
)

func (a Amount) Validate() error {
	if a.Purchase < 0 || a.Tax < 0 || a.Gratuity < 0 || a.Authorize < 0 {
		return ErrNegativeAmount
	}
	if a.Authorize > 0 && a.Authorize < a.Purchase {
		return ErrAuthorizeTooSmall
	}
	return nil
}

// FormatMinor renders minor units as a two-decimal string, e.g.
// 2550 -> "25.50". Terminal money fields are always two decimals.
func FormatMinor(v int64) string {
	return fmt.Sprintf("%d.%02d", v/100, v%100)
}

// ParseMinor converts a two-decimal money string back to minor units.
// "25.5" and "25.50" both parse to 2550; an empty string is 0. More
// than two decimal places is an error, never silent rounding.
func ParseMinor(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	whole, frac, found := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid money value %q: %w", s, err)
	}
	if !found {
		return units * 100, nil
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("invalid money value %q: more than two decimal places", s)
	}
	for len(frac) < 2 {
		frac += "0"
	}
	cents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid money value %q: %w", s, err)
	}
	if units < 0 {
		return units*100 - cents, nil
	}
	return units*100 + cents, nil
}
