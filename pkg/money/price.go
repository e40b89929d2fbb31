// Package money holds the price normalisation rules shared by the payment and
// history flows.
package money

import (
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// NormalizePrice turns a stored price string into a number on a best-effort
// basis. Every character that is not an ASCII digit or '.' is dropped, then the
// longest numeric prefix is parsed ("12.3.4" reads as 12.3). Anything that
// still does not parse counts as 0; callers never see an error.
func NormalizePrice(raw string) float64 {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	return parsePrefix(b.String())
}

func parsePrefix(s string) float64 {
	end := 0
	seenDot := false
	for end < len(s) {
		c := s[end]
		if c == '.' {
			if seenDot {
				break
			}
			seenDot = true
		}
		end++
	}
	prefix := s[:end]
	if prefix == "" || prefix == "." {
		return 0
	}
	v, err := strconv.ParseFloat(prefix, 64)
	if err != nil {
		return 0
	}
	return v
}

// FormatPrice renders an amount with exactly two decimals, the way receipts
// are persisted.
func FormatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// UnitPrice coerces a price value of any JSON shape (number or numeric string)
// into a non-negative amount. Invalid, missing or negative input yields 0.
func UnitPrice(v interface{}) float64 {
	if s, ok := v.(string); ok {
		v = strings.TrimSpace(s)
		if v == "" {
			return 0
		}
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Total sums the normalised value of every price string.
func Total(prices []string) float64 {
	var sum float64
	for _, p := range prices {
		sum += NormalizePrice(p)
	}
	return sum
}
