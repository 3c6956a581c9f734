package view

import (
	"time"

	"github.com/shopspring/decimal"
)

// Money formats an amount with two decimal places.
func Money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// Signed is Money with an explicit plus for positive values.
func Signed(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	if d.IsPositive() {
		return "+" + d.StringFixed(2)
	}
	return d.StringFixed(2)
}

// Quantity trims trailing zeros: 0.01, 1, 2.5.
func Quantity(v float64) string {
	return decimal.NewFromFloat(v).String()
}

func Millis(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(1) + "ms"
}

// Timestamp shortens an RFC 3339 server time for display and leaves anything else as is.
func Timestamp(s string) string {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}
	return t.Format("2006-01-02 15:04")
}

func optional(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}
