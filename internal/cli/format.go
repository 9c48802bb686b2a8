// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/goalpost/internal/model"
)

type currencyFormat struct {
	symbol   string
	decimals int32
}

var currencies = map[string]currencyFormat{
	"USD": {"$", 2},
	"CAD": {"$", 2},
	"AUD": {"$", 2},
	"EUR": {"€", 2},
	"GBP": {"£", 2},
	"JPY": {"¥", 0},
	"INR": {"₹", 2},
}

// FormatMoney formats amount in the given ISO currency.
// e.g., (1234.5, "USD") -> "$1,234.50", (-3, "EUR") -> "-€3.00", (9, "CHF") -> "9.00 CHF"
func FormatMoney(amount decimal.Decimal, currency string) string {
	code := strings.ToUpper(strings.TrimSpace(currency))
	cf, known := currencies[code]
	if !known {
		cf = currencyFormat{decimals: 2}
	}

	neg := amount.IsNegative()
	s := amount.Abs().StringFixed(cf.decimals)

	intPart, frac, _ := strings.Cut(s, ".")
	n, err := strconv.ParseInt(intPart, 10, 64)
	if err == nil {
		intPart = FormatNumber(n)
	}
	body := intPart
	if frac != "" {
		body += "." + frac
	}

	sign := ""
	if neg {
		sign = "-"
	}
	if !known {
		if code == "" {
			return sign + body
		}
		return sign + body + " " + code
	}
	return sign + cf.symbol + body
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-100 percentage.
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}

// FormatDate formats a calendar date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(model.DateLayout)
}

// FormatRange formats a start..end date window.
func FormatRange(start, end time.Time) string {
	return FormatDate(start) + " → " + FormatDate(end)
}

// FormatCategories lists a category set, or "all" for the empty sentinel.
func FormatCategories(set model.CategorySet) string {
	if set.IsEmpty() {
		return "all"
	}
	return strings.Join(set.IDs(), ", ")
}

// Truncate shortens s to n runes with an ellipsis.
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
