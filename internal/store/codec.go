package store

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/goalpost/internal/model"
)

// Amounts and dates are stored as text so decimals round-trip exactly.

func encodeDay(t time.Time) string {
	return t.Format(model.DateLayout)
}

func decodeDay(s string) (time.Time, error) {
	return model.ParseDay(s)
}

func decodeAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid stored amount %q: %w", s, err)
	}
	return d, nil
}
