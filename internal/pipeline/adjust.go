package pipeline

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/goalpost/internal/model"
)

// AddProgress returns g's progress increased by amount, never below zero.
// There is no cap at the target.
func AddProgress(g model.Goal, amount decimal.Decimal) decimal.Decimal {
	return clampZero(g.CurrentProgress.Add(amount))
}

// RemoveProgress returns g's progress decreased by amount, floored at zero.
func RemoveProgress(g model.Goal, amount decimal.Decimal) decimal.Decimal {
	return clampZero(g.CurrentProgress.Sub(amount))
}

// SetProgress returns amount as the new absolute progress, floored at zero.
func SetProgress(_ model.Goal, amount decimal.Decimal) decimal.Decimal {
	return clampZero(amount)
}

// WithProgress returns a copy of g carrying progress p.
func WithProgress(g model.Goal, p decimal.Decimal) model.Goal {
	g.CurrentProgress = clampZero(p)
	return g
}

func clampZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// AdjustMode names a progress adjustment.
type AdjustMode string

const (
	AdjustAdd    AdjustMode = "add"
	AdjustRemove AdjustMode = "remove"
	AdjustSet    AdjustMode = "set"
)

var (
	ErrNonPositiveAdjustment = errors.New("amount must be greater than zero")
	ErrNegativeProgress      = errors.New("progress must not be negative")
	ErrUnknownAdjustMode     = errors.New("unknown adjustment (want add, remove or set)")
)

// ValidateAdjustment is the caller-side check run before Adjust: add and remove
// need a positive amount, set needs a non-negative one.
func ValidateAdjustment(mode AdjustMode, amount decimal.Decimal) error {
	switch mode {
	case AdjustAdd, AdjustRemove:
		if !amount.IsPositive() {
			return ErrNonPositiveAdjustment
		}
	case AdjustSet:
		if amount.IsNegative() {
			return ErrNegativeProgress
		}
	default:
		return ErrUnknownAdjustMode
	}
	return nil
}

// Adjust dispatches to AddProgress, RemoveProgress or SetProgress.
func Adjust(g model.Goal, mode AdjustMode, amount decimal.Decimal) (decimal.Decimal, error) {
	switch mode {
	case AdjustAdd:
		return AddProgress(g, amount), nil
	case AdjustRemove:
		return RemoveProgress(g, amount), nil
	case AdjustSet:
		return SetProgress(g, amount), nil
	default:
		return g.CurrentProgress, ErrUnknownAdjustMode
	}
}
