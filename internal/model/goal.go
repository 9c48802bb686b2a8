package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// GoalType sets which direction of progress is "good".
type GoalType int

const (
	Savings  GoalType = iota // more progress is better
	Spending                 // staying under the target is better
)

// GoalTypes lists every goal type in display order.
var GoalTypes = []GoalType{Savings, Spending}

func (g GoalType) String() string {
	switch g {
	case Savings:
		return "savings"
	case Spending:
		return "spending"
	default:
		return fmt.Sprintf("GoalType(%d)", int(g))
	}
}

// ParseGoalType maps "savings" or "spending" (any case) to its type.
func ParseGoalType(s string) (GoalType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "savings":
		return Savings, nil
	case "spending":
		return Spending, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownGoalType, s)
	}
}

// Goal is a manually tracked target. CurrentProgress is never derived from transactions.
type Goal struct {
	ID              string
	Type            GoalType
	Name            string
	TargetAmount    decimal.Decimal
	CurrentProgress decimal.Decimal
	StartDate       time.Time
	EndDate         time.Time
	Color           string
	Icon            string
	Description     string
}

var ErrUnknownGoalType = errors.New("unknown goal type")

// Validate is used by create/edit flows.
func (g Goal) Validate() error {
	switch g.Type {
	case Savings, Spending:
	default:
		return fmt.Errorf("%w: %d", ErrUnknownGoalType, int(g.Type))
	}
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	if !g.TargetAmount.IsPositive() {
		return ErrInvalidAmount
	}
	if g.CurrentProgress.IsNegative() {
		return ErrNegativeAmount
	}
	if g.StartDate.IsZero() || g.EndDate.IsZero() {
		return ErrMissingDate
	}
	if g.EndDate.Before(g.StartDate) {
		return ErrInvalidDateRange
	}
	return nil
}

// GoalProgress is derived from a goal on every read.
type GoalProgress struct {
	GoalID     string
	Progress   decimal.Decimal
	Target     decimal.Decimal
	Percentage float64
	Remaining  decimal.Decimal
	IsComplete bool
}
