package model

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CategorySet is a set of category identifiers. An empty set means "all categories".
type CategorySet map[string]struct{}

// NewCategorySet builds a set from ids, ignoring blanks.
func NewCategorySet(ids ...string) CategorySet {
	set := make(CategorySet, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		set[id] = struct{}{}
	}
	return set
}

// IsEmpty reports whether the set tracks every category.
func (s CategorySet) IsEmpty() bool {
	return len(s) == 0
}

// Contains reports whether id is a member of the set.
func (s CategorySet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the members sorted alphabetically.
func (s CategorySet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Budget is a spending limit over a fixed date window.
type Budget struct {
	ID          string
	Name        string
	Amount      decimal.Decimal // the limit
	CategoryIDs CategorySet
	StartDate   time.Time
	EndDate     time.Time
	Color       string
	Description string
}

var (
	ErrEmptyName        = errors.New("name is required")
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrInvalidDateRange = errors.New("end date must not be before start date")
)

// Validate is used by create/edit flows. The progress engine never calls it.
func (b Budget) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return ErrEmptyName
	}
	if !b.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if b.StartDate.IsZero() || b.EndDate.IsZero() {
		return ErrMissingDate
	}
	if b.EndDate.Before(b.StartDate) {
		return ErrInvalidDateRange
	}
	return nil
}

// BudgetProgress is derived from a budget and the ledger on every read.
type BudgetProgress struct {
	BudgetID     string
	Spent        decimal.Decimal
	Remaining    decimal.Decimal
	Percentage   float64
	IsOverBudget bool
}
