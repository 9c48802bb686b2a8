// Package plan reads and writes YAML files declaring budgets and goals in bulk.
package plan

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/theirongolddev/goalpost/internal/model"
)

// File is the on-disk plan document.
type File struct {
	Budgets []BudgetEntry `yaml:"budgets,omitempty"`
	Goals   []GoalEntry   `yaml:"goals,omitempty"`
}

// BudgetEntry is one budget in a plan file. Amounts and dates are kept as text
// so both `500` and `"500.00"` are accepted.
type BudgetEntry struct {
	ID          string   `yaml:"id,omitempty"`
	Name        string   `yaml:"name"`
	Amount      string   `yaml:"amount"`
	Categories  []string `yaml:"categories,omitempty"`
	Start       string   `yaml:"start"`
	End         string   `yaml:"end"`
	Color       string   `yaml:"color,omitempty"`
	Description string   `yaml:"description,omitempty"`
}

// GoalEntry is one goal in a plan file.
type GoalEntry struct {
	ID          string `yaml:"id,omitempty"`
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Target      string `yaml:"target"`
	Progress    string `yaml:"progress,omitempty"`
	Start       string `yaml:"start"`
	End         string `yaml:"end"`
	Color       string `yaml:"color,omitempty"`
	Icon        string `yaml:"icon,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// Saver persists the records a plan declares.
type Saver interface {
	SaveBudget(model.Budget) error
	SaveGoal(model.Goal) error
}

// Load reads and decodes a plan file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-supplied plan path
	if err != nil {
		return nil, fmt.Errorf("reading plan: %w", err)
	}
	return Parse(data)
}

// Parse decodes a plan document. Unknown keys are rejected.
func Parse(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	// An empty document decodes to an empty plan.
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing plan: %w", err)
	}
	return &f, nil
}

// Build converts and validates every entry. The first invalid entry aborts the build.
func (f *File) Build() ([]model.Budget, []model.Goal, error) {
	budgets := make([]model.Budget, 0, len(f.Budgets))
	for i, e := range f.Budgets {
		b, err := e.budget()
		if err != nil {
			return nil, nil, fmt.Errorf("budget #%d (%s): %w", i+1, e.Name, err)
		}
		budgets = append(budgets, b)
	}

	goals := make([]model.Goal, 0, len(f.Goals))
	for i, e := range f.Goals {
		g, err := e.goal()
		if err != nil {
			return nil, nil, fmt.Errorf("goal #%d (%s): %w", i+1, e.Name, err)
		}
		goals = append(goals, g)
	}
	return budgets, goals, nil
}

// Apply builds the plan and saves every record through s.
// Nothing is saved when any entry is invalid.
func (f *File) Apply(s Saver) (budgets, goals int, err error) {
	bs, gs, err := f.Build()
	if err != nil {
		return 0, 0, err
	}
	for _, b := range bs {
		if err := s.SaveBudget(b); err != nil {
			return budgets, goals, err
		}
		budgets++
	}
	for _, g := range gs {
		if err := s.SaveGoal(g); err != nil {
			return budgets, goals, err
		}
		goals++
	}
	return budgets, goals, nil
}

func (e BudgetEntry) budget() (model.Budget, error) {
	amount, err := parseAmount(e.Amount)
	if err != nil {
		return model.Budget{}, err
	}
	start, end, err := parseRange(e.Start, e.End)
	if err != nil {
		return model.Budget{}, err
	}

	id := strings.TrimSpace(e.ID)
	if id == "" {
		id = model.DeriveID("budget", strings.ToLower(strings.TrimSpace(e.Name)))
	}

	b := model.Budget{
		ID:          id,
		Name:        strings.TrimSpace(e.Name),
		Amount:      amount,
		CategoryIDs: model.NewCategorySet(e.Categories...),
		StartDate:   start,
		EndDate:     end,
		Color:       e.Color,
		Description: e.Description,
	}
	return b, b.Validate()
}

func (e GoalEntry) goal() (model.Goal, error) {
	typ, err := model.ParseGoalType(e.Type)
	if err != nil {
		return model.Goal{}, err
	}
	target, err := parseAmount(e.Target)
	if err != nil {
		return model.Goal{}, err
	}
	progress := decimal.Zero
	if strings.TrimSpace(e.Progress) != "" {
		if progress, err = parseAmount(e.Progress); err != nil {
			return model.Goal{}, err
		}
	}
	start, end, err := parseRange(e.Start, e.End)
	if err != nil {
		return model.Goal{}, err
	}

	id := strings.TrimSpace(e.ID)
	if id == "" {
		id = model.DeriveID("goal", strings.ToLower(strings.TrimSpace(e.Name)))
	}

	g := model.Goal{
		ID:              id,
		Type:            typ,
		Name:            strings.TrimSpace(e.Name),
		TargetAmount:    target,
		CurrentProgress: progress,
		StartDate:       start,
		EndDate:         end,
		Color:           e.Color,
		Icon:            e.Icon,
		Description:     e.Description,
	}
	return g, g.Validate()
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}

func parseRange(start, end string) (s, e time.Time, err error) {
	if s, err = model.ParseDay(strings.TrimSpace(start)); err != nil {
		return
	}
	e, err = model.ParseDay(strings.TrimSpace(end))
	return
}

// FromModels builds a plan document from stored records, for export.
func FromModels(budgets []model.Budget, goals []model.Goal) *File {
	f := &File{}
	for _, b := range budgets {
		f.Budgets = append(f.Budgets, BudgetEntry{
			ID:          b.ID,
			Name:        b.Name,
			Amount:      b.Amount.String(),
			Categories:  b.CategoryIDs.IDs(),
			Start:       b.StartDate.Format(model.DateLayout),
			End:         b.EndDate.Format(model.DateLayout),
			Color:       b.Color,
			Description: b.Description,
		})
	}
	for _, g := range goals {
		f.Goals = append(f.Goals, GoalEntry{
			ID:          g.ID,
			Name:        g.Name,
			Type:        g.Type.String(),
			Target:      g.TargetAmount.String(),
			Progress:    g.CurrentProgress.String(),
			Start:       g.StartDate.Format(model.DateLayout),
			End:         g.EndDate.Format(model.DateLayout),
			Color:       g.Color,
			Icon:        g.Icon,
			Description: g.Description,
		})
	}
	return f
}

// Marshal encodes the plan as YAML.
func (f *File) Marshal() ([]byte, error) {
	return yaml.Marshal(f)
}
