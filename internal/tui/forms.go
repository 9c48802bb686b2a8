package tui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/goalpost/internal/cli"
	"github.com/theirongolddev/goalpost/internal/model"
	"github.com/theirongolddev/goalpost/internal/pipeline"
	"github.com/theirongolddev/goalpost/internal/store"
	"github.com/theirongolddev/goalpost/internal/tui/theme"
)

type formKind int

const (
	formNone formKind = iota
	formNewGoal
	formAdjust
)

// goalFormValues holds the new-goal form bindings.
type goalFormValues struct {
	Name   string
	Type   model.GoalType
	Target string
	Start  string
	End    string
}

// adjustFormValues holds the progress form bindings for one goal.
type adjustFormValues struct {
	Goal   model.Goal
	Mode   pipeline.AdjustMode
	Amount string
}

func formWidth(termW int) int {
	return min(max(termW-8, 40), 72)
}

func validateName(s string) error {
	if strings.TrimSpace(s) == "" {
		return model.ErrEmptyName
	}
	return nil
}

func validatePositive(s string) error {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return errors.New("enter a number, e.g. 250 or 99.50")
	}
	if !d.IsPositive() {
		return model.ErrInvalidAmount
	}
	return nil
}

func validateDay(s string) error {
	_, err := model.ParseDay(s)
	return err
}

func (a App) openGoalForm() (tea.Model, tea.Cmd) {
	today := a.now()
	vals := &goalFormValues{
		Type:  model.Savings,
		Start: cli.FormatDate(today),
		End:   cli.FormatDate(today.AddDate(0, 3, 0)),
	}

	typeOpts := make([]huh.Option[model.GoalType], 0, len(model.GoalTypes))
	for _, gt := range model.GoalTypes {
		typeOpts = append(typeOpts, huh.NewOption(gt.String(), gt))
	}

	a.goalVals = vals
	a.formKind = formNewGoal
	a.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Goal name").Value(&vals.Name).Validate(validateName),
			huh.NewSelect[model.GoalType]().Title("Type").
				Description("Savings: more is better. Spending: stay under the target.").
				Options(typeOpts...).Value(&vals.Type),
			huh.NewInput().Title("Target amount ("+a.currency()+")").Value(&vals.Target).Validate(validatePositive),
		),
		huh.NewGroup(
			huh.NewInput().Title("Start date").Placeholder(model.DateLayout).Value(&vals.Start).Validate(validateDay),
			huh.NewInput().Title("End date").Placeholder(model.DateLayout).Value(&vals.End).Validate(validateDay),
		),
	).WithTheme(formTheme()).WithShowHelp(true).WithWidth(formWidth(a.width))

	return a, a.form.Init()
}

func (a App) openAdjustForm(g model.Goal) (tea.Model, tea.Cmd) {
	vals := &adjustFormValues{Goal: g, Mode: pipeline.AdjustAdd}

	a.adjustVals = vals
	a.formKind = formAdjust
	a.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[pipeline.AdjustMode]().
				Title(fmt.Sprintf("Update %q (now %s of %s)", g.Name,
					cli.FormatMoney(g.CurrentProgress, a.currency()),
					cli.FormatMoney(g.TargetAmount, a.currency()))).
				Options(
					huh.NewOption("Add to progress", pipeline.AdjustAdd),
					huh.NewOption("Remove from progress", pipeline.AdjustRemove),
					huh.NewOption("Set progress to", pipeline.AdjustSet),
				).Value(&vals.Mode),
			huh.NewInput().Title("Amount").Value(&vals.Amount).Validate(func(s string) error {
				d, err := decimal.NewFromString(strings.TrimSpace(s))
				if err != nil {
					return errors.New("enter a number")
				}
				return pipeline.ValidateAdjustment(vals.Mode, d)
			}),
		),
	).WithTheme(formTheme()).WithShowHelp(true).WithWidth(formWidth(a.width))

	return a, a.form.Init()
}

func (a App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		a.closeForm()
		return a, nil
	}

	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	switch a.form.State {
	case huh.StateCompleted:
		kind := a.formKind
		goalVals, adjustVals := a.goalVals, a.adjustVals
		a.closeForm()
		switch kind {
		case formNewGoal:
			return a, createGoalCmd(a.opts.Store, goalVals)
		case formAdjust:
			return a, adjustGoalCmd(a.opts.Store, adjustVals)
		}
		return a, nil
	case huh.StateAborted:
		a.closeForm()
		return a, nil
	}

	return a, cmd
}

func (a *App) closeForm() {
	a.form = nil
	a.formKind = formNone
	a.goalVals = nil
	a.adjustVals = nil
}

func (a App) viewForm() string {
	t := theme.Active
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 2).
		Render(a.form.View())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// buildGoal turns completed form values into a validated goal.
func buildGoal(v *goalFormValues) (model.Goal, error) {
	target, err := decimal.NewFromString(strings.TrimSpace(v.Target))
	if err != nil {
		return model.Goal{}, fmt.Errorf("target: %w", err)
	}
	start, err := model.ParseDay(v.Start)
	if err != nil {
		return model.Goal{}, err
	}
	end, err := model.ParseDay(v.End)
	if err != nil {
		return model.Goal{}, err
	}

	g := model.Goal{
		ID:              model.NewID(),
		Type:            v.Type,
		Name:            strings.TrimSpace(v.Name),
		TargetAmount:    target,
		CurrentProgress: decimal.Zero,
		StartDate:       start,
		EndDate:         end,
	}
	return g, g.Validate()
}

func createGoalCmd(st *store.Store, v *goalFormValues) tea.Cmd {
	return func() tea.Msg {
		g, err := buildGoal(v)
		if err == nil {
			err = st.SaveGoal(g)
		}
		return goalSavedMsg{goal: g, verb: "create", err: err}
	}
}

// applyAdjustment validates and applies a progress form to its goal.
func applyAdjustment(v *adjustFormValues) (model.Goal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(v.Amount))
	if err != nil {
		return v.Goal, fmt.Errorf("amount: %w", err)
	}
	if err := pipeline.ValidateAdjustment(v.Mode, amount); err != nil {
		return v.Goal, err
	}
	p, err := pipeline.Adjust(v.Goal, v.Mode, amount)
	if err != nil {
		return v.Goal, err
	}
	return pipeline.WithProgress(v.Goal, p), nil
}

func adjustGoalCmd(st *store.Store, v *adjustFormValues) tea.Cmd {
	return func() tea.Msg {
		g, err := applyAdjustment(v)
		if err == nil {
			err = st.UpdateGoalProgress(g.ID, g.CurrentProgress)
		}
		return goalSavedMsg{goal: g, verb: "update", err: err}
	}
}
