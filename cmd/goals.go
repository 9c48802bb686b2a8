package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/goalpost/internal/cli"
	"github.com/theirongolddev/goalpost/internal/model"
	"github.com/theirongolddev/goalpost/internal/pipeline"
)

var (
	flagGoalsFilter string

	flagGoalID          string
	flagGoalName        string
	flagGoalType        string
	flagGoalTarget      string
	flagGoalProgress    string
	flagGoalFrom        string
	flagGoalTo          string
	flagGoalColor       string
	flagGoalIcon        string
	flagGoalDescription string
)

var goalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "List goals with progress and status",
	RunE:  runGoals,
}

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Create, remove or update a goal",
}

var goalAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create or replace a goal",
	RunE:  runGoalAdd,
}

var goalRmCmd = &cobra.Command{
	Use:     "rm <id|name>",
	Aliases: []string{"remove", "delete"},
	Short:   "Delete a goal",
	Args:    cobra.ExactArgs(1),
	RunE:    runGoalRm,
}

var goalProgressCmd = &cobra.Command{
	Use:   "progress add|remove|set <id|name> <amount>",
	Short: "Adjust a goal's tracked progress",
	Long: `Adjust a goal's tracked progress.

  add     increase progress by amount (amount > 0)
  remove  decrease progress by amount, never below zero (amount > 0)
  set     replace progress with amount (amount >= 0)`,
	Args: cobra.ExactArgs(3),
	RunE: runGoalProgress,
}

func init() {
	goalsCmd.Flags().StringVarP(&flagGoalsFilter, "filter", "f", "all", "active, completed, expired or all")

	f := goalAddCmd.Flags()
	f.StringVar(&flagGoalID, "id", "", "Goal id (derived from the name when empty)")
	f.StringVar(&flagGoalName, "name", "", "Goal name")
	f.StringVar(&flagGoalType, "type", "savings", "savings or spending")
	f.StringVar(&flagGoalTarget, "target", "", "Target amount")
	f.StringVar(&flagGoalProgress, "progress", "0", "Progress so far")
	f.StringVar(&flagGoalFrom, "from", "", "First day (YYYY-MM-DD)")
	f.StringVar(&flagGoalTo, "to", "", "Last day (YYYY-MM-DD)")
	f.StringVar(&flagGoalColor, "color", "", "Display color")
	f.StringVar(&flagGoalIcon, "icon", "", "Display icon")
	f.StringVar(&flagGoalDescription, "description", "", "Free-form description")
	_ = goalAddCmd.MarkFlagRequired("name")
	_ = goalAddCmd.MarkFlagRequired("target")
	_ = goalAddCmd.MarkFlagRequired("from")
	_ = goalAddCmd.MarkFlagRequired("to")

	goalCmd.AddCommand(goalAddCmd, goalRmCmd, goalProgressCmd)
	rootCmd.AddCommand(goalsCmd, goalCmd)
}

func runGoals(_ *cobra.Command, _ []string) error {
	filter, err := pipeline.ParseGoalFilter(flagGoalsFilter)
	if err != nil {
		return err
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	all, err := s.st.ListGoals()
	if err != nil {
		return err
	}
	goals := pipeline.FilterGoals(all, filter, s.now)
	if len(goals) == 0 {
		fmt.Printf("\n  No %s goals.\n", filter)
		return nil
	}

	rows := make([][]string, 0, len(goals))
	for _, g := range pipeline.SummarizeGoals(goals, s.now) {
		status := g.Status
		switch {
		case g.Progress.IsComplete:
		case g.Expired:
			status = cli.Warn(status)
		case !g.Active:
			status = cli.Muted("starts " + cli.FormatDate(g.Goal.StartDate))
		}
		rows = append(rows, []string{
			cli.Truncate(g.Goal.Name, 24),
			g.Goal.Type.String(),
			s.money(g.Progress.Progress),
			s.money(g.Progress.Target),
			cli.FormatPercent(g.Progress.Percentage),
			cli.RenderToneBar(g.Progress.Percentage, g.Tone, 16),
			status,
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("Goals (%s)  as of %s", filter, cli.FormatDate(s.now)),
		Headers: []string{"Goal", "Type", "Progress", "Target", "%", "", "Status"},
		Rows:    rows,
	}))
	return nil
}

func runGoalAdd(_ *cobra.Command, _ []string) error {
	gt, err := model.ParseGoalType(flagGoalType)
	if err != nil {
		return err
	}
	target, err := parseAmount(flagGoalTarget)
	if err != nil {
		return err
	}
	progress, err := parseAmount(flagGoalProgress)
	if err != nil {
		return err
	}
	start, err := model.ParseDay(flagGoalFrom)
	if err != nil {
		return fmt.Errorf("--from: %w", err)
	}
	end, err := model.ParseDay(flagGoalTo)
	if err != nil {
		return fmt.Errorf("--to: %w", err)
	}

	id := flagGoalID
	if id == "" {
		id = model.DeriveID("goal", strings.ToLower(strings.TrimSpace(flagGoalName)))
	}

	g := model.Goal{
		ID:              id,
		Type:            gt,
		Name:            strings.TrimSpace(flagGoalName),
		TargetAmount:    target,
		CurrentProgress: progress,
		StartDate:       start,
		EndDate:         end,
		Color:           flagGoalColor,
		Icon:            flagGoalIcon,
		Description:     flagGoalDescription,
	}
	if err := g.Validate(); err != nil {
		return err
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.st.SaveGoal(g); err != nil {
		return err
	}
	fmt.Printf("  Saved %s goal %q (%s)\n", g.Type, g.Name, g.ID)
	fmt.Printf("  %s of %s, %s\n",
		s.money(g.CurrentProgress), s.money(g.TargetAmount), pipeline.DescribeStatus(g, s.now))
	return nil
}

func runGoalRm(_ *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	g, err := s.st.FindGoal(args[0])
	if err != nil {
		return err
	}
	if err := s.st.DeleteGoal(g.ID); err != nil {
		return err
	}
	fmt.Printf("  Deleted goal %q\n", g.Name)
	return nil
}

func runGoalProgress(_ *cobra.Command, args []string) error {
	mode := pipeline.AdjustMode(strings.ToLower(args[0]))
	amount, err := parseAmount(args[2])
	if err != nil {
		return err
	}
	if err := pipeline.ValidateAdjustment(mode, amount); err != nil {
		return err
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	g, err := s.st.FindGoal(args[1])
	if err != nil {
		return err
	}

	wasComplete := pipeline.ComputeGoalProgress(g).IsComplete
	next, err := pipeline.Adjust(g, mode, amount)
	if err != nil {
		return err
	}
	if err := s.st.UpdateGoalProgress(g.ID, next); err != nil {
		return err
	}

	g = pipeline.WithProgress(g, next)
	p := pipeline.ComputeGoalProgress(g)
	fmt.Printf("  %s: %s of %s (%s)\n",
		g.Name, s.money(p.Progress), s.money(p.Target), cli.FormatPercent(p.Percentage))
	fmt.Printf("  %s %s\n",
		cli.RenderToneBar(p.Percentage, pipeline.GoalTone(g.Type, p.Percentage), 24),
		pipeline.DescribeStatus(g, s.now))
	if p.IsComplete && !wasComplete {
		fmt.Println("  " + cli.Header("Goal reached!"))
	}
	return nil
}
