package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/lifesync/internal/cli/formatter"
	"github.com/alexanderramin/lifesync/internal/domain"
	"github.com/spf13/cobra"
)

func newGoalCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Manage goals and drop them onto timelines",
	}

	cmd.AddCommand(
		newGoalAddCmd(app),
		newGoalMilestoneCmd(app),
		newGoalListCmd(app),
		newGoalDropCmd(app),
		newGoalDeleteCmd(app),
	)

	return cmd
}

func newGoalAddCmd(app *App) *cobra.Command {
	var unit, color string

	cmd := &cobra.Command{
		Use:   "add TITLE",
		Short: "Create a goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g := &domain.Goal{Title: args[0], UnitName: unit, Color: color}
			if err := app.Goals.Create(context.Background(), g); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created goal %q (%s)\n", g.Title, formatter.TruncID(g.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&unit, "unit", "", "Unit the goal is measured in (e.g. \"30 minutes\", pages)")
	cmd.Flags().StringVar(&color, "color", "", "Goal color (#rrggbb)")

	return cmd
}

func newGoalMilestoneCmd(app *App) *cobra.Command {
	var unit string
	var total int

	cmd := &cobra.Command{
		Use:   "milestone GOAL TITLE",
		Short: "Add a milestone to a goal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			g, err := resolveGoal(ctx, app, args[0])
			if err != nil {
				return err
			}
			m := &domain.Milestone{GoalID: g.ID, Title: strings.TrimSpace(args[1]), UnitName: unit, TotalUnits: total}
			if err := app.Goals.AddMilestone(ctx, m); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added milestone %q to %q (%s)\n", m.Title, g.Title, formatter.TruncID(m.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&unit, "unit", "", "Unit for the milestone target")
	cmd.Flags().IntVar(&total, "total", 0, "Target number of units")

	return cmd
}

func newGoalListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List goals and milestones",
		RunE: func(cmd *cobra.Command, args []string) error {
			goals, err := app.Goals.List(context.Background())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatGoalList(goals))
			return nil
		},
	}
}

func newGoalDropCmd(app *App) *cobra.Command {
	var milestone, date, at, column string

	cmd := &cobra.Command{
		Use:   "drop GOAL",
		Short: "Drop a goal or milestone onto a timeline as a new block",
		Long: "Drop a goal or milestone onto a timeline. The block's length is " +
			"read from durations in the milestone or goal text (\"45 minutes\", " +
			"\"1.5h\"), falling back to an hour.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			g, err := resolveGoal(ctx, app, args[0])
			if err != nil {
				return err
			}
			milestoneID, err := resolveMilestone(g, milestone)
			if err != nil {
				return err
			}
			day, err := resolveDate(app, date)
			if err != nil {
				return err
			}
			minute, err := parseClock(at)
			if err != nil {
				return err
			}
			col, err := parseColumnFlag(column)
			if err != nil {
				return err
			}
			b, err := app.Day.DropGoal(ctx, g.ID, milestoneID, day, minute, col)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s %s (%s)\n",
				formatter.ColumnBadge(b.Column), b.Title, formatter.Span(*b), formatter.TruncID(b.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&milestone, "milestone", "", "Milestone id, id prefix or title")
	cmd.Flags().StringVarP(&date, "date", "d", "", "Day (YYYY-MM-DD, today, tomorrow, +N)")
	cmd.Flags().StringVar(&at, "at", "", "Start time (HH:MM), snapped down to 15 minutes")
	cmd.Flags().StringVarP(&column, "timeline", "t", "plan", "Timeline (plan or actual)")
	_ = cmd.MarkFlagRequired("at")

	return cmd
}

func newGoalDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "delete GOAL",
		Aliases: []string{"rm"},
		Short:   "Delete a goal and its milestones",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			g, err := resolveGoal(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Goals.Delete(ctx, g.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted goal %q\n", g.Title)
			return nil
		},
	}
}
