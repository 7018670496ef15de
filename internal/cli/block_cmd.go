package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/lifesync/internal/cli/formatter"
	"github.com/alexanderramin/lifesync/internal/domain"
	"github.com/alexanderramin/lifesync/internal/gesture"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func newBlockCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "block",
		Aliases: []string{"b"},
		Short:   "Manage time blocks on the plan and actual timelines",
	}

	cmd.AddCommand(
		newBlockAddCmd(app),
		newBlockListCmd(app),
		newBlockShowCmd(app),
		newBlockEditCmd(app),
		newBlockMoveCmd(app),
		newBlockResizeCmd(app),
		newBlockStatusCmd(app),
		newBlockDeleteCmd(app),
		newBlockScheduleCmd(app),
		newBlockBacklogCmd(app),
	)

	return cmd
}

type blockFlags struct {
	date, at, column, color, notes, value, priority string
	minutes                                          int
}

func (f *blockFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.date, "date", "d", "", "Day (YYYY-MM-DD, today, tomorrow, +N)")
	cmd.Flags().StringVar(&f.at, "at", "", "Start time (HH:MM)")
	cmd.Flags().IntVarP(&f.minutes, "minutes", "m", 0, "Duration in minutes")
	cmd.Flags().StringVarP(&f.column, "timeline", "t", "plan", "Timeline (plan or actual)")
	cmd.Flags().StringVar(&f.color, "color", "", "Block color (#rrggbb)")
	cmd.Flags().StringVar(&f.notes, "notes", "", "Free-form notes")
	cmd.Flags().StringVar(&f.value, "value", "", "Time value (investment, consumption, maintenance)")
	cmd.Flags().StringVar(&f.priority, "priority", "", "Priority (high, medium, low)")
}

func newBlockAddCmd(app *App) *cobra.Command {
	var f blockFlags
	var backlog bool

	cmd := &cobra.Command{
		Use:   "add [TITLE]",
		Short: "Add a block to a timeline or the backlog",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			title := ""
			if len(args) == 1 {
				title = args[0]
			} else if app.interactive() {
				minutes := ""
				if f.minutes > 0 {
					minutes = strconv.Itoa(f.minutes)
				}
				if err := blockDraftForm(&title, &f.at, &minutes).Run(); err != nil {
					return err
				}
				if minutes != "" {
					f.minutes, _ = strconv.Atoi(minutes)
				}
			} else {
				return fmt.Errorf("a title is required")
			}

			draft, err := f.draft(app, title)
			if err != nil {
				return err
			}
			if backlog {
				draft.Date = ""
				draft.StartTime = domain.Unscheduled
			} else if f.at == "" {
				return fmt.Errorf("--at is required unless --backlog is set")
			}
			if draft.Column == domain.ColumnDeviceLog {
				return fmt.Errorf("use 'device record' for device activity")
			}

			b, err := app.Day.Add(ctx, draft)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s %s (%s)\n",
				formatter.ColumnBadge(b.Column), b.Title, formatter.Span(*b), formatter.TruncID(b.ID))
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().BoolVar(&backlog, "backlog", false, "Park the block in the backlog instead of a timeline")

	return cmd
}

// draft builds an unsaved block from the shared flags.
func (f *blockFlags) draft(app *App, title string) (domain.TimeBlock, error) {
	date, err := resolveDate(app, f.date)
	if err != nil {
		return domain.TimeBlock{}, err
	}
	column, err := parseColumnFlag(f.column)
	if err != nil {
		return domain.TimeBlock{}, err
	}
	start := domain.Unscheduled
	if f.at != "" {
		if start, err = parseClock(f.at); err != nil {
			return domain.TimeBlock{}, err
		}
	}
	b := domain.TimeBlock{
		Title:       strings.TrimSpace(title),
		Date:        date,
		StartTime:   start,
		Duration:    f.minutes,
		Column:      column,
		Color:       f.color,
		Description: f.notes,
		Origin:      domain.OriginUser,
		TimeValue:   domain.TimeValue(f.value),
		Priority:    domain.Priority(f.priority),
	}
	if b.Duration <= 0 {
		b.Duration = domain.DefaultDropMinutes
	}
	return b, nil
}

// blockDraftForm asks for the essentials of a new block.
func blockDraftForm(title, at, minutes *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(title).
				Validate(validateTitle),
			huh.NewInput().
				Title("Start (HH:MM)").
				Placeholder("09:00").
				Value(at).
				Validate(validateOptionalClock),
			huh.NewInput().
				Title("Minutes").
				Placeholder("60").
				Value(minutes).
				Validate(validatePositiveInt),
		),
	).WithTheme(lifesyncHuhTheme()).WithShowHelp(false)
}

func newBlockListCmd(app *App) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show a day's plan and actual timelines",
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := resolveDate(app, date)
			if err != nil {
				return err
			}
			blocks, err := app.Day.Blocks(context.Background(), day)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDay(day, blocks))
			return nil
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "", "Day (YYYY-MM-DD, today, tomorrow, +N)")

	return cmd
}

func newBlockShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one block",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := app.Day.Resolve(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatBlock(*b))
			return nil
		},
	}
}

func newBlockEditCmd(app *App) *cobra.Command {
	var f blockFlags
	var title, status string

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change a block's fields",
		Long: "Change a block's fields. Title, color, notes, goal and milestone " +
			"edits on a plan block are copied to its linked result or reflection.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			b, err := app.Day.Resolve(ctx, args[0])
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			next := *b
			if flags.Changed("title") {
				next.Title = strings.TrimSpace(title)
			}
			if flags.Changed("date") {
				if next.Date, err = resolveDate(app, f.date); err != nil {
					return err
				}
			}
			if flags.Changed("at") {
				if next.StartTime, err = parseClock(f.at); err != nil {
					return err
				}
			}
			if flags.Changed("minutes") {
				next.Duration = f.minutes
			}
			if flags.Changed("timeline") {
				if next.Column, err = parseColumnFlag(f.column); err != nil {
					return err
				}
			}
			if flags.Changed("color") {
				next.Color = f.color
			}
			if flags.Changed("notes") {
				next.Description = f.notes
			}
			if flags.Changed("value") {
				next.TimeValue = domain.TimeValue(f.value)
			}
			if flags.Changed("priority") {
				next.Priority = domain.Priority(f.priority)
			}
			if flags.Changed("status") {
				if next.Status, err = parseStatusArg(status); err != nil {
					return err
				}
			}
			if next.IsScheduled() {
				next.StartTime, next.Duration = domain.FitDay(next.StartTime, next.Duration)
			}

			batch, err := app.Day.Update(ctx, next)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s: %s\n", formatter.TruncID(b.ID), formatter.FormatBatch(batch))
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&status, "status", "", "New status (todo, done, failed)")

	return cmd
}

func newBlockMoveCmd(app *App) *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "move ID [DELTA]",
		Short: "Move a block earlier or later (e.g. +30, -15, 1h)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			b, err := app.Day.Resolve(ctx, args[0])
			if err != nil {
				return err
			}

			var delta int
			switch {
			case to != "":
				target, err := parseClock(to)
				if err != nil {
					return err
				}
				delta = target - b.StartTime
			case len(args) == 2:
				if delta, err = parseMinutes(args[1]); err != nil {
					return err
				}
			default:
				return fmt.Errorf("give a DELTA or --to HH:MM")
			}

			moved, err := app.Day.Shift(ctx, b.ID, gesture.Move, delta)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", moved.Title, formatter.Span(*moved))
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Move so the block starts at HH:MM")

	return cmd
}

func newBlockResizeCmd(app *App) *cobra.Command {
	var fromStart bool

	cmd := &cobra.Command{
		Use:   "resize ID DELTA",
		Short: "Lengthen or shorten a block (e.g. +15, -30)",
		Long: "Lengthen or shorten a block by moving its end edge. With --start " +
			"the start edge moves instead and the end stays put.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			b, err := app.Day.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			delta, err := parseMinutes(args[1])
			if err != nil {
				return err
			}
			kind := gesture.ResizeEnd
			if fromStart {
				kind = gesture.ResizeStart
			}
			resized, err := app.Day.Shift(ctx, b.ID, kind, delta)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n",
				resized.Title, formatter.Span(*resized), formatter.FormatMinutes(resized.Duration))
			return nil
		},
	}

	cmd.Flags().BoolVar(&fromStart, "start", false, "Move the start edge instead of the end")

	return cmd
}

func newBlockStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status ID STATUS",
		Short: "Mark a plan block todo, done or failed",
		Long: "Mark a plan block todo, done or failed. Done adds a matching " +
			"result on the actual timeline, failed adds a reflection, todo " +
			"removes whichever was there.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			b, err := app.Day.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			status, err := parseStatusArg(args[1])
			if err != nil {
				return err
			}
			batch, err := app.Day.SetStatus(ctx, b.ID, status)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s  %s\n",
				b.Title, formatter.StatusIndicator(status), formatter.FormatBatch(batch))
			return nil
		},
	}
}

func newBlockDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete a block and anything linked to it",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			b, err := app.Day.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			batch, err := app.Day.Delete(ctx, b.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s: %s\n", b.Title, formatter.FormatBatch(batch))
			return nil
		},
	}
}

func newBlockScheduleCmd(app *App) *cobra.Command {
	var date, at, column string

	cmd := &cobra.Command{
		Use:   "schedule ID",
		Short: "Drop a backlog block onto a timeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			b, err := app.Day.Resolve(ctx, args[0])
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
			scheduled, err := app.Day.Schedule(ctx, b.ID, day, minute, col)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Scheduled %s on %s %s\n",
				scheduled.Title, scheduled.Date, formatter.Span(*scheduled))
			return nil
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "", "Day (YYYY-MM-DD, today, tomorrow, +N)")
	cmd.Flags().StringVar(&at, "at", "", "Start time (HH:MM), snapped down to 15 minutes")
	cmd.Flags().StringVarP(&column, "timeline", "t", "plan", "Timeline (plan or actual)")
	_ = cmd.MarkFlagRequired("at")

	return cmd
}

func newBlockBacklogCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "backlog",
		Short: "List unscheduled blocks",
		RunE: func(cmd *cobra.Command, args []string) error {
			blocks, err := app.Day.Backlog(context.Background())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatBacklog(blocks))
			return nil
		},
	}
}
