package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/lifesync/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newLayoutCmd(app *App) *cobra.Command {
	var date, column string

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Show how overlapping blocks share a timeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := resolveDate(app, date)
			if err != nil {
				return err
			}
			col, err := parseColumnFlag(column)
			if err != nil {
				return err
			}
			placements, err := app.Day.Layout(context.Background(), day, col)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatLayout(day, col, placements))
			return nil
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "", "Day (YYYY-MM-DD, today, tomorrow, +N)")
	cmd.Flags().StringVarP(&column, "timeline", "t", "plan", "Timeline (plan or actual)")

	return cmd
}
