package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/lifesync/internal/cli/formatter"
	"github.com/alexanderramin/lifesync/internal/domain"
	"github.com/spf13/cobra"
)

func newDeviceCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "device",
		Short: "Record activity reported by device trackers",
	}
	cmd.AddCommand(newDeviceRecordCmd(app))
	return cmd
}

func newDeviceRecordCmd(app *App) *cobra.Command {
	var source, date, at, color, notes string
	var minutes int

	cmd := &cobra.Command{
		Use:   "record TITLE",
		Short: "Log a device activity entry on the actual timeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := domain.DeviceSource(strings.ToLower(source))
			switch src {
			case domain.DeviceMobile, domain.DeviceDesktop, domain.DeviceTablet:
			default:
				return fmt.Errorf("unknown device %q (use mobile, desktop or tablet)", source)
			}
			day, err := resolveDate(app, date)
			if err != nil {
				return err
			}
			start, err := parseClock(at)
			if err != nil {
				return err
			}

			b, err := app.Day.RecordDeviceActivity(context.Background(), domain.TimeBlock{
				Title:        args[0],
				Date:         day,
				StartTime:    start,
				Duration:     minutes,
				Color:        color,
				Description:  notes,
				DeviceSource: src,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s %s %s [%s]\n",
				formatter.ColumnBadge(b.Column), b.Title, formatter.Span(*b), b.DeviceSource)
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "Device (mobile, desktop, tablet)")
	cmd.Flags().StringVarP(&date, "date", "d", "", "Day (YYYY-MM-DD, today, tomorrow, +N)")
	cmd.Flags().StringVar(&at, "at", "", "Start time (HH:MM)")
	cmd.Flags().IntVarP(&minutes, "minutes", "m", 15, "Duration in minutes")
	cmd.Flags().StringVar(&color, "color", "", "Block color (#rrggbb)")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")
	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("at")

	return cmd
}
