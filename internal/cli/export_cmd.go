package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export blocks, goals and days to other formats",
	}

	cmd.AddCommand(
		newExportJSONCmd(app),
		newExportCSVCmd(app),
		newExportICSCmd(app),
		newExportPDFCmd(app),
	)

	return cmd
}

// withOutput runs write against the --out file, or stdout when out is empty.
func withOutput(cmd *cobra.Command, out string, write func(w io.Writer) error) error {
	if out == "" {
		return write(cmd.OutOrStdout())
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating %s: %w", out, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", out)
	return nil
}

func newExportJSONCmd(app *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "json",
		Short: "Full backup of blocks, goals and templates as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withOutput(cmd, out, func(w io.Writer) error {
				return app.Export.JSON(context.Background(), w)
			})
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default: stdout)")

	return cmd
}

func newExportCSVCmd(app *App) *cobra.Command {
	var out string
	var goals bool

	cmd := &cobra.Command{
		Use:   "csv",
		Short: "All blocks as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withOutput(cmd, out, func(w io.Writer) error {
				if goals {
					return app.Export.GoalsCSV(context.Background(), w)
				}
				return app.Export.CSV(context.Background(), w)
			})
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default: stdout)")
	cmd.Flags().BoolVar(&goals, "goals", false, "Export goals and milestones instead of blocks")

	return cmd
}

func newExportICSCmd(app *App) *cobra.Command {
	var out, date string

	cmd := &cobra.Command{
		Use:   "ics",
		Short: "One day as an iCalendar file",
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := resolveDate(app, date)
			if err != nil {
				return err
			}
			return withOutput(cmd, out, func(w io.Writer) error {
				return app.Export.ICS(context.Background(), day, w)
			})
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVarP(&date, "date", "d", "", "Day (YYYY-MM-DD, today, tomorrow, +N)")

	return cmd
}

func newExportPDFCmd(app *App) *cobra.Command {
	var out, date string

	cmd := &cobra.Command{
		Use:   "pdf",
		Short: "Printable side-by-side plan and actual sheet for one day",
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := resolveDate(app, date)
			if err != nil {
				return err
			}
			if out == "" {
				out = fmt.Sprintf("lifesync-%s.pdf", day)
			}
			return withOutput(cmd, out, func(w io.Writer) error {
				return app.Export.PDF(context.Background(), day, w)
			})
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default: lifesync-DATE.pdf)")
	cmd.Flags().StringVarP(&date, "date", "d", "", "Day (YYYY-MM-DD, today, tomorrow, +N)")

	return cmd
}
