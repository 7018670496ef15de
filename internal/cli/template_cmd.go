package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alexanderramin/lifesync/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newTemplateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "template",
		Aliases: []string{"tpl"},
		Short:   "Save and reuse day plans",
	}

	cmd.AddCommand(
		newTemplateSaveCmd(app),
		newTemplateListCmd(app),
		newTemplateShowCmd(app),
		newTemplateLoadCmd(app),
		newTemplateDeleteCmd(app),
		newTemplateImportCmd(app),
		newTemplateExportCmd(app),
	)

	return cmd
}

func newTemplateSaveCmd(app *App) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "save NAME",
		Short: "Save a day's plan blocks as a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := resolveDate(app, date)
			if err != nil {
				return err
			}
			t, err := app.Templates.Save(context.Background(), args[0], day)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved template %q with %d blocks (%s)\n",
				t.Name, len(t.Blocks), formatter.TruncID(t.ID))
			return nil
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "", "Day to capture (YYYY-MM-DD, today, +N)")

	return cmd
}

func newTemplateListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			templates, err := app.Templates.List(context.Background())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTemplateList(templates))
			return nil
		},
	}
}

func newTemplateShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME",
		Short: "Show a template's blocks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := app.Templates.Get(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTemplateShow(t))
			return nil
		},
	}
}

func newTemplateLoadCmd(app *App) *cobra.Command {
	var date string
	var replace bool

	cmd := &cobra.Command{
		Use:   "load NAME",
		Short: "Stamp a template onto a day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := resolveDate(app, date)
			if err != nil {
				return err
			}
			batch, err := app.Templates.Load(context.Background(), args[0], day, replace)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Loaded %q onto %s: %s\n", args[0], day, formatter.FormatBatch(batch))
			return nil
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "", "Target day (YYYY-MM-DD, today, tomorrow, +N)")
	cmd.Flags().BoolVar(&replace, "replace", false, "Remove the day's plan blocks first")

	return cmd
}

func newTemplateDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "delete NAME",
		Aliases: []string{"rm"},
		Short:   "Delete a template",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Templates.Delete(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted template %q\n", args[0])
			return nil
		},
	}
}

func newTemplateImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import a template from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening template file: %w", err)
			}
			defer f.Close()

			t, err := app.Templates.ImportYAML(context.Background(), f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported template %q with %d blocks\n", t.Name, len(t.Blocks))
			return nil
		},
	}
}

func newTemplateExportCmd(app *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export NAME",
		Short: "Write a template as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withOutput(cmd, out, func(w io.Writer) error {
				return app.Templates.ExportYAML(context.Background(), args[0], w)
			})
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default: stdout)")

	return cmd
}
