package cli

import (
	"time"

	"github.com/alexanderramin/lifesync/internal/config"
	"github.com/alexanderramin/lifesync/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Day       service.DayService
	Templates service.TemplateService
	Goals     service.GoalService
	Export    service.ExportService

	Config *config.Config

	// Now resolves "today" for date flags. Defaults to time.Now.
	Now func() time.Time

	// IsInteractive reports whether stdin is a terminal. The board and the
	// title editor refuse to start without one.
	IsInteractive func() bool

	// Setup runs before any subcommand, after flags are parsed. main uses it
	// to load config, open the database and fill in the services.
	Setup func(cmd *cobra.Command) error
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "lifesync" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "lifesync",
		Short:         "Plan your day, then log what actually happened",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.Setup == nil {
				return nil
			}
			return app.Setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "Config file (default: ~/.config/lifesync/config.yaml)")
	pf.String("db", "", "SQLite database path")
	pf.String("log-level", "", "Log level (trace, debug, info, warn, error)")
	pf.Bool("log-json", false, "Write logs as JSON")

	root.AddCommand(
		newBlockCmd(app),
		newLayoutCmd(app),
		newBoardCmd(app),
		newTemplateCmd(app),
		newGoalCmd(app),
		newDeviceCmd(app),
		newExportCmd(app),
	)

	return root
}
