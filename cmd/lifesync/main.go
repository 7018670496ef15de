package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/alexanderramin/lifesync/internal/cli"
	"github.com/alexanderramin/lifesync/internal/config"
	"github.com/alexanderramin/lifesync/internal/db"
	"github.com/alexanderramin/lifesync/internal/logging"
	"github.com/alexanderramin/lifesync/internal/planner"
	"github.com/alexanderramin/lifesync/internal/repository"
	"github.com/alexanderramin/lifesync/internal/service"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	app := &cli.App{}

	// Detect interactive terminal for the board and the title prompt.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	var database *sql.DB
	defer func() {
		if database != nil {
			database.Close()
		}
	}()

	// Services are wired after flag parsing so --config, --db and the log
	// flags take effect.
	app.Setup = func(cmd *cobra.Command) error {
		loader := config.NewLoader()
		if err := loader.BindFlags(cmd.Root().PersistentFlags()); err != nil {
			return err
		}
		cfg, err := loader.Load()
		if err != nil {
			return err
		}
		app.Config = cfg

		logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Output: os.Stderr})
		log := logging.Component("main")
		if used := loader.ConfigFileUsed(); used != "" {
			log.Debug().Str("file", used).Msg("config loaded")
		}

		database, err = db.OpenDB(cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		log.Debug().Str("path", cfg.Database.Path).Msg("database open")

		// Wire repositories
		blockRepo := repository.NewSQLiteBlockRepo(database)
		goalRepo := repository.NewSQLiteGoalRepo(database)
		templateRepo := repository.NewSQLiteTemplateRepo(database)

		// Wire unit of work for transactional operations
		uow := db.NewSQLiteUnitOfWork(database)

		observer := service.NewLogUseCaseObserver(logging.Component("service"))
		core := planner.Config{
			Scale:       cfg.Scale(),
			PlanColor:   cfg.Defaults.PlanColor,
			ActualColor: cfg.Defaults.ActualColor,
		}

		app.Day = service.NewDayService(blockRepo, goalRepo, uow, core, observer)
		app.Templates = service.NewTemplateService(templateRepo, blockRepo, uow, core, observer)
		app.Goals = service.NewGoalService(goalRepo, uow, nil, nil)
		app.Export = service.NewExportService(blockRepo, goalRepo, templateRepo, nil, nil, observer)
		return nil
	}

	return cli.NewRootCmd(app).Execute()
}
