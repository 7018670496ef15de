package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newBoardCmd(app *App) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Interactive plan and actual timelines, side by side",
		Long: "Open the day board. Drag on an empty timeline to add a block, " +
			"drag a block to move it, drag its first or last row to resize it " +
			"(shift-drag always resizes the end). A click without dragging adds " +
			"a 30 minute block and opens the editor.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return fmt.Errorf("board needs an interactive terminal; use 'block list' instead")
			}
			day, err := resolveDate(app, date)
			if err != nil {
				return err
			}
			p := tea.NewProgram(newBoardModel(app, day), tea.WithAltScreen(), tea.WithMouseCellMotion())
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "", "Day (YYYY-MM-DD, today, tomorrow, +N)")

	return cmd
}
