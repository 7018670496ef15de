package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/lifesync/internal/cli/formatter"
	"github.com/alexanderramin/lifesync/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// lifesyncHuhTheme returns a custom huh theme using the Gruvbox palette.
func lifesyncHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// blockEditorForm edits the descriptive fields of a freshly created block.
// The board opens it after a tap.
func blockEditorForm(title, notes, status *string, column domain.Column) *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("Title").
			Placeholder("What is this block for?").
			Value(title).
			Validate(validateTitle),
		huh.NewText().
			Title("Notes").
			Lines(3).
			Value(notes),
	}
	if column == domain.ColumnPlan {
		fields = append(fields, huh.NewSelect[string]().
			Title("Status").
			Options(
				huh.NewOption("To do", string(domain.StatusTodo)),
				huh.NewOption("Done", string(domain.StatusCompleted)),
				huh.NewOption("Failed", string(domain.StatusFailed)),
			).
			Value(status))
	}
	return huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(lifesyncHuhTheme()).
		WithShowHelp(false)
}

func validateTitle(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("title is required")
	}
	return nil
}

// validatePositiveInt accepts empty or a positive integer.
func validatePositiveInt(s string) error {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return fmt.Errorf("enter a positive number")
	}
	return nil
}

// validateOptionalClock accepts empty or HH:MM.
func validateOptionalClock(s string) error {
	if s == "" {
		return nil
	}
	_, err := parseClock(s)
	return err
}
