package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/lifesync/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// StatusColor returns the style a block status is rendered in.
func StatusColor(status domain.BlockStatus) lipgloss.Style {
	switch status {
	case domain.StatusCompleted:
		return StyleGreen
	case domain.StatusFailed:
		return StyleRed
	default:
		return StyleYellow
	}
}

// StatusIndicator returns a colored marker such as "✔ done".
func StatusIndicator(status domain.BlockStatus) string {
	switch status {
	case domain.StatusCompleted:
		return StyleGreen.Render("✔ done")
	case domain.StatusFailed:
		return StyleRed.Render("✖ failed")
	case domain.StatusTodo:
		return StyleYellow.Render("○ todo")
	default:
		return StyleDim.Render(string(status))
	}
}

// ColumnBadge labels the timeline a block lives on.
func ColumnBadge(c domain.Column) string {
	switch c {
	case domain.ColumnPlan:
		return StyleBlue.Render("plan")
	case domain.ColumnActual:
		return StylePurple.Render("actual")
	case domain.ColumnDeviceLog:
		return StyleDim.Render("device")
	default:
		return StyleDim.Render(string(c))
	}
}

// Swatch renders a small block in the given hex color.
func Swatch(hex string) string {
	if hex == "" {
		return " "
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("■")
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
