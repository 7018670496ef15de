package formatter

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

const colGap = 2

// RenderTable lays rows out under headers with a dim rule beneath the
// header row. Short rows are padded with empty cells.
func RenderTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}
	padded := make([][]string, len(rows))
	for i, row := range rows {
		padded[i] = make([]string, len(headers))
		copy(padded[i], row)
	}

	cell := lipgloss.NewStyle().PaddingRight(colGap)
	head := StyleHeader.PaddingRight(colGap)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(StyleDim).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		BorderRow(false).
		BorderHeader(true).
		Headers(headers...).
		Rows(padded...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return head
			}
			return cell
		})
	return t.String() + "\n"
}
