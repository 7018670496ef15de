package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/lifesync/internal/domain"
)

// FormatTemplateList renders saved day templates inside a bordered box.
func FormatTemplateList(templates []*domain.DayTemplate) string {
	if len(templates) == 0 {
		return RenderBox("Templates", Dim("No templates saved."))
	}
	headers := []string{"NAME", "BLOCKS", "PLANNED", "ID"}
	rows := make([][]string, 0, len(templates))
	for _, t := range templates {
		total := 0
		for _, b := range t.Blocks {
			total += b.Duration
		}
		rows = append(rows, []string{
			Bold(t.Name),
			fmt.Sprintf("%d", len(t.Blocks)),
			FormatMinutes(total),
			TruncID(t.ID),
		})
	}
	return RenderBox("Templates", RenderTable(headers, rows))
}

// FormatTemplateShow renders a template's blocks in start order.
func FormatTemplateShow(t *domain.DayTemplate) string {
	var b strings.Builder
	b.WriteString(StyleBold.Render(t.Name) + "\n\n")
	for _, tb := range t.Blocks {
		b.WriteString(fmt.Sprintf("  %s  %s-%s  %s\n",
			Swatch(tb.Color),
			domain.FormatClock(tb.StartTime),
			domain.FormatClock(tb.StartTime+tb.Duration),
			tb.Title,
		))
	}
	return RenderBox("", b.String())
}
