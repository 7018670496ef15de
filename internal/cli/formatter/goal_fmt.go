package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/lifesync/internal/domain"
)

// FormatGoalList renders goals with their milestones indented below.
func FormatGoalList(goals []*domain.Goal) string {
	if len(goals) == 0 {
		return RenderBox("Goals", Dim("No goals yet."))
	}
	var b strings.Builder
	for i, g := range goals {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(fmt.Sprintf("%s %s  %s  %s\n",
			Swatch(g.Color), Bold(g.Title), Dim(g.UnitName), TruncID(g.ID)))
		for _, m := range g.Milestones {
			target := ""
			if m.TotalUnits > 0 {
				target = fmt.Sprintf("%d %s", m.TotalUnits, m.UnitName)
			}
			b.WriteString(fmt.Sprintf("    %s %s  %s  %s\n",
				StyleDim.Render("•"), m.Title, Dim(target),
				Dim(FormatMinutes(g.DropDuration(&m)))))
		}
	}
	return RenderBox("Goals", b.String())
}
