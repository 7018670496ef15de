package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/lifesync/internal/domain"
	"github.com/alexanderramin/lifesync/internal/service"
)

// FormatDay renders a day's blocks grouped by timeline, with a plan
// completion bar.
func FormatDay(date string, blocks []domain.TimeBlock) string {
	if len(blocks) == 0 {
		return RenderBox(date, Dim("Nothing planned or logged."))
	}

	var plans, actuals []domain.TimeBlock
	for _, b := range blocks {
		if b.IsPlan() {
			plans = append(plans, b)
		} else {
			actuals = append(actuals, b)
		}
	}

	var sb strings.Builder
	if len(plans) > 0 {
		sb.WriteString(Header("Plan") + "\n")
		sb.WriteString(blockTable(plans))
		done := 0
		for _, p := range plans {
			if p.Status == domain.StatusCompleted {
				done++
			}
		}
		sb.WriteString(fmt.Sprintf("%s %d/%d done\n", RenderDone(done, len(plans), 20), done, len(plans)))
	}
	if len(actuals) > 0 {
		if len(plans) > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(Header("Actual") + "\n")
		sb.WriteString(blockTable(actuals))
		logged := 0
		for _, a := range actuals {
			logged += a.Duration
		}
		sb.WriteString(Dim("logged "+FormatMinutes(logged)) + "\n")
	}
	return RenderBox(date, sb.String())
}

// FormatBacklog renders unscheduled blocks.
func FormatBacklog(blocks []domain.TimeBlock) string {
	if len(blocks) == 0 {
		return RenderBox("Backlog", Dim("Backlog is empty."))
	}
	return RenderBox("Backlog", blockTable(blocks))
}

func blockTable(blocks []domain.TimeBlock) string {
	headers := []string{"ID", "TIME", "DUR", "", "STATUS", "TITLE"}
	rows := make([][]string, 0, len(blocks))
	for _, b := range blocks {
		title := Truncate(b.Title, 40)
		if b.RelatedPlanID != "" {
			title += Dim(" ↳ " + TruncID(b.RelatedPlanID))
		}
		if b.DeviceSource != domain.DeviceNone {
			title += Dim(" [" + string(b.DeviceSource) + "]")
		}
		rows = append(rows, []string{
			TruncID(b.ID),
			Span(b),
			FormatMinutes(b.Duration),
			Swatch(b.Color),
			StatusIndicator(b.Status),
			title,
		})
	}
	return RenderTable(headers, rows)
}

// FormatBlock renders one block's details.
func FormatBlock(b domain.TimeBlock) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s  %s  %s\n\n", Bold(b.Title), ColumnBadge(b.Column), StatusIndicator(b.Status)))
	field := func(label, value string) {
		if value == "" {
			return
		}
		sb.WriteString(fmt.Sprintf("  %s  %s\n", StyleDim.Render(fmt.Sprintf("%-9s", label)), value))
	}
	field("ID", b.ID)
	field("DATE", b.Date)
	field("TIME", Span(b))
	field("DURATION", FormatMinutes(b.Duration))
	field("COLOR", b.Color)
	field("NOTES", b.Description)
	field("GOAL", b.GoalID)
	field("MILESTONE", b.MilestoneID)
	field("LINKED TO", b.RelatedPlanID)
	field("DEVICE", string(b.DeviceSource))
	field("VALUE", string(b.TimeValue))
	field("PRIORITY", string(b.Priority))
	return RenderBox("", sb.String())
}

// FormatBatch summarizes what a mutation changed.
func FormatBatch(batch domain.MutationBatch) string {
	var parts []string
	if n := len(batch.Creates); n > 0 {
		parts = append(parts, StyleGreen.Render(fmt.Sprintf("+%d created", n)))
	}
	if n := len(batch.Updates); n > 0 {
		parts = append(parts, StyleYellow.Render(fmt.Sprintf("~%d updated", n)))
	}
	if n := len(batch.Deletes); n > 0 {
		parts = append(parts, StyleRed.Render(fmt.Sprintf("-%d deleted", n)))
	}
	if len(parts) == 0 {
		return Dim("no changes")
	}
	return strings.Join(parts, "  ")
}

// FormatLayout renders lane assignments for one timeline.
func FormatLayout(date string, column domain.Column, placements []service.Placement) string {
	if len(placements) == 0 {
		return RenderBox(fmt.Sprintf("%s %s", date, column), Dim("No blocks."))
	}
	headers := []string{"ID", "TIME", "LANE", "WIDTH", "OFFSET", "TITLE"}
	rows := make([][]string, 0, len(placements))
	for _, p := range placements {
		rows = append(rows, []string{
			TruncID(p.Block.ID),
			Span(p.Block),
			fmt.Sprintf("%d/%d", p.Slot.Lane+1, p.Slot.LaneCount),
			fmt.Sprintf("%.1f%%", p.Slot.WidthPct()),
			fmt.Sprintf("%.1f%%", p.Slot.OffsetPct()),
			Truncate(p.Block.Title, 40),
		})
	}
	return RenderBox(fmt.Sprintf("%s %s", date, column), RenderTable(headers, rows))
}
