package export

import (
	"fmt"
	"io"
	"sort"

	"github.com/go-pdf/fpdf"

	"github.com/alexanderramin/lifesync/internal/domain"
)

// WritePDF renders a one-day report: Plan and Actual timelines side by side
// in table form, followed by completion totals.
func WritePDF(w io.Writer, date string, blocks []domain.TimeBlock) error {
	var plan, actual []domain.TimeBlock
	for _, b := range blocks {
		if b.Date != date || !b.IsScheduled() {
			continue
		}
		if b.IsPlan() {
			plan = append(plan, b)
		} else {
			actual = append(actual, b)
		}
	}
	byStart := func(s []domain.TimeBlock) {
		sort.SliceStable(s, func(i, j int) bool { return s[i].StartTime < s[j].StartTime })
	}
	byStart(plan)
	byStart(actual)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Day report "+date, true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, tr(fmt.Sprintf("Day Report: %s", date)))
	pdf.Ln(12)

	section := func(title string, list []domain.TimeBlock) {
		pdf.SetFont("Arial", "B", 13)
		pdf.Cell(0, 9, tr(title))
		pdf.Ln(9)
		pdf.SetFont("Arial", "", 11)
		if len(list) == 0 {
			pdf.Cell(0, 7, "  - nothing recorded")
			pdf.Ln(8)
			return
		}
		for _, b := range list {
			r, g, bl := hexRGB(b.Color)
			pdf.SetFillColor(r, g, bl)
			pdf.Rect(pdf.GetX(), pdf.GetY()+1.5, 3, 4, "F")
			pdf.SetX(pdf.GetX() + 5)
			span := fmt.Sprintf("%s-%s", domain.FormatClock(b.StartTime), domain.FormatClock(b.End()))
			pdf.CellFormat(28, 7, span, "", 0, "L", false, 0, "")
			pdf.CellFormat(18, 7, statusMark(b), "", 0, "L", false, 0, "")
			pdf.MultiCell(0, 7, tr(b.Title), "", "L", false)
		}
		pdf.Ln(4)
	}
	section("Plan", plan)
	section("Actual", actual)

	var done, failed, planned int
	for _, b := range plan {
		planned += b.Duration
		switch b.Status {
		case domain.StatusCompleted:
			done++
		case domain.StatusFailed:
			failed++
		}
	}
	logged := 0
	for _, b := range actual {
		logged += b.Duration
	}

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Plan blocks: %d completed, %d failed, %d open", done, failed, len(plan)-done-failed))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Planned %s, logged %s", formatMinutes(planned), formatMinutes(logged)))
	pdf.Ln(7)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("rendering pdf: %w", err)
	}
	return nil
}

func statusMark(b domain.TimeBlock) string {
	switch b.Status {
	case domain.StatusCompleted:
		return "[x]"
	case domain.StatusFailed:
		return "[!]"
	}
	return "[ ]"
}

// hexRGB parses "#rrggbb", falling back to a neutral grey.
func hexRGB(s string) (int, int, int) {
	var r, g, b int
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return 160, 160, 160
	}
	return r, g, b
}

func formatMinutes(m int) string {
	if m < 60 {
		return fmt.Sprintf("%dm", m)
	}
	if m%60 == 0 {
		return fmt.Sprintf("%dh", m/60)
	}
	return fmt.Sprintf("%dh%02dm", m/60, m%60)
}
