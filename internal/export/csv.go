package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/alexanderramin/lifesync/internal/domain"
)

// utf8BOM lets spreadsheet apps detect the encoding of non-ASCII titles.
const utf8BOM = "\ufeff"

var blockHeader = []string{
	"ID", "Title", "Date", "Start Time", "Duration (min)", "Type", "Status",
	"Color", "Goal ID", "Related Plan ID", "Description",
}

var goalHeader = []string{
	"ID", "Title", "Unit Name", "Color", "Milestones", "Created At", "Updated At",
}

// WriteBlocksCSV writes one row per block.
func WriteBlocksCSV(w io.Writer, blocks []domain.TimeBlock) error {
	return writeCSV(w, blockHeader, len(blocks), func(i int) []string {
		b := blocks[i]
		return []string{
			b.ID,
			b.Title,
			b.Date,
			domain.FormatClock(b.StartTime),
			strconv.Itoa(b.Duration),
			string(b.Column),
			string(b.Status),
			domain.CoalesceStr(b.Color, "#6366f1"),
			b.GoalID,
			b.RelatedPlanID,
			b.Description,
		}
	})
}

// WriteGoalsCSV writes one row per goal.
func WriteGoalsCSV(w io.Writer, goals []*domain.Goal) error {
	return writeCSV(w, goalHeader, len(goals), func(i int) []string {
		g := goals[i]
		return []string{
			g.ID,
			g.Title,
			domain.CoalesceStr(g.UnitName, "Session"),
			g.Color,
			strconv.Itoa(len(g.Milestones)),
			g.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
			g.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		}
	})
}

func writeCSV(w io.Writer, header []string, n int, row func(int) []string) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for i := 0; i < n; i++ {
		if err := cw.Write(row(i)); err != nil {
			return fmt.Errorf("writing csv row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}
