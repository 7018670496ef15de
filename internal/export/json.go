// Package export renders blocks, goals and templates into portable formats:
// a JSON backup, CSV sheets, an iCalendar feed and a printable PDF day.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/alexanderramin/lifesync/internal/domain"
)

// FormatVersion is bumped whenever the backup layout changes.
const FormatVersion = "1"

// Backup is the full-data JSON document.
type Backup struct {
	Version    string               `json:"version"`
	ExportedAt time.Time            `json:"exportDate"`
	Blocks     []domain.TimeBlock   `json:"tasks"`
	Goals      []*domain.Goal       `json:"goals"`
	Templates  []*domain.DayTemplate `json:"templates"`
}

// WriteJSON writes b as indented JSON. Nil slices are written as [].
func WriteJSON(w io.Writer, b Backup) error {
	if b.Version == "" {
		b.Version = FormatVersion
	}
	if b.Blocks == nil {
		b.Blocks = []domain.TimeBlock{}
	}
	if b.Goals == nil {
		b.Goals = []*domain.Goal{}
	}
	if b.Templates == nil {
		b.Templates = []*domain.DayTemplate{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("encoding backup: %w", err)
	}
	return nil
}
