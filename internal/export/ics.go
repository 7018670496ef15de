package export

import (
	"fmt"
	"io"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/alexanderramin/lifesync/internal/domain"
)

const productID = "-//lifesync//day planner//EN"

// WriteICS writes scheduled blocks as VEVENTs. Day-relative minutes are
// resolved in loc; backlog entries are skipped.
func WriteICS(w io.Writer, blocks []domain.TimeBlock, loc *time.Location, now time.Time) error {
	if loc == nil {
		loc = time.Local
	}
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	for _, b := range blocks {
		if !b.IsScheduled() {
			continue
		}
		start, err := BlockStart(b, loc)
		if err != nil {
			return err
		}

		ev := cal.AddEvent(b.ID + "@lifesync")
		ev.SetDtStampTime(now)
		ev.SetCreatedTime(b.CreatedAt)
		ev.SetModifiedAt(b.UpdatedAt)
		ev.SetStartAt(start)
		ev.SetEndAt(start.Add(time.Duration(b.Duration) * time.Minute))
		ev.SetSummary(b.Title)
		if b.Description != "" {
			ev.SetDescription(b.Description)
		}
		ev.SetProperty(ical.ComponentPropertyCategories, string(b.Column))
		ev.SetStatus(eventStatus(b))
	}

	if _, err := io.WriteString(w, cal.Serialize()); err != nil {
		return fmt.Errorf("writing calendar: %w", err)
	}
	return nil
}

// BlockStart resolves a block's day and start minute to an instant in loc.
func BlockStart(b domain.TimeBlock, loc *time.Location) (time.Time, error) {
	day, err := time.ParseInLocation(domain.DateLayout, b.Date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("block %s: %w", b.ID, err)
	}
	return day.Add(time.Duration(b.StartTime) * time.Minute), nil
}

func eventStatus(b domain.TimeBlock) ical.ObjectStatus {
	switch {
	case b.Status == domain.StatusFailed:
		return ical.ObjectStatusCancelled
	case b.IsPlan() && b.Status == domain.StatusTodo:
		return ical.ObjectStatusTentative
	default:
		return ical.ObjectStatusConfirmed
	}
}
