package domain

import (
	"errors"
	"fmt"
	"time"
)

const (
	// MinutesPerDay bounds every scheduled block: start+duration <= 1440.
	MinutesPerDay = 1440
	// MinBlockMinutes is the floor for any block placed on a timeline.
	MinBlockMinutes = 15
	// Unscheduled marks a block that lives in the backlog.
	Unscheduled = -1
	// DefaultTapMinutes is the length of a block created by a tap.
	DefaultTapMinutes = 30
	// DefaultDropMinutes is used when a drop source carries no duration.
	DefaultDropMinutes = 60

	// DateLayout is the canonical calendar-day format.
	DateLayout = "2006-01-02"
)

var (
	ErrInvalidBlock = errors.New("invalid time block")
	ErrNotPlanBlock = errors.New("not a plan block")
)

// TimeBlock is a single interval on the Plan or Actual timeline of one day,
// or an unscheduled backlog entry.
type TimeBlock struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Date        string      `json:"date"`
	StartTime   int         `json:"startTime"`
	Duration    int         `json:"duration"`
	Column      Column      `json:"type"`
	Status      BlockStatus `json:"status"`
	Description string      `json:"description,omitempty"`
	Color       string      `json:"color,omitempty"`

	DeviceSource DeviceSource `json:"deviceSource,omitempty"`
	Origin       Origin       `json:"origin,omitempty"`
	GoalID       string       `json:"goalId,omitempty"`
	MilestoneID  string       `json:"milestoneId,omitempty"`

	// RelatedPlanID is set on Actual/DeviceLog blocks spawned by a Plan
	// block's status transition.
	RelatedPlanID string `json:"relatedPlanId,omitempty"`

	TimeValue TimeValue `json:"timeValue,omitempty"`
	Priority  Priority  `json:"priority,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// End returns the exclusive end minute.
func (b *TimeBlock) End() int {
	return b.StartTime + b.Duration
}

func (b *TimeBlock) IsScheduled() bool {
	return b.StartTime != Unscheduled
}

func (b *TimeBlock) IsPlan() bool {
	return b.Column == ColumnPlan
}

func (b *TimeBlock) IsActualLike() bool {
	return b.Column.ActualLike()
}

// Overlaps reports whether the half-open intervals [start, end) intersect.
func (b *TimeBlock) Overlaps(other *TimeBlock) bool {
	return b.StartTime < other.End() && other.StartTime < b.End()
}

// Validate checks the structural invariants every stored block satisfies.
func (b *TimeBlock) Validate() error {
	if b.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %d", ErrInvalidBlock, b.Duration)
	}
	if !ValidColumns[b.Column] {
		return fmt.Errorf("%w: unknown column %q", ErrInvalidBlock, b.Column)
	}
	if !ValidStatuses[b.Status] {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidBlock, b.Status)
	}
	if b.IsScheduled() {
		if _, err := time.Parse(DateLayout, b.Date); err != nil {
			return fmt.Errorf("%w: bad date %q", ErrInvalidBlock, b.Date)
		}
		if b.StartTime < 0 || b.StartTime >= MinutesPerDay {
			return fmt.Errorf("%w: start %d outside the day", ErrInvalidBlock, b.StartTime)
		}
		if b.End() > MinutesPerDay {
			return fmt.Errorf("%w: block ends at %d, past midnight", ErrInvalidBlock, b.End())
		}
	}
	return nil
}

// DefaultStatus is the status a freshly created block gets in the column.
func DefaultStatus(c Column) BlockStatus {
	if c == ColumnPlan {
		return StatusTodo
	}
	return StatusCompleted
}

// FitDay clamps start and duration so the interval lies inside the day with
// at least MinBlockMinutes. Duration wins over start when both cannot hold.
func FitDay(start, duration int) (int, int) {
	if duration < MinBlockMinutes {
		duration = MinBlockMinutes
	}
	if duration > MinutesPerDay {
		duration = MinutesPerDay
	}
	if start < 0 {
		start = 0
	}
	if start+duration > MinutesPerDay {
		start = MinutesPerDay - duration
	}
	return start, duration
}

// DateOf formats t as a calendar day in t's location.
func DateOf(t time.Time) string {
	return t.Format(DateLayout)
}

// ValidateDate reports whether s is a YYYY-MM-DD day.
func ValidateDate(s string) error {
	if _, err := time.Parse(DateLayout, s); err != nil {
		return fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return nil
}
