package domain

import "time"

// DayTemplate is a reusable set of Plan blocks that can be stamped onto any
// day.
type DayTemplate struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Blocks    []TemplateBlock `json:"blocks"`
	CreatedAt time.Time       `json:"createdAt"`
}

// TemplateBlock is a TimeBlock stripped of identity, day and timestamps.
type TemplateBlock struct {
	Title       string    `json:"title"`
	StartTime   int       `json:"startTime"`
	Duration    int       `json:"duration"`
	Column      Column    `json:"type"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color,omitempty"`
	Origin      Origin    `json:"origin,omitempty"`
	GoalID      string    `json:"goalId,omitempty"`
	MilestoneID string    `json:"milestoneId,omitempty"`
	TimeValue   TimeValue `json:"timeValue,omitempty"`
	Priority    Priority  `json:"priority,omitempty"`
}

// TemplateBlockFrom captures the reusable part of b.
func TemplateBlockFrom(b TimeBlock) TemplateBlock {
	return TemplateBlock{
		Title:       b.Title,
		StartTime:   b.StartTime,
		Duration:    b.Duration,
		Column:      b.Column,
		Description: b.Description,
		Color:       b.Color,
		Origin:      b.Origin,
		GoalID:      b.GoalID,
		MilestoneID: b.MilestoneID,
		TimeValue:   b.TimeValue,
		Priority:    b.Priority,
	}
}

// Instantiate builds a Todo block on date from the template entry.
func (t TemplateBlock) Instantiate(id, date string, now time.Time) TimeBlock {
	column := t.Column
	if column == "" {
		column = ColumnPlan
	}
	return TimeBlock{
		ID:          id,
		Title:       t.Title,
		Date:        date,
		StartTime:   t.StartTime,
		Duration:    t.Duration,
		Column:      column,
		Status:      StatusTodo,
		Description: t.Description,
		Color:       t.Color,
		Origin:      CoalesceOrigin(t.Origin, OriginUser),
		GoalID:      t.GoalID,
		MilestoneID: t.MilestoneID,
		TimeValue:   t.TimeValue,
		Priority:    t.Priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
