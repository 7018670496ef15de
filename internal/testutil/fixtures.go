package testutil

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/lifesync/internal/domain"
	"github.com/google/uuid"
)

// TestDay is the calendar day fixtures land on unless overridden.
const TestDay = "2025-06-15"

// Block options
type BlockOption func(*domain.TimeBlock)

func WithID(id string) BlockOption {
	return func(b *domain.TimeBlock) {
		b.ID = id
	}
}

func WithDate(d string) BlockOption {
	return func(b *domain.TimeBlock) {
		b.Date = d
	}
}

func WithSpan(start, duration int) BlockOption {
	return func(b *domain.TimeBlock) {
		b.StartTime = start
		b.Duration = duration
	}
}

func WithColumn(c domain.Column) BlockOption {
	return func(b *domain.TimeBlock) {
		b.Column = c
		b.Status = domain.DefaultStatus(c)
	}
}

func WithStatus(s domain.BlockStatus) BlockOption {
	return func(b *domain.TimeBlock) {
		b.Status = s
	}
}

func WithColor(c string) BlockOption {
	return func(b *domain.TimeBlock) {
		b.Color = c
	}
}

func WithRelatedPlan(id string) BlockOption {
	return func(b *domain.TimeBlock) {
		b.RelatedPlanID = id
	}
}

func WithGoal(goalID, milestoneID string) BlockOption {
	return func(b *domain.TimeBlock) {
		b.GoalID = goalID
		b.MilestoneID = milestoneID
	}
}

func Unscheduled() BlockOption {
	return func(b *domain.TimeBlock) {
		b.StartTime = domain.Unscheduled
	}
}

// NewTestBlock builds a 09:00-10:00 Todo Plan block on TestDay.
func NewTestBlock(title string, opts ...BlockOption) domain.TimeBlock {
	now := time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC)
	b := domain.TimeBlock{
		ID:        uuid.New().String(),
		Title:     title,
		Date:      TestDay,
		StartTime: 540,
		Duration:  60,
		Column:    domain.ColumnPlan,
		Status:    domain.StatusTodo,
		Color:     "#6366f1",
		Origin:    domain.OriginUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// Goal options
type GoalOption func(*domain.Goal)

func WithUnit(unit string) GoalOption {
	return func(g *domain.Goal) {
		g.UnitName = unit
	}
}

func WithMilestone(title, unit string, total int) GoalOption {
	return func(g *domain.Goal) {
		g.Milestones = append(g.Milestones, domain.Milestone{
			ID:         uuid.New().String(),
			GoalID:     g.ID,
			Title:      title,
			UnitName:   unit,
			TotalUnits: total,
		})
	}
}

func NewTestGoal(title string, opts ...GoalOption) *domain.Goal {
	now := time.Now().UTC()
	g := &domain.Goal{
		ID:        uuid.New().String(),
		Title:     title,
		UnitName:  "session",
		Color:     "#10b981",
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func NewTestTemplate(name string, blocks ...domain.TimeBlock) *domain.DayTemplate {
	t := &domain.DayTemplate{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	for _, b := range blocks {
		t.Blocks = append(t.Blocks, domain.TemplateBlockFrom(b))
	}
	return t
}

// SeqIDs generates "id-1", "id-2", ... so tests can predict synthesized ids.
type SeqIDs struct {
	Prefix string
	n      atomic.Int64
}

func (s *SeqIDs) NewID() string {
	prefix := s.Prefix
	if prefix == "" {
		prefix = "id"
	}
	return fmt.Sprintf("%s-%d", prefix, s.n.Add(1))
}

// FakeClock returns a settable fixed time.
type FakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{t: t}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}
