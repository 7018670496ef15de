// Package relation keeps Actual blocks consistent with the Plan blocks that
// spawned them. Every entry point is pure: it reads the current collection
// and returns the MutationBatch the caller must apply.
package relation

import (
	"strings"
	"time"

	"github.com/alexanderramin/lifesync/internal/domain"
	"github.com/google/uuid"
)

const (
	ResultPrefix     = "res_"
	ReflectionPrefix = "fail_"

	ReflectionTitle       = "[Unplanned]"
	ReflectionDescription = "What happened instead?"
	ReflectionColor       = "#ef4444"
)

// IDGenerator hands out fresh block ids.
type IDGenerator interface {
	NewID() string
}

// Clock is the wall-clock source used for UpdatedAt bookkeeping.
type Clock interface {
	Now() time.Time
}

// UUIDGenerator produces random UUIDv4 strings.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string { return uuid.New().String() }

// SystemClock reads time.Now in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// Manager derives linked-block mutations from Plan block changes.
type Manager struct {
	IDs   IDGenerator
	Clock Clock
}

// NewManager falls back to UUIDGenerator and SystemClock for nil
// collaborators.
func NewManager(ids IDGenerator, clock Clock) *Manager {
	if ids == nil {
		ids = UUIDGenerator{}
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &Manager{IDs: ids, Clock: clock}
}

// ApplyStatusTransition sets plan's status to newStatus and returns the
// batch that keeps its linked blocks consistent:
//
//	-> completed  synthesize one linked Actual unless one already exists
//	-> failed     delete every linked block, then add one reflection entry
//	-> todo       delete every linked block
//
// The batch always carries the updated plan itself. Non-plan blocks only
// get their status changed.
func (m *Manager) ApplyStatusTransition(plan domain.TimeBlock, newStatus domain.BlockStatus, all []domain.TimeBlock) domain.MutationBatch {
	now := m.Clock.Now()

	updated := plan
	updated.Status = newStatus
	updated.UpdatedAt = now
	batch := domain.MutationBatch{Updates: []domain.TimeBlock{updated}}

	if !plan.IsPlan() {
		return batch
	}

	linked := domain.RelatedTo(all, plan.ID)

	switch newStatus {
	case domain.StatusCompleted:
		if len(linked) > 0 {
			return batch
		}
		batch.Creates = append(batch.Creates, m.result(updated, now))

	case domain.StatusFailed:
		batch.Deletes = append(batch.Deletes, ids(linked)...)
		batch.Creates = append(batch.Creates, m.reflection(updated, now))

	case domain.StatusTodo:
		batch.Deletes = append(batch.Deletes, ids(linked)...)
	}
	return batch
}

// PropagateEdit copies title, color, goal and milestone from an edited
// Plan block to every block linked to it. It returns an empty batch when
// none of those fields changed. Time is never propagated: a linked Actual
// records what happened, not what was planned. A reflection keeps an empty
// goal and milestone.
func (m *Manager) PropagateEdit(prev, next domain.TimeBlock, all []domain.TimeBlock) domain.MutationBatch {
	if !next.IsPlan() {
		return domain.MutationBatch{}
	}
	if prev.Title == next.Title && prev.Color == next.Color &&
		prev.GoalID == next.GoalID && prev.MilestoneID == next.MilestoneID {
		return domain.MutationBatch{}
	}

	now := m.Clock.Now()
	var batch domain.MutationBatch
	for _, b := range domain.RelatedTo(all, next.ID) {
		b.Title = next.Title
		b.Color = next.Color
		if !IsReflection(b) {
			b.GoalID = next.GoalID
			b.MilestoneID = next.MilestoneID
		}
		b.UpdatedAt = now
		batch.Updates = append(batch.Updates, b)
	}
	return batch
}

// DeleteBlock removes id together with every block linked to it.
func (m *Manager) DeleteBlock(id string, all []domain.TimeBlock) domain.MutationBatch {
	batch := domain.MutationBatch{Deletes: []string{id}}
	batch.Deletes = append(batch.Deletes, ids(domain.RelatedTo(all, id))...)
	return batch
}

func (m *Manager) result(plan domain.TimeBlock, now time.Time) domain.TimeBlock {
	return domain.TimeBlock{
		ID:            ResultPrefix + m.IDs.NewID(),
		Title:         plan.Title,
		Date:          plan.Date,
		StartTime:     plan.StartTime,
		Duration:      plan.Duration,
		Column:        domain.ColumnActual,
		Status:        domain.StatusCompleted,
		Description:   "Result of: " + plan.Title,
		Color:         plan.Color,
		Origin:        domain.OriginUser,
		GoalID:        plan.GoalID,
		MilestoneID:   plan.MilestoneID,
		RelatedPlanID: plan.ID,
		TimeValue:     plan.TimeValue,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// IsReflection reports whether b is the entry a failed plan leaves on the
// actual timeline.
func IsReflection(b domain.TimeBlock) bool {
	return b.RelatedPlanID != "" && strings.HasPrefix(b.ID, ReflectionPrefix)
}

// reflection carries no goal or milestone: failing a goal plan must not
// credit the milestone.
func (m *Manager) reflection(plan domain.TimeBlock, now time.Time) domain.TimeBlock {
	return domain.TimeBlock{
		ID:            ReflectionPrefix + m.IDs.NewID(),
		Title:         ReflectionTitle,
		Date:          plan.Date,
		StartTime:     plan.StartTime,
		Duration:      plan.Duration,
		Column:        domain.ColumnActual,
		Status:        domain.StatusCompleted,
		Description:   ReflectionDescription,
		Color:         ReflectionColor,
		Origin:        domain.OriginUser,
		RelatedPlanID: plan.ID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func ids(blocks []domain.TimeBlock) []string {
	out := make([]string, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, b.ID)
	}
	return out
}
