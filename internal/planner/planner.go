// Package planner is the entry point to the scheduling core for one selected
// day. It owns the single gesture slot and turns gesture outcomes, drops and
// edits into MutationIntents and MutationBatches. It never stores blocks:
// every call receives the caller's current collection.
package planner

import (
	"sort"
	"time"

	"github.com/alexanderramin/lifesync/internal/domain"
	"github.com/alexanderramin/lifesync/internal/gesture"
	"github.com/alexanderramin/lifesync/internal/layout"
	"github.com/alexanderramin/lifesync/internal/relation"
)

const (
	DefaultTitle       = "New Task"
	DefaultPlanColor   = "#6366f1"
	DefaultActualColor = "#3b82f6"

	// DropSnapMinutes is the grid drops from the backlog or goal list land on.
	DropSnapMinutes = 15
)

// Config carries the collaborators the core consumes.
type Config struct {
	Day         string
	IDs         relation.IDGenerator
	Clock       relation.Clock
	Scale       gesture.Scale
	PlanColor   string
	ActualColor string
}

// GestureRequest describes a pointer-down. BlockID is required for edits
// and ignored for Create.
type GestureRequest struct {
	Kind    gesture.Kind
	BlockID string
	Column  domain.Column
	Pointer gesture.Pointer
}

type Planner struct {
	cfg Config
	rel *relation.Manager

	active *gesture.Handle
	// target is the block being moved or resized by active.
	target domain.TimeBlock
}

func New(cfg Config) *Planner {
	rel := relation.NewManager(cfg.IDs, cfg.Clock)
	cfg.IDs, cfg.Clock = rel.IDs, rel.Clock
	if cfg.Scale.PixelsPerMinute <= 0 {
		cfg.Scale = gesture.DefaultScale()
	}
	cfg.PlanColor = domain.CoalesceStr(cfg.PlanColor, DefaultPlanColor)
	cfg.ActualColor = domain.CoalesceStr(cfg.ActualColor, DefaultActualColor)
	if cfg.Day == "" {
		cfg.Day = domain.DateOf(cfg.Clock.Now())
	}
	return &Planner{cfg: cfg, rel: rel}
}

func (p *Planner) Day() string { return p.cfg.Day }

func (p *Planner) Scale() gesture.Scale { return p.cfg.Scale }

// SetDay switches the selected day. An active gesture is abandoned without
// a commit.
func (p *Planner) SetDay(day string) {
	p.cfg.Day = day
	p.active = nil
}

// Relations exposes the relation manager for callers that post-process
// their own updates.
func (p *Planner) Relations() *relation.Manager { return p.rel }

// OnDay returns the blocks of the selected day, preserving order.
func (p *Planner) OnDay(blocks []domain.TimeBlock) []domain.TimeBlock {
	var out []domain.TimeBlock
	for _, b := range blocks {
		if b.Date == p.cfg.Day && b.IsScheduled() {
			out = append(out, b)
		}
	}
	return out
}

// ComputeLayout assigns lanes to the selected day's blocks in column.
func (p *Planner) ComputeLayout(blocks []domain.TimeBlock, column domain.Column) layout.Assignment {
	return layout.Compute(p.OnDay(blocks), column)
}

// BeginGesture starts a gesture and occupies the slot. It returns false when
// another gesture is still active, the target block is not on the selected
// day, or the column does not accept drag-to-create.
func (p *Planner) BeginGesture(req GestureRequest, blocks []domain.TimeBlock) (*gesture.Handle, bool) {
	if p.active != nil && !p.active.Closed() {
		return nil, false
	}

	var h *gesture.Handle
	if req.Kind == gesture.Create {
		if req.Column != domain.ColumnPlan && req.Column != domain.ColumnActual {
			return nil, false
		}
		h = gesture.BeginCreate(req.Column, req.Pointer, p.cfg.Scale)
		p.target = domain.TimeBlock{}
	} else {
		b, ok := domain.FindBlock(blocks, req.BlockID)
		if !ok || b.Date != p.cfg.Day {
			return nil, false
		}
		h = gesture.BeginEdit(req.Kind, b, req.Pointer, p.cfg.Scale)
		p.target = b
	}
	if h == nil {
		return nil, false
	}
	p.active = h
	return h, true
}

// Active returns the in-flight gesture, or nil.
func (p *Planner) Active() *gesture.Handle { return p.active }

// UpdateGesture feeds a pointer move to h and returns the proposed block.
// Stale handles report false.
func (p *Planner) UpdateGesture(h *gesture.Handle, ptr gesture.Pointer) (domain.TimeBlock, bool) {
	if h == nil || h != p.active {
		return domain.TimeBlock{}, false
	}
	prop := h.Update(ptr)
	b := p.target
	if h.Kind() == gesture.Create {
		b = domain.TimeBlock{
			ID:     gesture.GhostID,
			Date:   p.cfg.Day,
			Column: h.Column(),
			Status: domain.DefaultStatus(h.Column()),
		}
	}
	b.StartTime = prop.Start
	b.Duration = prop.Duration
	return b, true
}

// Preview overlays the active gesture's proposal on blocks for rendering.
// A create ghost is placed on the selected day so ComputeLayout sees it.
func (p *Planner) Preview(blocks []domain.TimeBlock) []domain.TimeBlock {
	if p.active == nil {
		return blocks
	}
	out := p.active.Preview(blocks)
	for i := range out {
		if out[i].ID == gesture.GhostID {
			out[i].Date = p.cfg.Day
		}
	}
	return out
}

// CommitGesture closes h and frees the slot. It returns nil when the
// gesture produced no change or h is not the active gesture.
func (p *Planner) CommitGesture(h *gesture.Handle) *domain.MutationIntent {
	if h == nil || h != p.active {
		return nil
	}
	p.active = nil
	out, ok := h.Commit()
	if !ok {
		return nil
	}

	now := p.cfg.Clock.Now()
	if out.Kind == gesture.Create {
		b := p.newBlock(out.Column, now)
		b.StartTime = out.Start
		b.Duration = out.Duration
		return &domain.MutationIntent{Op: domain.IntentCreate, Block: b, OpenEditor: out.Tap}
	}

	b := p.target
	b.StartTime = out.Start
	b.Duration = out.Duration
	b.UpdatedAt = now
	return &domain.MutationIntent{Op: domain.IntentUpdate, Block: b}
}

// Release is the global pointer-up: it concludes whatever gesture is
// active, wherever the pointer was released.
func (p *Planner) Release() *domain.MutationIntent {
	if p.active == nil {
		return nil
	}
	return p.CommitGesture(p.active)
}

func (p *Planner) ApplyStatusTransition(plan domain.TimeBlock, status domain.BlockStatus, blocks []domain.TimeBlock) domain.MutationBatch {
	return p.rel.ApplyStatusTransition(plan, status, blocks)
}

func (p *Planner) DeleteBlock(id string, blocks []domain.TimeBlock) domain.MutationBatch {
	return p.rel.DeleteBlock(id, blocks)
}

// UpdateBlock turns an edited block into a batch: the update itself, the
// status transition when the status changed, and propagation of identity
// fields to linked blocks.
func (p *Planner) UpdateBlock(next domain.TimeBlock, blocks []domain.TimeBlock) domain.MutationBatch {
	next.UpdatedAt = p.cfg.Clock.Now()
	if next.IsScheduled() {
		next.StartTime, next.Duration = domain.FitDay(next.StartTime, next.Duration)
	}

	prev, ok := domain.FindBlock(blocks, next.ID)
	if !ok {
		return domain.MutationBatch{Updates: []domain.TimeBlock{next}}
	}

	batch := domain.MutationBatch{Updates: []domain.TimeBlock{next}}
	if prev.Status != next.Status {
		batch = p.rel.ApplyStatusTransition(next, next.Status, blocks)
	}
	return batch.Merge(p.rel.PropagateEdit(prev, next, blocks))
}

// AddBlock completes a draft from the add-button path with the column
// defaults and a fresh id.
func (p *Planner) AddBlock(draft domain.TimeBlock) domain.MutationIntent {
	now := p.cfg.Clock.Now()
	column := draft.Column
	if column == "" {
		column = domain.ColumnPlan
	}
	b := p.newBlock(column, now)

	b.ID = domain.CoalesceStr(draft.ID, b.ID)
	b.Title = domain.CoalesceStr(draft.Title, b.Title)
	b.Date = domain.CoalesceStr(draft.Date, b.Date)
	b.Color = domain.CoalesceStr(draft.Color, b.Color)
	b.Origin = domain.CoalesceOrigin(draft.Origin, b.Origin)
	if draft.Status != "" {
		b.Status = draft.Status
	}
	b.Description = draft.Description
	b.DeviceSource = draft.DeviceSource
	b.GoalID = draft.GoalID
	b.MilestoneID = draft.MilestoneID
	b.TimeValue = draft.TimeValue
	b.Priority = draft.Priority

	b.Duration = domain.PositiveOr(draft.Duration, domain.DefaultDropMinutes)
	b.StartTime = draft.StartTime
	if b.IsScheduled() {
		b.StartTime, b.Duration = domain.FitDay(b.StartTime, b.Duration)
	} else {
		b.Date = ""
	}
	return domain.MutationIntent{Op: domain.IntentCreate, Block: b}
}

// ScheduleBlock places an existing block (typically from the backlog) on
// the selected day at minute in column.
func (p *Planner) ScheduleBlock(b domain.TimeBlock, minute int, column domain.Column) domain.MutationIntent {
	if b.Column != column {
		b.Status = domain.DefaultStatus(column)
	}
	b.Column = column
	b.Date = p.cfg.Day
	b.StartTime, b.Duration = domain.FitDay(SnapDrop(minute), domain.PositiveOr(b.Duration, domain.DefaultDropMinutes))
	b.UpdatedAt = p.cfg.Clock.Now()
	return domain.MutationIntent{Op: domain.IntentUpdate, Block: b}
}

// DropGoal creates a block for a goal, or one of its milestones when
// milestoneID is set, dropped at minute. Only the Plan column keeps the
// Plan defaults; any other column is logged as an Actual.
func (p *Planner) DropGoal(goal *domain.Goal, milestoneID string, minute int, column domain.Column) domain.MutationIntent {
	if column != domain.ColumnPlan {
		column = domain.ColumnActual
	}
	var m *domain.Milestone
	if milestoneID != "" {
		m, _ = goal.Milestone(milestoneID)
	}

	b := p.newBlock(column, p.cfg.Clock.Now())
	b.Title = goal.DropTitle(m)
	b.Description = goal.DropDescription(m)
	b.Color = domain.CoalesceStr(goal.Color, b.Color)
	b.Origin = domain.OriginGoal
	b.GoalID = goal.ID
	if m != nil {
		b.MilestoneID = m.ID
	}
	b.StartTime, b.Duration = domain.FitDay(SnapDrop(minute), goal.DropDuration(m))
	return domain.MutationIntent{Op: domain.IntentCreate, Block: b}
}

// SaveTemplate captures the selected day's scheduled Plan blocks, ordered by
// start time.
func (p *Planner) SaveTemplate(name string, blocks []domain.TimeBlock) domain.DayTemplate {
	var plans []domain.TimeBlock
	for _, b := range p.OnDay(blocks) {
		if b.IsPlan() {
			plans = append(plans, b)
		}
	}
	sort.SliceStable(plans, func(i, j int) bool {
		return plans[i].StartTime < plans[j].StartTime
	})

	tpl := domain.DayTemplate{
		ID:        p.cfg.IDs.NewID(),
		Name:      name,
		CreatedAt: p.cfg.Clock.Now(),
	}
	for _, b := range plans {
		tpl.Blocks = append(tpl.Blocks, domain.TemplateBlockFrom(b))
	}
	return tpl
}

// InstantiateTemplate stamps tpl onto the selected day as Todo blocks with
// fresh ids. With replace, the day's Plan blocks and everything linked to
// them are deleted first.
func (p *Planner) InstantiateTemplate(tpl domain.DayTemplate, blocks []domain.TimeBlock, replace bool) domain.MutationBatch {
	var batch domain.MutationBatch
	if replace {
		for _, b := range p.OnDay(blocks) {
			if b.IsPlan() {
				batch = batch.Merge(p.rel.DeleteBlock(b.ID, blocks))
			}
		}
	}

	now := p.cfg.Clock.Now()
	for _, tb := range tpl.Blocks {
		b := tb.Instantiate(p.cfg.IDs.NewID(), p.cfg.Day, now)
		b.StartTime, b.Duration = domain.FitDay(b.StartTime, b.Duration)
		b.Color = domain.CoalesceStr(b.Color, p.colorFor(b.Column))
		b.Title = domain.CoalesceStr(b.Title, DefaultTitle)
		batch.Creates = append(batch.Creates, b)
	}
	return batch
}

// SnapDrop aligns a dropped minute down to the 15-minute row it landed in.
func SnapDrop(minute int) int {
	if minute < 0 {
		return 0
	}
	return minute - minute%DropSnapMinutes
}

func (p *Planner) newBlock(column domain.Column, now time.Time) domain.TimeBlock {
	return domain.TimeBlock{
		ID:        p.cfg.IDs.NewID(),
		Title:     DefaultTitle,
		Date:      p.cfg.Day,
		Duration:  domain.DefaultDropMinutes,
		Column:    column,
		Status:    domain.DefaultStatus(column),
		Color:     p.colorFor(column),
		Origin:    domain.OriginUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (p *Planner) colorFor(column domain.Column) string {
	if column == domain.ColumnPlan {
		return p.cfg.PlanColor
	}
	return p.cfg.ActualColor
}
