// Package gesture turns a stream of pointer positions into snapped, clamped
// time proposals for one block, and decides on release whether the gesture
// produced a change.
//
// A gesture is an explicit *Handle returned by BeginCreate or BeginEdit.
// The package keeps no global state; whoever holds the handle owns the
// in-flight operation.
package gesture

import (
	"math"

	"github.com/alexanderramin/lifesync/internal/domain"
)

type Kind string

const (
	Create      Kind = "create"
	Move        Kind = "move"
	ResizeStart Kind = "resize-start"
	ResizeEnd   Kind = "resize-end"
)

// ParseKind maps the command-line spelling of a gesture to its Kind.
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case Create, Move, ResizeStart, ResizeEnd:
		return Kind(s), true
	}
	return "", false
}

const (
	// CreateSnapMinutes is the grid for drag-to-create.
	CreateSnapMinutes = 15
	// EditSnapMinutes is the grid for move and resize deltas.
	EditSnapMinutes = 5
	// GhostID identifies the synthetic block Preview adds while creating.
	GhostID = "__gesture_ghost__"
)

// Pointer is a vertical position on the timeline surface, in pixels from
// the top of the day (scroll and padding already removed).
type Pointer struct {
	Y float64
}

// Scale converts pixels into minutes.
type Scale struct {
	PixelsPerMinute float64
	// TapThresholdPx is the drag distance below which a create gesture is
	// treated as a tap.
	TapThresholdPx float64
}

// DefaultScale matches a 1.6px-per-minute timeline with a 10px tap radius.
func DefaultScale() Scale {
	return Scale{PixelsPerMinute: 1.6, TapThresholdPx: 10}
}

func (s Scale) ppm() float64 {
	if s.PixelsPerMinute <= 0 {
		return DefaultScale().PixelsPerMinute
	}
	return s.PixelsPerMinute
}

// Proposal is the live interval shown while a gesture is in flight.
type Proposal struct {
	Start    int
	Duration int
}

// Outcome is what a committed gesture asks the caller to persist.
type Outcome struct {
	Kind     Kind
	BlockID  string
	Column   domain.Column
	Start    int
	Duration int
	// Tap is set when a create gesture barely moved; the caller should open
	// its editor for the new block.
	Tap bool
}

// Handle is one in-flight pointer operation.
type Handle struct {
	kind    Kind
	scale   Scale
	blockID string
	column  domain.Column

	startY float64
	lastY  float64

	initial  Proposal
	proposal Proposal
	closed   bool
}

// BeginCreate anchors a drag-to-create gesture at the pointer. The anchor
// minute snaps to the 15-minute grid.
func BeginCreate(column domain.Column, p Pointer, scale Scale) *Handle {
	anchor := snap(math.Floor(p.Y/scale.ppm()), CreateSnapMinutes)
	anchor = clamp(anchor, 0, domain.MinutesPerDay-domain.MinBlockMinutes)

	h := &Handle{
		kind:    Create,
		scale:   scale,
		column:  column,
		startY:  p.Y,
		lastY:   p.Y,
		initial: Proposal{Start: anchor, Duration: domain.MinBlockMinutes},
	}
	h.proposal = h.initial
	return h
}

// BeginEdit starts a move or resize of an existing scheduled block. It
// returns nil for unscheduled blocks or a Create kind.
func BeginEdit(kind Kind, block domain.TimeBlock, p Pointer, scale Scale) *Handle {
	if kind == Create || !block.IsScheduled() {
		return nil
	}
	if _, ok := ParseKind(string(kind)); !ok {
		return nil
	}
	h := &Handle{
		kind:    kind,
		scale:   scale,
		blockID: block.ID,
		column:  block.Column,
		startY:  p.Y,
		lastY:   p.Y,
		initial: Proposal{Start: block.StartTime, Duration: block.Duration},
	}
	h.proposal = h.initial
	return h
}

func (h *Handle) Kind() Kind            { return h.kind }
func (h *Handle) BlockID() string       { return h.blockID }
func (h *Handle) Column() domain.Column { return h.column }
func (h *Handle) Proposal() Proposal    { return h.proposal }
func (h *Handle) Closed() bool          { return h.closed }

// Update recomputes the proposal for a new pointer position. After Commit
// the last proposal is returned unchanged.
func (h *Handle) Update(p Pointer) Proposal {
	if h.closed {
		return h.proposal
	}
	h.lastY = p.Y

	if h.kind == Create {
		h.proposal = h.createProposal()
		return h.proposal
	}

	delta := (p.Y - h.startY) / h.scale.ppm()
	snapped := snap(delta, EditSnapMinutes)
	h.proposal = editProposal(h.kind, h.initial, snapped)
	return h.proposal
}

func (h *Handle) createProposal() Proposal {
	dragged := math.Abs(h.lastY - h.startY)
	minutes := int(math.Floor(dragged / h.scale.ppm()))
	if minutes < domain.MinBlockMinutes {
		minutes = domain.MinBlockMinutes
	}
	duration := snap(float64(minutes), CreateSnapMinutes)
	if room := domain.MinutesPerDay - h.initial.Start; duration > room {
		duration = room
	}
	return Proposal{Start: h.initial.Start, Duration: duration}
}

func editProposal(kind Kind, initial Proposal, delta int) Proposal {
	start, duration := initial.Start, initial.Duration
	end := initial.Start + initial.Duration

	switch kind {
	case Move:
		start = clamp(initial.Start+delta, 0, domain.MinutesPerDay-initial.Duration)
	case ResizeStart:
		start = initial.Start + delta
		duration = initial.Duration - delta
		if duration < domain.MinBlockMinutes {
			duration = domain.MinBlockMinutes
			start = end - domain.MinBlockMinutes
		}
		if start < 0 {
			start = 0
			duration = end
		}
	case ResizeEnd:
		duration = initial.Duration + delta
		if duration < domain.MinBlockMinutes {
			duration = domain.MinBlockMinutes
		}
		if start+duration > domain.MinutesPerDay {
			duration = domain.MinutesPerDay - start
		}
	}
	return Proposal{Start: start, Duration: duration}
}

// Commit closes the gesture. It reports false when nothing should be
// persisted: an edit that left start and duration untouched, or a second
// Commit on the same handle.
func (h *Handle) Commit() (Outcome, bool) {
	if h.closed {
		return Outcome{}, false
	}
	h.closed = true

	out := Outcome{
		Kind:     h.kind,
		BlockID:  h.blockID,
		Column:   h.column,
		Start:    h.proposal.Start,
		Duration: h.proposal.Duration,
	}

	if h.kind == Create {
		if math.Abs(h.lastY-h.startY) < h.scale.TapThresholdPx {
			out.Tap = true
			out.Start = h.initial.Start
			out.Duration = domain.DefaultTapMinutes
			if room := domain.MinutesPerDay - out.Start; out.Duration > room {
				out.Duration = room
			}
		}
		return out, true
	}

	if h.proposal == h.initial {
		return Outcome{}, false
	}
	return out, true
}

// Preview returns a copy of blocks as they should be drawn mid-gesture: the
// edited block carries the proposal, or a ghost block is appended while
// creating. blocks itself is not modified.
func (h *Handle) Preview(blocks []domain.TimeBlock) []domain.TimeBlock {
	out := make([]domain.TimeBlock, len(blocks), len(blocks)+1)
	copy(out, blocks)

	if h.kind == Create {
		if h.closed {
			return out
		}
		return append(out, domain.TimeBlock{
			ID:        GhostID,
			StartTime: h.proposal.Start,
			Duration:  h.proposal.Duration,
			Column:    h.column,
			Status:    domain.DefaultStatus(h.column),
		})
	}

	for i := range out {
		if out[i].ID == h.blockID {
			out[i].StartTime = h.proposal.Start
			out[i].Duration = h.proposal.Duration
		}
	}
	return out
}

// snap rounds val to the nearest multiple of step, halves rounding up.
func snap(val float64, step int) int {
	s := float64(step)
	return int(math.Floor(val/s+0.5)) * step
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
