package gesture

import (
	"testing"

	"github.com/alexanderramin/lifesync/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unit scale: one pixel per minute keeps the arithmetic readable.
var unit = Scale{PixelsPerMinute: 1, TapThresholdPx: 10}

func planBlock(start, dur int) domain.TimeBlock {
	return domain.TimeBlock{
		ID: "blk", Date: "2025-06-15", StartTime: start, Duration: dur,
		Column: domain.ColumnPlan, Status: domain.StatusTodo,
	}
}

func TestSnap_RoundsHalfUp(t *testing.T) {
	assert.Equal(t, 5, snap(2.5, 5))
	assert.Equal(t, 0, snap(2.4, 5))
	assert.Equal(t, 0, snap(-2.5, 5), "negative halves round toward +inf")
	assert.Equal(t, -5, snap(-2.6, 5))
	assert.Equal(t, 30, snap(37, 15))
}

func TestMove_SnapsToFiveMinutes(t *testing.T) {
	h := BeginEdit(Move, planBlock(600, 60), Pointer{Y: 100}, unit)
	require.NotNil(t, h)

	assert.Equal(t, Proposal{Start: 610, Duration: 60}, h.Update(Pointer{Y: 112}))
	assert.Equal(t, Proposal{Start: 590, Duration: 60}, h.Update(Pointer{Y: 88}))
}

func TestMove_UsesScale(t *testing.T) {
	h := BeginEdit(Move, planBlock(600, 60), Pointer{Y: 0}, DefaultScale())
	// 48px at 1.6 px/min is 30 minutes.
	assert.Equal(t, 630, h.Update(Pointer{Y: 48}).Start)
}

func TestMove_ClampsLongBlockInsideDay(t *testing.T) {
	h := BeginEdit(Move, planBlock(300, 600), Pointer{Y: 0}, unit)
	assert.Equal(t, 840, h.Update(Pointer{Y: 5000}).Start)
	assert.Equal(t, 0, h.Update(Pointer{Y: -5000}).Start)
	assert.Equal(t, 600, h.Proposal().Duration, "move never changes duration")
}

func TestMove_NoOpReleaseDoesNotCommit(t *testing.T) {
	h := BeginEdit(Move, planBlock(600, 60), Pointer{Y: 0}, unit)
	h.Update(Pointer{Y: 30})
	h.Update(Pointer{Y: 1}) // snaps back to zero delta
	_, ok := h.Commit()
	assert.False(t, ok)
	assert.True(t, h.Closed())
}

func TestMove_CommitReportsNewStart(t *testing.T) {
	h := BeginEdit(Move, planBlock(600, 60), Pointer{Y: 0}, unit)
	h.Update(Pointer{Y: 45})
	out, ok := h.Commit()
	require.True(t, ok)
	assert.Equal(t, Outcome{Kind: Move, BlockID: "blk", Column: domain.ColumnPlan, Start: 645, Duration: 60}, out)

	_, again := h.Commit()
	assert.False(t, again, "a handle commits once")
}

func TestResizeStart_ClampsAtMinimum(t *testing.T) {
	h := BeginEdit(ResizeStart, planBlock(600, 30), Pointer{Y: 0}, DefaultScale())
	// +40 minutes at 1.6 px/min.
	got := h.Update(Pointer{Y: 64})
	assert.Equal(t, Proposal{Start: 615, Duration: 15}, got)
}

func TestResizeStart_GrowsUpward(t *testing.T) {
	h := BeginEdit(ResizeStart, planBlock(600, 30), Pointer{Y: 0}, unit)
	assert.Equal(t, Proposal{Start: 570, Duration: 60}, h.Update(Pointer{Y: -30}))
}

// A start clamped at 00:00 leaves the end edge fixed. The end does not slide
// up with the clamped start; the block grows to fill the gap.
func TestResizeStart_KeepsEndWhenHittingMidnightStart(t *testing.T) {
	h := BeginEdit(ResizeStart, planBlock(20, 30), Pointer{Y: 0}, unit)
	assert.Equal(t, Proposal{Start: 0, Duration: 50}, h.Update(Pointer{Y: -100}))
}

func TestResizeEnd_FloorAndCeiling(t *testing.T) {
	h := BeginEdit(ResizeEnd, planBlock(1380, 30), Pointer{Y: 0}, unit)
	assert.Equal(t, Proposal{Start: 1380, Duration: 15}, h.Update(Pointer{Y: -100}))
	assert.Equal(t, Proposal{Start: 1380, Duration: 60}, h.Update(Pointer{Y: 500}))
}

func TestResize_NeverBelowFloor(t *testing.T) {
	for _, kind := range []Kind{ResizeStart, ResizeEnd} {
		for dy := -2000.0; dy <= 2000; dy += 7 {
			h := BeginEdit(kind, planBlock(600, 45), Pointer{Y: 0}, unit)
			p := h.Update(Pointer{Y: dy})
			assert.GreaterOrEqual(t, p.Duration, domain.MinBlockMinutes, "%s dy=%v", kind, dy)
			assert.GreaterOrEqual(t, p.Start, 0)
			assert.LessOrEqual(t, p.Start+p.Duration, domain.MinutesPerDay)
		}
	}
}

func TestBeginEdit_RejectsUnscheduledAndCreate(t *testing.T) {
	backlog := planBlock(domain.Unscheduled, 30)
	assert.Nil(t, BeginEdit(Move, backlog, Pointer{}, unit))
	assert.Nil(t, BeginEdit(Create, planBlock(600, 30), Pointer{}, unit))
	assert.Nil(t, BeginEdit(Kind("spin"), planBlock(600, 30), Pointer{}, unit))
}

func TestCreate_AnchorSnapsAndDurationFollowsDrag(t *testing.T) {
	h := BeginCreate(domain.ColumnPlan, Pointer{Y: 544}, unit)
	assert.Equal(t, 540, h.Proposal().Start)

	assert.Equal(t, Proposal{Start: 540, Duration: 45}, h.Update(Pointer{Y: 590}))
	// Dragging upward uses the absolute distance.
	assert.Equal(t, Proposal{Start: 540, Duration: 60}, h.Update(Pointer{Y: 488}))

	out, ok := h.Commit()
	require.True(t, ok)
	assert.False(t, out.Tap)
	assert.Equal(t, 60, out.Duration)
	assert.Equal(t, domain.ColumnPlan, out.Column)
}

func TestCreate_TapMakesDefaultBlock(t *testing.T) {
	h := BeginCreate(domain.ColumnActual, Pointer{Y: 600}, unit)
	h.Update(Pointer{Y: 604})
	out, ok := h.Commit()
	require.True(t, ok)
	assert.True(t, out.Tap)
	assert.Equal(t, 600, out.Start)
	assert.Equal(t, domain.DefaultTapMinutes, out.Duration)
}

func TestCreate_TapNearMidnightFitsDay(t *testing.T) {
	h := BeginCreate(domain.ColumnPlan, Pointer{Y: 5000}, unit)
	assert.Equal(t, 1425, h.Proposal().Start)
	out, ok := h.Commit()
	require.True(t, ok)
	assert.Equal(t, 15, out.Duration)
}

func TestCreate_LongDragStopsAtMidnight(t *testing.T) {
	h := BeginCreate(domain.ColumnPlan, Pointer{Y: 1320}, unit)
	assert.Equal(t, Proposal{Start: 1320, Duration: 120}, h.Update(Pointer{Y: 1800}))
}

func TestPreview_OverridesEditedBlockOnly(t *testing.T) {
	blocks := []domain.TimeBlock{planBlock(600, 60), {ID: "other", StartTime: 700, Duration: 30}}
	h := BeginEdit(Move, blocks[0], Pointer{Y: 0}, unit)
	h.Update(Pointer{Y: 30})

	view := h.Preview(blocks)
	assert.Equal(t, 630, view[0].StartTime)
	assert.Equal(t, 700, view[1].StartTime)
	assert.Equal(t, 600, blocks[0].StartTime, "input untouched")
}

func TestPreview_AddsGhostWhileCreating(t *testing.T) {
	h := BeginCreate(domain.ColumnPlan, Pointer{Y: 600}, unit)
	h.Update(Pointer{Y: 660})
	view := h.Preview(nil)
	require.Len(t, view, 1)
	assert.Equal(t, GhostID, view[0].ID)
	assert.Equal(t, 60, view[0].Duration)

	h.Commit()
	assert.Empty(t, h.Preview(nil))
}

func TestUpdateAfterCommitIsInert(t *testing.T) {
	h := BeginEdit(Move, planBlock(600, 60), Pointer{Y: 0}, unit)
	h.Update(Pointer{Y: 20})
	h.Commit()
	assert.Equal(t, Proposal{Start: 620, Duration: 60}, h.Update(Pointer{Y: 300}))
}
