package relation_test

import (
	"testing"
	"time"

	"github.com/alexanderramin/lifesync/internal/domain"
	"github.com/alexanderramin/lifesync/internal/relation"
	"github.com/alexanderramin/lifesync/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newManager() *relation.Manager {
	return relation.NewManager(&testutil.SeqIDs{}, testutil.NewFakeClock(fixedNow))
}

func TestComplete_SynthesizesLinkedActual(t *testing.T) {
	m := newManager()
	plan := testutil.NewTestBlock("Write report", testutil.WithID("p1"),
		testutil.WithColor("#123456"), testutil.WithGoal("g1", "m1"))

	batch := m.ApplyStatusTransition(plan, domain.StatusCompleted, []domain.TimeBlock{plan})

	require.Len(t, batch.Updates, 1)
	assert.Equal(t, domain.StatusCompleted, batch.Updates[0].Status)
	assert.Equal(t, fixedNow, batch.Updates[0].UpdatedAt)
	assert.Empty(t, batch.Deletes)

	require.Len(t, batch.Creates, 1)
	got := batch.Creates[0]
	assert.Equal(t, "res_id-1", got.ID)
	assert.Equal(t, domain.ColumnActual, got.Column)
	assert.Equal(t, domain.StatusCompleted, got.Status)
	assert.Equal(t, "p1", got.RelatedPlanID)
	assert.Equal(t, "Write report", got.Title)
	assert.Equal(t, "Result of: Write report", got.Description)
	assert.Equal(t, plan.StartTime, got.StartTime)
	assert.Equal(t, plan.Duration, got.Duration)
	assert.Equal(t, "#123456", got.Color)
	assert.Equal(t, "g1", got.GoalID)
	assert.Equal(t, "m1", got.MilestoneID)
	assert.Equal(t, plan.Date, got.Date)
	assert.Equal(t, domain.OriginUser, got.Origin)
}

func TestComplete_ResultIsUserOriginForGoalPlan(t *testing.T) {
	m := newManager()
	plan := testutil.NewTestBlock("Chapter 3", testutil.WithID("p1"), testutil.WithGoal("g1", "m1"))
	plan.Origin = domain.OriginGoal

	batch := m.ApplyStatusTransition(plan, domain.StatusCompleted, []domain.TimeBlock{plan})
	require.Len(t, batch.Creates, 1)
	assert.Equal(t, domain.OriginUser, batch.Creates[0].Origin)
	assert.Equal(t, domain.OriginGoal, batch.Updates[0].Origin, "the plan keeps its own origin")
}

func TestComplete_IsIdempotent(t *testing.T) {
	m := newManager()
	plan := testutil.NewTestBlock("Gym", testutil.WithID("p1"))
	blocks := []domain.TimeBlock{plan}

	first := m.ApplyStatusTransition(plan, domain.StatusCompleted, blocks)
	blocks = first.Apply(blocks)
	plan, _ = domain.FindBlock(blocks, "p1")

	second := m.ApplyStatusTransition(plan, domain.StatusCompleted, blocks)
	assert.Empty(t, second.Creates)
	assert.Empty(t, second.Deletes)

	blocks = second.Apply(blocks)
	assert.Len(t, domain.RelatedTo(blocks, "p1"), 1)
	assert.Len(t, blocks, 2)
}

func TestFail_ReplacesLinkedActualWithSingleReflection(t *testing.T) {
	m := newManager()
	plan := testutil.NewTestBlock("Study", testutil.WithID("p1"),
		testutil.WithStatus(domain.StatusCompleted), testutil.WithGoal("g1", "m1"))
	linked := testutil.NewTestBlock("Study", testutil.WithID("res_old"),
		testutil.WithColumn(domain.ColumnActual), testutil.WithRelatedPlan("p1"))
	other := testutil.NewTestBlock("Lunch", testutil.WithID("x"))
	blocks := []domain.TimeBlock{plan, linked, other}

	batch := m.ApplyStatusTransition(plan, domain.StatusFailed, blocks)
	assert.Equal(t, []string{"res_old"}, batch.Deletes)
	require.Len(t, batch.Creates, 1)

	ref := batch.Creates[0]
	assert.Equal(t, "fail_id-1", ref.ID)
	assert.Equal(t, relation.ReflectionTitle, ref.Title)
	assert.Equal(t, relation.ReflectionColor, ref.Color)
	assert.Equal(t, relation.ReflectionDescription, ref.Description)
	assert.Equal(t, domain.StatusCompleted, ref.Status)
	assert.Equal(t, domain.ColumnActual, ref.Column)
	assert.Equal(t, "p1", ref.RelatedPlanID)
	assert.Equal(t, domain.OriginUser, ref.Origin)
	assert.Empty(t, ref.GoalID, "a failed plan earns no goal credit")
	assert.Empty(t, ref.MilestoneID)
	assert.True(t, relation.IsReflection(ref))

	after := batch.Apply(blocks)
	rel := domain.RelatedTo(after, "p1")
	require.Len(t, rel, 1)
	assert.Equal(t, "fail_id-1", rel[0].ID)
	_, stillThere := domain.FindBlock(after, "x")
	assert.True(t, stillThere)
}

func TestFail_TwiceKeepsOneReflection(t *testing.T) {
	m := newManager()
	plan := testutil.NewTestBlock("Study", testutil.WithID("p1"))
	blocks := []domain.TimeBlock{plan}

	for i := 0; i < 3; i++ {
		cur, _ := domain.FindBlock(blocks, "p1")
		blocks = m.ApplyStatusTransition(cur, domain.StatusFailed, blocks).Apply(blocks)
	}
	assert.Len(t, domain.RelatedTo(blocks, "p1"), 1)
}

func TestTodo_TearsDownAllLinks(t *testing.T) {
	m := newManager()
	plan := testutil.NewTestBlock("Run", testutil.WithID("p1"), testutil.WithStatus(domain.StatusCompleted))
	a := testutil.NewTestBlock("Run", testutil.WithID("a"), testutil.WithColumn(domain.ColumnActual), testutil.WithRelatedPlan("p1"))
	d := testutil.NewTestBlock("Run", testutil.WithID("d"), testutil.WithColumn(domain.ColumnDeviceLog), testutil.WithRelatedPlan("p1"))

	batch := m.ApplyStatusTransition(plan, domain.StatusTodo, []domain.TimeBlock{plan, a, d})
	assert.ElementsMatch(t, []string{"a", "d"}, batch.Deletes)
	assert.Empty(t, batch.Creates)
	assert.Equal(t, domain.StatusTodo, batch.Updates[0].Status)
}

func TestStatusChangeOnActualHasNoSideEffects(t *testing.T) {
	m := newManager()
	actual := testutil.NewTestBlock("Walk", testutil.WithID("a"), testutil.WithColumn(domain.ColumnActual))

	batch := m.ApplyStatusTransition(actual, domain.StatusFailed, []domain.TimeBlock{actual})
	assert.Empty(t, batch.Creates)
	assert.Empty(t, batch.Deletes)
	require.Len(t, batch.Updates, 1)
	assert.Equal(t, domain.StatusFailed, batch.Updates[0].Status)
}

func TestPropagateEdit_CopiesIdentityFields(t *testing.T) {
	m := newManager()
	prev := testutil.NewTestBlock("Draft", testutil.WithID("p1"))
	linked := testutil.NewTestBlock("Draft", testutil.WithID("a"),
		testutil.WithColumn(domain.ColumnActual), testutil.WithRelatedPlan("p1"), testutil.WithSpan(600, 45))

	next := prev
	next.Title = "Final draft"
	next.Color = "#000000"
	next.GoalID = "g2"
	next.StartTime = 700

	batch := m.PropagateEdit(prev, next, []domain.TimeBlock{prev, linked})
	require.Len(t, batch.Updates, 1)
	got := batch.Updates[0]
	assert.Equal(t, "Final draft", got.Title)
	assert.Equal(t, "#000000", got.Color)
	assert.Equal(t, "g2", got.GoalID)
	assert.Equal(t, 600, got.StartTime, "time is not propagated")
	assert.Equal(t, 45, got.Duration)
}

func TestPropagateEdit_ReflectionKeepsNoGoal(t *testing.T) {
	m := newManager()
	prev := testutil.NewTestBlock("Study", testutil.WithID("p1"), testutil.WithStatus(domain.StatusFailed))
	ref := testutil.NewTestBlock(relation.ReflectionTitle, testutil.WithID("fail_1"),
		testutil.WithColumn(domain.ColumnActual), testutil.WithRelatedPlan("p1"))

	next := prev
	next.Title = "Study hard"
	next.GoalID = "g1"
	next.MilestoneID = "m1"

	batch := m.PropagateEdit(prev, next, []domain.TimeBlock{prev, ref})
	require.Len(t, batch.Updates, 1)
	got := batch.Updates[0]
	assert.Equal(t, "Study hard", got.Title)
	assert.Empty(t, got.GoalID)
	assert.Empty(t, got.MilestoneID)
}

func TestIsReflection(t *testing.T) {
	assert.True(t, relation.IsReflection(domain.TimeBlock{ID: "fail_1", RelatedPlanID: "p1"}))
	assert.False(t, relation.IsReflection(domain.TimeBlock{ID: "res_1", RelatedPlanID: "p1"}))
	assert.False(t, relation.IsReflection(domain.TimeBlock{ID: "fail_1"}), "unlinked")
}

func TestPropagateEdit_TimeOnlyChangeIsQuiet(t *testing.T) {
	m := newManager()
	prev := testutil.NewTestBlock("Draft", testutil.WithID("p1"))
	linked := testutil.NewTestBlock("Draft", testutil.WithID("a"), testutil.WithRelatedPlan("p1"))
	next := prev
	next.StartTime = 800

	assert.True(t, m.PropagateEdit(prev, next, []domain.TimeBlock{prev, linked}).IsEmpty())
}

func TestDeleteBlock_Cascades(t *testing.T) {
	m := newManager()
	plan := testutil.NewTestBlock("Plan", testutil.WithID("p1"))
	a := testutil.NewTestBlock("A", testutil.WithID("a"), testutil.WithRelatedPlan("p1"))
	b := testutil.NewTestBlock("B", testutil.WithID("b"))

	batch := m.DeleteBlock("p1", []domain.TimeBlock{plan, a, b})
	assert.Equal(t, []string{"p1", "a"}, batch.Deletes)

	left := batch.Apply([]domain.TimeBlock{plan, a, b})
	require.Len(t, left, 1)
	assert.Equal(t, "b", left[0].ID)
}

func TestNewManager_Defaults(t *testing.T) {
	m := relation.NewManager(nil, nil)
	id := m.IDs.NewID()
	assert.Len(t, id, 36)
	assert.WithinDuration(t, time.Now(), m.Clock.Now(), time.Minute)
}
