package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/alexanderramin/lifesync/internal/domain"
	"github.com/alexanderramin/lifesync/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetStatus_RollbackOnReflectionCreateFailure(t *testing.T) {
	f := newFixture(t)
	plan := testutil.NewTestBlock("Run", testutil.WithStatus(domain.StatusCompleted))
	result := testutil.NewTestBlock("Run", testutil.WithColumn(domain.ColumnActual), testutil.WithRelatedPlan(plan.ID))
	f.seed(t, plan, result)
	ctx := context.Background()

	// ExecContext #1 = delete result, #2 = update plan, #3 = create reflection.
	failUoW := &testutil.FailOnNthExecUoW{
		DB:     f.db,
		FailOn: 3,
		Err:    fmt.Errorf("injected reflection create failure"),
	}
	obs := &recordingObserver{}
	svc := NewDayService(f.blocks, f.goals, failUoW, f.cfg, obs)

	_, err := svc.SetStatus(ctx, plan.ID, domain.StatusFailed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected reflection create failure")

	got, err := f.blocks.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status, "plan status should be unchanged after rollback")

	related, err := f.blocks.ListRelated(ctx, plan.ID)
	require.NoError(t, err)
	require.Len(t, related, 1, "linked result should survive the rollback")
	assert.Equal(t, result.ID, related[0].ID)

	require.Len(t, obs.events, 1)
	assert.False(t, obs.events[0].Success)
	assert.Error(t, obs.events[0].Err)
}

func TestDelete_RollbackOnCascadeFailure(t *testing.T) {
	f := newFixture(t)
	plan := testutil.NewTestBlock("Swim")
	result := testutil.NewTestBlock("Swim", testutil.WithColumn(domain.ColumnActual), testutil.WithRelatedPlan(plan.ID))
	f.seed(t, plan, result)
	ctx := context.Background()

	failUoW := &testutil.FailOnNthExecUoW{
		DB:     f.db,
		FailOn: 2,
		Err:    fmt.Errorf("injected cascade failure"),
	}
	_, err := NewDayService(f.blocks, f.goals, failUoW, f.cfg).Delete(ctx, plan.ID)
	require.Error(t, err)

	all, err := f.blocks.ListByDate(ctx, testutil.TestDay)
	require.NoError(t, err)
	assert.Len(t, all, 2, "no block should be deleted after rollback")
}

func TestLoadTemplate_RollbackLeavesDayUntouched(t *testing.T) {
	f := newFixture(t)
	existing := testutil.NewTestBlock("Existing")
	f.seed(t, existing)
	tpl := testutil.NewTestTemplate("workday",
		testutil.NewTestBlock("Standup", testutil.WithSpan(540, 15)),
		testutil.NewTestBlock("Focus", testutil.WithSpan(600, 120)),
	)
	require.NoError(t, f.templates.Create(context.Background(), tpl))
	ctx := context.Background()

	// #1 = delete existing plan, #2 = first create, #3 = second create.
	failUoW := &testutil.FailOnNthExecUoW{
		DB:     f.db,
		FailOn: 3,
		Err:    fmt.Errorf("injected create failure"),
	}
	svc := NewTemplateService(f.templates, f.blocks, failUoW, f.cfg)
	_, err := svc.Load(ctx, "workday", testutil.TestDay, true)
	require.Error(t, err)

	day, err := f.blocks.ListByDate(ctx, testutil.TestDay)
	require.NoError(t, err)
	require.Len(t, day, 1)
	assert.Equal(t, existing.ID, day[0].ID)
}
