package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/alexanderramin/lifesync/internal/domain"
	"github.com/alexanderramin/lifesync/internal/repository"
	"github.com/alexanderramin/lifesync/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) templateSvc() TemplateService {
	return NewTemplateService(f.templates, f.blocks, testutil.NewTestUoW(f.db), f.cfg)
}

func TestTemplateService_SaveAndLoad(t *testing.T) {
	f := newFixture(t)
	f.seed(t,
		testutil.NewTestBlock("Focus", testutil.WithSpan(600, 90), testutil.WithStatus(domain.StatusCompleted)),
		testutil.NewTestBlock("Standup", testutil.WithSpan(540, 15)),
		testutil.NewTestBlock("Logged", testutil.WithColumn(domain.ColumnActual)),
	)
	svc := f.templateSvc()
	ctx := context.Background()

	tpl, err := svc.Save(ctx, "workday", testutil.TestDay)
	require.NoError(t, err)
	require.Len(t, tpl.Blocks, 2)
	assert.Equal(t, "Standup", tpl.Blocks[0].Title)
	assert.Equal(t, "Focus", tpl.Blocks[1].Title)

	batch, err := svc.Load(ctx, "workday", "2025-06-16", false)
	require.NoError(t, err)
	assert.Len(t, batch.Creates, 2)
	assert.Empty(t, batch.Deletes)

	day, err := f.blocks.ListByDate(ctx, "2025-06-16")
	require.NoError(t, err)
	require.Len(t, day, 2)
	for _, b := range day {
		assert.Equal(t, domain.StatusTodo, b.Status, "loaded blocks start fresh")
		assert.Equal(t, domain.ColumnPlan, b.Column)
	}
	assert.Equal(t, 540, day[0].StartTime)
	assert.Equal(t, 600, day[1].StartTime)
	assert.Equal(t, 90, day[1].Duration)
}

func TestTemplateService_Save_Empty(t *testing.T) {
	f := newFixture(t)
	f.seed(t, testutil.NewTestBlock("Logged", testutil.WithColumn(domain.ColumnActual)))

	_, err := f.templateSvc().Save(context.Background(), "empty", testutil.TestDay)
	assert.ErrorIs(t, err, ErrEmptyTemplate)
}

func TestTemplateService_Save_ReplacesSameName(t *testing.T) {
	f := newFixture(t)
	f.seed(t, testutil.NewTestBlock("One"))
	svc := f.templateSvc()
	ctx := context.Background()

	_, err := svc.Save(ctx, "day", testutil.TestDay)
	require.NoError(t, err)
	f.seed(t, testutil.NewTestBlock("Two", testutil.WithSpan(700, 30)))
	_, err = svc.Save(ctx, "day", testutil.TestDay)
	require.NoError(t, err)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Len(t, all[0].Blocks, 2)
}

func TestTemplateService_Load_Replace(t *testing.T) {
	f := newFixture(t)
	plan := testutil.NewTestBlock("Old plan")
	result := testutil.NewTestBlock("Old plan", testutil.WithColumn(domain.ColumnActual), testutil.WithRelatedPlan(plan.ID))
	unrelated := testutil.NewTestBlock("Walk", testutil.WithColumn(domain.ColumnActual), testutil.WithSpan(1000, 30))
	f.seed(t, plan, result, unrelated)
	tpl := testutil.NewTestTemplate("fresh", testutil.NewTestBlock("New plan", testutil.WithSpan(480, 60)))
	require.NoError(t, f.templates.Create(context.Background(), tpl))
	ctx := context.Background()

	batch, err := f.templateSvc().Load(ctx, tpl.ID, testutil.TestDay, true)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{plan.ID, result.ID}, batch.Deletes)

	day, err := f.blocks.ListByDate(ctx, testutil.TestDay)
	require.NoError(t, err)
	titles := make([]string, 0, len(day))
	for _, b := range day {
		titles = append(titles, b.Title)
	}
	assert.ElementsMatch(t, []string{"New plan", "Walk"}, titles)
}

func TestTemplateService_GetByNameOrID(t *testing.T) {
	f := newFixture(t)
	tpl := testutil.NewTestTemplate("gym", testutil.NewTestBlock("Lift"))
	require.NoError(t, f.templates.Create(context.Background(), tpl))
	svc := f.templateSvc()
	ctx := context.Background()

	byID, err := svc.Get(ctx, tpl.ID)
	require.NoError(t, err)
	byName, err := svc.Get(ctx, "gym")
	require.NoError(t, err)
	assert.Equal(t, byID.ID, byName.ID)

	_, err = svc.Get(ctx, "nope")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, svc.Delete(ctx, "gym"))
	_, err = svc.Get(ctx, tpl.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTemplateService_ImportExportYAML(t *testing.T) {
	f := newFixture(t)
	svc := f.templateSvc()
	ctx := context.Background()

	src := `name: weekend
description: slow days
blocks:
  - title: Breakfast
    start: "09:30"
    duration: 45
  - title: Hike
    start: "11:00"
    duration: 180
    color: "#22c55e"
    time_value: investment
`
	imported, err := svc.ImportYAML(ctx, strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, "weekend", imported.Name)
	require.Len(t, imported.Blocks, 2)
	assert.Equal(t, 570, imported.Blocks[0].StartTime)
	assert.NotEmpty(t, imported.Blocks[0].Color, "missing colors get the plan default")
	assert.Equal(t, domain.TimeValueInvestment, imported.Blocks[1].TimeValue)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportYAML(ctx, "weekend", &buf))
	out := buf.String()
	assert.Contains(t, out, "name: weekend")
	assert.Contains(t, out, `start: "09:30"`)
	assert.Contains(t, out, "duration: 180")
}

func TestTemplateService_ImportYAML_Invalid(t *testing.T) {
	f := newFixture(t)
	_, err := f.templateSvc().ImportYAML(context.Background(), strings.NewReader("name: broken\nblocks: []\n"))
	require.Error(t, err)

	all, err := f.templates.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}
