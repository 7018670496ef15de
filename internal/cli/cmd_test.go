package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/lifesync/internal/domain"
	"github.com/alexanderramin/lifesync/internal/planner"
	"github.com/alexanderramin/lifesync/internal/repository"
	"github.com/alexanderramin/lifesync/internal/service"
	"github.com/alexanderramin/lifesync/internal/testutil"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testApp wires a full App backed by an in-memory DB for CLI integration
// tests. "Today" is testutil.TestDay.
func testApp(t *testing.T) *App {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)

	blocks := repository.NewSQLiteBlockRepo(database)
	goals := repository.NewSQLiteGoalRepo(database)
	templates := repository.NewSQLiteTemplateRepo(database)
	clock := testutil.NewFakeClock(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))
	cfg := planner.Config{Clock: clock}

	return &App{
		Day:       service.NewDayService(blocks, goals, uow, cfg),
		Templates: service.NewTemplateService(templates, blocks, uow, cfg),
		Goals:     service.NewGoalService(goals, uow, nil, clock),
		Export:    service.NewExportService(blocks, goals, templates, clock, time.UTC),
		Now:       clock.Now,
	}
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func seedBlock(t *testing.T, app *App, draft domain.TimeBlock) *domain.TimeBlock {
	t.Helper()
	if draft.Date == "" && draft.StartTime != domain.Unscheduled {
		draft.Date = testutil.TestDay
	}
	b, err := app.Day.Add(context.Background(), draft)
	require.NoError(t, err)
	return b
}

func dayBlocks(t *testing.T, app *App, date string) []domain.TimeBlock {
	t.Helper()
	blocks, err := app.Day.Blocks(context.Background(), date)
	require.NoError(t, err)
	return blocks
}

func TestRootCmd_NoArgs_ShowsHelp(t *testing.T) {
	output, err := executeCmd(t, testApp(t))
	require.NoError(t, err)
	assert.Contains(t, output, "lifesync")
	assert.Contains(t, output, "block")
}

func TestRootCmd_SetupRunsBeforeSubcommands(t *testing.T) {
	app := testApp(t)
	called := false
	app.Setup = func(cmd *cobra.Command) error {
		called = true
		return nil
	}
	_, err := executeCmd(t, app, "block", "backlog")
	require.NoError(t, err)
	assert.True(t, called)
}

// --- block ---

func TestBlockAdd_PlacesOnTimeline(t *testing.T) {
	app := testApp(t)

	output, err := executeCmd(t, app, "block", "add", "Deep work", "--at", "09:00", "-m", "90")
	require.NoError(t, err)
	assert.Contains(t, output, "Added")
	assert.Contains(t, output, "09:00-10:30")

	blocks := dayBlocks(t, app, testutil.TestDay)
	require.Len(t, blocks, 1)
	assert.Equal(t, "Deep work", blocks[0].Title)
	assert.Equal(t, domain.ColumnPlan, blocks[0].Column)
	assert.Equal(t, domain.StatusTodo, blocks[0].Status)
}

func TestBlockAdd_ActualTimelineTomorrow(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "block", "add", "Walk", "--at", "18:00", "-t", "actual", "-d", "tomorrow")
	require.NoError(t, err)

	blocks := dayBlocks(t, app, "2025-06-16")
	require.Len(t, blocks, 1)
	assert.Equal(t, domain.ColumnActual, blocks[0].Column)
	assert.Equal(t, domain.StatusCompleted, blocks[0].Status)
}

func TestBlockAdd_RequiresStartOrBacklog(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "block", "add", "Someday")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--at")
}

func TestBlockAdd_RequiresTitleWhenNotInteractive(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "block", "add", "--at", "09:00")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title")
}

func TestBlockAdd_RejectsDeviceTimeline(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "block", "add", "Phone", "--at", "09:00", "-t", "device")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "device record")
}

func TestBlockAdd_BadTime(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "block", "add", "X", "--at", "25:00")
	require.Error(t, err)
}

func TestBlockBacklog_ThenSchedule(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "block", "add", "Taxes", "--backlog", "-m", "45")
	require.NoError(t, err)

	output, err := executeCmd(t, app, "block", "backlog")
	require.NoError(t, err)
	assert.Contains(t, output, "Taxes")

	backlog, err := app.Day.Backlog(context.Background())
	require.NoError(t, err)
	require.Len(t, backlog, 1)

	output, err = executeCmd(t, app, "block", "schedule", backlog[0].ID[:8], "--at", "14:10")
	require.NoError(t, err)
	assert.Contains(t, output, "Scheduled Taxes")

	blocks := dayBlocks(t, app, testutil.TestDay)
	require.Len(t, blocks, 1)
	assert.Equal(t, 14*60, blocks[0].StartTime, "drops snap down to the quarter hour")
	assert.Equal(t, 45, blocks[0].Duration)
}

func TestBlockList_ShowsBothTimelines(t *testing.T) {
	app := testApp(t)
	seedBlock(t, app, domain.TimeBlock{Title: "Plan it", StartTime: 540, Duration: 60, Column: domain.ColumnPlan})
	seedBlock(t, app, domain.TimeBlock{Title: "Did it", StartTime: 600, Duration: 30, Column: domain.ColumnActual})

	output, err := executeCmd(t, app, "block", "list")
	require.NoError(t, err)
	assert.Contains(t, output, "Plan it")
	assert.Contains(t, output, "Did it")
	assert.Contains(t, output, "0/1 done")
}

func TestBlockStatus_DoneAddsResult(t *testing.T) {
	app := testApp(t)
	b := seedBlock(t, app, domain.TimeBlock{Title: "Gym", StartTime: 420, Duration: 60})

	output, err := executeCmd(t, app, "block", "status", b.ID[:8], "done")
	require.NoError(t, err)
	assert.Contains(t, output, "+1 created")

	blocks := dayBlocks(t, app, testutil.TestDay)
	require.Len(t, blocks, 2)
	var result domain.TimeBlock
	for _, x := range blocks {
		if x.Column == domain.ColumnActual {
			result = x
		}
	}
	assert.Equal(t, b.ID, result.RelatedPlanID)
	assert.Equal(t, 420, result.StartTime)
}

func TestBlockStatus_UnknownStatus(t *testing.T) {
	app := testApp(t)
	b := seedBlock(t, app, domain.TimeBlock{Title: "Gym", StartTime: 420, Duration: 60})

	_, err := executeCmd(t, app, "block", "status", b.ID, "maybe")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown status")
}

func TestBlockMove(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantStart int
	}{
		{"later by minutes", []string{"+30"}, 570},
		{"earlier by duration", []string{"--", "-1h"}, 480},
		{"to a clock time", []string{"--to", "13:00"}, 780},
		{"snaps to five minutes", []string{"7"}, 545},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := testApp(t)
			b := seedBlock(t, app, domain.TimeBlock{Title: "Read", StartTime: 540, Duration: 60})

			args := append([]string{"block", "move", b.ID}, tt.args...)
			_, err := executeCmd(t, app, args...)
			require.NoError(t, err)

			got, err := app.Day.Get(context.Background(), b.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, got.StartTime)
			assert.Equal(t, 60, got.Duration)
		})
	}
}

func TestBlockMove_BacklogBlockFails(t *testing.T) {
	app := testApp(t)
	b := seedBlock(t, app, domain.TimeBlock{Title: "Later", StartTime: domain.Unscheduled, Duration: 30})

	_, err := executeCmd(t, app, "block", "move", b.ID, "+15")
	assert.ErrorIs(t, err, service.ErrNotScheduled)
}

func TestBlockResize(t *testing.T) {
	app := testApp(t)
	b := seedBlock(t, app, domain.TimeBlock{Title: "Write", StartTime: 540, Duration: 60})

	_, err := executeCmd(t, app, "block", "resize", b.ID, "+30")
	require.NoError(t, err)
	got, err := app.Day.Get(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, 540, got.StartTime)
	assert.Equal(t, 90, got.Duration)

	_, err = executeCmd(t, app, "block", "resize", b.ID, "--start", "--", "-30")
	require.NoError(t, err)
	got, err = app.Day.Get(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, 510, got.StartTime)
	assert.Equal(t, 120, got.Duration)
}

func TestBlockResize_ClampsToMinimum(t *testing.T) {
	app := testApp(t)
	b := seedBlock(t, app, domain.TimeBlock{Title: "Write", StartTime: 540, Duration: 60})

	_, err := executeCmd(t, app, "block", "resize", b.ID, "--", "-120")
	require.NoError(t, err)
	got, err := app.Day.Get(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MinBlockMinutes, got.Duration)
}

func TestBlockEdit_PropagatesTitleToResult(t *testing.T) {
	app := testApp(t)
	b := seedBlock(t, app, domain.TimeBlock{Title: "Gym", StartTime: 420, Duration: 60})
	_, err := executeCmd(t, app, "block", "status", b.ID, "done")
	require.NoError(t, err)

	output, err := executeCmd(t, app, "block", "edit", b.ID, "--title", "Leg day", "--color", "#ff0000")
	require.NoError(t, err)
	assert.Contains(t, output, "updated")

	for _, x := range dayBlocks(t, app, testutil.TestDay) {
		assert.Equal(t, "Leg day", x.Title)
		assert.Equal(t, "#ff0000", x.Color)
	}
}

func TestBlockEdit_OnlyChangedFlagsApply(t *testing.T) {
	app := testApp(t)
	b := seedBlock(t, app, domain.TimeBlock{Title: "Read", StartTime: 540, Duration: 60, Description: "ch. 3"})

	_, err := executeCmd(t, app, "block", "edit", b.ID, "--at", "10:00")
	require.NoError(t, err)

	got, err := app.Day.Get(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, 600, got.StartTime)
	assert.Equal(t, 60, got.Duration)
	assert.Equal(t, "Read", got.Title)
	assert.Equal(t, "ch. 3", got.Description)
}

func TestBlockDelete_CascadesToResult(t *testing.T) {
	app := testApp(t)
	b := seedBlock(t, app, domain.TimeBlock{Title: "Gym", StartTime: 420, Duration: 60})
	_, err := executeCmd(t, app, "block", "status", b.ID, "failed")
	require.NoError(t, err)
	require.Len(t, dayBlocks(t, app, testutil.TestDay), 2)

	output, err := executeCmd(t, app, "block", "rm", b.ID[:8])
	require.NoError(t, err)
	assert.Contains(t, output, "-2 deleted")
	assert.Empty(t, dayBlocks(t, app, testutil.TestDay))
}

func TestBlockShow_UnknownID(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "block", "show", "nope")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

// --- layout ---

func TestLayoutCmd_ShowsLanes(t *testing.T) {
	app := testApp(t)
	seedBlock(t, app, domain.TimeBlock{Title: "A", StartTime: 540, Duration: 60})
	seedBlock(t, app, domain.TimeBlock{Title: "B", StartTime: 570, Duration: 60})

	output, err := executeCmd(t, app, "layout")
	require.NoError(t, err)
	assert.Contains(t, output, "1/2")
	assert.Contains(t, output, "2/2")
	assert.Contains(t, output, "50.0%")
}

// --- template ---

func TestTemplate_SaveListLoad(t *testing.T) {
	app := testApp(t)
	seedBlock(t, app, domain.TimeBlock{Title: "Standup", StartTime: 570, Duration: 15})
	seedBlock(t, app, domain.TimeBlock{Title: "Focus", StartTime: 600, Duration: 120})
	seedBlock(t, app, domain.TimeBlock{Title: "Lunch", StartTime: 720, Duration: 45, Column: domain.ColumnActual})

	output, err := executeCmd(t, app, "template", "save", "workday")
	require.NoError(t, err)
	assert.Contains(t, output, "2 blocks")

	output, err = executeCmd(t, app, "template", "list")
	require.NoError(t, err)
	assert.Contains(t, output, "workday")

	output, err = executeCmd(t, app, "template", "load", "workday", "-d", "+1")
	require.NoError(t, err)
	assert.Contains(t, output, "+2 created")

	tomorrow := dayBlocks(t, app, "2025-06-16")
	require.Len(t, tomorrow, 2)
	for _, b := range tomorrow {
		assert.Equal(t, domain.ColumnPlan, b.Column)
		assert.Equal(t, domain.StatusTodo, b.Status)
	}
}

func TestTemplate_SaveEmptyDayFails(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "template", "save", "nothing")
	assert.ErrorIs(t, err, service.ErrEmptyTemplate)
}

func TestTemplate_ExportImportRoundTrip(t *testing.T) {
	app := testApp(t)
	seedBlock(t, app, domain.TimeBlock{Title: "Run", StartTime: 390, Duration: 30})
	_, err := executeCmd(t, app, "template", "save", "morning")
	require.NoError(t, err)

	output, err := executeCmd(t, app, "template", "export", "morning")
	require.NoError(t, err)
	assert.Contains(t, output, "name: morning")
	assert.Contains(t, output, "Run")

	path := filepath.Join(t.TempDir(), "weekend.yaml")
	yaml := strings.Replace(output, "name: morning", "name: weekend", 1)
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	output, err = executeCmd(t, app, "template", "import", path)
	require.NoError(t, err)
	assert.Contains(t, output, `"weekend"`)

	tpl, err := app.Templates.Get(context.Background(), "weekend")
	require.NoError(t, err)
	require.Len(t, tpl.Blocks, 1)
	assert.Equal(t, 390, tpl.Blocks[0].StartTime)
}

func TestTemplate_DeleteUnknown(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "template", "delete", "ghost")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

// --- goal ---

func TestGoal_AddMilestoneDrop(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "goal", "add", "Learn Spanish", "--unit", "lessons")
	require.NoError(t, err)
	_, err = executeCmd(t, app, "goal", "milestone", "learn spanish", "Chapter 1, 45 minutes a day", "--total", "10")
	require.NoError(t, err)

	output, err := executeCmd(t, app, "goal", "list")
	require.NoError(t, err)
	assert.Contains(t, output, "Learn Spanish")
	assert.Contains(t, output, "Chapter 1")

	output, err = executeCmd(t, app, "goal", "drop", "Learn Spanish",
		"--milestone", "Chapter 1, 45 minutes a day", "--at", "19:20")
	require.NoError(t, err)
	assert.Contains(t, output, "19:15-20:00")

	blocks := dayBlocks(t, app, testutil.TestDay)
	require.Len(t, blocks, 1)
	assert.Equal(t, domain.OriginGoal, blocks[0].Origin)
	assert.Equal(t, 45, blocks[0].Duration)
	assert.NotEmpty(t, blocks[0].MilestoneID)
}

func TestGoal_DropUnknownMilestone(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "goal", "add", "Run")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "goal", "drop", "Run", "--milestone", "marathon", "--at", "07:00")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestGoal_Delete(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "goal", "add", "Run")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "goal", "delete", "run")
	require.NoError(t, err)
	goals, err := app.Goals.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, goals)
}

// --- device ---

func TestDeviceRecord(t *testing.T) {
	app := testApp(t)

	output, err := executeCmd(t, app, "device", "record", "Instagram", "--source", "mobile", "--at", "22:00", "-m", "25")
	require.NoError(t, err)
	assert.Contains(t, output, "[mobile]")

	blocks := dayBlocks(t, app, testutil.TestDay)
	require.Len(t, blocks, 1)
	assert.Equal(t, domain.ColumnDeviceLog, blocks[0].Column)
	assert.Equal(t, domain.DeviceMobile, blocks[0].DeviceSource)
	assert.Equal(t, 25, blocks[0].Duration)
}

func TestDeviceRecord_UnknownSource(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "device", "record", "X", "--source", "watch", "--at", "10:00")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown device")
}

// --- export ---

func TestExport_JSONToStdout(t *testing.T) {
	app := testApp(t)
	seedBlock(t, app, domain.TimeBlock{Title: "Read", StartTime: 540, Duration: 60})

	output, err := executeCmd(t, app, "export", "json")
	require.NoError(t, err)

	var backup struct {
		Tasks []domain.TimeBlock `json:"tasks"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &backup))
	require.Len(t, backup.Tasks, 1)
	assert.Equal(t, "Read", backup.Tasks[0].Title)
}

func TestExport_CSVAndGoals(t *testing.T) {
	app := testApp(t)
	seedBlock(t, app, domain.TimeBlock{Title: "Read", StartTime: 540, Duration: 60})
	_, err := executeCmd(t, app, "goal", "add", "Run")
	require.NoError(t, err)

	output, err := executeCmd(t, app, "export", "csv")
	require.NoError(t, err)
	assert.Contains(t, output, "Start Time")
	assert.Contains(t, output, "Read")

	output, err = executeCmd(t, app, "export", "csv", "--goals")
	require.NoError(t, err)
	assert.Contains(t, output, "Unit Name")
	assert.Contains(t, output, "Run")
}

func TestExport_ICS(t *testing.T) {
	app := testApp(t)
	seedBlock(t, app, domain.TimeBlock{Title: "Read", StartTime: 540, Duration: 60})

	output, err := executeCmd(t, app, "export", "ics")
	require.NoError(t, err)
	assert.Contains(t, output, "BEGIN:VCALENDAR")
	assert.Contains(t, output, "Read")
}

func TestExport_PDFToFile(t *testing.T) {
	app := testApp(t)
	seedBlock(t, app, domain.TimeBlock{Title: "Read", StartTime: 540, Duration: 60})
	path := filepath.Join(t.TempDir(), "day.pdf")

	output, err := executeCmd(t, app, "export", "pdf", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, output, "Wrote")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestExport_BadDate(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "export", "ics", "-d", "June 15")
	require.Error(t, err)
}
