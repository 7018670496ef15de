package service

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/lifesync/internal/export"
	"github.com/alexanderramin/lifesync/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) exportSvc() ExportService {
	return NewExportService(f.blocks, f.goals, f.templates, f.clock, time.UTC)
}

func seedExportData(t *testing.T, f *fixture) {
	t.Helper()
	f.seed(t,
		testutil.NewTestBlock("Plan", testutil.WithSpan(540, 60)),
		testutil.NewTestBlock("Other day", testutil.WithDate("2025-06-16")),
		testutil.NewTestBlock("Later", testutil.Unscheduled(), testutil.WithDate("")),
	)
	require.NoError(t, f.goals.Create(context.Background(), testutil.NewTestGoal("Read")))
	require.NoError(t, f.templates.Create(context.Background(), testutil.NewTestTemplate("t", testutil.NewTestBlock("x"))))
}

func TestExportService_JSON(t *testing.T) {
	f := newFixture(t)
	seedExportData(t, f)

	var buf bytes.Buffer
	require.NoError(t, f.exportSvc().JSON(context.Background(), &buf))

	var backup export.Backup
	require.NoError(t, json.Unmarshal(buf.Bytes(), &backup))
	assert.Equal(t, export.FormatVersion, backup.Version)
	assert.Len(t, backup.Blocks, 3)
	assert.Len(t, backup.Goals, 1)
	assert.Len(t, backup.Templates, 1)
	assert.True(t, backup.ExportedAt.Equal(f.clock.Now()))
}

func TestExportService_CSV(t *testing.T) {
	f := newFixture(t)
	seedExportData(t, f)
	svc := f.exportSvc()
	ctx := context.Background()

	var blocks bytes.Buffer
	require.NoError(t, svc.CSV(ctx, &blocks))
	lines := strings.Split(strings.TrimSpace(blocks.String()), "\n")
	assert.Len(t, lines, 4, "header plus three blocks")

	var goals bytes.Buffer
	require.NoError(t, svc.GoalsCSV(ctx, &goals))
	assert.Contains(t, goals.String(), "Read")
}

func TestExportService_ICS_OnlyThatDay(t *testing.T) {
	f := newFixture(t)
	seedExportData(t, f)

	var buf bytes.Buffer
	require.NoError(t, f.exportSvc().ICS(context.Background(), testutil.TestDay, &buf))
	out := buf.String()
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Equal(t, 1, strings.Count(out, "BEGIN:VEVENT"))
	assert.Contains(t, out, "SUMMARY:Plan")
}

func TestExportService_PDF(t *testing.T) {
	f := newFixture(t)
	seedExportData(t, f)
	svc := f.exportSvc()

	var buf bytes.Buffer
	require.NoError(t, svc.PDF(context.Background(), testutil.TestDay, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))

	assert.Error(t, svc.PDF(context.Background(), "bad", &buf))
}

func TestExportService_EmptyDatabase(t *testing.T) {
	f := newFixture(t)
	var buf bytes.Buffer
	require.NoError(t, f.exportSvc().JSON(context.Background(), &buf))
	assert.Contains(t, buf.String(), `"tasks": []`)

	buf.Reset()
	require.NoError(t, f.exportSvc().ICS(context.Background(), testutil.TestDay, &buf))
	assert.NotContains(t, buf.String(), "BEGIN:VEVENT")
}
