package template

import (
	"bytes"
	"strings"
	"testing"

	"github.com/alexanderramin/lifesync/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const workday = `
name: workday
blocks:
  - title: Standup
    start: "09:00"
    duration: 15
  - title: Deep work
    start: "09:30"
    duration: 120
    color: "#10b981"
    time_value: investment
    priority: high
`

func TestDecode_Valid(t *testing.T) {
	schema, err := Decode(strings.NewReader(workday))
	require.NoError(t, err)
	assert.Equal(t, "workday", schema.Name)
	require.Len(t, schema.Blocks, 2)

	tpl, err := schema.ToDomain()
	require.NoError(t, err)
	assert.Equal(t, 540, tpl.Blocks[0].StartTime)
	assert.Equal(t, 570, tpl.Blocks[1].StartTime)
	assert.Equal(t, domain.TimeValueInvestment, tpl.Blocks[1].TimeValue)
	assert.Equal(t, domain.ColumnPlan, tpl.Blocks[1].Column)
}

func TestDecode_RejectsUnknownFields(t *testing.T) {
	_, err := Decode(strings.NewReader("name: x\nrecurrence: daily\nblocks: []\n"))
	assert.Error(t, err)
}

func TestDecode_CollectsValidationErrors(t *testing.T) {
	_, err := Decode(strings.NewReader(`
name: broken
blocks:
  - title: ""
    start: "25:00"
    duration: 30
  - title: Late
    start: "23:50"
    duration: 30
  - title: Tiny
    start: "10:00"
    duration: 5
    priority: urgent
`))
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "block[0]: title is required")
	assert.Contains(t, msg, "block[0]: invalid hour")
	assert.Contains(t, msg, "block[1]: ends after midnight")
	assert.Contains(t, msg, "block[2]: duration must be at least 15")
	assert.Contains(t, msg, `block[2]: unknown priority "urgent"`)
}

func TestValidateSchema_Empty(t *testing.T) {
	errs := ValidateSchema(&TemplateSchema{})
	assert.Len(t, errs, 2)
}

func TestEncode_RoundTrip(t *testing.T) {
	tpl := &domain.DayTemplate{Name: "weekend", Blocks: []domain.TemplateBlock{
		{Title: "Hike", StartTime: 480, Duration: 240, Color: "#22c55e"},
	}}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, FromDomain(tpl)))
	assert.Contains(t, buf.String(), `start: "08:00"`)

	back, err := Decode(&buf)
	require.NoError(t, err)
	got, err := back.ToDomain()
	require.NoError(t, err)
	assert.Equal(t, "weekend", got.Name)
	assert.Equal(t, 480, got.Blocks[0].StartTime)
	assert.Equal(t, 240, got.Blocks[0].Duration)
	assert.Equal(t, "#22c55e", got.Blocks[0].Color)
}
