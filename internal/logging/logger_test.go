package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_JSONWithComponent(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})
	t.Cleanup(func() { Logger = zerolog.Nop() })

	log := Component("planner")
	log.Debug().Str("block", "b1").Msg("moved")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "planner", entry["component"])
	assert.Equal(t, "b1", entry["block"])
	assert.Equal(t, "moved", entry["message"])
	assert.Equal(t, "debug", entry["level"])
}

func TestInit_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "error", Format: "json", Output: &buf})
	t.Cleanup(func() {
		Logger = zerolog.Nop()
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	})

	Logger.Info().Msg("hidden")
	assert.Zero(t, buf.Len())
	Logger.Error().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zerolog.TraceLevel, parseLevel("trace"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("bogus"))
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf).With().Str("req", "42").Logger()
	ctx := WithContext(context.Background(), l)

	got := FromContext(ctx)
	got.Warn().Msg("x")
	assert.Contains(t, buf.String(), `"req":"42"`)

	assert.NotPanics(t, func() {
		nop := FromContext(context.Background())
		nop.Info().Msg("nop")
	})
}
