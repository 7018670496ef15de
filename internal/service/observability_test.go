package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestLogUseCaseObserver(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogUseCaseObserver(zerolog.New(&buf).Level(zerolog.DebugLevel))

	obs.ObserveUseCase(context.Background(), UseCaseEvent{
		Name:     "add-block",
		Duration: 3 * time.Millisecond,
		Success:  true,
		Fields:   map[string]any{"date": "2025-06-15"},
	})
	out := buf.String()
	assert.Contains(t, out, `"use_case":"add-block"`)
	assert.Contains(t, out, `"date":"2025-06-15"`)
	assert.Contains(t, out, `"level":"debug"`)

	buf.Reset()
	obs.ObserveUseCase(context.Background(), UseCaseEvent{Name: "set-status", Err: errors.New("boom")})
	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.Contains(t, buf.String(), `"error":"boom"`)
}

func TestUseCaseObserverOrNoop(t *testing.T) {
	assert.IsType(t, NoopUseCaseObserver{}, useCaseObserverOrNoop(nil))
	obs := &recordingObserver{}
	assert.Same(t, obs, useCaseObserverOrNoop([]UseCaseObserver{nil, obs}))
}
