package logging_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DhavalSuthar-24/courtside/internal/logging"
)

func capture(t *testing.T, level string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logging.Init(logging.Config{Level: level, Format: "json", Output: &buf})
	t.Cleanup(func() { logging.Init(logging.DefaultConfig()) })
	return &buf
}

func lines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, l := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if l == "" {
			continue
		}
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(l), &m), l)
		out = append(out, m)
	}
	return out
}

func TestLevelFiltering(t *testing.T) {
	buf := capture(t, "warn")

	logging.Info().Msg("hidden")
	logging.Warn().Str("squad", "Varsity").Msg("shown")

	got := lines(t, buf)
	require.Len(t, got, 1)
	assert.Equal(t, "shown", got[0]["message"])
	assert.Equal(t, "warn", got[0]["level"])
	assert.Equal(t, "Varsity", got[0]["squad"])
}

func TestCtxCarriesRequestID(t *testing.T) {
	buf := capture(t, "info")

	ctx := logging.ContextWithRequestID(context.Background(), "req-42")
	assert.Equal(t, "req-42", logging.RequestIDFromContext(ctx))
	logging.Ctx(ctx).Info().Msg("handled")
	logging.Ctx(context.Background()).Info().Msg("plain")

	got := lines(t, buf)
	require.Len(t, got, 2)
	assert.Equal(t, "req-42", got[0]["request_id"])
	assert.NotContains(t, got[1], "request_id")
}

func TestSlogBridge(t *testing.T) {
	buf := capture(t, "info")

	logger := logging.NewSlogLogger().With("service", "outbox-dispatcher").WithGroup("event")
	logger.Debug("dropped")
	logger.Error("service failed", "restarts", 3)

	got := lines(t, buf)
	require.Len(t, got, 1)
	assert.Equal(t, "error", got[0]["level"])
	assert.Equal(t, "service failed", got[0]["message"])
	assert.Equal(t, "outbox-dispatcher", got[0]["service"])
	assert.EqualValues(t, 3, got[0]["event.restarts"])
}

func TestSetLoggerWithAndErr(t *testing.T) {
	var buf bytes.Buffer
	logging.SetLogger(zerolog.New(&buf))
	t.Cleanup(func() { logging.Init(logging.DefaultConfig()) })

	child := logging.With().Str("component", "outbox-dispatcher").Logger()
	child.Info().Msg("started")
	logging.Err(nil).Msg("run ok")
	logging.Err(errors.New("db locked")).Msg("run failed")

	got := lines(t, &buf)
	require.Len(t, got, 3)
	assert.Equal(t, "outbox-dispatcher", got[0]["component"])
	assert.Equal(t, "info", got[1]["level"])
	assert.NotContains(t, got[1], "error")
	assert.Equal(t, "error", got[2]["level"])
	assert.Equal(t, "db locked", got[2]["error"])
	assert.NotContains(t, got[2], "component")
}
