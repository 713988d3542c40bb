package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapAdapter_KeyValues(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapAdapter(zap.New(core))

	l.Info("crew.task.start", "task", "venue", "index", 0)
	l.With("run_id", "r1").Warn("tool.call.failed", "tool", "search_internet")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "crew.task.start", entries[0].Message)
	assert.Equal(t, "venue", entries[0].ContextMap()["task"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "r1", entries[1].ContextMap()["run_id"])
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, lvl)

	lvl, err = ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, lvl)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestNew_RejectsUnknownFormat(t *testing.T) {
	_, err := New(Config{Level: "info", Format: "xml"})
	assert.Error(t, err)

	l, err := New(Config{Level: "warn", Format: "console"})
	require.NoError(t, err)
	l.Debug("dropped")
}

func TestNoOpLogger(t *testing.T) {
	var l Logger = NoOpLogger{}
	l.Error("nothing", "k", "v")
}
