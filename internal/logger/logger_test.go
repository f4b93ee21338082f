package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestInit_Levels(t *testing.T) {
	for _, env := range []string{"production", "development"} {
		require.NoError(t, Init("debug", env))
		assert.True(t, Get().Core().Enabled(zap.DebugLevel))
	}
	require.NoError(t, Init("bogus", "production"))
	assert.False(t, Get().Core().Enabled(zap.DebugLevel))
	assert.True(t, Get().Core().Enabled(zap.InfoLevel))
}

func TestCronLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	Set(zap.New(core))
	t.Cleanup(func() { Set(nil) })

	var cl CronLogger
	cl.Info("start")
	cl.Error(errors.New("boom"), "panic", "job", "poll")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "cron: start", entries[0].Message)
	assert.Equal(t, zap.ErrorLevel, entries[1].Level)
	assert.Equal(t, "boom", entries[1].ContextMap()["error"])
	assert.Equal(t, "poll", entries[1].ContextMap()["job"])
}
