package main

import (
	"path/filepath"
	"testing"
	"time"

	"CrossSentinel/internal/config"
	"CrossSentinel/internal/recorder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadDefaults(t *testing.T) *config.Config {
	t.Helper()
	for _, k := range []string{"TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "SQLITE_PATH", "METRICS_ADDR", "RUN_ON_START"} {
		t.Setenv(k, "")
	}
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	dir := t.TempDir()
	cfg.Database.SQLitePath = filepath.Join(dir, "cross.db")
	for i := range cfg.Markets {
		cfg.Markets[i].FailureLog = filepath.Join(dir, cfg.Markets[i].Name+".log")
	}
	return cfg
}

func TestRun_InvalidConfigReturnsError(t *testing.T) {
	cfg := loadDefaults(t)
	cfg.Markets[0].Strategy.LongWindow = 1

	err := run(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation")
}

func TestRun_MarketBuildFailureReturnsError(t *testing.T) {
	cfg := loadDefaults(t)
	cfg.Markets[1].Universe = config.Universe{Source: "static", File: filepath.Join(t.TempDir(), "missing.yaml")}

	done := make(chan error, 1)
	go func() { done <- run(cfg) }()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "init market sp500")
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after a market build failure")
	}
	assert.FileExists(t, cfg.Markets[0].FailureLog)
	assert.FileExists(t, cfg.Database.SQLitePath)
}

func TestBuildMarket(t *testing.T) {
	cfg := loadDefaults(t)
	mc := &cfg.Markets[1]
	mc.DataSource.Provider = "mock"

	mk, closer, err := buildMarket(cfg, mc, recorder.NewNoopRecorder(), nil)
	require.NoError(t, err)
	require.NotNil(t, closer)
	defer closer.Close()

	assert.Equal(t, 10*time.Minute, mk.PollInterval)
	assert.Equal(t, "sp500", mk.Monitor.Market)
	assert.Equal(t, "mock", mk.Monitor.Scanner.Fetcher.Name())
	assert.Equal(t, "BRK-B", mk.Monitor.Scanner.Normalizer.Normalize("BRK.B"))
	assert.Equal(t, 25, mk.Monitor.Scanner.Detector.MinBars)
	assert.Equal(t, 18, mk.Monitor.Window.StartHour)
	assert.Equal(t, time.Hour, mk.Heartbeat.Interval)
	assert.Equal(t, mk.PollInterval, mk.Heartbeat.PollInterval)
}
