package notifier

import (
	"errors"
	"testing"
	"time"

	"CrossSentinel/internal/model"

	"github.com/stretchr/testify/assert"
)

var (
	usd = Style{Title: "S&P 500", Currency: "$", PriceDecimals: 2}
	krw = Style{Title: "KOSPI 200", Currency: "₩", PriceDecimals: 0}
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		price float64
		style Style
		want  string
	}{
		{123.456, usd, "$123.46"},
		{1234567.8, usd, "$1,234,567.80"},
		{71200, krw, "₩71,200"},
		{999, krw, "₩999"},
		{0.5, usd, "$0.50"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatPrice(tt.price, tt.style))
	}
}

func TestFormatCrossover(t *testing.T) {
	at := time.Date(2025, 6, 3, 21, 5, 0, 0, time.UTC)
	golden := FormatCrossover(model.CrossoverEvent{
		Symbol:     model.Symbol{Code: "BRK.B", Name: "Berkshire <Hathaway>"},
		Kind:       model.CrossGolden,
		Price:      412.3,
		DetectedAt: at,
	}, usd)
	assert.Contains(t, golden, "📈 <b>BRK.B</b> (Berkshire &lt;Hathaway&gt;)")
	assert.Contains(t, golden, "<b>Golden Cross</b>")
	assert.Contains(t, golden, "$412.30")
	assert.Contains(t, golden, "2025-06-03 21:05")

	dead := FormatCrossover(model.CrossoverEvent{
		Symbol: model.Symbol{Code: "005930", Name: "삼성전자"},
		Kind:   model.CrossDead,
		Price:  71200,
	}, krw)
	assert.Contains(t, dead, "📉")
	assert.Contains(t, dead, "<b>Dead Cross</b>")
	assert.Contains(t, dead, "₩71,200")
}

func TestFormatSummary(t *testing.T) {
	r := &model.ScanResult{Total: 3, Processed: 3, Golden: 1, Dead: 2, Failed: 1, Elapsed: 12340 * time.Millisecond}
	msg := FormatSummary(r, time.Now(), usd)
	assert.Contains(t, msg, "S&amp;P 500 scan complete")
	assert.Contains(t, msg, "Golden Cross: 1")
	assert.Contains(t, msg, "Dead Cross: 2")
	assert.Contains(t, msg, "Failed: 1")
	assert.Contains(t, msg, "Elapsed: 12.3s")
	assert.NotContains(t, msg, "Interrupted")

	r.Interrupted, r.Processed = true, 2
	assert.Contains(t, FormatSummary(r, time.Now(), usd), "Interrupted after 2/3 symbols")
}

func TestFormatHeartbeat(t *testing.T) {
	msg := FormatHeartbeat(HeartbeatStatus{Time: time.Now(), UniverseSize: 200, NextCheck: 10 * time.Minute}, krw)
	assert.Contains(t, msg, "KOSPI 200 monitor heartbeat")
	assert.Contains(t, msg, "Symbols monitored: 200")
	assert.Contains(t, msg, "every 10m")
}

func TestFormatLifecycle(t *testing.T) {
	now := time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC)
	assert.Contains(t, FormatStartup(now, 10*time.Minute, time.Hour, krw), "Heartbeat: every 1h")
	assert.Contains(t, FormatShutdown(now, krw), "2025-01-02 09:00:00")
	assert.Contains(t, FormatPassError(now, errors.New("x < y"), krw), "x &lt; y")
}

func TestStyle_Location(t *testing.T) {
	seoul := time.FixedZone("KST", 9*3600)
	s := krw
	s.Location = seoul
	msg := FormatShutdown(time.Date(2025, 1, 2, 0, 30, 0, 0, time.UTC), s)
	assert.Contains(t, msg, "2025-01-02 09:30:00")
}
