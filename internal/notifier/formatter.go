package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"CrossSentinel/internal/model"

	"github.com/shopspring/decimal"
)

// Style carries the per-market presentation settings.
type Style struct {
	Title         string // "KOSPI 200", "S&P 500"
	Currency      string // "₩", "$"
	PriceDecimals int32
	Location      *time.Location
}

func (s Style) localTime(t time.Time) time.Time {
	if s.Location != nil {
		return t.In(s.Location)
	}
	return t
}

// FormatPrice renders a price with the market currency, fixed decimals and
// thousands separators.
func FormatPrice(price float64, s Style) string {
	str := decimal.NewFromFloat(price).StringFixed(s.PriceDecimals)
	intPart, frac := str, ""
	if i := strings.IndexByte(str, '.'); i >= 0 {
		intPart, frac = str[:i], str[i:]
	}
	sign := ""
	if strings.HasPrefix(intPart, "-") {
		sign, intPart = "-", intPart[1:]
	}
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + s.Currency + b.String() + frac
}

// FormatCrossover formats a golden or dead cross alert.
func FormatCrossover(evt model.CrossoverEvent, s Style) string {
	icon, label := "📈", "Golden Cross"
	if evt.Kind == model.CrossDead {
		icon, label = "📉", "Dead Cross"
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s <b>%s</b> (%s)\n", icon, html.EscapeString(evt.Symbol.Code), html.EscapeString(evt.Symbol.Name)))
	b.WriteString(fmt.Sprintf("➡️ <b>%s</b>\n", label))
	b.WriteString(fmt.Sprintf("💰 Price: %s\n", FormatPrice(evt.Price, s)))
	b.WriteString(fmt.Sprintf("🕒 %s", s.localTime(evt.DetectedAt).Format("2006-01-02 15:04")))
	return b.String()
}

// FormatSummary formats the end-of-pass summary.
func FormatSummary(r *model.ScanResult, now time.Time, s Style) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>%s scan complete</b>\n\n", html.EscapeString(s.Title)))
	b.WriteString(fmt.Sprintf("🕒 Time: %s\n", s.localTime(now).Format("2006-01-02 15:04:05")))
	b.WriteString(fmt.Sprintf("📈 Golden Cross: %d\n", r.Golden))
	b.WriteString(fmt.Sprintf("📉 Dead Cross: %d\n", r.Dead))
	b.WriteString(fmt.Sprintf("❌ Failed: %d\n", r.Failed))
	b.WriteString(fmt.Sprintf("⏱ Elapsed: %.1fs", r.Elapsed.Seconds()))
	if r.Interrupted {
		b.WriteString(fmt.Sprintf("\n⚠️ Interrupted after %d/%d symbols", r.Processed, r.Total))
	}
	return b.String()
}

// HeartbeatStatus is the data shown in a liveness message.
type HeartbeatStatus struct {
	Time         time.Time
	UniverseSize int
	NextCheck    time.Duration
}

// FormatHeartbeat formats a liveness message.
func FormatHeartbeat(h HeartbeatStatus, s Style) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("💓 <b>%s monitor heartbeat</b>\n\n", html.EscapeString(s.Title)))
	b.WriteString(fmt.Sprintf("🕒 Time: %s\n", s.localTime(h.Time).Format("2006-01-02 15:04:05")))
	b.WriteString("📊 Status: running\n")
	b.WriteString(fmt.Sprintf("🎯 Symbols monitored: %d (%s)\n", h.UniverseSize, html.EscapeString(s.Title)))
	b.WriteString(fmt.Sprintf("⏰ Next check: every %s", humanDuration(h.NextCheck)))
	return b.String()
}

// FormatStartup formats the message sent when monitoring starts.
func FormatStartup(now time.Time, poll, heartbeat time.Duration, s Style) string {
	return fmt.Sprintf("🚀 <b>%s monitor started</b>\n\n🕒 Started: %s\n📊 Poll interval: %s\n💓 Heartbeat: every %s",
		html.EscapeString(s.Title), s.localTime(now).Format("2006-01-02 15:04:05"), humanDuration(poll), humanDuration(heartbeat))
}

// FormatShutdown formats the message sent on a clean stop.
func FormatShutdown(now time.Time, s Style) string {
	return fmt.Sprintf("⏹ <b>%s monitor stopped</b>\n🕒 %s",
		html.EscapeString(s.Title), s.localTime(now).Format("2006-01-02 15:04:05"))
}

// FormatPassError formats an unexpected scan pass failure.
func FormatPassError(now time.Time, err error, s Style) string {
	return fmt.Sprintf("❌ <b>%s system error</b>\n🕒 %s\n📝 %s",
		html.EscapeString(s.Title), s.localTime(now).Format("2006-01-02 15:04:05"), html.EscapeString(err.Error()))
}

func humanDuration(d time.Duration) string {
	switch {
	case d <= 0:
		return "n/a"
	case d%time.Hour == 0:
		return fmt.Sprintf("%dh", d/time.Hour)
	case d%time.Minute == 0:
		return fmt.Sprintf("%dm", d/time.Minute)
	default:
		return d.String()
	}
}
