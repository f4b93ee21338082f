package scheduler

import (
	"context"
	"time"

	"CrossSentinel/internal/logger"
	"CrossSentinel/internal/metrics"
	"CrossSentinel/internal/notifier"
	"CrossSentinel/internal/universe"
)

// Heartbeat sends periodic liveness messages for one market.
type Heartbeat struct {
	Market       string
	Universe     universe.Provider
	Notifier     notifier.Notifier
	Style        notifier.Style
	Interval     time.Duration
	PollInterval time.Duration
	Metrics      *metrics.Metrics
	Now          func() time.Time
}

// Beat sends one heartbeat carrying the current universe size. Delivery
// failures are logged.
func (h *Heartbeat) Beat(ctx context.Context) {
	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}
	size := len(universe.Load(ctx, h.Universe))
	h.Metrics.Heartbeat(h.Market)

	msg := notifier.FormatHeartbeat(notifier.HeartbeatStatus{
		Time:         now,
		UniverseSize: size,
		NextCheck:    h.PollInterval,
	}, h.Style)
	if err := h.Notifier.Send(ctx, msg); err != nil {
		h.Metrics.NotificationFailed(h.Market)
		logger.Error("send heartbeat",
			logger.String("market", h.Market),
			logger.ErrorField(err),
		)
		return
	}
	logger.Info("heartbeat sent",
		logger.String("market", h.Market),
		logger.Int("symbols", size),
	)
}
