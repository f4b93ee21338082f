package scheduler

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync/atomic"
	"time"

	"CrossSentinel/internal/logger"
	"CrossSentinel/internal/metrics"
	"CrossSentinel/internal/model"
	"CrossSentinel/internal/notifier"
	"CrossSentinel/internal/recorder"
	"CrossSentinel/internal/scanner"
	"CrossSentinel/internal/universe"
)

// State is the run loop state of a market monitor.
type State int32

const (
	StateIdle     State = iota // outside the active window
	StateScanning              // inside the window, pass running or just completed
)

func (s State) String() string {
	if s == StateScanning {
		return "scanning"
	}
	return "idle"
}

// Monitor drives scan passes for one market on each poll tick.
type Monitor struct {
	Market       string
	Window       model.ScheduleWindow
	Universe     universe.Provider
	Scanner      *scanner.Scanner
	Notifier     notifier.Notifier
	Style        notifier.Style
	NotifyErrors bool
	Metrics      *metrics.Metrics
	Now          func() time.Time

	state atomic.Int32
	last  atomic.Pointer[model.ScanResult]
}

func (m *Monitor) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

// State returns the current run loop state.
func (m *Monitor) State() State { return State(m.state.Load()) }

// LastResult returns the most recent completed pass, or nil.
func (m *Monitor) LastResult() *model.ScanResult { return m.last.Load() }

func (m *Monitor) setState(s State) {
	if prev := State(m.state.Swap(int32(s))); prev != s {
		logger.Info("monitor state changed",
			logger.String("market", m.Market),
			logger.String("from", prev.String()),
			logger.String("to", s.String()),
		)
	}
}

// Tick evaluates the schedule gate and, inside the window, runs one full
// pass synchronously. Pass errors and panics are contained here.
func (m *Monitor) Tick(ctx context.Context) {
	now := m.now()
	if !ShouldRunNow(now, m.Window) {
		m.setState(StateIdle)
		m.Metrics.ScanSkipped(m.Market)
		logger.Debug("outside scan window, skipping",
			logger.String("market", m.Market),
			logger.Time("now", now),
		)
		return
	}

	m.setState(StateScanning)
	if err := m.runPass(ctx); err != nil {
		m.Metrics.PassError(m.Market)
		logger.Error("scan pass failed",
			logger.String("market", m.Market),
			logger.ErrorField(err),
		)
		m.recordPassError(err)
		if m.NotifyErrors {
			if serr := m.Notifier.Send(context.WithoutCancel(ctx), notifier.FormatPassError(m.now(), err, m.Style)); serr != nil {
				m.Metrics.NotificationFailed(m.Market)
				logger.Error("send pass error notification",
					logger.String("market", m.Market),
					logger.ErrorField(serr),
				)
			}
		}
	}
}

func (m *Monitor) recordPassError(err error) {
	if m.Scanner == nil || m.Scanner.Recorder == nil {
		return
	}
	rec := &recorder.FailureRecord{
		Timestamp: m.now(),
		Market:    m.Market,
		Reason:    model.ReasonUnexpected,
		Error:     err.Error(),
	}
	if rerr := m.Scanner.Recorder.RecordFailure(rec); rerr != nil {
		logger.Error("record pass error",
			logger.String("market", m.Market),
			logger.ErrorField(rerr),
		)
	}
}

func (m *Monitor) runPass(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("scan pass panicked",
				logger.String("market", m.Market),
				logger.Any("panic", r),
				logger.String("stack", string(debug.Stack())),
			)
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	symbols := universe.Load(ctx, m.Universe)
	if len(symbols) == 0 {
		logger.Warn("empty universe, nothing to scan", logger.String("market", m.Market))
	}
	result, err := m.Scanner.Run(ctx, symbols)
	if err != nil {
		return fmt.Errorf("run scan: %w", err)
	}
	m.last.Store(result)
	return nil
}
