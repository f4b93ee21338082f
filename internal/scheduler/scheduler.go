package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"CrossSentinel/internal/logger"
	"CrossSentinel/internal/notifier"

	"github.com/robfig/cron/v3"
)

// Market bundles the scheduled tasks of one monitored market.
type Market struct {
	Monitor      *Monitor
	Heartbeat    *Heartbeat
	PollInterval time.Duration

	poll cron.Job
	beat cron.Job
}

// Scheduler manages the poll and heartbeat tasks of every market.
type Scheduler struct {
	Cron       *cron.Cron
	Markets    []*Market
	RunOnStart bool // first poll tick at Start instead of one interval later
	Now        func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler creates a new Scheduler. Cancelling ctx interrupts running
// passes after their current symbol.
func NewScheduler(ctx context.Context, loc *time.Location, markets []*Market) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	ctx, cancel := context.WithCancel(ctx)
	return &Scheduler{
		Cron:       cron.New(cron.WithSeconds(), cron.WithLocation(loc), cron.WithLogger(logger.CronLogger{})),
		Markets:    markets,
		RunOnStart: true,
		Now:        time.Now,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// RegisterAll registers a poll task and a heartbeat task per market. Poll
// ticks never overlap: a tick that fires while a pass is running is skipped.
func (s *Scheduler) RegisterAll() error {
	cl := logger.CronLogger{}
	for _, m := range s.Markets {
		if m.PollInterval <= 0 {
			return fmt.Errorf("market %s: poll interval must be positive", m.Monitor.Market)
		}
		mon := m.Monitor
		m.poll = cron.NewChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)).
			Then(cron.FuncJob(func() { mon.Tick(s.ctx) }))
		if _, err := s.Cron.AddJob(every(m.PollInterval), m.poll); err != nil {
			return fmt.Errorf("register %s poll task: %w", mon.Market, err)
		}

		if m.Heartbeat == nil || m.Heartbeat.Interval <= 0 {
			continue
		}
		hb := m.Heartbeat
		m.beat = cron.NewChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)).
			Then(cron.FuncJob(func() { hb.Beat(s.ctx) }))
		if _, err := s.Cron.AddJob(every(hb.Interval), m.beat); err != nil {
			return fmt.Errorf("register %s heartbeat task: %w", mon.Market, err)
		}
	}
	return nil
}

func every(d time.Duration) string {
	return "@every " + d.String()
}

// Start sends the startup notifications, starts the cron scheduler and sends
// the first heartbeat of every market right away.
func (s *Scheduler) Start() {
	for _, m := range s.Markets {
		var hbInterval time.Duration
		if m.Heartbeat != nil {
			hbInterval = m.Heartbeat.Interval
		}
		s.send(s.ctx, m, notifier.FormatStartup(s.Now(), m.PollInterval, hbInterval, m.Monitor.Style))
	}
	s.Cron.Start()
	logger.Info("scheduler started", logger.Int("markets", len(s.Markets)))

	for _, m := range s.Markets {
		s.fire(m.beat)
	}
	if s.RunOnStart {
		s.RunNow()
	}
}

// RunNow fires one poll tick per market in the background, subject to the
// same no-overlap rule as scheduled ticks.
func (s *Scheduler) RunNow() {
	for _, m := range s.Markets {
		s.fire(m.poll)
	}
}

func (s *Scheduler) fire(job cron.Job) {
	if job == nil {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		job.Run()
	}()
}

// Stop interrupts running passes, waits for them to finish (bounded by ctx)
// and sends one shutdown notification per market.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.cancel()
	cronDone := s.Cron.Stop()

	done := make(chan struct{})
	go func() {
		<-cronDone.Done()
		s.wg.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
	case <-ctx.Done():
		err = fmt.Errorf("wait for running tasks: %w", ctx.Err())
	}

	for _, m := range s.Markets {
		if last := m.Monitor.LastResult(); last != nil {
			logger.Info("last scan pass",
				logger.String("market", last.Market),
				logger.Time("started_at", last.StartedAt),
				logger.Int("processed", last.Processed),
				logger.Int("golden", last.Golden),
				logger.Int("dead", last.Dead),
				logger.Int("failed", last.Failed),
				logger.Bool("interrupted", last.Interrupted),
			)
		}
		s.send(ctx, m, notifier.FormatShutdown(s.Now(), m.Monitor.Style))
	}
	logger.Info("scheduler stopped")
	return err
}

func (s *Scheduler) send(ctx context.Context, m *Market, text string) {
	if err := m.Monitor.Notifier.Send(ctx, text); err != nil {
		m.Monitor.Metrics.NotificationFailed(m.Monitor.Market)
		logger.Error("send lifecycle notification",
			logger.String("market", m.Monitor.Market),
			logger.ErrorField(err),
		)
	}
}
