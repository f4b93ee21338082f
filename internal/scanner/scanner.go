package scanner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"CrossSentinel/internal/collector"
	"CrossSentinel/internal/logger"
	"CrossSentinel/internal/metrics"
	"CrossSentinel/internal/model"
	"CrossSentinel/internal/notifier"
	"CrossSentinel/internal/recorder"
	"CrossSentinel/internal/strategy"

	"go.uber.org/zap"
)

// Scanner runs one crossover scan pass over a market's universe.
type Scanner struct {
	Market       string
	Fetcher      collector.Fetcher
	Normalizer   collector.Normalizer
	Detector     *strategy.Detector
	LookbackDays int
	Notifier     notifier.Notifier
	Recorder     recorder.Recorder
	Style        notifier.Style
	Metrics      *metrics.Metrics
	MaxDuration  time.Duration // 0 means unbounded
	Now          func() time.Time
}

func (s *Scanner) validate() error {
	var errs []error
	if s.Fetcher == nil {
		errs = append(errs, errors.New("fetcher is required"))
	}
	if s.Detector == nil {
		errs = append(errs, errors.New("detector is required"))
	}
	if s.Notifier == nil {
		errs = append(errs, errors.New("notifier is required"))
	}
	if s.Recorder == nil {
		errs = append(errs, errors.New("recorder is required"))
	}
	if s.LookbackDays <= 0 {
		errs = append(errs, fmt.Errorf("lookback days must be positive, got %d", s.LookbackDays))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("scanner %s: %w", s.Market, err)
	}
	return nil
}

func (s *Scanner) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Run processes every symbol in order. Per-symbol failures are recorded and
// skipped; crossovers are notified as they are found and one summary is sent
// after the last symbol. Cancelling ctx (or exceeding MaxDuration) stops the
// pass after the symbol in flight and marks the result interrupted.
func (s *Scanner) Run(ctx context.Context, universe []model.Symbol) (*model.ScanResult, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}

	start := s.now()
	result := &model.ScanResult{Market: s.Market, StartedAt: start, Total: len(universe)}
	logger.Info("scan started",
		logger.String("market", s.Market),
		logger.Int("symbols", len(universe)),
		logger.String("source", s.Fetcher.Name()),
	)

	if s.MaxDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.MaxDuration)
		defer cancel()
	}
	// Work for the current symbol is finished even if ctx is cancelled mid-flight.
	work := context.WithoutCancel(ctx)

	for i, sym := range universe {
		if err := ctx.Err(); err != nil {
			result.Interrupted = true
			logger.Warn("scan interrupted",
				logger.String("market", s.Market),
				logger.Int("processed", result.Processed),
				logger.Int("total", result.Total),
				logger.ErrorField(err),
			)
			break
		}

		out := s.scanSymbol(work, sym)
		result.Add(out)
		s.handleOutcome(work, out)

		fields := []zap.Field{
			logger.String("market", s.Market),
			logger.String("symbol", sym.Code),
			logger.String("name", sym.Name),
			logger.String("result", out.Kind.String()),
			logger.Duration("symbol_elapsed", out.Elapsed),
			logger.Duration("total_elapsed", s.now().Sub(start)),
		}
		if out.Failed() {
			fields = append(fields, logger.ErrorField(out.Err))
		} else {
			fields = append(fields, logger.Float64("price", out.Price))
		}
		logger.Info(fmt.Sprintf("[%d/%d] %s done", i+1, len(universe), sym.Code), fields...)
	}

	result.Elapsed = s.now().Sub(start)
	s.Metrics.ObserveScan(s.Market, result.Elapsed)
	logger.Info("scan completed",
		logger.String("market", s.Market),
		logger.Int("golden", result.Golden),
		logger.Int("dead", result.Dead),
		logger.Int("failed", result.Failed),
		logger.Duration("elapsed", result.Elapsed),
		logger.Bool("interrupted", result.Interrupted),
	)
	s.notify(work, notifier.FormatSummary(result, s.now(), s.Style))
	return result, nil
}

func (s *Scanner) scanSymbol(ctx context.Context, sym model.Symbol) model.SymbolOutcome {
	start := s.now()
	out := model.SymbolOutcome{Symbol: sym}

	series, err := s.Fetcher.FetchDailySeries(ctx, s.Normalizer.Normalize(sym.Code), s.LookbackDays)
	if err == nil {
		out.Kind, out.Price, err = s.Detector.Evaluate(series)
		if last, ok := series.Last(); ok {
			out.Date = last.Date
		}
	}
	out.Err = err
	out.Elapsed = s.now().Sub(start)
	return out
}

func (s *Scanner) handleOutcome(ctx context.Context, out model.SymbolOutcome) {
	switch {
	case out.Failed():
		reason := model.FailureReason(out.Err)
		s.Metrics.SymbolFailure(s.Market, reason)
		rec := &recorder.FailureRecord{
			Timestamp: s.now(),
			Market:    s.Market,
			Symbol:    out.Symbol.Code,
			Reason:    reason,
			Error:     out.Err.Error(),
		}
		if err := s.Recorder.RecordFailure(rec); err != nil {
			logger.Error("record failure",
				logger.String("market", s.Market),
				logger.String("symbol", out.Symbol.Code),
				logger.ErrorField(err),
			)
		}
	case out.Kind == model.CrossGolden || out.Kind == model.CrossDead:
		s.Metrics.Crossover(s.Market, out.Kind.String())
		evt := model.CrossoverEvent{
			Market:     s.Market,
			Symbol:     out.Symbol,
			Kind:       out.Kind,
			Price:      out.Price,
			Date:       out.Date,
			DetectedAt: s.now(),
		}
		logger.Info("crossover detected",
			logger.String("market", s.Market),
			logger.String("symbol", out.Symbol.Code),
			logger.String("kind", out.Kind.String()),
			logger.Float64("price", out.Price),
		)
		s.notify(ctx, notifier.FormatCrossover(evt, s.Style))
	}
}

func (s *Scanner) notify(ctx context.Context, text string) {
	if err := s.Notifier.Send(ctx, text); err != nil {
		s.Metrics.NotificationFailed(s.Market)
		logger.Error("send notification",
			logger.String("market", s.Market),
			logger.ErrorField(err),
		)
	}
}
