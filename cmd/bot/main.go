package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"CrossSentinel/internal/collector"
	"CrossSentinel/internal/config"
	"CrossSentinel/internal/logger"
	"CrossSentinel/internal/metrics"
	"CrossSentinel/internal/notifier"
	"CrossSentinel/internal/recorder"
	"CrossSentinel/internal/scanner"
	"CrossSentinel/internal/scheduler"
	"CrossSentinel/internal/strategy"
	"CrossSentinel/internal/universe"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.LogLevel, cfg.Environment); err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}

	logger.Info("CrossSentinel starting...", logger.String("config", cfgPath))
	if err := run(cfg); err != nil {
		logger.Error("CrossSentinel exited", logger.ErrorField(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

// run wires every component, blocks until SIGINT/SIGTERM and stops gracefully.
// Resources opened here are released on every return path.
func run(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone: %w", err)
	}

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Init metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	// Init shared recorder
	var shared recorder.Recorder = recorder.NewNoopRecorder()
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			logger.Warn("init sqlite recorder failed, using noop", logger.ErrorField(err))
		} else {
			shared = sr
			defer sr.Close()
		}
	}

	// Init markets
	markets := make([]*scheduler.Market, 0, len(cfg.Markets))
	for i := range cfg.Markets {
		mk, closer, err := buildMarket(cfg, &cfg.Markets[i], shared, m)
		if err != nil {
			return fmt.Errorf("init market %s: %w", cfg.Markets[i].Name, err)
		}
		if closer != nil {
			defer closer.Close()
		}
		markets = append(markets, mk)
	}

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, loc, markets)
	sched.RunOnStart = cfg.RunOnStart
	if err := sched.RegisterAll(); err != nil {
		return fmt.Errorf("register cron tasks: %w", err)
	}

	if cfg.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.MetricsAddr, reg); err != nil {
				logger.Error("metrics endpoint", logger.ErrorField(err))
			}
		}()
	}

	sched.Start()
	if cfg.RunOnStart {
		logger.Info("RUN_ON_START enabled, first poll tick fired")
	}
	logger.Info("CrossSentinel is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	<-ctx.Done()
	logger.Info("shutdown signal received, stopping...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := sched.Stop(shutdownCtx); err != nil {
		logger.Warn("scheduler did not stop cleanly", logger.ErrorField(err))
	}
	logger.Info("CrossSentinel stopped")
	return nil
}

// buildMarket wires the collaborators of one market. The returned closer owns
// the market's failure log file.
func buildMarket(cfg *config.Config, mc *config.Market, shared recorder.Recorder, m *metrics.Metrics) (*scheduler.Market, io.Closer, error) {
	window, err := mc.Window()
	if err != nil {
		return nil, nil, err
	}
	style := notifier.Style{
		Title:         mc.Title,
		Currency:      mc.Currency,
		PriceDecimals: mc.PriceDecimals,
		Location:      window.Location,
	}

	var fetcher collector.Fetcher
	switch mc.DataSource.Provider {
	case "alpaca":
		fetcher = collector.NewAlpacaFetcher(mc.DataSource.APIKey, mc.DataSource.APISecret)
	case "mock":
		fetcher = &collector.MockFetcher{Price: 100}
	default:
		fetcher = collector.NewYahooFetcher(cfg.Proxy)
	}

	var provider universe.Provider
	switch mc.Universe.Source {
	case "csv":
		provider = universe.NewCSVProvider(mc.Universe.URL, nil)
	default:
		if mc.Universe.File == "" {
			provider = universe.KOSPI200()
		} else {
			sp, err := universe.LoadStaticFile(mc.Universe.File)
			if err != nil {
				return nil, nil, err
			}
			provider = sp
		}
	}
	provider = universe.NewCache(provider, mc.Universe.TTL)

	detector, err := strategy.NewDetector(mc.Strategy.ShortWindow, mc.Strategy.LongWindow, mc.Strategy.MinBars)
	if err != nil {
		return nil, nil, err
	}

	tn := notifier.NewTelegramNotifier(mc.Telegram.BotToken, mc.Telegram.ChatID, cfg.Proxy)

	rec := recorder.MultiRecorder{shared}
	var closer io.Closer
	if mc.FailureLog != "" {
		fr, err := recorder.NewFileRecorder(mc.FailureLog)
		if err != nil {
			return nil, nil, err
		}
		rec = append(rec, fr)
		closer = fr
	}

	logger.Info("market configured",
		logger.String("market", mc.Name),
		logger.String("data_source", fetcher.Name()),
		logger.String("universe", provider.Name()),
		logger.Bool("telegram", tn.Configured()),
	)

	return &scheduler.Market{
		Monitor: &scheduler.Monitor{
			Market:   mc.Name,
			Window:   window,
			Universe: provider,
			Scanner: &scanner.Scanner{
				Market:       mc.Name,
				Fetcher:      fetcher,
				Normalizer:   mc.Normalizer(),
				Detector:     detector,
				LookbackDays: mc.Strategy.LookbackDays,
				Notifier:     tn,
				Recorder:     rec,
				Style:        style,
				Metrics:      m,
				MaxDuration:  mc.Schedule.MaxScanDuration,
			},
			Notifier:     tn,
			Style:        style,
			NotifyErrors: mc.NotifyErrors,
			Metrics:      m,
		},
		Heartbeat: &scheduler.Heartbeat{
			Market:       mc.Name,
			Universe:     provider,
			Notifier:     tn,
			Style:        style,
			Interval:     mc.Schedule.HeartbeatInterval,
			PollInterval: mc.Schedule.PollInterval,
			Metrics:      m,
		},
		PollInterval: mc.Schedule.PollInterval,
	}, closer, nil
}
