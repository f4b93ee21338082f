package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"CrossSentinel/internal/collector"
	"CrossSentinel/internal/model"
	"CrossSentinel/internal/universe"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Telegram holds bot credentials.
type Telegram struct {
	BotToken string `yaml:"bot_token"`
	ChatID   string `yaml:"chat_id"`
}

// Universe selects where a market's symbol list comes from.
type Universe struct {
	Source string        `yaml:"source"` // static | csv
	File   string        `yaml:"file"`   // static: YAML list; empty uses the embedded KOSPI 200
	URL    string        `yaml:"url"`    // csv: constituents CSV
	TTL    time.Duration `yaml:"ttl"`    // 0 refetches on every use
}

// DataSource selects the daily price provider.
type DataSource struct {
	Provider      string            `yaml:"provider"` // yahoo | alpaca | mock
	SymbolSuffix  string            `yaml:"symbol_suffix"`
	SymbolReplace map[string]string `yaml:"symbol_replace"`
	APIKey        string            `yaml:"api_key"`
	APISecret     string            `yaml:"api_secret"`
}

// Strategy holds the moving-average parameters.
type Strategy struct {
	ShortWindow  int `yaml:"short_window"`
	LongWindow   int `yaml:"long_window"`
	MinBars      int `yaml:"min_bars"`
	LookbackDays int `yaml:"lookback_days"`
}

// Schedule holds the active window and task cadence.
type Schedule struct {
	Weekdays          string        `yaml:"weekdays"`
	StartHour         int           `yaml:"start_hour"`
	EndHour           int           `yaml:"end_hour"`
	Timezone          string        `yaml:"timezone"`
	PollInterval      time.Duration `yaml:"poll_interval"`
	HeartbeatInterval time.Duration `yaml:"heartbeat_interval"`
	MaxScanDuration   time.Duration `yaml:"max_scan_duration"`
}

// Market is the configuration of one monitored market.
type Market struct {
	Name          string     `yaml:"name"`
	Title         string     `yaml:"title"`
	EnvPrefix     string     `yaml:"env_prefix"`
	Currency      string     `yaml:"currency"`
	PriceDecimals int32      `yaml:"price_decimals"`
	Universe      Universe   `yaml:"universe"`
	DataSource    DataSource `yaml:"data_source"`
	Strategy      Strategy   `yaml:"strategy"`
	Schedule      Schedule   `yaml:"schedule"`
	FailureLog    string     `yaml:"failure_log"`
	NotifyErrors  bool       `yaml:"notify_errors"`
	Telegram      Telegram   `yaml:"telegram"`
}

// Config holds all application configuration.
type Config struct {
	LogLevel    string   `yaml:"log_level"`
	Environment string   `yaml:"environment"`
	Proxy       string   `yaml:"proxy"`
	MetricsAddr string   `yaml:"metrics_addr"`
	RunOnStart  bool     `yaml:"run_on_start"` // defaults to true
	Timezone    string   `yaml:"timezone"`
	Telegram    Telegram `yaml:"telegram"`
	Database    struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Markets []Market `yaml:"markets"`
}

// DefaultMarkets returns the KOSPI 200 and S&P 500 monitors.
func DefaultMarkets() []Market {
	return []Market{
		{
			Name:          "kospi",
			Title:         "KOSPI 200",
			EnvPrefix:     "KOSPI_GOLDEN_DEAD_CROSS",
			Currency:      "₩",
			PriceDecimals: 0,
			Universe:      Universe{Source: "static"},
			DataSource:    DataSource{Provider: "yahoo", SymbolSuffix: ".KS"},
			Strategy:      Strategy{ShortWindow: 5, LongWindow: 20, MinBars: 200, LookbackDays: 365},
			Schedule:      Schedule{Weekdays: "mon-fri", StartHour: 9, EndHour: 16},
			FailureLog:    "failed_kospi_tickers.log",
			NotifyErrors:  true,
		},
		{
			Name:          "sp500",
			Title:         "S&P 500",
			EnvPrefix:     "SNP500_GOLDEN_DEAD_CROSS",
			Currency:      "$",
			PriceDecimals: 2,
			Universe:      Universe{Source: "csv", URL: universe.SP500ConstituentsURL},
			DataSource:    DataSource{Provider: "yahoo", SymbolReplace: map[string]string{".": "-"}},
			Strategy:      Strategy{ShortWindow: 5, LongWindow: 20, MinBars: 25, LookbackDays: 92},
			Schedule:      Schedule{Weekdays: "mon-fri", StartHour: 18, EndHour: 6},
			FailureLog:    "failed_snp_tickers.log",
			NotifyErrors:  true,
		},
	}
}

// Load reads .env and the YAML file, then applies environment overrides and
// defaults. A missing file yields the default markets.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{RunOnStart: true}
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.Telegram.BotToken, "TELEGRAM_BOT_TOKEN")
	setString(&c.Telegram.ChatID, "TELEGRAM_CHAT_ID")
	setString(&c.Proxy, "HTTPS_PROXY")
	setString(&c.Database.SQLitePath, "SQLITE_PATH")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.Environment, "ENVIRONMENT")
	setString(&c.MetricsAddr, "METRICS_ADDR")
	if v := os.Getenv("RUN_ON_START"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.RunOnStart = b
		}
	}

	if len(c.Markets) == 0 {
		c.Markets = DefaultMarkets()
	}
	for i := range c.Markets {
		m := &c.Markets[i]
		if m.EnvPrefix == "" {
			m.EnvPrefix = strings.ToUpper(m.Name)
		}
		setString(&m.Telegram.BotToken, m.EnvPrefix+"_TELEGRAM_BOT_TOKEN")
		setString(&m.Telegram.ChatID, m.EnvPrefix+"_TELEGRAM_CHAT_ID")
		if m.DataSource.Provider == "alpaca" {
			setString(&m.DataSource.APIKey, "ALPACA_API_KEY")
			setString(&m.DataSource.APISecret, "ALPACA_API_SECRET")
		}
	}
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Environment == "" {
		c.Environment = "production"
	}
	if c.Timezone == "" {
		c.Timezone = "Asia/Seoul"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/cross_sentinel.db"
	}

	for i := range c.Markets {
		m := &c.Markets[i]
		if m.Title == "" {
			m.Title = m.Name
		}
		if m.Telegram.BotToken == "" {
			m.Telegram.BotToken = c.Telegram.BotToken
		}
		if m.Telegram.ChatID == "" {
			m.Telegram.ChatID = c.Telegram.ChatID
		}
		if m.Universe.Source == "" {
			m.Universe.Source = "static"
		}
		if m.DataSource.Provider == "" {
			m.DataSource.Provider = "yahoo"
		}
		if m.Strategy.ShortWindow == 0 {
			m.Strategy.ShortWindow = 5
		}
		if m.Strategy.LongWindow == 0 {
			m.Strategy.LongWindow = 20
		}
		if m.Strategy.LookbackDays == 0 {
			m.Strategy.LookbackDays = 92
		}
		if m.Schedule.Weekdays == "" {
			m.Schedule.Weekdays = "mon-fri"
		}
		if m.Schedule.Timezone == "" {
			m.Schedule.Timezone = c.Timezone
		}
		if m.Schedule.PollInterval == 0 {
			m.Schedule.PollInterval = 10 * time.Minute
		}
		if m.Schedule.HeartbeatInterval == 0 {
			m.Schedule.HeartbeatInterval = time.Hour
		}
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if len(c.Markets) == 0 {
		return fmt.Errorf("at least one market is required")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("timezone: %w", err)
	}
	seen := make(map[string]bool)
	var errs []error
	for i := range c.Markets {
		m := &c.Markets[i]
		if m.Name == "" {
			errs = append(errs, fmt.Errorf("markets[%d].name is required", i))
			continue
		}
		if seen[m.Name] {
			errs = append(errs, fmt.Errorf("market %s: duplicate name", m.Name))
		}
		seen[m.Name] = true
		if err := m.validate(); err != nil {
			errs = append(errs, fmt.Errorf("market %s: %w", m.Name, err))
		}
	}
	return errors.Join(errs...)
}

func (m *Market) validate() error {
	s := m.Strategy
	if s.ShortWindow <= 0 || s.LongWindow <= s.ShortWindow {
		return fmt.Errorf("strategy windows %d/%d: %w", s.ShortWindow, s.LongWindow, model.ErrInvalidWindow)
	}
	if s.MinBars < 0 {
		return fmt.Errorf("strategy.min_bars must not be negative")
	}
	if s.LookbackDays <= 0 {
		return fmt.Errorf("strategy.lookback_days must be positive")
	}
	if _, err := m.Window(); err != nil {
		return err
	}
	if m.Schedule.PollInterval < time.Second {
		return fmt.Errorf("schedule.poll_interval must be at least 1s")
	}
	if m.Schedule.HeartbeatInterval < 0 {
		return fmt.Errorf("schedule.heartbeat_interval must not be negative")
	}
	if m.Schedule.MaxScanDuration < 0 {
		return fmt.Errorf("schedule.max_scan_duration must not be negative")
	}

	switch m.Universe.Source {
	case "static":
	case "csv":
		if m.Universe.URL == "" {
			return fmt.Errorf("universe.url is required for csv source")
		}
	default:
		return fmt.Errorf("unknown universe source %q", m.Universe.Source)
	}

	switch m.DataSource.Provider {
	case "yahoo", "mock":
	case "alpaca":
		if m.DataSource.APIKey == "" || m.DataSource.APISecret == "" {
			return fmt.Errorf("alpaca data source requires api_key and api_secret")
		}
	default:
		return fmt.Errorf("unknown data source provider %q", m.DataSource.Provider)
	}
	return nil
}

// Window builds the market's schedule window.
func (m *Market) Window() (model.ScheduleWindow, error) {
	days, err := model.ParseWeekdays(m.Schedule.Weekdays)
	if err != nil {
		return model.ScheduleWindow{}, fmt.Errorf("schedule.weekdays: %w", err)
	}
	sc := m.Schedule
	if sc.StartHour < 0 || sc.StartHour > 23 || sc.EndHour < 0 || sc.EndHour > 24 {
		return model.ScheduleWindow{}, fmt.Errorf("schedule hours %d-%d out of range", sc.StartHour, sc.EndHour)
	}
	if sc.StartHour == sc.EndHour {
		return model.ScheduleWindow{}, fmt.Errorf("schedule window %d-%d is empty", sc.StartHour, sc.EndHour)
	}
	loc, err := time.LoadLocation(sc.Timezone)
	if err != nil {
		return model.ScheduleWindow{}, fmt.Errorf("schedule.timezone: %w", err)
	}
	return model.ScheduleWindow{Weekdays: days, StartHour: sc.StartHour, EndHour: sc.EndHour, Location: loc}, nil
}

// Normalizer builds the symbol normalizer for the market's data source.
func (m *Market) Normalizer() collector.Normalizer {
	return collector.Normalizer{Replace: m.DataSource.SymbolReplace, Suffix: m.DataSource.SymbolSuffix}
}
