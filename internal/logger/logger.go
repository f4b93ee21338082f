package logger

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu           sync.RWMutex
	globalLogger *zap.Logger
)

// Init initializes the global logger. environment "development" selects a
// human-readable console encoder; anything else logs JSON.
func Init(level string, environment string) error {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if environment == "development" {
		config = zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zapLevel)
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	l, err := config.Build(
		zap.AddCaller(),
		zap.AddCallerSkip(1),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	Set(l)
	return nil
}

// Set replaces the global logger.
func Set(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	globalLogger = l
}

// Get returns the global logger
func Get() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if globalLogger == nil {
		return zap.NewNop()
	}
	return globalLogger
}

// Sync flushes any buffered log entries
func Sync() error {
	return Get().Sync()
}

func Debug(msg string, fields ...zap.Field) { Get().Debug(msg, fields...) }
func Info(msg string, fields ...zap.Field)  { Get().Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { Get().Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { Get().Error(msg, fields...) }
func Fatal(msg string, fields ...zap.Field) { Get().Fatal(msg, fields...) }

// String returns a zap.Field for a string
func String(key, value string) zap.Field { return zap.String(key, value) }

// Int returns a zap.Field for an int
func Int(key string, value int) zap.Field { return zap.Int(key, value) }

// Float64 returns a zap.Field for a float64
func Float64(key string, value float64) zap.Field { return zap.Float64(key, value) }

// Bool returns a zap.Field for a bool
func Bool(key string, value bool) zap.Field { return zap.Bool(key, value) }

// Duration returns a zap.Field for a time.Duration
func Duration(key string, value time.Duration) zap.Field { return zap.Duration(key, value) }

// Time returns a zap.Field for a time.Time
func Time(key string, value time.Time) zap.Field { return zap.Time(key, value) }

// ErrorField returns a zap.Field for an error
func ErrorField(err error) zap.Field { return zap.Error(err) }

// Any returns a zap.Field for any value
func Any(key string, value interface{}) zap.Field { return zap.Any(key, value) }
