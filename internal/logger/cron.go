package logger

// CronLogger adapts the global logger to robfig/cron's Logger interface.
type CronLogger struct{}

func (CronLogger) Info(msg string, keysAndValues ...interface{}) {
	Get().Sugar().Debugw("cron: "+msg, keysAndValues...)
}

func (CronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	Get().Sugar().Errorw("cron: "+msg, append(keysAndValues, "error", err)...)
}
