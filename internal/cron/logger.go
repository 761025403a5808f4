package cron

import (
	cronv3 "github.com/robfig/cron/v3"

	"github.com/customeros/sleeper/internal/logger"
)

type cronLogger struct {
	log logger.Logger
}

// NewCronLogger routes cron's own logging to the application logger.
func NewCronLogger(log logger.Logger) cronv3.Logger {
	return &cronLogger{log: log}
}

func (l *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Sugar().Debugw(msg, keysAndValues...)
}

func (l *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
