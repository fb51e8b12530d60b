package logger

import "go.uber.org/zap"

var log *zap.Logger

func init() {
	log, _ = zap.NewProduction()
}

// Info logs at info level.
func Info(msg string, fields ...zap.Field) {
	log.Info(msg, fields...)
}

// Error logs at error level.
func Error(msg string, fields ...zap.Field) {
	log.Error(msg, fields...)
}

// Debug logs at debug level.
func Debug(msg string, fields ...zap.Field) {
	log.Debug(msg, fields...)
}
