package logger

import (
	"strings"
	"sync"
)

// Log levels accepted by the log_level config key.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

const productionEnv = "production"

var (
	globalLogger *Logger
	once         sync.Once
)

// Get returns the process-wide console logger. Only the first call's level is used.
func Get(level string) *Logger {
	return GetForEnv(level, "")
}

// GetForEnv is Get with the encoding picked from the deployment environment:
// JSON lines in production, console text elsewhere.
func GetForEnv(level, environment string) *Logger {
	once.Do(func() {
		globalLogger = newZapLogger(level, isProduction(environment))
	})
	return globalLogger
}

func isProduction(environment string) bool {
	return strings.EqualFold(strings.TrimSpace(environment), productionEnv)
}

// Nop returns a logger that discards everything. Used by tests and by
// components constructed without a logger.
func Nop() *Logger {
	return newNopLogger()
}
