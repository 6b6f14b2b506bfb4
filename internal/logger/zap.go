package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "bms-proxy"

// Logger wraps zap's SugaredLogger.
type Logger struct {
	*zap.SugaredLogger
}

var levels = map[string]zapcore.Level{
	DebugLevel: zapcore.DebugLevel,
	InfoLevel:  zapcore.InfoLevel,
	WarnLevel:  zapcore.WarnLevel,
	ErrorLevel: zapcore.ErrorLevel,
}

// toZapLevel maps a config level string onto zapcore, falling back to info.
func toZapLevel(levelStr string) zapcore.Level {
	if lvl, ok := levels[strings.ToLower(strings.TrimSpace(levelStr))]; ok {
		return lvl
	}
	return zapcore.InfoLevel
}

func newEncoder(jsonOutput bool) zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	cfg.EncodeTime = zapcore.RFC3339TimeEncoder
	if jsonOutput {
		cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
		return zapcore.NewJSONEncoder(cfg)
	}
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

func newZapLogger(levelStr string, jsonOutput bool) *Logger {
	core := zapcore.NewCore(
		newEncoder(jsonOutput),
		zapcore.Lock(os.Stdout),
		zap.NewAtomicLevelAt(toZapLevel(levelStr)),
	)
	return &Logger{SugaredLogger: zap.New(core).Sugar().Named(serviceName)}
}

func newNopLogger() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}
