package observability

import (
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log field keys.
const (
	FieldStep       = "step"
	FieldDurationMS = "duration_ms"
	FieldRunID      = "run_id"
)

// NewLogger builds a zap logger writing to stderr. json selects the JSON
// encoder over the console encoder; debug lowers the level to debug.
func NewLogger(json bool, debug bool) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	encoding := "console"

	if json {
		encoding = "json"
	}

	if debug {
		level = zapcore.DebugLevel
	}

	cfg := zap.Config{
		Encoding:         encoding,
		Level:            zap.NewAtomicLevelAt(level),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey: "msg",

			LevelKey:    "level",
			EncodeLevel: zapcore.LowercaseLevelEncoder,

			TimeKey:    "time",
			EncodeTime: zapcore.RFC3339TimeEncoder,

			CallerKey:    "caller",
			EncodeCaller: zapcore.ShortCallerEncoder,

			EncodeDuration: zapcore.MillisDurationEncoder,
		},
	}
	return cfg.Build()
}

// OrNop returns logger, or a no-op logger when it is nil.
func OrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// Timed runs fn and logs "step_done" with the step name and elapsed
// milliseconds. Failures are logged as "step_failed" and returned unchanged.
func Timed(logger *zap.Logger, step string, fn func() error) error {
	logger = OrNop(logger)
	start := time.Now()
	err := fn()
	fields := []zap.Field{
		zap.String(FieldStep, step),
		zap.Int64(FieldDurationMS, time.Since(start).Milliseconds()),
	}
	if err != nil {
		logger.Warn("step_failed", append(fields, zap.Error(err))...)
		return err
	}
	logger.Info("step_done", fields...)
	return nil
}

// TruncateForLog shortens s to limit runes, appending an ellipsis when truncated.
func TruncateForLog(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
