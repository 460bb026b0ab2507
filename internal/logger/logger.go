package logger

import (
	"fmt"

	"github.com/rxtech-lab/fedfunds/internal/types"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps the zap logger with additional functionality.
type Logger struct {
	*zap.Logger
}

// NewLogger creates a new logger instance with production configuration at info level.
func NewLogger() (*Logger, error) {
	return NewLoggerWithLevel("info")
}

// NewLoggerWithLevel creates a production logger writing JSON to stdout at the given level
// (debug, info, warn or error).
func NewLoggerWithLevel(level string) (*Logger, error) {
	config := zap.NewProductionConfig()
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	config.Level = zap.NewAtomicLevelAt(parsed)

	zapLogger, err := config.Build()
	if err != nil {
		return nil, err
	}

	return &Logger{
		Logger: zapLogger,
	}, nil
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

// OrNop returns l, or a nop logger when l is nil.
func OrNop(l *Logger) *Logger {
	if l == nil || l.Logger == nil {
		return NewNopLogger()
	}

	return l
}

// With returns a child logger carrying the given fields.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{Logger: l.Logger.With(fields...)}
}

// Sync flushes any buffered log entries.
func (l *Logger) Sync() error {
	if l.Logger != nil {
		return l.Logger.Sync()
	}

	return nil
}

// LogSeriesPreview logs the first and last n observations of a series at debug level.
func (l *Logger) LogSeriesPreview(label string, series types.Series, n int) {
	if l == nil || l.Logger == nil || !l.Core().Enabled(zapcore.DebugLevel) {
		return
	}

	l.Debug("series preview",
		zap.String("label", label),
		zap.String("name", series.Name),
		zap.String("frequency", string(series.Frequency)),
		zap.Int("rows", series.Len()),
		zap.Strings("head", formatObservations(series.Head(n))),
		zap.Strings("tail", formatObservations(series.Tail(n))),
	)
}

func formatObservations(observations []types.Observation) []string {
	out := make([]string, 0, len(observations))
	for _, obs := range observations {
		value := obs.FormatValue()
		if obs.IsMissing() {
			value = "NaN"
		}

		out = append(out, obs.Date.String()+"="+value)
	}

	return out
}
