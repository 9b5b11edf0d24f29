package logger

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/lmittmann/tint"

	"tradeJournal/internal/ports"
)

// PrettyLogger implements ports.Logger with log/slog and a colored tint handler.
type PrettyLogger struct {
	logger *slog.Logger
}

// NewPrettyLogger creates a tint-backed logger writing to w.
func NewPrettyLogger(w io.Writer, level LogLevel, noColor bool) *PrettyLogger {
	h := tint.NewHandler(w, &tint.Options{
		Level:      level.slogLevel(),
		TimeFormat: time.Kitchen,
		NoColor:    noColor,
	})
	return &PrettyLogger{logger: slog.New(h)}
}

func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func attrs(err error, fields []ports.Fields) []any {
	var out []any
	if err != nil {
		out = append(out, tint.Err(err))
	}
	if len(fields) == 0 {
		return out
	}
	keys := make([]string, 0, len(fields[0]))
	for k := range fields[0] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, slog.Any(k, fields[0][k]))
	}
	return out
}

func (p *PrettyLogger) Debug(ctx context.Context, msg string, fields ...ports.Fields) {
	p.logger.DebugContext(ctx, msg, attrs(nil, fields)...)
}

func (p *PrettyLogger) Info(ctx context.Context, msg string, fields ...ports.Fields) {
	p.logger.InfoContext(ctx, msg, attrs(nil, fields)...)
}

func (p *PrettyLogger) Warn(ctx context.Context, msg string, fields ...ports.Fields) {
	p.logger.WarnContext(ctx, msg, attrs(nil, fields)...)
}

func (p *PrettyLogger) Error(ctx context.Context, err error, msg string, fields ...ports.Fields) {
	p.logger.ErrorContext(ctx, msg, attrs(err, fields)...)
}

// New picks the adapter for the configured format ("pretty" or anything else for plain).
func New(format string, level LogLevel, w io.Writer) ports.Logger {
	if strings.EqualFold(strings.TrimSpace(format), "pretty") {
		return NewPrettyLogger(w, level, false)
	}
	return NewStdLoggerTo(w, level)
}
