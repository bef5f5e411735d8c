// Package logging wraps zap behind key/value methods. The *Context variants
// stamp the active trace and span ids on each entry.
package logging

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level = zapcore.Level

const (
	LevelDebug = zapcore.DebugLevel
	LevelInfo  = zapcore.InfoLevel
	LevelWarn  = zapcore.WarnLevel
	LevelError = zapcore.ErrorLevel
)

// ParseLevel maps APP_LOG_LEVEL values; anything unknown is info.
func ParseLevel(v string) Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

type Logger struct {
	z *zap.Logger
	// flush is shared by every logger derived through With.
	flush *sync.Once
}

var std atomic.Pointer[Logger]

func init() {
	std.Store(NewNop())
}

func jsonEncoder() zapcore.Encoder {
	return zapcore.NewJSONEncoder(zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		MessageKey:     "msg",
		CallerKey:      "caller",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.RFC3339NanoTimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	})
}

// NewJSON logs JSON lines to stdout.
func NewJSON(level Level) *Logger {
	return NewJSONTo(os.Stdout, level)
}

func NewJSONTo(w io.Writer, level Level) *Logger {
	core := zapcore.NewCore(jsonEncoder(), zapcore.Lock(zapcore.AddSync(w)), level)
	return FromZap(zap.New(core,
		zap.AddCaller(),
		zap.AddCallerSkip(2),
		zap.AddStacktrace(LevelError),
	))
}

func NewNop() *Logger {
	return FromZap(nil)
}

func FromZap(z *zap.Logger) *Logger {
	if z == nil {
		z = zap.NewNop()
	}
	return &Logger{z: z, flush: new(sync.Once)}
}

// Default is the process logger for packages handed a nil *Logger.
func Default() *Logger {
	return std.Load()
}

func SetDefault(l *Logger) {
	if l == nil {
		l = NewNop()
	}
	std.Store(l)
}

// Sync flushes buffered entries once per logger family. Later calls are
// no-ops so deferred and explicit syncs can coexist.
func (l *Logger) Sync() error {
	if l == nil {
		return nil
	}
	var err error
	l.flush.Do(func() { err = l.z.Sync() })
	return err
}

func (l *Logger) With(kv ...any) *Logger {
	base := l.orDefault()
	return &Logger{z: base.z.With(fields(kv)...), flush: base.flush}
}

func (l *Logger) Debug(msg string, kv ...any) { l.write(context.Background(), LevelDebug, msg, kv) }
func (l *Logger) Info(msg string, kv ...any)  { l.write(context.Background(), LevelInfo, msg, kv) }
func (l *Logger) Warn(msg string, kv ...any)  { l.write(context.Background(), LevelWarn, msg, kv) }
func (l *Logger) Error(msg string, kv ...any) { l.write(context.Background(), LevelError, msg, kv) }

func (l *Logger) DebugContext(ctx context.Context, msg string, kv ...any) {
	l.write(ctx, LevelDebug, msg, kv)
}

func (l *Logger) InfoContext(ctx context.Context, msg string, kv ...any) {
	l.write(ctx, LevelInfo, msg, kv)
}

func (l *Logger) WarnContext(ctx context.Context, msg string, kv ...any) {
	l.write(ctx, LevelWarn, msg, kv)
}

func (l *Logger) ErrorContext(ctx context.Context, msg string, kv ...any) {
	l.write(ctx, LevelError, msg, kv)
}

func (l *Logger) orDefault() *Logger {
	if l == nil || l.z == nil {
		return Default()
	}
	return l
}

func (l *Logger) write(ctx context.Context, level Level, msg string, kv []any) {
	ce := l.orDefault().z.Check(level, msg)
	if ce == nil {
		return
	}
	ce.Write(append(fields(kv), spanFields(ctx)...)...)
}
