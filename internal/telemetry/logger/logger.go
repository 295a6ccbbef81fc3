package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the application logger interface. Arguments after msg are
// alternating key/value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
	WithContext(ctx context.Context) Logger
}

// Config holds logger configuration.
type Config struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string
	// Format is json, or text/console for human-readable output.
	Format string
	// Output defaults to os.Stderr.
	Output io.Writer
	// AddSource adds caller information to log entries.
	AddSource bool
}

// DefaultConfig returns the configuration of the process-wide default logger.
func DefaultConfig() Config {
	return Config{Level: "info", Format: "json", Output: os.Stderr}
}

var levels = map[string]zapcore.Level{
	"debug":   zapcore.DebugLevel,
	"info":    zapcore.InfoLevel,
	"warn":    zapcore.WarnLevel,
	"warning": zapcore.WarnLevel,
	"error":   zapcore.ErrorLevel,
}

// level is shared by every logger built with New.
var level = zap.NewAtomicLevel()

type zapLogger struct {
	sugar *zap.SugaredLogger
}

// New builds a logger. It fails on an unknown level or format. A successful
// call also sets the shared level used by every logger built with New.
func New(cfg Config) (Logger, error) {
	lvl, ok := lookupLevel(cfg.Level)
	if !ok {
		return nil, fmt.Errorf("unknown log level %q", cfg.Level)
	}
	enc, err := newEncoder(cfg.Format)
	if err != nil {
		return nil, err
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	level.SetLevel(lvl)
	core := &redactCore{Core: zapcore.NewCore(enc, zapcore.AddSync(out), level)}
	return &zapLogger{sugar: zap.New(core, buildOptions(cfg)...).Sugar()}, nil
}

// NewNop returns a logger that discards everything.
func NewNop() Logger {
	return &zapLogger{sugar: zap.NewNop().Sugar()}
}

// SetLevel changes the shared level. Unknown names select info.
func SetLevel(name string) {
	lvl, ok := lookupLevel(name)
	if !ok {
		lvl = zapcore.InfoLevel
	}
	level.SetLevel(lvl)
}

// GetLevel returns the shared level name.
func GetLevel() string {
	return level.Level().String()
}

func lookupLevel(name string) (zapcore.Level, bool) {
	if name == "" {
		return zapcore.InfoLevel, true
	}
	lvl, ok := levels[strings.ToLower(name)]
	return lvl, ok
}

func (l *zapLogger) Debug(msg string, args ...any) { l.sugar.Debugw(msg, args...) }
func (l *zapLogger) Info(msg string, args ...any)  { l.sugar.Infow(msg, args...) }
func (l *zapLogger) Warn(msg string, args ...any)  { l.sugar.Warnw(msg, args...) }
func (l *zapLogger) Error(msg string, args ...any) { l.sugar.Errorw(msg, args...) }

func (l *zapLogger) With(args ...any) Logger {
	return &zapLogger{sugar: l.sugar.With(args...)}
}

// WithContext returns a logger carrying the request fields found in ctx.
func (l *zapLogger) WithContext(ctx context.Context) Logger {
	fields := contextFields(ctx)
	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}

var std atomic.Pointer[zapLogger]

func init() {
	l, _ := New(DefaultConfig())
	std.Store(l.(*zapLogger))
}

// SetDefault replaces the process-wide logger. Loggers not built by this
// package are ignored.
func SetDefault(l Logger) {
	if zl, ok := l.(*zapLogger); ok {
		std.Store(zl)
	}
}

// Default returns the process-wide logger.
func Default() Logger { return std.Load() }

// Sync flushes the process-wide logger.
func Sync() error { return std.Load().sugar.Sync() }

