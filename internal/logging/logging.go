// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging provides the structured logger injected into every
// pipeline stage. Log calls carry a message plus key-value fields; colors
// and encodings are decided by the sink, never by the caller.
package logging

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the structured logging interface used by the pipeline.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
	With(keysAndValues ...any) Logger
	Sync() error
}

// Options selects the log sink.
type Options struct {
	// Level is one of debug, info, warn, error (default info).
	Level string
	// File, when set, receives JSON-encoded logs instead of stderr.
	File string
	// Color forces colored level names on the console sink. When false,
	// color is enabled only if stderr is a terminal.
	Color bool
}

type zapLogger struct {
	sugar *zap.SugaredLogger
}

// New builds a zap-backed Logger. Console output goes to stderr with a
// human-readable encoder; file output is JSON, one entry per line.
func New(opts Options) (Logger, error) {
	level, err := parseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	var core zapcore.Core
	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening log file %s: %w", opts.File, err)
		}
		enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		core = zapcore.NewCore(enc, zapcore.AddSync(f), level)
	} else {
		color := opts.Color || isatty.IsTerminal(os.Stderr.Fd())
		enc := zapcore.NewConsoleEncoder(consoleEncoderConfig(color))
		core = zapcore.NewCore(enc, zapcore.Lock(os.Stderr), level)
	}

	return Wrap(zap.New(core)), nil
}

func consoleEncoderConfig(color bool) zapcore.EncoderConfig {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	if color {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	return encCfg
}

// Wrap adapts an existing zap logger. Tests use it with zaptest/observer.
func Wrap(l *zap.Logger) Logger {
	return &zapLogger{sugar: l.Sugar()}
}

// NewNop returns a Logger that discards everything.
func NewNop() Logger {
	return Wrap(zap.NewNop())
}

func (l *zapLogger) Debug(msg string, keysAndValues ...any) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l *zapLogger) Info(msg string, keysAndValues ...any) {
	l.sugar.Infow(msg, keysAndValues...)
}

func (l *zapLogger) Warn(msg string, keysAndValues ...any) {
	l.sugar.Warnw(msg, keysAndValues...)
}

func (l *zapLogger) Error(msg string, keysAndValues ...any) {
	l.sugar.Errorw(msg, keysAndValues...)
}

func (l *zapLogger) With(keysAndValues ...any) Logger {
	return &zapLogger{sugar: l.sugar.With(keysAndValues...)}
}

// Sync flushes buffered entries. Errors from syncing a terminal are ignored.
func (l *zapLogger) Sync() error {
	err := l.sugar.Sync()
	if err != nil && (strings.Contains(err.Error(), "inappropriate ioctl") || strings.Contains(err.Error(), "invalid argument")) {
		return nil
	}
	return err
}

func parseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
}
