// Package logger adapts zap to the ports.Logger interface.
package logger

import (
	"fmt"
	"os"
	"sort"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger implements ports.Logger on top of a zap.Logger.
type ZapLogger struct {
	zap *zap.Logger
}

// New builds a logger writing to stderr at the given level ("debug", "info",
// "warn", "error") using a "console" or "json" encoder.
func New(level, format string) (*ZapLogger, error) {
	lvl := zapcore.WarnLevel
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	switch format {
	case "", "console":
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	case "json":
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	default:
		return nil, fmt.Errorf("invalid log format %q (want console|json)", format)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), lvl)
	return &ZapLogger{zap: zap.New(core)}, nil
}

// NewStd creates a console logger at debug level when verbose, warn otherwise.
func NewStd(verbose bool) *ZapLogger {
	level := "warn"
	if verbose {
		level = "debug"
	}
	l, err := New(level, "console")
	if err != nil {
		return NewNop()
	}
	return l
}

// NewNop returns a logger that discards everything.
func NewNop() *ZapLogger {
	return &ZapLogger{zap: zap.NewNop()}
}

// FromZap wraps an existing zap.Logger.
func FromZap(z *zap.Logger) *ZapLogger {
	if z == nil {
		return NewNop()
	}
	return &ZapLogger{zap: z}
}

// Underlying returns the wrapped zap.Logger for libraries that want one directly.
func (l *ZapLogger) Underlying() *zap.Logger {
	return l.zap
}

func (l *ZapLogger) Debug(msg string, fields map[string]interface{}) {
	l.zap.Debug(msg, toFields(fields)...)
}

func (l *ZapLogger) Info(msg string, fields map[string]interface{}) {
	l.zap.Info(msg, toFields(fields)...)
}

func (l *ZapLogger) Warn(msg string, fields map[string]interface{}) {
	l.zap.Warn(msg, toFields(fields)...)
}

func (l *ZapLogger) Error(msg string, err error, fields map[string]interface{}) {
	l.zap.Error(msg, append(toFields(fields), zap.Error(err))...)
}

// Sync flushes buffered entries. Errors from syncing a terminal are ignored.
func (l *ZapLogger) Sync() {
	_ = l.zap.Sync()
}

// toFields converts a field map into zap fields in key order so output is stable.
func toFields(fields map[string]interface{}) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		out = append(out, zap.Any(k, fields[k]))
	}
	return out
}
