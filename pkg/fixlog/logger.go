// Package fixlog builds the structured loggers used throughout the
// dictionary, decoder, and session packages. Every component logger is a
// named child of a single root logger, so a log line's "logger" field
// alone identifies which layer produced it.
package fixlog

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the subset of *zap.SugaredLogger this module depends on.
// Depending on an interface rather than the concrete type lets callers
// pass nil (disabling logging) or a test double without pulling in zap.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Named(name string) Logger
}

type sugared struct {
	*zap.SugaredLogger
}

func (s sugared) Debug(msg string, kv ...interface{}) { s.SugaredLogger.Debugw(msg, kv...) }
func (s sugared) Info(msg string, kv ...interface{})  { s.SugaredLogger.Infow(msg, kv...) }
func (s sugared) Warn(msg string, kv ...interface{})  { s.SugaredLogger.Warnw(msg, kv...) }
func (s sugared) Error(msg string, kv ...interface{}) { s.SugaredLogger.Errorw(msg, kv...) }
func (s sugared) Named(name string) Logger            { return sugared{s.SugaredLogger.Named(name)} }

// New builds the root Logger at the given level ("debug", "info", "warn",
// "error"; anything else falls back to "info"). Callers derive component
// loggers from it with Named, e.g. root.Named("decoder").
func New(level string) (Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(os.Stdout),
		zapLevel,
	)

	zl := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	return sugared{zl.Sugar()}, nil
}

// Nop returns a Logger that discards everything, for tests and callers
// that have not configured logging.
func Nop() Logger {
	return sugared{zap.NewNop().Sugar()}
}
