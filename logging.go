package ornatree

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger interface {
	DebugEnabled() bool
	SetDebug(enabled bool)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// DefaultLogger writes console-encoded lines through zap. Info and Debug
// go to stdout, Warn and Error to stderr.
type DefaultLogger struct {
	level zap.AtomicLevel
	sugar *zap.SugaredLogger
}

func NewDefaultLogger(prefix string, debug bool) *DefaultLogger {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if debug {
		level.SetLevel(zapcore.DebugLevel)
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006/01/02 15:04:05.000000")
	enc := zapcore.NewConsoleEncoder(encCfg)

	stdout := zapcore.Lock(os.Stdout)
	stderr := zapcore.Lock(os.Stderr)

	low := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l < zapcore.WarnLevel && level.Enabled(l)
	})
	high := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= zapcore.WarnLevel && level.Enabled(l)
	})

	core := zapcore.NewTee(
		zapcore.NewCore(enc, stdout, low),
		zapcore.NewCore(enc, stderr, high),
	)
	logger := zap.New(core)
	if prefix != "" {
		logger = logger.Named(prefix)
	}

	return &DefaultLogger{level: level, sugar: logger.Sugar()}
}

// NewZapLogger adapts an existing zap logger, e.g. one built by a host
// application with its own sinks.
func NewZapLogger(l *zap.Logger, level zap.AtomicLevel) *DefaultLogger {
	return &DefaultLogger{level: level, sugar: l.Sugar()}
}

func (l *DefaultLogger) DebugEnabled() bool {
	return l.level.Enabled(zapcore.DebugLevel)
}

func (l *DefaultLogger) SetDebug(enabled bool) {
	if enabled {
		l.level.SetLevel(zapcore.DebugLevel)
		return
	}
	l.level.SetLevel(zapcore.InfoLevel)
}

func (l *DefaultLogger) Debugf(format string, args ...any) { l.sugar.Debugf(format, args...) }
func (l *DefaultLogger) Infof(format string, args ...any)  { l.sugar.Infof(format, args...) }
func (l *DefaultLogger) Warnf(format string, args ...any)  { l.sugar.Warnf(format, args...) }
func (l *DefaultLogger) Errorf(format string, args ...any) { l.sugar.Errorf(format, args...) }

// Sync flushes buffered log entries.
func (l *DefaultLogger) Sync() error { return l.sugar.Sync() }

// NewNopLogger returns a Logger that discards everything. Engine uses it
// when no WithLogger option is given.
func NewNopLogger() Logger { return discard{} }

type discard struct{}

func (discard) DebugEnabled() bool    { return false }
func (discard) SetDebug(bool)         {}
func (discard) Debugf(string, ...any) {}
func (discard) Infof(string, ...any)  {}
func (discard) Warnf(string, ...any)  {}
func (discard) Errorf(string, ...any) {}
