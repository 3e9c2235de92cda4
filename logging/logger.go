// Package logging provides the structured logger used by the grid and
// config packages. It wraps zap rather than the stdlib log package so that
// log lines carry structured fields (such as the grid's run id and a target
// id) by which they can be correlated.
package logging

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the structured logger interface used throughout this module.
// It is a small subset of zap's SugaredLogger plus context-aware variants
// (the "C" prefix) used on the hot path of the planning loop.
type Logger interface {
	Debug(args ...interface{})
	Debugf(template string, args ...interface{})
	Debugw(msg string, keysAndValues ...interface{})
	Info(args ...interface{})
	Infof(template string, args ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warn(args ...interface{})
	Warnf(template string, args ...interface{})
	Error(args ...interface{})
	Errorf(template string, args ...interface{})
	Errorw(msg string, keysAndValues ...interface{})

	// CDebugf/CInfof/CWarnf are context-aware variants. The logger does not
	// read the context; the parameter exists so
	// call sites that already have a ctx in hand (e.g. inside a plan loop)
	// don't need to thread a separate logger argument.
	CDebugf(ctx context.Context, template string, args ...interface{})
	CInfof(ctx context.Context, template string, args ...interface{})
	CWarnf(ctx context.Context, template string, args ...interface{})

	// With returns a child logger with the given structured fields attached
	// to every subsequent entry.
	With(keysAndValues ...interface{}) Logger

	// AddAppender registers an additional Appender to receive log entries.
	AddAppender(appender Appender)
}

type impl struct {
	sugar *zap.SugaredLogger
}

// New constructs a Logger named name, writing to the given appenders (or to
// stdout if none are given).
func New(name string, appenders ...Appender) Logger {
	if len(appenders) == 0 {
		appenders = []Appender{NewStdoutAppender()}
	}
	core := zapcore.NewTee(coresFromAppenders(appenders)...)
	zl := zap.New(core).Named(name)
	return &impl{sugar: zl.Sugar()}
}

// NewTestLogger returns a Logger that writes through t.Log, following the
// teacher's `logging.NewTestLogger(t)` convention used throughout its tests.
func NewTestLogger(t *testing.T) Logger {
	t.Helper()
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(&testWriter{t: t}),
		zapcore.DebugLevel,
	)
	zl := zap.New(core)
	return &impl{sugar: zl.Sugar()}
}

type testWriter struct{ t *testing.T }

func (w *testWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

func coresFromAppenders(appenders []Appender) []zapcore.Core {
	cores := make([]zapcore.Core, 0, len(appenders))
	for _, a := range appenders {
		cores = append(cores, &appenderCore{appender: a, LevelEnabler: zapcore.DebugLevel})
	}
	return cores
}

// appenderCore adapts an Appender to the zapcore.Core interface so that
// Appenders (including user-supplied ones) can be wired directly into a
// zap pipeline.
type appenderCore struct {
	zapcore.LevelEnabler
	appender Appender
	fields   []zapcore.Field
}

func (c *appenderCore) With(fields []zapcore.Field) zapcore.Core {
	merged := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	merged = append(append(merged, c.fields...), fields...)
	return &appenderCore{LevelEnabler: c.LevelEnabler, appender: c.appender, fields: merged}
}

func (c *appenderCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return ce.AddCore(entry, c)
	}
	return ce
}

func (c *appenderCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	if len(c.fields) > 0 {
		fields = append(append(make([]zapcore.Field, 0, len(c.fields)+len(fields)), c.fields...), fields...)
	}
	return c.appender.Write(entry, fields)
}

func (c *appenderCore) Sync() error {
	return c.appender.Sync()
}

func (l *impl) Debug(args ...interface{})                            { l.sugar.Debug(args...) }
func (l *impl) Debugf(template string, args ...interface{})          { l.sugar.Debugf(template, args...) }
func (l *impl) Debugw(msg string, keysAndValues ...interface{})      { l.sugar.Debugw(msg, keysAndValues...) }
func (l *impl) Info(args ...interface{})                             { l.sugar.Info(args...) }
func (l *impl) Infof(template string, args ...interface{})           { l.sugar.Infof(template, args...) }
func (l *impl) Infow(msg string, keysAndValues ...interface{})       { l.sugar.Infow(msg, keysAndValues...) }
func (l *impl) Warn(args ...interface{})                             { l.sugar.Warn(args...) }
func (l *impl) Warnf(template string, args ...interface{})           { l.sugar.Warnf(template, args...) }
func (l *impl) Error(args ...interface{})                            { l.sugar.Error(args...) }
func (l *impl) Errorf(template string, args ...interface{})          { l.sugar.Errorf(template, args...) }
func (l *impl) Errorw(msg string, keysAndValues ...interface{})      { l.sugar.Errorw(msg, keysAndValues...) }

func (l *impl) CDebugf(_ context.Context, template string, args ...interface{}) {
	l.sugar.Debugf(template, args...)
}

func (l *impl) CInfof(_ context.Context, template string, args ...interface{}) {
	l.sugar.Infof(template, args...)
}

func (l *impl) CWarnf(_ context.Context, template string, args ...interface{}) {
	l.sugar.Warnf(template, args...)
}

func (l *impl) With(keysAndValues ...interface{}) Logger {
	return &impl{sugar: l.sugar.With(keysAndValues...)}
}

func (l *impl) AddAppender(appender Appender) {
	newCore := &appenderCore{appender: appender, LevelEnabler: zapcore.DebugLevel}
	l.sugar = l.sugar.Desugar().WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, newCore)
	})).Sugar()
}
