// Package definition holds the concrete implementations the rest of
// guestraft only consumes through interfaces declared in package types.
package definition

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/devnullvm/guestraft/pkg/guestraft/types"
)

// DefaultLogger is the logger used if the operator does not provide its
// own implementation. It backs types.Logger with logrus. A line carries
// structured fields only when the caller attaches them through
// WithFields; the logger adds none of its own.
type DefaultLogger struct {
	entry *logrus.Entry
	debug *bool
}

// NewDefaultLogger builds a DefaultLogger writing to stderr with the
// standard text formatter, debug output disabled.
func NewDefaultLogger() *DefaultLogger {
	base := logrus.New()
	base.SetLevel(logrus.InfoLevel)
	debug := false
	return &DefaultLogger{
		entry: logrus.NewEntry(base),
		debug: &debug,
	}
}

// NewDiscardLogger builds a DefaultLogger that writes nowhere, for tests
// that don't want log noise.
func NewDiscardLogger() *DefaultLogger {
	base := logrus.New()
	base.SetOutput(io.Discard)
	debug := false
	return &DefaultLogger{
		entry: logrus.NewEntry(base),
		debug: &debug,
	}
}

func (l *DefaultLogger) WithFields(fields map[string]interface{}) types.Logger {
	return &DefaultLogger{
		entry: l.entry.WithFields(fields),
		debug: l.debug,
	}
}

func (l *DefaultLogger) Info(v ...interface{})                 { l.entry.Info(v...) }
func (l *DefaultLogger) Infof(format string, v ...interface{}) { l.entry.Infof(format, v...) }
func (l *DefaultLogger) Warn(v ...interface{})                 { l.entry.Warn(v...) }
func (l *DefaultLogger) Warnf(format string, v ...interface{}) { l.entry.Warnf(format, v...) }
func (l *DefaultLogger) Error(v ...interface{})                { l.entry.Error(v...) }
func (l *DefaultLogger) Errorf(format string, v ...interface{}) {
	l.entry.Errorf(format, v...)
}

func (l *DefaultLogger) Debug(v ...interface{}) {
	if *l.debug {
		l.entry.Debug(v...)
	}
}

func (l *DefaultLogger) Debugf(format string, v ...interface{}) {
	if *l.debug {
		l.entry.Debugf(format, v...)
	}
}

func (l *DefaultLogger) Fatal(v ...interface{})                 { l.entry.Fatal(v...) }
func (l *DefaultLogger) Fatalf(format string, v ...interface{}) { l.entry.Fatalf(format, v...) }
func (l *DefaultLogger) Panic(v ...interface{})                 { l.entry.Panic(v...) }
func (l *DefaultLogger) Panicf(format string, v ...interface{}) { l.entry.Panicf(format, v...) }

// ToggleDebug enables or disables Debug/Debugf output, returning the new
// value. The logrus level is raised alongside it, since logrus itself
// drops debug lines while its level is below DebugLevel.
func (l *DefaultLogger) ToggleDebug(value bool) bool {
	*l.debug = value
	if value {
		l.entry.Logger.SetLevel(logrus.DebugLevel)
	} else {
		l.entry.Logger.SetLevel(logrus.InfoLevel)
	}
	return value
}

var _ types.Logger = (*DefaultLogger)(nil)
