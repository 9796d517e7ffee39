// Package qlog provides the internal diagnostics logger that the SysEx
// framer writes to. It never writes structured results
// (ValidationResult, DiffResult, RegionInfo) to its sink — those are
// returned as values to the caller — it only carries diagnostics such as
// envelopes dropped from a SysEx stream. The converter's warnings are
// returned structurally and not logged.
package qlog

import (
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// Provider is the logging backend. The default Provider is backed by
// logrus; callers may substitute their own (e.g. to route into an
// application-wide logger) via SetProvider.
type Provider interface {
	Error(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Info(format string, v ...interface{})
	Debug(format string, v ...interface{})
}

// Logger is embedded by value in components that need diagnostics. Output
// is disabled by default; call LogMode(true) to enable it.
type Logger struct {
	provider Provider
	enabled  uint32
}

// New returns a Logger whose default provider is a logrus.Logger tagged
// with prefix as a "component" field.
func New(prefix string) Logger {
	return Logger{provider: logrusProvider{logrus.WithField("component", prefix)}}
}

// LogMode enables or disables output. Disabled by default so that library
// consumers do not get unsolicited stderr noise from a pure codec call.
func (l *Logger) LogMode(enable bool) {
	if enable {
		atomic.StoreUint32(&l.enabled, 1)
	} else {
		atomic.StoreUint32(&l.enabled, 0)
	}
}

// SetProvider overrides the logging backend.
func (l *Logger) SetProvider(p Provider) {
	if p != nil {
		l.provider = p
	}
}

func (l Logger) on() bool { return atomic.LoadUint32(&l.enabled) == 1 }

// Error logs a dropped envelope, a hard validation issue, or any other
// error-grade diagnostic.
func (l Logger) Error(format string, v ...interface{}) {
	if l.on() {
		l.provider.Error(format, v...)
	}
}

// Warn logs a ConvertLossy warning or a tolerant-parser recovery.
func (l Logger) Warn(format string, v ...interface{}) {
	if l.on() {
		l.provider.Warn(format, v...)
	}
}

// Info logs state-machine transitions (Init/Close) and similar events.
func (l Logger) Info(format string, v ...interface{}) {
	if l.on() {
		l.provider.Info(format, v...)
	}
}

// Debug logs per-envelope/per-region bookkeeping.
func (l Logger) Debug(format string, v ...interface{}) {
	if l.on() {
		l.provider.Debug(format, v...)
	}
}

type logrusProvider struct {
	entry *logrus.Entry
}

func (p logrusProvider) Error(format string, v ...interface{}) { p.entry.Errorf(format, v...) }
func (p logrusProvider) Warn(format string, v ...interface{})  { p.entry.Warnf(format, v...) }
func (p logrusProvider) Info(format string, v ...interface{})  { p.entry.Infof(format, v...) }
func (p logrusProvider) Debug(format string, v ...interface{}) { p.entry.Debugf(format, v...) }

var _ Provider = logrusProvider{}
