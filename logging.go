package constellation

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

type Logger interface {
	DebugEnabled() bool
	SetDebug(enabled bool)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Level orders log severities. DEBUG and INFO go to the regular stream, WARN and ERROR to
// the error stream.
type Level uint8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	levelCount
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	}
	return fmt.Sprintf("LEVEL(%d)", uint8(l))
}

// DefaultLogger writes "[prefix] LEVEL: message" lines through the standard log package.
type DefaultLogger struct {
	debug  atomic.Bool
	prefix string
	sinks  [2]*log.Logger // regular, error
}

func NewDefaultLogger(prefix string, debug bool) *DefaultLogger {
	return NewLoggerTo(os.Stdout, os.Stderr, prefix, debug)
}

// NewLoggerTo writes DEBUG/INFO to out and WARN/ERROR to errOut.
func NewLoggerTo(out, errOut io.Writer, prefix string, debug bool) *DefaultLogger {
	flags := log.LstdFlags | log.Lmicroseconds
	l := &DefaultLogger{
		prefix: prefix,
		sinks:  [2]*log.Logger{log.New(out, "", flags), log.New(errOut, "", flags)},
	}
	l.debug.Store(debug)
	return l
}

func (l *DefaultLogger) DebugEnabled() bool    { return l.debug.Load() }
func (l *DefaultLogger) SetDebug(enabled bool) { l.debug.Store(enabled) }

// Logf writes one line at level. Debug lines are dropped unless debug is enabled.
func (l *DefaultLogger) Logf(level Level, format string, args ...any) {
	if level == LevelDebug && !l.DebugEnabled() {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if l.prefix != "" {
		msg = "[" + l.prefix + "] " + level.String() + ": " + msg
	} else {
		msg = level.String() + ": " + msg
	}
	sink := l.sinks[0]
	if level >= LevelWarn {
		sink = l.sinks[1]
	}
	sink.Print(msg)
}

func (l *DefaultLogger) Debugf(format string, args ...any) { l.Logf(LevelDebug, format, args...) }
func (l *DefaultLogger) Infof(format string, args ...any)  { l.Logf(LevelInfo, format, args...) }
func (l *DefaultLogger) Warnf(format string, args ...any)  { l.Logf(LevelWarn, format, args...) }
func (l *DefaultLogger) Errorf(format string, args ...any) { l.Logf(LevelError, format, args...) }

type nopLogger struct{}

func NewNopLogger() Logger { return nopLogger{} }

func (nopLogger) DebugEnabled() bool    { return false }
func (nopLogger) SetDebug(bool)         {}
func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}

// ThrottledLogger forwards at most one message per level and interval and drops the rest,
// so a stalled window cannot flood the log. Levels are limited independently: a burst of
// debug lines never hides an error. Info is not throttled.
type ThrottledLogger struct {
	Logger
	every [levelCount]rate.Sometimes
}

func NewThrottledLogger(l Logger, interval time.Duration) *ThrottledLogger {
	if l == nil {
		l = NewNopLogger()
	}
	t := &ThrottledLogger{Logger: l}
	for i := range t.every {
		t.every[i].Interval = interval
	}
	return t
}

func (t *ThrottledLogger) Debugf(format string, args ...any) {
	if !t.Logger.DebugEnabled() {
		return
	}
	t.every[LevelDebug].Do(func() { t.Logger.Debugf(format, args...) })
}

func (t *ThrottledLogger) Warnf(format string, args ...any) {
	t.every[LevelWarn].Do(func() { t.Logger.Warnf(format, args...) })
}

func (t *ThrottledLogger) Errorf(format string, args ...any) {
	t.every[LevelError].Do(func() { t.Logger.Errorf(format, args...) })
}
