package vos

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// Severity classifies a diagnostic message.
type Severity int

const (
	// SeverityDebug is informational detail, e.g. advisory parameters the
	// host cannot honor.
	SeverityDebug Severity = iota

	// SeverityInfo is normal operational output.
	SeverityInfo

	// SeverityWarning reports a degraded but non-failing condition, e.g.
	// a semaphore give beyond its bound.
	SeverityWarning

	// SeverityError reports a failure path or a timing violation
	// (overrun, overflow).
	SeverityError
)

// String returns the conventional upper-case severity name.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "DEBUG"
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return fmt.Sprintf("SEVERITY(%d)", int(s))
	}
}

// Logger is the diagnostic sink injected into every VOS subsystem.
//
// The layer has no console or file I/O of its own: each failure path and
// each overrun/overflow condition emits exactly one message through the
// configured Logger. Implementations must be safe for concurrent use.
type Logger interface {
	// Logf emits one structured diagnostic message.
	Logf(sev Severity, format string, args ...any)
}

// Discard is a Logger that drops all messages. It is the zero-cost sink
// for callers that handle every returned error themselves.
var Discard Logger = discardLogger{}

type discardLogger struct{}

func (discardLogger) Logf(Severity, string, ...any) {}

// zerologSink adapts a zerolog.Logger to the VOS Logger interface.
type zerologSink struct {
	l zerolog.Logger
}

// NewZerologSink returns a Logger backed by the given zerolog.Logger.
// Severity maps onto the corresponding zerolog level.
func NewZerologSink(l zerolog.Logger) Logger {
	return zerologSink{l: l}
}

// NewSink returns a Logger writing zerolog JSON lines to w.
// This is the default production sink.
func NewSink(w io.Writer) Logger {
	return NewZerologSink(zerolog.New(w).With().Timestamp().Logger())
}

func (s zerologSink) Logf(sev Severity, format string, args ...any) {
	var ev *zerolog.Event
	switch sev {
	case SeverityDebug:
		ev = s.l.Debug()
	case SeverityInfo:
		ev = s.l.Info()
	case SeverityWarning:
		ev = s.l.Warn()
	default:
		ev = s.l.Error()
	}
	ev.Msgf(format, args...)
}
