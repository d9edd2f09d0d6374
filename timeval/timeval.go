package timeval

import (
	"fmt"
	"time"

	"github.com/tcnlab/vos"
)

// MicrosPerSecond is the microsecond carry boundary.
const MicrosPerSecond = 1_000_000

// Clock reads the host wall clock as a (seconds, microseconds) pair.
//
// The system clock never fails on Go hosts, but the seam exists so tests
// can inject fixed or failing clocks, and so embedded ports can supply a
// different time source.
type Clock func() (sec, usec int64, err error)

// SystemClock reads the host wall clock.
func SystemClock() (sec, usec int64, err error) {
	now := time.Now()
	return now.Unix(), int64(now.Nanosecond() / 1000), nil
}

// TimeValue is a normalized (seconds, microseconds) pair.
//
// The zero value is a valid cleared time.
type TimeValue struct {
	Sec  int64
	Usec int64
}

// Now reads the host clock.
//
// On a clock-read failure the result is the zero value and one diagnostic
// is emitted through log; callers never receive a hard error from what is,
// by contract, always-available wall-clock time.
func Now(log vos.Logger) TimeValue {
	return NowClock(SystemClock, log)
}

// NowClock is Now with an explicit clock source.
func NowClock(clock Clock, log vos.Logger) TimeValue {
	if log == nil {
		log = vos.Discard
	}
	sec, usec, err := clock()
	if err != nil {
		log.Logf(vos.SeverityError, "clock read failed: %v", err)
		return TimeValue{}
	}
	return TimeValue{Sec: sec, Usec: usec}
}

// FromMicros converts a flat microsecond count into a normalized TimeValue.
func FromMicros(us int64) TimeValue {
	return TimeValue{Sec: us / MicrosPerSecond, Usec: us % MicrosPerSecond}
}

// FromDuration converts a duration into a normalized TimeValue.
func FromDuration(d time.Duration) TimeValue {
	return FromMicros(d.Microseconds())
}

// Micros returns the value as a flat microsecond count.
func (t TimeValue) Micros() int64 {
	return t.Sec*MicrosPerSecond + t.Usec
}

// Duration returns the value as a time.Duration.
func (t TimeValue) Duration() time.Duration {
	return time.Duration(t.Micros()) * time.Microsecond
}

// IsZero reports whether both fields are zero.
func (t TimeValue) IsZero() bool {
	return t.Sec == 0 && t.Usec == 0
}

// Clear sets both fields to zero.
func (t *TimeValue) Clear() {
	t.Sec = 0
	t.Usec = 0
}

// Add adds d to t in place, carrying microseconds into seconds so the
// normalization invariant holds afterward.
func (t *TimeValue) Add(d TimeValue) {
	t.Sec += d.Sec
	t.Usec += d.Usec
	for t.Usec >= MicrosPerSecond {
		t.Sec++
		t.Usec -= MicrosPerSecond
	}
}

// Sub subtracts d from t in place.
//
// When d.Usec exceeds t.Usec one second is borrowed before the component-
// wise subtraction. Sec may go negative if d exceeds t; there is no
// saturation.
func (t *TimeValue) Sub(d TimeValue) {
	if d.Usec > t.Usec {
		t.Sec--
		t.Usec += MicrosPerSecond
	}
	t.Usec -= d.Usec
	t.Sec -= d.Sec
	for t.Usec >= MicrosPerSecond {
		t.Sec++
		t.Usec -= MicrosPerSecond
	}
}

// Mul scales t by factor in place, re-normalizing microseconds into
// seconds.
func (t *TimeValue) Mul(factor uint32) {
	t.Sec *= int64(factor)
	t.Usec *= int64(factor)
	if t.Usec >= MicrosPerSecond {
		t.Sec += t.Usec / MicrosPerSecond
		t.Usec %= MicrosPerSecond
	}
}

// Div divides t by divisor in place. The seconds remainder is converted to
// microseconds and added before dividing the microsecond field, preserving
// sub-second precision across the division.
//
// A zero divisor is an error, not a computation.
func (t *TimeValue) Div(divisor uint32) error {
	if divisor == 0 {
		return fmt.Errorf("divide time value by zero: %w", vos.ErrParam)
	}
	d := int64(divisor)
	rem := t.Sec % d
	t.Sec /= d
	if rem > 0 {
		t.Usec += rem * MicrosPerSecond
	}
	t.Usec /= d
	for t.Usec >= MicrosPerSecond {
		t.Sec++
		t.Usec -= MicrosPerSecond
	}
	return nil
}

// Compare orders t against o lexicographically on (Sec, Usec).
// It returns -1 if t < o, 0 if equal, +1 if t > o.
func (t TimeValue) Compare(o TimeValue) int {
	switch {
	case t.Sec < o.Sec:
		return -1
	case t.Sec > o.Sec:
		return 1
	case t.Usec < o.Usec:
		return -1
	case t.Usec > o.Usec:
		return 1
	default:
		return 0
	}
}

// Timestamp renders the host wall clock as "YYYYMMDD-HH:MM:SS.mmm" for
// debug output. Best effort: a clock-read failure yields an empty string.
func Timestamp() string {
	return TimestampClock(SystemClock)
}

// TimestampClock is Timestamp with an explicit clock source.
func TimestampClock(clock Clock) string {
	sec, usec, err := clock()
	if err != nil {
		return ""
	}
	t := time.Unix(sec, usec*1000).Local()
	return fmt.Sprintf("%04d%02d%02d-%02d:%02d:%02d.%03d",
		t.Year(), int(t.Month()), t.Day(),
		t.Hour(), t.Minute(), t.Second(),
		usec/1000)
}
