package thread

import (
	"context"
	"fmt"
	"time"

	"github.com/tcnlab/vos"
	"github.com/tcnlab/vos/timeval"
)

// maxCyclicSec is the largest elapsed-seconds value whose microsecond
// equivalent still fits the interval's numeric range. An iteration
// measured above it is treated as a critical overflow or a
// misconfiguration, not as an ordinary overrun.
const maxCyclicSec = 4293

// Cyclic runs fn(ctx, arg) forever at the given interval on the calling
// goroutine. It does not spawn a thread; run it as a thread's entry
// function.
//
// Each iteration measures the function's own runtime and waits
// interval - elapsed before the next call. An iteration that meets or
// exceeds the interval is an overrun: it is diagnosed once and the next
// call starts immediately with zero wait. There is no catch-up skipping
// and no interval accumulation.
//
// The loop exits when ctx is cancelled, returning ctx.Err(). With a
// background context it never returns.
func (m *Manager) Cyclic(ctx context.Context, name string, interval time.Duration, fn Func, arg any) error {
	if err := m.checkInit("cyclic"); err != nil {
		return err
	}
	if ctx == nil || fn == nil {
		return fmt.Errorf("cyclic %q: missing context or function: %w", name, vos.ErrParam)
	}
	if interval < MinDelay {
		return fmt.Errorf("cyclic %q: interval %v below host granularity %v: %w",
			name, interval, MinDelay, vos.ErrParam)
	}

	intervalUS := interval.Microseconds()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		before := timeval.NowClock(m.clock, m.log)
		fn(ctx, arg)
		after := timeval.NowClock(m.clock, m.log)
		after.Sub(before)

		var wait time.Duration
		if after.Sec > maxCyclicSec {
			// Critical overflow or misconfiguration; a zero wait is the
			// rough first guess that keeps the loop alive.
			m.log.Logf(vos.SeverityError,
				"cyclic thread %s with interval %d usec exceeded bound by running %d sec",
				name, intervalUS, after.Sec)
		} else if elapsed := after.Micros(); elapsed > intervalUS {
			m.log.Logf(vos.SeverityError,
				"cyclic thread %s with interval %d usec was running %d usec",
				name, intervalUS, elapsed)
		} else {
			wait = time.Duration(intervalUS-elapsed) * time.Microsecond
		}

		// Sub-granularity waits collapse to an immediate restart, the
		// same outcome the host's delay primitive would produce.
		if wait >= MinDelay {
			sleepCtx(ctx, wait)
		}
	}
}
