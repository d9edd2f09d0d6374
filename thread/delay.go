package thread

import (
	"context"
	"fmt"
	"time"

	"github.com/tcnlab/vos"
)

// MinDelay is the minimum schedulable delay of the host. Requests below
// this granularity are rejected rather than silently rounded, so callers
// cannot accidentally build timing assumptions the host will not honor.
const MinDelay = time.Millisecond

// Delay suspends the calling goroutine for d.
//
// Delays below MinDelay (including zero) yield vos.ErrParam.
func Delay(d time.Duration) error {
	if d < MinDelay {
		return fmt.Errorf("thread delay %v below host granularity %v: %w", d, MinDelay, vos.ErrParam)
	}
	time.Sleep(d)
	return nil
}

// sleepCtx suspends for d or until ctx is cancelled, whichever is first.
func sleepCtx(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
