package vsync

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/tcnlab/vos"
)

// MaxCount is the upper bound of a semaphore's counter. A Give beyond the
// bound saturates; it is diagnosed, never propagated as an error.
const MaxCount = 10

// semaMagic is the liveness tag value of a usable semaphore handle.
const semaMagic = 0x5678FEDC

// State selects the initial counter of a new semaphore.
type State int

const (
	// Empty creates the semaphore with count 0: the first Take blocks.
	Empty State = 0

	// Full creates the semaphore with count 1: the first Take succeeds.
	Full State = 1
)

// Semaphore is a counting semaphore bounded to MaxCount.
//
// Take decrements with an optional timeout; Give increments up to the
// bound. There is no ownership: any goroutine may Give regardless of which
// goroutine last Took.
type Semaphore struct {
	magic atomic.Uint32

	// tokens is the native counting object: the channel's buffered
	// occupancy is the semaphore count.
	tokens chan struct{}

	log vos.Logger
}

// NewSemaphore allocates a semaphore with the given initial state.
// A nil log discards diagnostics.
func NewSemaphore(initial State, log vos.Logger) (*Semaphore, error) {
	if initial != Empty && initial != Full {
		return nil, fmt.Errorf("semaphore create: initial state %d: %w", initial, vos.ErrParam)
	}
	if log == nil {
		log = vos.Discard
	}
	s := &Semaphore{
		tokens: make(chan struct{}, MaxCount),
		log:    log,
	}
	if initial == Full {
		s.tokens <- struct{}{}
	}
	s.magic.Store(semaMagic)
	return s, nil
}

// check validates the handle's liveness tag.
func (s *Semaphore) check(op string) error {
	if s == nil || s.magic.Load() != semaMagic {
		return fmt.Errorf("%s: %w", op, vos.ErrInvalidHandle)
	}
	return nil
}

// Take decrements the semaphore, waiting at most timeout for the count to
// become non-zero.
//
// A timeout of 0 means "try once, do not wait". Expiry yields
// vos.ErrTimedOut, a normal outcome. A negative timeout is a parameter
// error. The effective wait resolution is bounded below by the host timer
// granularity.
func (s *Semaphore) Take(timeout time.Duration) error {
	if err := s.check("semaphore take"); err != nil {
		return err
	}
	if timeout < 0 {
		return fmt.Errorf("semaphore take: negative timeout: %w", vos.ErrParam)
	}

	if timeout == 0 {
		select {
		case <-s.tokens:
			return nil
		default:
			return fmt.Errorf("semaphore take: %w", vos.ErrTimedOut)
		}
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-s.tokens:
		return nil
	case <-timer.C:
		return fmt.Errorf("semaphore take: %w", vos.ErrTimedOut)
	}
}

// Give increments the semaphore count.
//
// A Give beyond MaxCount saturates: the count stays at the bound and one
// Warning diagnostic is emitted. A producer is never blocked or failed by
// an already-full semaphore.
func (s *Semaphore) Give() error {
	if err := s.check("semaphore give"); err != nil {
		return err
	}
	select {
	case s.tokens <- struct{}{}:
	default:
		s.log.Logf(vos.SeverityWarning, "semaphore give beyond max count %d", MaxCount)
	}
	return nil
}

// Delete releases the semaphore's resources and clears its liveness tag.
// Subsequent operations on the handle return vos.ErrInvalidHandle.
//
// Goroutines already blocked in Take when Delete runs keep waiting on the
// native object; deleting a semaphore with live waiters is a caller error.
func (s *Semaphore) Delete() error {
	if s == nil || !s.magic.CompareAndSwap(semaMagic, 0) {
		return fmt.Errorf("semaphore delete: %w", vos.ErrInvalidHandle)
	}
	return nil
}
