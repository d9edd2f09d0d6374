package vsync

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/tcnlab/vos"
	"github.com/tcnlab/vos/internal/goid"
)

// mutexMagic is the liveness tag value of a usable mutex handle.
const mutexMagic = 0x1234FEDC

// Mutex is a recursive lock owned by at most one goroutine at a time.
//
// The owning goroutine may call Lock again without deadlocking; each
// nested Lock must be balanced by one Unlock, and the lock is released
// when the outermost level is unlocked.
//
// All methods on a deleted handle return vos.ErrInvalidHandle.
type Mutex struct {
	magic atomic.Uint32

	// inner is the native lock; held exactly while some goroutine owns
	// the mutex at depth >= 1.
	inner sync.Mutex

	// owner is the goroutine ID of the current holder, 0 when free.
	owner atomic.Int64

	// depth counts nested acquisitions. Only the owner touches it while
	// inner is held.
	depth int

	log vos.Logger
}

// NewMutex allocates and initializes a recursive mutex. The mutex is
// unlocked at creation. A nil log discards diagnostics.
func NewMutex(log vos.Logger) (*Mutex, error) {
	if log == nil {
		log = vos.Discard
	}
	m := &Mutex{log: log}
	m.magic.Store(mutexMagic)
	return m, nil
}

// check validates the handle's liveness tag.
func (m *Mutex) check(op string) error {
	if m == nil || m.magic.Load() != mutexMagic {
		return fmt.Errorf("%s: %w", op, vos.ErrInvalidHandle)
	}
	return nil
}

// Lock blocks the calling goroutine until the mutex is acquired.
// Reentrant: if the caller already owns the mutex, the nesting depth is
// incremented and Lock returns immediately.
func (m *Mutex) Lock() error {
	if err := m.check("mutex lock"); err != nil {
		return err
	}
	gid := goid.ID()
	if m.owner.Load() == gid {
		m.depth++
		return nil
	}
	m.inner.Lock()
	m.owner.Store(gid)
	m.depth = 1
	return nil
}

// TryLock attempts to acquire the mutex without blocking.
//
// A held mutex yields vos.ErrBusy, which is a normal outcome, not a
// failure. Reentrant like Lock.
func (m *Mutex) TryLock() error {
	if err := m.check("mutex trylock"); err != nil {
		return err
	}
	gid := goid.ID()
	if m.owner.Load() == gid {
		m.depth++
		return nil
	}
	if !m.inner.TryLock() {
		return fmt.Errorf("mutex trylock: %w", vos.ErrBusy)
	}
	m.owner.Store(gid)
	m.depth = 1
	return nil
}

// Unlock releases one level of ownership; the mutex becomes available to
// other goroutines when the outermost level is released.
//
// Unlocking a mutex the caller does not hold is a caller error. It is
// detected here as a courtesy of owner tracking and reported as
// vos.ErrSync, but callers must not rely on that contract.
func (m *Mutex) Unlock() error {
	if err := m.check("mutex unlock"); err != nil {
		return err
	}
	gid := goid.ID()
	if m.owner.Load() != gid {
		m.log.Logf(vos.SeverityError, "mutex unlock by non-owning goroutine %d", gid)
		return fmt.Errorf("mutex unlock by non-owner: %w", vos.ErrSync)
	}
	m.depth--
	if m.depth == 0 {
		m.owner.Store(0)
		m.inner.Unlock()
	}
	return nil
}

// Delete releases the mutex's resources and clears its liveness tag.
// Subsequent operations on the handle return vos.ErrInvalidHandle.
//
// Deleting a mutex that other goroutines are still blocked on is a caller
// error; the blocked Lock calls complete against the native object but the
// handle is dead.
func (m *Mutex) Delete() error {
	if m == nil || !m.magic.CompareAndSwap(mutexMagic, 0) {
		return fmt.Errorf("mutex delete: %w", vos.ErrInvalidHandle)
	}
	return nil
}
