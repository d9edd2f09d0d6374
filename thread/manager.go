package thread

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tcnlab/vos"
	"github.com/tcnlab/vos/internal/goid"
	"github.com/tcnlab/vos/timeval"
)

// threadMagic is the liveness tag value of a usable thread handle.
const threadMagic = 0x9ABC1DEA

// DefaultStackSize is the advisory stack size when Attr.StackSize is 0.
// The Go runtime grows stacks on demand; the value is reported, not
// enforced.
const DefaultStackSize = 16 * 1024

// DefaultJoinGrace bounds how long Terminate waits for a cancelled thread
// to exit before giving up with vos.ErrSync.
const DefaultJoinGrace = 5 * time.Second

// Func is a thread entry function. The context is cancelled by
// Manager.Terminate; entry functions should observe it at safe points.
type Func func(ctx context.Context, arg any)

// Policy selects the host scheduling class for a thread. All values other
// than PolicyDefault are best effort: unsupported policies are accepted
// with a diagnostic, never rejected.
type Policy int

const (
	// PolicyDefault leaves the host scheduler's default class.
	PolicyDefault Policy = iota

	// PolicyFIFO requests first-in-first-out real-time scheduling.
	PolicyFIFO

	// PolicyRoundRobin requests round-robin real-time scheduling.
	PolicyRoundRobin
)

// String returns the policy name.
func (p Policy) String() string {
	switch p {
	case PolicyDefault:
		return "default"
	case PolicyFIFO:
		return "fifo"
	case PolicyRoundRobin:
		return "round-robin"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// Attr carries the scheduling parameters of a new thread. It is consumed
// at creation time and not stored afterward.
type Attr struct {
	// Policy is the requested scheduling class, best effort.
	Policy Policy

	// Priority is 1..255 (highest); 0 leaves the host default.
	Priority int

	// Interval is rejected with vos.ErrNotSupported when non-zero: cyclic
	// behavior is the explicit Manager.Cyclic loop run by the entry
	// function, not an implicit property of creation.
	Interval time.Duration

	// StackSize is the minimum stack size in bytes, 0 for the default.
	// Advisory on this host.
	StackSize int
}

// Thread is an opaque handle for one spawned unit of execution. Exactly
// one logical owner holds a handle; it is consumed by Terminate or left
// until process exit.
type Thread struct {
	name  string
	magic atomic.Uint32

	// gid is the goroutine ID of the running thread, set by the thread
	// itself before the entry function starts.
	gid atomic.Int64

	// done is closed when the entry function returns. nil on pseudo
	// handles returned by Self for unmanaged goroutines.
	done chan struct{}

	// cancel signals cooperative termination. nil on pseudo handles.
	cancel context.CancelFunc
}

// Name returns the thread's name.
func (t *Thread) Name() string { return t.name }

// valid reports whether the handle's liveness tag is set.
func (t *Thread) valid() bool {
	return t != nil && t.magic.Load() == threadMagic
}

// Manager owns the thread registry and the module lifecycle. A Manager is
// obtained from Init and invalidated by Term.
type Manager struct {
	log   vos.Logger
	clock timeval.Clock
	grace time.Duration

	mu      sync.Mutex
	threads map[int64]*Thread // keyed by goroutine ID, for Self

	closed atomic.Bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the diagnostic sink. Default: vos.Discard.
func WithLogger(log vos.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// WithClock overrides the time source of the cyclic loop's elapsed-time
// measurement. Default: timeval.SystemClock.
func WithClock(c timeval.Clock) Option {
	return func(m *Manager) {
		if c != nil {
			m.clock = c
		}
	}
}

// WithJoinGrace sets the bound on Terminate's join wait.
func WithJoinGrace(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.grace = d
		}
	}
}

// Init initializes the thread subsystem and returns its Manager.
// Must be called before any other lifecycle operation.
func Init(opts ...Option) (*Manager, error) {
	m := &Manager{
		log:     vos.Discard,
		clock:   timeval.SystemClock,
		grace:   DefaultJoinGrace,
		threads: make(map[int64]*Thread),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Term shuts the Manager down. Subsequent lifecycle operations return
// vos.ErrNotInitialized. Term does not stop running threads; it must be
// called after all workers have exited, mirroring the single-threaded
// init/term contract of the layer.
func (m *Manager) Term() {
	m.closed.Store(true)
	m.mu.Lock()
	m.threads = make(map[int64]*Thread)
	m.mu.Unlock()
}

// checkInit rejects operations on a terminated Manager.
func (m *Manager) checkInit(op string) error {
	if m == nil || m.closed.Load() {
		return fmt.Errorf("%s: %w", op, vos.ErrNotInitialized)
	}
	return nil
}

// Create spawns a new thread running entry(ctx, arg) and returns its
// handle.
//
// A non-zero Attr.Interval is rejected with vos.ErrNotSupported; run
// Manager.Cyclic from the entry function instead. Priority and policy are
// applied best effort before the entry function starts; an unsupported
// policy is diagnosed, not rejected.
func (m *Manager) Create(name string, attr Attr, entry Func, arg any) (*Thread, error) {
	if err := m.checkInit("thread create"); err != nil {
		return nil, err
	}
	if name == "" || entry == nil {
		return nil, fmt.Errorf("thread create: missing name or entry: %w", vos.ErrParam)
	}
	if attr.Priority < 0 || attr.Priority > 255 {
		return nil, fmt.Errorf("thread create %q: priority %d: %w", name, attr.Priority, vos.ErrParam)
	}
	if attr.Interval != 0 {
		m.log.Logf(vos.SeverityError, "%s: cyclic threads not implemented, use Manager.Cyclic", name)
		return nil, fmt.Errorf("thread create %q: creation-time interval: %w", name, vos.ErrNotSupported)
	}
	if attr.StackSize != 0 {
		m.log.Logf(vos.SeverityDebug, "%s: stack size %d is advisory on this host", name, attr.StackSize)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t := &Thread{
		name:   name,
		done:   make(chan struct{}),
		cancel: cancel,
	}
	t.magic.Store(threadMagic)

	go func() {
		gid := goid.ID()
		t.gid.Store(gid)
		m.register(gid, t)
		defer m.unregister(gid)
		defer close(t.done)

		if attr.Priority > 0 || attr.Policy != PolicyDefault {
			applySched(m.log, name, attr)
		}
		entry(ctx, arg)
	}()

	return t, nil
}

// Terminate stops the referenced thread: it cancels the thread's context
// and joins, waiting at most the Manager's join grace.
//
// On a successful join the handle's liveness tag is cleared and further
// operations on it return vos.ErrInvalidHandle. A thread that ignores its
// cancellation past the grace yields vos.ErrSync and keeps its handle
// valid so the caller can retry.
func (m *Manager) Terminate(t *Thread) error {
	if err := m.checkInit("thread terminate"); err != nil {
		return err
	}
	if !t.valid() {
		return fmt.Errorf("thread terminate: %w", vos.ErrInvalidHandle)
	}
	if t.cancel == nil {
		return fmt.Errorf("thread terminate %q: pseudo handle of unmanaged goroutine: %w",
			t.name, vos.ErrNotSupported)
	}

	t.cancel()

	timer := time.NewTimer(m.grace)
	defer timer.Stop()
	select {
	case <-t.done:
	case <-timer.C:
		m.log.Logf(vos.SeverityError, "%s: thread did not exit within %v after cancellation",
			t.name, m.grace)
		return fmt.Errorf("thread terminate %q: join timed out: %w", t.name, vos.ErrSync)
	}

	t.magic.Store(0)
	return nil
}

// IsActive reports whether the thread has not yet exited. It returns
// false, never an error, for nil, invalid, or finished handles and on a
// terminated Manager.
func (m *Manager) IsActive(t *Thread) bool {
	if m == nil || m.closed.Load() || !t.valid() {
		return false
	}
	if t.done == nil {
		// Pseudo handle: the calling goroutine is evidently running.
		return true
	}
	select {
	case <-t.done:
		return false
	default:
		return true
	}
}

// Self returns a handle identifying the calling goroutine. Inside a
// managed thread this is the thread's own handle; elsewhere it is an
// informational pseudo handle that cannot be terminated.
func (m *Manager) Self() *Thread {
	gid := goid.ID()

	m.mu.Lock()
	t, ok := m.threads[gid]
	m.mu.Unlock()
	if ok {
		return t
	}

	self := &Thread{name: fmt.Sprintf("goroutine-%d", gid)}
	self.gid.Store(gid)
	self.magic.Store(threadMagic)
	return self
}

func (m *Manager) register(gid int64, t *Thread) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.threads[gid] = t
}

func (m *Manager) unregister(gid int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.threads, gid)
}
