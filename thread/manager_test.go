package thread

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tcnlab/vos"
)

// captureLogger records diagnostics for assertions.
type captureLogger struct {
	mu       sync.Mutex
	messages []string
	sevs     []vos.Severity
}

func (c *captureLogger) Logf(sev vos.Severity, format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sevs = append(c.sevs, sev)
	c.messages = append(c.messages, fmt.Sprintf(format, args...))
}

func (c *captureLogger) count(sev vos.Severity) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, s := range c.sevs {
		if s == sev {
			n++
		}
	}
	return n
}

func TestManager_CreateRunsEntry(t *testing.T) {
	m, err := Init()
	require.NoError(t, err)
	defer m.Term()

	ran := make(chan any, 1)
	th, err := m.Create("worker", Attr{}, func(ctx context.Context, arg any) {
		ran <- arg
	}, "payload")
	require.NoError(t, err)
	require.NotNil(t, th)
	assert.Equal(t, "worker", th.Name())

	select {
	case got := <-ran:
		assert.Equal(t, "payload", got, "entry should receive its argument")
	case <-time.After(2 * time.Second):
		t.Fatal("entry function never ran")
	}
}

func TestManager_CreateValidation(t *testing.T) {
	m, err := Init()
	require.NoError(t, err)
	defer m.Term()

	entry := func(context.Context, any) {}

	_, err = m.Create("", Attr{}, entry, nil)
	assert.ErrorIs(t, err, vos.ErrParam, "empty name should be rejected")

	_, err = m.Create("w", Attr{}, nil, nil)
	assert.ErrorIs(t, err, vos.ErrParam, "nil entry should be rejected")

	_, err = m.Create("w", Attr{Priority: 300}, entry, nil)
	assert.ErrorIs(t, err, vos.ErrParam, "priority above 255 should be rejected")

	_, err = m.Create("w", Attr{Interval: 10 * time.Millisecond}, entry, nil)
	assert.ErrorIs(t, err, vos.ErrNotSupported, "creation-time interval should be rejected")
}

func TestManager_NotInitialized(t *testing.T) {
	m, err := Init()
	require.NoError(t, err)
	m.Term()

	_, err = m.Create("w", Attr{}, func(context.Context, any) {}, nil)
	assert.ErrorIs(t, err, vos.ErrNotInitialized)
	assert.ErrorIs(t, m.Terminate(&Thread{}), vos.ErrNotInitialized)
	assert.False(t, m.IsActive(&Thread{}), "is-active on a terminated manager should be false, not an error")
	assert.ErrorIs(t, m.Cyclic(context.Background(), "c", time.Second,
		func(context.Context, any) {}, nil), vos.ErrNotInitialized)
}

func TestManager_IsActive(t *testing.T) {
	m, err := Init()
	require.NoError(t, err)
	defer m.Term()

	release := make(chan struct{})
	th, err := m.Create("worker", Attr{}, func(ctx context.Context, arg any) {
		<-release
	}, nil)
	require.NoError(t, err)

	assert.True(t, m.IsActive(th), "running thread should be active")

	close(release)
	require.Eventually(t, func() bool { return !m.IsActive(th) },
		2*time.Second, 10*time.Millisecond, "finished thread should become inactive")

	assert.False(t, m.IsActive(nil), "nil handle should be inactive, not an error")
}

func TestManager_Terminate(t *testing.T) {
	m, err := Init()
	require.NoError(t, err)
	defer m.Term()

	var observed atomic.Bool
	th, err := m.Create("worker", Attr{}, func(ctx context.Context, arg any) {
		<-ctx.Done()
		observed.Store(true)
	}, nil)
	require.NoError(t, err)

	require.NoError(t, m.Terminate(th))
	assert.True(t, observed.Load(), "entry should have observed cancellation before join returned")

	// Invalid-handle detection: the handle is consumed by Terminate.
	assert.ErrorIs(t, m.Terminate(th), vos.ErrInvalidHandle)
	assert.False(t, m.IsActive(th), "terminated handle should be inactive")
}

func TestManager_TerminateJoinTimeout(t *testing.T) {
	log := &captureLogger{}
	m, err := Init(WithLogger(log), WithJoinGrace(50*time.Millisecond))
	require.NoError(t, err)
	defer m.Term()

	release := make(chan struct{})
	defer close(release)
	th, err := m.Create("stubborn", Attr{}, func(ctx context.Context, arg any) {
		// Ignores its cancellation token.
		<-release
	}, nil)
	require.NoError(t, err)

	err = m.Terminate(th)
	require.Error(t, err)
	assert.ErrorIs(t, err, vos.ErrSync)
	assert.Equal(t, 1, log.count(vos.SeverityError), "join overrun should be diagnosed once")
	assert.True(t, m.IsActive(th), "handle should stay valid so the caller can retry")
}

func TestManager_Self(t *testing.T) {
	m, err := Init()
	require.NoError(t, err)
	defer m.Term()

	// Outside a managed thread Self yields an informational pseudo handle.
	self := m.Self()
	require.NotNil(t, self)
	assert.True(t, m.IsActive(self), "the calling goroutine is evidently running")
	assert.ErrorIs(t, m.Terminate(self), vos.ErrNotSupported, "pseudo handle cannot be terminated")

	// Inside a managed thread Self returns the thread's own handle.
	handles := make(chan *Thread, 1)
	th, err := m.Create("worker", Attr{}, func(ctx context.Context, arg any) {
		handles <- m.Self()
	}, nil)
	require.NoError(t, err)

	select {
	case inner := <-handles:
		assert.Same(t, th, inner, "self inside a managed thread should be its own handle")
	case <-time.After(2 * time.Second):
		t.Fatal("worker never reported its self handle")
	}
}

func TestManager_UnsupportedPolicyDiagnosedNotRejected(t *testing.T) {
	log := &captureLogger{}
	m, err := Init(WithLogger(log))
	require.NoError(t, err)
	defer m.Term()

	done := make(chan struct{})
	_, err = m.Create("rt-worker", Attr{Policy: PolicyFIFO, Priority: 200},
		func(ctx context.Context, arg any) { close(done) }, nil)
	require.NoError(t, err, "unsupported policy must be accepted best-effort")

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("entry never ran")
	}
}
