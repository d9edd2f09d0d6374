package vos

import "errors"

// Error taxonomy for the VOS layer.
//
// Operations wrap these sentinels with context via fmt.Errorf("...: %w", ...).
// Callers discriminate with errors.Is, or the IsBusy/IsTimeout helpers for
// the two non-error outcomes.
var (
	// ErrParam reports a nil or out-of-range input.
	ErrParam = errors.New("vos: parameter out of range or invalid")

	// ErrNotInitialized reports a lifecycle call on a terminated Manager.
	ErrNotInitialized = errors.New("vos: module not initialised")

	// ErrInvalidHandle reports an operation on a deleted or never-created
	// synchronization object or thread handle.
	ErrInvalidHandle = errors.New("vos: invalid handle")

	// ErrBusy is the normal outcome of a non-blocking acquire that found
	// the object held. It is not a failure.
	ErrBusy = errors.New("vos: busy")

	// ErrTimedOut is the normal outcome of a timed wait that expired.
	// It is not a failure.
	ErrTimedOut = errors.New("vos: timed out")

	// ErrResourceExhausted reports a native allocation failure.
	ErrResourceExhausted = errors.New("vos: resource exhausted")

	// ErrSync reports a native primitive failure for reasons opaque to
	// this layer.
	ErrSync = errors.New("vos: synchronization primitive failure")

	// ErrNotSupported reports a requested feature that this variant does
	// not implement, e.g. a cyclic interval at thread-creation time.
	ErrNotSupported = errors.New("vos: not supported")
)

// IsBusy reports whether err is the non-blocking "object held" outcome.
// Handles wrapped errors.
func IsBusy(err error) bool {
	return errors.Is(err, ErrBusy)
}

// IsTimeout reports whether err is the timed-wait expiry outcome.
// Handles wrapped errors.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimedOut)
}
