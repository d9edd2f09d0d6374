// Package vsync provides the VOS synchronization handles: a recursive
// Mutex and a bounded counting Semaphore.
//
// HANDLE LIVENESS:
//
// Every handle wraps its native synchronization object together with a
// liveness tag (a magic word set on creation, cleared on Delete). Every
// operation checks the tag first and rejects a deleted or never-created
// handle with vos.ErrInvalidHandle. This detects use-after-delete without
// relying on the native object's memory having been zeroed. Both types
// carry the same tag discipline.
//
// OWNERSHIP:
//
// Mutex is reentrant: the owning goroutine may re-acquire without
// self-deadlock, and must balance every Lock with an Unlock. Semaphore has
// no ownership concept; any goroutine may Give regardless of which
// goroutine last Took.
//
// Busy and TimedOut are normal outcomes of TryLock and timed Take, not
// failures; discriminate with vos.IsBusy and vos.IsTimeout.
package vsync
