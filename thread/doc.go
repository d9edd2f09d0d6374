// Package thread implements the VOS thread lifecycle manager and the
// drift-compensated cyclic execution loop.
//
// ARCHITECTURE:
//
// Manager as initialization context:
// Init() returns a *Manager that stands in for the classic process-wide
// "module initialised" flag. Every lifecycle operation is a method on the
// Manager; after Term() they fail with vos.ErrNotInitialized. There is no
// hidden global state.
//
// Cooperative termination:
// Goroutines cannot be killed, so Terminate is "signal cancellation, then
// join": the entry function receives a context.Context that is cancelled
// by Terminate, and Terminate waits for the thread to exit within a
// configurable join grace. An entry function that never observes its
// context defeats Terminate; that is a caller contract.
//
// Cyclic execution:
// Manager.Cyclic runs a work function forever at a fixed period on the
// calling goroutine. The wait before each new iteration is the period
// minus the function's own measured runtime. A function that overruns its
// period is diagnosed once per affected iteration and restarted
// immediately with zero wait; there is no catch-up skipping and no
// interval accumulation. Drift from the function's runtime is compensated;
// drift from host scheduling jitter is not.
//
// Scheduling parameters:
// Priority (1..255) and policy are best-effort. On Linux the spawned
// goroutine is pinned to its OS thread and mapped onto host scheduling
// via golang.org/x/sys; elsewhere the parameters are diagnosed and
// ignored. StackSize is advisory only: the Go runtime sizes stacks itself.
package thread
