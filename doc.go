// Package vos holds the shared error taxonomy and the diagnostic log sink
// used by every VOS subsystem.
//
// VOS is the operating-system abstraction layer of a train communication
// stack. Upper protocol layers exchange process data and message data on
// fixed cycles; they depend on this module for:
//
//   - thread lifecycle management (package thread)
//   - drift-compensated cyclic execution (thread.Manager.Cyclic)
//   - split second/microsecond time arithmetic (package timeval)
//   - recursive mutexes and bounded counting semaphores (package vsync)
//   - time-and-identity unique identifiers (package ident)
//
// DESIGN RULES:
//
// Explicit outcomes:
// Every operation reports its outcome to the caller. The only exception is
// a wall-clock read failure, which degrades to a zero time value plus a
// diagnostic, because callers computing elapsed and wait times must never
// receive a hard failure from clock access.
//
// Non-error outcomes:
// ErrBusy and ErrTimedOut are normal results of non-blocking and timed
// operations. Callers distinguish them from true failures with IsBusy and
// IsTimeout; they must never be treated as faults.
//
// Injected diagnostics:
// No package in this module writes to the console or to files. Every
// failure path and every overrun/overflow condition emits exactly one
// structured message through a Logger supplied by the application.
//
// No process termination:
// No operation in this module exits the process. Overruns and overflows
// inside the cyclic loop are diagnosed and the loop continues with a zero
// wait, preserving liveness over precision.
package vos
