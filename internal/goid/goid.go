// Package goid extracts the current goroutine's ID.
//
// The runtime does not expose goroutine identity, but the first line of a
// single-goroutine stack trace is stable across Go releases:
//
//	"goroutine 123 [running]:"
//
// Parsing that line costs roughly a microsecond per call, which is
// acceptable here: the only consumers are the recursive mutex (owner
// identity) and the thread registry (self lookup), both of which sit on
// paths that already cross a lock or a scheduler boundary.
package goid

import "runtime"

// ID returns the current goroutine ID, or 0 if the stack header cannot be
// parsed (which would indicate a runtime format change).
func ID() int64 {
	// Only the header line is needed; 64 bytes covers it.
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	return parse(buf[:n])
}

// parse extracts the numeric ID from a stack trace header.
func parse(b []byte) int64 {
	const prefix = "goroutine "
	if len(b) < len(prefix) || string(b[:len(prefix)]) != prefix {
		return 0
	}
	b = b[len(prefix):]

	var id int64
	for _, c := range b {
		if c < '0' || c > '9' {
			break
		}
		id = id*10 + int64(c-'0')
	}
	return id
}
