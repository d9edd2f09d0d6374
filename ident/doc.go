// Package ident generates the time-and-identity unique identifiers used
// to tag sessions and devices.
//
// An identifier is 16 octets: the current time's microsecond and second
// fields in the first 8 (with a pseudo-random version mark forced into
// octet 7), a wrapping process-wide 16-bit counter in octets 8-9, and the
// host's hardware address in octets 10-15.
//
// Uniqueness is best effort, not cryptographic: it holds as long as the
// counter does not wrap within one clock tick observed by two calls and
// the hardware address is locally unique.
package ident
