// Package timeval implements the split second/microsecond time value used
// throughout the VOS layer.
//
// TimeValue mirrors the classic timeval shape: a seconds field and a
// microseconds field, with the invariant 0 <= Usec < 1_000_000 after every
// normalizing operation. The cyclic scheduler computes elapsed and wait
// times with Sub; protocol timers combine deadlines with Add/Mul/Div.
//
// Operations mutate in place via pointer receivers, matching the mutate-
// the-first-operand contract the rest of the stack is written against.
//
// Subtraction is signed: when the subtrahend exceeds the minuend, Sec goes
// negative with no saturation. Elapsed-time callers rely on this; it is a
// documented sharp edge, not a defect.
package timeval
