package ident

import (
	"net"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/tcnlab/vos"
	"github.com/tcnlab/vos/timeval"
)

// HardwareAddr looks up the host's 6-octet hardware address.
type HardwareAddr func() ([6]byte, error)

// SystemHardwareAddr returns the address of the first non-loopback
// interface carrying a 6-octet hardware address.
func SystemHardwareAddr() ([6]byte, error) {
	var mac [6]byte
	ifaces, err := net.Interfaces()
	if err != nil {
		return mac, err
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagLoopback != 0 || len(iface.HardwareAddr) != 6 {
			continue
		}
		copy(mac[:], iface.HardwareAddr)
		return mac, nil
	}
	return mac, &net.AddrError{Err: "no interface with a hardware address"}
}

// Generator mints identifiers from a clock, a wrapping counter, and a
// hardware address. The zero value is not usable; use NewGenerator.
type Generator struct {
	clock timeval.Clock
	hw    HardwareAddr
	log   vos.Logger

	// count wraps at 16 bits; only the low half is emitted.
	count atomic.Uint32

	// mac is resolved once at construction. A lookup failure leaves it
	// zeroed and is diagnosed per generated identifier.
	mac   [6]byte
	macOK bool
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock overrides the time source.
func WithClock(c timeval.Clock) Option {
	return func(g *Generator) {
		if c != nil {
			g.clock = c
		}
	}
}

// WithHardwareAddr overrides the hardware-address lookup.
func WithHardwareAddr(hw HardwareAddr) Option {
	return func(g *Generator) {
		if hw != nil {
			g.hw = hw
		}
	}
}

// WithLogger sets the diagnostic sink. Default: vos.Discard.
func WithLogger(log vos.Logger) Option {
	return func(g *Generator) {
		if log != nil {
			g.log = log
		}
	}
}

// NewGenerator builds a Generator. The counter starts at 1 so the first
// identifier of a process is distinguishable from the zeroed pattern.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		clock: timeval.SystemClock,
		hw:    SystemHardwareAddr,
		log:   vos.Discard,
	}
	for _, opt := range opts {
		opt(g)
	}
	mac, err := g.hw()
	if err == nil {
		g.mac = mac
		g.macOK = true
	}
	return g
}

// Next mints one identifier.
//
// Octets 0-3 carry the microseconds little-endian, 4-7 the seconds with
// the 0x4 pseudo-random version mark in octet 7, 8-9 the counter, 10-15
// the hardware address. A failed hardware-address lookup leaves octets
// 10-15 zeroed and emits one diagnostic.
func (g *Generator) Next() uuid.UUID {
	now := timeval.NowClock(g.clock, g.log)
	count := uint16(g.count.Add(1))

	var id uuid.UUID
	id[0] = byte(now.Usec)
	id[1] = byte(now.Usec >> 8)
	id[2] = byte(now.Usec >> 16)
	id[3] = byte(now.Usec >> 24)
	id[4] = byte(now.Sec)
	id[5] = byte(now.Sec >> 8)
	id[6] = byte(now.Sec >> 16)
	id[7] = byte(now.Sec>>24)&0x0F | 0x4

	id[8] = byte(count)
	id[9] = byte(count >> 8)

	if g.macOK {
		copy(id[10:], g.mac[:])
	} else {
		g.log.Logf(vos.SeverityError, "hardware address lookup failed, identifier carries zeroed node octets")
	}
	return id
}

// defaultGenerator backs the package-level New.
var defaultGenerator = NewGenerator()

// New mints one identifier from the shared process-wide generator.
func New() uuid.UUID {
	return defaultGenerator.Next()
}
