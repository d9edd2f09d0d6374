//go:build linux

package thread

import (
	"runtime"

	"golang.org/x/sys/unix"

	"github.com/tcnlab/vos"
)

// applySched maps the portable priority/policy onto Linux scheduling for
// the calling goroutine. The goroutine is pinned to its OS thread first so
// the settings stay attached to this unit of execution.
//
// Best effort throughout: real-time classes and negative niceness need
// CAP_SYS_NICE, and a refusal is diagnosed, never escalated.
func applySched(log vos.Logger, name string, attr Attr) {
	runtime.LockOSThread()

	switch attr.Policy {
	case PolicyDefault:
		if attr.Priority > 0 {
			// Partition 1..255 onto niceness 19..-20 in equal bands.
			nice := 19 - attr.Priority*39/255
			if err := unix.Setpriority(unix.PRIO_PROCESS, unix.Gettid(), nice); err != nil {
				log.Logf(vos.SeverityWarning, "%s: setting niceness %d failed: %v", name, nice, err)
			}
		}
	case PolicyFIFO, PolicyRoundRobin:
		policy := uint32(unix.SCHED_FIFO)
		if attr.Policy == PolicyRoundRobin {
			policy = unix.SCHED_RR
		}
		// Partition 1..255 onto the real-time range 1..99.
		rt := 1
		if attr.Priority > 0 {
			rt = 1 + (attr.Priority-1)*98/254
		}
		err := unix.SchedSetAttr(0, &unix.SchedAttr{
			Size:     unix.SizeofSchedAttr,
			Policy:   policy,
			Priority: uint32(rt),
		}, 0)
		if err != nil {
			log.Logf(vos.SeverityWarning, "%s: scheduling policy %v priority %d failed: %v",
				name, attr.Policy, rt, err)
		}
	default:
		log.Logf(vos.SeverityWarning, "%s: thread policy %v is not supported", name, attr.Policy)
	}
}
