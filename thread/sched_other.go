//go:build !linux

package thread

import "github.com/tcnlab/vos"

// applySched is a diagnostic-only stub: this host exposes no portable way
// to set per-goroutine scheduling, so priority and policy stay advisory.
func applySched(log vos.Logger, name string, attr Attr) {
	if attr.Policy != PolicyDefault {
		log.Logf(vos.SeverityWarning, "%s: thread policy %v is not supported on this host", name, attr.Policy)
	}
	if attr.Priority > 0 {
		log.Logf(vos.SeverityDebug, "%s: thread priority %d is advisory on this host", name, attr.Priority)
	}
}
