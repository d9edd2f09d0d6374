package cli

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tcnlab/vos/thread"
)

// Profile is a YAML run profile for the cycle command. Durations use the
// Go duration syntax ("10ms", "1.5s").
//
// Example:
//
//	name: pd-cycle
//	interval: 10ms
//	busy: 3ms
//	iterations: 100
//	priority: 200
//	policy: fifo
type Profile struct {
	Name       string `yaml:"name"`
	Interval   string `yaml:"interval"`
	Busy       string `yaml:"busy"`
	Iterations int    `yaml:"iterations"`
	Priority   int    `yaml:"priority"`
	Policy     string `yaml:"policy"`
}

// LoadProfile reads and parses a YAML run profile.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", path, err)
	}
	return &p, nil
}

// parsePolicy maps a profile policy name onto the thread policy.
func parsePolicy(name string) (thread.Policy, error) {
	switch name {
	case "", "default":
		return thread.PolicyDefault, nil
	case "fifo":
		return thread.PolicyFIFO, nil
	case "round-robin", "rr":
		return thread.PolicyRoundRobin, nil
	default:
		return thread.PolicyDefault, fmt.Errorf("unknown scheduling policy %q", name)
	}
}

// parseDuration parses a non-empty duration field, with a named error.
func parseDuration(field, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("profile field %s: %w", field, err)
	}
	return d, nil
}
