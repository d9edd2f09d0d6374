package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tcnlab/vos"
	"github.com/tcnlab/vos/internal/record"
	"github.com/tcnlab/vos/thread"
)

func TestMeasureCycle(t *testing.T) {
	opts := &CycleOptions{
		RootOptions: &RootOptions{Format: "text"},
		Name:        "test-cycle",
		Interval:    5 * time.Millisecond,
		Busy:        time.Millisecond,
		Iterations:  3,
	}

	report, err := measureCycle(vos.Discard, opts, thread.PolicyDefault)
	require.NoError(t, err)

	assert.Equal(t, "test-cycle", report.Name)
	assert.Equal(t, int64(5000), report.IntervalUS)
	require.Equal(t, 3, report.Iterations)
	require.Len(t, report.Samples, 3)

	assert.LessOrEqual(t, report.MinElapsedUS, int64(report.MeanElapsedUS)+1)
	assert.GreaterOrEqual(t, report.MaxElapsedUS, int64(report.MeanElapsedUS))

	for i, s := range report.Samples {
		assert.Equal(t, i, s.Iteration)
		assert.GreaterOrEqual(t, s.ElapsedUS, opts.Busy.Microseconds(),
			"sample %d should run at least the busy duration", i)
		if s.Overrun {
			assert.Zero(t, s.WaitUS, "overrunning sample %d should have no wait", i)
		} else {
			assert.Equal(t, report.IntervalUS-s.ElapsedUS, s.WaitUS)
		}
		if i == 0 {
			assert.Zero(t, s.PeriodUS)
		} else {
			assert.Positive(t, s.PeriodUS)
		}
	}
}

func TestMeasureCycle_SubGranularityInterval(t *testing.T) {
	opts := &CycleOptions{
		RootOptions: &RootOptions{Format: "text"},
		Name:        "too-fast",
		Interval:    500 * time.Microsecond,
		Busy:        100 * time.Microsecond,
		Iterations:  1,
	}

	report, err := measureCycle(vos.Discard, opts, thread.PolicyDefault)
	require.Error(t, err, "a rejected interval must not yield an empty success report")
	assert.ErrorIs(t, err, vos.ErrParam)
	assert.Nil(t, report)
}

func TestCycleCommand_SubGranularityInterval(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"cycle", "--interval", "500us", "--iterations", "1"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.ErrorIs(t, err, vos.ErrParam)
}

func TestCycleCommand_JSON(t *testing.T) {
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"cycle",
		"--interval", "5ms", "--busy", "1ms", "--iterations", "2",
		"--format", "json"})

	require.NoError(t, cmd.Execute())

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "pd-cycle", data["name"])
	assert.Equal(t, float64(2), data["iterations"])
}

func TestCycleCommand_Profile(t *testing.T) {
	profile := writeProfile(t, `
name: from-profile
interval: 5ms
busy: 1ms
iterations: 2
`)

	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	// The explicit flag wins over the profile value.
	cmd.SetArgs([]string{"cycle", "--profile", profile, "--iterations", "1"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "cycle run: from-profile")
	assert.Contains(t, out.String(), "iterations: 1 ")
}

func TestCycleCommand_Record(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "samples.db")

	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"cycle",
		"--interval", "5ms", "--busy", "1ms", "--iterations", "2",
		"--record", dbPath})

	require.NoError(t, cmd.Execute())

	store, err := record.Open(dbPath)
	require.NoError(t, err)
	defer store.Close()

	samples, err := store.ReadSamples(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, samples, 2)
}

func TestCycleCommand_BadIterations(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"cycle", "--iterations", "0"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "iterations")
}
