package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tcnlab/vos"
	"github.com/tcnlab/vos/internal/record"
	"github.com/tcnlab/vos/thread"
)

// CycleOptions holds flags for the cycle command.
type CycleOptions struct {
	*RootOptions
	Name       string
	Interval   time.Duration
	Busy       time.Duration
	Iterations int
	Priority   int
	Policy     string
	Profile    string
	Record     string
}

// CycleSample is one measured loop iteration.
type CycleSample struct {
	Iteration int   `json:"iteration"`
	ElapsedUS int64 `json:"elapsed_us"`
	WaitUS    int64 `json:"wait_us"`
	PeriodUS  int64 `json:"period_us"` // start-to-start distance; 0 for the first iteration
	Overrun   bool  `json:"overrun,omitempty"`
}

// CycleReport is the cycle command's result.
type CycleReport struct {
	Name          string        `json:"name"`
	IntervalUS    int64         `json:"interval_us"`
	Iterations    int           `json:"iterations"`
	Overruns      int           `json:"overruns"`
	MinElapsedUS  int64         `json:"min_elapsed_us"`
	MaxElapsedUS  int64         `json:"max_elapsed_us"`
	MeanElapsedUS float64       `json:"mean_elapsed_us"`
	Samples       []CycleSample `json:"samples"`
}

// String renders the report as the text-mode table.
func (r *CycleReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "cycle run: %s\n", r.Name)
	fmt.Fprintf(&b, "interval:   %d us\n", r.IntervalUS)
	fmt.Fprintf(&b, "iterations: %d (%d overruns)\n", r.Iterations, r.Overruns)
	fmt.Fprintf(&b, "elapsed us: min=%d mean=%.1f max=%d\n", r.MinElapsedUS, r.MeanElapsedUS, r.MaxElapsedUS)
	fmt.Fprintf(&b, "\n%5s %11s %9s %10s\n", "iter", "elapsed_us", "wait_us", "period_us")
	for _, s := range r.Samples {
		period := "-"
		if s.PeriodUS > 0 {
			period = fmt.Sprintf("%d", s.PeriodUS)
		}
		line := fmt.Sprintf("%5d %11d %9d %10s", s.Iteration, s.ElapsedUS, s.WaitUS, period)
		if s.Overrun {
			line += "  OVERRUN"
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// NewCycleCommand creates the cycle command.
func NewCycleCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CycleOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "cycle",
		Short: "Run the cyclic scheduler and report timing behavior",
		Long: `Run the VOS cyclic execution scheduler on this host with a synthetic
work function and report the measured timing behavior.

Each iteration busy-waits for the configured duration; the scheduler
compensates the remaining wait so that call starts are one interval
apart. The report lists per-iteration elapsed time, compensated wait,
start-to-start period, and overruns.

Examples:
  voscheck cycle --interval 10ms --busy 3ms --iterations 100
  voscheck cycle --profile run.yaml --record samples.db
  voscheck cycle --interval 5ms --busy 8ms --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCycle(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "pd-cycle", "name of the cyclic thread")
	cmd.Flags().DurationVar(&opts.Interval, "interval", 10*time.Millisecond, "cycle interval")
	cmd.Flags().DurationVar(&opts.Busy, "busy", 3*time.Millisecond, "synthetic work duration per iteration")
	cmd.Flags().IntVar(&opts.Iterations, "iterations", 50, "number of iterations to run")
	cmd.Flags().IntVar(&opts.Priority, "priority", 0, "thread priority 1..255, 0 for host default")
	cmd.Flags().StringVar(&opts.Policy, "policy", "default", "scheduling policy (default|fifo|round-robin)")
	cmd.Flags().StringVar(&opts.Profile, "profile", "", "YAML run profile (flags win over profile values)")
	cmd.Flags().StringVar(&opts.Record, "record", "", "persist samples to this SQLite database")

	return cmd
}

// applyProfile overlays profile values under any flags the user did not
// set explicitly.
func applyProfile(opts *CycleOptions, cmd *cobra.Command, p *Profile) error {
	flags := cmd.Flags()
	if p.Name != "" && !flags.Changed("name") {
		opts.Name = p.Name
	}
	if p.Interval != "" && !flags.Changed("interval") {
		d, err := parseDuration("interval", p.Interval)
		if err != nil {
			return err
		}
		opts.Interval = d
	}
	if p.Busy != "" && !flags.Changed("busy") {
		d, err := parseDuration("busy", p.Busy)
		if err != nil {
			return err
		}
		opts.Busy = d
	}
	if p.Iterations != 0 && !flags.Changed("iterations") {
		opts.Iterations = p.Iterations
	}
	if p.Priority != 0 && !flags.Changed("priority") {
		opts.Priority = p.Priority
	}
	if p.Policy != "" && !flags.Changed("policy") {
		opts.Policy = p.Policy
	}
	return nil
}

func runCycle(opts *CycleOptions, cmd *cobra.Command) error {
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	if opts.Profile != "" {
		p, err := LoadProfile(opts.Profile)
		if err != nil {
			_ = out.Error("profile", err.Error())
			return err
		}
		if err := applyProfile(opts, cmd, p); err != nil {
			_ = out.Error("profile", err.Error())
			return err
		}
	}
	policy, err := parsePolicy(opts.Policy)
	if err != nil {
		_ = out.Error("policy", err.Error())
		return err
	}
	if opts.Iterations < 1 {
		err := fmt.Errorf("iterations must be at least 1")
		_ = out.Error("iterations", err.Error())
		return err
	}

	log := vos.Discard
	if opts.Verbose {
		log = vos.NewSink(cmd.ErrOrStderr())
	}

	report, err := measureCycle(log, opts, policy)
	if err != nil {
		_ = out.Error("cycle", err.Error())
		return err
	}

	if opts.Record != "" {
		if err := persistReport(cmd.Context(), opts.Record, report); err != nil {
			_ = out.Error("record", err.Error())
			return err
		}
	}

	return out.Success(report)
}

// measureCycle runs the scheduler on a managed thread and collects one
// sample per iteration.
func measureCycle(log vos.Logger, opts *CycleOptions, policy thread.Policy) (*CycleReport, error) {
	mgr, err := thread.Init(thread.WithLogger(log))
	if err != nil {
		return nil, err
	}
	defer mgr.Term()

	type measurement struct {
		start   time.Time
		elapsed time.Duration
	}
	// Written only by the cyclic goroutine; read after the join.
	measurements := make([]measurement, 0, opts.Iterations)
	var loopErr error
	finished := make(chan struct{})

	attr := thread.Attr{Policy: policy, Priority: opts.Priority}
	th, err := mgr.Create(opts.Name, attr, func(ctx context.Context, arg any) {
		defer close(finished)
		runCtx, stop := context.WithCancel(ctx)
		defer stop()
		loopErr = mgr.Cyclic(runCtx, opts.Name, opts.Interval, func(context.Context, any) {
			m := measurement{start: time.Now()}
			spin(opts.Busy)
			m.elapsed = time.Since(m.start)
			measurements = append(measurements, m)
			if len(measurements) >= opts.Iterations {
				stop()
			}
		}, nil)
	}, nil)
	if err != nil {
		return nil, err
	}

	// The loop stops itself after the configured iteration count;
	// Terminate then joins immediately and consumes the handle.
	<-finished
	if err := mgr.Terminate(th); err != nil {
		return nil, err
	}
	// Cancellation is the loop's normal exit; anything else is a real
	// failure, e.g. an interval below the host granularity.
	if loopErr != nil && !errors.Is(loopErr, context.Canceled) {
		return nil, loopErr
	}

	intervalUS := opts.Interval.Microseconds()
	report := &CycleReport{
		Name:       opts.Name,
		IntervalUS: intervalUS,
		Iterations: len(measurements),
	}
	var sumElapsed int64
	for i, m := range measurements {
		elapsedUS := m.elapsed.Microseconds()
		s := CycleSample{
			Iteration: i,
			ElapsedUS: elapsedUS,
			Overrun:   elapsedUS > intervalUS,
		}
		if !s.Overrun {
			s.WaitUS = intervalUS - elapsedUS
		}
		if i > 0 {
			s.PeriodUS = m.start.Sub(measurements[i-1].start).Microseconds()
		}
		if s.Overrun {
			report.Overruns++
		}
		if i == 0 || elapsedUS < report.MinElapsedUS {
			report.MinElapsedUS = elapsedUS
		}
		if elapsedUS > report.MaxElapsedUS {
			report.MaxElapsedUS = elapsedUS
		}
		sumElapsed += elapsedUS
		report.Samples = append(report.Samples, s)
	}
	if len(measurements) > 0 {
		report.MeanElapsedUS = float64(sumElapsed) / float64(len(measurements))
	}
	return report, nil
}

// spin busy-waits for d. A sleep would under-represent scheduler load and
// round to the host timer; busy-waiting gives the loop a deterministic
// synthetic runtime.
func spin(d time.Duration) {
	end := time.Now().Add(d)
	for time.Now().Before(end) {
	}
}

// persistReport writes the report's samples through the record store.
func persistReport(ctx context.Context, path string, r *CycleReport) error {
	if ctx == nil {
		ctx = context.Background()
	}
	store, err := record.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	runID, err := store.BeginRun(ctx, record.Run{
		Name:       r.Name,
		IntervalUS: r.IntervalUS,
		Iterations: r.Iterations,
		StartedAt:  time.Now(),
	})
	if err != nil {
		return err
	}
	for _, s := range r.Samples {
		err := store.WriteSample(ctx, runID, record.Sample{
			Iteration: s.Iteration,
			ElapsedUS: s.ElapsedUS,
			WaitUS:    s.WaitUS,
			Overrun:   s.Overrun,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
