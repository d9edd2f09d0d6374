package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tcnlab/vos"
	"github.com/tcnlab/vos/ident"
)

// UUIDOptions holds flags for the uuid command.
type UUIDOptions struct {
	*RootOptions
	Count int
}

// UUIDResult holds the minted identifiers.
type UUIDResult struct {
	Identifiers []string `json:"identifiers"`
}

// String renders one identifier per line for text mode.
func (r *UUIDResult) String() string {
	return strings.Join(r.Identifiers, "\n")
}

// NewUUIDCommand creates the uuid command.
func NewUUIDCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &UUIDOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "uuid",
		Short: "Mint time-and-identity unique identifiers",
		Long: `Mint identifiers from the VOS identifier generator: current time,
a wrapping process counter, and this host's hardware address.

Examples:
  voscheck uuid
  voscheck uuid -n 10 --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUUID(opts, cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Count, "count", "n", 1, "number of identifiers to mint")

	return cmd
}

func runUUID(opts *UUIDOptions, cmd *cobra.Command) error {
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	if opts.Count < 1 {
		err := fmt.Errorf("count must be at least 1")
		_ = out.Error("count", err.Error())
		return err
	}

	log := vos.Discard
	if opts.Verbose {
		log = vos.NewSink(cmd.ErrOrStderr())
	}
	gen := ident.NewGenerator(ident.WithLogger(log))

	result := &UUIDResult{Identifiers: make([]string, 0, opts.Count)}
	for i := 0; i < opts.Count; i++ {
		result.Identifiers = append(result.Identifiers, gen.Next().String())
	}
	return out.Success(result)
}
