package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tcnlab/vos/timeval"
)

// StampResult holds the rendered timestamp.
type StampResult struct {
	Timestamp string `json:"timestamp"`
}

// String renders the bare timestamp for text mode.
func (r *StampResult) String() string {
	return r.Timestamp
}

// NewStampCommand creates the stamp command.
func NewStampCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stamp",
		Short: "Print the VOS debug timestamp",
		Long: `Print the host wall clock in the VOS debug format
"YYYYMMDD-HH:MM:SS.mmm".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout(), Verbose: rootOpts.Verbose}
			ts := timeval.Timestamp()
			if ts == "" {
				err := fmt.Errorf("wall clock read failed")
				_ = out.Error("clock", err.Error())
				return err
			}
			return out.Success(&StampResult{Timestamp: ts})
		},
	}
	return cmd
}
