// Package cli implements the voscheck command line tool.
//
// voscheck is the field qualification tool for the VOS layer: it exercises
// the cyclic execution scheduler on the target host and reports the timing
// behavior (periods, overruns, jitter), mints identifiers, and prints the
// VOS timestamp. Engineers run it on candidate hardware before deploying
// the protocol stack, and optionally persist the samples to SQLite for
// cross-host comparison.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the voscheck CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "voscheck",
		Short: "voscheck - VOS timing qualification tool",
		Long:  "Qualify a host's timing behavior for the VOS cyclic scheduler, and exercise the identifier and timestamp services.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	// Add subcommands
	cmd.AddCommand(NewCycleCommand(opts))
	cmd.AddCommand(NewUUIDCommand(opts))
	cmd.AddCommand(NewStampCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
