// Package cli wires the nanoseed commands: building the reference index
// and mapping event streams against it.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	Verbose bool
	Profile bool
}

// NewRootCommand creates the nanoseed root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "nanoseed",
		Short: "Real-time seed finding for nanopore selective sequencing",
		Long: "nanoseed maps streams of nanopore signal events against a reference\n" +
			"FM-index with low enough latency to support mid-read decisions.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if opts.Verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			})))
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().BoolVar(&opts.Profile, "profile", false, "write a CPU profile to the working directory")

	cmd.AddCommand(NewIndexCommand(opts))
	cmd.AddCommand(NewMapCommand(opts))

	return cmd
}

// Execute runs the CLI and returns a process exit code.
func Execute() int {
	if err := NewRootCommand().Execute(); err != nil {
		return 1
	}
	return 0
}
