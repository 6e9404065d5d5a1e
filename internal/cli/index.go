package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nanoseed/nanoseed/internal/fmindex"
)

// IndexOptions holds flags for the index command.
type IndexOptions struct {
	Root      *RootOptions
	Reference string
	Output    string
}

// NewIndexCommand builds the FM-index for a reference FASTA.
func NewIndexCommand(root *RootOptions) *cobra.Command {
	opts := &IndexOptions{Root: root}

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Build the reference FM-index",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Reference, "reference", "r", "", "reference FASTA (single record)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output index path")
	cmd.MarkFlagRequired("reference")
	cmd.MarkFlagRequired("output")

	return cmd
}

func runIndex(opts *IndexOptions) error {
	name, seq, err := fmindex.ReadFasta(opts.Reference)
	if err != nil {
		return err
	}
	slog.Info("read reference", "name", name, "length", len(seq))

	// Index the reversed text: backward extension then walks the read
	// left to right, and seed emission un-reverses coordinates.
	idx, err := fmindex.New(fmindex.Reverse(seq))
	if err != nil {
		return err
	}
	if err := idx.Save(opts.Output); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "indexed %s (%d bp) -> %s\n", name, len(seq), opts.Output)
	return nil
}
