package cli

import (
	"fmt"
	"io"

	"github.com/nanoseed/nanoseed/internal/align"
)

// writeSeedLine renders one seed record as TSV:
// read id, event range, reference range, window probability.
func writeSeedLine(w io.Writer, readID string, s align.Seed) {
	fmt.Fprintf(w, "seed\t%s\t%d-%d\t%d-%d\t%.3f\n",
		readID,
		s.ReadEventEnd-s.ReadWindow, s.ReadEventEnd,
		s.RefStart, s.RefEnd,
		s.WinProb)
}

// writeReadLine renders a finished read's decision as TSV.
func writeReadLine(w io.Writer, readID string, state align.State, events int, res *align.MapResult) {
	if res != nil {
		fmt.Fprintf(w, "read\t%s\t%s\t%d\t%d-%d\t%d\n",
			readID, state, events, res.RefStart, res.RefEnd, res.TotalLen)
		return
	}
	fmt.Fprintf(w, "read\t%s\t%s\t%d\t*\t0\n", readID, state, events)
}

// teeTracker forwards seeds to the real tracker while letting the CLI
// observe each emission for printing and persistence.
type teeTracker struct {
	inner  align.SeedTracker
	onSeed func(align.Seed)
}

func (t *teeTracker) AddSeed(s align.Seed) {
	t.onSeed(s)
	t.inner.AddSeed(s)
}

func (t *teeTracker) Decide() (align.MapResult, bool) { return t.inner.Decide() }
func (t *teeTracker) Reset()                          { t.inner.Reset() }
