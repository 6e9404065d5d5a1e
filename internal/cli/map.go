package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/nanoseed/nanoseed/internal/align"
	"github.com/nanoseed/nanoseed/internal/config"
	"github.com/nanoseed/nanoseed/internal/fmindex"
	"github.com/nanoseed/nanoseed/internal/model"
	"github.com/nanoseed/nanoseed/internal/store"
	"github.com/nanoseed/nanoseed/internal/tracker"
)

// MapOptions holds flags for the map command.
type MapOptions struct {
	Root   *RootOptions
	Index  string
	Model  string
	Config string
	DB     string
	Seeds  bool
	KmerK  int
}

// NewMapCommand maps an event-mean stream against a reference index.
func NewMapCommand(root *RootOptions) *cobra.Command {
	opts := &MapOptions{Root: root}

	cmd := &cobra.Command{
		Use:   "map [events.tsv]",
		Short: "Map an event stream against the reference index",
		Long: "map reads a read_id<TAB>event_mean stream (file or stdin), normalises\n" +
			"each read's current, and drives one aligner per read. Decisions are\n" +
			"printed as TSV; --seeds also prints every emitted seed.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Root.Profile {
				defer profile.Start(profile.ProfilePath(".")).Stop()
			}
			return runMap(opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.Index, "index", "x", "", "reference index built by nanoseed index")
	cmd.Flags().StringVarP(&opts.Model, "model", "m", "", "pore model TSV (default: synthetic)")
	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "YAML run config")
	cmd.Flags().StringVar(&opts.DB, "db", "", "also log seeds and decisions to this SQLite file")
	cmd.Flags().BoolVar(&opts.Seeds, "seeds", false, "print every emitted seed")
	cmd.Flags().IntVarP(&opts.KmerK, "kmer-len", "k", 5, "k-mer length for the synthetic model")
	cmd.MarkFlagRequired("index")

	return cmd
}

func runMap(opts *MapOptions, args []string) error {
	cfg := config.Default()
	if opts.Config != "" {
		var err error
		if cfg, err = config.Load(opts.Config); err != nil {
			return err
		}
	}

	idx, err := fmindex.Load(opts.Index)
	if err != nil {
		return err
	}

	var pm *model.PoreModel
	if opts.Model != "" {
		if pm, err = model.LoadTSV(opts.Model); err != nil {
			return err
		}
	} else {
		pm = model.NewSynthetic(opts.KmerK)
	}
	slog.Debug("model ready", "k", pm.KmerLen(), "kmers", pm.KmerCount())

	in := os.Stdin
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open events: %w", err)
		}
		defer f.Close()
		in = f
	}
	reads, err := parseEventStream(in)
	if err != nil {
		return err
	}

	var db *store.Store
	if opts.DB != "" {
		if db, err = store.Open(opts.DB); err != nil {
			return err
		}
		defer db.Close()
	}

	out := os.Stdout
	curRead := ""
	sink := &teeTracker{
		inner: tracker.New(cfg.Tracker),
		onSeed: func(s align.Seed) {
			if opts.Seeds {
				writeSeedLine(out, curRead, s)
			}
			if db != nil {
				if err := db.WriteSeed(curRead, s); err != nil {
					slog.Warn("seed not persisted", "read", curRead, "err", err)
				}
			}
		},
	}

	aligner, err := align.NewAligner(cfg.Aligner, idx, pm, sink)
	if err != nil {
		return err
	}
	norm := model.NewNormalizer(pm, cfg.EventBuffer)
	probs := make([]float32, pm.KmerCount())

	for _, rd := range reads {
		curRead = rd.ID
		mapRead(aligner, norm, pm, probs, rd)

		var res *align.MapResult
		if aligner.GetState() == align.StateSuccess {
			r := aligner.Result()
			res = &r
		}
		writeReadLine(out, rd.ID, aligner.GetState(), aligner.EventIndex(), res)
		if db != nil {
			if err := db.WriteRead(rd.ID, aligner.GetState(), aligner.EventIndex(), res); err != nil {
				slog.Warn("read not persisted", "read", rd.ID, "err", err)
			}
		}
	}
	return nil
}

// mapRead drives one read through the aligner until it maps, fails, or
// runs out of events.
func mapRead(aligner *align.Aligner, norm *model.Normalizer, pm *model.PoreModel, probs []float32, rd readEvents) {
	aligner.NewRead()
	norm.Reset()

	for _, mean := range rd.Means {
		if !norm.Push(mean) {
			// The ring lagged the stream; drop the backlog and keep
			// the read coordinates aligned.
			aligner.SkipEvents(norm.SkipUnread(0))
			norm.Push(mean)
		}
		for !norm.Empty() {
			pm.EventProbs(norm.Pop(), probs)
			if aligner.AddEvent(probs) != align.DecisionNone {
				return
			}
		}
	}

	// The stream ended without a decision; the read cannot map.
	if !aligner.Finished() {
		aligner.RequestReset()
		aligner.AddEvent(probs)
	}
}
