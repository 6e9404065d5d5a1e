package align

import (
	"fmt"
	"slices"
)

// State is the per-read lifecycle of an Aligner. Success and Failure are
// terminal until the next NewRead.
type State uint8

const (
	StateInactive State = iota
	StateMapping
	StateSuccess
	StateFailure
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateInactive:
		return "inactive"
	case StateMapping:
		return "mapping"
	case StateSuccess:
		return "success"
	case StateFailure:
		return "failure"
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// Decision is AddEvent's verdict for the event just consumed.
type Decision uint8

const (
	// DecisionNone means keep feeding events.
	DecisionNone Decision = iota
	// DecisionMapped means the tracker called a confident location.
	DecisionMapped
	// DecisionUnmapped means the read failed (event cap or reset).
	DecisionUnmapped
)

// Aligner drives the beam search for one read at a time. It owns the
// dual path arenas and the sources-added bitmap exclusively; the
// FM-index, model and tracker are shared references that must outlive
// it. Not safe for concurrent use — one instance per in-flight read.
type Aligner struct {
	params Params
	thresh ThresholdPolicy
	packer typePacker

	fmi     FMIndex
	model   KmerModel
	tracker SeedTracker

	// kmerRanges holds the full FM-interval of every k-mer, computed
	// once at construction and immutable after.
	kmerRanges []Range

	prevPaths    []path
	nextPaths    []path
	prevSize     int
	sourcesAdded []bool

	eventIdx int
	state    State
	reset    bool
	result   MapResult
}

// NewAligner validates params, precomputes the k-mer range table and
// allocates both arenas. On error no partial Aligner is returned.
func NewAligner(params Params, fmi FMIndex, model KmerModel, tracker SeedTracker) (*Aligner, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	thresh, err := ParseThresholds(params.EventProbs)
	if err != nil {
		return nil, err
	}

	a := &Aligner{
		params:       params,
		thresh:       thresh,
		packer:       newTypePacker(params.PathWinLen),
		fmi:          fmi,
		model:        model,
		tracker:      tracker,
		kmerRanges:   make([]Range, model.KmerCount()),
		prevPaths:    newArena(params.MaxPaths, params.PathWinLen),
		nextPaths:    newArena(params.MaxPaths, params.PathWinLen),
		sourcesAdded: make([]bool, model.KmerCount()),
		state:        StateInactive,
	}

	// Walk each k-mer through the index oldest base first. Backward
	// extension prepends, so the finished interval is the one every
	// path carrying this k-mer at its head lives inside; extending a
	// path by base b keeps it inside b's successor k-mer's interval.
	k := int(model.KmerLen())
	for kmer := range a.kmerRanges {
		r := fmi.FullRange(model.Base(uint16(kmer), 0))
		for i := 1; i < k; i++ {
			r = fmi.Neighbor(r, model.Base(uint16(kmer), i))
		}
		a.kmerRanges[kmer] = r
	}

	return a, nil
}

// newArena allocates maxPaths slots, each owning a winLen+1 prefix-sum
// buffer for the arena's lifetime.
func newArena(maxPaths, winLen int) []path {
	arena := make([]path, maxPaths)
	sums := make([]float32, maxPaths*(winLen+1))
	for i := range arena {
		arena[i].probSums = sums[i*(winLen+1) : (i+1)*(winLen+1)]
	}
	return arena
}

// NewRead resets all per-read state and starts mapping.
func (a *Aligner) NewRead() {
	a.prevSize = 0
	a.eventIdx = 0
	a.reset = false
	a.result = MapResult{}
	clear(a.sourcesAdded)
	a.tracker.Reset()
	a.state = StateMapping
}

// RequestReset asks the aligner to abandon the read. Callers set it
// between events; the next AddEvent short-circuits to Failure.
func (a *Aligner) RequestReset() { a.reset = true }

// EndReset clears a pending reset request.
func (a *Aligner) EndReset() { a.reset = false }

// IsResetting reports whether a reset is pending.
func (a *Aligner) IsResetting() bool { return a.reset }

// GetState returns the read state. Only meaningful at event boundaries.
func (a *Aligner) GetState() State { return a.state }

// Finished reports whether the read reached a terminal state.
func (a *Aligner) Finished() bool {
	return a.state == StateSuccess || a.state == StateFailure
}

// EventIndex returns the number of events consumed for this read.
func (a *Aligner) EventIndex() int { return a.eventIdx }

// Result returns the mapping reported with DecisionMapped.
func (a *Aligner) Result() MapResult { return a.result }

// KmerRange returns the precomputed full FM-interval of a k-mer.
func (a *Aligner) KmerRange(kmer uint16) Range { return a.kmerRanges[kmer] }

// SkipEvents advances the event index by n without consuming events and
// drops the live population. Used when the upstream normaliser rewinds.
func (a *Aligner) SkipEvents(n int) {
	a.eventIdx += n
	a.prevSize = 0
}

// AddEvent consumes one event's k-mer probability vector, runs a single
// beam step and consults the tracker. It never allocates in the steady
// state and never fails mid-step; capacity exhaustion ends a phase
// early, with a partial population carried into the next event.
func (a *Aligner) AddEvent(kmerProbs []float32) Decision {
	if a.reset || a.eventIdx >= a.params.MaxEventsProc {
		a.state = StateFailure
		a.reset = false
		return DecisionUnmapped
	}

	maxPaths := a.params.MaxPaths
	nextPath := 0 // bump cursor into nextPaths, never exceeds maxPaths

	// Phase 1: extend surviving paths by stay and by each base.
	for pi := 0; pi < a.prevSize; pi++ {
		prev := &a.prevPaths[pi]
		if !prev.isValid() {
			continue
		}

		childFound := false
		thresh := a.thresh.ProbThresh(prev.fmRange.Length())

		if prev.consecStays < a.params.MaxConsecStay &&
			kmerProbs[prev.kmer] >= thresh {

			a.nextPaths[nextPath].makeChild(a.packer, prev,
				prev.fmRange, prev.kmer, kmerProbs[prev.kmer], EventStay)
			childFound = true

			if nextPath++; nextPath == maxPaths {
				break
			}
		}

		for b := uint8(0); b < alphSize; b++ {
			nextKmer := a.model.Neighbor(prev.kmer, b)
			prob := kmerProbs[nextKmer]
			if prob < thresh {
				continue
			}

			nextRange := a.fmi.Neighbor(prev.fmRange, b)
			if !nextRange.IsValid() {
				continue
			}

			a.nextPaths[nextPath].makeChild(a.packer, prev,
				nextRange, nextKmer, prob, EventMatch)
			childFound = true

			if nextPath++; nextPath == maxPaths {
				break
			}
		}

		// A path that produced no child dies here; capture its seeds
		// now if it never reported.
		if !childFound && !prev.saChecked {
			a.updateSeeds(prev, true)
		}

		if nextPath == maxPaths {
			break
		}
	}

	// Phase 2: sort children, inject sources into the uncovered gaps of
	// each k-mer's full range, drop duplicate intervals, report seeds.
	if nextPath > 0 {
		nextSize := nextPath

		live := a.nextPaths[:nextSize]
		slices.SortFunc(live, func(x, y path) int {
			switch {
			case pathLess(&x, &y):
				return -1
			case pathLess(&y, &x):
				return 1
			}
			return 0
		})

		sourceProb := a.thresh.SourceProb()
		prevKmer := -1
		var uncheckedRange, sourceRange Range

		for i := 0; i < nextSize; i++ {
			cur := &a.nextPaths[i]
			sourceKmer := cur.kmer
			prob := kmerProbs[sourceKmer]

			// First path of a k-mer group: source for the head of the
			// k-mer's full range, before the first occupied interval.
			if int(sourceKmer) != prevKmer &&
				nextPath < maxPaths &&
				prob >= sourceProb {

				a.sourcesAdded[sourceKmer] = true

				sourceRange = Range{
					Start: a.kmerRanges[sourceKmer].Start,
					End:   cur.fmRange.Start - 1,
				}
				if sourceRange.IsValid() {
					a.nextPaths[nextPath].makeSource(sourceRange, sourceKmer, prob)
					nextPath++
				}

				uncheckedRange = Range{
					Start: cur.fmRange.End + 1,
					End:   a.kmerRanges[sourceKmer].End,
				}
			}

			prevKmer = int(sourceKmer)

			// Duplicate intervals collapse to one path; the sort put
			// the strongest last.
			if i < nextSize-1 && cur.fmRange.Equal(a.nextPaths[i+1].fmRange) {
				cur.invalidate()
				continue
			}

			// Source in the gap after this path, clipped by the next
			// path when it occupies the same k-mer.
			if nextPath < maxPaths && prob >= sourceProb {
				sourceRange = uncheckedRange

				if i < nextSize-1 && sourceKmer == a.nextPaths[i+1].kmer {
					sourceRange.End = a.nextPaths[i+1].fmRange.Start - 1

					if uncheckedRange.Start <= a.nextPaths[i+1].fmRange.End {
						uncheckedRange.Start = a.nextPaths[i+1].fmRange.End + 1
					}
				}

				if sourceRange.IsValid() {
					a.nextPaths[nextPath].makeSource(sourceRange, sourceKmer, prob)
					nextPath++
				}
			}

			a.updateSeeds(cur, false)
		}
	}

	// Phase 3: full-range sources for strong k-mers with no live path,
	// clearing the bitmap on the way.
	sourceProb := a.thresh.SourceProb()
	for kmer := 0; kmer < len(a.kmerRanges) && nextPath < maxPaths; kmer++ {
		r := a.kmerRanges[kmer]

		if !a.sourcesAdded[kmer] &&
			kmerProbs[kmer] >= sourceProb &&
			r.IsValid() {

			a.nextPaths[nextPath].makeSource(r, uint16(kmer), kmerProbs[kmer])
			nextPath++
		} else {
			a.sourcesAdded[kmer] = false
		}
	}

	a.prevSize = nextPath
	a.prevPaths, a.nextPaths = a.nextPaths, a.prevPaths
	a.eventIdx++

	if res, ok := a.tracker.Decide(); ok {
		a.result = res
		a.state = StateSuccess
		return DecisionMapped
	}
	return DecisionNone
}

// updateSeeds emits one seed per suffix-array position of p's interval
// if the seed predicate holds, then marks the path so it never reports
// again. Children inherit the mark.
func (a *Aligner) updateSeeds(p *path, pathEnded bool) {
	if p.saChecked || !p.shouldReport(&a.params, a.packer, pathEnded) {
		return
	}

	p.saChecked = true

	end := a.eventIdx
	if pathEnded {
		end--
	}

	for s := p.fmRange.Start; s <= p.fmRange.End; s++ {
		// Reverse the reference coords so read and reference both
		// increase left to right.
		refEnd := a.fmi.Size() - a.fmi.SA(s) + 1

		a.tracker.AddSeed(Seed{
			ReadEventEnd: end,
			ReadWindow:   a.params.PathWinLen,
			RefStart:     refEnd - uint64(p.matchLen()) + 1,
			RefEnd:       refEnd,
			WinProb:      p.winProb,
		})
	}
}
