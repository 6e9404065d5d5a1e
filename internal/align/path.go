package align

// path is one partial alignment. Paths are value types living in the
// aligner's fixed arenas; a child copies what it needs from its parent
// and no parent pointer is kept. length 0 marks an invalidated slot.
//
// probSums holds running prefix sums of the window's per-event
// probabilities so any window mean is O(1). The slice is allocated once
// per slot at arena construction and reused for every path that occupies
// the slot.
type path struct {
	length        int
	fmRange       Range
	kmer          uint16
	eventTypes    uint64
	winTypeCounts [numEventTypes]uint8
	probSums      []float32
	winProb       float32
	consecStays   int
	saChecked     bool
}

// makeSource resets the slot to a fresh one-event path over range r.
// The seeding event counts as a match.
func (p *path) makeSource(r Range, kmer uint16, prob float32) {
	p.length = 1
	p.consecStays = 0
	p.eventTypes = 0
	p.winProb = prob
	p.fmRange = r
	p.kmer = kmer
	p.saChecked = false

	p.winTypeCounts = [numEventTypes]uint8{}
	p.winTypeCounts[EventMatch] = 1

	p.probSums[0] = 0
	p.probSums[1] = prob
}

// makeChild extends parent by one event into this slot. Length saturates
// at winLen+1, which marks the window full; from then on each extension
// slides the window by one, dropping the parent's tail event from the
// type counts and shifting the prefix sums left.
//
// saChecked is inherited: a child's range is the same interval or a
// sub-interval of the parent's, so seeds already emitted stay valid and
// must not be emitted again.
func (p *path) makeChild(tp typePacker, parent *path, r Range, kmer uint16, prob float32, t EventType) {
	w := tp.winLen

	p.fmRange = r
	p.kmer = kmer
	p.saChecked = parent.saChecked
	p.consecStays = parent.consecStays
	p.winTypeCounts = parent.winTypeCounts

	if parent.length >= w {
		p.length = w + 1
		copy(p.probSums[:w], parent.probSums[1:w+1])
		p.probSums[w] = p.probSums[w-1] + prob
		p.winProb = (p.probSums[w] - p.probSums[0]) / float32(w)
		p.winTypeCounts[tp.tail(parent.eventTypes)]--
	} else {
		p.length = parent.length + 1
		copy(p.probSums[:p.length], parent.probSums[:p.length])
		p.probSums[p.length] = p.probSums[p.length-1] + prob
		p.winProb = (p.probSums[p.length] - p.probSums[0]) / float32(p.length)
	}

	p.eventTypes = tp.push(parent.eventTypes, t)
	p.winTypeCounts[t]++

	if t == EventStay {
		p.consecStays++
	} else {
		p.consecStays = 0
	}
}

// invalidate marks the slot dead; subsequent steps skip it.
func (p *path) invalidate() {
	p.length = 0
}

func (p *path) isValid() bool {
	return p.length > 0
}

// winLen returns the number of events currently inside the window.
func (p *path) winLen(w int) int {
	if p.length > w {
		return w
	}
	return p.length
}

// matchLen returns the match count inside the window.
func (p *path) matchLen() int {
	return int(p.winTypeCounts[EventMatch])
}

// shouldReport is the seed predicate. A path reports when its interval
// is unique, or — only once the path has ended — when the interval is a
// bounded repeat with enough matches. The window must be full, the head
// event a match (unless ended), stays within the window under the stay
// fraction (unless ended), and the window mean above the emission
// threshold.
func (p *path) shouldReport(pr *Params, tp typePacker, pathEnded bool) bool {
	return (p.fmRange.Length() == 1 ||
		(pathEnded &&
			p.fmRange.Length() <= uint64(pr.MaxRepCopy) &&
			p.matchLen() >= pr.MinRepLen)) &&

		p.length >= pr.PathWinLen &&
		(pathEnded || tp.head(p.eventTypes) == EventMatch) &&
		(pathEnded || float32(p.winTypeCounts[EventStay]) <= pr.MaxStayFrac*float32(pr.PathWinLen)) &&
		p.winProb >= pr.WindowProb
}

// pathLess orders paths by (fmRange, winProb) ascending. Deduplication
// relies on this: among paths sharing an interval, the strongest sorts
// last and survives.
func pathLess(a, b *path) bool {
	if !a.fmRange.Equal(b.fmRange) {
		return a.fmRange.Less(b.fmRange)
	}
	return a.winProb < b.winProb
}
