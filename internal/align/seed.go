package align

// Seed is one emitted hit, one record per suffix-array position at
// emission time. Reference coordinates are reversed against the index so
// read and reference both increase left to right.
type Seed struct {
	// ReadEventEnd is the event index at which the seed ends. For a
	// path that died this event it is the previous event's index.
	ReadEventEnd int

	// ReadWindow is the constant seed length in events (W).
	ReadWindow int

	RefStart uint64
	RefEnd   uint64

	// WinProb is the emitting path's window mean probability.
	WinProb float32
}
