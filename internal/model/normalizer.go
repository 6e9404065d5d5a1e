package model

import "math"

// Normalizer buffers raw event means and rescales them onto the model's
// level range by moment matching over everything seen so far for the
// read. Events are written once and read once, in order; the fixed ring
// gives the caller back-pressure when the aligner falls behind.
type Normalizer struct {
	model *PoreModel

	events []float32
	sum    float64
	sumsq  float64
	n      uint64 // total events pushed for this read
	rd     int
	wr     int
	unread int
}

// NewNormalizer creates a normaliser with a ring of bufferSize raw
// events.
func NewNormalizer(m *PoreModel, bufferSize int) *Normalizer {
	return &Normalizer{
		model:  m,
		events: make([]float32, bufferSize),
	}
}

// Push adds a raw event mean. Returns false when the ring is full; the
// caller must Pop (or SkipUnread) before retrying.
func (nm *Normalizer) Push(mean float32) bool {
	if nm.unread == len(nm.events) {
		return false
	}
	nm.events[nm.wr] = mean
	nm.wr = (nm.wr + 1) % len(nm.events)
	nm.unread++
	nm.n++
	nm.sum += float64(mean)
	nm.sumsq += float64(mean) * float64(mean)
	return true
}

// Pop removes the oldest unread event and returns it normalised with
// the current shift and scale. Callers must check Empty first.
func (nm *Normalizer) Pop() float32 {
	raw := nm.events[nm.rd]
	nm.rd = (nm.rd + 1) % len(nm.events)
	nm.unread--

	scale, shift := nm.params()
	return scale*raw + shift
}

// params derives the moment-matching transform from raw moments onto
// the model levels.
func (nm *Normalizer) params() (scale, shift float32) {
	mean := nm.sum / float64(nm.n)
	variance := nm.sumsq/float64(nm.n) - mean*mean
	if variance <= 0 {
		return 1, nm.model.LevelMean() - float32(mean)
	}
	scale = nm.model.LevelStdv() / float32(math.Sqrt(variance))
	shift = nm.model.LevelMean() - scale*float32(mean)
	return scale, shift
}

// SkipUnread drops all but the newest keep unread events and returns
// how many were skipped. The aligner advances its event index by the
// same amount so read coordinates stay aligned.
func (nm *Normalizer) SkipUnread(keep int) int {
	if nm.unread <= keep {
		return 0
	}
	skipped := nm.unread - keep
	nm.rd = (nm.rd + skipped) % len(nm.events)
	nm.unread = keep
	return skipped
}

// Empty reports whether any unread events remain.
func (nm *Normalizer) Empty() bool {
	return nm.unread == 0
}

// Reset clears the buffer and the accumulated moments for a new read.
func (nm *Normalizer) Reset() {
	nm.sum = 0
	nm.sumsq = 0
	nm.n = 0
	nm.rd = 0
	nm.wr = 0
	nm.unread = 0
}
