package align

// alphSize is the nucleotide alphabet size.
const alphSize = 4

// EventType classifies how a path consumed one event.
//
// EventMatch MUST stay at value 0: fresh sources zero their packed
// history, which makes every implicit slot a match, and the sliding
// window relies on that when the first real event falls out.
//
// EventSkip and EventIgnore are reserved. They round the set to a power
// of two so two bits encode one event, and the per-type counters carry
// them, but the extension loop and the seed predicate do not produce or
// consult them.
type EventType uint8

const (
	EventMatch EventType = iota
	EventStay
	EventSkip
	EventIgnore

	numEventTypes
)

const typeBits = 2

// maxWinLen bounds the path window so the packed history fits a uint64.
const maxWinLen = 64 / typeBits

// typePacker packs the last winLen event types of a path into a uint64,
// two bits per event, head (most recent) at the high slot and tail
// (oldest in window) at the low bits. The per-type shift table is built
// once at aligner construction.
type typePacker struct {
	winLen int
	mask   uint64
	adds   [numEventTypes]uint64
}

func newTypePacker(winLen int) typePacker {
	tp := typePacker{
		winLen: winLen,
		mask:   1<<typeBits - 1,
	}
	for t := range tp.adds {
		tp.adds[t] = uint64(t) << (typeBits * (winLen - 1))
	}
	return tp
}

// push shifts the oldest event out of the window and installs t at the
// head slot.
func (tp typePacker) push(history uint64, t EventType) uint64 {
	return tp.adds[t] | history>>typeBits
}

// head returns the most recent event type in the window.
func (tp typePacker) head(history uint64) EventType {
	return EventType((history >> (typeBits * (tp.winLen - 1))) & tp.mask)
}

// tail returns the oldest event type in the window. This is the event
// that drops out when a full window slides.
func (tp typePacker) tail(history uint64) EventType {
	return EventType(history & tp.mask)
}
