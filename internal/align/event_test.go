package align

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventType_MatchIsZero(t *testing.T) {
	// Sources zero their history, which implicitly marks every slot a
	// match; the enum must keep that encoding.
	assert.Equal(t, EventType(0), EventMatch)
	assert.Equal(t, EventType(4), EventType(numEventTypes))
}

func TestTypePacker_PushHeadTail(t *testing.T) {
	tp := newTypePacker(4)

	var h uint64
	assert.Equal(t, EventMatch, tp.head(h))
	assert.Equal(t, EventMatch, tp.tail(h))

	h = tp.push(h, EventStay)
	assert.Equal(t, EventStay, tp.head(h))
	assert.Equal(t, EventMatch, tp.tail(h))

	h = tp.push(h, EventMatch)
	assert.Equal(t, EventMatch, tp.head(h))
	assert.Equal(t, EventMatch, tp.tail(h))

	h = tp.push(h, EventSkip)
	h = tp.push(h, EventIgnore)
	// Window is now [STAY, MATCH, SKIP, IGNORE], oldest first.
	assert.Equal(t, EventIgnore, tp.head(h))
	assert.Equal(t, EventStay, tp.tail(h))

	// One more push drops the stay out of the tail.
	h = tp.push(h, EventMatch)
	assert.Equal(t, EventMatch, tp.head(h))
	assert.Equal(t, EventMatch, tp.tail(h))
}

func TestTypePacker_WidestWindow(t *testing.T) {
	// W = 32 uses all 64 bits of the history word.
	tp := newTypePacker(maxWinLen)

	var h uint64
	h = tp.push(h, EventIgnore)
	for i := 0; i < maxWinLen-1; i++ {
		assert.Equal(t, EventIgnore, tp.head(h), "push %d", i)
		h = tp.push(h, EventIgnore)
	}
	assert.Equal(t, EventIgnore, tp.tail(h))
}
