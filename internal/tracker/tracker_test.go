package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nanoseed/nanoseed/internal/align"
)

func seed(refStart, refEnd uint64, evtEnd int) align.Seed {
	return align.Seed{
		ReadEventEnd: evtEnd,
		ReadWindow:   4,
		RefStart:     refStart,
		RefEnd:       refEnd,
		WinProb:      0.8,
	}
}

func testParams() Params {
	return Params{MinAlnLen: 10, MinConfRatio: 2, MaxSeedGap: 5}
}

func TestTracker_NoSeedsNoDecision(t *testing.T) {
	tr := New(testParams())
	_, ok := tr.Decide()
	assert.False(t, ok)
}

func TestTracker_AccumulatesOneCluster(t *testing.T) {
	tr := New(testParams())

	tr.AddSeed(seed(101, 104, 4))
	_, ok := tr.Decide()
	assert.False(t, ok, "4 bases of support is below min_aln_len")

	tr.AddSeed(seed(105, 108, 5))
	tr.AddSeed(seed(109, 112, 6))

	res, ok := tr.Decide()
	require.True(t, ok)
	assert.Equal(t, uint64(101), res.RefStart)
	assert.Equal(t, uint64(112), res.RefEnd)
	assert.Equal(t, 12, res.TotalLen)
	assert.Equal(t, 6, res.EventEnd)
}

func TestTracker_OverlapDoesNotInflate(t *testing.T) {
	tr := New(testParams())

	tr.AddSeed(seed(101, 110, 4))
	tr.AddSeed(seed(101, 110, 5))

	_, ok := tr.Decide()
	assert.True(t, ok, "10 new bases")

	res, _ := tr.Decide()
	assert.Equal(t, 10, res.TotalLen, "an identical seed adds no support")
}

func TestTracker_AmbiguousRepeatNeverMaps(t *testing.T) {
	tr := New(testParams())

	// Two loci with identical support.
	for i := 0; i < 4; i++ {
		tr.AddSeed(seed(uint64(101+4*i), uint64(104+4*i), 4+i))
		tr.AddSeed(seed(uint64(901+4*i), uint64(904+4*i), 4+i))
	}

	_, ok := tr.Decide()
	assert.False(t, ok, "equal clusters cannot clear the confidence ratio")
}

func TestTracker_FarSeedOpensNewCluster(t *testing.T) {
	tr := New(testParams())

	tr.AddSeed(seed(101, 110, 4))
	tr.AddSeed(seed(500, 503, 5))

	top := tr.Top(2)
	require.Len(t, top, 2)
	assert.Equal(t, 10, top[0].TotalLen)
	assert.Equal(t, 4, top[1].TotalLen)
}

func TestTracker_Reset(t *testing.T) {
	tr := New(testParams())
	tr.AddSeed(seed(101, 120, 4))
	tr.Reset()

	_, ok := tr.Decide()
	assert.False(t, ok)
	assert.Empty(t, tr.Top(5))
}
