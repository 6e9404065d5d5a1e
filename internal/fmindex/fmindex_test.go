package fmindex

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nanoseed/nanoseed/internal/align"
)

var bases = [alphSize]byte{'A', 'C', 'G', 'T'}

// bruteRange finds the suffix-array interval of a pattern by scanning
// every suffix, sentinel row included.
func bruteRange(x *Index, text string, pattern string) align.Range {
	lo, hi := -1, -1
	for row := uint64(0); row <= uint64(len(text)); row++ {
		suffix := text[x.SA(row):]
		if strings.HasPrefix(suffix, pattern) {
			if lo < 0 {
				lo = int(row)
			}
			hi = int(row)
		}
	}
	if lo < 0 {
		return align.Range{Start: 1, End: 0}
	}
	return align.Range{Start: uint64(lo), End: uint64(hi)}
}

func TestIndex_AgainstBruteForce(t *testing.T) {
	const text = "GATTACAGATCACAG"

	x, err := New([]byte(text))
	require.NoError(t, err)
	require.Equal(t, uint64(len(text)), x.Size())

	// Every single base interval.
	for b := uint8(0); b < alphSize; b++ {
		assert.Equal(t, bruteRange(x, text, string(bases[b])), x.FullRange(b),
			"full range of %c", bases[b])
	}

	// Every pattern up to length 4, built by backward extension.
	var walk func(pattern string, r align.Range, depth int)
	walk = func(pattern string, r align.Range, depth int) {
		if depth == 0 {
			return
		}
		for b := uint8(0); b < alphSize; b++ {
			ext := string(bases[b]) + pattern
			got := x.Neighbor(r, b)
			want := bruteRange(x, text, ext)
			if !want.IsValid() {
				assert.False(t, got.IsValid(), "pattern %q should not extend", ext)
				continue
			}
			require.Equal(t, want, got, "pattern %q", ext)
			walk(ext, got, depth-1)
		}
	}
	for b := uint8(0); b < alphSize; b++ {
		walk(string(bases[b]), x.FullRange(b), 3)
	}
}

func TestIndex_SuffixArraySorted(t *testing.T) {
	const text = "ACGTACGTAC"
	x, err := New([]byte(text))
	require.NoError(t, err)

	// Row 0 is the sentinel suffix; the rest sort lexicographically.
	assert.Equal(t, uint64(len(text)), x.SA(0))
	for row := uint64(1); row < uint64(len(text)); row++ {
		a := text[x.SA(row):]
		b := text[x.SA(row+1):]
		assert.Less(t, a, b, "rows %d and %d out of order", row, row+1)
	}
}

func TestIndex_RejectsBadInput(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)

	_, err = New([]byte("ACGN"))
	assert.Error(t, err)
}

func TestIndex_SaveLoadRoundTrip(t *testing.T) {
	const text = "TTACGTACGAA"
	x, err := New([]byte(text))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "ref.nsx")
	require.NoError(t, x.Save(path))

	y, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, x.Size(), y.Size())
	for b := uint8(0); b < alphSize; b++ {
		assert.Equal(t, x.FullRange(b), y.FullRange(b))
	}
	r := y.FullRange(0)
	assert.Equal(t, x.Neighbor(r, 3), y.Neighbor(r, 3))
	for row := uint64(0); row <= uint64(len(text)); row++ {
		assert.Equal(t, x.SA(row), y.SA(row))
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.nsx"))
	assert.Error(t, err)
}

func TestReverse(t *testing.T) {
	assert.Equal(t, []byte("TGCA"), Reverse([]byte("ACGT")))
	assert.Equal(t, []byte(""), Reverse(nil))
}

func TestEncode(t *testing.T) {
	codes, err := Encode([]byte("AcGt"))
	require.NoError(t, err)
	assert.Equal(t, []uint8{0, 1, 2, 3}, codes)
}
