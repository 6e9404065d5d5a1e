package fmindex

import (
	"fmt"
	"sort"

	"github.com/nanoseed/nanoseed/internal/align"
)

const alphSize = 4

// Index is an FM-index over a 2-bit encoded DNA text with an implicit
// sentinel that sorts before every base. Immutable after construction
// and safe for concurrent readers.
type Index struct {
	size  uint64  // text length, sentinel excluded
	bwt   []uint8 // base code per row; row sent holds no base
	sent  uint64  // row whose BWT char is the sentinel
	count [alphSize]uint64   // chars lexicographically smaller than each base
	occ   [alphSize][]uint64 // occ[b][i] = occurrences of b in bwt[:i]
	sa    []uint64
}

// New builds the index for seq, which must be non-empty A/C/G/T
// (case-insensitive).
func New(seq []byte) (*Index, error) {
	if len(seq) == 0 {
		return nil, fmt.Errorf("fmindex: empty sequence")
	}
	text, err := Encode(seq)
	if err != nil {
		return nil, err
	}
	return fromCodes(text), nil
}

// fromCodes builds the index from 2-bit base codes. The suffix array is
// built by comparison sort; construction is not the hot path.
func fromCodes(text []uint8) *Index {
	n := uint64(len(text))
	rows := n + 1 // one row per suffix, plus the sentinel suffix

	sa := make([]uint64, rows)
	for i := range sa {
		sa[i] = uint64(i)
	}
	sort.Slice(sa, func(i, j int) bool {
		return suffixLess(text, sa[i], sa[j])
	})

	idx := &Index{
		size: n,
		bwt:  make([]uint8, rows),
		sa:   sa,
	}

	var freq [alphSize]uint64
	for _, c := range text {
		freq[c]++
	}
	// Sentinel occupies the first row, so every base starts one past
	// the cumulative count of smaller characters.
	total := uint64(1)
	for b := 0; b < alphSize; b++ {
		idx.count[b] = total
		total += freq[b]
	}

	for r, p := range sa {
		if p == 0 {
			idx.sent = uint64(r)
			continue
		}
		idx.bwt[r] = text[p-1]
	}

	for b := 0; b < alphSize; b++ {
		idx.occ[b] = make([]uint64, rows+1)
	}
	for r := uint64(0); r < rows; r++ {
		for b := 0; b < alphSize; b++ {
			idx.occ[b][r+1] = idx.occ[b][r]
		}
		if r != idx.sent {
			idx.occ[idx.bwt[r]][r+1]++
		}
	}

	return idx
}

// suffixLess compares two suffixes of text; running off the end is the
// sentinel, smaller than every base.
func suffixLess(text []uint8, a, b uint64) bool {
	n := uint64(len(text))
	for a < n && b < n {
		if text[a] != text[b] {
			return text[a] < text[b]
		}
		a++
		b++
	}
	return a > b // the shorter suffix hit the sentinel first
}

// FullRange returns the interval of all suffixes starting with base.
func (x *Index) FullRange(base uint8) align.Range {
	next := x.size + 1
	if int(base) < alphSize-1 {
		next = x.count[base+1]
	}
	return align.Range{Start: x.count[base], End: next - 1}
}

// Neighbor extends r backward by one base. The result is invalid when
// no suffix in r is preceded by base.
func (x *Index) Neighbor(r align.Range, base uint8) align.Range {
	return align.Range{
		Start: x.count[base] + x.occ[base][r.Start],
		End:   x.count[base] + x.occ[base][r.End+1] - 1,
	}
}

// SA resolves a suffix-array row to its text position.
func (x *Index) SA(i uint64) uint64 {
	return x.sa[i]
}

// Size returns the indexed text length, sentinel excluded.
func (x *Index) Size() uint64 {
	return x.size
}

var baseCodes = func() [256]int8 {
	var t [256]int8
	for i := range t {
		t[i] = -1
	}
	for code, c := range []byte("ACGT") {
		t[c] = int8(code)
		t[c+'a'-'A'] = int8(code)
	}
	return t
}()

// Encode converts an A/C/G/T sequence to 2-bit base codes.
func Encode(seq []byte) ([]uint8, error) {
	out := make([]uint8, len(seq))
	for i, c := range seq {
		code := baseCodes[c]
		if code < 0 {
			return nil, fmt.Errorf("fmindex: invalid base %q at position %d", c, i)
		}
		out[i] = uint8(code)
	}
	return out, nil
}

// Reverse returns a reversed copy of seq. Index the reversed reference
// so backward extension walks the read left to right.
func Reverse(seq []byte) []byte {
	out := make([]byte, len(seq))
	for i, c := range seq {
		out[len(seq)-1-i] = c
	}
	return out
}
