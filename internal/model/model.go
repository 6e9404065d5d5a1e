// Package model holds the pore model: 2-bit k-mer arithmetic, per-k-mer
// event emission probabilities, and read-current normalisation. The
// aligner core consumes only the k-mer arithmetic; emission and
// normalisation turn a raw event-mean stream into the probability
// vectors the core expects.
package model

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

const alphSize = 4

var baseLetters = [alphSize]byte{'A', 'C', 'G', 'T'}

// PoreModel maps k-mers to expected signal levels. K-mers are packed
// two bits per base, leftmost base at the high bits, so k is limited to
// 8 by the uint16 k-mer type.
type PoreModel struct {
	k     int
	means []float32
	stdvs []float32

	// Moments of the level means, used to scale raw reads onto the
	// model's current range.
	levelMean float32
	levelStdv float32
}

// New builds a model from per-k-mer level means and standard deviations,
// both of length 4^k.
func New(k int, means, stdvs []float32) (*PoreModel, error) {
	if k < 1 || k > 8 {
		return nil, fmt.Errorf("model: k must be in [1, 8], got %d", k)
	}
	n := 1 << (2 * k)
	if len(means) != n || len(stdvs) != n {
		return nil, fmt.Errorf("model: expected %d levels for k=%d, got %d means / %d stdvs",
			n, k, len(means), len(stdvs))
	}

	m := &PoreModel{k: k, means: means, stdvs: stdvs}

	var sum, sumsq float64
	for _, lv := range means {
		sum += float64(lv)
		sumsq += float64(lv) * float64(lv)
	}
	mean := sum / float64(n)
	m.levelMean = float32(mean)
	m.levelStdv = float32(math.Sqrt(sumsq/float64(n) - mean*mean))

	return m, nil
}

// NewSynthetic builds a deterministic model whose levels spread evenly
// over a plausible picoamp range. Used by tests and simulated streams.
func NewSynthetic(k int) *PoreModel {
	n := 1 << (2 * k)
	means := make([]float32, n)
	stdvs := make([]float32, n)
	for i := range means {
		means[i] = 60 + 80*float32(i)/float32(n-1)
		stdvs[i] = 1.5
	}
	m, err := New(k, means, stdvs)
	if err != nil {
		panic(err)
	}
	return m
}

// LoadTSV reads a model from a "kmer<TAB>level_mean<TAB>level_stdv"
// file, one row per k-mer. K is inferred from the first row; every
// k-mer must appear exactly once.
func LoadTSV(path string) (*PoreModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	defer f.Close()

	var (
		k     int
		means []float32
		stdvs []float32
		seen  []bool
	)

	sc := bufio.NewScanner(f)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < 3 {
			return nil, fmt.Errorf("load model: line %d: expected 3 columns", line)
		}

		if k == 0 {
			k = len(fields[0])
			n := 1 << (2 * k)
			means = make([]float32, n)
			stdvs = make([]float32, n)
			seen = make([]bool, n)
		}

		kmer, err := ParseKmer(fields[0])
		if err != nil {
			return nil, fmt.Errorf("load model: line %d: %w", line, err)
		}
		mean, err := strconv.ParseFloat(fields[1], 32)
		if err != nil {
			return nil, fmt.Errorf("load model: line %d: bad level_mean: %w", line, err)
		}
		stdv, err := strconv.ParseFloat(fields[2], 32)
		if err != nil {
			return nil, fmt.Errorf("load model: line %d: bad level_stdv: %w", line, err)
		}
		if seen[kmer] {
			return nil, fmt.Errorf("load model: line %d: duplicate k-mer %s", line, fields[0])
		}
		seen[kmer] = true
		means[kmer] = float32(mean)
		stdvs[kmer] = float32(stdv)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}

	for kmer, ok := range seen {
		if !ok {
			return nil, fmt.Errorf("load model: missing k-mer %s", KmerString(uint16(kmer), k))
		}
	}
	return New(k, means, stdvs)
}

// KmerCount returns 4^k.
func (m *PoreModel) KmerCount() uint32 {
	return 1 << (2 * m.k)
}

// KmerLen returns k.
func (m *PoreModel) KmerLen() uint32 {
	return uint32(m.k)
}

// Neighbor right-extends kmer by base, dropping the leftmost base.
func (m *PoreModel) Neighbor(kmer uint16, base uint8) uint16 {
	mask := uint16(1)<<(2*m.k) - 1
	return (kmer<<2 | uint16(base)) & mask
}

// Base returns the i-th base of kmer, 0 being the leftmost.
func (m *PoreModel) Base(kmer uint16, i int) uint8 {
	return uint8(kmer>>(2*(m.k-1-i))) & 3
}

// LastBase returns the rightmost base of kmer.
func (m *PoreModel) LastBase(kmer uint16) uint8 {
	return uint8(kmer) & 3
}

// Level returns the expected signal mean for kmer.
func (m *PoreModel) Level(kmer uint16) float32 {
	return m.means[kmer]
}

// LevelMean and LevelStdv return the moments of the model levels.
func (m *PoreModel) LevelMean() float32 { return m.levelMean }
func (m *PoreModel) LevelStdv() float32 { return m.levelStdv }

// EventProbs fills out with the emission probability of each k-mer for
// an event of the given (normalised) mean: a Gaussian kernel scaled to
// peak at 1 so thresholds live on [0, 1]. out must have KmerCount
// entries; no allocation happens here.
func (m *PoreModel) EventProbs(mean float32, out []float32) {
	for kmer := range out {
		z := float64(mean-m.means[kmer]) / float64(m.stdvs[kmer])
		out[kmer] = float32(math.Exp(-z * z / 2))
	}
}

// ParseKmer packs an A/C/G/T string.
func ParseKmer(s string) (uint16, error) {
	if len(s) > 8 {
		return 0, fmt.Errorf("k-mer %q longer than 8", s)
	}
	var kmer uint16
	for _, c := range []byte(s) {
		var code uint16
		switch c {
		case 'A', 'a':
			code = 0
		case 'C', 'c':
			code = 1
		case 'G', 'g':
			code = 2
		case 'T', 't':
			code = 3
		default:
			return 0, fmt.Errorf("invalid base %q in k-mer %q", c, s)
		}
		kmer = kmer<<2 | code
	}
	return kmer, nil
}

// KmerString unpacks a k-mer to its A/C/G/T form.
func KmerString(kmer uint16, k int) string {
	out := make([]byte, k)
	for i := k - 1; i >= 0; i-- {
		out[i] = baseLetters[kmer&3]
		kmer >>= 2
	}
	return string(out)
}
