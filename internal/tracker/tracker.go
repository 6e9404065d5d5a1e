// Package tracker clusters the aligner's seed hits and decides when
// their accumulated support identifies a confident reference location.
//
// Clustering is greedy and positional: a seed joins the cluster whose
// reference span it touches (within a fixed gap tolerance, MaxSeedGap),
// extending the span and the supporting length. The
// decision compares the strongest cluster against the runner-up so a
// repeat that seeds two loci equally never maps.
package tracker

import (
	"sort"

	"github.com/nanoseed/nanoseed/internal/align"
)

// Params tunes clustering and the confidence decision.
type Params struct {
	// MinAlnLen is the minimum supporting length for a mapping call.
	MinAlnLen int `yaml:"min_aln_len"`

	// MinConfRatio is the minimum ratio of top to runner-up cluster
	// support. With a single cluster the ratio is treated as infinite.
	MinConfRatio float32 `yaml:"min_conf_ratio"`

	// MaxSeedGap is the largest reference gap a seed may bridge when
	// joining a cluster.
	MaxSeedGap uint64 `yaml:"max_seed_gap"`
}

// DefaultParams returns the clustering defaults.
func DefaultParams() Params {
	return Params{
		MinAlnLen:    25,
		MinConfRatio: 2,
		MaxSeedGap:   32,
	}
}

type cluster struct {
	refStart uint64
	refEnd   uint64
	evtStart int
	evtEnd   int
	totalLen int
}

// Tracker implements align.SeedTracker. Not safe for concurrent use;
// each aligner owns one.
type Tracker struct {
	params   Params
	clusters []cluster
}

// New creates a tracker.
func New(params Params) *Tracker {
	return &Tracker{params: params}
}

// AddSeed merges the seed into the first cluster, in creation order,
// whose span it reaches within MaxSeedGap, or opens a new one.
func (t *Tracker) AddSeed(s align.Seed) {
	seedLen := int(s.RefEnd - s.RefStart + 1)

	for i := range t.clusters {
		c := &t.clusters[i]
		if s.RefStart > c.refEnd+t.params.MaxSeedGap || s.RefEnd+t.params.MaxSeedGap < c.refStart {
			continue
		}
		// Count only the new reference bases so overlapping seeds from
		// sibling paths don't inflate support.
		if s.RefEnd > c.refEnd {
			grow := s.RefEnd - c.refEnd
			if uint64(seedLen) < grow {
				grow = uint64(seedLen)
			}
			c.totalLen += int(grow)
			c.refEnd = s.RefEnd
		}
		if s.RefStart < c.refStart {
			c.refStart = s.RefStart
		}
		if s.ReadEventEnd > c.evtEnd {
			c.evtEnd = s.ReadEventEnd
		}
		return
	}

	t.clusters = append(t.clusters, cluster{
		refStart: s.RefStart,
		refEnd:   s.RefEnd,
		evtStart: s.ReadEventEnd - s.ReadWindow,
		evtEnd:   s.ReadEventEnd,
		totalLen: seedLen,
	})
}

// Decide reports the best cluster once it is long enough and clear of
// the runner-up.
func (t *Tracker) Decide() (align.MapResult, bool) {
	if len(t.clusters) == 0 {
		return align.MapResult{}, false
	}

	best, second := 0, -1
	for i := 1; i < len(t.clusters); i++ {
		switch {
		case t.clusters[i].totalLen > t.clusters[best].totalLen:
			second = best
			best = i
		case second < 0 || t.clusters[i].totalLen > t.clusters[second].totalLen:
			second = i
		}
	}

	top := t.clusters[best]
	if top.totalLen < t.params.MinAlnLen {
		return align.MapResult{}, false
	}
	if second >= 0 &&
		float32(top.totalLen) < t.params.MinConfRatio*float32(t.clusters[second].totalLen) {
		return align.MapResult{}, false
	}

	return align.MapResult{
		RefStart:   top.refStart,
		RefEnd:     top.refEnd,
		EventStart: top.evtStart,
		EventEnd:   top.evtEnd,
		TotalLen:   top.totalLen,
	}, true
}

// Reset drops all clusters for a new read.
func (t *Tracker) Reset() {
	t.clusters = t.clusters[:0]
}

// Top returns up to n clusters by support, strongest first.
func (t *Tracker) Top(n int) []align.MapResult {
	order := make([]int, len(t.clusters))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		return t.clusters[order[i]].totalLen > t.clusters[order[j]].totalLen
	})
	if n > len(order) {
		n = len(order)
	}
	out := make([]align.MapResult, 0, n)
	for _, i := range order[:n] {
		c := t.clusters[i]
		out = append(out, align.MapResult{
			RefStart:   c.refStart,
			RefEnd:     c.refEnd,
			EventStart: c.evtStart,
			EventEnd:   c.evtEnd,
			TotalLen:   c.totalLen,
		})
	}
	return out
}
