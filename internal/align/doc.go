// Package align implements the event-driven beam search at the heart of
// real-time nanopore seed finding.
//
// Each signal event arrives as a probability vector over all k-mers. The
// aligner maintains a bounded population of partial alignments (paths)
// through the reference's suffix-array interval space. Per event it
// extends surviving paths by STAY or MATCH, prunes them with probability
// thresholds that tighten as an FM-interval narrows, seeds fresh paths in
// the uncovered gaps of every strong k-mer's full range, collapses paths
// that reach identical intervals, and reports seed hits once a path is
// specific and long enough. Accumulating seeds drive a map decision
// through the SeedTracker.
//
// ARCHITECTURE:
//
// Single-writer per read:
// One Aligner instance consumes one read's events strictly in order. All
// mutation happens inside AddEvent; there is no internal concurrency and
// no locking. Independent reads run on independent Aligner instances
// sharing read-only FMIndex and KmerModel references.
//
// Bounded working set:
// Two fixed-capacity path arenas are swapped every event. Path slots are
// reused in place and each slot owns its prefix-sum buffer for the arena's
// lifetime, so the steady state allocates nothing per event. When the
// arena fills mid-phase the phase ends early; a partial population is
// legal and every invariant still holds.
//
// Decisions only at event boundaries:
// AddEvent never fails mid-step. Configuration problems surface at
// construction; everything afterwards is expressed through the read state
// (Mapping, Success, Failure) observed between events.
package align
