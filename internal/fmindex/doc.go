// Package fmindex provides an FM-index over a DNA reference: backward
// interval extension in O(1) per base plus full suffix-array resolution.
//
// The index stores the complete occurrence table and suffix array
// uncompressed. That costs ~40 bytes per reference base, which is the
// right trade for the bacterial-scale references selective sequencing
// targets; it keeps every aligner query a pair of array reads.
//
// Because the beam search grows paths left to right in read space while
// backward search prepends bases, callers index the reversed reference
// (see Reverse); the aligner then un-reverses coordinates when emitting
// seeds.
package fmindex
