package align

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ConfigError reports an invalid aligner configuration. Construction
// either returns a fully valid Aligner or a ConfigError; no partial
// object escapes.
type ConfigError struct {
	// Code identifies the error category.
	Code ConfigErrorCode

	// Field names the offending parameter.
	Field string

	// Message is a human-readable description.
	Message string
}

// ConfigErrorCode categorizes configuration errors.
type ConfigErrorCode string

const (
	// ErrCodeBadParam indicates a parameter outside its legal domain.
	ErrCodeBadParam ConfigErrorCode = "BAD_PARAM"

	// ErrCodeBadThreshString indicates a malformed event-probability
	// threshold string.
	ErrCodeBadThreshString ConfigErrorCode = "BAD_THRESH_STRING"
)

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Code, e.Field, e.Message)
}

// IsConfigError reports whether err is (or wraps) a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// Params holds every tunable the aligner accepts. The zero value is not
// usable; start from DefaultParams.
type Params struct {
	// PathWinLen is W, the number of recent events over which per-path
	// statistics are maintained, and the seed length in events.
	PathWinLen int `yaml:"path_win_len"`

	// MinRepLen is the minimum match count in the window for a repeat
	// (non-unique interval) to be reported at path end.
	MinRepLen int `yaml:"min_rep_len"`

	// MaxRepCopy is the widest FM-interval allowed to report at path end.
	MaxRepCopy int `yaml:"max_rep_copy"`

	// MaxPaths is the fixed capacity of each path arena.
	MaxPaths int `yaml:"max_paths"`

	// MaxStayFrac caps the fraction of stays in a reporting window.
	MaxStayFrac float32 `yaml:"max_stay_frac"`

	// MaxConsecStay caps a run of consecutive stay extensions.
	MaxConsecStay int `yaml:"max_consec_stay"`

	// MaxIgnores and MaxSkips are reserved. The event-type machinery
	// counts those types but nothing consumes the limits yet.
	MaxIgnores int `yaml:"max_ignores"`
	MaxSkips   int `yaml:"max_skips"`

	// WindowProb is the minimum window-mean probability to emit a seed.
	WindowProb float32 `yaml:"window_prob"`

	// EventProbs is the threshold string, "p0_L1-p1_..._Lk-pk": p0 is
	// the baseline and source threshold, each (L, p) pair tightens the
	// per-event threshold for FM-intervals of length <= L.
	EventProbs string `yaml:"event_probs"`

	// MaxEventsProc is the hard event cap per read.
	MaxEventsProc int `yaml:"max_events_proc"`
}

// DefaultParams returns a parameter set tuned for small bacterial
// references and a 5-mer model.
func DefaultParams() Params {
	return Params{
		PathWinLen:    22,
		MinRepLen:     2,
		MaxRepCopy:    8,
		MaxPaths:      4096,
		MaxStayFrac:   0.5,
		MaxConsecStay: 8,
		MaxIgnores:    0,
		MaxSkips:      0,
		WindowProb:    0.55,
		EventProbs:    "0.55_10-0.65_5-0.75_1-0.85",
		MaxEventsProc: 30000,
	}
}

// Validate checks every parameter domain. The threshold string is parsed
// separately by ParseThresholds.
func (p *Params) Validate() error {
	switch {
	case p.PathWinLen < 2 || p.PathWinLen > maxWinLen:
		return &ConfigError{Code: ErrCodeBadParam, Field: "path_win_len",
			Message: fmt.Sprintf("must be in [2, %d], got %d", maxWinLen, p.PathWinLen)}
	case p.MaxPaths < 1:
		return &ConfigError{Code: ErrCodeBadParam, Field: "max_paths",
			Message: fmt.Sprintf("must be >= 1, got %d", p.MaxPaths)}
	case p.MaxStayFrac < 0 || p.MaxStayFrac > 1:
		return &ConfigError{Code: ErrCodeBadParam, Field: "max_stay_frac",
			Message: fmt.Sprintf("must be in [0, 1], got %g", p.MaxStayFrac)}
	case p.MaxConsecStay < 0:
		return &ConfigError{Code: ErrCodeBadParam, Field: "max_consec_stay",
			Message: fmt.Sprintf("must be >= 0, got %d", p.MaxConsecStay)}
	case p.MinRepLen < 0:
		return &ConfigError{Code: ErrCodeBadParam, Field: "min_rep_len",
			Message: fmt.Sprintf("must be >= 0, got %d", p.MinRepLen)}
	case p.MaxRepCopy < 1:
		return &ConfigError{Code: ErrCodeBadParam, Field: "max_rep_copy",
			Message: fmt.Sprintf("must be >= 1, got %d", p.MaxRepCopy)}
	case p.MaxEventsProc < 1:
		return &ConfigError{Code: ErrCodeBadParam, Field: "max_events_proc",
			Message: fmt.Sprintf("must be >= 1, got %d", p.MaxEventsProc)}
	}
	return nil
}

// ThresholdPolicy maps an FM-interval length to the minimum per-event
// probability required to extend a path inside it. Narrower intervals
// locate fewer reference loci, so they must clear tighter thresholds.
// The baseline threshold doubles as the source threshold applied when
// seeding a fresh path over a k-mer's full range.
//
// Lookups never fail; all validation happens in ParseThresholds.
type ThresholdPolicy struct {
	lengths []uint64  // bucket boundaries, strictly decreasing
	probs   []float32 // len(lengths)+1 thresholds, non-decreasing
}

// ParseThresholds parses a threshold string of the form
//
//	p0_L1-p1_L2-p2..._Lk-pk
//
// p0 applies to intervals longer than L1, p1 to lengths in (L2, L1],
// and pk to everything at or below Lk. Boundaries must be strictly
// decreasing and thresholds non-decreasing so the policy tightens as an
// interval narrows. Whitespace is not permitted.
func ParseThresholds(s string) (ThresholdPolicy, error) {
	malformed := func(msg string) (ThresholdPolicy, error) {
		return ThresholdPolicy{}, &ConfigError{
			Code: ErrCodeBadThreshString, Field: "event_probs",
			Message: fmt.Sprintf("%s in %q", msg, s),
		}
	}

	fields := strings.Split(s, "_")
	p0, err := strconv.ParseFloat(fields[0], 32)
	if err != nil {
		return malformed("baseline threshold is not a float")
	}

	tp := ThresholdPolicy{probs: []float32{float32(p0)}}
	for _, f := range fields[1:] {
		sep := strings.IndexByte(f, '-')
		if sep < 0 {
			return malformed(fmt.Sprintf("bucket %q is missing '-'", f))
		}
		length, err := strconv.ParseUint(f[:sep], 10, 64)
		if err != nil {
			return malformed(fmt.Sprintf("bucket length %q is not an int", f[:sep]))
		}
		prob, err := strconv.ParseFloat(f[sep+1:], 32)
		if err != nil {
			return malformed(fmt.Sprintf("bucket threshold %q is not a float", f[sep+1:]))
		}
		if n := len(tp.lengths); n > 0 && length >= tp.lengths[n-1] {
			return malformed("bucket lengths must be strictly decreasing")
		}
		if float32(prob) < tp.probs[len(tp.probs)-1] {
			return malformed("bucket thresholds must be non-decreasing")
		}
		tp.lengths = append(tp.lengths, length)
		tp.probs = append(tp.probs, float32(prob))
	}
	return tp, nil
}

// ProbThresh returns the per-event threshold for an FM-interval of the
// given length. Monotone non-increasing in fmLength.
func (tp ThresholdPolicy) ProbThresh(fmLength uint64) float32 {
	i := 0
	for _, l := range tp.lengths {
		if fmLength > l {
			break
		}
		i++
	}
	return tp.probs[i]
}

// SourceProb returns the threshold for seeding a fresh path.
func (tp ThresholdPolicy) SourceProb() float32 {
	return tp.probs[0]
}
