// Package quantity provides CPU and memory value objects with the grammars
// deployment configs use to describe resource requests, modeled after
// Kubernetes-style resource quantities but scoped to the protocol's own
// strict subset.
//
// Both types are equality-by-canonical-string: two quantities built from
// different but magnitude-equivalent input strings (e.g. "500m" and "0.5")
// compare unequal via Equal, even though MilliValue/Bytes agree. This
// mirrors the original behavior the protocol documents and is deliberate,
// not an oversight — see the package-level discussion in SPEC_FULL.md §4.1.
package quantity

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidQuantity is returned whenever a quantity string fails to parse
// under either grammar.
var ErrInvalidQuantity = errors.New("invalid quantity")

var (
	cpuDecimalPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]{1,3})?$`)
	cpuMilliPattern   = regexp.MustCompile(`^[0-9]+m$`)
)

// CpuQuantity is an immutable CPU resource value, stored internally in
// milli-cores.
type CpuQuantity struct {
	raw   string
	milli int64
}

// ParseCpuQuantity parses s under either the decimal-cores or milli-cores
// grammar and returns the resulting CpuQuantity.
func ParseCpuQuantity(s string) (CpuQuantity, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return CpuQuantity{}, fmt.Errorf("%w: %q", ErrInvalidQuantity, s)
	}

	switch {
	case cpuMilliPattern.MatchString(trimmed):
		digits := strings.TrimSuffix(trimmed, "m")
		milli, err := strconv.ParseInt(digits, 10, 64)
		if err != nil {
			return CpuQuantity{}, fmt.Errorf("%w: %q", ErrInvalidQuantity, s)
		}
		if milli <= 0 {
			return CpuQuantity{}, fmt.Errorf("%w: %q", ErrInvalidQuantity, s)
		}
		return CpuQuantity{raw: trimmed, milli: milli}, nil

	case cpuDecimalPattern.MatchString(trimmed):
		milli, err := decimalCoresToMilli(trimmed)
		if err != nil {
			return CpuQuantity{}, fmt.Errorf("%w: %q: %v", ErrInvalidQuantity, s, err)
		}
		if milli <= 0 {
			return CpuQuantity{}, fmt.Errorf("%w: %q", ErrInvalidQuantity, s)
		}
		return CpuQuantity{raw: trimmed, milli: milli}, nil

	default:
		return CpuQuantity{}, fmt.Errorf("%w: %q", ErrInvalidQuantity, s)
	}
}

// decimalCoresToMilli converts a decimal-cores string with up to three
// fractional digits into an exact milli-core count. The regex already
// guarantees at most three fractional digits, so no rounding ever occurs;
// this function only rejects inputs whose integer and fractional parts
// together overflow int64.
func decimalCoresToMilli(s string) (int64, error) {
	whole, frac, hasFrac := strings.Cut(s, ".")

	wholeVal, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, err
	}

	fracMilli := int64(0)
	if hasFrac {
		padded := frac + strings.Repeat("0", 3-len(frac))
		fracVal, err := strconv.ParseInt(padded, 10, 64)
		if err != nil {
			return 0, err
		}
		fracMilli = fracVal
	}

	if wholeVal > (math.MaxInt64-fracMilli)/1000 {
		return 0, fmt.Errorf("overflow")
	}

	return wholeVal*1000 + fracMilli, nil
}

// MilliValue returns the resolved milli-core count.
func (q CpuQuantity) MilliValue() int64 {
	return q.milli
}

// String returns the canonical input string the quantity was parsed from.
func (q CpuQuantity) String() string {
	return q.raw
}

// Equal reports whether two quantities were parsed from the same canonical
// string. Use MilliValue for magnitude comparisons.
func (q CpuQuantity) Equal(other CpuQuantity) bool {
	return q.raw == other.raw
}

// Patch returns q unchanged if other is blank or parses to an equal
// quantity; otherwise it returns the quantity parsed from other.
func (q CpuQuantity) Patch(other string) (CpuQuantity, error) {
	trimmed := strings.TrimSpace(other)
	if trimmed == "" {
		return q, nil
	}

	parsed, err := ParseCpuQuantity(trimmed)
	if err != nil {
		return CpuQuantity{}, err
	}
	if parsed.Equal(q) {
		return q, nil
	}
	return parsed, nil
}
