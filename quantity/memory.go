package quantity

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// memoryUnits maps each accepted suffix to its byte factor. Suffixes are
// matched with strings.HasSuffix, and no suffix here ends with another (e.g.
// "Ki" does not end with "K"), so at most one entry matches a given input and
// the order of the slice does not affect the result.
var memoryUnits = []struct {
	suffix string
	factor int64
}{
	{"Ki", 1 << 10},
	{"Mi", 1 << 20},
	{"Gi", 1 << 30},
	{"Ti", 1 << 40},
	{"Pi", 1 << 50},
	{"Ei", 1 << 60},
	{"K", 1_000},
	{"M", 1_000_000},
	{"G", 1_000_000_000},
	{"T", 1_000_000_000_000},
	{"P", 1_000_000_000_000_000},
	{"E", 1_000_000_000_000_000_000},
}

var memoryPattern = regexp.MustCompile(`^[0-9]+(Ki|Mi|Gi|Ti|Pi|Ei|K|M|G|T|P|E)?$`)

// MemoryQuantity is an immutable memory resource value, stored internally in
// bytes.
type MemoryQuantity struct {
	raw   string
	bytes int64
}

// ParseMemoryQuantity parses s as an integer mantissa optionally followed by
// one of the case-sensitive unit suffixes K/M/G/T/P/E or Ki/Mi/Gi/Ti/Pi/Ei.
func ParseMemoryQuantity(s string) (MemoryQuantity, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || !memoryPattern.MatchString(trimmed) {
		return MemoryQuantity{}, fmt.Errorf("%w: %q", ErrInvalidQuantity, s)
	}

	mantissa := trimmed
	factor := int64(1)
	for _, u := range memoryUnits {
		if strings.HasSuffix(trimmed, u.suffix) {
			mantissa = strings.TrimSuffix(trimmed, u.suffix)
			factor = u.factor
			break
		}
	}

	value, err := strconv.ParseInt(mantissa, 10, 64)
	if err != nil {
		return MemoryQuantity{}, fmt.Errorf("%w: %q", ErrInvalidQuantity, s)
	}
	if value <= 0 {
		return MemoryQuantity{}, fmt.Errorf("%w: %q", ErrInvalidQuantity, s)
	}

	if factor != 1 && value > math.MaxInt64/factor {
		return MemoryQuantity{}, fmt.Errorf("%w: %q exceeds max int64 bytes", ErrInvalidQuantity, s)
	}

	bytes := value * factor
	if bytes > math.MaxInt64 || bytes <= 0 {
		return MemoryQuantity{}, fmt.Errorf("%w: %q exceeds max int64 bytes", ErrInvalidQuantity, s)
	}

	return MemoryQuantity{raw: trimmed, bytes: bytes}, nil
}

// Bytes returns the resolved byte count.
func (q MemoryQuantity) Bytes() int64 {
	return q.bytes
}

// String returns the canonical input string the quantity was parsed from.
func (q MemoryQuantity) String() string {
	return q.raw
}

// Equal reports whether two quantities were parsed from the same canonical
// string. Use Bytes for magnitude comparisons.
func (q MemoryQuantity) Equal(other MemoryQuantity) bool {
	return q.raw == other.raw
}

// Patch returns q unchanged if other is blank or parses to an equal
// quantity; otherwise it returns the quantity parsed from other.
func (q MemoryQuantity) Patch(other string) (MemoryQuantity, error) {
	trimmed := strings.TrimSpace(other)
	if trimmed == "" {
		return q, nil
	}

	parsed, err := ParseMemoryQuantity(trimmed)
	if err != nil {
		return MemoryQuantity{}, err
	}
	if parsed.Equal(q) {
		return q, nil
	}
	return parsed, nil
}
