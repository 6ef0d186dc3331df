// Package casefold provides the identifier case-folding strategies used when schema
// identifiers must be compared case-insensitively.
package casefold

import (
	"fmt"
	"strings"
)

// Normalizer folds an identifier into its canonical comparison form
type Normalizer interface {
	Normalize(s string) string
}

// Mode is one of the fixed folding strategies
type Mode string

const (
	Lower    Mode = "lower"
	Upper    Mode = "upper"
	Preserve Mode = "preserve"
)

// Normalize applies the folding strategy to s
func (m Mode) Normalize(s string) string {
	switch m {
	case Upper:
		return strings.ToUpper(s)
	case Preserve:
		return s
	default:
		return strings.ToLower(s)
	}
}

func (m Mode) String() string {
	return string(m)
}

// ParseMode converts a flag or config value into a Mode
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", Lower:
		return Lower, nil
	case Upper:
		return Upper, nil
	case Preserve:
		return Preserve, nil
	default:
		return "", fmt.Errorf("unknown case mode %q (expected lower, upper or preserve)", s)
	}
}

// NormalizeAll folds every element of values, returning a new slice
func NormalizeAll(n Normalizer, values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = n.Normalize(v)
	}
	return out
}

// Equal compares two identifiers after folding
func Equal(n Normalizer, a, b string) bool {
	return n.Normalize(a) == n.Normalize(b)
}

// EqualPtr compares two optional identifiers. Two absent values are equal, an absent
// value never equals a present one, and present values are folded before comparison.
func EqualPtr(n Normalizer, a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return Equal(n, *a, *b)
}
