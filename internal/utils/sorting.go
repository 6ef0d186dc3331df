package utils

import (
	"sort"
)

// SortedKeys returns sorted keys from a map[string]T
func SortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// SortedCopy returns a sorted copy of values, leaving the input untouched
func SortedCopy[T ~string](values []T) []T {
	out := make([]T, len(values))
	copy(out, values)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// SetDifference returns the members of a that are not in b, in sorted order
func SetDifference[T ~string](a, b []T) []T {
	inB := make(map[T]struct{}, len(b))
	for _, v := range b {
		inB[v] = struct{}{}
	}
	seen := make(map[T]struct{}, len(a))
	var out []T
	for _, v := range a {
		if _, ok := inB[v]; ok {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return SortedCopy(out)
}
