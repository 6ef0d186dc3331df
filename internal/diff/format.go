package diff

import (
	"fmt"
	"sort"
	"strings"
)

// nullText is how an absent value is rendered in change details and warnings
const nullText = "null"

// detailSeparator joins attribute changes inside one changeDetail
const detailSeparator = "; "

// renderPtr renders an optional string, using "null" when absent
func renderPtr(s *string) string {
	if s == nil {
		return nullText
	}
	return *s
}

// renderEnum renders a string-backed enumeration where the empty value means absent
func renderEnum[T ~string](v T) string {
	if v == "" {
		return nullText
	}
	return string(v)
}

// renderList renders a list as "[a, b]"; a nil list renders as "null"
func renderList[T ~string](values []T) string {
	if values == nil {
		return nullText
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// renderMap renders a string map with sorted keys as "{k=v, k2=v2}"
func renderMap(m map[string]string) string {
	if m == nil {
		return nullText
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + m[k]
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// changedFrom renders the canonical "<attr> changed from <old> to <new>" fragment
func changedFrom(attr string, old, new any) string {
	return fmt.Sprintf("%s changed from %v to %v", attr, old, new)
}

// changeSet accumulates attribute change fragments in evaluation order
type changeSet struct {
	changes []string
}

func (c *changeSet) add(attr string, old, new any) {
	c.changes = append(c.changes, changedFrom(attr, old, new))
}

func (c *changeSet) addRaw(fragment string) {
	c.changes = append(c.changes, fragment)
}

func (c *changeSet) empty() bool {
	return len(c.changes) == 0
}

func (c *changeSet) join(sep string) string {
	return strings.Join(c.changes, sep)
}

func (c *changeSet) String() string {
	return c.join(detailSeparator)
}

// equalPtr compares optional strings exactly
func equalPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// equalStrings compares two lists element by element
func equalStrings[T ~string](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// equalStringMaps compares two string maps; nil and empty are equal
func equalStringMaps(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if w, ok := b[k]; !ok || w != v {
			return false
		}
	}
	return true
}
