// Package ignore removes entities, sequences and table generators matching glob patterns from
// snapshots before they are compared.
package ignore

import (
	"path/filepath"
	"strings"

	"github.com/entitydiff/entitydiff/internal/model"
)

// IgnoreConfig holds the ignore patterns per object kind
type IgnoreConfig struct {
	Entities        []string
	Tables          []string
	Sequences       []string
	TableGenerators []string
}

// ShouldIgnoreEntity reports whether an entity is ignored by its entity name or table name
func (c *IgnoreConfig) ShouldIgnoreEntity(e *model.EntityModel) bool {
	if c == nil || e == nil {
		return false
	}
	return shouldIgnore(e.EntityName, c.Entities) || shouldIgnore(e.TableName, c.Tables)
}

// ShouldIgnoreSequence checks if a sequence should be ignored based on the patterns
func (c *IgnoreConfig) ShouldIgnoreSequence(name string) bool {
	if c == nil {
		return false
	}
	return shouldIgnore(name, c.Sequences)
}

// ShouldIgnoreTableGenerator checks if a table generator should be ignored based on the patterns
func (c *IgnoreConfig) ShouldIgnoreTableGenerator(name string) bool {
	if c == nil {
		return false
	}
	return shouldIgnore(name, c.TableGenerators)
}

// Apply returns a copy of s without the ignored objects. The input is left untouched and
// a nil config returns s itself.
func (c *IgnoreConfig) Apply(s *model.SchemaModel) *model.SchemaModel {
	if c == nil || s == nil {
		return s
	}

	out := model.NewSchemaModel(s.Version)
	for name, e := range s.Entities {
		if !c.ShouldIgnoreEntity(e) {
			out.Entities[name] = e
		}
	}
	for name, seq := range s.Sequences {
		if !c.ShouldIgnoreSequence(name) {
			out.Sequences[name] = seq
		}
	}
	for name, gen := range s.TableGenerators {
		if !c.ShouldIgnoreTableGenerator(name) {
			out.TableGenerators[name] = gen
		}
	}
	return out
}

// shouldIgnore checks if a name should be ignored based on the patterns
// Patterns support wildcards (*) and negation (!)
// Negation patterns (starting with !) take precedence over inclusion patterns
func shouldIgnore(name string, patterns []string) bool {
	if len(patterns) == 0 || name == "" {
		return false
	}

	matched := false
	for _, pattern := range patterns {
		if strings.HasPrefix(pattern, "!") {
			continue
		}
		if matchPattern(pattern, name) {
			matched = true
			break
		}
	}

	for _, pattern := range patterns {
		negPattern, ok := strings.CutPrefix(pattern, "!")
		if !ok {
			continue
		}
		if matchPattern(negPattern, name) {
			return false
		}
	}

	return matched
}

// matchPattern matches a glob-style pattern against a string
func matchPattern(pattern, name string) bool {
	matched, err := filepath.Match(pattern, name)
	if err != nil {
		// invalid pattern: literal match
		return pattern == name
	}
	return matched
}
