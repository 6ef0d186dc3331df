package model

import (
	"errors"
	"fmt"

	"github.com/entitydiff/entitydiff/internal/utils"
)

// Validate checks the structural invariants the diff engine relies on. The extraction front end
// is expected to guarantee them; loaders call this before handing a snapshot to the engine.
func (s *SchemaModel) Validate() error {
	if s == nil {
		return errors.New("schema model is nil")
	}

	var errs []error
	for _, key := range utils.SortedKeys(s.Entities) {
		entity := s.Entities[key]
		if entity == nil {
			errs = append(errs, fmt.Errorf("entity %q: definition is empty", key))
			continue
		}
		if entity.TableName == "" {
			errs = append(errs, fmt.Errorf("entity %q: table name is required", key))
		}
		for _, colKey := range utils.SortedKeys(entity.Columns) {
			col := entity.Columns[colKey]
			if col == nil {
				errs = append(errs, fmt.Errorf("entity %q: column %q is empty", key, colKey))
				continue
			}
			if !entity.OwnsTable(col.TableName) {
				errs = append(errs, fmt.Errorf("entity %q: column %q belongs to unknown table %q", key, colKey, col.TableName))
			}
		}
		for _, relKey := range utils.SortedKeys(entity.Relationships) {
			rel := entity.Relationships[relKey]
			if rel == nil {
				errs = append(errs, fmt.Errorf("entity %q: relationship %q is empty", key, relKey))
				continue
			}
			if len(rel.Columns) == 0 {
				errs = append(errs, fmt.Errorf("entity %q: relationship %q has no join columns", key, relKey))
			}
		}
		for _, idxKey := range utils.SortedKeys(entity.Indexes) {
			if entity.Indexes[idxKey] == nil {
				errs = append(errs, fmt.Errorf("entity %q: index %q is empty", key, idxKey))
			}
		}
		for _, conKey := range utils.SortedKeys(entity.Constraints) {
			if entity.Constraints[conKey] == nil {
				errs = append(errs, fmt.Errorf("entity %q: constraint %q is empty", key, conKey))
			}
		}
	}
	for _, key := range utils.SortedKeys(s.Sequences) {
		if s.Sequences[key] == nil {
			errs = append(errs, fmt.Errorf("sequence %q: definition is empty", key))
		}
	}
	for _, key := range utils.SortedKeys(s.TableGenerators) {
		if s.TableGenerators[key] == nil {
			errs = append(errs, fmt.Errorf("table generator %q: definition is empty", key))
		}
	}
	return errors.Join(errs...)
}
