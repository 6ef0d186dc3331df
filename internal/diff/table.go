package diff

import (
	"github.com/entitydiff/entitydiff/internal/fingerprint"
	"github.com/entitydiff/entitydiff/internal/model"
)

// TableDiffer classifies entities present in only one snapshot as ADDED, DROPPED or RENAMED.
// Entities whose key exists on both sides are left to the EntityModificationDiffer.
//
// An old-only and a new-only entity are the same table relabeled when their column
// fingerprints match. Old-only entities are visited in entity-name order and each takes the
// lexically first unused new-only candidate, so collisions resolve deterministically.
type TableDiffer struct{}

// NewTableDiffer returns a TableDiffer
func NewTableDiffer() *TableDiffer {
	return &TableDiffer{}
}

// Diff implements Differ
func (d *TableDiffer) Diff(old, new *model.SchemaModel, result *DiffResult) {
	var oldOnly, newOnly []string
	for _, name := range old.EntityNames() {
		if old.Entities[name] == nil {
			continue
		}
		if new.Entity(name) == nil {
			oldOnly = append(oldOnly, name)
		}
	}
	for _, name := range new.EntityNames() {
		if new.Entities[name] == nil {
			continue
		}
		if old.Entity(name) == nil {
			newOnly = append(newOnly, name)
		}
	}

	newPrints := make(map[string]string, len(newOnly))
	for _, name := range newOnly {
		newPrints[name] = fingerprint.EntityFingerprint(new.Entities[name])
	}

	used := make(map[string]bool, len(newOnly))
	for _, oldName := range oldOnly {
		oldEntity := old.Entities[oldName]
		fp := fingerprint.EntityFingerprint(oldEntity)

		matched := ""
		if fp != "" {
			for _, newName := range newOnly {
				if !used[newName] && newPrints[newName] == fp {
					matched = newName
					break
				}
			}
		}

		if matched == "" {
			result.DroppedTables = append(result.DroppedTables, oldEntity)
			continue
		}
		used[matched] = true
		result.RenamedTables = append(result.RenamedTables, &RenamedTable{
			Old: oldEntity,
			New: new.Entities[matched],
		})
	}

	for _, newName := range newOnly {
		if !used[newName] {
			result.AddedTables = append(result.AddedTables, new.Entities[newName])
		}
	}
}
