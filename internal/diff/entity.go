package diff

import (
	"fmt"

	"github.com/entitydiff/entitydiff/internal/model"
)

// EntityModificationDiffer runs the entity-scoped comparators over every entity present in both
// snapshots. The comparator order is fixed at construction and preserved on every run.
type EntityModificationDiffer struct {
	components []EntityComponentDiffer
}

// NewEntityModificationDiffer returns a differ running components in the given order
func NewEntityModificationDiffer(components ...EntityComponentDiffer) *EntityModificationDiffer {
	return &EntityModificationDiffer{components: components}
}

// Components returns the comparators in execution order
func (d *EntityModificationDiffer) Components() []EntityComponentDiffer {
	return d.components
}

// Diff implements Differ
func (d *EntityModificationDiffer) Diff(old, new *model.SchemaModel, result *DiffResult) {
	for _, name := range old.EntityNames() {
		oldEntity := old.Entities[name]
		newEntity := new.Entity(name)
		if oldEntity == nil || newEntity == nil {
			continue
		}

		m := newModifiedEntity(name, oldEntity, newEntity)
		for _, component := range d.components {
			component.DiffEntity(m)
		}
		diffEntityAttributes(m)

		if !m.IsEmpty() {
			result.ModifiedTables = append(result.ModifiedTables, m)
		}
	}
}

// diffEntityAttributes warns about entity-level placement changes
func diffEntityAttributes(m *ModifiedEntity) {
	if m.Old.TableName != m.New.TableName {
		m.AddWarning(fmt.Sprintf("Table name changed from %s to %s", m.Old.TableName, m.New.TableName))
	}
	if !equalPtr(m.Old.Schema, m.New.Schema) {
		m.AddWarning(fmt.Sprintf("Schema changed from %s to %s", renderPtr(m.Old.Schema), renderPtr(m.New.Schema)))
	}
	if !equalPtr(m.Old.Catalog, m.New.Catalog) {
		m.AddWarning(fmt.Sprintf("Catalog changed from %s to %s", renderPtr(m.Old.Catalog), renderPtr(m.New.Catalog)))
	}
}
