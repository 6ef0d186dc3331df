package diff

import (
	"strings"
	"testing"

	"github.com/entitydiff/entitydiff/internal/model"
)

func strPtr(s string) *string {
	return &s
}

func column(name, javaType string) *model.ColumnModel {
	return &model.ColumnModel{ColumnName: name, TableName: "users", JavaType: javaType, Nullable: true}
}

func entity(name, table string, cols ...*model.ColumnModel) *model.EntityModel {
	e := &model.EntityModel{
		EntityName:    name,
		TableName:     table,
		TableType:     model.TableTypeEntity,
		Columns:       map[string]*model.ColumnModel{},
		Constraints:   map[string]*model.ConstraintModel{},
		Indexes:       map[string]*model.IndexModel{},
		Relationships: map[string]*model.RelationshipModel{},
	}
	for _, c := range cols {
		e.Columns[c.ColumnName] = c
	}
	return e
}

func schemaOf(version string, entities ...*model.EntityModel) *model.SchemaModel {
	s := model.NewSchemaModel(version)
	for _, e := range entities {
		s.Entities[e.EntityName] = e
	}
	return s
}

// runComponent runs a single entity component over two entities and returns the accumulator
func runComponent(c EntityComponentDiffer, old, new *model.EntityModel) *ModifiedEntity {
	m := newModifiedEntity(new.EntityName, old, new)
	c.DiffEntity(m)
	return m
}

func countColumnDiffs(diffs []*ColumnDiff, t ChangeType) int {
	n := 0
	for _, d := range diffs {
		if d.Type == t {
			n++
		}
	}
	return n
}

func warningsContaining(warnings []string, substr string) []string {
	var out []string
	for _, w := range warnings {
		if strings.Contains(w, substr) {
			out = append(out, w)
		}
	}
	return out
}

func requireWarning(t *testing.T, warnings []string, substr string) {
	t.Helper()
	if len(warningsContaining(warnings, substr)) == 0 {
		t.Errorf("expected a warning containing %q, got %q", substr, warnings)
	}
}

func requireNoWarning(t *testing.T, warnings []string, substr string) {
	t.Helper()
	if found := warningsContaining(warnings, substr); len(found) > 0 {
		t.Errorf("unexpected warning containing %q: %q", substr, found)
	}
}
