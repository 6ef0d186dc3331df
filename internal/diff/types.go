package diff

import (
	"github.com/entitydiff/entitydiff/internal/model"
)

// ChangeType classifies a single diff entry
type ChangeType string

const (
	ChangeAdded    ChangeType = "ADDED"
	ChangeDropped  ChangeType = "DROPPED"
	ChangeModified ChangeType = "MODIFIED"
	ChangeRenamed  ChangeType = "RENAMED"
)

// changeOrder gives a stable secondary sort key for entries sharing a name
var changeOrder = map[ChangeType]int{
	ChangeDropped:  0,
	ChangeRenamed:  1,
	ChangeModified: 2,
	ChangeAdded:    3,
}

// DiffResult is the accumulated difference between two snapshots
type DiffResult struct {
	AddedTables         []*model.EntityModel  `json:"addedTables"`
	DroppedTables       []*model.EntityModel  `json:"droppedTables"`
	RenamedTables       []*RenamedTable       `json:"renamedTables"`
	ModifiedTables      []*ModifiedEntity     `json:"modifiedTables"`
	SequenceDiffs       []*SequenceDiff       `json:"sequenceDiffs"`
	TableGeneratorDiffs []*TableGeneratorDiff `json:"tableGeneratorDiffs"`
}

// RenamedTable pairs an old-only entity with the new-only entity it was relabeled to
type RenamedTable struct {
	Old *model.EntityModel `json:"old"`
	New *model.EntityModel `json:"new"`
}

// ModifiedEntity collects every change found inside an entity present in both snapshots
type ModifiedEntity struct {
	EntityName        string              `json:"entityName"`
	Old               *model.EntityModel  `json:"-"`
	New               *model.EntityModel  `json:"-"`
	ColumnDiffs       []*ColumnDiff       `json:"columnDiffs,omitempty"`
	IndexDiffs        []*IndexDiff        `json:"indexDiffs,omitempty"`
	ConstraintDiffs   []*ConstraintDiff   `json:"constraintDiffs,omitempty"`
	RelationshipDiffs []*RelationshipDiff `json:"relationshipDiffs,omitempty"`
	Warnings          []string            `json:"warnings,omitempty"`

	// dangerous counts the warnings recorded through AddDangerousWarning
	dangerous int
}

// ColumnDiff is a change to one column
type ColumnDiff struct {
	Type         ChangeType         `json:"type"`
	ColumnName   string             `json:"columnName"`
	OldColumn    *model.ColumnModel `json:"oldColumn,omitempty"`
	NewColumn    *model.ColumnModel `json:"newColumn,omitempty"`
	ChangeDetail string             `json:"changeDetail,omitempty"`
}

// IndexDiff is a change to one index
type IndexDiff struct {
	Type         ChangeType        `json:"type"`
	IndexName    string            `json:"indexName"`
	OldIndex     *model.IndexModel `json:"oldIndex,omitempty"`
	NewIndex     *model.IndexModel `json:"newIndex,omitempty"`
	ChangeDetail string            `json:"changeDetail,omitempty"`
}

// ConstraintDiff is a change to one constraint
type ConstraintDiff struct {
	Type           ChangeType             `json:"type"`
	ConstraintName string                 `json:"constraintName"`
	OldConstraint  *model.ConstraintModel `json:"oldConstraint,omitempty"`
	NewConstraint  *model.ConstraintModel `json:"newConstraint,omitempty"`
	ChangeDetail   string                 `json:"changeDetail,omitempty"`
}

// RelationshipDiff is a change to one foreign-key relationship
type RelationshipDiff struct {
	Type            ChangeType               `json:"type"`
	Key             string                   `json:"key"`
	OldRelationship *model.RelationshipModel `json:"oldRelationship,omitempty"`
	NewRelationship *model.RelationshipModel `json:"newRelationship,omitempty"`
	ChangeDetail    string                   `json:"changeDetail,omitempty"`
	RequiresDropAdd bool                     `json:"requiresDropAdd"`
}

// SequenceDiff is a change to one sequence generator
type SequenceDiff struct {
	Type         ChangeType           `json:"type"`
	Name         string               `json:"name"`
	OldSequence  *model.SequenceModel `json:"oldSequence,omitempty"`
	NewSequence  *model.SequenceModel `json:"newSequence,omitempty"`
	ChangeDetail string               `json:"changeDetail,omitempty"`
}

// TableGeneratorDiff is a change to one table generator
type TableGeneratorDiff struct {
	Type         ChangeType                 `json:"type"`
	Name         string                     `json:"name"`
	OldGenerator *model.TableGeneratorModel `json:"oldGenerator,omitempty"`
	NewGenerator *model.TableGeneratorModel `json:"newGenerator,omitempty"`
	ChangeDetail string                     `json:"changeDetail,omitempty"`
}

// Differ is one stage of the top-level pipeline. A stage reads only the two snapshots and
// writes only into the accumulator.
type Differ interface {
	Diff(old, new *model.SchemaModel, result *DiffResult)
}

// EntityComponentDiffer compares one aspect of an entity present in both snapshots,
// accumulating into the shared ModifiedEntity.
type EntityComponentDiffer interface {
	DiffEntity(m *ModifiedEntity)
}

// NewDiffResult returns an empty result with all lists allocated
func NewDiffResult() *DiffResult {
	return &DiffResult{
		AddedTables:         []*model.EntityModel{},
		DroppedTables:       []*model.EntityModel{},
		RenamedTables:       []*RenamedTable{},
		ModifiedTables:      []*ModifiedEntity{},
		SequenceDiffs:       []*SequenceDiff{},
		TableGeneratorDiffs: []*TableGeneratorDiff{},
	}
}

// IsEmpty reports whether the two snapshots were found identical
func (r *DiffResult) IsEmpty() bool {
	return r.ChangeCount() == 0 && len(r.Warnings()) == 0
}

// ChangeCount is the number of diff entries at every level, warnings excluded
func (r *DiffResult) ChangeCount() int {
	if r == nil {
		return 0
	}
	n := len(r.AddedTables) + len(r.DroppedTables) + len(r.RenamedTables) +
		len(r.SequenceDiffs) + len(r.TableGeneratorDiffs)
	for _, m := range r.ModifiedTables {
		n += m.ChangeCount()
	}
	return n
}

// Warnings returns every entity warning prefixed by its entity name
func (r *DiffResult) Warnings() []string {
	if r == nil {
		return nil
	}
	var out []string
	for _, m := range r.ModifiedTables {
		for _, w := range m.Warnings {
			out = append(out, m.EntityName+": "+w)
		}
	}
	return out
}

// HasDangerousChanges reports whether a dropped table or column, a dangerous warning or a
// relationship diff that recreates its foreign key was found. Informational warnings such as a
// safe widening conversion do not count.
func (r *DiffResult) HasDangerousChanges() bool {
	if r == nil {
		return false
	}
	if len(r.DroppedTables) > 0 {
		return true
	}
	for _, m := range r.ModifiedTables {
		if m.dangerous > 0 {
			return true
		}
		for _, c := range m.ColumnDiffs {
			if c.Type == ChangeDropped {
				return true
			}
		}
		for _, rd := range m.RelationshipDiffs {
			if rd.RequiresDropAdd {
				return true
			}
		}
	}
	return false
}

func newModifiedEntity(name string, old, new *model.EntityModel) *ModifiedEntity {
	return &ModifiedEntity{
		EntityName: name,
		Old:        old,
		New:        new,
	}
}

// IsEmpty reports whether no diff or warning was accumulated
func (m *ModifiedEntity) IsEmpty() bool {
	return m.ChangeCount() == 0 && len(m.Warnings) == 0
}

// ChangeCount is the number of diff entries in the entity
func (m *ModifiedEntity) ChangeCount() int {
	return len(m.ColumnDiffs) + len(m.IndexDiffs) + len(m.ConstraintDiffs) + len(m.RelationshipDiffs)
}

// AddWarning appends an informational warning to the entity
func (m *ModifiedEntity) AddWarning(warning string) {
	m.Warnings = append(m.Warnings, warning)
}

// AddDangerousWarning appends a warning signalling possible data loss or a physical change
// that cannot be applied in place
func (m *ModifiedEntity) AddDangerousWarning(warning string) {
	m.Warnings = append(m.Warnings, warning)
	m.dangerous++
}

// DangerousWarningCount is the number of warnings added through AddDangerousWarning
func (m *ModifiedEntity) DangerousWarningCount() int {
	return m.dangerous
}

func (m *ModifiedEntity) addWarnings(warnings []warning) {
	for _, w := range warnings {
		if w.dangerous {
			m.AddDangerousWarning(w.text)
		} else {
			m.AddWarning(w.text)
		}
	}
}
