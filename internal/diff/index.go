package diff

import (
	"sort"

	"github.com/entitydiff/entitydiff/internal/model"
	"github.com/entitydiff/entitydiff/internal/utils"
)

// IndexDiffer compares the index maps of an entity by index name. Column order is
// significant: it defines the physical layout of the index.
type IndexDiffer struct{}

// NewIndexDiffer returns an IndexDiffer
func NewIndexDiffer() *IndexDiffer {
	return &IndexDiffer{}
}

// DiffEntity implements EntityComponentDiffer
func (d *IndexDiffer) DiffEntity(m *ModifiedEntity) {
	oldIndexes := indexesOf(m.Old)
	newIndexes := indexesOf(m.New)

	var diffs []*IndexDiff

	for _, name := range utils.SortedKeys(oldIndexes) {
		oldIdx := oldIndexes[name]
		newIdx, ok := newIndexes[name]
		if !ok {
			diffs = append(diffs, &IndexDiff{Type: ChangeDropped, IndexName: name, OldIndex: oldIdx})
			continue
		}

		c := &changeSet{}
		if !equalStrings(oldIdx.Columns, newIdx.Columns) {
			c.add("columns", renderList(oldIdx.Columns), renderList(newIdx.Columns))
		}
		if oldIdx.Unique != newIdx.Unique {
			c.add("isUnique", oldIdx.Unique, newIdx.Unique)
		}
		if !c.empty() {
			diffs = append(diffs, &IndexDiff{
				Type:         ChangeModified,
				IndexName:    name,
				OldIndex:     oldIdx,
				NewIndex:     newIdx,
				ChangeDetail: c.String(),
			})
		}
	}

	for _, name := range utils.SortedKeys(newIndexes) {
		if _, ok := oldIndexes[name]; !ok {
			diffs = append(diffs, &IndexDiff{Type: ChangeAdded, IndexName: name, NewIndex: newIndexes[name]})
		}
	}

	// Sort indexes by name for consistent ordering
	sort.SliceStable(diffs, func(i, j int) bool {
		return diffs[i].IndexName < diffs[j].IndexName
	})
	m.IndexDiffs = append(m.IndexDiffs, diffs...)
}

func indexesOf(e *model.EntityModel) map[string]*model.IndexModel {
	if e == nil {
		return nil
	}
	out := make(map[string]*model.IndexModel, len(e.Indexes))
	for k, idx := range e.Indexes {
		if idx != nil {
			out[k] = idx
		}
	}
	return out
}
