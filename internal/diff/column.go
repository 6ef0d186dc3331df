package diff

import (
	"fmt"
	"sort"
	"strings"

	"github.com/entitydiff/entitydiff/internal/model"
	"github.com/entitydiff/entitydiff/internal/utils"
)

// ColumnStrategy selects how column keys present on only one side are reported
type ColumnStrategy string

const (
	// ColumnStrategyRenameAware pairs an old-only and a new-only column as RENAMED when all
	// their other attributes are identical.
	ColumnStrategyRenameAware ColumnStrategy = "rename-aware"
	// ColumnStrategySimple never infers renames; every key mismatch is DROPPED + ADDED.
	ColumnStrategySimple ColumnStrategy = "simple"
)

// ParseColumnStrategy converts a flag or config value into a ColumnStrategy
func ParseColumnStrategy(s string) (ColumnStrategy, error) {
	switch ColumnStrategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", ColumnStrategyRenameAware, "rename":
		return ColumnStrategyRenameAware, nil
	case ColumnStrategySimple:
		return ColumnStrategySimple, nil
	default:
		return "", fmt.Errorf("unknown column strategy %q (expected rename-aware or simple)", s)
	}
}

// ColumnDiffer compares the column maps of an entity. Both strategies share the attribute
// comparison and the risk warnings; they differ only in rename inference.
type ColumnDiffer struct {
	strategy ColumnStrategy
}

// NewColumnDiffer returns the rename-aware column differ
func NewColumnDiffer() *ColumnDiffer {
	return &ColumnDiffer{strategy: ColumnStrategyRenameAware}
}

// NewSimpleColumnDiffer returns a column differ that never reports renames
func NewSimpleColumnDiffer() *ColumnDiffer {
	return &ColumnDiffer{strategy: ColumnStrategySimple}
}

// NewColumnDifferWithStrategy returns a column differ for the given strategy
func NewColumnDifferWithStrategy(strategy ColumnStrategy) *ColumnDiffer {
	if strategy == ColumnStrategySimple {
		return NewSimpleColumnDiffer()
	}
	return NewColumnDiffer()
}

// Strategy returns the rename policy in use
func (d *ColumnDiffer) Strategy() ColumnStrategy {
	return d.strategy
}

// DiffEntity implements EntityComponentDiffer
func (d *ColumnDiffer) DiffEntity(m *ModifiedEntity) {
	oldCols := columnsOf(m.Old)
	newCols := columnsOf(m.New)

	var diffs []*ColumnDiff
	var oldOnly, newOnly []string

	for _, key := range utils.SortedKeys(oldCols) {
		oldCol := oldCols[key]
		newCol, ok := newCols[key]
		if !ok {
			oldOnly = append(oldOnly, key)
			continue
		}
		name := columnDisplayName(key, newCol)
		if changes := compareColumnAttributes(oldCol, newCol); !changes.empty() {
			diffs = append(diffs, &ColumnDiff{
				Type:         ChangeModified,
				ColumnName:   name,
				OldColumn:    oldCol,
				NewColumn:    newCol,
				ChangeDetail: changes.String(),
			})
		}
		m.addWarnings(columnWarnings(name, oldCol, newCol))
	}
	for _, key := range utils.SortedKeys(newCols) {
		if _, ok := oldCols[key]; !ok {
			newOnly = append(newOnly, key)
		}
	}

	if d.strategy == ColumnStrategyRenameAware {
		var renamed []*ColumnDiff
		renamed, oldOnly, newOnly = pairRenamedColumns(oldCols, newCols, oldOnly, newOnly)
		diffs = append(diffs, renamed...)
	}

	for _, key := range oldOnly {
		diffs = append(diffs, &ColumnDiff{
			Type:       ChangeDropped,
			ColumnName: columnDisplayName(key, oldCols[key]),
			OldColumn:  oldCols[key],
		})
	}
	for _, key := range newOnly {
		diffs = append(diffs, &ColumnDiff{
			Type:       ChangeAdded,
			ColumnName: columnDisplayName(key, newCols[key]),
			NewColumn:  newCols[key],
		})
	}

	sort.SliceStable(diffs, func(i, j int) bool {
		if diffs[i].ColumnName != diffs[j].ColumnName {
			return diffs[i].ColumnName < diffs[j].ColumnName
		}
		return changeOrder[diffs[i].Type] < changeOrder[diffs[j].Type]
	})
	m.ColumnDiffs = append(m.ColumnDiffs, diffs...)
}

// pairRenamedColumns matches old-only and new-only keys whose columns are identical apart from
// their name. Both key lists are sorted, so each old key takes the lexically first unused
// candidate. Returns the renames and the keys left unmatched.
func pairRenamedColumns(oldCols, newCols map[string]*model.ColumnModel, oldOnly, newOnly []string) ([]*ColumnDiff, []string, []string) {
	used := make(map[string]bool, len(newOnly))
	var renamed []*ColumnDiff
	var remainingOld []string

	for _, oldKey := range oldOnly {
		oldCol := oldCols[oldKey]
		matched := ""
		for _, newKey := range newOnly {
			if used[newKey] {
				continue
			}
			if compareColumnAttributes(oldCol, newCols[newKey]).empty() {
				matched = newKey
				break
			}
		}
		if matched == "" {
			remainingOld = append(remainingOld, oldKey)
			continue
		}
		used[matched] = true
		oldName := columnDisplayName(oldKey, oldCol)
		newName := columnDisplayName(matched, newCols[matched])
		renamed = append(renamed, &ColumnDiff{
			Type:         ChangeRenamed,
			ColumnName:   newName,
			OldColumn:    oldCol,
			NewColumn:    newCols[matched],
			ChangeDetail: fmt.Sprintf("Column renamed from %s to %s", oldName, newName),
		})
	}

	var remainingNew []string
	for _, newKey := range newOnly {
		if !used[newKey] {
			remainingNew = append(remainingNew, newKey)
		}
	}
	return renamed, remainingOld, remainingNew
}

// compareColumnAttributes lists every differing attribute of two columns. Name and owning
// table are not attributes.
func compareColumnAttributes(old, new *model.ColumnModel) *changeSet {
	c := &changeSet{}
	if old.JavaType != new.JavaType {
		c.add("type", old.JavaType, new.JavaType)
	}
	if old.Nullable != new.Nullable {
		c.add("nullable", old.Nullable, new.Nullable)
	}
	if old.Length != new.Length {
		c.add("length", old.Length, new.Length)
	}
	if old.Precision != new.Precision {
		c.add("precision", old.Precision, new.Precision)
	}
	if old.Scale != new.Scale {
		c.add("scale", old.Scale, new.Scale)
	}
	if !equalPtr(old.DefaultValue, new.DefaultValue) {
		c.add("default", renderPtr(old.DefaultValue), renderPtr(new.DefaultValue))
	}
	if !equalPtr(old.Comment, new.Comment) {
		c.add("comment", renderPtr(old.Comment), renderPtr(new.Comment))
	}
	if !equalStrings(old.EnumValues, new.EnumValues) {
		c.add("enumValues", renderList(old.EnumValues), renderList(new.EnumValues))
	}
	if old.EnumStringMapping != new.EnumStringMapping {
		c.add("enumStringMapping", old.EnumStringMapping, new.EnumStringMapping)
	}
	if old.TemporalType != new.TemporalType {
		c.add("temporalType", renderEnum(old.TemporalType), renderEnum(new.TemporalType))
	}
	if !equalPtr(old.ConversionClass, new.ConversionClass) {
		c.add("converter", renderPtr(old.ConversionClass), renderPtr(new.ConversionClass))
	}
	if old.FetchType != new.FetchType {
		c.add("fetchType", renderEnum(old.FetchType), renderEnum(new.FetchType))
	}
	if old.PrimaryKey != new.PrimaryKey {
		c.add("isPrimaryKey", old.PrimaryKey, new.PrimaryKey)
	}
	if old.GenerationStrategy != new.GenerationStrategy {
		c.add("generationStrategy", renderEnum(old.GenerationStrategy), renderEnum(new.GenerationStrategy))
	}
	if old.Lob != new.Lob {
		c.add("isLob", old.Lob, new.Lob)
	}
	return c
}

func columnsOf(e *model.EntityModel) map[string]*model.ColumnModel {
	if e == nil {
		return nil
	}
	cols := make(map[string]*model.ColumnModel, len(e.Columns))
	for k, c := range e.Columns {
		if c != nil {
			cols[k] = c
		}
	}
	return cols
}

func columnDisplayName(key string, col *model.ColumnModel) string {
	if col != nil && col.ColumnName != "" {
		return col.ColumnName
	}
	return key
}
