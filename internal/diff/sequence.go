package diff

import (
	"github.com/entitydiff/entitydiff/internal/model"
	"github.com/entitydiff/entitydiff/internal/utils"
)

// SequenceDiffer compares sequence generators by name
type SequenceDiffer struct{}

// NewSequenceDiffer returns a SequenceDiffer
func NewSequenceDiffer() *SequenceDiffer {
	return &SequenceDiffer{}
}

// Diff implements Differ
func (d *SequenceDiffer) Diff(old, new *model.SchemaModel, result *DiffResult) {
	oldSeqs, newSeqs := sequencesOf(old), sequencesOf(new)

	for _, name := range utils.SortedKeys(oldSeqs) {
		oldSeq := oldSeqs[name]
		newSeq, ok := newSeqs[name]
		if !ok {
			result.SequenceDiffs = append(result.SequenceDiffs, &SequenceDiff{Type: ChangeDropped, Name: name, OldSequence: oldSeq})
			continue
		}
		if c := compareSequences(oldSeq, newSeq); !c.empty() {
			result.SequenceDiffs = append(result.SequenceDiffs, &SequenceDiff{
				Type:         ChangeModified,
				Name:         name,
				OldSequence:  oldSeq,
				NewSequence:  newSeq,
				ChangeDetail: c.String(),
			})
		}
	}
	for _, name := range utils.SortedKeys(newSeqs) {
		if _, ok := oldSeqs[name]; !ok {
			result.SequenceDiffs = append(result.SequenceDiffs, &SequenceDiff{Type: ChangeAdded, Name: name, NewSequence: newSeqs[name]})
		}
	}
}

func compareSequences(old, new *model.SequenceModel) *changeSet {
	c := &changeSet{}
	if old.SequenceName != new.SequenceName {
		c.add("sequenceName", renderEnum(old.SequenceName), renderEnum(new.SequenceName))
	}
	if old.InitialValue != new.InitialValue {
		c.add("initialValue", old.InitialValue, new.InitialValue)
	}
	if old.AllocationSize != new.AllocationSize {
		c.add("allocationSize", old.AllocationSize, new.AllocationSize)
	}
	if !equalPtr(old.Schema, new.Schema) {
		c.add("schema", renderPtr(old.Schema), renderPtr(new.Schema))
	}
	if !equalPtr(old.Catalog, new.Catalog) {
		c.add("catalog", renderPtr(old.Catalog), renderPtr(new.Catalog))
	}
	return c
}

func sequencesOf(s *model.SchemaModel) map[string]*model.SequenceModel {
	out := make(map[string]*model.SequenceModel)
	if s == nil {
		return out
	}
	for k, v := range s.Sequences {
		if v != nil {
			out[k] = v
		}
	}
	return out
}

// TableGeneratorDiffer compares table-backed id generators by name
type TableGeneratorDiffer struct{}

// NewTableGeneratorDiffer returns a TableGeneratorDiffer
func NewTableGeneratorDiffer() *TableGeneratorDiffer {
	return &TableGeneratorDiffer{}
}

// Diff implements Differ
func (d *TableGeneratorDiffer) Diff(old, new *model.SchemaModel, result *DiffResult) {
	oldGens, newGens := generatorsOf(old), generatorsOf(new)

	for _, name := range utils.SortedKeys(oldGens) {
		oldGen := oldGens[name]
		newGen, ok := newGens[name]
		if !ok {
			result.TableGeneratorDiffs = append(result.TableGeneratorDiffs, &TableGeneratorDiff{Type: ChangeDropped, Name: name, OldGenerator: oldGen})
			continue
		}
		if c := compareGenerators(oldGen, newGen); !c.empty() {
			result.TableGeneratorDiffs = append(result.TableGeneratorDiffs, &TableGeneratorDiff{
				Type:         ChangeModified,
				Name:         name,
				OldGenerator: oldGen,
				NewGenerator: newGen,
				ChangeDetail: c.String(),
			})
		}
	}
	for _, name := range utils.SortedKeys(newGens) {
		if _, ok := oldGens[name]; !ok {
			result.TableGeneratorDiffs = append(result.TableGeneratorDiffs, &TableGeneratorDiff{Type: ChangeAdded, Name: name, NewGenerator: newGens[name]})
		}
	}
}

func compareGenerators(old, new *model.TableGeneratorModel) *changeSet {
	c := &changeSet{}
	if old.Table != new.Table {
		c.add("table", renderEnum(old.Table), renderEnum(new.Table))
	}
	if !equalPtr(old.Schema, new.Schema) {
		c.add("schema", renderPtr(old.Schema), renderPtr(new.Schema))
	}
	if !equalPtr(old.Catalog, new.Catalog) {
		c.add("catalog", renderPtr(old.Catalog), renderPtr(new.Catalog))
	}
	if old.PkColumnName != new.PkColumnName {
		c.add("pkColumnName", renderEnum(old.PkColumnName), renderEnum(new.PkColumnName))
	}
	if old.PkColumnValue != new.PkColumnValue {
		c.add("pkColumnValue", renderEnum(old.PkColumnValue), renderEnum(new.PkColumnValue))
	}
	if old.ValueColumnName != new.ValueColumnName {
		c.add("valueColumnName", renderEnum(old.ValueColumnName), renderEnum(new.ValueColumnName))
	}
	if old.InitialValue != new.InitialValue {
		c.add("initialValue", old.InitialValue, new.InitialValue)
	}
	if old.AllocationSize != new.AllocationSize {
		c.add("allocationSize", old.AllocationSize, new.AllocationSize)
	}
	return c
}

func generatorsOf(s *model.SchemaModel) map[string]*model.TableGeneratorModel {
	out := make(map[string]*model.TableGeneratorModel)
	if s == nil {
		return out
	}
	for k, v := range s.TableGenerators {
		if v != nil {
			out[k] = v
		}
	}
	return out
}
