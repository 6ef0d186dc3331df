package diff

import (
	"sort"
	"strings"

	"github.com/entitydiff/entitydiff/internal/casefold"
	"github.com/entitydiff/entitydiff/internal/model"
	"github.com/entitydiff/entitydiff/internal/utils"
)

// CheckClauseComparer reports whether two CHECK clauses are equivalent
type CheckClauseComparer func(old, new string) bool

// exactCheckClause compares clauses after trimming surrounding whitespace
func exactCheckClause(old, new string) bool {
	return strings.TrimSpace(old) == strings.TrimSpace(new)
}

// ConstraintDiffer matches constraints by signature rather than by name, since generated
// constraint names are not stable across versions.
type ConstraintDiffer struct {
	checkEqual CheckClauseComparer
}

// NewConstraintDiffer returns a ConstraintDiffer. A nil comparer falls back to trimmed string equality.
func NewConstraintDiffer(checkEqual CheckClauseComparer) *ConstraintDiffer {
	if checkEqual == nil {
		checkEqual = exactCheckClause
	}
	return &ConstraintDiffer{checkEqual: checkEqual}
}

// constraintSignature is the matching identity of a constraint: its kind plus the
// case-insensitive set of its columns
type constraintSignature struct {
	Type    model.ConstraintType
	Columns string
}

func signatureOf(c *model.ConstraintModel) constraintSignature {
	cols := utils.SortedCopy(casefold.NormalizeAll(casefold.Lower, c.Columns))
	deduped := cols[:0]
	for i, col := range cols {
		if i > 0 && col == cols[i-1] {
			continue
		}
		deduped = append(deduped, col)
	}
	return constraintSignature{
		Type:    c.Type,
		Columns: strings.Join(deduped, ","),
	}
}

type keyedConstraint struct {
	key        string
	constraint *model.ConstraintModel
}

func (k keyedConstraint) name() string {
	if k.constraint.Name != "" {
		return k.constraint.Name
	}
	return k.key
}

// groupBySignature buckets constraints by signature. Members of a bucket are ordered by map key.
func groupBySignature(constraints map[string]*model.ConstraintModel) map[constraintSignature][]keyedConstraint {
	groups := make(map[constraintSignature][]keyedConstraint)
	for _, key := range utils.SortedKeys(constraints) {
		c := constraints[key]
		if c == nil {
			continue
		}
		sig := signatureOf(c)
		groups[sig] = append(groups[sig], keyedConstraint{key: key, constraint: c})
	}
	return groups
}

// DiffEntity implements EntityComponentDiffer
func (d *ConstraintDiffer) DiffEntity(m *ModifiedEntity) {
	var oldConstraints, newConstraints map[string]*model.ConstraintModel
	if m.Old != nil {
		oldConstraints = m.Old.Constraints
	}
	if m.New != nil {
		newConstraints = m.New.Constraints
	}

	oldGroups := groupBySignature(oldConstraints)
	newGroups := groupBySignature(newConstraints)

	var diffs []*ConstraintDiff
	for _, sig := range sortedSignatures(oldGroups, newGroups) {
		olds, news := oldGroups[sig], newGroups[sig]
		pairs, leftOld, leftNew := pairConstraints(olds, news)

		for _, p := range pairs {
			if diff := d.comparePair(p[0], p[1]); diff != nil {
				diffs = append(diffs, diff)
			}
		}
		for _, o := range leftOld {
			diffs = append(diffs, &ConstraintDiff{Type: ChangeDropped, ConstraintName: o.name(), OldConstraint: o.constraint})
		}
		for _, n := range leftNew {
			diffs = append(diffs, &ConstraintDiff{Type: ChangeAdded, ConstraintName: n.name(), NewConstraint: n.constraint})
		}
	}

	sort.SliceStable(diffs, func(i, j int) bool {
		if diffs[i].ConstraintName != diffs[j].ConstraintName {
			return diffs[i].ConstraintName < diffs[j].ConstraintName
		}
		return changeOrder[diffs[i].Type] < changeOrder[diffs[j].Type]
	})
	m.ConstraintDiffs = append(m.ConstraintDiffs, diffs...)
}

// pairConstraints builds a 1:1 pairing inside one signature group. Members with the same name
// pair first; the rest pair positionally in key order. Extra members are returned unpaired.
func pairConstraints(olds, news []keyedConstraint) ([][2]keyedConstraint, []keyedConstraint, []keyedConstraint) {
	var pairs [][2]keyedConstraint
	oldUsed := make([]bool, len(olds))
	newUsed := make([]bool, len(news))

	for i, o := range olds {
		for j, n := range news {
			if !newUsed[j] && o.name() == n.name() {
				pairs = append(pairs, [2]keyedConstraint{o, n})
				oldUsed[i], newUsed[j] = true, true
				break
			}
		}
	}

	var restOld, restNew []keyedConstraint
	for i, o := range olds {
		if !oldUsed[i] {
			restOld = append(restOld, o)
		}
	}
	for j, n := range news {
		if !newUsed[j] {
			restNew = append(restNew, n)
		}
	}

	n := min(len(restOld), len(restNew))
	for i := 0; i < n; i++ {
		pairs = append(pairs, [2]keyedConstraint{restOld[i], restNew[i]})
	}
	return pairs, restOld[n:], restNew[n:]
}

func (d *ConstraintDiffer) comparePair(o, n keyedConstraint) *ConstraintDiff {
	c := &changeSet{}
	if o.name() != n.name() {
		c.add("name", o.name(), n.name())
	}
	if n.constraint.Type == model.ConstraintCheck && !d.checkClausesEqual(o.constraint.CheckClause, n.constraint.CheckClause) {
		c.add("checkClause", renderPtr(o.constraint.CheckClause), renderPtr(n.constraint.CheckClause))
	}
	if c.empty() {
		return nil
	}
	return &ConstraintDiff{
		Type:           ChangeModified,
		ConstraintName: n.name(),
		OldConstraint:  o.constraint,
		NewConstraint:  n.constraint,
		ChangeDetail:   c.String(),
	}
}

func (d *ConstraintDiffer) checkClausesEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return d.checkEqual(*a, *b)
}

func sortedSignatures(a, b map[constraintSignature][]keyedConstraint) []constraintSignature {
	seen := make(map[constraintSignature]struct{}, len(a)+len(b))
	var sigs []constraintSignature
	for _, m := range []map[constraintSignature][]keyedConstraint{a, b} {
		for sig := range m {
			if _, ok := seen[sig]; !ok {
				seen[sig] = struct{}{}
				sigs = append(sigs, sig)
			}
		}
	}
	sort.Slice(sigs, func(i, j int) bool {
		if sigs[i].Type != sigs[j].Type {
			return sigs[i].Type < sigs[j].Type
		}
		return sigs[i].Columns < sigs[j].Columns
	})
	return sigs
}
