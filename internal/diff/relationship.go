package diff

import (
	"fmt"
	"sort"
	"strings"

	"github.com/entitydiff/entitydiff/internal/casefold"
	"github.com/entitydiff/entitydiff/internal/model"
	"github.com/entitydiff/entitydiff/internal/utils"
)

const (
	structuralSection = "[STRUCTURAL]"
	behavioralSection = "[BEHAVIORAL]"
	sectionSeparator  = " | "
	fieldSeparator    = ", "
)

// RelationshipDiffer matches relationships across snapshots by RelationshipKey and classifies
// each attribute change as structural (the physical foreign key must be dropped and recreated)
// or behavioral (mapping-level only).
type RelationshipDiffer struct {
	normalizer casefold.Normalizer
}

// NewRelationshipDiffer returns a RelationshipDiffer folding identifiers with n. A nil
// normalizer folds to lower case.
func NewRelationshipDiffer(n casefold.Normalizer) *RelationshipDiffer {
	if n == nil {
		n = casefold.Lower
	}
	return &RelationshipDiffer{normalizer: n}
}

type keyedRelationship struct {
	key    RelationshipKey
	mapKey string
	rel    *model.RelationshipModel
}

// DiffEntity implements EntityComponentDiffer
func (d *RelationshipDiffer) DiffEntity(m *ModifiedEntity) {
	cache := make(map[*model.RelationshipModel]RelationshipKey)

	oldRels := d.collapse("old", entityLabel(m.Old, m.EntityName), relationshipsOf(m.Old), cache, m)
	newRels := d.collapse("new", entityLabel(m.New, m.EntityName), relationshipsOf(m.New), cache, m)

	keys := make([]RelationshipKey, 0, len(oldRels)+len(newRels))
	for k := range oldRels {
		keys = append(keys, k)
	}
	for k := range newRels {
		if _, ok := oldRels[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })

	for _, key := range keys {
		o, inOld := oldRels[key]
		n, inNew := newRels[key]
		switch {
		case inOld && !inNew:
			m.RelationshipDiffs = append(m.RelationshipDiffs, &RelationshipDiff{
				Type:            ChangeDropped,
				Key:             key.String(),
				OldRelationship: o.rel,
			})
		case !inOld && inNew:
			m.RelationshipDiffs = append(m.RelationshipDiffs, &RelationshipDiff{
				Type:            ChangeAdded,
				Key:             key.String(),
				NewRelationship: n.rel,
			})
		default:
			if diff := d.compare(key, o.rel, n.rel, m); diff != nil {
				m.RelationshipDiffs = append(m.RelationshipDiffs, diff)
			}
		}
	}
}

// collapse keys one side's relationships. Relationships are visited in map-key order and a later
// relationship with the same key replaces the earlier one; every replacement is reported.
func (d *RelationshipDiffer) collapse(side, entityName string, rels map[string]*model.RelationshipModel,
	cache map[*model.RelationshipModel]RelationshipKey, m *ModifiedEntity) map[RelationshipKey]keyedRelationship {

	out := make(map[RelationshipKey]keyedRelationship, len(rels))
	for _, mapKey := range utils.SortedKeys(rels) {
		rel := rels[mapKey]
		if rel == nil {
			continue
		}
		key, ok := cache[rel]
		if !ok {
			key = NewRelationshipKey(rel, d.normalizer)
			cache[rel] = key
		}
		if prev, exists := out[key]; exists {
			m.AddDangerousWarning(fmt.Sprintf(
				"Duplicate relationships collapsed by key %s in %s entity '%s': '%s' and '%s'. Second relationship will overwrite the first.",
				key, side, entityName, prev.mapKey, mapKey))
		}
		out[key] = keyedRelationship{key: key, mapKey: mapKey, rel: rel}
	}
	return out
}

// compare diffs two relationships sharing a key. Warnings go straight to the entity; the
// returned diff is nil when no structural or behavioral field changed.
func (d *RelationshipDiffer) compare(key RelationshipKey, old, new *model.RelationshipModel, m *ModifiedEntity) *RelationshipDiff {
	label := relationshipLabel(key, new)
	structural := &changeSet{}
	behavioral := &changeSet{}

	if !d.actionEqual(old.OnDelete, new.OnDelete) {
		structural.add("onDelete", renderEnum(old.OnDelete), renderEnum(new.OnDelete))
		m.AddDangerousWarning(fmt.Sprintf("ON DELETE action changed for relationship %s from %s to %s; foreign key must be dropped and recreated",
			label, renderEnum(old.OnDelete), renderEnum(new.OnDelete)))
	}
	if !d.actionEqual(old.OnUpdate, new.OnUpdate) {
		structural.add("onUpdate", renderEnum(old.OnUpdate), renderEnum(new.OnUpdate))
		m.AddDangerousWarning(fmt.Sprintf("ON UPDATE action changed for relationship %s from %s to %s; foreign key must be dropped and recreated",
			label, renderEnum(old.OnUpdate), renderEnum(new.OnUpdate)))
	}
	if old.MapsID != new.MapsID {
		structural.add("mapsId", old.MapsID, new.MapsID)
		if new.MapsID {
			m.AddDangerousWarning(fmt.Sprintf("@MapsId enabled for relationship %s; primary key composition of table %s changes",
				label, new.TableName))
		}
	}
	if !casefold.EqualPtr(d.normalizer, old.ConstraintName, new.ConstraintName) {
		structural.add("constraintName", renderPtr(old.ConstraintName), renderPtr(new.ConstraintName))
	}
	if old.NoConstraint != new.NoConstraint {
		structural.add("noConstraint", old.NoConstraint, new.NoConstraint)
		if new.NoConstraint {
			m.AddDangerousWarning(fmt.Sprintf("Foreign key constraint disabled (NO_CONSTRAINT) for relationship %s; referential integrity will no longer be enforced by the database",
				label))
		}
	}

	if !d.enumEqual(string(old.FetchType), string(new.FetchType)) {
		behavioral.add("fetchType", renderEnum(old.FetchType), renderEnum(new.FetchType))
		m.AddWarning(fmt.Sprintf("Fetch strategy changed for relationship %s from %s to %s",
			label, renderEnum(old.FetchType), renderEnum(new.FetchType)))
	}
	if old.OrphanRemoval != new.OrphanRemoval {
		behavioral.add("orphanRemoval", old.OrphanRemoval, new.OrphanRemoval)
		if new.OrphanRemoval {
			m.AddDangerousWarning(fmt.Sprintf("orphanRemoval enabled for relationship %s; child rows removed from the association will be deleted",
				label))
		}
	}
	if added, removed := d.cascadeDelta(old.CascadeTypes, new.CascadeTypes); len(added) > 0 || len(removed) > 0 {
		behavioral.add("cascadeTypes", renderList(utils.SortedCopy(old.CascadeTypes)), renderList(utils.SortedCopy(new.CascadeTypes)))
		var parts []string
		if len(added) > 0 {
			parts = append(parts, "added "+renderList(added))
		}
		if len(removed) > 0 {
			parts = append(parts, "removed "+renderList(removed))
		}
		m.AddWarning(fmt.Sprintf("Cascade types changed for relationship %s: %s", label, strings.Join(parts, ", ")))
	}

	// Fields below only warn; they carry no physical foreign key or mapping semantics of their own.
	if old.MapsID && new.MapsID {
		if !equalStringMaps(old.MapsIDBindings, new.MapsIDBindings) {
			m.AddDangerousWarning(fmt.Sprintf("@MapsId bindings changed for relationship %s from %s to %s",
				label, renderMap(old.MapsIDBindings), renderMap(new.MapsIDBindings)))
		}
		if !equalPtr(old.MapsIDKeyPath, new.MapsIDKeyPath) {
			m.AddDangerousWarning(fmt.Sprintf("@MapsId key path changed for relationship %s from %s to %s",
				label, renderPtr(old.MapsIDKeyPath), renderPtr(new.MapsIDKeyPath)))
		}
	}
	if old.Type != new.Type {
		m.AddWarning(fmt.Sprintf("Relationship type changed for %s from %s to %s; uniqueness of the join columns may change",
			label, renderEnum(old.Type), renderEnum(new.Type)))
	}

	if structural.empty() && behavioral.empty() {
		return nil
	}

	var sections []string
	if !structural.empty() {
		sections = append(sections, structuralSection+" "+structural.join(fieldSeparator))
	}
	if !behavioral.empty() {
		sections = append(sections, behavioralSection+" "+behavioral.join(fieldSeparator))
	}

	return &RelationshipDiff{
		Type:            ChangeModified,
		Key:             key.String(),
		OldRelationship: old,
		NewRelationship: new,
		ChangeDetail:    strings.Join(sections, sectionSeparator),
		RequiresDropAdd: !structural.empty(),
	}
}

// enumEqual compares two optional enumeration values, folding present values
func (d *RelationshipDiffer) enumEqual(a, b string) bool {
	if a == "" || b == "" {
		return a == b
	}
	return casefold.Equal(d.normalizer, a, b)
}

// actionEqual compares referential actions. An absent action is the database default, NO_ACTION.
func (d *RelationshipDiffer) actionEqual(a, b model.OnDeleteAction) bool {
	if a == "" {
		a = model.ActionNoAction
	}
	if b == "" {
		b = model.ActionNoAction
	}
	return d.enumEqual(string(a), string(b))
}

// cascadeDelta compares cascade sets after folding and returns the members added and removed
func (d *RelationshipDiffer) cascadeDelta(old, new []model.CascadeType) (added, removed []string) {
	fold := func(values []model.CascadeType) []string {
		out := make([]string, len(values))
		for i, v := range values {
			out[i] = d.normalizer.Normalize(string(v))
		}
		return out
	}
	oldSet, newSet := fold(old), fold(new)
	return utils.SetDifference(newSet, oldSet), utils.SetDifference(oldSet, newSet)
}

func relationshipsOf(e *model.EntityModel) map[string]*model.RelationshipModel {
	if e == nil {
		return nil
	}
	return e.Relationships
}

func entityLabel(e *model.EntityModel, fallback string) string {
	if e != nil && e.EntityName != "" {
		return e.EntityName
	}
	return fallback
}

func relationshipLabel(key RelationshipKey, rel *model.RelationshipModel) string {
	if rel.SourceAttributeName != "" {
		return fmt.Sprintf("'%s' [%s]", rel.SourceAttributeName, key)
	}
	return key.String()
}
