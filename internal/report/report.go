// Package report renders a diff result for people (colored text) and machines (JSON).
package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/entitydiff/entitydiff/internal/color"
	"github.com/entitydiff/entitydiff/internal/diff"
	"github.com/entitydiff/entitydiff/internal/model"
	"github.com/entitydiff/entitydiff/internal/utils"
	"github.com/entitydiff/entitydiff/internal/version"
)

// formatVersion is the version of the JSON document layout
const formatVersion = "1.0.0"

// Report is the presentation of one comparison between two snapshots
type Report struct {
	Diff       *diff.DiffResult
	OldVersion string
	NewVersion string
	CreatedAt  time.Time
}

// ReportJSON represents the structured JSON output format
type ReportJSON struct {
	Version           string           `json:"version"`
	EntitydiffVersion string           `json:"entitydiff_version"`
	CreatedAt         time.Time        `json:"created_at"`
	OldVersion        string           `json:"old_version"`
	NewVersion        string           `json:"new_version"`
	Summary           Summary          `json:"summary"`
	Dangerous         bool             `json:"dangerous"`
	Warnings          []string         `json:"warnings"`
	Diff              *diff.DiffResult `json:"diff"`
}

// Summary provides counts of changes by type
type Summary struct {
	Added    int                    `json:"added"`
	Modified int                    `json:"modified"`
	Renamed  int                    `json:"renamed"`
	Dropped  int                    `json:"dropped"`
	Total    int                    `json:"total"`
	ByType   map[string]TypeSummary `json:"by_type"`
}

// TypeSummary provides counts for a specific object type
type TypeSummary struct {
	Added    int `json:"added"`
	Modified int `json:"modified"`
	Renamed  int `json:"renamed"`
	Dropped  int `json:"dropped"`
}

func (t TypeSummary) total() int {
	return t.Added + t.Modified + t.Renamed + t.Dropped
}

func (t *TypeSummary) count(ct diff.ChangeType) {
	switch ct {
	case diff.ChangeAdded:
		t.Added++
	case diff.ChangeModified:
		t.Modified++
	case diff.ChangeRenamed:
		t.Renamed++
	case diff.ChangeDropped:
		t.Dropped++
	}
}

// ObjectType names a kind of diffed object
type ObjectType string

const (
	ObjectTypeEntity         ObjectType = "entities"
	ObjectTypeColumn         ObjectType = "columns"
	ObjectTypeIndex          ObjectType = "indexes"
	ObjectTypeConstraint     ObjectType = "constraints"
	ObjectTypeRelationship   ObjectType = "relationships"
	ObjectTypeSequence       ObjectType = "sequences"
	ObjectTypeTableGenerator ObjectType = "table_generators"
)

// objectOrder is the display order of object types, matching pipeline order
var objectOrder = []ObjectType{
	ObjectTypeEntity,
	ObjectTypeColumn,
	ObjectTypeIndex,
	ObjectTypeConstraint,
	ObjectTypeRelationship,
	ObjectTypeSequence,
	ObjectTypeTableGenerator,
}

// NewReport wraps a diff result
func NewReport(result *diff.DiffResult, oldVersion, newVersion string) *Report {
	if result == nil {
		result = diff.NewDiffResult()
	}
	return &Report{
		Diff:       result,
		OldVersion: oldVersion,
		NewVersion: newVersion,
		CreatedAt:  time.Now(),
	}
}

// Summary counts the changes of the report
func (r *Report) Summary() Summary {
	s := Summary{ByType: make(map[string]TypeSummary)}
	add := func(t ObjectType, ct diff.ChangeType) {
		ts := s.ByType[string(t)]
		ts.count(ct)
		s.ByType[string(t)] = ts
	}

	d := r.Diff
	for range d.AddedTables {
		add(ObjectTypeEntity, diff.ChangeAdded)
	}
	for range d.DroppedTables {
		add(ObjectTypeEntity, diff.ChangeDropped)
	}
	for range d.RenamedTables {
		add(ObjectTypeEntity, diff.ChangeRenamed)
	}
	for _, m := range d.ModifiedTables {
		add(ObjectTypeEntity, diff.ChangeModified)
		for _, c := range m.ColumnDiffs {
			add(ObjectTypeColumn, c.Type)
		}
		for _, i := range m.IndexDiffs {
			add(ObjectTypeIndex, i.Type)
		}
		for _, c := range m.ConstraintDiffs {
			add(ObjectTypeConstraint, c.Type)
		}
		for _, rd := range m.RelationshipDiffs {
			add(ObjectTypeRelationship, rd.Type)
		}
	}
	for _, sd := range d.SequenceDiffs {
		add(ObjectTypeSequence, sd.Type)
	}
	for _, gd := range d.TableGeneratorDiffs {
		add(ObjectTypeTableGenerator, gd.Type)
	}

	for _, ts := range s.ByType {
		s.Added += ts.Added
		s.Modified += ts.Modified
		s.Renamed += ts.Renamed
		s.Dropped += ts.Dropped
	}
	s.Total = s.Added + s.Modified + s.Renamed + s.Dropped
	return s
}

// ToJSON returns the report as an indented JSON document
func (r *Report) ToJSON() (string, error) {
	warnings := r.Diff.Warnings()
	if warnings == nil {
		warnings = []string{}
	}
	doc := ReportJSON{
		Version:           formatVersion,
		EntitydiffVersion: version.Version(),
		CreatedAt:         r.CreatedAt,
		OldVersion:        r.OldVersion,
		NewVersion:        r.NewVersion,
		Summary:           r.Summary(),
		Dangerous:         r.Diff.HasDangerousChanges(),
		Warnings:          warnings,
		Diff:              r.Diff,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report to JSON: %w", err)
	}
	return string(data), nil
}

// HumanColored returns a human-readable summary of the report with color support
func (r *Report) HumanColored(enableColor bool) string {
	c := color.New(enableColor)
	var out strings.Builder

	summary := r.Summary()
	warnings := r.Diff.Warnings()

	if r.OldVersion != "" || r.NewVersion != "" {
		out.WriteString(c.Bold(fmt.Sprintf("Comparing %s -> %s", displayVersion(r.OldVersion), displayVersion(r.NewVersion))) + "\n\n")
	}

	if summary.Total == 0 && len(warnings) == 0 {
		out.WriteString("No changes detected.\n")
		return out.String()
	}

	out.WriteString(c.FormatHeader(summary.Added, summary.Modified, summary.Renamed, summary.Dropped) + "\n\n")

	out.WriteString(c.Bold("Summary by type:") + "\n")
	for _, objType := range objectOrder {
		if ts, ok := summary.ByType[string(objType)]; ok && ts.total() > 0 {
			out.WriteString(c.FormatSummaryLine(string(objType), ts.Added, ts.Modified, ts.Renamed, ts.Dropped) + "\n")
		}
	}
	out.WriteString("\n")

	r.writeEntities(&out, c)
	r.writeGenerators(&out, c)

	if len(warnings) > 0 {
		out.WriteString(c.Bold("Warnings:") + "\n")
		for _, w := range warnings {
			out.WriteString("  " + c.Warn("!") + " " + w + "\n")
		}
		out.WriteString("\n")
	}

	return out.String()
}

func (r *Report) writeEntities(out *strings.Builder, c *color.Color) {
	d := r.Diff
	if len(d.AddedTables)+len(d.DroppedTables)+len(d.RenamedTables)+len(d.ModifiedTables) == 0 {
		return
	}

	out.WriteString(c.Bold("Entities:") + "\n")
	for _, e := range d.AddedTables {
		out.WriteString(fmt.Sprintf("  %s %s (%s)\n", c.Symbol(string(diff.ChangeAdded)), e.EntityName, tableOf(e)))
	}
	for _, e := range d.DroppedTables {
		out.WriteString(fmt.Sprintf("  %s %s (%s)\n", c.Symbol(string(diff.ChangeDropped)), e.EntityName, tableOf(e)))
	}
	for _, rt := range d.RenamedTables {
		out.WriteString(fmt.Sprintf("  %s %s -> %s (%s -> %s)\n", c.Symbol(string(diff.ChangeRenamed)),
			rt.Old.EntityName, rt.New.EntityName, tableOf(rt.Old), tableOf(rt.New)))
	}
	for _, m := range d.ModifiedTables {
		out.WriteString(fmt.Sprintf("  %s %s\n", c.Symbol(string(diff.ChangeModified)), m.EntityName))
		for _, cd := range m.ColumnDiffs {
			writeEntry(out, c, cd.Type, "column", cd.ColumnName, cd.ChangeDetail)
		}
		for _, id := range m.IndexDiffs {
			writeEntry(out, c, id.Type, "index", id.IndexName, id.ChangeDetail)
		}
		for _, cd := range m.ConstraintDiffs {
			writeEntry(out, c, cd.Type, "constraint", cd.ConstraintName, cd.ChangeDetail)
		}
		for _, rd := range m.RelationshipDiffs {
			detail := rd.ChangeDetail
			if rd.RequiresDropAdd {
				detail += " " + c.Destroy("(foreign key must be recreated)")
			}
			writeEntry(out, c, rd.Type, "relationship", rd.Key, detail)
		}
	}
	out.WriteString("\n")
}

func (r *Report) writeGenerators(out *strings.Builder, c *color.Color) {
	if len(r.Diff.SequenceDiffs) > 0 {
		out.WriteString(c.Bold("Sequences:") + "\n")
		for _, sd := range r.Diff.SequenceDiffs {
			writeTopLevel(out, c, sd.Type, sd.Name, sd.ChangeDetail)
		}
		out.WriteString("\n")
	}
	if len(r.Diff.TableGeneratorDiffs) > 0 {
		out.WriteString(c.Bold("Table generators:") + "\n")
		for _, gd := range r.Diff.TableGeneratorDiffs {
			writeTopLevel(out, c, gd.Type, gd.Name, gd.ChangeDetail)
		}
		out.WriteString("\n")
	}
}

func writeEntry(out *strings.Builder, c *color.Color, ct diff.ChangeType, kind, name, detail string) {
	line := fmt.Sprintf("      %s %s %s", c.Symbol(string(ct)), kind, name)
	if detail != "" {
		line += ": " + detail
	}
	out.WriteString(line + "\n")
}

func writeTopLevel(out *strings.Builder, c *color.Color, ct diff.ChangeType, name, detail string) {
	line := fmt.Sprintf("  %s %s", c.Symbol(string(ct)), name)
	if detail != "" {
		line += ": " + detail
	}
	out.WriteString(line + "\n")
}

func tableOf(e *model.EntityModel) string {
	return utils.QualifiedTableName(e.Catalog, e.Schema, e.TableName)
}

func displayVersion(v string) string {
	if v == "" {
		return "(unversioned)"
	}
	return v
}
