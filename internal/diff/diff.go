package diff

import (
	"github.com/entitydiff/entitydiff/internal/casefold"
	"github.com/entitydiff/entitydiff/internal/logger"
	"github.com/entitydiff/entitydiff/internal/model"
)

// SchemaDiffer runs the comparison pipeline: tables, then entity internals, then sequences,
// then table generators. Downstream consumers rely on table-level renames being resolved
// before column-level diffs are interpreted, so the order is part of the contract.
type SchemaDiffer struct {
	stages []Differ
}

// Option configures a SchemaDiffer
type Option func(*config)

type config struct {
	columnStrategy ColumnStrategy
	normalizer     casefold.Normalizer
	checkEqual     CheckClauseComparer
}

// WithColumnStrategy selects the column rename policy
func WithColumnStrategy(strategy ColumnStrategy) Option {
	return func(c *config) {
		c.columnStrategy = strategy
	}
}

// WithCaseNormalizer sets the identifier folding used for relationship matching
func WithCaseNormalizer(n casefold.Normalizer) Option {
	return func(c *config) {
		if n != nil {
			c.normalizer = n
		}
	}
}

// WithCheckClauseComparer sets how CHECK constraint clauses are compared
func WithCheckClauseComparer(fn CheckClauseComparer) Option {
	return func(c *config) {
		c.checkEqual = fn
	}
}

// NewSchemaDiffer builds the standard pipeline
func NewSchemaDiffer(opts ...Option) *SchemaDiffer {
	cfg := &config{
		columnStrategy: ColumnStrategyRenameAware,
		normalizer:     casefold.Lower,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	entityDiffer := NewEntityModificationDiffer(
		NewColumnDifferWithStrategy(cfg.columnStrategy),
		NewIndexDiffer(),
		NewConstraintDiffer(cfg.checkEqual),
		NewRelationshipDiffer(cfg.normalizer),
	)

	return NewSchemaDifferWithStages(
		NewTableDiffer(),
		entityDiffer,
		NewSequenceDiffer(),
		NewTableGeneratorDiffer(),
	)
}

// NewSchemaDifferWithStages builds a pipeline from explicit stages, run in the given order
func NewSchemaDifferWithStages(stages ...Differ) *SchemaDiffer {
	return &SchemaDiffer{stages: stages}
}

// Diff compares two snapshots. A nil snapshot is treated as empty. The engine never fails:
// data-quality problems surface as warnings in the result.
func (d *SchemaDiffer) Diff(old, new *model.SchemaModel) *DiffResult {
	if old == nil {
		old = model.NewSchemaModel("")
	}
	if new == nil {
		new = model.NewSchemaModel("")
	}

	log := logger.Get()
	log.Debug("Diffing schema snapshots", "old_version", old.Version, "new_version", new.Version,
		"old_entities", len(old.Entities), "new_entities", len(new.Entities))

	result := NewDiffResult()
	for _, stage := range d.stages {
		stage.Diff(old, new, result)
	}

	log.Debug("Schema diff complete",
		"added_tables", len(result.AddedTables),
		"dropped_tables", len(result.DroppedTables),
		"renamed_tables", len(result.RenamedTables),
		"modified_tables", len(result.ModifiedTables),
		"sequence_diffs", len(result.SequenceDiffs),
		"table_generator_diffs", len(result.TableGeneratorDiffs))

	return result
}

// Diff compares two snapshots with the default pipeline
func Diff(old, new *model.SchemaModel, opts ...Option) *DiffResult {
	return NewSchemaDiffer(opts...).Diff(old, new)
}
