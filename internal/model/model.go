package model

import "github.com/entitydiff/entitydiff/internal/utils"

// SchemaModel is one snapshot of the persistence schema. A snapshot is built once by the
// extraction front end and is never mutated by the diff engine.
type SchemaModel struct {
	Version         string                          `json:"version" yaml:"version"`
	Entities        map[string]*EntityModel         `json:"entities,omitempty" yaml:"entities,omitempty"`
	Sequences       map[string]*SequenceModel       `json:"sequences,omitempty" yaml:"sequences,omitempty"`
	TableGenerators map[string]*TableGeneratorModel `json:"tableGenerators,omitempty" yaml:"tableGenerators,omitempty"`
}

// TableType describes how an entity's table came into existence
type TableType string

const (
	TableTypeEntity          TableType = "ENTITY"
	TableTypeCollectionTable TableType = "COLLECTION_TABLE"
	TableTypeJoinTable       TableType = "JOIN_TABLE"
)

// EntityModel is a mapped entity and the table that backs it
type EntityModel struct {
	EntityName      string                        `json:"entityName" yaml:"entityName"`
	TableName       string                        `json:"tableName" yaml:"tableName"`
	Schema          *string                       `json:"schema,omitempty" yaml:"schema,omitempty"`
	Catalog         *string                       `json:"catalog,omitempty" yaml:"catalog,omitempty"`
	TableType       TableType                     `json:"tableType,omitempty" yaml:"tableType,omitempty"`
	Columns         map[string]*ColumnModel       `json:"columns,omitempty" yaml:"columns,omitempty"`
	Constraints     map[string]*ConstraintModel   `json:"constraints,omitempty" yaml:"constraints,omitempty"`
	Indexes         map[string]*IndexModel        `json:"indexes,omitempty" yaml:"indexes,omitempty"`
	Relationships   map[string]*RelationshipModel `json:"relationships,omitempty" yaml:"relationships,omitempty"`
	SecondaryTables []SecondaryTable              `json:"secondaryTables,omitempty" yaml:"secondaryTables,omitempty"`
}

// SecondaryTable is an additional table an entity spreads its columns over
type SecondaryTable struct {
	Name          string   `json:"name" yaml:"name"`
	Schema        *string  `json:"schema,omitempty" yaml:"schema,omitempty"`
	Catalog       *string  `json:"catalog,omitempty" yaml:"catalog,omitempty"`
	PKJoinColumns []string `json:"pkJoinColumns,omitempty" yaml:"pkJoinColumns,omitempty"`
}

// TemporalType is the temporal precision of a date/time column
type TemporalType string

const (
	TemporalDate      TemporalType = "DATE"
	TemporalTime      TemporalType = "TIME"
	TemporalTimestamp TemporalType = "TIMESTAMP"
)

// GenerationStrategy is how a primary key value is produced
type GenerationStrategy string

const (
	GenerationNone     GenerationStrategy = ""
	GenerationAuto     GenerationStrategy = "AUTO"
	GenerationIdentity GenerationStrategy = "IDENTITY"
	GenerationSequence GenerationStrategy = "SEQUENCE"
	GenerationTable    GenerationStrategy = "TABLE"
	GenerationUUID     GenerationStrategy = "UUID"
)

// FetchType is the loading strategy of a column or association
type FetchType string

const (
	FetchLazy  FetchType = "LAZY"
	FetchEager FetchType = "EAGER"
)

// ColumnModel is a single mapped column
type ColumnModel struct {
	ColumnName         string             `json:"columnName" yaml:"columnName"`
	TableName          string             `json:"tableName,omitempty" yaml:"tableName,omitempty"`
	JavaType           string             `json:"javaType" yaml:"javaType"`
	Nullable           bool               `json:"nullable" yaml:"nullable"`
	PrimaryKey         bool               `json:"primaryKey,omitempty" yaml:"primaryKey,omitempty"`
	Length             int                `json:"length,omitempty" yaml:"length,omitempty"`
	Precision          int                `json:"precision,omitempty" yaml:"precision,omitempty"`
	Scale              int                `json:"scale,omitempty" yaml:"scale,omitempty"`
	DefaultValue       *string            `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
	Comment            *string            `json:"comment,omitempty" yaml:"comment,omitempty"`
	EnumValues         []string           `json:"enumValues,omitempty" yaml:"enumValues,omitempty"`
	EnumStringMapping  bool               `json:"enumStringMapping,omitempty" yaml:"enumStringMapping,omitempty"`
	TemporalType       TemporalType       `json:"temporalType,omitempty" yaml:"temporalType,omitempty"`
	Lob                bool               `json:"lob,omitempty" yaml:"lob,omitempty"`
	GenerationStrategy GenerationStrategy `json:"generationStrategy,omitempty" yaml:"generationStrategy,omitempty"`
	ConversionClass    *string            `json:"conversionClass,omitempty" yaml:"conversionClass,omitempty"`
	FetchType          FetchType          `json:"fetchType,omitempty" yaml:"fetchType,omitempty"`
	MapKey             bool               `json:"mapKey,omitempty" yaml:"mapKey,omitempty"`
}

// ConstraintType is the kind of a table constraint
type ConstraintType string

const (
	ConstraintPrimaryKey    ConstraintType = "PRIMARY_KEY"
	ConstraintUnique        ConstraintType = "UNIQUE"
	ConstraintIndex         ConstraintType = "INDEX"
	ConstraintCheck         ConstraintType = "CHECK"
	ConstraintNotNull       ConstraintType = "NOT_NULL"
	ConstraintDefault       ConstraintType = "DEFAULT"
	ConstraintAutoIncrement ConstraintType = "AUTO_INCREMENT"
	ConstraintForeignKey    ConstraintType = "FOREIGN_KEY"
)

// OnDeleteAction is a referential action for ON DELETE / ON UPDATE
type OnDeleteAction string

const (
	ActionNoAction   OnDeleteAction = "NO_ACTION"
	ActionCascade    OnDeleteAction = "CASCADE"
	ActionSetNull    OnDeleteAction = "SET_NULL"
	ActionSetDefault OnDeleteAction = "SET_DEFAULT"
	ActionRestrict   OnDeleteAction = "RESTRICT"
)

// ConstraintModel is a named table constraint. Column order is kept for display only.
type ConstraintModel struct {
	Name        string         `json:"name" yaml:"name"`
	TableName   string         `json:"tableName,omitempty" yaml:"tableName,omitempty"`
	Type        ConstraintType `json:"type" yaml:"type"`
	Columns     []string       `json:"columns,omitempty" yaml:"columns,omitempty"`
	CheckClause *string        `json:"checkClause,omitempty" yaml:"checkClause,omitempty"`
	Options     *string        `json:"options,omitempty" yaml:"options,omitempty"`
	OnDelete    OnDeleteAction `json:"onDelete,omitempty" yaml:"onDelete,omitempty"`
	OnUpdate    OnDeleteAction `json:"onUpdate,omitempty" yaml:"onUpdate,omitempty"`
}

// IndexModel is a named index. Column order is significant.
type IndexModel struct {
	IndexName string   `json:"indexName" yaml:"indexName"`
	TableName string   `json:"tableName,omitempty" yaml:"tableName,omitempty"`
	Columns   []string `json:"columns,omitempty" yaml:"columns,omitempty"`
	Unique    bool     `json:"unique,omitempty" yaml:"unique,omitempty"`
}

// RelationshipType is the association kind
type RelationshipType string

const (
	ManyToOne  RelationshipType = "MANY_TO_ONE"
	OneToOne   RelationshipType = "ONE_TO_ONE"
	OneToMany  RelationshipType = "ONE_TO_MANY"
	ManyToMany RelationshipType = "MANY_TO_MANY"
)

// CascadeType is a persistence operation propagated across an association
type CascadeType string

const (
	CascadeAll     CascadeType = "ALL"
	CascadePersist CascadeType = "PERSIST"
	CascadeMerge   CascadeType = "MERGE"
	CascadeRemove  CascadeType = "REMOVE"
	CascadeRefresh CascadeType = "REFRESH"
	CascadeDetach  CascadeType = "DETACH"
)

// RelationshipModel is a foreign-key backed association
type RelationshipModel struct {
	Type                RelationshipType  `json:"type" yaml:"type"`
	TableName           string            `json:"tableName" yaml:"tableName"`
	Columns             []string          `json:"columns" yaml:"columns"`
	ReferencedTable     string            `json:"referencedTable" yaml:"referencedTable"`
	ReferencedColumns   []string          `json:"referencedColumns" yaml:"referencedColumns"`
	ConstraintName      *string           `json:"constraintName,omitempty" yaml:"constraintName,omitempty"`
	SourceAttributeName string            `json:"sourceAttributeName,omitempty" yaml:"sourceAttributeName,omitempty"`
	FetchType           FetchType         `json:"fetchType,omitempty" yaml:"fetchType,omitempty"`
	CascadeTypes        []CascadeType     `json:"cascadeTypes,omitempty" yaml:"cascadeTypes,omitempty"`
	OrphanRemoval       bool              `json:"orphanRemoval,omitempty" yaml:"orphanRemoval,omitempty"`
	MapsID              bool              `json:"mapsId,omitempty" yaml:"mapsId,omitempty"`
	MapsIDKeyPath       *string           `json:"mapsIdKeyPath,omitempty" yaml:"mapsIdKeyPath,omitempty"`
	MapsIDBindings      map[string]string `json:"mapsIdBindings,omitempty" yaml:"mapsIdBindings,omitempty"`
	OnDelete            OnDeleteAction    `json:"onDelete,omitempty" yaml:"onDelete,omitempty"`
	OnUpdate            OnDeleteAction    `json:"onUpdate,omitempty" yaml:"onUpdate,omitempty"`
	NoConstraint        bool              `json:"noConstraint,omitempty" yaml:"noConstraint,omitempty"`
}

// SequenceModel is a sequence generator definition
type SequenceModel struct {
	Name           string  `json:"name" yaml:"name"`
	SequenceName   string  `json:"sequenceName,omitempty" yaml:"sequenceName,omitempty"`
	InitialValue   int     `json:"initialValue" yaml:"initialValue"`
	AllocationSize int     `json:"allocationSize" yaml:"allocationSize"`
	Schema         *string `json:"schema,omitempty" yaml:"schema,omitempty"`
	Catalog        *string `json:"catalog,omitempty" yaml:"catalog,omitempty"`
}

// TableGeneratorModel is a table-backed id generator definition
type TableGeneratorModel struct {
	Name            string  `json:"name" yaml:"name"`
	Table           string  `json:"table,omitempty" yaml:"table,omitempty"`
	Schema          *string `json:"schema,omitempty" yaml:"schema,omitempty"`
	Catalog         *string `json:"catalog,omitempty" yaml:"catalog,omitempty"`
	PkColumnName    string  `json:"pkColumnName,omitempty" yaml:"pkColumnName,omitempty"`
	PkColumnValue   string  `json:"pkColumnValue,omitempty" yaml:"pkColumnValue,omitempty"`
	ValueColumnName string  `json:"valueColumnName,omitempty" yaml:"valueColumnName,omitempty"`
	InitialValue    int     `json:"initialValue" yaml:"initialValue"`
	AllocationSize  int     `json:"allocationSize" yaml:"allocationSize"`
}

// NewSchemaModel returns an empty snapshot with all maps allocated
func NewSchemaModel(version string) *SchemaModel {
	return &SchemaModel{
		Version:         version,
		Entities:        make(map[string]*EntityModel),
		Sequences:       make(map[string]*SequenceModel),
		TableGenerators: make(map[string]*TableGeneratorModel),
	}
}

// EntityNames returns the entity keys in sorted order
func (s *SchemaModel) EntityNames() []string {
	if s == nil {
		return nil
	}
	return utils.SortedKeys(s.Entities)
}

// Entity returns the entity stored under name, or nil
func (s *SchemaModel) Entity(name string) *EntityModel {
	if s == nil {
		return nil
	}
	return s.Entities[name]
}

// OwnsTable reports whether table is the entity's primary table or one of its secondary tables
func (e *EntityModel) OwnsTable(table string) bool {
	if table == "" || table == e.TableName {
		return true
	}
	for _, st := range e.SecondaryTables {
		if st.Name == table {
			return true
		}
	}
	return false
}

// Ptr returns a pointer to v. Handy for building optional fields.
func Ptr[T any](v T) *T {
	return &v
}
