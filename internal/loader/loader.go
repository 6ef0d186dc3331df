// Package loader reads schema snapshots from JSON or YAML documents.
package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/entitydiff/entitydiff/internal/model"
)

// ErrUnsupportedFormat is returned for snapshot files that are neither JSON nor YAML
var ErrUnsupportedFormat = errors.New("unsupported snapshot format")

// Format is the encoding of a snapshot document
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// LoadFile reads, decodes and validates a snapshot file
func LoadFile(path string) (*model.SchemaModel, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	schema, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return schema, nil
}

// Decode parses a snapshot document, fills in names omitted from map entries, and validates it
func Decode(data []byte, format Format) (*model.SchemaModel, error) {
	var schema model.SchemaModel
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&schema); err != nil {
			return nil, fmt.Errorf("failed to parse snapshot: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&schema); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse snapshot: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	normalize(&schema)
	if err := schema.Validate(); err != nil {
		return nil, fmt.Errorf("invalid snapshot: %w", err)
	}
	return &schema, nil
}

// Encode writes a snapshot in the given format
func Encode(w io.Writer, schema *model.SchemaModel, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(schema)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(schema); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// normalize allocates missing maps and copies map keys into empty name fields, so hand-written
// snapshots may key entries by name without repeating it.
func normalize(s *model.SchemaModel) {
	if s.Entities == nil {
		s.Entities = make(map[string]*model.EntityModel)
	}
	if s.Sequences == nil {
		s.Sequences = make(map[string]*model.SequenceModel)
	}
	if s.TableGenerators == nil {
		s.TableGenerators = make(map[string]*model.TableGeneratorModel)
	}

	for name, e := range s.Entities {
		if e == nil {
			continue
		}
		if e.EntityName == "" {
			e.EntityName = name
		}
		if e.TableType == "" {
			e.TableType = model.TableTypeEntity
		}
		if e.Columns == nil {
			e.Columns = make(map[string]*model.ColumnModel)
		}
		if e.Constraints == nil {
			e.Constraints = make(map[string]*model.ConstraintModel)
		}
		if e.Indexes == nil {
			e.Indexes = make(map[string]*model.IndexModel)
		}
		if e.Relationships == nil {
			e.Relationships = make(map[string]*model.RelationshipModel)
		}
		for key, c := range e.Columns {
			if c != nil && c.ColumnName == "" {
				c.ColumnName = key
			}
		}
		for key, c := range e.Constraints {
			if c != nil && c.Name == "" {
				c.Name = key
			}
		}
		for key, idx := range e.Indexes {
			if idx != nil && idx.IndexName == "" {
				idx.IndexName = key
			}
		}
		for _, r := range e.Relationships {
			if r != nil && r.TableName == "" {
				r.TableName = e.TableName
			}
		}
	}
	for key, seq := range s.Sequences {
		if seq != nil && seq.Name == "" {
			seq.Name = key
		}
	}
	for key, gen := range s.TableGenerators {
		if gen != nil && gen.Name == "" {
			gen.Name = key
		}
	}
}
