package fingerprint

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/entitydiff/entitydiff/internal/model"
)

// SchemaFingerprint represents a fingerprint of a whole schema snapshot
type SchemaFingerprint struct {
	Hash string `json:"hash"` // SHA256 of the snapshot content, version tag excluded
}

// ComputeFingerprint generates a fingerprint for a snapshot. The version tag is left out
// so that two snapshots with identical content but different labels hash the same.
func ComputeFingerprint(schema *model.SchemaModel) (*SchemaFingerprint, error) {
	if schema == nil {
		schema = model.NewSchemaModel("")
	}
	content := struct {
		Entities        map[string]*model.EntityModel         `json:"entities"`
		Sequences       map[string]*model.SequenceModel       `json:"sequences"`
		TableGenerators map[string]*model.TableGeneratorModel `json:"tableGenerators"`
	}{schema.Entities, schema.Sequences, schema.TableGenerators}

	hash, err := hashObject(content)
	if err != nil {
		return nil, fmt.Errorf("failed to compute schema hash: %w", err)
	}

	return &SchemaFingerprint{
		Hash: hash,
	}, nil
}

// columnEssentials is the part of a column that identifies a table's shape
type columnEssentials struct {
	Name       string `json:"n"`
	Type       string `json:"t"`
	Nullable   bool   `json:"nl"`
	PrimaryKey bool   `json:"pk"`
}

// EntityFingerprint hashes the essential attributes of an entity's columns (name, type,
// nullability, primary-key flag). Entity and table names do not contribute, so a relabeled
// table keeps its fingerprint. An entity without columns yields the empty string.
func EntityFingerprint(entity *model.EntityModel) string {
	if entity == nil || len(entity.Columns) == 0 {
		return ""
	}

	essentials := make([]columnEssentials, 0, len(entity.Columns))
	for _, col := range entity.Columns {
		if col == nil {
			continue
		}
		essentials = append(essentials, columnEssentials{
			Name:       col.ColumnName,
			Type:       col.JavaType,
			Nullable:   col.Nullable,
			PrimaryKey: col.PrimaryKey,
		})
	}
	if len(essentials) == 0 {
		return ""
	}
	sort.Slice(essentials, func(i, j int) bool {
		return essentials[i].Name < essentials[j].Name
	})

	hash, err := hashObject(essentials)
	if err != nil {
		return ""
	}
	return hash
}

// hashObject computes a SHA256 hash of any object
func hashObject(obj interface{}) (string, error) {
	data, err := json.Marshal(obj)
	if err != nil {
		return "", err
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash), nil
}

// String returns a human-readable representation of the fingerprint
func (f *SchemaFingerprint) String() string {
	if len(f.Hash) >= 8 {
		return fmt.Sprintf("Schema fingerprint: %s", f.Hash[:8])
	}
	return fmt.Sprintf("Schema fingerprint: %s", f.Hash)
}
