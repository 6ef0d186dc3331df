package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/entitydiff/entitydiff/internal/fingerprint"
	"github.com/entitydiff/entitydiff/internal/loader"
	"github.com/entitydiff/entitydiff/internal/model"
)

// SnapshotRecord describes a stored snapshot without its document
type SnapshotRecord struct {
	Version     string
	Fingerprint string
	EntityCount int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Save stores a snapshot under its version label, replacing an earlier snapshot with the same
// label.
func (s *Store) Save(ctx context.Context, schema *model.SchemaModel) (*SnapshotRecord, error) {
	if schema == nil || schema.Version == "" {
		return nil, ErrMissingVersion
	}

	fp, err := fingerprint.ComputeFingerprint(schema)
	if err != nil {
		return nil, fmt.Errorf("fingerprint snapshot %q: %w", schema.Version, err)
	}
	data, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot %q: %w", schema.Version, err)
	}

	rec := &SnapshotRecord{
		Version:     schema.Version,
		Fingerprint: fp.Hash,
		EntityCount: len(schema.Entities),
	}
	err = s.pool.QueryRow(ctx, `
		INSERT INTO entitydiff_snapshots (version, fingerprint, entity_count, data)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (version) DO UPDATE SET
			fingerprint = EXCLUDED.fingerprint,
			entity_count = EXCLUDED.entity_count,
			data = EXCLUDED.data,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`, rec.Version, rec.Fingerprint, rec.EntityCount, data).Scan(&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert snapshot %q: %w", schema.Version, err)
	}
	return rec, nil
}

// Load returns the snapshot stored under version
func (s *Store) Load(ctx context.Context, version string) (*model.SchemaModel, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM entitydiff_snapshots WHERE version = $1`, version).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, version)
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot %q: %w", version, err)
	}

	schema, err := loader.Decode(data, loader.FormatJSON)
	if err != nil {
		return nil, fmt.Errorf("decode snapshot %q: %w", version, err)
	}
	return schema, nil
}

// List returns all stored snapshots, oldest first
func (s *Store) List(ctx context.Context) ([]SnapshotRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT version, fingerprint, entity_count, created_at, updated_at
		FROM entitydiff_snapshots
		ORDER BY created_at, version`)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var records []SnapshotRecord
	for rows.Next() {
		var rec SnapshotRecord
		if err := rows.Scan(&rec.Version, &rec.Fingerprint, &rec.EntityCount, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return records, nil
}

// Delete removes the snapshot stored under version
func (s *Store) Delete(ctx context.Context, version string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM entitydiff_snapshots WHERE version = $1`, version)
	if err != nil {
		return fmt.Errorf("delete snapshot %q: %w", version, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrSnapshotNotFound, version)
	}
	return nil
}
