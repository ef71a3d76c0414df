package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carehub/carehub/internal/shared"
)

// PostgresStore implements DocumentStore on a single jsonb-backed document
// table. Per-row jsonb replacement and `fields || partial` merges give the
// per-document atomicity the contract requires.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a PostgresStore backed by the given pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) GetDocument(ctx context.Context, collection, id string) (*Document, error) {
	doc := &Document{ID: id}
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT fields, created_at, updated_at FROM document WHERE collection = $1 AND id = $2`,
		collection, id,
	).Scan(&raw, &doc.CreatedAt, &doc.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get document %s/%s: %w", collection, id, err)
	}
	if err := json.Unmarshal(raw, &doc.Fields); err != nil {
		return nil, fmt.Errorf("decode document %s/%s: %w", collection, id, err)
	}
	return doc, nil
}

func (s *PostgresStore) SetDocument(ctx context.Context, collection, id string, fields Fields) error {
	raw, err := json.Marshal(clone(fields))
	if err != nil {
		return fmt.Errorf("encode document %s/%s: %w", collection, id, err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO document (collection, id, fields) VALUES ($1, $2, $3)
		 ON CONFLICT (collection, id) DO UPDATE SET fields = EXCLUDED.fields, updated_at = NOW()`,
		collection, id, raw,
	)
	if err != nil {
		return fmt.Errorf("set document %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *PostgresStore) UpdateDocument(ctx context.Context, collection, id string, partial Fields) error {
	raw, err := json.Marshal(clone(partial))
	if err != nil {
		return fmt.Errorf("encode partial %s/%s: %w", collection, id, err)
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE document SET fields = fields || $3::jsonb, updated_at = NOW()
		 WHERE collection = $1 AND id = $2`,
		collection, id, raw,
	)
	if err != nil {
		return fmt.Errorf("update document %s/%s: %w", collection, id, err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) AddDocument(ctx context.Context, collection string, fields Fields) (string, error) {
	raw, err := json.Marshal(clone(fields))
	if err != nil {
		return "", fmt.Errorf("encode document %s: %w", collection, err)
	}
	id := uuid.NewString()
	_, err = s.pool.Exec(ctx,
		`INSERT INTO document (collection, id, fields) VALUES ($1, $2, $3)`,
		collection, id, raw,
	)
	if err != nil {
		return "", fmt.Errorf("add document %s: %w", collection, err)
	}
	return id, nil
}

func (s *PostgresStore) QueryDocuments(ctx context.Context, collection string, filter Fields, limit, offset int) ([]*Document, int, error) {
	filterRaw, err := json.Marshal(clone(filter))
	if err != nil {
		return nil, 0, fmt.Errorf("encode filter %s: %w", collection, err)
	}

	var total int
	err = s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM document WHERE collection = $1 AND fields @> $2::jsonb`,
		collection, filterRaw,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count documents %s: %w", collection, err)
	}

	// LIMIT NULL means no limit, matching the in-memory store.
	var lim interface{}
	if limit > 0 {
		lim = limit
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, fields, created_at, updated_at FROM document
		 WHERE collection = $1 AND fields @> $2::jsonb
		 ORDER BY created_at DESC LIMIT $3 OFFSET $4`,
		collection, filterRaw, lim, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("query documents %s: %w", collection, err)
	}
	defer rows.Close()

	var docs []*Document
	for rows.Next() {
		doc := &Document{}
		var raw []byte
		if err := rows.Scan(&doc.ID, &raw, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan document %s: %w", collection, err)
		}
		if err := json.Unmarshal(raw, &doc.Fields); err != nil {
			return nil, 0, fmt.Errorf("decode document %s/%s: %w", collection, doc.ID, err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate documents %s: %w", collection, err)
	}
	return docs, total, nil
}
