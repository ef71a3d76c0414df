// Package store defines the narrow document-store interface the rest of the
// system writes through, plus the Postgres and in-memory implementations.
// Semantics follow the remote store contract: per-document atomicity is the
// only ordering guarantee, ids and creation timestamps are assigned by the
// store, and merge updates are all-or-nothing.
package store

import (
	"context"
	"time"
)

// Collection names used by the CareHub core.
const (
	CollectionUsers        = "users"
	CollectionAppointments = "appointments"
	CollectionRequests     = "requests"
	CollectionCredentials  = "credentials"
)

// Fields holds a document's payload.
type Fields map[string]interface{}

// Document is a stored record with its store-assigned metadata.
type Document struct {
	ID        string    `json:"id"`
	Fields    Fields    `json:"fields"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DocumentStore is the write-through interface over the remote document
// store. Implementations must guarantee per-document atomicity: a reader
// never observes a partially applied SetDocument or UpdateDocument.
type DocumentStore interface {
	// GetDocument fetches one document, or shared.ErrNotFound.
	GetDocument(ctx context.Context, collection, id string) (*Document, error)

	// SetDocument replaces the document's fields wholesale, creating the
	// document if it does not exist.
	SetDocument(ctx context.Context, collection, id string, fields Fields) error

	// UpdateDocument atomically merges partial into an existing document's
	// fields. Returns shared.ErrNotFound for a missing document.
	UpdateDocument(ctx context.Context, collection, id string, partial Fields) error

	// AddDocument creates a new document with a store-generated id and
	// creation timestamp, returning the id. Create-only: it never
	// overwrites.
	AddDocument(ctx context.Context, collection string, fields Fields) (string, error)

	// QueryDocuments returns documents whose fields contain every key/value
	// pair in filter (pass nil for all), newest first, with the total count
	// before limit/offset.
	QueryDocuments(ctx context.Context, collection string, filter Fields, limit, offset int) ([]*Document, int, error)
}

// clone copies a Fields map one level deep so callers cannot mutate stored
// state through a retained reference.
func clone(f Fields) Fields {
	if f == nil {
		return Fields{}
	}
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}
