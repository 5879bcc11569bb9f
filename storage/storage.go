// Package storage persists documents in named collections behind a single
// Adapter interface. Backends live in the kv, mongostore and pgstore
// subpackages and are chosen once at startup.
package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	FieldID        = "_id"
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
)

var (
	ErrNotFound     = errors.New("document not found")
	ErrDuplicateKey = errors.New("duplicate key")
)

// Document is a single JSON-compatible record.
type Document map[string]interface{}

func (d Document) ID() string {
	id, _ := d[FieldID].(string)
	return id
}

// Clone copies the top level of the document.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

type Adapter interface {
	// Create stores doc, assigning _id when missing and stamping timestamps.
	Create(ctx context.Context, collection string, doc Document) (Document, error)
	// Read returns every document matching all conditions of q, oldest first.
	Read(ctx context.Context, collection string, q Query) ([]Document, error)
	// Update merges patch into the document and bumps updatedAt.
	Update(ctx context.Context, collection, id string, patch Document) (Document, error)
	Delete(ctx context.Context, collection, id string) error
	Close(ctx context.Context) error
}

// PrepareCreate fills in the bookkeeping fields every backend stores.
func PrepareCreate(doc Document, now time.Time) Document {
	out := doc.Clone()
	if out.ID() == "" {
		out[FieldID] = uuid.NewString()
	}
	stamp := now.UTC().Format(time.RFC3339Nano)
	if _, ok := out[FieldCreatedAt]; !ok || isZeroTime(out[FieldCreatedAt]) {
		out[FieldCreatedAt] = stamp
	}
	out[FieldUpdatedAt] = stamp
	return out
}

// PrepareUpdate returns the patch with _id stripped and updatedAt bumped.
func PrepareUpdate(patch Document, now time.Time) Document {
	out := patch.Clone()
	delete(out, FieldID)
	delete(out, FieldCreatedAt)
	out[FieldUpdatedAt] = now.UTC().Format(time.RFC3339Nano)
	return out
}

// Merge applies patch over doc without touching doc.
func Merge(doc, patch Document) Document {
	out := doc.Clone()
	for k, v := range patch {
		out[k] = v
	}
	return out
}

func isZeroTime(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, t)
		return t == "" || (err == nil && parsed.IsZero())
	case time.Time:
		return t.IsZero()
	}
	return false
}
