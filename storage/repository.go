package storage

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
)

type Validator interface {
	Validate() error
}

// Repository is a typed view over one collection. Values are validated before
// every write and converted to documents through their JSON tags.
type Repository[T any] struct {
	adapter    Adapter
	collection string
}

func NewRepository[T any](adapter Adapter, collection string) *Repository[T] {
	return &Repository[T]{adapter: adapter, collection: collection}
}

func (r *Repository[T]) Collection() string {
	return r.collection
}

func (r *Repository[T]) Create(ctx context.Context, v T) (T, error) {
	var zero T
	if err := validate(v); err != nil {
		return zero, err
	}
	doc, err := ToDocument(v)
	if err != nil {
		return zero, err
	}
	stored, err := r.adapter.Create(ctx, r.collection, doc)
	if err != nil {
		return zero, errors.Wrapf(err, "create %s", r.collection)
	}
	return FromDocument[T](stored)
}

func (r *Repository[T]) Find(ctx context.Context, q Query) ([]T, error) {
	docs, err := r.adapter.Read(ctx, r.collection, q)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", r.collection)
	}
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		v, err := FromDocument[T](doc)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// FindOne returns the first match or ErrNotFound.
func (r *Repository[T]) FindOne(ctx context.Context, q Query) (T, error) {
	var zero T
	found, err := r.Find(ctx, q)
	if err != nil {
		return zero, err
	}
	if len(found) == 0 {
		return zero, errors.Wrapf(ErrNotFound, "%s", r.collection)
	}
	return found[0], nil
}

func (r *Repository[T]) Get(ctx context.Context, id string) (T, error) {
	return r.FindOne(ctx, ByID(id))
}

// Save replaces every field of the stored document with v.
func (r *Repository[T]) Save(ctx context.Context, id string, v T) (T, error) {
	var zero T
	if err := validate(v); err != nil {
		return zero, err
	}
	doc, err := ToDocument(v)
	if err != nil {
		return zero, err
	}
	stored, err := r.adapter.Update(ctx, r.collection, id, doc)
	if err != nil {
		return zero, errors.Wrapf(err, "update %s/%s", r.collection, id)
	}
	return FromDocument[T](stored)
}

func (r *Repository[T]) Delete(ctx context.Context, id string) error {
	if err := r.adapter.Delete(ctx, r.collection, id); err != nil {
		return errors.Wrapf(err, "delete %s/%s", r.collection, id)
	}
	return nil
}

func (r *Repository[T]) Count(ctx context.Context, q Query) (int, error) {
	docs, err := r.adapter.Read(ctx, r.collection, q)
	if err != nil {
		return 0, errors.Wrapf(err, "count %s", r.collection)
	}
	return len(docs), nil
}

func validate(v interface{}) error {
	if val, ok := v.(Validator); ok {
		return val.Validate()
	}
	return nil
}

// ToDocument converts a tagged struct into a Document.
func ToDocument(v interface{}) (Document, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "encode document")
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrap(err, "encode document")
	}
	return doc, nil
}

// FromDocument decodes a Document into T.
func FromDocument[T any](doc Document) (T, error) {
	var out T
	raw, err := json.Marshal(doc)
	if err != nil {
		return out, errors.Wrap(err, "decode document")
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, errors.Wrap(err, "decode document")
	}
	return out, nil
}
