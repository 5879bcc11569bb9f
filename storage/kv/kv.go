// Package kv implements storage.Adapter over a plain key/value substrate,
// keeping every collection as one JSON array under "db_<collection>".
package kv

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/junaidrashid-git/shopeasy-api/storage"
)

const KeyPrefix = "db_"

var ErrKeyNotFound = errors.New("key not found")

// Store is the substrate: a directory on disk, redis, or memory.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

type Adapter struct {
	store Store
	mu    sync.Mutex
	now   func() time.Time
}

var _ storage.Adapter = (*Adapter)(nil)

func New(store Store) *Adapter {
	return &Adapter{store: store, now: time.Now}
}

func CollectionKey(collection string) string {
	return KeyPrefix + collection
}

func (a *Adapter) Create(ctx context.Context, collection string, doc storage.Document) (storage.Document, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	docs, err := a.load(ctx, collection)
	if err != nil {
		return nil, err
	}
	prepared := storage.PrepareCreate(doc, a.now())
	if indexOf(docs, prepared.ID()) >= 0 {
		return nil, errors.Wrapf(storage.ErrDuplicateKey, "%s/%s", collection, prepared.ID())
	}
	raw, err := json.Marshal(prepared)
	if err != nil {
		return nil, errors.Wrap(err, "encode document")
	}
	docs = append(docs, raw)
	if err := a.save(ctx, collection, docs); err != nil {
		return nil, err
	}
	return decode(raw)
}

func (a *Adapter) Read(ctx context.Context, collection string, q storage.Query) ([]storage.Document, error) {
	a.mu.Lock()
	docs, err := a.load(ctx, collection)
	a.mu.Unlock()
	if err != nil {
		return nil, err
	}

	out := make([]storage.Document, 0, len(docs))
	for _, raw := range docs {
		if !storage.Match(raw, q) {
			continue
		}
		doc, err := decode(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

func (a *Adapter) Update(ctx context.Context, collection, id string, patch storage.Document) (storage.Document, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	docs, err := a.load(ctx, collection)
	if err != nil {
		return nil, err
	}
	i := indexOf(docs, id)
	if i < 0 {
		return nil, errors.Wrapf(storage.ErrNotFound, "%s/%s", collection, id)
	}
	current, err := decode(docs[i])
	if err != nil {
		return nil, err
	}
	merged := storage.Merge(current, storage.PrepareUpdate(patch, a.now()))
	raw, err := json.Marshal(merged)
	if err != nil {
		return nil, errors.Wrap(err, "encode document")
	}
	docs[i] = raw
	if err := a.save(ctx, collection, docs); err != nil {
		return nil, err
	}
	return decode(raw)
}

func (a *Adapter) Delete(ctx context.Context, collection, id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	docs, err := a.load(ctx, collection)
	if err != nil {
		return err
	}
	i := indexOf(docs, id)
	if i < 0 {
		return errors.Wrapf(storage.ErrNotFound, "%s/%s", collection, id)
	}
	docs = append(docs[:i], docs[i+1:]...)
	return a.save(ctx, collection, docs)
}

func (a *Adapter) Close(ctx context.Context) error {
	return a.store.Close()
}

func (a *Adapter) load(ctx context.Context, collection string) ([]json.RawMessage, error) {
	raw, err := a.store.Get(ctx, CollectionKey(collection))
	if errors.Is(err, ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", collection)
	}
	var docs []json.RawMessage
	if len(raw) == 0 {
		return docs, nil
	}
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, errors.Wrapf(err, "parse %s", collection)
	}
	return docs, nil
}

func (a *Adapter) save(ctx context.Context, collection string, docs []json.RawMessage) error {
	if docs == nil {
		docs = []json.RawMessage{}
	}
	raw, err := json.Marshal(docs)
	if err != nil {
		return errors.Wrap(err, "encode collection")
	}
	return errors.Wrapf(a.store.Set(ctx, CollectionKey(collection), raw), "save %s", collection)
}

func indexOf(docs []json.RawMessage, id string) int {
	if id == "" {
		return -1
	}
	for i, raw := range docs {
		if gjson.GetBytes(raw, storage.FieldID).String() == id {
			return i
		}
	}
	return -1
}

func decode(raw []byte) (storage.Document, error) {
	var doc storage.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrap(err, "decode document")
	}
	return doc, nil
}
