// Package pgstore implements storage.Adapter on Postgres through gorm. All
// collections share one documents table with a jsonb payload.
package pgstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/junaidrashid-git/shopeasy-api/storage"
)

type documentRow struct {
	Collection string    `gorm:"primaryKey;size:64"`
	ID         string    `gorm:"primaryKey;size:64"`
	Data       string    `gorm:"type:jsonb;not null"`
	CreatedAt  time.Time `gorm:"index"`
	UpdatedAt  time.Time
}

func (documentRow) TableName() string { return "documents" }

type Store struct {
	db  *gorm.DB
	now func() time.Time
}

var _ storage.Adapter = (*Store)(nil)

// New wraps an open gorm connection. Call Migrate once before use.
func New(db *gorm.DB) *Store {
	return &Store{db: db, now: time.Now}
}

func (s *Store) Migrate() error {
	return errors.Wrap(s.db.AutoMigrate(&documentRow{}), "migrate documents")
}

func (s *Store) Create(ctx context.Context, collection string, doc storage.Document) (storage.Document, error) {
	now := s.now()
	prepared := storage.PrepareCreate(doc, now)
	raw, err := json.Marshal(prepared)
	if err != nil {
		return nil, errors.Wrap(err, "encode document")
	}
	row := documentRow{
		Collection: collection,
		ID:         prepared.ID(),
		Data:       string(raw),
		CreatedAt:  now.UTC(),
		UpdatedAt:  now.UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.Wrapf(storage.ErrDuplicateKey, "%s/%s", collection, row.ID)
		}
		return nil, errors.Wrapf(err, "insert %s", collection)
	}
	return decode(raw)
}

func (s *Store) Read(ctx context.Context, collection string, q storage.Query) ([]storage.Document, error) {
	tx := s.db.WithContext(ctx).Where("collection = ?", collection)
	if contains := containment(q); contains != "" {
		tx = tx.Where("data @> ?", contains)
	}

	var rows []documentRow
	if err := tx.Order("created_at, id").Find(&rows).Error; err != nil {
		return nil, errors.Wrapf(err, "select %s", collection)
	}

	out := make([]storage.Document, 0, len(rows))
	for _, row := range rows {
		if !storage.Match([]byte(row.Data), q) {
			continue
		}
		doc, err := decode([]byte(row.Data))
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

func (s *Store) Update(ctx context.Context, collection, id string, patch storage.Document) (storage.Document, error) {
	var updated storage.Document
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row documentRow
		if err := tx.Where("collection = ? AND id = ?", collection, id).First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.Wrapf(storage.ErrNotFound, "%s/%s", collection, id)
			}
			return err
		}
		current, err := decode([]byte(row.Data))
		if err != nil {
			return err
		}
		now := s.now()
		merged := storage.Merge(current, storage.PrepareUpdate(patch, now))
		raw, err := json.Marshal(merged)
		if err != nil {
			return errors.Wrap(err, "encode document")
		}
		res := tx.Model(&documentRow{}).
			Where("collection = ? AND id = ?", collection, id).
			Updates(map[string]interface{}{"data": string(raw), "updated_at": now.UTC()})
		if res.Error != nil {
			return res.Error
		}
		updated = merged
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "update %s/%s", collection, id)
	}
	return updated, nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	res := s.db.WithContext(ctx).Where("collection = ? AND id = ?", collection, id).Delete(&documentRow{})
	if res.Error != nil {
		return errors.Wrapf(res.Error, "delete %s/%s", collection, id)
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(storage.ErrNotFound, "%s/%s", collection, id)
	}
	return nil
}

func (s *Store) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// containment builds a jsonb document from the scalar equality conditions so
// postgres can narrow rows before they are matched in Go. Equality against
// array-valued fields is never pushed down since @> treats it differently.
func containment(q storage.Query) string {
	filter := map[string]interface{}{}
	for _, c := range q {
		if c.Op != storage.OpEq && c.Op != "" {
			continue
		}
		switch c.Value.(type) {
		case string, bool, float64, int, int64:
		default:
			continue
		}
		if _, dup := filter[c.Field]; dup || !isTopLevel(c.Field) || arrayFields[c.Field] {
			continue
		}
		filter[c.Field] = c.Value
	}
	if len(filter) == 0 {
		return ""
	}
	raw, err := json.Marshal(filter)
	if err != nil {
		return ""
	}
	return string(raw)
}

var arrayFields = map[string]bool{"features": true, "items": true, "helpfulVoters": true}

func isTopLevel(field string) bool {
	for _, r := range field {
		if r == '.' {
			return false
		}
	}
	return true
}

func decode(raw []byte) (storage.Document, error) {
	var doc storage.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrap(err, "decode document")
	}
	return doc, nil
}
