package catalog

import (
	"bytes"
	"context"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junaidrashid-git/shopeasy-api/models"
	"github.com/junaidrashid-git/shopeasy-api/notify"
	"github.com/junaidrashid-git/shopeasy-api/storage"
	"github.com/junaidrashid-git/shopeasy-api/storage/kv"
)

type recordingDispatcher struct {
	events []notify.Event
}

func (d *recordingDispatcher) Dispatch(e notify.Event) error {
	d.events = append(d.events, e)
	return nil
}

func newTestManager(t *testing.T) (*Manager, *storage.Repository[models.Product]) {
	t.Helper()
	log, _ := test.NewNullLogger()
	repo := storage.NewRepository[models.Product](kv.New(kv.NewMemoryStore()), storage.CollectionProducts)
	return NewManager(repo, &recordingDispatcher{}, log), repo
}

func TestManagerLifecycle(t *testing.T) {
	ctx := context.Background()
	m, repo := newTestManager(t)

	for _, p := range sampleProducts()[:3] {
		p.ID = ""
		_, err := repo.Create(ctx, p)
		require.NoError(t, err)
	}
	require.NoError(t, m.Load(ctx))
	require.Len(t, m.Products(), 3)
	assert.Equal(t, []string{"clothing", "electronics"}, m.Categories())

	created, err := m.Create(ctx, models.Product{Name: "Garden Tool Set", Price: 79.99, Category: "home", InStock: true})
	require.NoError(t, err)

	got, err := m.Product(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Garden Tool Set", got.Name)

	home := m.ApplyFilters(Filter{Category: "home"})
	require.Len(t, home, 1)

	t.Run("rating is only changed through SetRating", func(t *testing.T) {
		require.NoError(t, m.SetRating(ctx, created.ID, 4.2))
		updated, err := m.Update(ctx, created.ID, models.Product{Name: "Garden Tools", Price: 69.99, Category: "home", Rating: 1})
		require.NoError(t, err)
		assert.Equal(t, 4.2, updated.Rating)
		assert.Equal(t, "Garden Tools", updated.Name)

		stored, err := repo.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, 4.2, stored.Rating)
	})

	t.Run("validation", func(t *testing.T) {
		_, err := m.Create(ctx, models.Product{Name: "Broken", Category: "home", Price: -1})
		assert.ErrorIs(t, err, models.ErrInvalidPrice)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, m.Delete(ctx, created.ID))
		_, err := m.Product(created.ID)
		assert.ErrorIs(t, err, models.ErrProductNotFound)
		assert.ErrorIs(t, m.Delete(ctx, created.ID), models.ErrNotFound)
	})
}

func TestSpreadsheetRoundTrip(t *testing.T) {
	ctx := context.Background()
	source, _ := newTestManager(t)
	for _, p := range sampleProducts()[:2] {
		p.ID = ""
		p.Features = []string{"Wireless", "Premium Sound"}
		_, err := source.Create(ctx, p)
		require.NoError(t, err)
	}

	var buf bytes.Buffer
	require.NoError(t, source.ExportXLSX(&buf))

	target, _ := newTestManager(t)
	result, err := target.ImportXLSX(ctx, bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Created: 2}, result)

	imported := target.ApplyFilters(Filter{Sort: SortPriceLow})
	require.Len(t, imported, 2)
	assert.Equal(t, "Wireless Bluetooth Headphones", imported[0].Name)
	assert.Equal(t, 199.99, imported[0].Price)
	assert.Equal(t, []string{"Wireless", "Premium Sound"}, imported[0].Features)

	again, err := source.ImportXLSX(ctx, bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Updated: 2}, again)
}
