package wishlist

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junaidrashid-git/shopeasy-api/models"
	"github.com/junaidrashid-git/shopeasy-api/notify"
	"github.com/junaidrashid-git/shopeasy-api/services/cart"
	"github.com/junaidrashid-git/shopeasy-api/storage"
	"github.com/junaidrashid-git/shopeasy-api/storage/kv"
)

type productMap map[string]models.Product

func (p productMap) Product(id string) (models.Product, error) {
	product, ok := p[id]
	if !ok {
		return models.Product{}, models.ErrProductNotFound
	}
	return product, nil
}

type mockCart struct {
	added []string
}

func (c *mockCart) Add(_ context.Context, owner, productID string) (models.Cart, error) {
	c.added = append(c.added, owner+"/"+productID)
	return models.Cart{Owner: owner, Items: []models.CartLineItem{{ProductID: productID, Quantity: 1}}}, nil
}

type recordingDispatcher struct {
	events []notify.Notification
}

func (d *recordingDispatcher) Dispatch(e notify.Event) error {
	d.events = append(d.events, e.(notify.Notification))
	return nil
}

func newManager(t *testing.T, adapter storage.Adapter) (*Manager, *mockCart, *recordingDispatcher) {
	t.Helper()
	log, _ := test.NewNullLogger()
	repo := storage.NewRepository[models.WishlistEntry](adapter, storage.CollectionWishlists)
	products := productMap{
		"p1": {ID: "p1", Name: "Running Shoes", Price: 129.99, Category: "sports"},
		"p2": {ID: "p2", Name: "Coffee Maker", Price: 179.99, Category: "home"},
	}
	c := &mockCart{}
	d := &recordingDispatcher{}
	return NewManager(repo, products, c, d, log), c, d
}

func TestAddIsAtMostOnce(t *testing.T) {
	ctx := context.Background()
	adapter := kv.New(kv.NewMemoryStore())
	m, _, d := newManager(t, adapter)

	entry, created, err := m.Add(ctx, "u1", "p1")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Running Shoes", entry.Name)

	again, created, err := m.Add(ctx, "u1", "p1")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, entry.ID, again.ID)

	last := d.events[len(d.events)-1]
	assert.Equal(t, "Item already in wishlist", last.Message)
	assert.Equal(t, notify.Info, last.Level)

	count, err := m.Count(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	t.Run("survives a restart", func(t *testing.T) {
		fresh, _, _ := newManager(t, adapter)
		ok, err := fresh.Contains(ctx, "u1", "p1")
		require.NoError(t, err)
		assert.True(t, ok)

		_, created, err := fresh.Add(ctx, "u1", "p1")
		require.NoError(t, err)
		assert.False(t, created)
	})
}

func TestWishlistOperations(t *testing.T) {
	ctx := context.Background()
	m, c, _ := newManager(t, kv.New(kv.NewMemoryStore()))

	t.Run("requires a user", func(t *testing.T) {
		_, _, err := m.Add(ctx, "", "p1")
		assert.ErrorIs(t, err, models.ErrNotAuthenticated)
	})

	t.Run("unknown product", func(t *testing.T) {
		_, _, err := m.Add(ctx, "u1", "nope")
		assert.ErrorIs(t, err, models.ErrProductNotFound)
	})

	_, _, err := m.Add(ctx, "u1", "p1")
	require.NoError(t, err)
	_, _, err = m.Add(ctx, "u1", "p2")
	require.NoError(t, err)

	t.Run("list keeps add order", func(t *testing.T) {
		list, err := m.List(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "p1", list[0].ProductID)
	})

	t.Run("remove is idempotent", func(t *testing.T) {
		require.NoError(t, m.Remove(ctx, "u1", "p2"))
		require.NoError(t, m.Remove(ctx, "u1", "p2"))
		ok, err := m.Contains(ctx, "u1", "p2")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("move to cart", func(t *testing.T) {
		cart, err := m.MoveToCart(ctx, "u1", "user:u1", "p1")
		require.NoError(t, err)
		assert.Equal(t, 0, cart.Find("p1"))
		assert.Equal(t, []string{"user:u1/p1"}, c.added)

		ok, err := m.Contains(ctx, "u1", "p1")
		require.NoError(t, err)
		assert.False(t, ok)

		_, err = m.MoveToCart(ctx, "u1", "user:u1", "p1")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("clear", func(t *testing.T) {
		_, _, err := m.Add(ctx, "u2", "p1")
		require.NoError(t, err)
		_, _, err = m.Add(ctx, "u2", "p2")
		require.NoError(t, err)
		require.NoError(t, m.Clear(ctx, "u2"))

		count, err := m.Count(ctx, "u2")
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}

func TestMoveToCartKeepsEntryForRemovedProduct(t *testing.T) {
	ctx := context.Background()
	log, _ := test.NewNullLogger()
	adapter := kv.New(kv.NewMemoryStore())
	products := productMap{
		"p1": {ID: "p1", Name: "Running Shoes", Price: 129.99, Category: "sports"},
		"p2": {ID: "p2", Name: "Coffee Maker", Price: 179.99, Category: "home"},
	}
	carts := cart.NewManager(storage.NewRepository[models.Cart](adapter, storage.CollectionCarts), products, nil, notify.Discard{}, log)
	m := NewManager(storage.NewRepository[models.WishlistEntry](adapter, storage.CollectionWishlists), products, carts, notify.Discard{}, log)

	_, _, err := m.Add(ctx, "u1", "p1")
	require.NoError(t, err)
	_, _, err = m.Add(ctx, "u1", "p2")
	require.NoError(t, err)

	delete(products, "p1")
	_, err = m.MoveToCart(ctx, "u1", "user:u1", "p1")
	assert.ErrorIs(t, err, models.ErrProductNotFound)

	ok, err := m.Contains(ctx, "u1", "p1")
	require.NoError(t, err)
	assert.True(t, ok)
	c, err := carts.Get(ctx, "user:u1")
	require.NoError(t, err)
	assert.Empty(t, c.Items)

	moved, err := m.MoveToCart(ctx, "u1", "user:u1", "p2")
	require.NoError(t, err)
	assert.Equal(t, 1, moved.ItemCount())
	ok, err = m.Contains(ctx, "u1", "p2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInstancesShareWishlistState(t *testing.T) {
	ctx := context.Background()
	adapter := kv.New(kv.NewMemoryStore())
	a, _, _ := newManager(t, adapter)
	b, _, _ := newManager(t, adapter)

	// b looks first, then a writes
	count, err := b.Count(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, count)

	_, created, err := a.Add(ctx, "u1", "p1")
	require.NoError(t, err)
	assert.True(t, created)

	_, created, err = b.Add(ctx, "u1", "p1")
	require.NoError(t, err)
	assert.False(t, created)

	require.NoError(t, a.Remove(ctx, "u1", "p1"))
	ok, err := b.Contains(ctx, "u1", "p1")
	require.NoError(t, err)
	assert.False(t, ok)
}

// racingRepo stores the same entry just before the manager does, the way a
// second API instance would between the read and the insert.
type racingRepo struct {
	*storage.Repository[models.WishlistEntry]
}

func (r racingRepo) Create(ctx context.Context, e models.WishlistEntry) (models.WishlistEntry, error) {
	if _, err := r.Repository.Create(ctx, e); err != nil {
		return models.WishlistEntry{}, err
	}
	return r.Repository.Create(ctx, e)
}

func TestConcurrentInsertIsDeduplicated(t *testing.T) {
	ctx := context.Background()
	log, _ := test.NewNullLogger()
	adapter := kv.New(kv.NewMemoryStore())
	repo := storage.NewRepository[models.WishlistEntry](adapter, storage.CollectionWishlists)
	products := productMap{"p1": {ID: "p1", Name: "Running Shoes", Price: 129.99, Category: "sports"}}
	d := &recordingDispatcher{}
	m := NewManager(racingRepo{repo}, products, &mockCart{}, d, log)

	entry, created, err := m.Add(ctx, "u1", "p1")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, EntryID("u1", "p1"), entry.ID)
	assert.Equal(t, "Item already in wishlist", d.events[len(d.events)-1].Message)

	stored, err := repo.Find(ctx, storage.Where(storage.Eq("userId", "u1")))
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestEntryID(t *testing.T) {
	assert.Equal(t, EntryID("u1", "p1"), EntryID("u1", "p1"))
	assert.NotEqual(t, EntryID("u1", "p1"), EntryID("u1", "p2"))
	assert.NotEqual(t, EntryID("u1", "p1"), EntryID("u2", "p1"))
	assert.Len(t, EntryID("u1", "p1"), 36)
}
