// Package cart owns shopping carts: line items per owner, totals, and
// checkout into an order.
package cart

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/junaidrashid-git/shopeasy-api/models"
	"github.com/junaidrashid-git/shopeasy-api/notify"
	"github.com/junaidrashid-git/shopeasy-api/storage"
)

type Repository interface {
	Create(ctx context.Context, c models.Cart) (models.Cart, error)
	FindOne(ctx context.Context, q storage.Query) (models.Cart, error)
	Save(ctx context.Context, id string, c models.Cart) (models.Cart, error)
	Delete(ctx context.Context, id string) error
}

type ProductSource interface {
	Product(id string) (models.Product, error)
}

// OrderPlacer persists orders created at checkout and removes them again if
// the cart cannot be cleared afterwards.
type OrderPlacer interface {
	Place(ctx context.Context, order models.Order) (models.Order, error)
	Delete(ctx context.Context, id string) error
}

type Manager struct {
	repo       Repository
	products   ProductSource
	orders     OrderPlacer
	dispatcher notify.Dispatcher
	log        logrus.FieldLogger
	now        func() time.Time

	mu       sync.Mutex
	locks    map[string]*ownerLock
	inFlight map[string]bool
}

// ownerLock serializes writes to one cart. refs counts holders and waiters;
// the entry is dropped when it reaches zero.
type ownerLock struct {
	sync.Mutex
	refs int
}

func NewManager(repo Repository, products ProductSource, orders OrderPlacer, dispatcher notify.Dispatcher, log logrus.FieldLogger) *Manager {
	return &Manager{
		repo:       repo,
		products:   products,
		orders:     orders,
		dispatcher: dispatcher,
		log:        log,
		now:        time.Now,
		locks:      map[string]*ownerLock{},
		inFlight:   map[string]bool{},
	}
}

func (m *Manager) lock(owner string) func() {
	m.mu.Lock()
	l, ok := m.locks[owner]
	if !ok {
		l = &ownerLock{}
		m.locks[owner] = l
	}
	l.refs++
	m.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		m.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(m.locks, owner)
		}
		m.mu.Unlock()
	}
}

// lockedOwners reports how many owners currently hold or wait on a cart lock.
func (m *Manager) lockedOwners() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}

// Get returns the owner's cart; an owner without one gets an empty cart.
func (m *Manager) Get(ctx context.Context, owner string) (models.Cart, error) {
	c, err := m.repo.FindOne(ctx, storage.Where(storage.Eq("owner", owner)))
	if errors.Is(err, storage.ErrNotFound) {
		return models.Cart{Owner: owner, Items: []models.CartLineItem{}}, nil
	}
	if err != nil {
		return models.Cart{}, err
	}
	if c.Items == nil {
		c.Items = []models.CartLineItem{}
	}
	return c, nil
}

func (m *Manager) save(ctx context.Context, c models.Cart) (models.Cart, error) {
	if c.ID == "" {
		return m.repo.Create(ctx, c)
	}
	return m.repo.Save(ctx, c.ID, c)
}

// Add puts one unit of productID in the cart. Unknown products are ignored.
func (m *Manager) Add(ctx context.Context, owner, productID string) (models.Cart, error) {
	unlock := m.lock(owner)
	defer unlock()

	c, err := m.Get(ctx, owner)
	if err != nil {
		return models.Cart{}, err
	}
	product, err := m.products.Product(productID)
	if errors.Is(err, models.ErrNotFound) {
		return c, nil
	}
	if err != nil {
		return models.Cart{}, err
	}

	if i := c.Find(productID); i >= 0 {
		c.Items[i].Quantity++
	} else {
		c.Items = append(c.Items, models.CartLineItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Image:     product.Image,
			Category:  product.Category,
			Quantity:  1,
			AddedAt:   m.now().UTC(),
		})
	}

	saved, err := m.save(ctx, c)
	if err != nil {
		return models.Cart{}, err
	}
	m.notify(notify.New("cart.item_added", notify.Success, "Item added to cart!", owner).With(saved))
	return saved, nil
}

// UpdateQuantity sets the quantity of an existing line item; qty <= 0 removes it.
func (m *Manager) UpdateQuantity(ctx context.Context, owner, productID string, qty int) (models.Cart, error) {
	if qty <= 0 {
		return m.Remove(ctx, owner, productID)
	}

	unlock := m.lock(owner)
	defer unlock()

	c, err := m.Get(ctx, owner)
	if err != nil {
		return models.Cart{}, err
	}
	i := c.Find(productID)
	if i < 0 {
		return c, nil
	}
	c.Items[i].Quantity = qty
	return m.save(ctx, c)
}

// Remove drops a line item. Removing an absent item is a no-op.
func (m *Manager) Remove(ctx context.Context, owner, productID string) (models.Cart, error) {
	unlock := m.lock(owner)
	defer unlock()

	c, err := m.Get(ctx, owner)
	if err != nil {
		return models.Cart{}, err
	}
	i := c.Find(productID)
	if i < 0 {
		return c, nil
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	return m.save(ctx, c)
}

func (m *Manager) Clear(ctx context.Context, owner string) error {
	unlock := m.lock(owner)
	defer unlock()
	return m.clear(ctx, owner)
}

func (m *Manager) clear(ctx context.Context, owner string) error {
	c, err := m.Get(ctx, owner)
	if err != nil {
		return err
	}
	if c.ID == "" || c.IsEmpty() {
		return nil
	}
	c.Items = []models.CartLineItem{}
	_, err = m.repo.Save(ctx, c.ID, c)
	return err
}

func (m *Manager) Total(ctx context.Context, owner string) (float64, error) {
	c, err := m.Get(ctx, owner)
	if err != nil {
		return 0, err
	}
	return c.Total(), nil
}

func (m *Manager) ItemCount(ctx context.Context, owner string) (int, error) {
	c, err := m.Get(ctx, owner)
	if err != nil {
		return 0, err
	}
	return c.ItemCount(), nil
}

// Merge folds the from cart into the to cart, summing quantities, and
// deletes the from cart. Used when a guest signs in.
func (m *Manager) Merge(ctx context.Context, from, to string) (models.Cart, error) {
	if from == to {
		return m.Get(ctx, to)
	}
	first, second := from, to
	if second < first {
		first, second = second, first
	}
	unlockFirst := m.lock(first)
	defer unlockFirst()
	unlockSecond := m.lock(second)
	defer unlockSecond()

	src, err := m.Get(ctx, from)
	if err != nil {
		return models.Cart{}, err
	}
	dst, err := m.Get(ctx, to)
	if err != nil {
		return models.Cart{}, err
	}
	if src.IsEmpty() {
		return dst, nil
	}

	for _, item := range src.Items {
		if i := dst.Find(item.ProductID); i >= 0 {
			dst.Items[i].Quantity += item.Quantity
			continue
		}
		dst.Items = append(dst.Items, item)
	}
	merged, err := m.save(ctx, dst)
	if err != nil {
		return models.Cart{}, err
	}
	if src.ID != "" {
		if err := m.repo.Delete(ctx, src.ID); err != nil && !errors.Is(err, storage.ErrNotFound) {
			m.log.WithError(err).WithField("owner", from).Warn("⚠️ failed to drop merged cart")
		}
	}
	return merged, nil
}

func (m *Manager) notify(n notify.Notification) {
	if err := m.dispatcher.Dispatch(n); err != nil {
		m.log.WithError(err).Warn("⚠️ notification failed")
	}
}
