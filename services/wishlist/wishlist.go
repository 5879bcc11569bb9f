// Package wishlist keeps each user's saved products as a set keyed by
// product id.
package wishlist

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/junaidrashid-git/shopeasy-api/models"
	"github.com/junaidrashid-git/shopeasy-api/notify"
	"github.com/junaidrashid-git/shopeasy-api/storage"
)

type Repository interface {
	Create(ctx context.Context, e models.WishlistEntry) (models.WishlistEntry, error)
	Find(ctx context.Context, q storage.Query) ([]models.WishlistEntry, error)
	FindOne(ctx context.Context, q storage.Query) (models.WishlistEntry, error)
	Delete(ctx context.Context, id string) error
}

type ProductSource interface {
	Product(id string) (models.Product, error)
}

type CartAdder interface {
	Add(ctx context.Context, owner, productID string) (models.Cart, error)
}

type Manager struct {
	repo       Repository
	products   ProductSource
	cart       CartAdder
	dispatcher notify.Dispatcher
	log        logrus.FieldLogger
	now        func() time.Time

	mu sync.Mutex
}

func NewManager(repo Repository, products ProductSource, cart CartAdder, dispatcher notify.Dispatcher, log logrus.FieldLogger) *Manager {
	return &Manager{
		repo:       repo,
		products:   products,
		cart:       cart,
		dispatcher: dispatcher,
		log:        log,
		now:        time.Now,
	}
}

var entryNamespace = uuid.MustParse("6f1c7a52-3d0e-4b8a-9a57-2f4d8c1e0b93")

// EntryID is the stored id of a wishlist entry. It is derived from the pair,
// so a second insert of the same product collides on every backend.
func EntryID(userID, productID string) string {
	return uuid.NewSHA1(entryNamespace, []byte(userID+"/"+productID)).String()
}

// set reads the user's entries from storage. Callers hold m.mu.
func (m *Manager) set(ctx context.Context, userID string) (map[string]models.WishlistEntry, error) {
	if userID == "" {
		return nil, models.ErrNotAuthenticated
	}
	entries, err := m.repo.Find(ctx, storage.Where(storage.Eq("userId", userID)))
	if err != nil {
		return nil, err
	}
	s := make(map[string]models.WishlistEntry, len(entries))
	for _, e := range entries {
		if _, ok := s[e.ProductID]; ok {
			continue
		}
		s[e.ProductID] = e
	}
	return s, nil
}

// Add saves productID for the user. It reports false, and only notifies,
// when the product is already in the wishlist.
func (m *Manager) Add(ctx context.Context, userID, productID string) (models.WishlistEntry, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.set(ctx, userID)
	if err != nil {
		return models.WishlistEntry{}, false, err
	}
	if existing, ok := s[productID]; ok {
		m.notify(notify.New("wishlist.duplicate", notify.Info, "Item already in wishlist", "user:"+userID))
		return existing, false, nil
	}

	product, err := m.products.Product(productID)
	if err != nil {
		return models.WishlistEntry{}, false, err
	}
	now := m.now().UTC()
	entry, err := m.repo.Create(ctx, models.WishlistEntry{
		ID:        EntryID(userID, product.ID),
		UserID:    userID,
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Image:     product.Image,
		Category:  product.Category,
		AddedDate: now,
	})
	if errors.Is(err, storage.ErrDuplicateKey) {
		// another instance saved it first
		m.notify(notify.New("wishlist.duplicate", notify.Info, "Item already in wishlist", "user:"+userID))
		existing, err := m.repo.FindOne(ctx, storage.ByID(EntryID(userID, product.ID)))
		return existing, false, err
	}
	if err != nil {
		return models.WishlistEntry{}, false, err
	}

	m.notify(notify.New("wishlist.added", notify.Success, "Added to wishlist!", "user:"+userID).With(entry))
	return entry, true, nil
}

// Remove drops productID from the wishlist; absent entries are ignored.
func (m *Manager) Remove(ctx context.Context, userID, productID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.remove(ctx, userID, productID)
}

func (m *Manager) remove(ctx context.Context, userID, productID string) error {
	s, err := m.set(ctx, userID)
	if err != nil {
		return err
	}
	entry, ok := s[productID]
	if !ok {
		return nil
	}
	if err := m.repo.Delete(ctx, entry.ID); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return err
	}
	return nil
}

func (m *Manager) Contains(ctx context.Context, userID, productID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, err := m.set(ctx, userID)
	if err != nil {
		return false, err
	}
	_, ok := s[productID]
	return ok, nil
}

// List returns the entries in the order they were added.
func (m *Manager) List(ctx context.Context, userID string) ([]models.WishlistEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, err := m.set(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]models.WishlistEntry, 0, len(s))
	for _, e := range s {
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].AddedDate.Equal(out[j].AddedDate) {
			return out[i].ProductID < out[j].ProductID
		}
		return out[i].AddedDate.Before(out[j].AddedDate)
	})
	return out, nil
}

func (m *Manager) Count(ctx context.Context, userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, err := m.set(ctx, userID)
	if err != nil {
		return 0, err
	}
	return len(s), nil
}

func (m *Manager) Clear(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, err := m.set(ctx, userID)
	if err != nil {
		return err
	}
	for _, entry := range s {
		if err := m.repo.Delete(ctx, entry.ID); err != nil && !errors.Is(err, storage.ErrNotFound) {
			return err
		}
	}
	return nil
}

// MoveToCart adds the product to the cart owned by cartOwner, then removes
// it from the wishlist. A product gone from the catalog stays in the wishlist
// and ErrProductNotFound is returned.
func (m *Manager) MoveToCart(ctx context.Context, userID, cartOwner, productID string) (models.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.set(ctx, userID)
	if err != nil {
		return models.Cart{}, err
	}
	if _, ok := s[productID]; !ok {
		return models.Cart{}, errors.Wrap(models.ErrNotFound, "wishlist entry")
	}
	if _, err := m.products.Product(productID); err != nil {
		return models.Cart{}, err
	}
	c, err := m.cart.Add(ctx, cartOwner, productID)
	if err != nil {
		return models.Cart{}, err
	}
	if c.Find(productID) < 0 {
		return models.Cart{}, errors.Wrap(models.ErrProductNotFound, productID)
	}
	if err := m.remove(ctx, userID, productID); err != nil {
		return models.Cart{}, err
	}
	return c, nil
}

func (m *Manager) notify(n notify.Notification) {
	if err := m.dispatcher.Dispatch(n); err != nil {
		m.log.WithError(err).Warn("⚠️ notification failed")
	}
}
