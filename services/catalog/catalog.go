// Package catalog owns the authoritative product list and the filtered,
// sorted views derived from it.
package catalog

import (
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/junaidrashid-git/shopeasy-api/models"
	"github.com/junaidrashid-git/shopeasy-api/notify"
	"github.com/junaidrashid-git/shopeasy-api/storage"
)

type Repository interface {
	Create(ctx context.Context, p models.Product) (models.Product, error)
	Find(ctx context.Context, q storage.Query) ([]models.Product, error)
	Save(ctx context.Context, id string, p models.Product) (models.Product, error)
	Delete(ctx context.Context, id string) error
}

type Manager struct {
	repo       Repository
	dispatcher notify.Dispatcher
	log        logrus.FieldLogger

	mu       sync.RWMutex
	products []models.Product
	byID     map[string]int
}

func NewManager(repo Repository, dispatcher notify.Dispatcher, log logrus.FieldLogger) *Manager {
	return &Manager{repo: repo, dispatcher: dispatcher, log: log, byID: map[string]int{}}
}

// Load replaces the in-memory catalog with what storage holds.
func (m *Manager) Load(ctx context.Context) error {
	products, err := m.repo.Find(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "load catalog")
	}
	m.mu.Lock()
	m.set(products)
	m.mu.Unlock()

	m.log.WithField("products", len(products)).Info("📦 Catalog loaded")
	return nil
}

func (m *Manager) set(products []models.Product) {
	m.products = products
	m.byID = make(map[string]int, len(products))
	for i, p := range products {
		m.byID[p.ID] = i
	}
}

// Products returns a copy of the full catalog in load order.
func (m *Manager) Products() []models.Product {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.Product(nil), m.products...)
}

func (m *Manager) ApplyFilters(f Filter) []models.Product {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return ApplyFilters(m.products, f)
}

func (m *Manager) Product(id string) (models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i, ok := m.byID[id]
	if !ok {
		return models.Product{}, models.ErrProductNotFound
	}
	return m.products[i], nil
}

func (m *Manager) Categories() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := map[string]bool{}
	var out []string
	for _, p := range m.products {
		if p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return out
}

func (m *Manager) Create(ctx context.Context, p models.Product) (models.Product, error) {
	p.ID = ""
	created, err := m.repo.Create(ctx, p)
	if err != nil {
		return models.Product{}, err
	}
	m.mu.Lock()
	m.set(append(m.products, created))
	m.mu.Unlock()

	m.notify(notify.New("catalog.product_created", notify.Info, "Product added: "+created.Name).With(created))
	return created, nil
}

// Update replaces the editable fields of a product. Rating is derived from
// reviews and is left untouched.
func (m *Manager) Update(ctx context.Context, id string, p models.Product) (models.Product, error) {
	current, err := m.Product(id)
	if err != nil {
		return models.Product{}, err
	}
	p.ID = id
	p.Rating = current.Rating
	p.CreatedAt = current.CreatedAt
	return m.save(ctx, p)
}

// SetRating stores a product's derived rating.
func (m *Manager) SetRating(ctx context.Context, id string, rating float64) error {
	current, err := m.Product(id)
	if err != nil {
		return err
	}
	current.Rating = rating
	_, err = m.save(ctx, current)
	return err
}

func (m *Manager) save(ctx context.Context, p models.Product) (models.Product, error) {
	saved, err := m.repo.Save(ctx, p.ID, p)
	if errors.Is(err, storage.ErrNotFound) {
		return models.Product{}, models.ErrProductNotFound
	}
	if err != nil {
		return models.Product{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if i, ok := m.byID[saved.ID]; ok {
		m.products[i] = saved
	}
	return saved, nil
}

func (m *Manager) Delete(ctx context.Context, id string) error {
	if _, err := m.Product(id); err != nil {
		return err
	}
	if err := m.repo.Delete(ctx, id); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	kept := make([]models.Product, 0, len(m.products))
	for _, p := range m.products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	m.set(kept)
	return nil
}

func (m *Manager) notify(n notify.Notification) {
	if err := m.dispatcher.Dispatch(n); err != nil {
		m.log.WithError(err).Warn("⚠️ notification failed")
	}
}
