// Package orders stores placed orders and their status changes.
package orders

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/junaidrashid-git/shopeasy-api/models"
	"github.com/junaidrashid-git/shopeasy-api/notify"
	"github.com/junaidrashid-git/shopeasy-api/storage"
)

type Repository interface {
	Create(ctx context.Context, o models.Order) (models.Order, error)
	Find(ctx context.Context, q storage.Query) ([]models.Order, error)
	Get(ctx context.Context, id string) (models.Order, error)
	Save(ctx context.Context, id string, o models.Order) (models.Order, error)
	Delete(ctx context.Context, id string) error
}

type Manager struct {
	repo       Repository
	dispatcher notify.Dispatcher
	log        logrus.FieldLogger
	now        func() time.Time
}

func NewManager(repo Repository, dispatcher notify.Dispatcher, log logrus.FieldLogger) *Manager {
	return &Manager{repo: repo, dispatcher: dispatcher, log: log, now: time.Now}
}

// reference builds a human readable order number, e.g. 20250908130500-<uuid>.
func (m *Manager) reference() string {
	return m.now().UTC().Format("20060102150405") + "-" + uuid.NewString()
}

// Place stores a new pending order. The total is recomputed from the items.
func (m *Manager) Place(ctx context.Context, order models.Order) (models.Order, error) {
	order.ID = ""
	order.Reference = m.reference()
	order.Status = models.OrderStatusPending
	order.Total = order.ComputeTotal()

	placed, err := m.repo.Create(ctx, order)
	if err != nil {
		return models.Order{}, err
	}
	m.notify(notify.New("order.created", notify.Info, "New order "+placed.Reference, notify.AdminAudience).With(placed))
	return placed, nil
}

func (m *Manager) Get(ctx context.Context, id string) (models.Order, error) {
	order, err := m.repo.Get(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return models.Order{}, models.ErrOrderNotFound
	}
	return order, err
}

// ForUser returns a user's orders, newest first.
func (m *Manager) ForUser(ctx context.Context, userID string) ([]models.Order, error) {
	orders, err := m.repo.Find(ctx, storage.Where(storage.Eq("userId", userID)))
	if err != nil {
		return nil, err
	}
	newestFirst(orders)
	return orders, nil
}

// ForOwner returns the orders placed from one cart owner key, which is how
// guest orders are found.
func (m *Manager) ForOwner(ctx context.Context, owner string) ([]models.Order, error) {
	orders, err := m.repo.Find(ctx, storage.Where(storage.Eq("owner", owner)))
	if err != nil {
		return nil, err
	}
	newestFirst(orders)
	return orders, nil
}

func (m *Manager) All(ctx context.Context, status string) ([]models.Order, error) {
	var q storage.Query
	if status != "" {
		parsed, err := models.ParseOrderStatus(status)
		if err != nil {
			return nil, err
		}
		q = storage.Where(storage.Eq("status", string(parsed)))
	}
	orders, err := m.repo.Find(ctx, q)
	if err != nil {
		return nil, err
	}
	newestFirst(orders)
	return orders, nil
}

func (m *Manager) UpdateStatus(ctx context.Context, id, status string) (models.Order, error) {
	parsed, err := models.ParseOrderStatus(status)
	if err != nil {
		return models.Order{}, err
	}
	order, err := m.Get(ctx, id)
	if err != nil {
		return models.Order{}, err
	}
	if order.Status == parsed {
		return order, nil
	}
	order.Status = parsed

	saved, err := m.repo.Save(ctx, id, order)
	if err != nil {
		return models.Order{}, err
	}

	audience := []string{notify.AdminAudience}
	if saved.UserID != "" {
		audience = append(audience, "user:"+saved.UserID)
	} else if saved.Owner != "" {
		audience = append(audience, saved.Owner)
	}
	m.notify(notify.New("order.status_changed", notify.Info, "Order "+saved.Reference+" is now "+string(saved.Status), audience...).With(saved))
	return saved, nil
}

func (m *Manager) Delete(ctx context.Context, id string) error {
	err := m.repo.Delete(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return models.ErrOrderNotFound
	}
	return err
}

func (m *Manager) notify(n notify.Notification) {
	if err := m.dispatcher.Dispatch(n); err != nil {
		m.log.WithError(err).Warn("⚠️ notification failed")
	}
}

func newestFirst(orders []models.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}
