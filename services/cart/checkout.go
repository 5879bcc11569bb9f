package cart

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/junaidrashid-git/shopeasy-api/models"
	"github.com/junaidrashid-git/shopeasy-api/notify"
)

// Checkout turns the owner's cart into a pending order and clears the cart.
// Either both happen or neither: an order whose cart cannot be cleared is
// deleted again. Only one checkout per owner runs at a time.
func (m *Manager) Checkout(ctx context.Context, owner, userID string, shipping models.ShippingInfo, payment models.PaymentDetails) (models.Order, error) {
	if !m.begin(owner) {
		return models.Order{}, models.ErrCheckoutInProgress
	}
	defer m.end(owner)

	unlock := m.lock(owner)
	defer unlock()

	c, err := m.Get(ctx, owner)
	if err != nil {
		return models.Order{}, err
	}
	if c.IsEmpty() {
		return models.Order{}, models.ErrEmptyCart
	}
	if err := shipping.Validate(); err != nil {
		return models.Order{}, err
	}
	if err := payment.Validate(); err != nil {
		return models.Order{}, err
	}

	order := models.Order{
		UserID:       userID,
		Owner:        owner,
		Status:       models.OrderStatusPending,
		ShippingInfo: shipping,
		PaymentInfo:  payment.Masked(),
	}
	for _, item := range c.Items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}
	order.Total = c.Total()

	placed, err := m.orders.Place(ctx, order)
	if err != nil {
		return models.Order{}, errors.Wrap(err, "place order")
	}

	if err := m.clear(ctx, owner); err != nil {
		if delErr := m.orders.Delete(ctx, placed.ID); delErr != nil {
			m.log.WithError(delErr).WithField("order", placed.ID).Error("❌ failed to roll back order after cart clear failure")
		}
		return models.Order{}, errors.Wrap(err, "clear cart")
	}

	m.log.WithFields(logrus.Fields{"order": placed.ID, "owner": owner, "total": placed.Total}).Info("✅ Checkout complete")
	m.notify(notify.New("order.placed", notify.Success, "Order placed successfully!", owner).With(placed))
	return placed, nil
}

func (m *Manager) begin(owner string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.inFlight[owner] {
		return false
	}
	m.inFlight[owner] = true
	return true
}

func (m *Manager) end(owner string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.inFlight, owner)
}

// CheckingOut reports whether a checkout for owner is running.
func (m *Manager) CheckingOut(owner string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inFlight[owner]
}
