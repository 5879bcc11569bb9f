package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartTotals(t *testing.T) {
	cart := Cart{Owner: "session:abc", Items: []CartLineItem{
		{ProductID: "p1", Price: 19.99, Quantity: 2},
		{ProductID: "p2", Price: 0.1, Quantity: 3},
	}}

	assert.Equal(t, 40.28, cart.Total())
	assert.Equal(t, 5, cart.ItemCount())
	assert.Equal(t, 1, cart.Find("p2"))
	assert.Equal(t, -1, cart.Find("missing"))
	assert.False(t, cart.IsEmpty())
	assert.NoError(t, cart.Validate())

	cart.Items[0].Quantity = 0
	assert.True(t, errors.Is(cart.Validate(), ErrInvalid))
}

func TestParseOrderStatus(t *testing.T) {
	t.Run("case insensitive", func(t *testing.T) {
		status, err := ParseOrderStatus(" Shipped ")
		require.NoError(t, err)
		assert.Equal(t, OrderStatusShipped, status)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := ParseOrderStatus("returned")
		assert.ErrorIs(t, err, ErrInvalidOrderStatus)
		assert.ErrorIs(t, err, ErrInvalid)
	})
}

func TestPaymentDetails(t *testing.T) {
	details := PaymentDetails{CardHolder: "Jo Doe", CardNumber: "4111 1111 1111 1234", ExpiryDate: "12/29", CVV: "123"}
	require.NoError(t, details.Validate())

	masked := details.Masked()
	assert.Equal(t, "**** **** **** 1234", masked.CardNumber)
	assert.Equal(t, "12/29", masked.ExpiryDate)

	details.CVV = "12a"
	assert.ErrorIs(t, details.Validate(), ErrInvalidPayment)

	details.CVV = "123"
	details.CardNumber = "4111"
	assert.ErrorIs(t, details.Validate(), ErrInvalidPayment)
}

func TestReviewValidate(t *testing.T) {
	review := Review{ProductID: "p1", UserID: "u1", Rating: 5, Title: "Great", Comment: "Loved it"}
	assert.NoError(t, review.Validate())

	review.Rating = 6
	assert.ErrorIs(t, review.Validate(), ErrInvalidRating)

	review.Rating = 3
	review.Title = "  "
	assert.ErrorIs(t, review.Validate(), ErrMissingField)
}

func TestSessionState(t *testing.T) {
	s := Session{ID: "sess_1"}
	assert.Equal(t, SessionAnonymous, s.State())
	assert.Equal(t, "session:sess_1", s.CartOwner())

	s.UserID = "u1"
	assert.Equal(t, SessionAuthenticated, s.State())
	assert.Equal(t, "user:u1", s.CartOwner())

	s.ExpiresAt = time.Now().Add(-time.Minute)
	assert.True(t, s.Expired(time.Now()))
}

func TestOrderTotal(t *testing.T) {
	order := Order{
		Status:       OrderStatusPending,
		ShippingInfo: ShippingInfo{FullName: "Jo", Email: "jo@example.com", Address: "1 Main St"},
		Items: []OrderItem{
			{ProductID: "p1", Price: 10, Quantity: 2},
			{ProductID: "p2", Price: 2.5, Quantity: 1},
		},
	}
	assert.Equal(t, 22.5, order.ComputeTotal())
	assert.NoError(t, order.Validate())

	order.Items = nil
	assert.ErrorIs(t, order.Validate(), ErrEmptyCart)
}
