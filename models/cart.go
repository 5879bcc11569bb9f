package models

import (
	"math"
	"time"
)

// Cart holds one owner's line items. Owner is "user:<id>" for signed-in
// shoppers and "session:<id>" for guests.
type Cart struct {
	ID        string         `json:"_id,omitempty"`
	Owner     string         `json:"owner"`
	Items     []CartLineItem `json:"items"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// CartLineItem snapshots the product at the time it was added.
type CartLineItem struct {
	ProductID string    `json:"productId"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Image     string    `json:"image"`
	Category  string    `json:"category"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"addedAt"`
}

func (c Cart) Validate() error {
	if c.Owner == "" {
		return ErrMissingField
	}
	for _, item := range c.Items {
		if item.ProductID == "" {
			return ErrMissingField
		}
		if item.Quantity < 1 {
			return ErrInvalidQuantity
		}
	}
	return nil
}

// Find returns the index of the line item for productID, or -1.
func (c Cart) Find(productID string) int {
	for i, item := range c.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

// Total is recomputed from the line items on every call.
func (c Cart) Total() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Price * float64(item.Quantity)
	}
	return RoundCents(total)
}

func (c Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
