package models

import "time"

type WishlistEntry struct {
	ID        string    `json:"_id,omitempty"`
	UserID    string    `json:"userId"`
	ProductID string    `json:"productId"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Image     string    `json:"image"`
	Category  string    `json:"category"`
	AddedDate time.Time `json:"addedDate"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (w WishlistEntry) Validate() error {
	if w.UserID == "" || w.ProductID == "" {
		return ErrMissingField
	}
	return nil
}
