package models

import (
	"strings"
	"time"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"    // placed, awaiting processing
	OrderStatusProcessing OrderStatus = "processing" // being prepared
	OrderStatusShipped    OrderStatus = "shipped"    // out for delivery
	OrderStatusDelivered  OrderStatus = "delivered"  // customer received it
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// ParseOrderStatus maps a case-insensitive status name to an OrderStatus.
func ParseOrderStatus(status string) (OrderStatus, error) {
	switch OrderStatus(strings.ToLower(strings.TrimSpace(status))) {
	case OrderStatusPending:
		return OrderStatusPending, nil
	case OrderStatusProcessing:
		return OrderStatusProcessing, nil
	case OrderStatusShipped:
		return OrderStatusShipped, nil
	case OrderStatusDelivered:
		return OrderStatusDelivered, nil
	case OrderStatusCancelled:
		return OrderStatusCancelled, nil
	default:
		return "", ErrInvalidOrderStatus
	}
}

type Order struct {
	ID           string       `json:"_id,omitempty"`
	Reference    string       `json:"reference"`
	UserID       string       `json:"userId"`
	Owner        string       `json:"owner"`
	Items        []OrderItem  `json:"items"`
	Total        float64      `json:"total"`
	Status       OrderStatus  `json:"status"`
	ShippingInfo ShippingInfo `json:"shippingAddress"`
	PaymentInfo  PaymentInfo  `json:"paymentInfo"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

type OrderItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

type ShippingInfo struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Address  string `json:"address"`
}

// PaymentInfo is what gets stored for an order: the card number is masked and
// the CVV never leaves the checkout request.
type PaymentInfo struct {
	CardHolder string `json:"cardHolder"`
	CardNumber string `json:"cardNumber"`
	ExpiryDate string `json:"expiryDate"`
}

// PaymentDetails is the raw payment input collected at checkout.
type PaymentDetails struct {
	CardHolder string `json:"cardHolder"`
	CardNumber string `json:"cardNumber"`
	ExpiryDate string `json:"expiryDate"`
	CVV        string `json:"cvv"`
}

func (s ShippingInfo) Validate() error {
	if strings.TrimSpace(s.FullName) == "" || strings.TrimSpace(s.Email) == "" || strings.TrimSpace(s.Address) == "" {
		return ErrMissingField
	}
	return nil
}

func (p PaymentDetails) Validate() error {
	digits := onlyDigits(p.CardNumber)
	if len(digits) < 12 || len(digits) > 19 {
		return ErrInvalidPayment
	}
	if strings.TrimSpace(p.ExpiryDate) == "" {
		return ErrInvalidPayment
	}
	if cvv := onlyDigits(p.CVV); len(cvv) < 3 || len(cvv) > 4 || len(cvv) != len(p.CVV) {
		return ErrInvalidPayment
	}
	return nil
}

// Masked drops the CVV and keeps the last four digits of the card number.
func (p PaymentDetails) Masked() PaymentInfo {
	digits := onlyDigits(p.CardNumber)
	last4 := digits
	if len(digits) > 4 {
		last4 = digits[len(digits)-4:]
	}
	return PaymentInfo{
		CardHolder: p.CardHolder,
		CardNumber: "**** **** **** " + last4,
		ExpiryDate: p.ExpiryDate,
	}
}

func (o Order) Validate() error {
	if len(o.Items) == 0 {
		return ErrEmptyCart
	}
	for _, item := range o.Items {
		if item.Quantity < 1 {
			return ErrInvalidQuantity
		}
	}
	if _, err := ParseOrderStatus(string(o.Status)); err != nil {
		return err
	}
	return o.ShippingInfo.Validate()
}

// ComputeTotal sums price x quantity over the item snapshot.
func (o Order) ComputeTotal() float64 {
	var total float64
	for _, item := range o.Items {
		total += item.Price * float64(item.Quantity)
	}
	return RoundCents(total)
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
