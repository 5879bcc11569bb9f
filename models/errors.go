package models

import (
	"errors"
	"fmt"
)

// Error classes. Domain errors wrap one of these so the HTTP layer can map
// them to a status code with errors.Is.
var (
	ErrNotFound = errors.New("not found")
	ErrInvalid  = errors.New("invalid input")
	ErrConflict = errors.New("already exists")
)

var (
	ErrProductNotFound = fmt.Errorf("product %w", ErrNotFound)
	ErrReviewNotFound  = fmt.Errorf("review %w", ErrNotFound)
	ErrOrderNotFound   = fmt.Errorf("order %w", ErrNotFound)
	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)
	ErrSessionNotFound = fmt.Errorf("session %w", ErrNotFound)

	ErrMissingField       = fmt.Errorf("%w: required field is empty", ErrInvalid)
	ErrInvalidRating      = fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalid)
	ErrInvalidPrice       = fmt.Errorf("%w: price must not be negative", ErrInvalid)
	ErrInvalidQuantity    = fmt.Errorf("%w: quantity must be at least 1", ErrInvalid)
	ErrInvalidOrderStatus = fmt.Errorf("%w: invalid order status", ErrInvalid)
	ErrInvalidPayment     = fmt.Errorf("%w: invalid payment details", ErrInvalid)
	ErrPasswordMismatch   = fmt.Errorf("%w: passwords do not match", ErrInvalid)
	ErrEmptyCart          = fmt.Errorf("%w: your cart is empty", ErrInvalid)

	ErrEmailTaken    = fmt.Errorf("email %w", ErrConflict)
	ErrUsernameTaken = fmt.Errorf("username %w", ErrConflict)

	ErrCheckoutInProgress = errors.New("checkout already in progress")
	ErrNotAuthenticated   = errors.New("please login first")
	ErrForbidden          = errors.New("not allowed")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
