package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidPostalCode     = errors.New("invalid postal code: expected 8 digits")
	ErrPostalCodeNotFound    = errors.New("postal code not found")
	ErrLookupFailed          = errors.New("address lookup failed")
	ErrAddressRequired       = errors.New("address has not been resolved")
	ErrShippingRequired      = errors.New("shipping method has not been selected")
	ErrShippingUnavailable   = errors.New("shipping is unavailable for this city")
	ErrUnknownShippingMethod = errors.New("shipping method is not available for this address")
	ErrEmptyCart             = errors.New("cart is empty")
	ErrCheckoutClosed        = errors.New("checkout was already submitted in this session")
	ErrCheckoutOpen          = errors.New("checkout has not finished yet")
	ErrNothingToRefresh      = errors.New("no pix order is awaiting payment")
	ErrInvalidTransition     = errors.New("invalid checkout state transition")
	ErrInvalidPaymentMethod  = errors.New("invalid payment method")
	ErrPaymentFailed         = errors.New("payment provider request failed")
	ErrOrderNotFound         = errors.New("order not found")
	ErrAddressNotFound       = errors.New("shipping address not found")
	ErrProductNotFound       = errors.New("product not found")
	ErrSessionNotFound       = errors.New("session not found")
	ErrCacheMiss             = errors.New("cache miss")
)

// FieldError is a single inline validation message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is returned when user input fails presence or format
// rules. It is always recoverable by correcting the input.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ShippingUnavailableError tells the buyer where to go when their city is
// outside the delivery area.
type ShippingUnavailableError struct {
	City    string
	Contact string
}

func (e *ShippingUnavailableError) Error() string {
	return fmt.Sprintf("we do not deliver to %s yet, please contact us via %s", e.City, e.Contact)
}

func (e *ShippingUnavailableError) Unwrap() error {
	return ErrShippingUnavailable
}
