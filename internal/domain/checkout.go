package domain

import (
	"fmt"
	"time"
)

type CheckoutState string

const (
	CheckoutPreOrder     CheckoutState = "pre-order"
	CheckoutOrdering     CheckoutState = "ordering"
	CheckoutReceivedPix  CheckoutState = "order-received-pix"
	CheckoutReceivedLink CheckoutState = "order-received-link"
	CheckoutError        CheckoutState = "error"
)

const (
	PaymentLabelPending = "Pendente"
	PaymentLabelPaid    = "Pago"
)

var checkoutTransitions = map[CheckoutState][]CheckoutState{
	CheckoutPreOrder: {CheckoutOrdering},
	CheckoutOrdering: {CheckoutReceivedPix, CheckoutReceivedLink, CheckoutError},
}

func (s CheckoutState) IsTerminal() bool {
	return s == CheckoutReceivedPix || s == CheckoutReceivedLink || s == CheckoutError
}

// Checkout is the per-session checkout progress. The zero value is pre-order.
type Checkout struct {
	State         CheckoutState    `json:"state"                   msgpack:"state"`
	OrderID       string           `json:"order_id,omitempty"      msgpack:"order_id"`
	PaymentMethod PaymentMethod    `json:"payment_method,omitempty" msgpack:"payment_method"`
	Total         float64          `json:"total,omitempty"         msgpack:"total"`
	Pix           *PixInstruction  `json:"pix,omitempty"           msgpack:"pix"`
	Link          *LinkInstruction `json:"link,omitempty"          msgpack:"link"`
	PaymentLabel  string           `json:"payment_label,omitempty" msgpack:"payment_label"`
	Failure       string           `json:"failure,omitempty"       msgpack:"failure"`
}

func (c Checkout) Current() CheckoutState {
	if c.State == "" {
		return CheckoutPreOrder
	}
	return c.State
}

func (c *Checkout) TransitionTo(next CheckoutState) error {
	from := c.Current()
	for _, allowed := range checkoutTransitions[from] {
		if allowed == next {
			c.State = next
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, next)
}

// Restart starts a fresh checkout once the previous one reached a terminal
// state. It is the explicit equivalent of reloading the checkout page.
func (c *Checkout) Restart() error {
	switch {
	case c.Current() == CheckoutPreOrder:
		return nil
	case !c.Current().IsTerminal():
		return ErrCheckoutOpen
	}
	*c = Checkout{State: CheckoutPreOrder}
	return nil
}

// BrazilianStates lists the accepted region codes.
var BrazilianStates = []string{
	"AC", "AL", "AP", "AM", "BA", "CE", "DF", "ES", "GO", "MA", "MT", "MS", "MG", "PA",
	"PB", "PR", "PE", "PI", "RJ", "RN", "RS", "RO", "RR", "SC", "SP", "SE", "TO",
}

// BuyerForm is everything the buyer types on the checkout page.
type BuyerForm struct {
	Name          string     `json:"name"           validate:"required"`
	LastName      string     `json:"last_name"      validate:"required"`
	Email         string     `json:"email"          validate:"required,email"`
	Phone         string     `json:"phone"          validate:"omitempty,number"`
	Street        string     `json:"street"         validate:"required"`
	Number        string     `json:"number"         validate:"required,number"`
	Complement    string     `json:"complement"`
	Neighborhood  string     `json:"neighborhood"`
	City          string     `json:"city"           validate:"required"`
	Region        string     `json:"region"         validate:"required,brstate"`
	PostalCode    string     `json:"postal_code"    validate:"required,len=8,number"`
	PaymentMethod string     `json:"payment_method" validate:"required,oneof=pix cardOrBillet"`
	DeliveryTime  *time.Time `json:"delivery_time"`
	HasLobby      bool       `json:"has_lobby"`
}
