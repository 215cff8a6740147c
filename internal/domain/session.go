package domain

import (
	"context"
	"time"
)

// Session is the shopper state that a browser would otherwise keep in local
// storage. It is loaded, changed through its methods and saved back on every
// mutation.
type Session struct {
	ID        string            `json:"id"         msgpack:"id"`
	Cart      Cart              `json:"cart"       msgpack:"cart"`
	Address   Address           `json:"address"    msgpack:"address"`
	Shipping  ShippingSelection `json:"shipping"   msgpack:"shipping"`
	Checkout  Checkout          `json:"checkout"   msgpack:"checkout"`
	UpdatedAt time.Time         `json:"updated_at" msgpack:"updated_at"`
}

func NewSession(id string) *Session {
	return &Session{ID: id, Checkout: Checkout{State: CheckoutPreOrder}}
}

// ClearAddress drops the address and, with it, the shipping selection.
func (s *Session) ClearAddress() {
	s.Address = Address{}
	s.Shipping = ShippingSelection{}
}

// SetAddress replaces the address. Any previous shipping choice is dropped so
// a price is never charged against a different address.
func (s *Session) SetAddress(a Address) {
	s.Address = a
	s.Shipping = ShippingSelection{}
}

func (s *Session) SelectShipping(sel ShippingSelection) {
	s.Shipping = sel
}

// Subtotal is the cart total without shipping.
func (s *Session) Subtotal() float64 {
	return s.Cart.Total()
}

// OrderTotal is the cart subtotal plus the selected shipping price.
func (s *Session) OrderTotal() float64 {
	return AddMoney(s.Cart.Total(), s.Shipping.Price)
}

// SessionRepository returns ErrSessionNotFound from Load for unknown ids.
type SessionRepository interface {
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, session *Session) error
}
