package delivery

import "storefront/internal/domain"

type cartView struct {
	Items        []domain.CartLineItem `json:"items"`
	ItemCount    int                   `json:"item_count"`
	Total        float64               `json:"total"`
	TotalDisplay string                `json:"total_display"`
}

func newCartView(cart domain.Cart) cartView {
	items := cart.Items
	if items == nil {
		items = []domain.CartLineItem{}
	}
	return cartView{
		Items:        items,
		ItemCount:    cart.ItemCount(),
		Total:        cart.Total(),
		TotalDisplay: domain.FormatBRL(cart.Total()),
	}
}

type sessionView struct {
	Cart          cartView                  `json:"cart"`
	Address       *domain.Address           `json:"address,omitempty"`
	Shipping      *domain.ShippingSelection `json:"shipping,omitempty"`
	Checkout      domain.Checkout           `json:"checkout"`
	Subtotal      float64                   `json:"subtotal"`
	OrderTotal    float64                   `json:"order_total"`
	TotalDisplay  string                    `json:"order_total_display"`
	ShippingLabel string                    `json:"shipping_display,omitempty"`
}

func newSessionView(s *domain.Session) sessionView {
	v := sessionView{
		Cart:         newCartView(s.Cart),
		Checkout:     s.Checkout,
		Subtotal:     s.Subtotal(),
		OrderTotal:   s.OrderTotal(),
		TotalDisplay: domain.FormatBRL(s.OrderTotal()),
	}
	v.Checkout.State = s.Checkout.Current()
	if s.Address.IsResolved() {
		a := s.Address
		v.Address = &a
	}
	if !s.Shipping.IsEmpty() {
		sel := s.Shipping
		v.Shipping = &sel
		v.ShippingLabel = domain.FormatBRL(sel.Price)
	}
	return v
}
