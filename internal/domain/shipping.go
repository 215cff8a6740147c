package domain

import "context"

type ShippingMethod struct {
	ID    string  `json:"id"    yaml:"id"`
	Type  string  `json:"type"  yaml:"type"`
	Price float64 `json:"price" yaml:"price"`
}

// ShippingSelection is the method chosen for the current address. The zero
// value means nothing is selected.
type ShippingSelection struct {
	Type  string  `json:"type"  msgpack:"type"`
	Price float64 `json:"price" msgpack:"price"`
	ID    string  `json:"id"    msgpack:"id"`
}

func (s ShippingSelection) IsEmpty() bool {
	return s.ID == ""
}

func SelectionFor(m ShippingMethod) ShippingSelection {
	return ShippingSelection{Type: m.Type, Price: m.Price, ID: m.ID}
}

type ShippingMethodSource interface {
	ListShippingMethods(ctx context.Context) ([]ShippingMethod, error)
}
