package domain

import (
	"context"
	"time"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusDelivered  OrderStatus = "DELIVERED"
)

type Order struct {
	ID               string        `json:"id"`
	ClientName       string        `json:"client_name"`
	ClientLastName   string        `json:"client_last_name"`
	ClientEmail      string        `json:"client_email"`
	ClientPhone      string        `json:"client_phone,omitempty"`
	TotalValue       float64       `json:"total_value"`
	PaymentMethod    PaymentMethod `json:"payment_method"`
	DeliveryTime     *time.Time    `json:"delivery_time,omitempty"`
	HasLobby         bool          `json:"has_lobby"`
	Status           OrderStatus   `json:"status"`
	TxID             string        `json:"txid,omitempty"`
	ShippingMethodID string        `json:"shipping_method_id"`
	AddressID        string        `json:"address_id"`
	CreatedAt        time.Time     `json:"created_at"`
}

// OrderItem keeps the unit value captured when the order was placed, so
// later catalog price changes never alter a historical order.
type OrderItem struct {
	ID           string  `json:"id"`
	Quantity     int     `json:"quantity"`
	Value        float64 `json:"value"`
	OrderID      string  `json:"order_id"`
	ProductID    string  `json:"product_id"`
	ProductName  string  `json:"product_name,omitempty"`
	ProductImage string  `json:"product_image,omitempty"`
}

// ShippingAddress is the immutable delivery snapshot attached to one order.
type ShippingAddress struct {
	ID           string `json:"id"`
	Street       string `json:"street"`
	Number       int    `json:"number"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	Region       string `json:"region"`
	PostalCode   string `json:"postal_code"`
}

type OrderRepository interface {
	// CreateOrder inserts the order and its shipping address and returns the
	// order with generated id, address id and timestamps filled in.
	CreateOrder(ctx context.Context, order *Order, address *ShippingAddress) (*Order, error)
	CreateOrderItems(ctx context.Context, orderID string, items []OrderItem) error
	ListOrders(ctx context.Context) ([]Order, error)
	GetOrderByID(ctx context.Context, id string) (*Order, error)
	GetOrderItems(ctx context.Context, orderID string) ([]OrderItem, error)
	GetShippingAddressByID(ctx context.Context, id string) (*ShippingAddress, error)
	UpdateOrderStatus(ctx context.Context, id string, status OrderStatus) (*Order, error)
	UpdateOrderTxID(ctx context.Context, id, txid string) error
	MarkProcessingByTxID(ctx context.Context, txid string) (*Order, error)
}

func IsValidStatus(status OrderStatus) bool {
	switch status {
	case StatusPending, StatusProcessing, StatusDelivered:
		return true
	default:
		return false
	}
}

// IsPaid reports whether the provider has confirmed payment for the order.
func (o *Order) IsPaid() bool {
	return o.Status == StatusProcessing || o.Status == StatusDelivered
}

// OrderSummary is the dashboard row. Delivery time and lobby only apply to
// motoboy deliveries and are left out for every other method.
type OrderSummary struct {
	ID               string        `json:"id"`
	ClientName       string        `json:"client_name"`
	ClientLastName   string        `json:"client_last_name"`
	ClientEmail      string        `json:"client_email"`
	ClientPhone      string        `json:"client_phone,omitempty"`
	TotalValue       float64       `json:"total_value"`
	TotalDisplay     string        `json:"total_display"`
	PaymentMethod    PaymentMethod `json:"payment_method"`
	Status           OrderStatus   `json:"status"`
	TxID             string        `json:"txid,omitempty"`
	ShippingMethodID string        `json:"shipping_method_id"`
	AddressID        string        `json:"address_id"`
	CreatedAt        time.Time     `json:"created_at"`
	IsMotoboy        bool          `json:"is_motoboy"`
	DeliveryTime     *time.Time    `json:"delivery_time,omitempty"`
	HasLobby         *bool         `json:"has_lobby,omitempty"`
}

func SummarizeOrder(o Order, motoboyMethodID string) OrderSummary {
	s := OrderSummary{
		ID:               o.ID,
		ClientName:       o.ClientName,
		ClientLastName:   o.ClientLastName,
		ClientEmail:      o.ClientEmail,
		ClientPhone:      o.ClientPhone,
		TotalValue:       o.TotalValue,
		TotalDisplay:     FormatBRL(o.TotalValue),
		PaymentMethod:    o.PaymentMethod,
		Status:           o.Status,
		TxID:             o.TxID,
		ShippingMethodID: o.ShippingMethodID,
		AddressID:        o.AddressID,
		CreatedAt:        o.CreatedAt,
	}
	if motoboyMethodID != "" && o.ShippingMethodID == motoboyMethodID {
		lobby := o.HasLobby
		s.IsMotoboy = true
		s.DeliveryTime = o.DeliveryTime
		s.HasLobby = &lobby
	}
	return s
}

// OrderDetail is one expanded dashboard row.
type OrderDetail struct {
	Order   OrderSummary     `json:"order"`
	Items   []OrderItem      `json:"items"`
	Address *ShippingAddress `json:"address"`
}
