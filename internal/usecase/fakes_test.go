package usecase

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"storefront/internal/clients"
	"storefront/internal/domain"

	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type memSessions struct {
	mu    sync.Mutex
	data  map[string]domain.Session
	saves int
}

func newMemSessions() *memSessions {
	return &memSessions{data: map[string]domain.Session{}}
}

func cloneSession(s domain.Session) domain.Session {
	s.Cart.Items = append([]domain.CartLineItem(nil), s.Cart.Items...)
	if s.Checkout.Pix != nil {
		pix := *s.Checkout.Pix
		s.Checkout.Pix = &pix
	}
	if s.Checkout.Link != nil {
		link := *s.Checkout.Link
		s.Checkout.Link = &link
	}
	return s
}

func (m *memSessions) Load(_ context.Context, id string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.data[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	c := cloneSession(s)
	return &c, nil
}

func (m *memSessions) Save(_ context.Context, s *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	m.data[s.ID] = cloneSession(*s)
	return nil
}

func (m *memSessions) stored(id string) domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneSession(m.data[id])
}

type fakeLookup struct {
	mu        sync.Mutex
	calls     int
	addresses map[string]domain.Address
	err       error
}

func (f *fakeLookup) Lookup(_ context.Context, cep string) (*domain.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	a, ok := f.addresses[cep]
	if !ok {
		return nil, domain.ErrPostalCodeNotFound
	}
	return &a, nil
}

type staticShipping []domain.ShippingMethod

func (s staticShipping) ListShippingMethods(context.Context) ([]domain.ShippingMethod, error) {
	return append([]domain.ShippingMethod(nil), s...), nil
}

type memOrders struct {
	mu        sync.Mutex
	orders    map[string]*domain.Order
	items     map[string][]domain.OrderItem
	addresses map[string]*domain.ShippingAddress
	seq       int

	createOrderErr error
	createItemsErr error
}

func newMemOrders() *memOrders {
	return &memOrders{
		orders:    map[string]*domain.Order{},
		items:     map[string][]domain.OrderItem{},
		addresses: map[string]*domain.ShippingAddress{},
	}
}

func (m *memOrders) CreateOrder(_ context.Context, order *domain.Order, address *domain.ShippingAddress) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createOrderErr != nil {
		return nil, m.createOrderErr
	}
	m.seq++
	order.ID = fmt.Sprintf("order-%d", m.seq)
	address.ID = fmt.Sprintf("address-%d", m.seq)
	order.AddressID = address.ID
	order.CreatedAt = time.Date(2026, 1, 1, 0, m.seq, 0, 0, time.UTC)
	o := *order
	a := *address
	m.orders[o.ID] = &o
	m.addresses[a.ID] = &a
	return order, nil
}

func (m *memOrders) CreateOrderItems(_ context.Context, orderID string, items []domain.OrderItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createItemsErr != nil {
		return m.createItemsErr
	}
	for i := range items {
		items[i].ID = fmt.Sprintf("%s-item-%d", orderID, i)
		items[i].OrderID = orderID
	}
	m.items[orderID] = append(m.items[orderID], items...)
	return nil
}

func (m *memOrders) ListOrders(context.Context) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Order, 0, len(m.orders))
	for _, o := range m.orders {
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memOrders) GetOrderByID(_ context.Context, id string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	c := *o
	return &c, nil
}

func (m *memOrders) GetOrderItems(_ context.Context, orderID string) ([]domain.OrderItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.OrderItem{}, m.items[orderID]...), nil
}

func (m *memOrders) GetShippingAddressByID(_ context.Context, id string) (*domain.ShippingAddress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.addresses[id]
	if !ok {
		return nil, domain.ErrAddressNotFound
	}
	c := *a
	return &c, nil
}

func (m *memOrders) UpdateOrderStatus(_ context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	o.Status = status
	c := *o
	return &c, nil
}

func (m *memOrders) UpdateOrderTxID(_ context.Context, id, txid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.TxID = txid
	return nil
}

func (m *memOrders) MarkProcessingByTxID(_ context.Context, txid string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.TxID == txid {
			if o.Status == domain.StatusPending {
				o.Status = domain.StatusProcessing
			}
			c := *o
			return &c, nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

func (m *memOrders) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}

type fakePayments struct {
	mu       sync.Mutex
	requests []clients.PaymentRequest
	err      error
}

func (f *fakePayments) CreatePixOrder(_ context.Context, req clients.PaymentRequest) (*domain.PixInstruction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &domain.PixInstruction{TransactionID: "tx-" + req.ReferenceID, QRCodeText: "000201", QRCodeImage: "https://pay.example/qr.png"}, nil
}

func (f *fakePayments) CreatePaymentLink(_ context.Context, req clients.PaymentRequest) (*domain.LinkInstruction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &domain.LinkInstruction{PaymentURL: "https://pay.example/c/" + req.ReferenceID, ChargeID: "CHEC_" + req.ReferenceID}, nil
}

type memProducts struct {
	products map[string]domain.Product
	reads    int
}

func (m *memProducts) ListProducts(context.Context) ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, p)
	}
	return out, nil
}

func (m *memProducts) GetProductBySlug(_ context.Context, slug string) (*domain.Product, error) {
	m.reads++
	p, ok := m.products[slug]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return &p, nil
}

func (m *memProducts) ListProductSlugs(context.Context) ([]string, error) {
	out := make([]string, 0, len(m.products))
	for slug := range m.products {
		out = append(out, slug)
	}
	sort.Strings(out)
	return out, nil
}

type memCache struct {
	products map[string]domain.Product
}

func (m *memCache) GetProduct(_ context.Context, slug string) (*domain.Product, error) {
	p, ok := m.products[slug]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	return &p, nil
}

func (m *memCache) SetProduct(_ context.Context, p *domain.Product) error {
	m.products[p.Slug] = *p
	return nil
}

type noResellers struct{}

func (noResellers) ListResellers(context.Context) ([]domain.Reseller, error) {
	return []domain.Reseller{}, nil
}
