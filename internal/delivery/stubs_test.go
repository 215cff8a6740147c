package delivery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"storefront/internal/delivery/middleware"
	"storefront/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	operatorToken = "let-me-in"
	webhookSecret = "hook-secret"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// stubUseCases implements every use case interface the router needs. err,
// when set, is returned by every call.
type stubUseCases struct {
	mu            sync.Mutex
	err           error
	sessionIDs    []string
	cachedProduct bool
	notifications []string
}

func (s *stubUseCases) record(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessionIDs = append(s.sessionIDs, sessionID)
	return s.err
}

func (s *stubUseCases) lastSession() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sessionIDs) == 0 {
		return ""
	}
	return s.sessionIDs[len(s.sessionIDs)-1]
}

func sampleSession(id string) *domain.Session {
	sess := domain.NewSession(id)
	sess.Cart.AddItem(domain.CartLineItem{ID: "p-1", Name: "Brigadeiro", Price: 20, Slug: "brigadeiro"}, 2)
	return sess
}

func (s *stubUseCases) GetCart(_ context.Context, id string) (*domain.Session, error) {
	if err := s.record(id); err != nil {
		return nil, err
	}
	return sampleSession(id), nil
}

func (s *stubUseCases) AddItem(_ context.Context, id, _ string, _ int) (*domain.Session, error) {
	if err := s.record(id); err != nil {
		return nil, err
	}
	return sampleSession(id), nil
}

func (s *stubUseCases) IncrementQuantity(ctx context.Context, id, _ string) (*domain.Session, error) {
	return s.GetCart(ctx, id)
}

func (s *stubUseCases) DecrementQuantity(ctx context.Context, id, _ string) (*domain.Session, error) {
	return s.GetCart(ctx, id)
}

func (s *stubUseCases) RemoveItem(ctx context.Context, id, _ string) (*domain.Session, error) {
	return s.GetCart(ctx, id)
}

func (s *stubUseCases) Resolve(_ context.Context, id, postalCode string) (*domain.Address, error) {
	if err := s.record(id); err != nil {
		return nil, err
	}
	return &domain.Address{PostalCode: postalCode, City: "São Paulo", Region: "SP"}, nil
}

func (s *stubUseCases) AvailableMethods(_ context.Context, id string) ([]domain.ShippingMethod, error) {
	if err := s.record(id); err != nil {
		return nil, err
	}
	return []domain.ShippingMethod{{ID: "m-1", Type: "Motoboy", Price: 10}}, nil
}

func (s *stubUseCases) Select(_ context.Context, id, methodID string) (*domain.Session, error) {
	if err := s.record(id); err != nil {
		return nil, err
	}
	sess := sampleSession(id)
	sess.SetAddress(domain.Address{PostalCode: "01310100", City: "São Paulo"})
	sess.SelectShipping(domain.ShippingSelection{ID: methodID, Type: "Motoboy", Price: 10})
	return sess, nil
}

func (s *stubUseCases) GetCheckout(ctx context.Context, id string) (*domain.Session, error) {
	return s.GetCart(ctx, id)
}

func (s *stubUseCases) Submit(_ context.Context, id string, form domain.BuyerForm) (*domain.Session, error) {
	if err := s.record(id); err != nil {
		return nil, err
	}
	sess := sampleSession(id)
	sess.Checkout = domain.Checkout{
		State:         domain.CheckoutReceivedPix,
		OrderID:       "order-1",
		PaymentMethod: domain.PaymentMethod(form.PaymentMethod),
		Total:         50,
		Pix:           &domain.PixInstruction{TransactionID: "tx-1", QRCodeText: "000201"},
		PaymentLabel:  domain.PaymentLabelPending,
	}
	sess.Cart.Clear()
	return sess, nil
}

func (s *stubUseCases) Refresh(ctx context.Context, id string) (*domain.Session, error) {
	return s.GetCart(ctx, id)
}

func (s *stubUseCases) Restart(ctx context.Context, id string) (*domain.Session, error) {
	return s.GetCart(ctx, id)
}

func (s *stubUseCases) HandleNotification(_ context.Context, txid, status string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(s.notifications, txid+":"+status)
	if s.err != nil {
		return nil, s.err
	}
	if status != "PAID" {
		return nil, nil
	}
	return &domain.Order{ID: "order-1", Status: domain.StatusProcessing, TxID: txid}, nil
}

func (s *stubUseCases) ListOrders(context.Context) ([]domain.OrderSummary, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []domain.OrderSummary{{ID: "order-1", Status: domain.StatusPending, TotalDisplay: "R$ 50,00"}}, nil
}

func (s *stubUseCases) GetOrderDetail(_ context.Context, id string) (*domain.OrderDetail, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.OrderDetail{Order: domain.OrderSummary{ID: id}, Items: []domain.OrderItem{}, Address: &domain.ShippingAddress{}}, nil
}

func (s *stubUseCases) GetOrderItems(context.Context, string) ([]domain.OrderItem, error) {
	return []domain.OrderItem{}, s.err
}

func (s *stubUseCases) GetClientInfo(_ context.Context, id string) (*domain.ShippingAddress, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.ShippingAddress{ID: id, City: "São Paulo"}, nil
}

func (s *stubUseCases) MarkDelivered(_ context.Context, id string) ([]domain.OrderSummary, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []domain.OrderSummary{{ID: id, Status: domain.StatusDelivered}}, nil
}

func (s *stubUseCases) ListProducts(context.Context) ([]domain.Product, error) {
	return []domain.Product{{ID: "p-1", Slug: "brigadeiro"}}, s.err
}

func (s *stubUseCases) GetProductBySlug(_ context.Context, slug string) (*domain.Product, bool, error) {
	if s.err != nil {
		return nil, false, s.err
	}
	return &domain.Product{ID: "p-1", Slug: slug}, s.cachedProduct, nil
}

func (s *stubUseCases) ListProductSlugs(context.Context) ([]string, error) {
	return []string{"brigadeiro"}, s.err
}

func (s *stubUseCases) ListResellers(context.Context) ([]domain.Reseller, error) {
	return []domain.Reseller{}, s.err
}

func (s *stubUseCases) ListShippingMethods(context.Context) ([]domain.ShippingMethod, error) {
	return []domain.ShippingMethod{}, s.err
}

type stubPinger struct{ err error }

func (p stubPinger) PingContext(context.Context) error { return p.err }

func newTestRouter(t *testing.T, uc *stubUseCases, db Pinger) *gin.Engine {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(operatorToken), bcrypt.MinCost)
	require.NoError(t, err)

	var n int
	var mu sync.Mutex
	newID := func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("sid-%d", n)
	}

	log := quietLogger()
	store := middleware.NewCookieStore([]byte("0123456789abcdef0123456789abcdef"), middleware.SessionCookieOptions{})
	return NewRouter(RouterConfig{
		AllowedOrigins:    []string{"http://localhost:3000"},
		OperatorTokenHash: string(hash),
		SessionStore:      store,
		NewSessionID:      newID,
	}, Handlers{
		Health:    NewHealthHandler(db),
		Catalog:   NewCatalogHandler(uc, log),
		Cart:      NewCartHandler(uc, log),
		Address:   NewAddressHandler(uc, uc, log),
		Checkout:  NewCheckoutHandler(uc, log),
		Webhook:   NewWebhookHandler(uc, webhookSecret, log),
		Dashboard: NewDashboardHandler(uc, log),
	}, log)
}

func doRequest(r http.Handler, method, path, body string, mutate func(*http.Request)) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if mutate != nil {
		mutate(req)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

var errBoom = errors.New("boom")
