package usecase

import (
	"context"
	"testing"
	"time"

	"storefront/internal/domain"

	"github.com/stretchr/testify/require"
)

const (
	motoboyID  = "ship-motoboy"
	correiosID = "ship-correios"
)

var paulista = domain.Address{
	PostalCode:   "01310100",
	Street:       "Avenida Paulista",
	Neighborhood: "Bela Vista",
	City:         "São Paulo",
	Region:       "SP",
	IBGE:         3550308,
	DDD:          11,
}

var testShipping = staticShipping{
	{ID: motoboyID, Type: "Motoboy", Price: 10},
	{ID: correiosID, Type: "Correios", Price: 25.5},
}

var testProducts = map[string]domain.Product{
	"brigadeiro": {ID: "p-1", Name: "Brigadeiro", Image: "/img/brigadeiro.png", Price: 20, Slug: "brigadeiro"},
	"beijinho":   {ID: "p-2", Name: "Beijinho", Image: "/img/beijinho.png", Price: 7.5, Slug: "beijinho"},
}

type harness struct {
	sessions *memSessions
	manager  *SessionManager
	lookup   *fakeLookup
	orders   *memOrders
	payments *fakePayments
	products *memProducts

	catalog  domain.CatalogUseCase
	cart     domain.CartUseCase
	address  domain.AddressUseCase
	shipping domain.ShippingUseCase
	checkout domain.CheckoutUseCase
	payment  domain.PaymentUseCase
	dash     domain.DashboardUseCase
}

func newHarness() *harness {
	log := quietLogger()
	h := &harness{
		sessions: newMemSessions(),
		lookup:   &fakeLookup{addresses: map[string]domain.Address{"01310100": paulista}},
		orders:   newMemOrders(),
		payments: &fakePayments{},
		products: &memProducts{products: testProducts},
	}
	h.manager = NewSessionManager(h.sessions, log)
	h.catalog = NewCatalogUseCase(h.products, noResellers{}, testShipping, nil, log)
	h.cart = NewCartUseCase(h.manager, h.catalog, log)
	h.address = NewAddressUseCase(h.manager, h.lookup, log)
	h.shipping = NewShippingUseCase(h.manager, testShipping, "Sao Paulo", "WhatsApp", log)
	h.checkout = NewCheckoutUseCase(h.manager, h.orders, h.payments, motoboyID, log)
	h.payment = NewPaymentUseCase(h.orders, log)
	h.dash = NewDashboardUseCase(h.orders, motoboyID, log)
	return h
}

// ready puts a session where the checkout page can be submitted: two
// brigadeiros, the Paulista address and motoboy shipping, 50.00 in total.
func (h *harness) ready(t *testing.T, sid string) {
	t.Helper()
	ctx := context.Background()
	_, err := h.cart.AddItem(ctx, sid, "brigadeiro", 2)
	require.NoError(t, err)
	_, err = h.address.Resolve(ctx, sid, "01310-100")
	require.NoError(t, err)
	_, err = h.shipping.Select(ctx, sid, motoboyID)
	require.NoError(t, err)
}

func validForm(method domain.PaymentMethod) domain.BuyerForm {
	at := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	return domain.BuyerForm{
		Name:          "Maria",
		LastName:      "Silva",
		Email:         "maria@example.com",
		Phone:         "(11) 98765-4321",
		Street:        "Avenida Paulista",
		Number:        "1000",
		Neighborhood:  "Bela Vista",
		City:          "São Paulo",
		Region:        "sp",
		PostalCode:    "01310-100",
		PaymentMethod: string(method),
		DeliveryTime:  &at,
	}
}
