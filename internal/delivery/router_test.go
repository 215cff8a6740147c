package delivery

import (
	"encoding/json"
	"net/http"
	"testing"

	"storefront/internal/delivery/middleware"
	"storefront/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Status  string          `json:"Status"`
	Message string          `json:"Message"`
	Data    json.RawMessage `json:"Data"`
}

func decode(t *testing.T, body []byte) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(body, &env))
	return env
}

func TestRouter_SessionCookieIsIssuedAndReused(t *testing.T) {
	uc := &stubUseCases{}
	r := newTestRouter(t, uc, stubPinger{})

	w := doRequest(r, http.MethodGet, "/api/cart", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	first := uc.lastSession()
	assert.Equal(t, "sid-1", first)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	cookie := cookies[0]
	assert.Equal(t, "storefront", cookie.Name)
	assert.True(t, cookie.HttpOnly)

	w = doRequest(r, http.MethodPost, "/api/cart/items", `{"slug":"brigadeiro","quantity":2}`, func(req *http.Request) {
		req.AddCookie(cookie)
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, first, uc.lastSession())

	var view struct {
		ItemCount    int    `json:"item_count"`
		TotalDisplay string `json:"total_display"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w.Body.Bytes()).Data, &view))
	assert.Equal(t, 2, view.ItemCount)
	assert.Equal(t, "R$ 40,00", view.TotalDisplay)
}

func TestRouter_TamperedCookieStartsNewSession(t *testing.T) {
	uc := &stubUseCases{}
	r := newTestRouter(t, uc, stubPinger{})

	w := doRequest(r, http.MethodGet, "/api/checkout", "", func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "storefront", Value: "forged"})
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "sid-1", uc.lastSession())
}

func TestRouter_OperatorAuth(t *testing.T) {
	r := newTestRouter(t, &stubUseCases{}, stubPinger{})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "missing", header: "", want: http.StatusUnauthorized},
		{name: "malformed", header: "Token " + operatorToken, want: http.StatusUnauthorized},
		{name: "wrong token", header: "Bearer nope", want: http.StatusForbidden},
		{name: "operator", header: "Bearer " + operatorToken, want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(r, http.MethodGet, "/api/dashboard/orders", "", func(req *http.Request) {
				if tt.header != "" {
					req.Header.Set("Authorization", tt.header)
				}
			})
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRouter_DashboardDoesNotIssueCookies(t *testing.T) {
	r := newTestRouter(t, &stubUseCases{}, stubPinger{})

	w := doRequest(r, http.MethodPost, "/api/dashboard/orders/order-1/deliver", "", func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+operatorToken)
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Result().Cookies())

	var orders []domain.OrderSummary
	require.NoError(t, json.Unmarshal(decode(t, w.Body.Bytes()).Data, &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, domain.StatusDelivered, orders[0].Status)
}

func TestRouter_Webhook(t *testing.T) {
	uc := &stubUseCases{}
	r := newTestRouter(t, uc, stubPinger{})
	body := `{"transaction_id":"tx-1","status":"PAID"}`

	w := doRequest(r, http.MethodPost, "/api/webhooks/payments", body, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = doRequest(r, http.MethodPost, "/api/webhooks/payments", body, func(req *http.Request) {
		req.Header.Set(WebhookSecretHeader, "wrong")
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, uc.notifications)

	w = doRequest(r, http.MethodPost, "/api/webhooks/payments", body, func(req *http.Request) {
		req.Header.Set(WebhookSecretHeader, webhookSecret)
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"tx-1:PAID"}, uc.notifications)
	assert.Equal(t, "Payment confirmed", decode(t, w.Body.Bytes()).Message)

	w = doRequest(r, http.MethodPost, "/api/webhooks/payments", `{"transaction_id":"tx-1","status":"WAITING"}`, func(req *http.Request) {
		req.Header.Set(WebhookSecretHeader, webhookSecret)
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Notification acknowledged", decode(t, w.Body.Bytes()).Message)
}

func TestRouter_CheckoutSubmit(t *testing.T) {
	uc := &stubUseCases{}
	r := newTestRouter(t, uc, stubPinger{})

	w := doRequest(r, http.MethodPost, "/api/checkout", `{"name":"Maria","payment_method":"pix"}`, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var view struct {
		Checkout domain.Checkout `json:"checkout"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w.Body.Bytes()).Data, &view))
	assert.Equal(t, domain.CheckoutReceivedPix, view.Checkout.State)
	assert.Equal(t, "order-1", view.Checkout.OrderID)
	require.NotNil(t, view.Checkout.Pix)
	assert.Equal(t, "000201", view.Checkout.Pix.QRCodeText)

	w = doRequest(r, http.MethodPost, "/api/checkout", `{"name":`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "validation", err: domain.ValidationErrors{{Field: "email", Message: "must be a valid email address"}}, want: http.StatusBadRequest},
		{name: "shipping missing", err: domain.ErrShippingRequired, want: http.StatusBadRequest},
		{name: "closed", err: domain.ErrCheckoutClosed, want: http.StatusConflict},
		{name: "unavailable", err: &domain.ShippingUnavailableError{City: "Campinas", Contact: "WhatsApp"}, want: http.StatusUnprocessableEntity},
		{name: "provider", err: domain.ErrPaymentFailed, want: http.StatusBadGateway},
		{name: "unexpected", err: errBoom, want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(t, &stubUseCases{err: tt.err}, stubPinger{})
			w := doRequest(r, http.MethodPost, "/api/checkout", `{"payment_method":"pix"}`, nil)
			assert.Equal(t, tt.want, w.Code)
			assert.Equal(t, "Fail", decode(t, w.Body.Bytes()).Status)
		})
	}
}

func TestRouter_ErrorPayloads(t *testing.T) {
	r := newTestRouter(t, &stubUseCases{err: domain.ValidationErrors{{Field: "email", Message: "must be a valid email address"}}}, stubPinger{})
	w := doRequest(r, http.MethodPost, "/api/checkout", `{}`, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var fields []domain.FieldError
	require.NoError(t, json.Unmarshal(decode(t, w.Body.Bytes()).Data, &fields))
	assert.Equal(t, []domain.FieldError{{Field: "email", Message: "must be a valid email address"}}, fields)

	r = newTestRouter(t, &stubUseCases{err: &domain.ShippingUnavailableError{City: "Campinas", Contact: "WhatsApp"}}, stubPinger{})
	w = doRequest(r, http.MethodGet, "/api/shipping/options", "", nil)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	env := decode(t, w.Body.Bytes())
	assert.Contains(t, env.Message, "Campinas")
	assert.JSONEq(t, `{"contact":"WhatsApp"}`, string(env.Data))

	r = newTestRouter(t, &stubUseCases{err: errBoom}, stubPinger{})
	w = doRequest(r, http.MethodGet, "/api/cart", "", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, decode(t, w.Body.Bytes()).Message, "boom")
}

func TestRouter_ProductCacheHeader(t *testing.T) {
	uc := &stubUseCases{}
	r := newTestRouter(t, uc, stubPinger{})

	w := doRequest(r, http.MethodGet, "/api/products/brigadeiro", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))

	uc.cachedProduct = true
	w = doRequest(r, http.MethodGet, "/api/products/brigadeiro", "", nil)
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))

	uc.err = domain.ErrProductNotFound
	w = doRequest(r, http.MethodGet, "/api/products/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_ShippingSelection(t *testing.T) {
	r := newTestRouter(t, &stubUseCases{}, stubPinger{})

	w := doRequest(r, http.MethodPut, "/api/shipping", `{}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(r, http.MethodPut, "/api/shipping", `{"method_id":"m-1"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var view struct {
		OrderTotal    float64 `json:"order_total"`
		ShippingLabel string  `json:"shipping_display"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w.Body.Bytes()).Data, &view))
	assert.Equal(t, 50.0, view.OrderTotal)
	assert.Equal(t, "R$ 10,00", view.ShippingLabel)
}

func TestRouter_HealthAndRequestID(t *testing.T) {
	r := newTestRouter(t, &stubUseCases{}, stubPinger{})
	w := doRequest(r, http.MethodGet, "/api/health", "", func(req *http.Request) {
		req.Header.Set(middleware.RequestIDHeader, "req-42")
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "req-42", w.Header().Get(middleware.RequestIDHeader))

	r = newTestRouter(t, &stubUseCases{}, stubPinger{err: errBoom})
	w = doRequest(r, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}
