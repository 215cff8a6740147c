package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"storefront/internal/domain"

	"github.com/sirupsen/logrus"
)

// PaymentRequest is everything the provider needs for either branch. All
// amounts are in minor units (centavos).
type PaymentRequest struct {
	ReferenceID string
	Customer    PaymentCustomer
	Items       []PaymentItem
	Shipping    PaymentShipping
}

type PaymentCustomer struct {
	Name  string
	Email string
	Phone string
}

type PaymentItem struct {
	ReferenceID string
	Name        string
	Quantity    int
	UnitAmount  int64
}

type PaymentShipping struct {
	Street       string
	Number       string
	Complement   string
	Neighborhood string
	City         string
	Region       string
	PostalCode   string
	Amount       int64
}

// Total is the charge amount: every item line plus shipping.
func (r PaymentRequest) Total() int64 {
	total := r.Shipping.Amount
	for _, it := range r.Items {
		total += it.UnitAmount * int64(it.Quantity)
	}
	return total
}

type PaymentClient interface {
	CreatePixOrder(ctx context.Context, req PaymentRequest) (*domain.PixInstruction, error)
	CreatePaymentLink(ctx context.Context, req PaymentRequest) (*domain.LinkInstruction, error)
}

type paymentHTTPClient struct {
	baseURL         string
	token           string
	notificationURL string
	redirectURL     string
	client          *http.Client
	log             *logrus.Logger
}

func NewPaymentHTTPClient(baseURL, token, notificationURL, redirectURL string, timeout time.Duration, logger *logrus.Logger) PaymentClient {
	return &paymentHTTPClient{
		baseURL:         strings.TrimRight(baseURL, "/"),
		token:           token,
		notificationURL: notificationURL,
		redirectURL:     redirectURL,
		client: &http.Client{
			Timeout: timeout,
		},
		log: logger,
	}
}

type wireAmount struct {
	Value    int64  `json:"value"`
	Currency string `json:"currency,omitempty"`
}

type wirePhone struct {
	Country string `json:"country"`
	Area    string `json:"area"`
	Number  string `json:"number"`
	Type    string `json:"type"`
}

type wireCustomer struct {
	Name   string      `json:"name"`
	Email  string      `json:"email"`
	Phones []wirePhone `json:"phones,omitempty"`
}

type wireItem struct {
	ReferenceID string `json:"reference_id"`
	Name        string `json:"name"`
	Quantity    int    `json:"quantity"`
	UnitAmount  int64  `json:"unit_amount"`
}

type wireAddress struct {
	Street     string `json:"street"`
	Number     string `json:"number"`
	Complement string `json:"complement,omitempty"`
	Locality   string `json:"locality"`
	City       string `json:"city"`
	RegionCode string `json:"region_code"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
}

type wireLink struct {
	Rel  string `json:"rel"`
	Href string `json:"href"`
}

type pixOrderRequest struct {
	ReferenceID      string       `json:"reference_id"`
	Customer         wireCustomer `json:"customer"`
	Items            []wireItem   `json:"items"`
	QRCodes          []wireQRCode `json:"qr_codes"`
	Shipping         wireShipping `json:"shipping"`
	NotificationURLs []string     `json:"notification_urls,omitempty"`
}

type wireQRCode struct {
	Amount wireAmount `json:"amount"`
}

type wireShipping struct {
	Address wireAddress `json:"address"`
}

type pixOrderResponse struct {
	ID      string `json:"id"`
	QRCodes []struct {
		ID    string     `json:"id"`
		Text  string     `json:"text"`
		Links []wireLink `json:"links"`
	} `json:"qr_codes"`
}

type checkoutRequest struct {
	ReferenceID      string           `json:"reference_id"`
	Customer         wireCustomer     `json:"customer"`
	Items            []wireItem       `json:"items"`
	Shipping         checkoutShipping `json:"shipping"`
	PaymentMethods   []paymentMethod  `json:"payment_methods"`
	RedirectURL      string           `json:"redirect_url,omitempty"`
	NotificationURLs []string         `json:"notification_urls,omitempty"`
}

type checkoutShipping struct {
	Type    string      `json:"type"`
	Amount  int64       `json:"amount"`
	Address wireAddress `json:"address"`
}

type paymentMethod struct {
	Type string `json:"type"`
}

type checkoutResponse struct {
	ID    string     `json:"id"`
	Links []wireLink `json:"links"`
}

func (c *paymentHTTPClient) CreatePixOrder(ctx context.Context, req PaymentRequest) (*domain.PixInstruction, error) {
	body := pixOrderRequest{
		ReferenceID: req.ReferenceID,
		Customer:    toWireCustomer(req.Customer),
		Items:       toWireItems(req.Items),
		QRCodes:     []wireQRCode{{Amount: wireAmount{Value: req.Total()}}},
		Shipping:    wireShipping{Address: toWireAddress(req.Shipping)},
	}
	if c.notificationURL != "" {
		body.NotificationURLs = []string{c.notificationURL}
	}

	var resp pixOrderResponse
	if err := c.post(ctx, "/orders", req.ReferenceID, body, &resp); err != nil {
		return nil, err
	}
	if resp.ID == "" || len(resp.QRCodes) == 0 {
		c.log.Errorf("PaymentClient: PIX order for %s came back without a QR code", req.ReferenceID)
		return nil, fmt.Errorf("%w: response has no qr code", domain.ErrPaymentFailed)
	}

	qr := resp.QRCodes[0]
	pix := &domain.PixInstruction{
		TransactionID: resp.ID,
		QRCodeText:    qr.Text,
		QRCodeImage:   findLink(qr.Links, "QRCODE.PNG"),
	}
	c.log.Infof("PaymentClient: PIX order %s created for reference %s", pix.TransactionID, req.ReferenceID)
	return pix, nil
}

func (c *paymentHTTPClient) CreatePaymentLink(ctx context.Context, req PaymentRequest) (*domain.LinkInstruction, error) {
	body := checkoutRequest{
		ReferenceID: req.ReferenceID,
		Customer:    toWireCustomer(req.Customer),
		Items:       toWireItems(req.Items),
		Shipping: checkoutShipping{
			Type:    "FIXED",
			Amount:  req.Shipping.Amount,
			Address: toWireAddress(req.Shipping),
		},
		PaymentMethods: []paymentMethod{{Type: "CREDIT_CARD"}, {Type: "DEBIT_CARD"}, {Type: "BOLETO"}},
		RedirectURL:    c.redirectURL,
	}
	if c.notificationURL != "" {
		body.NotificationURLs = []string{c.notificationURL}
	}

	var resp checkoutResponse
	if err := c.post(ctx, "/checkouts", req.ReferenceID, body, &resp); err != nil {
		return nil, err
	}
	payURL := findLink(resp.Links, "PAY")
	if payURL == "" {
		c.log.Errorf("PaymentClient: checkout for %s came back without a payment link", req.ReferenceID)
		return nil, fmt.Errorf("%w: response has no payment link", domain.ErrPaymentFailed)
	}

	link := &domain.LinkInstruction{PaymentURL: payURL, ChargeID: resp.ID}
	c.log.Infof("PaymentClient: payment link %s created for reference %s", link.ChargeID, req.ReferenceID)
	return link, nil
}

func (c *paymentHTTPClient) post(ctx context.Context, path, reference string, body, out any) error {
	jsonData, err := json.Marshal(body)
	if err != nil {
		c.log.Errorf("PaymentClient: Failed to marshal %s payload for %s: %v", path, reference, err)
		return fmt.Errorf("%w: could not prepare request: %v", domain.ErrPaymentFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		c.log.Errorf("PaymentClient: Failed to create %s request for %s: %v", path, reference, err)
		return fmt.Errorf("%w: %v", domain.ErrPaymentFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Errorf("PaymentClient: Failed to execute %s request for %s: %v", path, reference, err)
		return fmt.Errorf("%w: %v", domain.ErrPaymentFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.log.Errorf("PaymentClient: %s request for %s failed with status %d. Body: %s", path, reference, resp.StatusCode, string(bodyBytes))
		return fmt.Errorf("%w: provider returned status %d", domain.ErrPaymentFailed, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.log.Errorf("PaymentClient: Failed to decode %s response for %s: %v", path, reference, err)
		return fmt.Errorf("%w: could not decode response: %v", domain.ErrPaymentFailed, err)
	}
	return nil
}

func toWireCustomer(c PaymentCustomer) wireCustomer {
	wc := wireCustomer{Name: c.Name, Email: c.Email}
	// Provider wants the area code split out: 11987654321 -> 11 / 987654321.
	if len(c.Phone) >= 10 {
		wc.Phones = []wirePhone{{Country: "55", Area: c.Phone[:2], Number: c.Phone[2:], Type: "MOBILE"}}
	}
	return wc
}

func toWireItems(items []PaymentItem) []wireItem {
	out := make([]wireItem, 0, len(items))
	for _, it := range items {
		out = append(out, wireItem{
			ReferenceID: it.ReferenceID,
			Name:        it.Name,
			Quantity:    it.Quantity,
			UnitAmount:  it.UnitAmount,
		})
	}
	return out
}

func toWireAddress(s PaymentShipping) wireAddress {
	return wireAddress{
		Street:     s.Street,
		Number:     s.Number,
		Complement: s.Complement,
		Locality:   s.Neighborhood,
		City:       s.City,
		RegionCode: s.Region,
		Country:    "BRA",
		PostalCode: s.PostalCode,
	}
}

func findLink(links []wireLink, rel string) string {
	for _, l := range links {
		if strings.EqualFold(l.Rel, rel) {
			return l.Href
		}
	}
	return ""
}
