package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"storefront/internal/clients"
	"storefront/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

var _ domain.CheckoutUseCase = (*checkoutUseCase)(nil)

type checkoutUseCase struct {
	sessions        *SessionManager
	orderRepo       domain.OrderRepository
	paymentClient   clients.PaymentClient
	validate        *validator.Validate
	motoboyMethodID string
	log             *logrus.Logger
}

func NewCheckoutUseCase(sessions *SessionManager, repo domain.OrderRepository, paymentClient clients.PaymentClient, motoboyMethodID string, logger *logrus.Logger) domain.CheckoutUseCase {
	return &checkoutUseCase{
		sessions:        sessions,
		orderRepo:       repo,
		paymentClient:   paymentClient,
		validate:        newValidator(),
		motoboyMethodID: motoboyMethodID,
		log:             logger,
	}
}

func (uc *checkoutUseCase) GetCheckout(ctx context.Context, sessionID string) (*domain.Session, error) {
	return uc.sessions.Load(ctx, sessionID)
}

// validateSubmission runs the entry guard. Nothing is written when it fails.
func (uc *checkoutUseCase) validateSubmission(s *domain.Session, form *domain.BuyerForm) error {
	if !s.Address.IsResolved() {
		return domain.ErrAddressRequired
	}
	if s.Shipping.IsEmpty() {
		return domain.ErrShippingRequired
	}
	if s.Cart.IsEmpty() {
		return domain.ErrEmptyCart
	}

	form.Phone = stripPunctuation(form.Phone)
	form.PostalCode = stripPunctuation(form.PostalCode)
	form.Region = strings.ToUpper(strings.TrimSpace(form.Region))
	form.Email = strings.TrimSpace(form.Email)

	var verrs domain.ValidationErrors
	if err := uc.validate.Struct(form); err != nil {
		converted := toValidationErrors(err)
		if !errors.As(converted, &verrs) {
			return converted
		}
	}
	if !hasField(verrs, "number") {
		if _, err := strconv.ParseInt(form.Number, 10, 32); err != nil {
			verrs = append(verrs, domain.FieldError{Field: "number", Message: "is too large"})
		}
	}
	// Shipping was priced and gated against the resolved address.
	if !hasField(verrs, "postal_code") && form.PostalCode != s.Address.PostalCode {
		verrs = append(verrs, domain.FieldError{Field: "postal_code", Message: "must match the postal code used for shipping"})
	}
	if uc.motoboyMethodID != "" && s.Shipping.ID == uc.motoboyMethodID && !form.HasLobby && form.DeliveryTime == nil {
		verrs = append(verrs, domain.FieldError{Field: "delivery_time", Message: "is required for motoboy delivery without a lobby"})
	}
	if len(verrs) > 0 {
		return verrs
	}
	return nil
}

func (uc *checkoutUseCase) Submit(ctx context.Context, sessionID string, form domain.BuyerForm) (*domain.Session, error) {
	unlock := uc.sessions.Lock(sessionID)
	defer unlock()

	s, err := uc.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s.Checkout.Current() != domain.CheckoutPreOrder {
		uc.log.Warnf("Use Case: session %s submitted checkout again in state %s", sessionID, s.Checkout.Current())
		return nil, domain.ErrCheckoutClosed
	}
	if err := uc.validateSubmission(s, &form); err != nil {
		uc.log.Infof("Use Case: checkout for session %s rejected: %v", sessionID, err)
		return nil, err
	}
	method, err := domain.ParsePaymentMethod(form.PaymentMethod)
	if err != nil {
		return nil, err
	}

	if err := s.Checkout.TransitionTo(domain.CheckoutOrdering); err != nil {
		return nil, err
	}
	s.Checkout.PaymentMethod = method
	s.Checkout.Total = s.OrderTotal()
	if err := uc.sessions.Save(ctx, s); err != nil {
		return nil, err
	}
	uc.log.Infof("Use Case: session %s is ordering (total %.2f, %s)", sessionID, s.Checkout.Total, method)

	// From here on the sequence finishes even if the client goes away; the
	// HTTP client timeouts still bound every call.
	ctx = context.WithoutCancel(ctx)

	if err := uc.placeOrder(ctx, s, form, method); err != nil {
		uc.fail(ctx, s, err)
		return s, err
	}

	s.Cart.Clear()
	if err := uc.sessions.Save(ctx, s); err != nil {
		return nil, err
	}
	uc.log.Infof("Use Case: session %s reached %s with order %s", sessionID, s.Checkout.State, s.Checkout.OrderID)
	return s, nil
}

func (uc *checkoutUseCase) placeOrder(ctx context.Context, s *domain.Session, form domain.BuyerForm, method domain.PaymentMethod) error {
	number, err := strconv.Atoi(form.Number)
	if err != nil {
		return domain.ValidationErrors{{Field: "number", Message: "must contain digits only"}}
	}

	order := &domain.Order{
		ClientName:       form.Name,
		ClientLastName:   form.LastName,
		ClientEmail:      form.Email,
		ClientPhone:      form.Phone,
		TotalValue:       s.Checkout.Total,
		PaymentMethod:    method,
		DeliveryTime:     form.DeliveryTime,
		HasLobby:         form.HasLobby,
		Status:           domain.StatusPending,
		ShippingMethodID: s.Shipping.ID,
	}
	address := &domain.ShippingAddress{
		Street:       form.Street,
		Number:       number,
		Complement:   form.Complement,
		Neighborhood: form.Neighborhood,
		City:         form.City,
		Region:       form.Region,
		PostalCode:   form.PostalCode,
	}

	created, err := uc.orderRepo.CreateOrder(ctx, order, address)
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	s.Checkout.OrderID = created.ID

	items := make([]domain.OrderItem, 0, len(s.Cart.Items))
	for _, line := range s.Cart.Items {
		items = append(items, domain.OrderItem{
			Quantity:  line.Quantity,
			Value:     line.Price,
			ProductID: line.ID,
		})
	}
	if err := uc.orderRepo.CreateOrderItems(ctx, created.ID, items); err != nil {
		return fmt.Errorf("create items for order %s: %w", created.ID, err)
	}

	req := uc.paymentRequest(s, created.ID, form)
	switch method {
	case domain.PaymentMethodPix:
		pix, err := uc.paymentClient.CreatePixOrder(ctx, req)
		if err != nil {
			return fmt.Errorf("pix order for %s: %w", created.ID, err)
		}
		if err := uc.orderRepo.UpdateOrderTxID(ctx, created.ID, pix.TransactionID); err != nil {
			return fmt.Errorf("store txid for order %s: %w", created.ID, err)
		}
		if err := s.Checkout.TransitionTo(domain.CheckoutReceivedPix); err != nil {
			return err
		}
		s.Checkout.Pix = pix
		s.Checkout.PaymentLabel = domain.PaymentLabelPending
	case domain.PaymentMethodCardOrBillet:
		link, err := uc.paymentClient.CreatePaymentLink(ctx, req)
		if err != nil {
			return fmt.Errorf("payment link for %s: %w", created.ID, err)
		}
		if err := s.Checkout.TransitionTo(domain.CheckoutReceivedLink); err != nil {
			return err
		}
		s.Checkout.Link = link
	default:
		return domain.ErrInvalidPaymentMethod
	}
	return nil
}

func (uc *checkoutUseCase) paymentRequest(s *domain.Session, orderID string, form domain.BuyerForm) clients.PaymentRequest {
	items := make([]clients.PaymentItem, 0, len(s.Cart.Items))
	for _, line := range s.Cart.Items {
		items = append(items, clients.PaymentItem{
			ReferenceID: line.ID,
			Name:        line.Name,
			Quantity:    line.Quantity,
			UnitAmount:  domain.ToMinorUnits(line.Price),
		})
	}
	return clients.PaymentRequest{
		ReferenceID: orderID,
		Customer: clients.PaymentCustomer{
			Name:  strings.TrimSpace(form.Name + " " + form.LastName),
			Email: form.Email,
			Phone: form.Phone,
		},
		Items: items,
		Shipping: clients.PaymentShipping{
			Street:       form.Street,
			Number:       form.Number,
			Complement:   form.Complement,
			Neighborhood: form.Neighborhood,
			City:         form.City,
			Region:       form.Region,
			PostalCode:   form.PostalCode,
			Amount:       domain.ToMinorUnits(s.Shipping.Price),
		},
	}
}

// fail moves the session to the terminal error state. A PENDING order that
// was already written is left as is and logged for the operator.
func (uc *checkoutUseCase) fail(ctx context.Context, s *domain.Session, cause error) {
	if s.Checkout.OrderID != "" {
		uc.log.Errorf("Use Case: checkout failed after order %s was written: %v", s.Checkout.OrderID, cause)
	} else {
		uc.log.Errorf("Use Case: checkout for session %s failed before any order was written: %v", s.ID, cause)
	}
	if err := s.Checkout.TransitionTo(domain.CheckoutError); err != nil {
		uc.log.Errorf("Use Case: %v", err)
	}
	s.Checkout.Failure = cause.Error()
	if err := uc.sessions.Save(ctx, s); err != nil {
		uc.log.Errorf("Use Case: could not persist error state for session %s: %v", s.ID, err)
	}
}

func (uc *checkoutUseCase) Refresh(ctx context.Context, sessionID string) (*domain.Session, error) {
	unlock := uc.sessions.Lock(sessionID)
	defer unlock()

	s, err := uc.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s.Checkout.Current() != domain.CheckoutReceivedPix || s.Checkout.OrderID == "" {
		return nil, domain.ErrNothingToRefresh
	}

	order, err := uc.orderRepo.GetOrderByID(ctx, s.Checkout.OrderID)
	if err != nil {
		return nil, err
	}
	if order.IsPaid() {
		s.Checkout.PaymentLabel = domain.PaymentLabelPaid
	} else {
		s.Checkout.PaymentLabel = domain.PaymentLabelPending
	}
	if err := uc.sessions.Save(ctx, s); err != nil {
		return nil, err
	}
	uc.log.Infof("Use Case: session %s refreshed order %s: %s", sessionID, order.ID, s.Checkout.PaymentLabel)
	return s, nil
}

func (uc *checkoutUseCase) Restart(ctx context.Context, sessionID string) (*domain.Session, error) {
	return uc.sessions.Update(ctx, sessionID, func(s *domain.Session) error {
		return s.Checkout.Restart()
	})
}
