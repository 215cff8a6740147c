package usecase

import (
	"context"
	"fmt"

	"storefront/internal/domain"

	"github.com/sirupsen/logrus"
)

var _ domain.CartUseCase = (*cartUseCase)(nil)

type cartUseCase struct {
	sessions *SessionManager
	catalog  domain.CatalogUseCase
	log      *logrus.Logger
}

func NewCartUseCase(sessions *SessionManager, catalog domain.CatalogUseCase, logger *logrus.Logger) domain.CartUseCase {
	return &cartUseCase{
		sessions: sessions,
		catalog:  catalog,
		log:      logger,
	}
}

func (uc *cartUseCase) GetCart(ctx context.Context, sessionID string) (*domain.Session, error) {
	return uc.sessions.Load(ctx, sessionID)
}

// AddItem takes name, image and price from the catalog, never from the caller.
func (uc *cartUseCase) AddItem(ctx context.Context, sessionID, slug string, quantity int) (*domain.Session, error) {
	if quantity < 1 {
		return nil, domain.ValidationErrors{{Field: "quantity", Message: "must be at least 1"}}
	}
	product, _, err := uc.catalog.GetProductBySlug(ctx, slug)
	if err != nil {
		uc.log.Warnf("Use Case: cannot add %q to cart: %v", slug, err)
		return nil, fmt.Errorf("add to cart: %w", err)
	}

	s, err := uc.sessions.Update(ctx, sessionID, func(s *domain.Session) error {
		s.Cart.AddItem(product.LineItem(), quantity)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Infof("Use Case: session %s added %d x %s", sessionID, quantity, product.ID)
	return s, nil
}

func (uc *cartUseCase) IncrementQuantity(ctx context.Context, sessionID, productID string) (*domain.Session, error) {
	return uc.sessions.Update(ctx, sessionID, func(s *domain.Session) error {
		s.Cart.IncrementQuantity(productID)
		return nil
	})
}

func (uc *cartUseCase) DecrementQuantity(ctx context.Context, sessionID, productID string) (*domain.Session, error) {
	return uc.sessions.Update(ctx, sessionID, func(s *domain.Session) error {
		s.Cart.DecrementQuantity(productID)
		return nil
	})
}

func (uc *cartUseCase) RemoveItem(ctx context.Context, sessionID, productID string) (*domain.Session, error) {
	return uc.sessions.Update(ctx, sessionID, func(s *domain.Session) error {
		s.Cart.RemoveItem(productID)
		return nil
	})
}
