package usecase

import (
	"context"
	"errors"

	"storefront/internal/domain"

	"github.com/sirupsen/logrus"
)

var _ domain.CatalogUseCase = (*catalogUseCase)(nil)

type catalogUseCase struct {
	products  domain.ProductRepository
	resellers domain.ResellerRepository
	shipping  domain.ShippingMethodSource
	cache     domain.ProductCache
	log       *logrus.Logger
}

// NewCatalogUseCase accepts a nil cache, in which case every product read
// goes to the repository.
func NewCatalogUseCase(products domain.ProductRepository, resellers domain.ResellerRepository, shipping domain.ShippingMethodSource, cache domain.ProductCache, logger *logrus.Logger) domain.CatalogUseCase {
	return &catalogUseCase{
		products:  products,
		resellers: resellers,
		shipping:  shipping,
		cache:     cache,
		log:       logger,
	}
}

func (uc *catalogUseCase) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return uc.products.ListProducts(ctx)
}

func (uc *catalogUseCase) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, bool, error) {
	if uc.cache != nil {
		p, err := uc.cache.GetProduct(ctx, slug)
		if err == nil {
			uc.log.Debugf("Use Case: product %q served from cache", slug)
			return p, true, nil
		}
		if !errors.Is(err, domain.ErrCacheMiss) {
			uc.log.Warnf("Use Case: product cache read failed for %q: %v", slug, err)
		}
	}

	p, err := uc.products.GetProductBySlug(ctx, slug)
	if err != nil {
		return nil, false, err
	}

	if uc.cache != nil {
		if err := uc.cache.SetProduct(ctx, p); err != nil {
			uc.log.Warnf("Use Case: product cache write failed for %q: %v", slug, err)
		}
	}
	return p, false, nil
}

func (uc *catalogUseCase) ListProductSlugs(ctx context.Context) ([]string, error) {
	return uc.products.ListProductSlugs(ctx)
}

func (uc *catalogUseCase) ListResellers(ctx context.Context) ([]domain.Reseller, error) {
	return uc.resellers.ListResellers(ctx)
}

func (uc *catalogUseCase) ListShippingMethods(ctx context.Context) ([]domain.ShippingMethod, error) {
	return uc.shipping.ListShippingMethods(ctx)
}
