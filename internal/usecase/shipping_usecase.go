package usecase

import (
	"context"
	"strings"
	"unicode"

	"storefront/internal/domain"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var _ domain.ShippingUseCase = (*shippingUseCase)(nil)

type shippingUseCase struct {
	sessions        *SessionManager
	source          domain.ShippingMethodSource
	serviceableCity string
	offlineContact  string
	log             *logrus.Logger
}

func NewShippingUseCase(sessions *SessionManager, source domain.ShippingMethodSource, serviceableCity, offlineContact string, logger *logrus.Logger) domain.ShippingUseCase {
	return &shippingUseCase{
		sessions:        sessions,
		source:          source,
		serviceableCity: serviceableCity,
		offlineContact:  offlineContact,
		log:             logger,
	}
}

// foldCity lowercases and strips diacritics so "São Paulo" and "sao paulo"
// compare equal.
func foldCity(city string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, city)
	if err != nil {
		stripped = city
	}
	return cases.Fold().String(strings.Join(strings.Fields(stripped), " "))
}

func (uc *shippingUseCase) methodsFor(ctx context.Context, address domain.Address) ([]domain.ShippingMethod, error) {
	if !address.IsResolved() {
		return nil, domain.ErrAddressRequired
	}
	if uc.serviceableCity != "" && foldCity(address.City) != foldCity(uc.serviceableCity) {
		uc.log.Infof("Use Case: no delivery to %q", address.City)
		return nil, &domain.ShippingUnavailableError{City: address.City, Contact: uc.offlineContact}
	}
	return uc.source.ListShippingMethods(ctx)
}

func (uc *shippingUseCase) AvailableMethods(ctx context.Context, sessionID string) ([]domain.ShippingMethod, error) {
	s, err := uc.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return uc.methodsFor(ctx, s.Address)
}

func (uc *shippingUseCase) Select(ctx context.Context, sessionID, methodID string) (*domain.Session, error) {
	return uc.sessions.Update(ctx, sessionID, func(s *domain.Session) error {
		methods, err := uc.methodsFor(ctx, s.Address)
		if err != nil {
			return err
		}
		for _, m := range methods {
			if m.ID == methodID {
				s.SelectShipping(domain.SelectionFor(m))
				uc.log.Infof("Use Case: session %s selected shipping %s (%.2f)", sessionID, m.Type, m.Price)
				return nil
			}
		}
		return domain.ErrUnknownShippingMethod
	})
}
