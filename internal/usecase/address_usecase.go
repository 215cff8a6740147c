package usecase

import (
	"context"

	"storefront/internal/domain"

	"github.com/sirupsen/logrus"
)

var _ domain.AddressUseCase = (*addressUseCase)(nil)

type addressUseCase struct {
	sessions *SessionManager
	lookup   domain.AddressLookup
	log      *logrus.Logger
}

func NewAddressUseCase(sessions *SessionManager, lookup domain.AddressLookup, logger *logrus.Logger) domain.AddressUseCase {
	return &addressUseCase{
		sessions: sessions,
		lookup:   lookup,
		log:      logger,
	}
}

func (uc *addressUseCase) Resolve(ctx context.Context, sessionID, postalCode string) (*domain.Address, error) {
	unlock := uc.sessions.Lock(sessionID)
	defer unlock()

	s, err := uc.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	// Editing the postal code invalidates what was there before, whatever the
	// outcome of the new lookup.
	s.ClearAddress()
	if err := uc.sessions.Save(ctx, s); err != nil {
		return nil, err
	}

	cep, err := domain.NormalizePostalCode(postalCode)
	if err != nil {
		uc.log.Infof("Use Case: session %s entered malformed postal code %q", sessionID, postalCode)
		return nil, err
	}

	address, err := uc.lookup.Lookup(ctx, cep)
	if err != nil {
		uc.log.Warnf("Use Case: address lookup for %s failed: %v", cep, err)
		return nil, err
	}

	s.SetAddress(*address)
	if err := uc.sessions.Save(ctx, s); err != nil {
		return nil, err
	}
	uc.log.Infof("Use Case: session %s address set to %s (%s)", sessionID, cep, address.City)
	return address, nil
}
