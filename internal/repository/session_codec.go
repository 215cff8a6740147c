package repository

import (
	"fmt"

	"storefront/internal/domain"

	"github.com/vmihailenco/msgpack/v5"
)

func encodeSession(s *domain.Session) ([]byte, error) {
	raw, err := msgpack.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("could not encode session %s: %w", s.ID, err)
	}
	return raw, nil
}

func decodeSession(raw []byte) (*domain.Session, error) {
	var s domain.Session
	if err := msgpack.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("could not decode session: %w", err)
	}
	return &s, nil
}
