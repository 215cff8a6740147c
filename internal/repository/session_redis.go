package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/domain"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const sessionKeyPrefix = "session:"

type redisSessionRepository struct {
	client *redis.Client
	ttl    time.Duration
	log    *logrus.Logger
}

// NewRedisSessionRepository stores each session as one msgpack value whose
// expiry is pushed forward on every save.
func NewRedisSessionRepository(client *redis.Client, ttl time.Duration, logger *logrus.Logger) domain.SessionRepository {
	return &redisSessionRepository{client: client, ttl: ttl, log: logger}
}

func (r *redisSessionRepository) Load(ctx context.Context, id string) (*domain.Session, error) {
	raw, err := r.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		r.log.Errorf("SessionStore: failed to load session %s: %v", id, err)
		return nil, fmt.Errorf("could not load session: %w", err)
	}
	s, err := decodeSession(raw)
	if err != nil {
		r.log.Warnf("SessionStore: discarding unreadable session %s: %v", id, err)
		return nil, domain.ErrSessionNotFound
	}
	return s, nil
}

func (r *redisSessionRepository) Save(ctx context.Context, s *domain.Session) error {
	s.UpdatedAt = time.Now().UTC()
	raw, err := encodeSession(s)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, sessionKeyPrefix+s.ID, raw, r.ttl).Err(); err != nil {
		r.log.Errorf("SessionStore: failed to save session %s: %v", s.ID, err)
		return fmt.Errorf("could not save session: %w", err)
	}
	return nil
}
