package usecase

import (
	"context"
	"errors"
	"sync"

	"storefront/internal/domain"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SessionManager serializes work on a single session id and hides the
// "unknown id means empty session" rule from the use cases.
type SessionManager struct {
	repo domain.SessionRepository
	log  *logrus.Logger

	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func NewSessionManager(repo domain.SessionRepository, logger *logrus.Logger) *SessionManager {
	return &SessionManager{
		repo:  repo,
		log:   logger,
		locks: make(map[string]*sessionLock),
	}
}

func (m *SessionManager) NewID() string {
	return uuid.NewString()
}

// Lock blocks until no other request holds id and returns the release func.
func (m *SessionManager) Lock(id string) func() {
	m.mu.Lock()
	l, ok := m.locks[id]
	if !ok {
		l = &sessionLock{}
		m.locks[id] = l
	}
	l.refs++
	m.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		m.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(m.locks, id)
		}
		m.mu.Unlock()
	}
}

// Load returns a fresh pre-order session when id has nothing stored.
func (m *SessionManager) Load(ctx context.Context, id string) (*domain.Session, error) {
	s, err := m.repo.Load(ctx, id)
	if errors.Is(err, domain.ErrSessionNotFound) {
		m.log.Debugf("Session %s not found, starting a new one", id)
		return domain.NewSession(id), nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (m *SessionManager) Save(ctx context.Context, s *domain.Session) error {
	return m.repo.Save(ctx, s)
}

// Update applies fn to the locked session and saves it when fn succeeds.
func (m *SessionManager) Update(ctx context.Context, id string, fn func(s *domain.Session) error) (*domain.Session, error) {
	unlock := m.Lock(id)
	defer unlock()

	s, err := m.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(s); err != nil {
		return nil, err
	}
	if err := m.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}
