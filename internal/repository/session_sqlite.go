package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"storefront/internal/domain"

	"github.com/sirupsen/logrus"
)

type SQLiteSessionRepository struct {
	db  *sql.DB
	ttl time.Duration
	log *logrus.Logger
	now func() time.Time
}

// NewSQLiteSessionRepository expects the sessions table created by
// db.OpenSQLite.
func NewSQLiteSessionRepository(db *sql.DB, ttl time.Duration, logger *logrus.Logger) *SQLiteSessionRepository {
	return &SQLiteSessionRepository{db: db, ttl: ttl, log: logger, now: time.Now}
}

func (r *SQLiteSessionRepository) Load(ctx context.Context, id string) (*domain.Session, error) {
	var raw []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM sessions WHERE id = ? AND expires_at > ?`,
		id, r.now().Unix(),
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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

func (r *SQLiteSessionRepository) Save(ctx context.Context, s *domain.Session) error {
	now := r.now()
	s.UpdatedAt = now.UTC()
	raw, err := encodeSession(s)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
        INSERT INTO sessions (id, payload, expires_at) VALUES (?, ?, ?)
        ON CONFLICT (id) DO UPDATE SET payload = excluded.payload, expires_at = excluded.expires_at`,
		s.ID, raw, now.Add(r.ttl).Unix(),
	)
	if err != nil {
		r.log.Errorf("SessionStore: failed to save session %s: %v", s.ID, err)
		return fmt.Errorf("could not save session: %w", err)
	}
	return nil
}

// PurgeExpired deletes sessions past their expiry and reports how many went.
func (r *SQLiteSessionRepository) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, r.now().Unix())
	if err != nil {
		return 0, fmt.Errorf("could not purge sessions: %w", err)
	}
	return res.RowsAffected()
}
