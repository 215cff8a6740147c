package repository

import (
	"context"
	"database/sql"
	"fmt"

	"storefront/internal/domain"

	"github.com/sirupsen/logrus"
)

type postgresResellerRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresResellerRepository(db *sql.DB, logger *logrus.Logger) domain.ResellerRepository {
	return &postgresResellerRepository{db: db, log: logger}
}

func (r *postgresResellerRepository) ListResellers(ctx context.Context) ([]domain.Reseller, error) {
	query := `
        SELECT id, name, city, contact, url
        FROM resellers
        ORDER BY city, name
    `
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.log.Errorf("Failed to list resellers: %v", err)
		return nil, fmt.Errorf("could not retrieve resellers: %w", err)
	}
	defer rows.Close()

	resellers := []domain.Reseller{}
	for rows.Next() {
		var rs domain.Reseller
		if err := rows.Scan(&rs.ID, &rs.Name, &rs.City, &rs.Contact, &rs.URL); err != nil {
			r.log.Errorf("Failed to scan reseller row: %v", err)
			return nil, fmt.Errorf("error scanning reseller: %w", err)
		}
		resellers = append(resellers, rs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating resellers: %w", err)
	}
	return resellers, nil
}
