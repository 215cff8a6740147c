package repository

import (
	"context"
	"database/sql"
	"fmt"

	"storefront/internal/domain"

	"github.com/sirupsen/logrus"
)

type postgresShippingRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresShippingRepository(db *sql.DB, logger *logrus.Logger) domain.ShippingMethodSource {
	return &postgresShippingRepository{db: db, log: logger}
}

func (r *postgresShippingRepository) ListShippingMethods(ctx context.Context) ([]domain.ShippingMethod, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, type, price FROM shipping_methods ORDER BY price`)
	if err != nil {
		r.log.Errorf("Failed to list shipping methods: %v", err)
		return nil, fmt.Errorf("could not retrieve shipping methods: %w", err)
	}
	defer rows.Close()

	methods := []domain.ShippingMethod{}
	for rows.Next() {
		var m domain.ShippingMethod
		if err := rows.Scan(&m.ID, &m.Type, &m.Price); err != nil {
			r.log.Errorf("Failed to scan shipping method row: %v", err)
			return nil, fmt.Errorf("error scanning shipping method: %w", err)
		}
		methods = append(methods, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shipping methods: %w", err)
	}
	return methods, nil
}
