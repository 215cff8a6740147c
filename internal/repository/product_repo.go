package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront/internal/domain"

	"github.com/sirupsen/logrus"
)

type postgresProductRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresProductRepository(db *sql.DB, logger *logrus.Logger) domain.ProductRepository {
	return &postgresProductRepository{db: db, log: logger}
}

func (r *postgresProductRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	query := `
        SELECT id, name, description, image, price, slug
        FROM products
        ORDER BY name
    `
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.log.Errorf("Failed to list products: %v", err)
		return nil, fmt.Errorf("could not retrieve products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Image, &p.Price, &p.Slug); err != nil {
			r.log.Errorf("Failed to scan product row: %v", err)
			return nil, fmt.Errorf("error scanning product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		r.log.Errorf("Error during products iteration: %v", err)
		return nil, fmt.Errorf("error iterating products: %w", err)
	}
	return products, nil
}

func (r *postgresProductRepository) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	query := `
        SELECT id, name, description, image, price, slug
        FROM products
        WHERE slug = $1
    `
	var p domain.Product
	err := r.db.QueryRowContext(ctx, query, slug).Scan(&p.ID, &p.Name, &p.Description, &p.Image, &p.Price, &p.Slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Product with slug %q not found", slug)
			return nil, fmt.Errorf("product %q: %w", slug, domain.ErrProductNotFound)
		}
		r.log.Errorf("Failed to get product by slug %q: %v", slug, err)
		return nil, fmt.Errorf("could not retrieve product: %w", err)
	}
	return &p, nil
}

func (r *postgresProductRepository) ListProductSlugs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT slug FROM products ORDER BY slug`)
	if err != nil {
		r.log.Errorf("Failed to list product slugs: %v", err)
		return nil, fmt.Errorf("could not retrieve product slugs: %w", err)
	}
	defer rows.Close()

	slugs := []string{}
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return nil, fmt.Errorf("error scanning product slug: %w", err)
		}
		slugs = append(slugs, slug)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product slugs: %w", err)
	}
	return slugs, nil
}
