package domain

import "context"

type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Price       float64 `json:"price"`
	Slug        string  `json:"slug"`
}

// LineItem builds the cart representation of the product.
func (p *Product) LineItem() CartLineItem {
	return CartLineItem{ID: p.ID, Name: p.Name, Image: p.Image, Price: p.Price, Slug: p.Slug}
}

type Reseller struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	City    string `json:"city"`
	Contact string `json:"contact"`
	URL     string `json:"url,omitempty"`
}

type ProductRepository interface {
	ListProducts(ctx context.Context) ([]Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*Product, error)
	ListProductSlugs(ctx context.Context) ([]string, error)
}

type ResellerRepository interface {
	ListResellers(ctx context.Context) ([]Reseller, error)
}

// ProductCache returns ErrCacheMiss when the slug is not cached.
type ProductCache interface {
	GetProduct(ctx context.Context, slug string) (*Product, error)
	SetProduct(ctx context.Context, product *Product) error
}
