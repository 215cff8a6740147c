package domain

import "context"

type CartUseCase interface {
	GetCart(ctx context.Context, sessionID string) (*Session, error)
	AddItem(ctx context.Context, sessionID, slug string, quantity int) (*Session, error)
	IncrementQuantity(ctx context.Context, sessionID, productID string) (*Session, error)
	DecrementQuantity(ctx context.Context, sessionID, productID string) (*Session, error)
	RemoveItem(ctx context.Context, sessionID, productID string) (*Session, error)
}

type AddressUseCase interface {
	// Resolve always clears the current address and shipping selection
	// before attempting the lookup.
	Resolve(ctx context.Context, sessionID, postalCode string) (*Address, error)
}

type ShippingUseCase interface {
	AvailableMethods(ctx context.Context, sessionID string) ([]ShippingMethod, error)
	Select(ctx context.Context, sessionID, methodID string) (*Session, error)
}

type CheckoutUseCase interface {
	GetCheckout(ctx context.Context, sessionID string) (*Session, error)
	Submit(ctx context.Context, sessionID string, form BuyerForm) (*Session, error)
	Refresh(ctx context.Context, sessionID string) (*Session, error)
	Restart(ctx context.Context, sessionID string) (*Session, error)
}

type PaymentUseCase interface {
	// HandleNotification applies a provider status update. Only "PAID"
	// changes anything.
	HandleNotification(ctx context.Context, txid, status string) (*Order, error)
}

type DashboardUseCase interface {
	ListOrders(ctx context.Context) ([]OrderSummary, error)
	GetOrderDetail(ctx context.Context, orderID string) (*OrderDetail, error)
	GetOrderItems(ctx context.Context, orderID string) ([]OrderItem, error)
	GetClientInfo(ctx context.Context, addressID string) (*ShippingAddress, error)
	MarkDelivered(ctx context.Context, orderID string) ([]OrderSummary, error)
}

type CatalogUseCase interface {
	ListProducts(ctx context.Context) ([]Product, error)
	// GetProductBySlug reports whether the product came from the cache.
	GetProductBySlug(ctx context.Context, slug string) (*Product, bool, error)
	ListProductSlugs(ctx context.Context) ([]string, error)
	ListResellers(ctx context.Context) ([]Reseller, error)
	ListShippingMethods(ctx context.Context) ([]ShippingMethod, error)
}
