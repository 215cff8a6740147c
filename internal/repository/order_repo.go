package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront/internal/domain"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

const orderColumns = `id, client_name, client_last_name, client_email, client_phone,
        total_value, payment_method, delivery_time, has_lobby, status, txid,
        shipping_method_id, address_id, created_at`

type postgresOrderRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresOrderRepository(db *sql.DB, logger *logrus.Logger) domain.OrderRepository {
	return &postgresOrderRepository{
		db:  db,
		log: logger,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		order        domain.Order
		deliveryTime sql.NullTime
		txid         sql.NullString
	)
	err := row.Scan(
		&order.ID,
		&order.ClientName,
		&order.ClientLastName,
		&order.ClientEmail,
		&order.ClientPhone,
		&order.TotalValue,
		&order.PaymentMethod,
		&deliveryTime,
		&order.HasLobby,
		&order.Status,
		&txid,
		&order.ShippingMethodID,
		&order.AddressID,
		&order.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if deliveryTime.Valid {
		t := deliveryTime.Time
		order.DeliveryTime = &t
	}
	order.TxID = txid.String
	return &order, nil
}

// withTx runs fn inside a transaction and commits only when fn succeeds.
func (r *postgresOrderRepository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.log.Errorf("Failed to begin transaction: %v", err)
		return fmt.Errorf("could not start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			r.log.Error("Recovered from panic, rolling back transaction")
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			r.log.Warnf("Rolling back transaction due to error: %v", err)
			if rbErr := tx.Rollback(); rbErr != nil {
				r.log.Errorf("Failed to rollback transaction: %v", rbErr)
			}
		} else {
			if cErr := tx.Commit(); cErr != nil {
				r.log.Errorf("Failed to commit transaction: %v", cErr)
				err = fmt.Errorf("failed to commit transaction: %w", cErr)
			}
		}
	}()

	err = fn(tx)
	return err
}

func (r *postgresOrderRepository) CreateOrder(ctx context.Context, order *domain.Order, address *domain.ShippingAddress) (*domain.Order, error) {
	address.ID = uuid.NewString()
	order.ID = uuid.NewString()
	order.AddressID = address.ID
	if order.Status == "" {
		order.Status = domain.StatusPending
	}

	var deliveryTime sql.NullTime
	if order.DeliveryTime != nil {
		deliveryTime = sql.NullTime{Time: *order.DeliveryTime, Valid: true}
	}

	err := r.withTx(ctx, func(tx *sql.Tx) error {
		addressQuery := `
        INSERT INTO shipping_addresses (id, street, number, complement, neighborhood, city, region, postal_code)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `
		_, err := tx.ExecContext(ctx, addressQuery,
			address.ID, address.Street, address.Number, address.Complement,
			address.Neighborhood, address.City, address.Region, address.PostalCode,
		)
		if err != nil {
			r.log.Errorf("Failed to insert shipping address for order %s: %v", order.ID, err)
			return mapConstraintError("could not create shipping address", err)
		}

		orderQuery := `
        INSERT INTO orders (id, client_name, client_last_name, client_email, client_phone,
            total_value, payment_method, delivery_time, has_lobby, status,
            shipping_method_id, address_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        RETURNING created_at
    `
		err = tx.QueryRowContext(ctx, orderQuery,
			order.ID, order.ClientName, order.ClientLastName, order.ClientEmail, order.ClientPhone,
			order.TotalValue, order.PaymentMethod, deliveryTime, order.HasLobby, order.Status,
			order.ShippingMethodID, order.AddressID,
		).Scan(&order.CreatedAt)
		if err != nil {
			r.log.Errorf("Failed to insert order %s: %v", order.ID, err)
			return mapConstraintError("could not create order entry", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.log.Infof("Order entry created with ID: %s (address %s)", order.ID, address.ID)
	return order, nil
}

// CreateOrderItems writes every item or none of them.
func (r *postgresOrderRepository) CreateOrderItems(ctx context.Context, orderID string, items []domain.OrderItem) error {
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		itemQuery := `
        INSERT INTO order_items (id, quantity, value, order_id, product_id)
        VALUES ($1, $2, $3, $4, $5)
    `
		stmt, err := tx.PrepareContext(ctx, itemQuery)
		if err != nil {
			r.log.Errorf("Failed to prepare order item statement: %v", err)
			return fmt.Errorf("could not prepare item statement: %w", err)
		}
		defer stmt.Close()

		for i := range items {
			item := &items[i]
			if item.ID == "" {
				item.ID = uuid.NewString()
			}
			item.OrderID = orderID
			_, err = stmt.ExecContext(ctx, item.ID, item.Quantity, item.Value, orderID, item.ProductID)
			if err != nil {
				r.log.Errorf("Failed to insert order item (product_id: %s, quantity: %d) for order %s: %v", item.ProductID, item.Quantity, orderID, err)
				return mapConstraintError(fmt.Sprintf("could not create order item (product_id: %s)", item.ProductID), err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.log.Infof("Order %s: %d items created", orderID, len(items))
	return nil
}

func (r *postgresOrderRepository) ListOrders(ctx context.Context) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.log.Errorf("Failed to list orders: %v", err)
		return nil, fmt.Errorf("could not retrieve orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			r.log.Errorf("Failed to scan order row: %v", err)
			return nil, fmt.Errorf("error scanning order data: %w", err)
		}
		orders = append(orders, *order)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Error during orders iteration: %v", err)
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	r.log.Debugf("Retrieved %d orders", len(orders))
	return orders, nil
}

func (r *postgresOrderRepository) GetOrderByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Order with ID %s not found", id)
			return nil, fmt.Errorf("order %s: %w", id, domain.ErrOrderNotFound)
		}
		if isMalformedID(err) {
			r.log.Warnf("Malformed order ID %q", id)
			return nil, fmt.Errorf("order %s: %w", id, domain.ErrOrderNotFound)
		}
		r.log.Errorf("Failed to get order by ID %s: %v", id, err)
		return nil, fmt.Errorf("could not retrieve order: %w", err)
	}
	return order, nil
}

// GetOrderItems joins each item with its product so the dashboard can show
// name and image without a second round trip.
func (r *postgresOrderRepository) GetOrderItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	itemsQuery := `
        SELECT oi.id, oi.quantity, oi.value, oi.order_id, oi.product_id,
               COALESCE(p.name, ''), COALESCE(p.image, '')
        FROM order_items oi
        LEFT JOIN products p ON p.id = oi.product_id
        WHERE oi.order_id = $1
        ORDER BY p.name
    `
	rows, err := r.db.QueryContext(ctx, itemsQuery, orderID)
	if err != nil {
		if isMalformedID(err) {
			r.log.Warnf("Malformed order ID %q", orderID)
			return nil, fmt.Errorf("order %s: %w", orderID, domain.ErrOrderNotFound)
		}
		r.log.Errorf("Failed to query order items for order ID %s: %v", orderID, err)
		return nil, fmt.Errorf("could not retrieve order items: %w", err)
	}
	defer rows.Close()

	items := []domain.OrderItem{}
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.Quantity, &item.Value, &item.OrderID, &item.ProductID,
			&item.ProductName, &item.ProductImage); err != nil {
			r.log.Errorf("Failed to scan order item row for order ID %s: %v", orderID, err)
			return nil, fmt.Errorf("error scanning order item: %w", err)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		r.log.Errorf("Error during order items iteration for order ID %s: %v", orderID, err)
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	r.log.Debugf("Retrieved %d items for order ID %s", len(items), orderID)
	return items, nil
}

func (r *postgresOrderRepository) GetShippingAddressByID(ctx context.Context, id string) (*domain.ShippingAddress, error) {
	query := `
        SELECT id, street, number, complement, neighborhood, city, region, postal_code
        FROM shipping_addresses
        WHERE id = $1
    `
	var a domain.ShippingAddress
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&a.ID, &a.Street, &a.Number, &a.Complement, &a.Neighborhood, &a.City, &a.Region, &a.PostalCode,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Shipping address with ID %s not found", id)
			return nil, fmt.Errorf("address %s: %w", id, domain.ErrAddressNotFound)
		}
		if isMalformedID(err) {
			r.log.Warnf("Malformed shipping address ID %q", id)
			return nil, fmt.Errorf("address %s: %w", id, domain.ErrAddressNotFound)
		}
		r.log.Errorf("Failed to get shipping address %s: %v", id, err)
		return nil, fmt.Errorf("could not retrieve shipping address: %w", err)
	}
	return &a, nil
}

func (r *postgresOrderRepository) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	query := `
        UPDATE orders
        SET status = $1
        WHERE id = $2
        RETURNING ` + orderColumns
	order, err := scanOrder(r.db.QueryRowContext(ctx, query, status, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Order with ID %s not found for status update", id)
			return nil, fmt.Errorf("order %s: %w", id, domain.ErrOrderNotFound)
		}
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23514" {
			r.log.Warnf("Invalid status value '%s' for order ID %s: %v", status, id, err)
			return nil, fmt.Errorf("invalid order status provided: %s", status)
		}
		if isMalformedID(err) {
			return nil, fmt.Errorf("order %s: %w", id, domain.ErrOrderNotFound)
		}
		r.log.Errorf("Failed to update status for order ID %s: %v", id, err)
		return nil, fmt.Errorf("could not update order status: %w", err)
	}

	r.log.Infof("Order %s status updated to '%s'", order.ID, order.Status)
	return order, nil
}

func (r *postgresOrderRepository) UpdateOrderTxID(ctx context.Context, id, txid string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE orders SET txid = $1 WHERE id = $2`, txid, id)
	if err != nil {
		r.log.Errorf("Failed to store txid for order %s: %v", id, err)
		return fmt.Errorf("could not update order txid: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("order %s: %w", id, domain.ErrOrderNotFound)
	}
	r.log.Infof("Order %s txid stored", id)
	return nil
}

// MarkProcessingByTxID only moves PENDING orders forward. An order that is
// already PROCESSING or DELIVERED is returned unchanged.
func (r *postgresOrderRepository) MarkProcessingByTxID(ctx context.Context, txid string) (*domain.Order, error) {
	query := `
        UPDATE orders
        SET status = $1
        WHERE txid = $2 AND status = $3
        RETURNING ` + orderColumns
	order, err := scanOrder(r.db.QueryRowContext(ctx, query, domain.StatusProcessing, txid, domain.StatusPending))
	if err == nil {
		r.log.Infof("Order %s marked PROCESSING by payment %s", order.ID, txid)
		return order, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		r.log.Errorf("Failed to mark order with txid %s as processing: %v", txid, err)
		return nil, fmt.Errorf("could not update order status: %w", err)
	}

	existing, err := scanOrder(r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE txid = $1`, txid))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("No order found for txid %s", txid)
			return nil, fmt.Errorf("txid %s: %w", txid, domain.ErrOrderNotFound)
		}
		return nil, fmt.Errorf("could not retrieve order by txid: %w", err)
	}
	return existing, nil
}

// isMalformedID reports invalid_text_representation, which Postgres returns
// when a path id is not a valid uuid.
func isMalformedID(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "22P02"
}

// mapConstraintError turns foreign key and check violations into errors the
// use case layer can recognise.
func mapConstraintError(msg string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23503":
			return fmt.Errorf("%s: %w: %s", msg, domain.ErrProductNotFound, pqErr.Detail)
		case "23514":
			return fmt.Errorf("%s: constraint violation: %s", msg, pqErr.Message)
		}
	}
	return fmt.Errorf("%s: %w", msg, err)
}
