package usecase

import (
	"context"

	"storefront/internal/domain"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var _ domain.DashboardUseCase = (*dashboardUseCase)(nil)

type dashboardUseCase struct {
	orderRepo       domain.OrderRepository
	motoboyMethodID string
	log             *logrus.Logger
}

func NewDashboardUseCase(repo domain.OrderRepository, motoboyMethodID string, logger *logrus.Logger) domain.DashboardUseCase {
	return &dashboardUseCase{
		orderRepo:       repo,
		motoboyMethodID: motoboyMethodID,
		log:             logger,
	}
}

func (uc *dashboardUseCase) ListOrders(ctx context.Context) ([]domain.OrderSummary, error) {
	orders, err := uc.orderRepo.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.OrderSummary, 0, len(orders))
	for _, o := range orders {
		out = append(out, domain.SummarizeOrder(o, uc.motoboyMethodID))
	}
	return out, nil
}

// GetOrderDetail loads the items and the address of one order in parallel.
func (uc *dashboardUseCase) GetOrderDetail(ctx context.Context, orderID string) (*domain.OrderDetail, error) {
	order, err := uc.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	detail := &domain.OrderDetail{Order: domain.SummarizeOrder(*order, uc.motoboyMethodID)}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := uc.orderRepo.GetOrderItems(gctx, orderID)
		detail.Items = items
		return err
	})
	g.Go(func() error {
		address, err := uc.orderRepo.GetShippingAddressByID(gctx, order.AddressID)
		detail.Address = address
		return err
	})
	if err := g.Wait(); err != nil {
		uc.log.Errorf("Use Case: failed to load detail for order %s: %v", orderID, err)
		return nil, err
	}
	return detail, nil
}

func (uc *dashboardUseCase) GetOrderItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	return uc.orderRepo.GetOrderItems(ctx, orderID)
}

func (uc *dashboardUseCase) GetClientInfo(ctx context.Context, addressID string) (*domain.ShippingAddress, error) {
	return uc.orderRepo.GetShippingAddressByID(ctx, addressID)
}

// MarkDelivered is unconditional: any status may move to DELIVERED. The
// refreshed list is returned so the caller never shows a stale row.
func (uc *dashboardUseCase) MarkDelivered(ctx context.Context, orderID string) ([]domain.OrderSummary, error) {
	order, err := uc.orderRepo.UpdateOrderStatus(ctx, orderID, domain.StatusDelivered)
	if err != nil {
		uc.log.Warnf("Use Case: could not mark order %s delivered: %v", orderID, err)
		return nil, err
	}
	uc.log.Infof("Use Case: order %s marked %s", order.ID, order.Status)
	return uc.ListOrders(ctx)
}
