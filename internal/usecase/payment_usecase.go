package usecase

import (
	"context"
	"strings"

	"storefront/internal/domain"

	"github.com/sirupsen/logrus"
)

const providerStatusPaid = "PAID"

var _ domain.PaymentUseCase = (*paymentUseCase)(nil)

type paymentUseCase struct {
	orderRepo domain.OrderRepository
	log       *logrus.Logger
}

func NewPaymentUseCase(repo domain.OrderRepository, logger *logrus.Logger) domain.PaymentUseCase {
	return &paymentUseCase{orderRepo: repo, log: logger}
}

func (uc *paymentUseCase) HandleNotification(ctx context.Context, txid, status string) (*domain.Order, error) {
	if strings.TrimSpace(txid) == "" {
		return nil, domain.ValidationErrors{{Field: "transaction_id", Message: "is required"}}
	}
	if !strings.EqualFold(status, providerStatusPaid) {
		uc.log.Infof("Use Case: ignoring payment notification %s with status %q", txid, status)
		return nil, nil
	}

	order, err := uc.orderRepo.MarkProcessingByTxID(ctx, txid)
	if err != nil {
		uc.log.Warnf("Use Case: payment notification %s could not be applied: %v", txid, err)
		return nil, err
	}
	uc.log.Infof("Use Case: payment %s confirmed, order %s is %s", txid, order.ID, order.Status)
	return order, nil
}
