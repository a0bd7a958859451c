package payments

import (
	"context"

	paymentsdomain "budget-app-go/internal/domain/payments"
	"budget-app-go/pkg/logger"
)

type Limiter interface {
	Allow(ctx context.Context, userID, function string) error
}

type Handlers struct {
	Payments *paymentsdomain.Service
	Limiter  Limiter
	log      logger.Logger
}

func New(payments *paymentsdomain.Service, limiter Limiter, log logger.Logger) *Handlers {
	return &Handlers{
		Payments: payments,
		Limiter:  limiter,
		log:      log,
	}
}
