package budget

import (
	"context"

	budgetdomain "budget-app-go/internal/domain/budget"
	"budget-app-go/pkg/logger"
)

// States hands out the live budget state of a user.
type States interface {
	Get(ctx context.Context, userID string) (*budgetdomain.State, error)
	Refresh(ctx context.Context, userID string) (*budgetdomain.State, error)
}

type Handlers struct {
	States States
	log    logger.Logger
}

func New(states States, log logger.Logger) *Handlers {
	return &Handlers{
		States: states,
		log:    log,
	}
}
