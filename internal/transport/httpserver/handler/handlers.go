package handler

import (
	budgethandler "budget-app-go/internal/transport/httpserver/handler/budget"
	commonhandler "budget-app-go/internal/transport/httpserver/handler/common"
	feedbackhandler "budget-app-go/internal/transport/httpserver/handler/feedback"
	paymentshandler "budget-app-go/internal/transport/httpserver/handler/payments"
)

type Handlers struct {
	Common   *commonhandler.Handlers
	Budget   *budgethandler.Handlers
	Payments *paymentshandler.Handlers
	Feedback *feedbackhandler.Handlers
}

func New(common *commonhandler.Handlers, budget *budgethandler.Handlers, payments *paymentshandler.Handlers, feedback *feedbackhandler.Handlers) *Handlers {
	return &Handlers{
		Common:   common,
		Budget:   budget,
		Payments: payments,
		Feedback: feedback,
	}
}
