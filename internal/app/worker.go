package app

import (
	"context"
	"errors"
	"fmt"

	"budget-app-go/internal/config"
	"budget-app-go/internal/domain/feedback"
	"budget-app-go/internal/integrations/queue"
	"budget-app-go/pkg/logger"
)

// Worker drains the feedback queue into emails.
type Worker struct {
	queue   *queue.Client
	service *feedback.Service
	log     logger.Logger
}

func NewWorker(log logger.Logger) (*Worker, error) {
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}
	if cfg.Feedback.AMQPURL == "" {
		return nil, errors.New("FEEDBACK_AMQP_URL is required")
	}

	sender := newSender(cfg, log)
	if sender == nil {
		return nil, errors.New("RESEND_API_KEY is required")
	}

	client, err := queue.NewClient(cfg.Feedback.AMQPURL, cfg.Feedback.ExchangeName, cfg.Feedback.QueueName, log)
	if err != nil {
		return nil, fmt.Errorf("connect queue: %w", err)
	}

	service := feedback.NewService(sender, nil, feedback.Config{
		From:   cfg.Feedback.From,
		To:     cfg.Feedback.To,
		Locale: cfg.Feedback.Locale,
	}, log)

	return &Worker{queue: client, service: service, log: log}, nil
}

// Run consumes until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	w.log.Info("worker: consuming feedback")
	return w.queue.Consume(ctx, w.service.Deliver)
}

func (w *Worker) Close() error {
	return w.queue.Close()
}
