// Package mailer sends transactional email through Resend.
package mailer

import (
	"context"
	"fmt"

	"budget-app-go/internal/domain/feedback"
	"budget-app-go/pkg/logger"

	"github.com/resend/resend-go/v2"
)

type emailsAPI interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

type Resend struct {
	emails emailsAPI
	log    logger.Logger
}

func NewResend(apiKey string, log logger.Logger) *Resend {
	client := resend.NewClient(apiKey)
	return &Resend{emails: client.Emails, log: log}
}

func (r *Resend) Send(ctx context.Context, email feedback.Email) error {
	resp, err := r.emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    email.From,
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTML,
	})
	if err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	r.log.Debug("mailer: email accepted", "id", resp.Id)
	return nil
}
