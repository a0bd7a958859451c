// Package stripe implements payments.Provider on top of stripe-go.
package stripe

import (
	"context"
	"encoding/json"
	"fmt"

	"budget-app-go/internal/domain/payments"

	stripego "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
)

type Provider struct {
	api           *client.API
	webhookSecret string
}

func NewProvider(secretKey, webhookSecret string) *Provider {
	return &Provider{
		api:           client.New(secretKey, nil),
		webhookSecret: webhookSecret,
	}
}

func (p *Provider) FindCustomerByEmail(ctx context.Context, email string) (string, error) {
	params := &stripego.CustomerListParams{Email: stripego.String(email)}
	params.Limit = stripego.Int64(1)
	params.Single = true
	params.Context = ctx

	iter := p.api.Customers.List(params)
	if iter.Next() {
		return iter.Customer().ID, nil
	}
	if err := iter.Err(); err != nil {
		return "", fmt.Errorf("list customers: %w", err)
	}
	return "", nil
}

func (p *Provider) CreateCheckoutSession(ctx context.Context, params payments.CheckoutSessionParams) (*payments.CheckoutSession, error) {
	session, err := p.api.CheckoutSessions.New(buildSessionParams(ctx, params))
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	return convertSession(session), nil
}

func (p *Provider) GetCheckoutSession(ctx context.Context, sessionID string) (*payments.CheckoutSession, error) {
	params := &stripego.CheckoutSessionParams{}
	params.Context = ctx

	session, err := p.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return nil, fmt.Errorf("get checkout session: %w", err)
	}
	return convertSession(session), nil
}

func (p *Provider) ParseWebhook(payload []byte, signature string) (*payments.WebhookEvent, error) {
	if p.webhookSecret == "" {
		return nil, payments.ErrNotConfigured
	}
	event, err := webhook.ConstructEventWithOptions(payload, signature, p.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, err
	}

	result := &payments.WebhookEvent{Type: string(event.Type)}
	if event.Type != payments.EventCheckoutCompleted {
		return result, nil
	}

	var session stripego.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return nil, fmt.Errorf("decode checkout session: %w", err)
	}
	result.Session = convertSession(&session)
	return result, nil
}

func buildSessionParams(ctx context.Context, params payments.CheckoutSessionParams) *stripego.CheckoutSessionParams {
	result := &stripego.CheckoutSessionParams{
		Mode:       stripego.String(string(params.Mode)),
		SuccessURL: stripego.String(params.SuccessURL),
		CancelURL:  stripego.String(params.CancelURL),
	}
	result.Context = ctx

	if params.CustomerID != "" {
		result.Customer = stripego.String(params.CustomerID)
	} else if params.CustomerEmail != "" {
		result.CustomerEmail = stripego.String(params.CustomerEmail)
	}

	item := &stripego.CheckoutSessionLineItemParams{Quantity: stripego.Int64(1)}
	if params.Donation != nil {
		item.PriceData = &stripego.CheckoutSessionLineItemPriceDataParams{
			Currency:   stripego.String(params.Donation.Currency),
			UnitAmount: stripego.Int64(params.Donation.AmountInCents),
			ProductData: &stripego.CheckoutSessionLineItemPriceDataProductDataParams{
				Name:        stripego.String(params.Donation.ProductName),
				Description: stripego.String(params.Donation.ProductDescription),
			},
		}
	} else {
		item.Price = stripego.String(params.PriceID)
	}
	result.LineItems = []*stripego.CheckoutSessionLineItemParams{item}

	for key, value := range params.Metadata {
		result.AddMetadata(key, value)
	}
	return result
}

func convertSession(session *stripego.CheckoutSession) *payments.CheckoutSession {
	return &payments.CheckoutSession{
		ID:            session.ID,
		URL:           session.URL,
		PaymentStatus: string(session.PaymentStatus),
		Metadata:      session.Metadata,
	}
}
