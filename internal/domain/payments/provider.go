package payments

import "context"

type Provider interface {
	// FindCustomerByEmail returns the id of an existing customer or "".
	FindCustomerByEmail(ctx context.Context, email string) (string, error)
	CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (*CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error)
	ParseWebhook(payload []byte, signature string) (*WebhookEvent, error)
}

type PremiumGranter interface {
	GrantPremium(ctx context.Context, userID string) error
}
