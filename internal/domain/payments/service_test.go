package payments

import (
	"context"
	"errors"
	"testing"

	"budget-app-go/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	customerID string
	created    []CheckoutSessionParams
	session    *CheckoutSession
	getCalls   int
	event      *WebhookEvent
	eventErr   error
}

func (p *fakeProvider) FindCustomerByEmail(ctx context.Context, email string) (string, error) {
	return p.customerID, nil
}

func (p *fakeProvider) CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (*CheckoutSession, error) {
	p.created = append(p.created, params)
	return &CheckoutSession{ID: "cs_test_1", URL: "https://checkout.stripe.test/cs_test_1"}, nil
}

func (p *fakeProvider) GetCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	p.getCalls++
	return p.session, nil
}

func (p *fakeProvider) ParseWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	return p.event, p.eventErr
}

type fakeGranter struct {
	granted []string
	err     error
}

func (g *fakeGranter) GrantPremium(ctx context.Context, userID string) error {
	if g.err != nil {
		return g.err
	}
	g.granted = append(g.granted, userID)
	return nil
}

var customer = Customer{UserID: "user-1", Email: "anna@example.com"}

func newTestService(provider *fakeProvider, granter *fakeGranter) *Service {
	return NewService(provider, granter, Config{Origin: "https://budget.example/"}, logger.NewNop())
}

func TestCheckoutBuildsSession(t *testing.T) {
	provider := &fakeProvider{}
	service := newTestService(provider, &fakeGranter{})

	url, err := service.Checkout(context.Background(), customer, "", CheckoutRequest{PriceID: "price_123"})
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.stripe.test/cs_test_1", url)

	require.Len(t, provider.created, 1)
	params := provider.created[0]
	assert.Equal(t, ModePayment, params.Mode)
	assert.Equal(t, "price_123", params.PriceID)
	assert.Equal(t, "anna@example.com", params.CustomerEmail)
	assert.Empty(t, params.CustomerID)
	assert.Equal(t, "https://budget.example/payment-success?session_id={CHECKOUT_SESSION_ID}", params.SuccessURL)
	assert.Equal(t, "https://budget.example/profile", params.CancelURL)
	assert.Equal(t, "user-1", params.Metadata[MetadataUserID])
}

func TestCheckoutUsesExistingCustomerAndOrigin(t *testing.T) {
	provider := &fakeProvider{customerID: "cus_42"}
	service := newTestService(provider, &fakeGranter{})

	_, err := service.Checkout(context.Background(), customer, "http://localhost:5173", CheckoutRequest{PriceID: "price_1", Mode: "subscription"})
	require.NoError(t, err)

	params := provider.created[0]
	assert.Equal(t, ModeSubscription, params.Mode)
	assert.Equal(t, "cus_42", params.CustomerID)
	assert.Empty(t, params.CustomerEmail)
	assert.Equal(t, "http://localhost:5173/profile", params.CancelURL)
}

func TestCheckoutValidation(t *testing.T) {
	provider := &fakeProvider{}
	service := newTestService(provider, &fakeGranter{})

	cases := []CheckoutRequest{
		{PriceID: ""},
		{PriceID: "prod_123"},
		{PriceID: "price_" + string(make([]byte, 100))},
		{PriceID: "price_1", Mode: "setup"},
	}
	for _, req := range cases {
		_, err := service.Checkout(context.Background(), customer, "", req)
		require.ErrorIs(t, err, ErrInvalidInput)
		validation, ok := IsValidation(err)
		require.True(t, ok)
		assert.Equal(t, MessageInvalidCheckout, validation.Message)
	}
	assert.Empty(t, provider.created)

	_, err := service.Checkout(context.Background(), Customer{UserID: "user-1"}, "", CheckoutRequest{PriceID: "price_1"})
	assert.ErrorIs(t, err, ErrEmailRequired)
}

func TestDonation(t *testing.T) {
	provider := &fakeProvider{}
	service := newTestService(provider, &fakeGranter{})

	_, err := service.Donate(context.Background(), customer, "", 500, "de")
	require.NoError(t, err)

	params := provider.created[0]
	require.NotNil(t, params.Donation)
	assert.Equal(t, int64(500), params.Donation.AmountInCents)
	assert.Equal(t, "chf", params.Donation.Currency)
	assert.Equal(t, "Donation - Budget App", params.Donation.ProductName)
	assert.Equal(t, "https://budget.example/profile?donation=success", params.SuccessURL)
	assert.Equal(t, TypeDonation, params.Metadata[MetadataType])

	for _, amount := range []int64{0, 99, MaxDonationCents + 1} {
		_, err := service.Donate(context.Background(), customer, "", amount, "de")
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
	_, err = service.Donate(context.Background(), customer, "", MaxDonationCents, "de")
	assert.NoError(t, err)
}

func TestVerifyRejectsMalformedIDWithoutCallingProvider(t *testing.T) {
	provider := &fakeProvider{}
	service := newTestService(provider, &fakeGranter{})

	_, err := service.Verify(context.Background(), "user-1", "pi_123")
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, 0, provider.getCalls)
}

func TestVerifyPaidGrantsPremium(t *testing.T) {
	provider := &fakeProvider{session: &CheckoutSession{ID: "cs_1", PaymentStatus: PaymentStatusPaid, Metadata: map[string]string{MetadataUserID: "user-1"}}}
	granter := &fakeGranter{}
	service := newTestService(provider, granter)

	result, err := service.Verify(context.Background(), "user-1", "cs_1")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.True(t, result.IsPremium)
	assert.Equal(t, []string{"user-1"}, granter.granted)
}

func TestVerifyUnpaid(t *testing.T) {
	provider := &fakeProvider{session: &CheckoutSession{ID: "cs_1", PaymentStatus: "unpaid"}}
	granter := &fakeGranter{}
	service := newTestService(provider, granter)

	result, err := service.Verify(context.Background(), "user-1", "cs_1")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "Payment not completed", result.Message)
	assert.Empty(t, granter.granted)
}

func TestVerifyOtherUsersSession(t *testing.T) {
	provider := &fakeProvider{session: &CheckoutSession{ID: "cs_1", PaymentStatus: PaymentStatusPaid, Metadata: map[string]string{MetadataUserID: "user-2"}}}
	granter := &fakeGranter{}
	service := newTestService(provider, granter)

	_, err := service.Verify(context.Background(), "user-1", "cs_1")
	assert.ErrorIs(t, err, ErrSessionNotOwned)
	assert.Empty(t, granter.granted)
}

func TestVerifyActivationFailure(t *testing.T) {
	provider := &fakeProvider{session: &CheckoutSession{ID: "cs_1", PaymentStatus: PaymentStatusPaid}}
	service := newTestService(provider, &fakeGranter{err: errors.New("db down")})

	_, err := service.Verify(context.Background(), "user-1", "cs_1")
	assert.ErrorIs(t, err, ErrActivationFailed)
}

func TestHandleWebhook(t *testing.T) {
	granter := &fakeGranter{}
	provider := &fakeProvider{event: &WebhookEvent{
		Type:    EventCheckoutCompleted,
		Session: &CheckoutSession{PaymentStatus: PaymentStatusPaid, Metadata: map[string]string{MetadataUserID: "user-1"}},
	}}
	service := newTestService(provider, granter)

	require.NoError(t, service.HandleWebhook(context.Background(), []byte("{}"), "sig"))
	assert.Equal(t, []string{"user-1"}, granter.granted)

	provider.event.Session.Metadata[MetadataType] = TypeDonation
	require.NoError(t, service.HandleWebhook(context.Background(), []byte("{}"), "sig"))
	assert.Len(t, granter.granted, 1)

	provider.eventErr = errors.New("bad signature")
	assert.ErrorIs(t, service.HandleWebhook(context.Background(), []byte("{}"), "sig"), ErrInvalidWebhook)
}
