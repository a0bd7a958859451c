package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"budget-app-go/internal/i18n"
	"budget-app-go/pkg/logger"
)

const (
	maxPriceIDLength   = 100
	maxSessionIDLength = 200
	MinDonationCents   = 100
	MaxDonationCents   = 10_000_000

	MessageInvalidCheckout = "Invalid input. Please check your data and try again."
	MessageInvalidDonation = "Invalid donation amount. Please enter a valid amount."
	MessageInvalidSession  = "Invalid session ID."

	messagePaid    = "Payment verified and premium activated"
	messageNotPaid = "Payment not completed"
)

type Config struct {
	// Origin is used for redirect URLs when the request carries none.
	Origin   string
	Currency string
}

type Service struct {
	provider Provider
	premium  PremiumGranter
	origin   string
	currency string
	log      logger.Logger
}

func NewService(provider Provider, premium PremiumGranter, cfg Config, log logger.Logger) *Service {
	currency := strings.ToLower(strings.TrimSpace(cfg.Currency))
	if currency == "" {
		currency = "chf"
	}
	return &Service{
		provider: provider,
		premium:  premium,
		origin:   strings.TrimRight(cfg.Origin, "/"),
		currency: currency,
		log:      log,
	}
}

func ValidateCheckout(req CheckoutRequest) (Mode, error) {
	priceID := req.PriceID
	if priceID == "" || len(priceID) > maxPriceIDLength || !strings.HasPrefix(priceID, "price_") {
		return "", &ValidationError{Message: MessageInvalidCheckout, Detail: "priceId"}
	}
	switch Mode(req.Mode) {
	case "", ModePayment:
		return ModePayment, nil
	case ModeSubscription:
		return ModeSubscription, nil
	}
	return "", &ValidationError{Message: MessageInvalidCheckout, Detail: "mode"}
}

func ValidateDonation(amountInCents int64) error {
	if amountInCents < MinDonationCents || amountInCents > MaxDonationCents {
		return &ValidationError{Message: MessageInvalidDonation, Detail: fmt.Sprintf("amount %d", amountInCents)}
	}
	return nil
}

func ValidateSessionID(sessionID string) error {
	if sessionID == "" || len(sessionID) > maxSessionIDLength || !strings.HasPrefix(sessionID, "cs_") {
		return &ValidationError{Message: MessageInvalidSession, Detail: "sessionId"}
	}
	return nil
}

// Checkout creates a hosted checkout for a configured price and returns its
// URL.
func (s *Service) Checkout(ctx context.Context, customer Customer, origin string, req CheckoutRequest) (string, error) {
	mode, err := ValidateCheckout(req)
	if err != nil {
		return "", err
	}

	base, err := s.baseParams(ctx, customer, origin)
	if err != nil {
		return "", err
	}
	base.Mode = mode
	base.PriceID = req.PriceID
	base.SuccessURL = s.resolveOrigin(origin) + "/payment-success?session_id={CHECKOUT_SESSION_ID}"

	session, err := s.provider.CreateCheckoutSession(ctx, base)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	s.log.Info("payments: checkout session created", "user_id", customer.UserID, "session_id", session.ID, "mode", mode)
	return session.URL, nil
}

// Donate creates a one-off payment for an amount chosen by the user.
func (s *Service) Donate(ctx context.Context, customer Customer, origin string, amountInCents int64, locale string) (string, error) {
	if err := ValidateDonation(amountInCents); err != nil {
		return "", err
	}

	base, err := s.baseParams(ctx, customer, origin)
	if err != nil {
		return "", err
	}
	base.Mode = ModePayment
	base.Donation = &DonationLine{
		AmountInCents:      amountInCents,
		Currency:           s.currency,
		ProductName:        i18n.T(locale, i18n.KeyDonationProductName),
		ProductDescription: i18n.T(locale, i18n.KeyDonationProductDescription),
	}
	base.SuccessURL = s.resolveOrigin(origin) + "/profile?donation=success"
	base.Metadata[MetadataType] = TypeDonation

	session, err := s.provider.CreateCheckoutSession(ctx, base)
	if err != nil {
		return "", fmt.Errorf("create donation session: %w", err)
	}
	s.log.Info("payments: donation session created", "user_id", customer.UserID, "session_id", session.ID, "amount", amountInCents)
	return session.URL, nil
}

// Verify looks up a finished checkout and grants premium when it was paid
// by the calling user.
func (s *Service) Verify(ctx context.Context, userID, sessionID string) (*VerifyResult, error) {
	if err := ValidateSessionID(sessionID); err != nil {
		return nil, err
	}
	if s.provider == nil {
		return nil, ErrNotConfigured
	}

	session, err := s.provider.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get checkout session: %w", err)
	}
	s.log.Debug("payments: session retrieved", "session_id", sessionID, "status", session.PaymentStatus)

	if session.PaymentStatus != PaymentStatusPaid {
		return &VerifyResult{Success: false, IsPremium: false, Message: messageNotPaid}, nil
	}
	if owner := session.Metadata[MetadataUserID]; owner != "" && owner != userID {
		return nil, ErrSessionNotOwned
	}

	if err := s.premium.GrantPremium(ctx, userID); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrActivationFailed, err)
	}
	return &VerifyResult{Success: true, IsPremium: true, Message: messagePaid}, nil
}

// HandleWebhook grants premium for completed, paid checkouts. Donations
// and other event types are acknowledged without side effects.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if s.provider == nil {
		return ErrNotConfigured
	}

	event, err := s.provider.ParseWebhook(payload, signature)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidWebhook, err)
	}
	if event.Type != EventCheckoutCompleted || event.Session == nil {
		return nil
	}

	session := event.Session
	userID := session.Metadata[MetadataUserID]
	if session.PaymentStatus != PaymentStatusPaid || userID == "" || session.Metadata[MetadataType] == TypeDonation {
		return nil
	}

	if err := s.premium.GrantPremium(ctx, userID); err != nil {
		return fmt.Errorf("%w: %w", ErrActivationFailed, err)
	}
	return nil
}

func (s *Service) baseParams(ctx context.Context, customer Customer, origin string) (CheckoutSessionParams, error) {
	if s.provider == nil {
		return CheckoutSessionParams{}, ErrNotConfigured
	}
	if customer.Email == "" {
		return CheckoutSessionParams{}, ErrEmailRequired
	}

	params := CheckoutSessionParams{
		CancelURL: s.resolveOrigin(origin) + "/profile",
		Metadata:  map[string]string{MetadataUserID: customer.UserID},
	}

	customerID, err := s.provider.FindCustomerByEmail(ctx, customer.Email)
	if err != nil {
		return CheckoutSessionParams{}, fmt.Errorf("find customer: %w", err)
	}
	if customerID != "" {
		s.log.Debug("payments: existing customer found", "customer_id", customerID)
		params.CustomerID = customerID
	} else {
		params.CustomerEmail = customer.Email
	}
	return params, nil
}

func (s *Service) resolveOrigin(origin string) string {
	origin = strings.TrimRight(strings.TrimSpace(origin), "/")
	if origin == "" {
		return s.origin
	}
	return origin
}

// IsValidation reports whether err should be shown to the client as a 400.
func IsValidation(err error) (*ValidationError, bool) {
	var validation *ValidationError
	if errors.As(err, &validation) {
		return validation, true
	}
	return nil, false
}
