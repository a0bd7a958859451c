package payments

type Mode string

const (
	ModePayment      Mode = "payment"
	ModeSubscription Mode = "subscription"
)

const (
	PaymentStatusPaid = "paid"

	MetadataUserID = "user_id"
	MetadataType   = "type"
	TypeDonation   = "donation"

	EventCheckoutCompleted = "checkout.session.completed"
)

// Customer is the signed-in user a checkout is created for.
type Customer struct {
	UserID string
	Email  string
}

type CheckoutRequest struct {
	PriceID string
	Mode    string
}

// DonationLine is an ad hoc price for a one-off donation.
type DonationLine struct {
	AmountInCents      int64
	Currency           string
	ProductName        string
	ProductDescription string
}

type CheckoutSessionParams struct {
	CustomerID    string
	CustomerEmail string
	Mode          Mode
	PriceID       string
	Donation      *DonationLine
	SuccessURL    string
	CancelURL     string
	Metadata      map[string]string
}

type CheckoutSession struct {
	ID            string
	URL           string
	PaymentStatus string
	Metadata      map[string]string
}

type WebhookEvent struct {
	Type    string
	Session *CheckoutSession
}

type VerifyResult struct {
	Success   bool   `json:"success"`
	IsPremium bool   `json:"isPremium"`
	Message   string `json:"message"`
}
