package payments

import (
	"errors"
	"io"
	"net/http"

	paymentsdomain "budget-app-go/internal/domain/payments"
	"budget-app-go/internal/domain/ratelimit"
	"budget-app-go/internal/i18n"
)

const maxWebhookBody = 64 << 10

type checkoutRequest struct {
	PriceID string `json:"priceId"`
	Mode    string `json:"mode"`
}

type donationRequest struct {
	AmountInCents *int64 `json:"amountInCents"`
	// Amount is the older name of AmountInCents.
	Amount *int64 `json:"amount"`
}

type verifyRequest struct {
	SessionID string `json:"sessionId"`
}

type urlResponse struct {
	URL string `json:"url"`
}

func (h *Handlers) Checkout(w http.ResponseWriter, r *http.Request) {
	user, ok := h.allow(w, r, ratelimit.FunctionCheckout)
	if !ok {
		return
	}

	var req checkoutRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", paymentsdomain.MessageInvalidCheckout)
		return
	}

	customer := paymentsdomain.Customer{UserID: user.ID, Email: user.Email}
	url, err := h.Payments.Checkout(r.Context(), customer, r.Header.Get("Origin"), paymentsdomain.CheckoutRequest{
		PriceID: req.PriceID,
		Mode:    req.Mode,
	})
	if err != nil {
		h.writePaymentError(w, "payments.checkout", user.ID, err)
		return
	}

	writeJSON(w, http.StatusOK, urlResponse{URL: url})
}

func (h *Handlers) Donate(w http.ResponseWriter, r *http.Request) {
	user, ok := h.allow(w, r, ratelimit.FunctionDonation)
	if !ok {
		return
	}

	var req donationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", paymentsdomain.MessageInvalidDonation)
		return
	}
	amount := req.AmountInCents
	if amount == nil {
		amount = req.Amount
	}
	if amount == nil {
		writeError(w, http.StatusBadRequest, "invalid_request", paymentsdomain.MessageInvalidDonation)
		return
	}

	customer := paymentsdomain.Customer{UserID: user.ID, Email: user.Email}
	locale := i18n.Match(r.Header.Get("Accept-Language"))
	url, err := h.Payments.Donate(r.Context(), customer, r.Header.Get("Origin"), *amount, locale)
	if err != nil {
		h.writePaymentError(w, "payments.donate", user.ID, err)
		return
	}

	writeJSON(w, http.StatusOK, urlResponse{URL: url})
}

func (h *Handlers) Verify(w http.ResponseWriter, r *http.Request) {
	user, ok := h.allow(w, r, ratelimit.FunctionVerify)
	if !ok {
		return
	}

	var req verifyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", paymentsdomain.MessageInvalidSession)
		return
	}

	result, err := h.Payments.Verify(r.Context(), user.ID, req.SessionID)
	if err != nil {
		h.writePaymentError(w, "payments.verify", user.ID, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Webhook receives Stripe events. It is unauthenticated; the signature
// header is the proof of origin.
func (h *Handlers) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid payload")
		return
	}

	err = h.Payments.HandleWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature"))
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]bool{"received": true})
	case errors.Is(err, paymentsdomain.ErrInvalidWebhook):
		h.log.BusinessError("payments.webhook: rejected", err)
		writeError(w, http.StatusBadRequest, "invalid_webhook", "invalid webhook")
	default:
		h.writePaymentError(w, "payments.webhook", "", err)
	}
}
