package payments

import (
	"errors"
	"net/http"

	paymentsdomain "budget-app-go/internal/domain/payments"
	"budget-app-go/internal/domain/ratelimit"
	commonhandler "budget-app-go/internal/transport/httpserver/handler/common"
	"budget-app-go/internal/transport/httpserver/middleware"
)

func writeError(w http.ResponseWriter, status int, code, message string) {
	commonhandler.WriteError(w, status, code, message)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	commonhandler.WriteJSON(w, status, payload)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	return commonhandler.DecodeJSON(r, dst)
}

// allow authenticates the caller and spends one call of function.
func (h *Handlers) allow(w http.ResponseWriter, r *http.Request, function string) (middleware.User, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		commonhandler.WriteUnauthorized(w)
		return user, false
	}
	if h.Limiter != nil {
		if err := h.Limiter.Allow(r.Context(), user.ID, function); err != nil {
			if errors.Is(err, ratelimit.ErrRateLimited) {
				h.log.BusinessError("payments: rate limited", err, "user_id", user.ID, "function", function)
				commonhandler.WriteRateLimited(w)
				return user, false
			}
			h.log.InternalError("payments: rate limit failed", err, "user_id", user.ID, "function", function)
			commonhandler.WriteInternalError(w)
			return user, false
		}
	}
	return user, true
}

// writePaymentError keeps validation details in the logs; the client only
// sees the fixed message.
func (h *Handlers) writePaymentError(w http.ResponseWriter, op, userID string, err error) {
	if validation, ok := paymentsdomain.IsValidation(err); ok {
		h.log.BusinessError(op+": validation failed", err, "user_id", userID)
		writeError(w, http.StatusBadRequest, "invalid_request", validation.Message)
		return
	}

	switch {
	case errors.Is(err, paymentsdomain.ErrEmailRequired):
		h.log.BusinessError(op+": user has no email", err, "user_id", userID)
		writeError(w, http.StatusUnauthorized, "email_required", "User not authenticated or email not available")
	case errors.Is(err, paymentsdomain.ErrSessionNotOwned):
		h.log.BusinessError(op+": session owned by another user", err, "user_id", userID)
		writeError(w, http.StatusForbidden, "forbidden", "checkout session does not belong to this user")
	case errors.Is(err, paymentsdomain.ErrNotConfigured):
		h.log.Error(op+": payments not configured", "user_id", userID)
		writeError(w, http.StatusServiceUnavailable, "payments_not_configured", "payments not configured")
	default:
		h.log.InternalError(op+": failed", err, "user_id", userID)
		commonhandler.WriteInternalError(w)
	}
}
