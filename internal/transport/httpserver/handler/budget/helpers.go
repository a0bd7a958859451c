package budget

import (
	"context"
	"errors"
	"net/http"

	budgetdomain "budget-app-go/internal/domain/budget"
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

type stateLoader func(ctx context.Context, userID string) (*budgetdomain.State, error)

// state resolves the caller's budget state or writes the error response.
func (h *Handlers) state(w http.ResponseWriter, r *http.Request, op string) (*budgetdomain.State, middleware.User, bool) {
	return h.loadState(w, r, op, h.States.Get)
}

// freshState is state re-read from the store, picking up writes made by
// other instances.
func (h *Handlers) freshState(w http.ResponseWriter, r *http.Request, op string) (*budgetdomain.State, middleware.User, bool) {
	return h.loadState(w, r, op, h.States.Refresh)
}

func (h *Handlers) loadState(w http.ResponseWriter, r *http.Request, op string, load stateLoader) (*budgetdomain.State, middleware.User, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		commonhandler.WriteUnauthorized(w)
		return nil, middleware.User{}, false
	}

	state, err := load(r.Context(), user.ID)
	if err != nil {
		h.log.InternalError(op+": load state failed", err, "user_id", user.ID)
		commonhandler.WriteInternalError(w)
		return nil, user, false
	}
	return state, user, true
}

// writeStateError maps budget errors to responses. Persistence and other
// unexpected failures become a generic 500.
func (h *Handlers) writeStateError(w http.ResponseWriter, op, userID string, err error) {
	var limitErr *budgetdomain.LimitError
	switch {
	case errors.As(err, &limitErr):
		h.log.BusinessError(op+": free tier limit reached", err, "user_id", userID, "kind", limitErr.Kind)
		writeError(w, http.StatusPaymentRequired, "premium_required", limitErr.Error())
	case errors.Is(err, budgetdomain.ErrMonthNotFound):
		writeError(w, http.StatusNotFound, "month_not_found", err.Error())
	case errors.Is(err, budgetdomain.ErrExpenseNotFound):
		writeError(w, http.StatusNotFound, "expense_not_found", err.Error())
	case errors.Is(err, budgetdomain.ErrSubscriptionNotFound):
		writeError(w, http.StatusNotFound, "subscription_not_found", err.Error())
	case errors.Is(err, budgetdomain.ErrNoActiveMonth):
		h.log.BusinessError(op+": no active month", err, "user_id", userID)
		writeError(w, http.StatusConflict, "no_active_month", err.Error())
	case errors.Is(err, budgetdomain.ErrExpensePinned):
		writeError(w, http.StatusConflict, "expense_pinned", err.Error())
	case errors.Is(err, budgetdomain.ErrNameRequired),
		errors.Is(err, budgetdomain.ErrInvalidAmount),
		errors.Is(err, budgetdomain.ErrEmptyPatch),
		errors.Is(err, budgetdomain.ErrUnsupportedLanguage):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		h.log.InternalError(op+": failed", err, "user_id", userID)
		commonhandler.WriteInternalError(w)
	}
}
