package budget

import (
	"net/http"

	budgetdomain "budget-app-go/internal/domain/budget"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// itemRequest creates an expense or subscription.
type itemRequest struct {
	Name   string           `json:"name"`
	Amount *decimal.Decimal `json:"amount"`
}

// patchItemRequest edits an expense or subscription; absent fields stay.
type patchItemRequest struct {
	Name   *string          `json:"name"`
	Amount *decimal.Decimal `json:"amount"`
}

type moveRequest struct {
	Index *int `json:"index"`
}

func (p patchItemRequest) patch() budgetdomain.ExpensePatch {
	return budgetdomain.ExpensePatch{Name: p.Name, Amount: p.Amount}
}

func (h *Handlers) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if req.Amount == nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "amount is required")
		return
	}

	state, user, ok := h.state(w, r, "expenses.create")
	if !ok {
		return
	}

	expense, err := state.AddExpense(r.Context(), req.Name, *req.Amount)
	if err != nil {
		h.writeStateError(w, "expenses.create", user.ID, err)
		return
	}

	writeJSON(w, http.StatusCreated, newExpenseResponse(*expense))
}

func (h *Handlers) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	var req patchItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	state, user, ok := h.state(w, r, "expenses.update")
	if !ok {
		return
	}

	expense, err := state.EditExpense(r.Context(), chi.URLParam(r, "id"), req.patch())
	if err != nil {
		h.writeStateError(w, "expenses.update", user.ID, err)
		return
	}

	writeJSON(w, http.StatusOK, newExpenseResponse(*expense))
}

func (h *Handlers) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	state, user, ok := h.state(w, r, "expenses.delete")
	if !ok {
		return
	}

	if err := state.DeleteExpense(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeStateError(w, "expenses.delete", user.ID, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) DuplicateExpense(w http.ResponseWriter, r *http.Request) {
	state, user, ok := h.state(w, r, "expenses.duplicate")
	if !ok {
		return
	}

	expense, err := state.DuplicateExpense(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeStateError(w, "expenses.duplicate", user.ID, err)
		return
	}

	writeJSON(w, http.StatusCreated, newExpenseResponse(*expense))
}

func (h *Handlers) PinExpense(w http.ResponseWriter, r *http.Request) {
	state, user, ok := h.state(w, r, "expenses.pin")
	if !ok {
		return
	}

	expense, err := state.PinExpense(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeStateError(w, "expenses.pin", user.ID, err)
		return
	}

	writeJSON(w, http.StatusOK, newExpenseResponse(*expense))
}

func (h *Handlers) MoveExpense(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if req.Index == nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "index is required")
		return
	}

	state, user, ok := h.state(w, r, "expenses.move")
	if !ok {
		return
	}

	if err := state.MoveExpense(r.Context(), chi.URLParam(r, "id"), *req.Index); err != nil {
		h.writeStateError(w, "expenses.move", user.ID, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
