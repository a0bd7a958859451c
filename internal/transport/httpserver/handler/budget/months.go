package budget

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type monthRequest struct {
	Name string `json:"name"`
}

type setActiveMonthRequest struct {
	ID string `json:"id"`
}

type setBudgetRequest struct {
	Amount *decimal.Decimal `json:"amount"`
}

func (h *Handlers) CreateMonth(w http.ResponseWriter, r *http.Request) {
	var req monthRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	state, user, ok := h.state(w, r, "months.create")
	if !ok {
		return
	}

	month, err := state.AddMonth(r.Context(), req.Name)
	if err != nil {
		h.writeStateError(w, "months.create", user.ID, err)
		return
	}

	writeJSON(w, http.StatusCreated, newMonthResponse(*month))
}

func (h *Handlers) RenameMonth(w http.ResponseWriter, r *http.Request) {
	var req monthRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	state, user, ok := h.state(w, r, "months.rename")
	if !ok {
		return
	}

	month, err := state.EditMonthName(r.Context(), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		h.writeStateError(w, "months.rename", user.ID, err)
		return
	}

	writeJSON(w, http.StatusOK, newMonthResponse(*month))
}

func (h *Handlers) DeleteMonth(w http.ResponseWriter, r *http.Request) {
	state, user, ok := h.state(w, r, "months.delete")
	if !ok {
		return
	}

	if err := state.DeleteMonth(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeStateError(w, "months.delete", user.ID, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) DuplicateMonth(w http.ResponseWriter, r *http.Request) {
	state, user, ok := h.state(w, r, "months.duplicate")
	if !ok {
		return
	}

	month, err := state.DuplicateMonth(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeStateError(w, "months.duplicate", user.ID, err)
		return
	}

	writeJSON(w, http.StatusCreated, newMonthResponse(*month))
}

func (h *Handlers) PinMonth(w http.ResponseWriter, r *http.Request) {
	state, user, ok := h.state(w, r, "months.pin")
	if !ok {
		return
	}

	month, err := state.PinMonth(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeStateError(w, "months.pin", user.ID, err)
		return
	}

	writeJSON(w, http.StatusOK, newMonthResponse(*month))
}

func (h *Handlers) SetActiveMonth(w http.ResponseWriter, r *http.Request) {
	var req setActiveMonthRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "id is required")
		return
	}

	state, user, ok := h.state(w, r, "months.activate")
	if !ok {
		return
	}

	if err := state.SetActiveMonth(r.Context(), req.ID); err != nil {
		h.writeStateError(w, "months.activate", user.ID, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"activeMonthId": req.ID})
}

func (h *Handlers) SetBudget(w http.ResponseWriter, r *http.Request) {
	var req setBudgetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if req.Amount == nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "amount is required")
		return
	}

	state, user, ok := h.state(w, r, "months.budget")
	if !ok {
		return
	}

	month, err := state.SetBudget(r.Context(), *req.Amount)
	if err != nil {
		h.writeStateError(w, "months.budget", user.ID, err)
		return
	}

	writeJSON(w, http.StatusOK, newMonthResponse(*month))
}
