package budget

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handlers) CreateSubscription(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if req.Amount == nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "amount is required")
		return
	}

	state, user, ok := h.state(w, r, "subscriptions.create")
	if !ok {
		return
	}

	subscription, err := state.AddSubscription(r.Context(), req.Name, *req.Amount)
	if err != nil {
		h.writeStateError(w, "subscriptions.create", user.ID, err)
		return
	}

	writeJSON(w, http.StatusCreated, newSubscriptionResponse(*subscription))
}

func (h *Handlers) UpdateSubscription(w http.ResponseWriter, r *http.Request) {
	var req patchItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	state, user, ok := h.state(w, r, "subscriptions.update")
	if !ok {
		return
	}

	subscription, err := state.EditSubscription(r.Context(), chi.URLParam(r, "id"), req.patch())
	if err != nil {
		h.writeStateError(w, "subscriptions.update", user.ID, err)
		return
	}

	writeJSON(w, http.StatusOK, newSubscriptionResponse(*subscription))
}

func (h *Handlers) DeleteSubscription(w http.ResponseWriter, r *http.Request) {
	state, user, ok := h.state(w, r, "subscriptions.delete")
	if !ok {
		return
	}

	if err := state.DeleteSubscription(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeStateError(w, "subscriptions.delete", user.ID, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) DuplicateSubscription(w http.ResponseWriter, r *http.Request) {
	state, user, ok := h.state(w, r, "subscriptions.duplicate")
	if !ok {
		return
	}

	subscription, err := state.DuplicateSubscription(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeStateError(w, "subscriptions.duplicate", user.ID, err)
		return
	}

	writeJSON(w, http.StatusCreated, newSubscriptionResponse(*subscription))
}

func (h *Handlers) PinSubscription(w http.ResponseWriter, r *http.Request) {
	state, user, ok := h.state(w, r, "subscriptions.pin")
	if !ok {
		return
	}

	subscription, err := state.PinSubscription(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeStateError(w, "subscriptions.pin", user.ID, err)
		return
	}

	writeJSON(w, http.StatusOK, newSubscriptionResponse(*subscription))
}
