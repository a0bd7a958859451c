package budget

import (
	"net/http"
)

type setLanguageRequest struct {
	Language string `json:"language"`
}

func (h *Handlers) GetState(w http.ResponseWriter, r *http.Request) {
	state, _, ok := h.freshState(w, r, "state.get")
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, newStateResponse(state.Snapshot()))
}

func (h *Handlers) SetLanguage(w http.ResponseWriter, r *http.Request) {
	var req setLanguageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	state, user, ok := h.state(w, r, "settings.language")
	if !ok {
		return
	}

	language, err := state.SetLanguage(r.Context(), req.Language)
	if err != nil {
		h.writeStateError(w, "settings.language", user.ID, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"language": language})
}
