package handlers

import (
	"net/http"
)

type refreshTokenRequest struct {
	Token string `json:"token"`
}

// RefreshToken exchanges an expired token for a fresh one with the same
// identity claims. Tokens that have not expired are rejected.
func (h *Handlers) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req refreshTokenRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	token, err := h.authService.Refresh(r.Context(), req.Token)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}
