package handlers

import (
	"net/http"

	"github.com/weddingwise/weddingwise-bookings/internal/domain"
	"github.com/weddingwise/weddingwise-bookings/internal/http/response"
	"github.com/weddingwise/weddingwise-bookings/pkg/logger"
)

// Register creates an account and returns a token plus the public user
// fields.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		if domain.KindOf(err) == domain.KindConflict {
			response.WriteError(w, http.StatusConflict, "user already exists with this email", response.CodeEmailExists)
			return
		}
		serviceError(w, err)
		return
	}

	logger.InfoContext(r.Context(), "User registered", "user_id", resp.UserData.ID)
	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) SendResetPasswordEmail(w http.ResponseWriter, r *http.Request) {
	var req domain.ResetPasswordEmailRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.authService.SendResetEmail(r.Context(), req.Email); err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Password reset email sent. Please check your inbox.",
	})
}

func (h *Handlers) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req domain.ResetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.authService.ResetPassword(r.Context(), &req); err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Password has been reset successfully.",
	})
}

// UpdateProfile changes the display name and returns a fresh token so
// the client's stored claims stay in sync.
func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	who, ok := requester(r)
	if !ok {
		response.Unauthorized(w, "Access Denied. No token provided.")
		return
	}

	var req domain.UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.authService.UpdateProfile(r.Context(), who.UserID, &req)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
