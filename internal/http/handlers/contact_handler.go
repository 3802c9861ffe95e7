package handlers

import (
	"net/http"
	"strings"

	"github.com/weddingwise/weddingwise-bookings/internal/domain"
	"github.com/weddingwise/weddingwise-bookings/internal/http/response"
	"github.com/weddingwise/weddingwise-bookings/pkg/logger"
)

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Contact relays a contact form submission to the configured inbox.
func (h *Handlers) Contact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Message = strings.TrimSpace(req.Message)
	if req.Name == "" || req.Email == "" || req.Message == "" {
		response.BadRequest(w, "all fields are required: name, email, and message")
		return
	}
	if !domain.IsValidEmail(req.Email) {
		response.BadRequest(w, "please provide a valid email address")
		return
	}

	if err := h.mailer.SendContactMessage(req.Name, req.Email, req.Message); err != nil {
		logger.ErrorContext(r.Context(), "Failed to relay contact message", "error", err)
		response.InternalError(w, "failed to send message")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Thank you for reaching out! We will get back to you soon.",
	})
}
