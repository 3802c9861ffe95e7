package handlers

import (
	"net/http"

	"github.com/weddingwise/weddingwise-bookings/internal/domain"
)

func (h *Handlers) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.catalogService.ListEvents(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}
	if events == nil {
		events = []domain.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *Handlers) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	event, err := h.catalogService.GetEvent(r.Context(), id)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (h *Handlers) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req domain.EventRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	event, err := h.catalogService.CreateEvent(r.Context(), &req)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

func (h *Handlers) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var req domain.EventRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	event, err := h.catalogService.UpdateEvent(r.Context(), id, &req)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (h *Handlers) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteEvent(r.Context(), id); err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Event deleted successfully"})
}

// BookEvent is the public single-item shortcut. The booking lands in
// the cart; confirmation happens later through the bookings API.
func (h *Handlers) BookEvent(w http.ResponseWriter, r *http.Request) {
	var req domain.BookEventRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var userID *int64
	if who, ok := requester(r); ok {
		userID = &who.UserID
	}

	booking, err := h.catalogService.BookEvent(r.Context(), &req, userID)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}
