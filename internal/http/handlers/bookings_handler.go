package handlers

import (
	"net/http"

	"github.com/weddingwise/weddingwise-bookings/internal/domain"
	"github.com/weddingwise/weddingwise-bookings/internal/http/response"
)

// ConfirmBookings persists the submitted cart and sends a single
// confirmation email. The response reports emailSent separately so a
// mail outage never looks like a lost booking.
func (h *Handlers) ConfirmBookings(w http.ResponseWriter, r *http.Request) {
	who, ok := requester(r)
	if !ok {
		response.Unauthorized(w, "Access Denied. No token provided.")
		return
	}

	var req domain.ConfirmBookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.bookingService.ConfirmBookings(r.Context(), &req, who)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) ListBookings(w http.ResponseWriter, r *http.Request) {
	who, ok := requester(r)
	if !ok {
		response.Unauthorized(w, "Access Denied. No token provided.")
		return
	}

	bookings, err := h.bookingService.ListBookings(r.Context(), who)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (h *Handlers) GetBooking(w http.ResponseWriter, r *http.Request) {
	who, ok := requester(r)
	if !ok {
		response.Unauthorized(w, "Access Denied. No token provided.")
		return
	}

	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	booking, err := h.bookingService.GetBooking(r.Context(), id, who)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *Handlers) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	who, ok := requester(r)
	if !ok {
		response.Unauthorized(w, "Access Denied. No token provided.")
		return
	}

	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var patch domain.BookingPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	booking, err := h.bookingService.UpdateBooking(r.Context(), id, patch, who)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *Handlers) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	who, ok := requester(r)
	if !ok {
		response.Unauthorized(w, "Access Denied. No token provided.")
		return
	}

	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.bookingService.DeleteBooking(r.Context(), id, who); err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Booking deleted successfully"})
}
