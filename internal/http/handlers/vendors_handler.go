package handlers

import (
	"net/http"

	"github.com/weddingwise/weddingwise-bookings/internal/domain"
)

func (h *Handlers) ListVendors(w http.ResponseWriter, r *http.Request) {
	vendors, err := h.catalogService.ListVendors(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}
	if vendors == nil {
		vendors = []domain.Vendor{}
	}
	writeJSON(w, http.StatusOK, vendors)
}

func (h *Handlers) GetVendor(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	vendor, err := h.catalogService.GetVendor(r.Context(), id)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vendor)
}

func (h *Handlers) CreateVendor(w http.ResponseWriter, r *http.Request) {
	var req domain.VendorRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	vendor, err := h.catalogService.CreateVendor(r.Context(), &req)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, vendor)
}

func (h *Handlers) UpdateVendor(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var req domain.VendorRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	vendor, err := h.catalogService.UpdateVendor(r.Context(), id, &req)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vendor)
}

func (h *Handlers) DeleteVendor(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteVendor(r.Context(), id); err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Vendor deleted successfully"})
}

func (h *Handlers) BookVendor(w http.ResponseWriter, r *http.Request) {
	var req domain.BookVendorRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var userID *int64
	if who, ok := requester(r); ok {
		userID = &who.UserID
	}

	booking, err := h.catalogService.BookVendor(r.Context(), &req, userID)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}
