package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/weddingwise/weddingwise-bookings/internal/domain"
	wwmiddleware "github.com/weddingwise/weddingwise-bookings/internal/http/middleware"
	"github.com/weddingwise/weddingwise-bookings/internal/http/response"
	"github.com/weddingwise/weddingwise-bookings/internal/mailer"
	"github.com/weddingwise/weddingwise-bookings/internal/service"
)

type Handlers struct {
	authService    *service.AuthService
	catalogService *service.CatalogService
	bookingService *service.BookingService
	mailer         mailer.Service
}

func New(
	authService *service.AuthService,
	catalogService *service.CatalogService,
	bookingService *service.BookingService,
	m mailer.Service,
) *Handlers {
	return &Handlers{
		authService:    authService,
		catalogService: catalogService,
		bookingService: bookingService,
		mailer:         m,
	}
}

// requester builds the service-level identity from the JWT claims the
// auth middleware stashed in the context.
func requester(r *http.Request) (service.Requester, bool) {
	claims := wwmiddleware.Claims(r)
	if claims == nil {
		return service.Requester{}, false
	}
	return service.Requester{
		UserID: claims.Sub,
		Name:   claims.Name,
		Email:  claims.Email,
		Role:   claims.Role,
	}, true
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		response.BadRequest(w, "invalid request body")
		return false
	}
	return true
}

func parseIDParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(w, "invalid id")
		return 0, false
	}
	return id, true
}

// serviceError writes the mapped error, falling back to 500 for
// anything without a domain kind.
func serviceError(w http.ResponseWriter, err error) {
	if domain.KindOf(err) == domain.KindInternal {
		response.InternalError(w, "internal server error")
		return
	}
	response.FromError(w, err)
}
