package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/weddingwise/weddingwise-bookings/internal/domain"
	"github.com/weddingwise/weddingwise-bookings/internal/http/handlers"
	wwmiddleware "github.com/weddingwise/weddingwise-bookings/internal/http/middleware"
	"github.com/weddingwise/weddingwise-bookings/internal/service"
	"github.com/weddingwise/weddingwise-bookings/pkg/auth"
)

const testSecret = "handlers-test-secret"

// ---------- Mocks ----------

type mockBookingRepo struct {
	nextID   int64
	bookings map[int64]*domain.Booking
}

func newMockBookingRepo() *mockBookingRepo {
	return &mockBookingRepo{nextID: 1, bookings: make(map[int64]*domain.Booking)}
}

func (m *mockBookingRepo) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	saved := *b
	saved.ID = m.nextID
	m.nextID++
	m.bookings[saved.ID] = &saved
	return &saved, nil
}

func (m *mockBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return nil, nil
	}
	copied := *b
	return &copied, nil
}

func (m *mockBookingRepo) ListByOwner(_ context.Context, userID int64, email string) ([]domain.Booking, error) {
	var result []domain.Booking
	for _, b := range m.bookings {
		if (b.UserID != nil && *b.UserID == userID) ||
			(b.UserID == nil && strings.EqualFold(b.Email, email)) {
			result = append(result, *b)
		}
	}
	return result, nil
}

func (m *mockBookingRepo) Update(_ context.Context, id int64, patch domain.BookingPatch) (*domain.Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return nil, nil
	}
	if patch.Name != nil {
		b.Name = *patch.Name
	}
	if patch.Guests != nil {
		b.Guests = patch.Guests
	}
	copied := *b
	return &copied, nil
}

func (m *mockBookingRepo) UpdateStatus(_ context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return nil, nil
	}
	b.Status = status
	copied := *b
	return &copied, nil
}

func (m *mockBookingRepo) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := m.bookings[id]; !ok {
		return false, nil
	}
	delete(m.bookings, id)
	return true, nil
}

type mockCatalogRepo struct {
	nextEventID  int64
	nextVendorID int64
	events       map[int64]*domain.Event
	vendors      map[int64]*domain.Vendor
}

func newMockCatalogRepo() *mockCatalogRepo {
	return &mockCatalogRepo{
		nextEventID:  1,
		nextVendorID: 1,
		events:       make(map[int64]*domain.Event),
		vendors:      make(map[int64]*domain.Vendor),
	}
}

func (m *mockCatalogRepo) ListEvents(context.Context) ([]domain.Event, error) {
	result := []domain.Event{}
	for _, e := range m.events {
		result = append(result, *e)
	}
	return result, nil
}

func (m *mockCatalogRepo) GetEventByID(_ context.Context, id int64) (*domain.Event, error) {
	e, ok := m.events[id]
	if !ok {
		return nil, nil
	}
	return e, nil
}

func (m *mockCatalogRepo) GetEventByTitle(_ context.Context, title string) (*domain.Event, error) {
	for _, e := range m.events {
		if strings.EqualFold(e.Title, title) {
			return e, nil
		}
	}
	return nil, nil
}

func (m *mockCatalogRepo) CreateEvent(_ context.Context, req *domain.EventRequest) (*domain.Event, error) {
	for _, e := range m.events {
		if strings.EqualFold(e.Title, req.Title) {
			return nil, domain.Conflictf("an event with this title already exists")
		}
	}
	e := &domain.Event{ID: m.nextEventID, Title: req.Title, Description: req.Description, Img: req.Img}
	m.nextEventID++
	m.events[e.ID] = e
	return e, nil
}

func (m *mockCatalogRepo) UpdateEvent(_ context.Context, id int64, req *domain.EventRequest) (*domain.Event, error) {
	e, ok := m.events[id]
	if !ok {
		return nil, nil
	}
	e.Title, e.Description, e.Img = req.Title, req.Description, req.Img
	return e, nil
}

func (m *mockCatalogRepo) DeleteEvent(_ context.Context, id int64) (bool, error) {
	if _, ok := m.events[id]; !ok {
		return false, nil
	}
	delete(m.events, id)
	return true, nil
}

func (m *mockCatalogRepo) ListVendors(context.Context) ([]domain.Vendor, error) {
	result := []domain.Vendor{}
	for _, v := range m.vendors {
		result = append(result, *v)
	}
	return result, nil
}

func (m *mockCatalogRepo) GetVendorByID(_ context.Context, id int64) (*domain.Vendor, error) {
	v, ok := m.vendors[id]
	if !ok {
		return nil, nil
	}
	return v, nil
}

func (m *mockCatalogRepo) GetVendorByName(_ context.Context, name string) (*domain.Vendor, error) {
	for _, v := range m.vendors {
		if strings.EqualFold(v.Name, name) {
			return v, nil
		}
	}
	return nil, nil
}

func (m *mockCatalogRepo) CreateVendor(_ context.Context, req *domain.VendorRequest) (*domain.Vendor, error) {
	v := &domain.Vendor{ID: m.nextVendorID, Name: req.Name, Description: req.Description, Img: req.Img}
	m.nextVendorID++
	m.vendors[v.ID] = v
	return v, nil
}

func (m *mockCatalogRepo) UpdateVendor(_ context.Context, id int64, req *domain.VendorRequest) (*domain.Vendor, error) {
	v, ok := m.vendors[id]
	if !ok {
		return nil, nil
	}
	v.Name, v.Description, v.Img = req.Name, req.Description, req.Img
	return v, nil
}

func (m *mockCatalogRepo) DeleteVendor(_ context.Context, id int64) (bool, error) {
	if _, ok := m.vendors[id]; !ok {
		return false, nil
	}
	delete(m.vendors, id)
	return true, nil
}

type mockUserRepo struct {
	nextID int64
	users  map[string]*domain.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{nextID: 1, users: make(map[string]*domain.User)}
}

func (m *mockUserRepo) Create(_ context.Context, name, email, passwordHash string) (*domain.User, error) {
	key := strings.ToLower(email)
	if _, exists := m.users[key]; exists {
		return nil, domain.Conflictf("user already exists with this email")
	}
	u := &domain.User{ID: m.nextID, Role: domain.RoleUser, Name: name, Email: email, PasswordHash: passwordHash}
	m.nextID++
	m.users[key] = u
	return u, nil
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := m.users[strings.ToLower(email)]
	if !ok {
		return nil, nil
	}
	return u, nil
}

func (m *mockUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) UpdateName(_ context.Context, id int64, name string) (*domain.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			u.Name = name
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) UpdatePassword(_ context.Context, id int64, passwordHash string) error {
	for _, u := range m.users {
		if u.ID == id {
			u.PasswordHash = passwordHash
			return nil
		}
	}
	return domain.NotFoundf("user not found")
}

func (m *mockUserRepo) LinkExistingBookings(context.Context, int64, string) error { return nil }

type mockResetRepo struct{}

func (mockResetRepo) CreatePasswordReset(context.Context, int64, string, time.Time) error {
	return nil
}
func (mockResetRepo) ConsumePasswordReset(context.Context, string) (int64, error) { return 0, nil }
func (mockResetRepo) DeleteExpiredTokens(context.Context) (int64, error)          { return 0, nil }

type mockMailer struct {
	confirmations int
	sendErr       error
}

func (m *mockMailer) SendBookingConfirmation(string, string, []domain.Booking, []domain.Booking) error {
	m.confirmations++
	return m.sendErr
}
func (m *mockMailer) SendResetPasswordEmail(string, string, string) error { return m.sendErr }
func (m *mockMailer) SendContactMessage(string, string, string) error     { return m.sendErr }

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, string, interface{}) error { return nil }
func (noopPublisher) Close() error                                       { return nil }

// ---------- Test Setup ----------

func setupTestServer() (*httptest.Server, *mockBookingRepo, *mockCatalogRepo, *mockMailer) {
	bookingRepo := newMockBookingRepo()
	catalogRepo := newMockCatalogRepo()
	userRepo := newMockUserRepo()
	m := &mockMailer{}

	authService := service.NewAuthService(userRepo, mockResetRepo{}, m, noopPublisher{},
		testSecret, time.Hour, 20*time.Minute, "http://localhost:5173")
	catalogService := service.NewCatalogService(catalogRepo, bookingRepo, nil)
	bookingService := service.NewBookingService(bookingRepo, catalogRepo, m, noopPublisher{})

	h := handlers.New(authService, catalogService, bookingService, m)
	authMW := wwmiddleware.NewAuth(testSecret)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
			r.With(authMW.RequireAuth).Put("/update-profile", h.UpdateProfile)
		})
		r.Post("/auth/refresh-token", h.RefreshToken)
		r.Route("/events", func(r chi.Router) {
			r.Get("/", h.ListEvents)
			r.Get("/{id}", h.GetEvent)
			r.With(authMW.OptionalAuth).Post("/book", h.BookEvent)
			r.Group(func(r chi.Router) {
				r.Use(authMW.RequireAuth, authMW.RequireAdmin)
				r.Post("/", h.CreateEvent)
				r.Put("/{id}", h.UpdateEvent)
				r.Delete("/{id}", h.DeleteEvent)
			})
		})
		r.Route("/bookings", func(r chi.Router) {
			r.Use(authMW.RequireAuth)
			r.Post("/confirm-booking", h.ConfirmBookings)
			r.Get("/", h.ListBookings)
			r.Get("/{id}", h.GetBooking)
		})
		r.Post("/contact", h.Contact)
	})

	return httptest.NewServer(r), bookingRepo, catalogRepo, m
}

func userToken(t *testing.T, role string) string {
	t.Helper()
	token, err := auth.NewAccessToken(42, "jane@example.com", "Jane Smith", role, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return token
}

func doJSON(t *testing.T, method, url, token string, data interface{}, expectedStatus int) *http.Response {
	t.Helper()

	var body bytes.Buffer
	if data != nil {
		if err := json.NewEncoder(&body).Encode(data); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &body)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	if resp.StatusCode != expectedStatus {
		t.Fatalf("%s %s: expected status %d, got %d", method, url, expectedStatus, resp.StatusCode)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dest interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

// ---------- Tests ----------

func TestAuthGate_MissingExpiredInvalidTokens(t *testing.T) {
	server, _, _, _ := setupTestServer()
	defer server.Close()

	expired, _ := auth.NewAccessToken(42, "jane@example.com", "Jane Smith", domain.RoleUser, testSecret, -time.Minute)
	forged, _ := auth.NewAccessToken(42, "jane@example.com", "Jane Smith", domain.RoleUser, "wrong-secret", time.Hour)

	tests := []struct {
		name     string
		token    string
		wantCode string
	}{
		{"missing token", "", "UNAUTHORIZED"},
		{"expired token", expired, "EXPIRED_TOKEN"},
		{"forged token", forged, "INVALID_TOKEN"},
		{"garbage token", "not-a-jwt", "INVALID_TOKEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, http.MethodGet, server.URL+"/api/bookings/", tt.token, nil, http.StatusUnauthorized)
			var body struct {
				Code string `json:"code"`
			}
			decodeBody(t, resp, &body)
			if body.Code != tt.wantCode {
				t.Fatalf("expected code %s, got %s", tt.wantCode, body.Code)
			}
		})
	}
}

func TestAdminGate_NonAdminForbidden(t *testing.T) {
	server, _, _, _ := setupTestServer()
	defer server.Close()

	event := map[string]string{"title": "Garden Ceremony"}

	doJSON(t, http.MethodPost, server.URL+"/api/events/", userToken(t, domain.RoleUser), event, http.StatusForbidden)
	doJSON(t, http.MethodPost, server.URL+"/api/events/", userToken(t, domain.RoleAdmin), event, http.StatusCreated)
}

func TestConfirmBooking_EndToEnd(t *testing.T) {
	server, bookingRepo, catalogRepo, m := setupTestServer()
	defer server.Close()

	catalogRepo.events[1] = &domain.Event{ID: 1, Title: "Garden Ceremony", Img: "garden.jpg"}
	catalogRepo.nextEventID = 2

	payload := map[string]interface{}{
		"bookedEvents": []map[string]interface{}{
			{"_id": "local-1", "event": "1", "guests": 120},
		},
		"bookedVendors": []map[string]interface{}{},
	}

	resp := doJSON(t, http.MethodPost, server.URL+"/api/bookings/confirm-booking",
		userToken(t, domain.RoleUser), payload, http.StatusOK)

	var result domain.ConfirmBookingResponse
	decodeBody(t, resp, &result)

	if !result.Success {
		t.Fatal("expected success")
	}
	if !result.EmailSent {
		t.Fatal("expected emailSent true")
	}
	if len(result.Bookings.SavedEvents) != 1 {
		t.Fatalf("expected 1 saved event, got %d", len(result.Bookings.SavedEvents))
	}
	if result.Bookings.SavedEvents[0].Title != "Garden Ceremony" {
		t.Fatalf("unexpected title %q", result.Bookings.SavedEvents[0].Title)
	}
	if len(bookingRepo.bookings) != 1 {
		t.Fatalf("expected 1 persisted booking, got %d", len(bookingRepo.bookings))
	}
	if m.confirmations != 1 {
		t.Fatalf("expected one confirmation email, got %d", m.confirmations)
	}
}

func TestConfirmBooking_EmptyCart_BadRequest(t *testing.T) {
	server, _, _, _ := setupTestServer()
	defer server.Close()

	payload := map[string]interface{}{
		"bookedEvents":  []map[string]interface{}{},
		"bookedVendors": []map[string]interface{}{},
	}

	doJSON(t, http.MethodPost, server.URL+"/api/bookings/confirm-booking",
		userToken(t, domain.RoleUser), payload, http.StatusBadRequest)
}

func TestRegisterLoginFlow(t *testing.T) {
	server, _, _, _ := setupTestServer()
	defer server.Close()

	registerBody := map[string]string{
		"name":     "Jane Smith",
		"email":    "jane@example.com",
		"password": "hunter2!",
	}
	resp := doJSON(t, http.MethodPost, server.URL+"/api/users/register", "", registerBody, http.StatusCreated)

	var registered domain.AuthResponse
	decodeBody(t, resp, &registered)
	if registered.Token == "" || registered.UserData == nil {
		t.Fatal("expected token and userData")
	}

	// Duplicate registration conflicts.
	dupResp := doJSON(t, http.MethodPost, server.URL+"/api/users/register", "", registerBody, http.StatusConflict)
	var dup struct {
		Code string `json:"code"`
	}
	decodeBody(t, dupResp, &dup)
	if dup.Code != "EMAIL_EXISTS" {
		t.Fatalf("expected EMAIL_EXISTS, got %s", dup.Code)
	}

	loginResp := doJSON(t, http.MethodPost, server.URL+"/api/users/login", "", map[string]string{
		"email":    "jane@example.com",
		"password": "hunter2!",
	}, http.StatusOK)

	var logged domain.AuthResponse
	decodeBody(t, loginResp, &logged)
	if logged.Token == "" {
		t.Fatal("expected token after login")
	}

	doJSON(t, http.MethodPost, server.URL+"/api/users/login", "", map[string]string{
		"email":    "jane@example.com",
		"password": "wrong-pass1!",
	}, http.StatusBadRequest)
}

func TestRefreshToken_StillValid_BadRequest(t *testing.T) {
	server, _, _, _ := setupTestServer()
	defer server.Close()

	regResp := doJSON(t, http.MethodPost, server.URL+"/api/users/register", "", map[string]string{
		"name":     "Jane Smith",
		"email":    "jane@example.com",
		"password": "hunter2!",
	}, http.StatusCreated)
	var registered domain.AuthResponse
	decodeBody(t, regResp, &registered)

	doJSON(t, http.MethodPost, server.URL+"/api/auth/refresh-token", "", map[string]string{
		"token": registered.Token,
	}, http.StatusBadRequest)

	expired, _ := auth.NewAccessToken(registered.UserData.ID, "jane@example.com", "Jane Smith", domain.RoleUser, testSecret, -time.Minute)
	resp := doJSON(t, http.MethodPost, server.URL+"/api/auth/refresh-token", "", map[string]string{
		"token": expired,
	}, http.StatusOK)

	var result map[string]string
	decodeBody(t, resp, &result)
	if result["token"] == "" {
		t.Fatal("expected fresh token")
	}

	// The fresh token passes the auth gate.
	doJSON(t, http.MethodGet, server.URL+"/api/bookings/", result["token"], nil, http.StatusOK)
}

func TestBookEvent_PublicShortcut(t *testing.T) {
	server, bookingRepo, catalogRepo, _ := setupTestServer()
	defer server.Close()

	catalogRepo.events[1] = &domain.Event{ID: 1, Title: "Beach Wedding", Img: "beach.jpg"}
	catalogRepo.nextEventID = 2

	payload := map[string]interface{}{
		"eventTitle": "Beach Wedding",
		"name":       "Sam Guest",
		"email":      "sam@example.com",
		"guests":     15,
	}

	resp := doJSON(t, http.MethodPost, server.URL+"/api/events/book", "", payload, http.StatusCreated)

	var booking domain.Booking
	decodeBody(t, resp, &booking)
	if booking.Status != domain.BookingCart {
		t.Fatalf("shortcut bookings land in the cart, got %q", booking.Status)
	}
	if booking.UserID != nil {
		t.Fatal("anonymous booking must not be linked to a user")
	}
	if len(bookingRepo.bookings) != 1 {
		t.Fatalf("expected 1 booking, got %d", len(bookingRepo.bookings))
	}

	// Unknown event title is 404.
	doJSON(t, http.MethodPost, server.URL+"/api/events/book", "", map[string]interface{}{
		"eventTitle": "No Such Event",
		"name":       "Sam Guest",
		"email":      "sam@example.com",
		"guests":     2,
	}, http.StatusNotFound)
}

func TestContact_Validation(t *testing.T) {
	server, _, _, _ := setupTestServer()
	defer server.Close()

	doJSON(t, http.MethodPost, server.URL+"/api/contact", "", map[string]string{
		"name":    "Sam",
		"email":   "not-an-email",
		"message": "hello",
	}, http.StatusBadRequest)

	doJSON(t, http.MethodPost, server.URL+"/api/contact", "", map[string]string{
		"name":    "Sam",
		"email":   "sam@example.com",
		"message": "Do you handle winter weddings?",
	}, http.StatusOK)
}
