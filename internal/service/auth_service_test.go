package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/weddingwise/weddingwise-bookings/internal/domain"
	"github.com/weddingwise/weddingwise-bookings/internal/service"
	"github.com/weddingwise/weddingwise-bookings/pkg/auth"
)

const testSecret = "test-secret"

// ---------- Mocks ----------

type mockUserRepo struct {
	nextID int64
	users  map[string]*domain.User // lower(email) -> user
	linked []int64
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{nextID: 1, users: make(map[string]*domain.User)}
}

func (m *mockUserRepo) Create(_ context.Context, name, email, passwordHash string) (*domain.User, error) {
	key := strings.ToLower(email)
	if _, exists := m.users[key]; exists {
		return nil, domain.Conflictf("user already exists with this email")
	}
	u := &domain.User{
		ID:           m.nextID,
		Role:         domain.RoleUser,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
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

func (m *mockUserRepo) LinkExistingBookings(_ context.Context, userID int64, _ string) error {
	m.linked = append(m.linked, userID)
	return nil
}

type mockResetRepo struct {
	tokens map[string]int64     // token -> user id
	expiry map[string]time.Time // token -> expiry
	used   map[string]bool
}

func newMockResetRepo() *mockResetRepo {
	return &mockResetRepo{
		tokens: make(map[string]int64),
		expiry: make(map[string]time.Time),
		used:   make(map[string]bool),
	}
}

func (m *mockResetRepo) CreatePasswordReset(_ context.Context, userID int64, token string, expiresAt time.Time) error {
	m.tokens[token] = userID
	m.expiry[token] = expiresAt
	return nil
}

func (m *mockResetRepo) ConsumePasswordReset(_ context.Context, token string) (int64, error) {
	userID, ok := m.tokens[token]
	if !ok || m.used[token] || time.Now().After(m.expiry[token]) {
		return 0, nil
	}
	m.used[token] = true
	return userID, nil
}

func (m *mockResetRepo) DeleteExpiredTokens(context.Context) (int64, error) { return 0, nil }

// ---------- Test Setup ----------

func setupAuthService() (*service.AuthService, *mockUserRepo, *mockResetRepo, *mockMailer, *mockPublisher) {
	users := newMockUserRepo()
	resets := newMockResetRepo()
	m := &mockMailer{}
	pub := &mockPublisher{}
	svc := service.NewAuthService(users, resets, m, pub,
		testSecret, time.Hour, 20*time.Minute, "http://localhost:5173")
	return svc, users, resets, m, pub
}

func register(t *testing.T, svc *service.AuthService) *domain.AuthResponse {
	t.Helper()
	resp, err := svc.Register(context.Background(), &domain.RegisterRequest{
		Name:     "Jane Smith",
		Email:    "jane@example.com",
		Password: "hunter2!",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return resp
}

// ---------- Tests ----------

func TestRegister_Success(t *testing.T) {
	svc, users, _, _, pub := setupAuthService()

	resp := register(t, svc)

	if resp.Token == "" {
		t.Fatal("expected a token")
	}
	if resp.UserData == nil || resp.UserData.Email != "jane@example.com" {
		t.Fatalf("unexpected user data: %+v", resp.UserData)
	}
	if resp.UserData.Role != domain.RoleUser {
		t.Fatalf("new accounts must get the user role, got %q", resp.UserData.Role)
	}

	claims, err := auth.Parse(resp.Token, testSecret)
	if err != nil {
		t.Fatalf("token does not parse: %v", err)
	}
	if claims.Sub != resp.UserData.ID || claims.Email != "jane@example.com" {
		t.Fatalf("claims do not match user: %+v", claims)
	}

	if len(users.linked) != 1 {
		t.Fatal("expected pre-registration bookings to be linked")
	}
	if len(pub.published) != 1 {
		t.Fatalf("expected user.registered event, got %v", pub.published)
	}
}

func TestRegister_DuplicateEmail_Conflict(t *testing.T) {
	svc, _, _, _, _ := setupAuthService()

	register(t, svc)

	_, err := svc.Register(context.Background(), &domain.RegisterRequest{
		Name:     "Other Jane",
		Email:    "JANE@example.com",
		Password: "hunter2!",
	})
	if domain.KindOf(err) != domain.KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRegister_WeakPassword_Rejected(t *testing.T) {
	svc, _, _, _, _ := setupAuthService()

	tests := []struct {
		name     string
		password string
	}{
		{"too short", "a1!"},
		{"no digit", "password!"},
		{"no special character", "password1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), &domain.RegisterRequest{
				Name:     "Jane Smith",
				Email:    "jane@example.com",
				Password: tt.password,
			})
			if domain.KindOf(err) != domain.KindValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestLogin_Success(t *testing.T) {
	svc, _, _, _, _ := setupAuthService()
	register(t, svc)

	resp, err := svc.Login(context.Background(), &domain.LoginRequest{
		Email:    "jane@example.com",
		Password: "hunter2!",
	})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if resp.Token == "" || resp.UserData == nil {
		t.Fatal("expected token and user data")
	}
}

func TestLogin_WrongPassword_Rejected(t *testing.T) {
	svc, _, _, _, _ := setupAuthService()
	register(t, svc)

	_, err := svc.Login(context.Background(), &domain.LoginRequest{
		Email:    "jane@example.com",
		Password: "wrong-pass1!",
	})
	if domain.KindOf(err) != domain.KindValidation {
		t.Fatalf("expected invalid credentials, got %v", err)
	}

	_, err = svc.Login(context.Background(), &domain.LoginRequest{
		Email:    "nobody@example.com",
		Password: "hunter2!",
	})
	if domain.KindOf(err) != domain.KindValidation {
		t.Fatalf("unknown email must fail the same way, got %v", err)
	}
}

func TestResetPassword_SingleUseToken(t *testing.T) {
	svc, _, resets, m, _ := setupAuthService()
	register(t, svc)

	if err := svc.SendResetEmail(context.Background(), "jane@example.com"); err != nil {
		t.Fatalf("SendResetEmail failed: %v", err)
	}
	if m.lastResetURL == "" {
		t.Fatal("expected a reset link in the email")
	}
	if !strings.Contains(m.lastResetURL, "/reset-password/") {
		t.Fatalf("unexpected reset link: %s", m.lastResetURL)
	}

	var token string
	for tok := range resets.tokens {
		token = tok
	}

	err := svc.ResetPassword(context.Background(), &domain.ResetPasswordRequest{
		Token:       token,
		NewPassword: "new-pass9!",
	})
	if err != nil {
		t.Fatalf("ResetPassword failed: %v", err)
	}

	// New password works, old one does not.
	if _, err := svc.Login(context.Background(), &domain.LoginRequest{
		Email: "jane@example.com", Password: "new-pass9!",
	}); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
	if _, err := svc.Login(context.Background(), &domain.LoginRequest{
		Email: "jane@example.com", Password: "hunter2!",
	}); err == nil {
		t.Fatal("old password must stop working")
	}

	// Second use of the same token fails.
	err = svc.ResetPassword(context.Background(), &domain.ResetPasswordRequest{
		Token:       token,
		NewPassword: "another-pass3!",
	})
	if domain.KindOf(err) != domain.KindUnauthorized {
		t.Fatalf("reused token must be rejected, got %v", err)
	}
}

func TestSendResetEmail_UnknownUser_NotFound(t *testing.T) {
	svc, _, _, _, _ := setupAuthService()

	err := svc.SendResetEmail(context.Background(), "nobody@example.com")
	if domain.KindOf(err) != domain.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRefresh_ExpiredToken_IssuesNewOne(t *testing.T) {
	svc, _, _, _, _ := setupAuthService()
	registered := register(t, svc)
	userID := registered.UserData.ID

	expired, err := auth.NewAccessToken(userID, "jane@example.com", "Jane Smith", domain.RoleUser, testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}

	fresh, err := svc.Refresh(context.Background(), expired)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	claims, err := auth.Parse(fresh, testSecret)
	if err != nil {
		t.Fatalf("refreshed token does not parse: %v", err)
	}
	if claims.Sub != userID || claims.Email != "jane@example.com" || claims.Role != domain.RoleUser {
		t.Fatalf("identity claims must carry over, got %+v", claims)
	}
}

func TestRefresh_RebuildsClaimsFromCurrentUserRow(t *testing.T) {
	svc, _, _, _, _ := setupAuthService()
	registered := register(t, svc)
	userID := registered.UserData.ID

	expired, _ := auth.NewAccessToken(userID, "jane@example.com", "Old Name", domain.RoleUser, testSecret, -time.Minute)

	if _, err := svc.UpdateProfile(context.Background(), userID, &domain.UpdateProfileRequest{Name: "Jane Smith-Jones"}); err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}

	fresh, err := svc.Refresh(context.Background(), expired)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	claims, _ := auth.Parse(fresh, testSecret)
	if claims.Name != "Jane Smith-Jones" {
		t.Fatalf("refreshed token carries stale name: %q", claims.Name)
	}
}

func TestRefresh_DeletedAccount_Rejected(t *testing.T) {
	svc, _, _, _, _ := setupAuthService()

	// Token for an account that no longer exists.
	expired, _ := auth.NewAccessToken(99, "gone@example.com", "Gone", domain.RoleUser, testSecret, -time.Minute)

	_, err := svc.Refresh(context.Background(), expired)
	if domain.KindOf(err) != domain.KindUnauthorized {
		t.Fatalf("refresh for a missing account must be rejected, got %v", err)
	}
}

func TestRefresh_StillValidToken_Rejected(t *testing.T) {
	svc, _, _, _, _ := setupAuthService()

	valid, _ := auth.NewAccessToken(7, "jane@example.com", "Jane Smith", domain.RoleUser, testSecret, time.Hour)

	_, err := svc.Refresh(context.Background(), valid)
	if domain.KindOf(err) != domain.KindValidation {
		t.Fatalf("a live token must not be refreshable, got %v", err)
	}
}

func TestRefresh_GarbageToken_Rejected(t *testing.T) {
	svc, _, _, _, _ := setupAuthService()

	_, err := svc.Refresh(context.Background(), "not-a-jwt")
	if domain.KindOf(err) != domain.KindUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}

	// Wrong signing key fails too.
	forged, _ := auth.NewAccessToken(7, "jane@example.com", "Jane Smith", domain.RoleUser, "other-secret", -time.Minute)
	_, err = svc.Refresh(context.Background(), forged)
	if domain.KindOf(err) != domain.KindUnauthorized {
		t.Fatalf("forged token must be rejected, got %v", err)
	}
}

func TestUpdateProfile_ReissuesToken(t *testing.T) {
	svc, _, _, _, _ := setupAuthService()
	registered := register(t, svc)

	resp, err := svc.UpdateProfile(context.Background(), registered.UserData.ID, &domain.UpdateProfileRequest{
		Name: "Jane Smith-Jones",
	})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if resp.UserData.Name != "Jane Smith-Jones" {
		t.Fatalf("name not updated: %q", resp.UserData.Name)
	}

	claims, err := auth.Parse(resp.Token, testSecret)
	if err != nil {
		t.Fatalf("reissued token does not parse: %v", err)
	}
	if claims.Name != "Jane Smith-Jones" {
		t.Fatalf("reissued token carries stale name: %q", claims.Name)
	}
}
