package auth

import (
	"errors"
	"testing"
	"time"
)

const secret = "unit-test-secret"

func TestNewAccessToken_RoundTrip(t *testing.T) {
	token, err := NewAccessToken(7, "jane@example.com", "Jane Smith", "user", secret, time.Hour)
	if err != nil {
		t.Fatalf("NewAccessToken failed: %v", err)
	}

	claims, err := Parse(token, secret)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if claims.Sub != 7 {
		t.Errorf("sub = %d, want 7", claims.Sub)
	}
	if claims.Email != "jane@example.com" {
		t.Errorf("email = %q", claims.Email)
	}
	if claims.Name != "Jane Smith" {
		t.Errorf("name = %q", claims.Name)
	}
	if claims.Role != "user" {
		t.Errorf("role = %q", claims.Role)
	}
}

func TestParse_ExpiredToken(t *testing.T) {
	token, err := NewAccessToken(7, "jane@example.com", "Jane Smith", "user", secret, -time.Minute)
	if err != nil {
		t.Fatalf("NewAccessToken failed: %v", err)
	}

	_, err = Parse(token, secret)
	if !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestParse_WrongSecret(t *testing.T) {
	token, _ := NewAccessToken(7, "jane@example.com", "Jane Smith", "user", "other-secret", time.Hour)

	_, err := Parse(token, secret)
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestParse_Garbage(t *testing.T) {
	_, err := Parse("definitely-not-a-jwt", secret)
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestParseAllowExpired(t *testing.T) {
	token, _ := NewAccessToken(7, "jane@example.com", "Jane Smith", "user", secret, -time.Minute)

	claims, err := ParseAllowExpired(token, secret)
	if err != nil {
		t.Fatalf("ParseAllowExpired failed on expired token: %v", err)
	}
	if claims.Sub != 7 {
		t.Errorf("sub = %d, want 7", claims.Sub)
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.Before(time.Now()) {
		t.Error("expected an expiry in the past")
	}

	// Signature is still verified.
	forged, _ := NewAccessToken(7, "jane@example.com", "Jane Smith", "user", "other-secret", -time.Minute)
	if _, err := ParseAllowExpired(forged, secret); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for forged token, got %v", err)
	}
}
