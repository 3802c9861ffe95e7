package mailer

import (
	"strings"
	"testing"
	"time"

	"github.com/weddingwise/weddingwise-bookings/internal/domain"
)

func intPtr(n int) *int { return &n }

func TestBuildConfirmationHTML(t *testing.T) {
	date := time.Date(2026, time.September, 12, 0, 0, 0, 0, time.UTC)
	events := []domain.Booking{
		{Title: "Garden Ceremony", Guests: intPtr(80), Img: "https://cdn.example.com/garden.jpg"},
	}
	vendors := []domain.Booking{
		{Title: "Bloom & Petal Florists", Date: &date},
	}

	html, err := BuildConfirmationHTML(events, vendors)
	if err != nil {
		t.Fatalf("BuildConfirmationHTML failed: %v", err)
	}

	for _, want := range []string{
		"Garden Ceremony",
		"Guests: 80",
		"https://cdn.example.com/garden.jpg",
		"Bloom &amp; Petal Florists",
		"September 12, 2026",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("expected %q in rendered email", want)
		}
	}
}

func TestBuildConfirmationHTML_EscapesUserInput(t *testing.T) {
	events := []domain.Booking{
		{Title: `<script>alert("xss")</script>`, Guests: intPtr(2)},
	}

	html, err := BuildConfirmationHTML(events, nil)
	if err != nil {
		t.Fatalf("BuildConfirmationHTML failed: %v", err)
	}

	if strings.Contains(html, "<script>") {
		t.Fatal("user-supplied title must be escaped")
	}
	if !strings.Contains(html, "&lt;script&gt;") {
		t.Fatal("expected escaped title in output")
	}
}

func TestBuildConfirmationHTML_EmptySections(t *testing.T) {
	html, err := BuildConfirmationHTML(nil, nil)
	if err != nil {
		t.Fatalf("BuildConfirmationHTML failed: %v", err)
	}

	if !strings.Contains(html, "No events booked.") {
		t.Error("expected empty-events placeholder")
	}
	if !strings.Contains(html, "No vendors booked.") {
		t.Error("expected empty-vendors placeholder")
	}
}

func TestBuildConfirmationText(t *testing.T) {
	events := []domain.Booking{
		{Title: "Garden Ceremony", Guests: intPtr(80)},
		{Title: "Untitled Event"},
	}

	text := BuildConfirmationText(events, nil)

	if !strings.Contains(text, "Garden Ceremony (guests: 80)") {
		t.Errorf("unexpected text:\n%s", text)
	}
	if !strings.Contains(text, "Untitled Event (guests: not specified)") {
		t.Errorf("missing guests fallback:\n%s", text)
	}
	if !strings.Contains(text, "Vendors:\n  (none)") {
		t.Errorf("missing empty vendors section:\n%s", text)
	}
}

func TestBuildResetHTML(t *testing.T) {
	html, err := buildResetHTML("Jane", "http://localhost:5173/reset-password/abc123")
	if err != nil {
		t.Fatalf("buildResetHTML failed: %v", err)
	}

	if !strings.Contains(html, "Hi Jane,") {
		t.Error("expected greeting with name")
	}
	if !strings.Contains(html, `href="http://localhost:5173/reset-password/abc123"`) {
		t.Error("expected reset link")
	}
}
