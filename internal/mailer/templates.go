package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/weddingwise/weddingwise-bookings/internal/domain"
)

const confirmationSubject = "Booking Confirmation - WeddingWise"

// html/template escapes all interpolated values, so user-supplied
// titles cannot inject markup into the email.
var confirmationTmpl = template.Must(template.New("confirmation").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: auto; border: 1px solid #ddd; padding: 20px;">
    <div style="padding: 20px 0;">
        <h2 style="color: #333;">Booking Confirmation</h2>
        <p>Dear Customer,</p>
        <p>Thank you for choosing WeddingWise. Your bookings have been successfully confirmed. Here are the details:</p>
        <h3>Events</h3>
        {{if .Events}}{{range .Events}}
        <div style="margin-bottom: 10px;">
            <h3>{{.Title}}</h3>
            <p>Guests: {{if .Guests}}{{.Guests}}{{else}}Not specified{{end}}</p>
            {{if .Img}}<img src="{{.Img}}" alt="{{.Title}}" style="max-width: 100%;">{{end}}
        </div>
        {{end}}{{else}}<p>No events booked.</p>{{end}}
        <h3>Vendors</h3>
        {{if .Vendors}}{{range .Vendors}}
        <div style="margin-bottom: 10px;">
            <h3>{{.Title}}</h3>
            <p>Date: {{if .Date}}{{.Date.Format "January 2, 2006"}}{{else}}No date provided.{{end}}</p>
        </div>
        {{end}}{{else}}<p>No vendors booked.</p>{{end}}
    </div>
    <div style="padding-top: 20px; border-top: 1px solid #ddd; text-align: center;">
        <p style="color: #666;">If you have any questions, feel free to contact us at:</p>
        <p style="color: #666;">Phone: +1 (123) 456-7890 | Email: support@weddingwise.com</p>
    </div>
</div>
`))

type confirmationData struct {
	Events  []domain.Booking
	Vendors []domain.Booking
}

// BuildConfirmationHTML renders the booking summary for the
// confirmation email.
func BuildConfirmationHTML(events, vendors []domain.Booking) (string, error) {
	var buf bytes.Buffer
	if err := confirmationTmpl.Execute(&buf, confirmationData{Events: events, Vendors: vendors}); err != nil {
		return "", fmt.Errorf("failed to render confirmation email: %w", err)
	}
	return buf.String(), nil
}

// BuildConfirmationText is the plain-text fallback for clients that do
// not render HTML.
func BuildConfirmationText(events, vendors []domain.Booking) string {
	var b strings.Builder
	b.WriteString("Your WeddingWise bookings have been confirmed.\n\nEvents:\n")
	if len(events) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, e := range events {
		guests := "not specified"
		if e.Guests != nil {
			guests = fmt.Sprintf("%d", *e.Guests)
		}
		fmt.Fprintf(&b, "  - %s (guests: %s)\n", e.Title, guests)
	}
	b.WriteString("\nVendors:\n")
	if len(vendors) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, v := range vendors {
		date := "no date provided"
		if v.Date != nil {
			date = v.Date.Format("January 2, 2006")
		}
		fmt.Fprintf(&b, "  - %s (date: %s)\n", v.Title, date)
	}
	return b.String()
}

var resetTmpl = template.Must(template.New("reset").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: auto;">
    <h2>Reset your WeddingWise password</h2>
    <p>Hi {{.Name}},</p>
    <p>We received a request to reset your password. Click the link below to choose a new one:</p>
    <p><a href="{{.ResetURL}}" style="background-color: #4CAF50; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px;">Reset Password</a></p>
    <p>This link will expire in 20 minutes. If you didn't request a reset, you can ignore this email.</p>
</div>
`))

func buildResetHTML(name, resetURL string) (string, error) {
	var buf bytes.Buffer
	if err := resetTmpl.Execute(&buf, struct{ Name, ResetURL string }{name, resetURL}); err != nil {
		return "", fmt.Errorf("failed to render reset email: %w", err)
	}
	return buf.String(), nil
}
