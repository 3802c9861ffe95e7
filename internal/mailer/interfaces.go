package mailer

import "github.com/weddingwise/weddingwise-bookings/internal/domain"

// Service is the outbound notification collaborator. Sends are
// best-effort from the caller's point of view: implementations bound
// each send with their own timeout and report failures as errors
// without retrying.
type Service interface {
	SendBookingConfirmation(toEmail, toName string, events, vendors []domain.Booking) error
	SendResetPasswordEmail(toEmail, toName, resetURL string) error
	SendContactMessage(fromName, fromEmail, message string) error
}
