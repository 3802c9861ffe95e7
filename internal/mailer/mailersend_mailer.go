package mailer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mailersend/mailersend-go"
	"github.com/weddingwise/weddingwise-bookings/internal/domain"
)

type MailerSendClient struct {
	client       *mailersend.Mailersend
	from         mailersend.From
	contactInbox string
	timeout      time.Duration
	enabled      bool
}

func NewMailerSend(apiKey, fromName, fromEmail, contactInbox string, timeout time.Duration) *MailerSendClient {
	m := &MailerSendClient{
		enabled: apiKey != "" && fromEmail != "",
		from: mailersend.From{
			Name:  fromName,
			Email: fromEmail,
		},
		contactInbox: contactInbox,
		timeout:      timeout,
	}

	if m.enabled {
		m.client = mailersend.NewMailersend(apiKey)
	}

	return m
}

func (m *MailerSendClient) SendBookingConfirmation(toEmail, toName string, events, vendors []domain.Booking) error {
	if !m.enabled {
		return fmt.Errorf("MailerSend not configured")
	}

	html, err := BuildConfirmationHTML(events, vendors)
	if err != nil {
		return err
	}
	text := BuildConfirmationText(events, vendors)

	return m.sendEmail(toEmail, toName, confirmationSubject, text, html)
}

func (m *MailerSendClient) SendResetPasswordEmail(toEmail, toName, resetURL string) error {
	if !m.enabled {
		return fmt.Errorf("MailerSend not configured")
	}

	html, err := buildResetHTML(toName, resetURL)
	if err != nil {
		return err
	}
	text := fmt.Sprintf("Reset your WeddingWise password by clicking this link: %s\n\nThis link expires in 20 minutes.", resetURL)

	return m.sendEmail(toEmail, toName, "Reset your WeddingWise password", text, html)
}

func (m *MailerSendClient) SendContactMessage(fromName, fromEmail, message string) error {
	if !m.enabled {
		return fmt.Errorf("MailerSend not configured")
	}

	subject := fmt.Sprintf("Contact Form Submission from %s", fromName)
	text := fmt.Sprintf("You have received a new message from %s (%s):\n\n%s", fromName, fromEmail, message)

	return m.sendEmail(m.contactInbox, "", subject, text, "")
}

func (m *MailerSendClient) sendEmail(toEmail, toName, subject, text, html string) error {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	msg := m.client.Email.NewMessage()
	msg.SetFrom(m.from)
	msg.SetRecipients([]mailersend.Recipient{{Name: toName, Email: toEmail}})
	msg.SetSubject(subject)

	if strings.TrimSpace(text) != "" {
		msg.SetText(text)
	}
	if strings.TrimSpace(html) != "" {
		msg.SetHTML(html)
	}

	_, err := m.client.Email.Send(ctx, msg)
	return err
}
