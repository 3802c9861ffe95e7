package mailer

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/weddingwise/weddingwise-bookings/internal/domain"
)

const defaultSMTPTimeout = 10 * time.Second

type SMTPMailer struct {
	Host         string
	Port         int
	From         string
	User         string
	Pass         string
	UseTLS       bool
	ContactInbox string
	Timeout      time.Duration
}

func NewSMTPMailer(host string, port int, from, user, pass string, useTLS bool, contactInbox string, timeout time.Duration) *SMTPMailer {
	if timeout <= 0 {
		timeout = defaultSMTPTimeout
	}
	return &SMTPMailer{
		Host:         strings.TrimSpace(host),
		Port:         port,
		From:         strings.TrimSpace(from),
		User:         strings.TrimSpace(user),
		Pass:         strings.TrimSpace(pass),
		UseTLS:       useTLS,
		ContactInbox: strings.TrimSpace(contactInbox),
		Timeout:      timeout,
	}
}

func (s *SMTPMailer) SendBookingConfirmation(toEmail, toName string, events, vendors []domain.Booking) error {
	html, err := BuildConfirmationHTML(events, vendors)
	if err != nil {
		return err
	}
	text := BuildConfirmationText(events, vendors)
	return s.sendEmail(toEmail, confirmationSubject, text, html)
}

func (s *SMTPMailer) SendResetPasswordEmail(toEmail, toName, resetURL string) error {
	html, err := buildResetHTML(toName, resetURL)
	if err != nil {
		return err
	}
	text := fmt.Sprintf("Reset your WeddingWise password by clicking this link: %s\n\nThis link expires in 20 minutes.", resetURL)
	return s.sendEmail(toEmail, "Reset your WeddingWise password", text, html)
}

func (s *SMTPMailer) SendContactMessage(fromName, fromEmail, message string) error {
	subject := fmt.Sprintf("Contact Form Submission from %s", fromName)
	text := fmt.Sprintf("You have received a new message from %s (%s):\n\n%s", fromName, fromEmail, message)
	return s.sendEmail(s.ContactInbox, subject, text, "")
}

func (s *SMTPMailer) sendEmail(toEmail, subject, text, html string) error {
	toEmail = strings.TrimSpace(toEmail)
	if toEmail == "" {
		return fmt.Errorf("empty recipient email")
	}

	var buf bytes.Buffer
	boundary := "mixed-boundary"

	fmt.Fprintf(&buf, "From: %s\r\n", s.From)
	fmt.Fprintf(&buf, "To: %s\r\n", toEmail)
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", boundary)

	fmt.Fprintf(&buf, "--%s\r\n", boundary)
	fmt.Fprintf(&buf, "Content-Type: text/plain; charset=utf-8\r\n\r\n")
	fmt.Fprintf(&buf, "%s\r\n\r\n", text)

	fmt.Fprintf(&buf, "--%s\r\n", boundary)
	fmt.Fprintf(&buf, "Content-Type: text/html; charset=utf-8\r\n\r\n")
	fmt.Fprintf(&buf, "%s\r\n\r\n", html)

	fmt.Fprintf(&buf, "--%s--\r\n", boundary)

	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)
	dialer := &net.Dialer{Timeout: s.Timeout}

	// Try plain SMTP first (with STARTTLS if supported)
	c, err := s.dialPlain(dialer, addr)
	if err == nil {
		err = s.submit(c, toEmail, buf.Bytes())
	}
	if err == nil || !s.UseTLS {
		return err
	}

	// Fallback to implicit TLS (port 465)
	c, err = s.dialTLS(dialer, addr)
	if err != nil {
		return err
	}
	return s.submit(c, toEmail, buf.Bytes())
}

func (s *SMTPMailer) dialPlain(dialer *net.Dialer, addr string) (*smtp.Client, error) {
	conn, err := dialer.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	conn.SetDeadline(time.Now().Add(s.Timeout))

	c, err := smtp.NewClient(conn, s.Host)
	if err != nil {
		conn.Close()
		return nil, err
	}
	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: s.Host}); err != nil {
			c.Close()
			return nil, err
		}
	}
	return c, nil
}

func (s *SMTPMailer) dialTLS(dialer *net.Dialer, addr string) (*smtp.Client, error) {
	conn, err := tls.DialWithDialer(dialer, "tcp", addr, &tls.Config{ServerName: s.Host})
	if err != nil {
		return nil, err
	}
	conn.SetDeadline(time.Now().Add(s.Timeout))

	c, err := smtp.NewClient(conn, s.Host)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return c, nil
}

// submit runs the SMTP conversation on an already-deadlined connection.
func (s *SMTPMailer) submit(c *smtp.Client, toEmail string, msg []byte) error {
	defer c.Quit()

	if s.User != "" {
		if err := c.Auth(smtp.PlainAuth("", s.User, s.Pass, s.Host)); err != nil {
			return err
		}
	}

	if err := c.Mail(s.From); err != nil {
		return err
	}
	if err := c.Rcpt(toEmail); err != nil {
		return err
	}

	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	return w.Close()
}
