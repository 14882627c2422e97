package notify

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"serverwatch/internal/health"
)

const emailPlaceholderUser = "your_email@gmail.com"

// Email sends alerts over SMTP with STARTTLS and plain auth.
type Email struct {
	Server   string
	Port     int
	Username string
	Password string
	From     string
	To       []string
}

// NewEmail returns a configured channel, or nil when the credentials
// are missing or still the placeholders from a default config.
func NewEmail(server string, port int, username, password, from string, to []string) *Email {
	if server == "" || username == "" || password == "" || from == "" || len(to) == 0 {
		return nil
	}
	if username == emailPlaceholderUser {
		return nil
	}
	if port == 0 {
		port = 587
	}
	return &Email{
		Server:   server,
		Port:     port,
		Username: username,
		Password: password,
		From:     from,
		To:       to,
	}
}

func (e *Email) Name() string { return "email" }

func (e *Email) Send(ctx context.Context, a Alert) error {
	addr := net.JoinHostPort(e.Server, strconv.Itoa(e.Port))
	auth := smtp.PlainAuth("", e.Username, e.Password, e.Server)
	if err := smtp.SendMail(addr, auth, e.From, e.To, e.message(a)); err != nil {
		return fmt.Errorf("smtp %s: %w", addr, err)
	}
	return nil
}

// message builds the full RFC 5322 payload, subject included.
func (e *Email) message(a Alert) []byte {
	subject := fmt.Sprintf("Server Recovered: %s", a.ServerName)
	if a.Status == health.StatusDown {
		subject = fmt.Sprintf("Server DOWN Alert: %s", a.ServerName)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", e.From)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(e.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	fmt.Fprintf(&b, "Server Status Alert\r\n\r\n")
	fmt.Fprintf(&b, "Server Name: %s\r\n", a.ServerName)
	fmt.Fprintf(&b, "Host: %s\r\n", a.Host)
	fmt.Fprintf(&b, "Status: %s\r\n", strings.ToUpper(string(a.Status)))
	fmt.Fprintf(&b, "Details: %s\r\n", a.Detail)
	fmt.Fprintf(&b, "Time: %s\r\n", a.At.Format("2006-01-02 15:04:05"))
	b.WriteString("\r\n--\r\nThis is an automated notification from the server monitoring system.\r\n")
	return []byte(b.String())
}
