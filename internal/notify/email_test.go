package notify

import (
	"strings"
	"testing"
	"time"

	"serverwatch/internal/health"
)

func TestEmail_MessageDownSubject(t *testing.T) {
	e := NewEmail("smtp.example.com", 587, "ops@example.com", "secret", "ops@example.com", []string{"oncall@example.com"})
	if e == nil {
		t.Fatal("expected configured channel")
	}

	msg := string(e.message(Alert{
		ServerName: "db-1",
		Host:       "10.0.0.2",
		Status:     health.StatusDown,
		Detail:     "1st check: 0/4 pings. Recheck: 0/4 pings.",
		At:         time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}))

	if !strings.Contains(msg, "Subject: Server DOWN Alert: db-1") {
		t.Fatalf("missing down subject:\n%s", msg)
	}
	if !strings.Contains(msg, "To: oncall@example.com") {
		t.Fatalf("missing recipient header:\n%s", msg)
	}
	if !strings.Contains(msg, "Status: DOWN") {
		t.Fatalf("missing status line:\n%s", msg)
	}
}

func TestEmail_MessageRecoverySubject(t *testing.T) {
	e := NewEmail("smtp.example.com", 0, "ops@example.com", "secret", "ops@example.com", []string{"a@example.com", "b@example.com"})
	if e.Port != 587 {
		t.Fatalf("default port = %d, want 587", e.Port)
	}

	msg := string(e.message(Alert{ServerName: "db-1", Host: "10.0.0.2", Status: health.StatusUp, At: time.Now()}))
	if !strings.Contains(msg, "Subject: Server Recovered: db-1") {
		t.Fatalf("missing recovery subject:\n%s", msg)
	}
	if !strings.Contains(msg, "To: a@example.com, b@example.com") {
		t.Fatalf("missing joined recipients:\n%s", msg)
	}
}

func TestNewEmail_RejectsPlaceholders(t *testing.T) {
	if NewEmail("smtp.gmail.com", 587, "your_email@gmail.com", "p", "f@x.com", []string{"t@x.com"}) != nil {
		t.Fatal("placeholder username should yield nil channel")
	}
	if NewEmail("", 587, "u", "p", "f", []string{"t"}) != nil {
		t.Fatal("empty server should yield nil channel")
	}
}
