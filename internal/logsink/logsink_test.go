package logsink

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"serverwatch/internal/health"
)

func newTestSink(t *testing.T) (*Sink, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "server_monitoring.log")
	return New(path, zap.NewNop()), path
}

func TestSink_AppendFormat(t *testing.T) {
	s, path := newTestSink(t)
	at := time.Date(2026, 8, 30, 9, 15, 0, 0, time.Local)

	s.Append("10.0.0.1", health.StatusDown, "Server is currently unreachable.", at)

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "[2026-08-30 09:15:00] | Server: 10.0.0.1 | Status: DOWN | Message: Server is currently unreachable.\n"
	if string(b) != want {
		t.Fatalf("line = %q, want %q", string(b), want)
	}
}

func TestSink_QueryFiltersHostAndCutoff(t *testing.T) {
	s, _ := newTestSink(t)
	now := time.Now()

	s.Append("a", health.StatusDown, "old entry", now.Add(-50*time.Hour))
	s.Append("a", health.StatusDown, "went down", now.Add(-2*time.Hour))
	s.Append("b", health.StatusUp, "other host", now.Add(-time.Hour))
	s.Append("a", health.StatusUp, "recovered", now.Add(-time.Minute))

	lines, err := s.Query("a", now.Add(-48*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 2 {
		t.Fatalf("want 2 lines, got %d: %v", len(lines), lines)
	}
	// chronological order, oldest first
	if !strings.Contains(lines[0], "went down") || !strings.Contains(lines[1], "recovered") {
		t.Fatalf("wrong order or content: %v", lines)
	}
	for _, l := range lines {
		if strings.Contains(l, "other host") || strings.Contains(l, "old entry") {
			t.Fatalf("filtered line leaked: %q", l)
		}
	}
}

func TestSink_QueryZeroCutoffReturnsAll(t *testing.T) {
	s, _ := newTestSink(t)
	now := time.Now()
	s.Append("a", health.StatusDown, "ancient", now.Add(-200*time.Hour))
	s.Append("a", health.StatusUp, "recent", now)

	lines, err := s.Query("a", time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 2 {
		t.Fatalf("want all lines, got %d", len(lines))
	}
}

func TestSink_QueryMissingFile(t *testing.T) {
	s, _ := newTestSink(t)
	lines, err := s.Query("a", time.Time{})
	if err != nil || lines != nil {
		t.Fatalf("missing file should be empty, got lines=%v err=%v", lines, err)
	}
}

func TestSink_QuerySkipsMalformedLines(t *testing.T) {
	s, path := newTestSink(t)
	now := time.Now()
	s.Append("a", health.StatusDown, "good", now)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	fmt.Fprintln(f, "garbage without timestamp Server: a |")
	f.Close()

	lines, err := s.Query("a", time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 1 || !strings.Contains(lines[0], "good") {
		t.Fatalf("malformed line handling wrong: %v", lines)
	}
}

func TestSink_InitWritesMarkerOnce(t *testing.T) {
	s, path := newTestSink(t)
	now := time.Now()

	s.Init(now)
	s.Init(now.Add(time.Hour))

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(b), "Monitoring started."); n != 1 {
		t.Fatalf("want 1 startup marker, got %d", n)
	}
}
