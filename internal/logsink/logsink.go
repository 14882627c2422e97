// Package logsink maintains the append-only status log. The line
// format is stable and parsed by the log query API and the dashboard:
//
//	[YYYY-MM-DD HH:MM:SS] | Server: <host> | Status: <UP|DOWN> | Message: <detail>
//
// Writes are chronological, which is what lets Query scan the file
// newest-first and stop early once it passes the time cutoff.
package logsink

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"serverwatch/internal/health"
)

const timeLayout = "2006-01-02 15:04:05"

// Sink appends status events to a single log file. Append failures go
// to the diagnostic logger and never interrupt monitoring.
type Sink struct {
	mu     sync.Mutex
	path   string
	logger *zap.Logger
}

func New(path string, logger *zap.Logger) *Sink {
	return &Sink{path: path, logger: logger}
}

// Init writes a startup marker when the log file does not exist yet.
func (s *Sink) Init(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := os.Stat(s.path); err == nil {
		return
	}
	s.write(fmt.Sprintf("[%s] | Monitoring started.\n", now.Format(timeLayout)))
}

// Append records one status event.
func (s *Sink) Append(hostKey string, status health.Status, detail string, now time.Time) {
	line := fmt.Sprintf("[%s] | Server: %s | Status: %s | Message: %s\n",
		now.Format(timeLayout), hostKey, strings.ToUpper(string(status)), detail)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.write(line)
}

func (s *Sink) write(line string) {
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		s.logger.Warn("status_log_open_error", zap.String("path", s.path), zap.Error(err))
		return
	}
	defer f.Close()
	if _, err := f.WriteString(line); err != nil {
		s.logger.Warn("status_log_write_error", zap.String("path", s.path), zap.Error(err))
	}
}

// Query returns the lines for hostKey at or after cutoff, oldest
// first. The file is scanned in reverse so the scan can stop at the
// first line older than the cutoff. A zero cutoff returns everything.
func (s *Sink) Query(hostKey string, cutoff time.Time) ([]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read status log: %w", err)
	}

	marker := "Server: " + hostKey + " |"
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")

	var out []string
	for i := len(lines) - 1; i >= 0; i-- {
		line := lines[i]
		if !strings.Contains(line, marker) {
			continue
		}
		if len(line) < 21 || line[0] != '[' {
			continue
		}
		ts, err := time.ParseInLocation(timeLayout, line[1:20], time.Local)
		if err != nil {
			// malformed timestamp, skip the line
			continue
		}
		if !cutoff.IsZero() && ts.Before(cutoff) {
			break
		}
		out = append(out, line)
	}

	// back to chronological order
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}
