package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"serverwatch/internal/health"
)

const timeLayout = "2006-01-02 15:04:05"

// HostStatus is the per-host status API shape. Field names are stable;
// the dashboard consumes them directly.
type HostStatus struct {
	Name             string         `json:"name"`
	Host             string         `json:"host"`
	Status           string         `json:"status"`
	LastCheck        string         `json:"last_check"`
	CheckCount       int            `json:"check_count"`
	UpCount          int            `json:"up_count"`
	DownCount        int            `json:"down_count"`
	UptimePercentage float64        `json:"uptime_percentage"`
	History          []HistoryEntry `json:"history"`
}

// HistoryEntry is one history sample with an ISO-8601 timestamp.
type HistoryEntry struct {
	Time   string `json:"time"`
	Status string `json:"status"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.Store.Snapshot()

	out := make(map[string]HostStatus, len(snap))
	for key, rec := range snap {
		out[key] = recordToStatus(rec)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		s.Logger.Warn("status_encode_error", zap.Error(err))
	}
}

func recordToStatus(rec health.Record) HostStatus {
	hs := HostStatus{
		Name:             rec.Name,
		Host:             rec.Host,
		Status:           string(rec.Status),
		CheckCount:       rec.CheckCount,
		UpCount:          rec.UpCount,
		DownCount:        rec.DownCount,
		UptimePercentage: rec.UptimePct,
		History:          make([]HistoryEntry, 0, len(rec.History)),
	}
	if !rec.LastCheckAt.IsZero() {
		hs.LastCheck = rec.LastCheckAt.Format(timeLayout)
	}
	for _, sample := range rec.History {
		hs.History = append(hs.History, HistoryEntry{
			Time:   sample.Time.Format(time.RFC3339),
			Status: string(sample.Status),
		})
	}
	return hs
}

type logsResponse struct {
	ServerName string   `json:"server_name"`
	Logs       []string `json:"logs"`
	Error      string   `json:"error,omitempty"`
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	hostKey := chi.URLParam(r, "hostKey")

	name := "Unknown"
	for _, h := range s.Hosts.Hosts() {
		if h.Host == hostKey {
			name = h.Name
			break
		}
	}

	cutoff := time.Now().Add(-s.Retention)
	lines, err := s.Logs.Query(hostKey, cutoff)

	resp := logsResponse{ServerName: name, Logs: lines}
	if resp.Logs == nil {
		resp.Logs = []string{}
	}
	if err != nil {
		s.Logger.Warn("log_query_error", zap.String("host", hostKey), zap.Error(err))
		resp.Error = "could not read the status log"
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.Logger.Warn("logs_encode_error", zap.Error(err))
	}
}
