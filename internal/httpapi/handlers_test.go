package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"serverwatch/internal/config"
	"serverwatch/internal/health"
)

type fakeLogs struct {
	lines []string
	err   error
	query struct {
		hostKey string
		cutoff  time.Time
	}
}

func (f *fakeLogs) Query(hostKey string, cutoff time.Time) ([]string, error) {
	f.query.hostKey = hostKey
	f.query.cutoff = cutoff
	return f.lines, f.err
}

type fakeHosts struct{ hosts []config.Host }

func (f *fakeHosts) Hosts() []config.Host { return f.hosts }

func newTestServer(store SnapshotSource, logs LogQuerier, hosts HostLister) *Server {
	return NewServer(zap.NewNop(), store, logs, hosts, 48*time.Hour, 0, 0)
}

func TestHandleStatus_SerializesSnapshot(t *testing.T) {
	store := health.NewStore(48 * time.Hour)
	now := time.Now()
	store.ApplyResult("10.0.0.1", "Web", true, now.Add(-time.Minute))
	store.ApplyResult("10.0.0.1", "Web", false, now)
	store.ApplyResult("10.0.0.2", "DB", true, now)

	srv := newTestServer(store, &fakeLogs{}, &fakeHosts{})
	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var got map[string]HostStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}

	web := got["10.0.0.1"]
	if web.Name != "Web" || web.Status != "down" || web.CheckCount != 2 || web.UpCount != 1 || web.DownCount != 1 {
		t.Fatalf("unexpected web record: %+v", web)
	}
	if len(web.History) != 2 {
		t.Fatalf("history length = %d, want 2", len(web.History))
	}
	if _, err := time.Parse(time.RFC3339, web.History[0].Time); err != nil {
		t.Fatalf("history time not ISO-8601: %v", err)
	}
	if _, err := time.Parse(timeLayout, web.LastCheck); err != nil {
		t.Fatalf("last_check format: %v", err)
	}
}

// Serializing a snapshot through the API and parsing it back must
// preserve the per-host (status, check_count, uptime_percentage)
// tuples.
func TestHandleStatus_RoundTrip(t *testing.T) {
	store := health.NewStore(48 * time.Hour)
	now := time.Now()
	for i := 0; i < 7; i++ {
		store.ApplyResult("h1", "One", i%3 != 0, now.Add(time.Duration(i)*time.Minute))
		store.ApplyResult("h2", "Two", true, now.Add(time.Duration(i)*time.Minute))
	}

	srv := newTestServer(store, &fakeLogs{}, &fakeHosts{})
	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	var parsed map[string]HostStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &parsed); err != nil {
		t.Fatalf("decode: %v", err)
	}

	for key, want := range store.Snapshot() {
		got, ok := parsed[key]
		if !ok {
			t.Fatalf("host %s missing from response", key)
		}
		if got.Status != string(want.Status) || got.CheckCount != want.CheckCount || got.UptimePercentage != want.UptimePct {
			t.Fatalf("round trip mismatch for %s: got (%s,%d,%v) want (%s,%d,%v)",
				key, got.Status, got.CheckCount, got.UptimePercentage,
				want.Status, want.CheckCount, want.UptimePct)
		}
	}
}

func TestHandleLogs_ResolvesNameAndCutoff(t *testing.T) {
	logs := &fakeLogs{lines: []string{
		"[2026-08-30 09:15:00] | Server: 10.0.0.1 | Status: DOWN | Message: Status changed from up to down",
	}}
	hosts := &fakeHosts{hosts: []config.Host{{Name: "Web", Host: "10.0.0.1"}}}
	srv := newTestServer(health.NewStore(0), logs, hosts)

	req := httptest.NewRequest(http.MethodGet, "/api/logs/10.0.0.1", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	var resp struct {
		ServerName string   `json:"server_name"`
		Logs       []string `json:"logs"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ServerName != "Web" {
		t.Fatalf("server_name = %q", resp.ServerName)
	}
	if len(resp.Logs) != 1 {
		t.Fatalf("logs = %v", resp.Logs)
	}
	if logs.query.hostKey != "10.0.0.1" {
		t.Fatalf("queried host = %q", logs.query.hostKey)
	}
	if until := time.Until(logs.query.cutoff); until > -47*time.Hour {
		t.Fatalf("cutoff not ~48h in the past: %v", logs.query.cutoff)
	}
}

func TestHandleLogs_UnknownHost(t *testing.T) {
	srv := newTestServer(health.NewStore(0), &fakeLogs{}, &fakeHosts{})

	req := httptest.NewRequest(http.MethodGet, "/api/logs/10.9.9.9", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	var resp struct {
		ServerName string   `json:"server_name"`
		Logs       []string `json:"logs"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ServerName != "Unknown" {
		t.Fatalf("server_name = %q, want Unknown", resp.ServerName)
	}
	if resp.Logs == nil {
		t.Fatal("logs must encode as an empty array, not null")
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(health.NewStore(0), &fakeLogs{}, &fakeHosts{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthz: %d %q", rec.Code, rec.Body.String())
	}
}
