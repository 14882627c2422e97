package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"serverwatch/internal/config"
	"serverwatch/internal/health"
	"serverwatch/internal/httpapi/middleware"
)

// SnapshotSource is the read side of the health store.
type SnapshotSource interface {
	Snapshot() map[string]health.Record
}

// LogQuerier is the read side of the status log.
type LogQuerier interface {
	Query(hostKey string, cutoff time.Time) ([]string, error)
}

// HostLister resolves display names for log queries.
type HostLister interface {
	Hosts() []config.Host
}

// Server is the read-only presentation surface. It never drives
// probing; it only serves snapshots and log replays.
type Server struct {
	Logger    *zap.Logger
	Store     SnapshotSource
	Logs      LogQuerier
	Hosts     HostLister
	Retention time.Duration

	RequestsPerMinute int
	Burst             int
}

func NewServer(l *zap.Logger, store SnapshotSource, logs LogQuerier, hosts HostLister, retention time.Duration, rpm, burst int) *Server {
	return &Server{
		Logger:            l,
		Store:             store,
		Logs:              logs,
		Hosts:             hosts,
		Retention:         retention,
		RequestsPerMinute: rpm,
		Burst:             burst,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)
	r.Use(middleware.RateLimit(s.RequestsPerMinute, s.Burst))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/api/status", s.handleStatus)
	r.Get("/api/logs/{hostKey}", s.handleLogs)

	return r
}
