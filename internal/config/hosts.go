package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
)

// Host is one monitored target: a unique address plus a display label.
type Host struct {
	Name string `json:"name"`
	Host string `json:"host"`
}

// HostProvider re-reads the host list file on every call so additions
// and removals take effect without a restart. An unreadable or
// malformed file falls back to the last good list.
type HostProvider struct {
	path   string
	logger *zap.Logger

	mu       sync.Mutex
	lastGood []Host
}

func NewHostProvider(path string, logger *zap.Logger) *HostProvider {
	return &HostProvider{path: path, logger: logger}
}

// Hosts returns the current host list.
func (p *HostProvider) Hosts() []Host {
	hosts, err := loadHosts(p.path)
	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.logger.Warn("host_list_error",
			zap.String("path", p.path),
			zap.Int("fallback_hosts", len(p.lastGood)),
			zap.Error(err),
		)
		return p.lastGood
	}
	p.lastGood = hosts
	return hosts
}

func loadHosts(path string) ([]Host, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read host list: %w", err)
	}

	var hosts []Host
	if err := json.Unmarshal(b, &hosts); err != nil {
		return nil, fmt.Errorf("parse host list: %w", err)
	}

	seen := make(map[string]struct{}, len(hosts))
	for i, h := range hosts {
		if h.Host == "" {
			return nil, fmt.Errorf("host list: entry %d missing host", i)
		}
		if _, dup := seen[h.Host]; dup {
			return nil, fmt.Errorf("host list: duplicate host %q", h.Host)
		}
		seen[h.Host] = struct{}{}
	}
	return hosts, nil
}
