package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"serverwatch/internal/health"
)

// Config gates what the Dispatcher sends.
type Config struct {
	Enabled          bool
	NotifyOnDown     bool
	NotifyOnRecovery bool
	Cooldown         time.Duration
}

// Dispatcher decides whether a state transition warrants an alert and
// pushes it through the channel chain. Delivery failures are logged
// and dropped, never retried and never surfaced to the scheduler.
type Dispatcher struct {
	logger *zap.Logger
	chain  Chain
	cfg    Config

	mu       sync.Mutex
	lastSent map[string]time.Time
}

func NewDispatcher(logger *zap.Logger, chain Chain, cfg Config) *Dispatcher {
	return &Dispatcher{
		logger:   logger,
		chain:    chain,
		cfg:      cfg,
		lastSent: make(map[string]time.Time),
	}
}

// NotifyIfDue applies the gating rules in order (enabled flag, per-
// direction flag, per-host cooldown) and attempts delivery only when
// all pass. The cooldown timestamp is recorded on successful sends
// only, so a failed delivery does not silence the next transition.
func (d *Dispatcher) NotifyIfDue(ctx context.Context, hostName, hostKey string, newStatus health.Status, detail string, now time.Time) bool {
	if !d.cfg.Enabled {
		return false
	}
	switch newStatus {
	case health.StatusDown:
		if !d.cfg.NotifyOnDown {
			return false
		}
	case health.StatusUp:
		if !d.cfg.NotifyOnRecovery {
			return false
		}
	default:
		return false
	}

	d.mu.Lock()
	last, seen := d.lastSent[hostKey]
	d.mu.Unlock()
	if seen && now.Sub(last) < d.cfg.Cooldown {
		d.logger.Debug("notification_cooldown",
			zap.String("host", hostKey),
			zap.Duration("remaining", d.cfg.Cooldown-now.Sub(last)),
		)
		return false
	}

	via, err := d.chain.Send(ctx, Alert{
		ServerName: hostName,
		Host:       hostKey,
		Status:     newStatus,
		Detail:     detail,
		At:         now,
	})
	if err != nil {
		d.logger.Warn("notification_failed",
			zap.String("host", hostKey),
			zap.String("status", string(newStatus)),
			zap.Error(err),
		)
		return false
	}

	d.mu.Lock()
	d.lastSent[hostKey] = now
	d.mu.Unlock()

	d.logger.Info("notification_sent",
		zap.String("host", hostKey),
		zap.String("status", string(newStatus)),
		zap.String("via", via),
	)
	return true
}
