package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"serverwatch/internal/config"
	"serverwatch/internal/health"
)

// HostLister supplies the current host list; re-queried every cycle.
type HostLister interface {
	Hosts() []config.Host
}

// Evaluator produces the up/down verdict for one host.
type Evaluator interface {
	Evaluate(ctx context.Context, host string) (isUp bool, detail string)
}

// Notifier is invoked on genuine status transitions.
type Notifier interface {
	NotifyIfDue(ctx context.Context, hostName, hostKey string, newStatus health.Status, detail string, now time.Time) bool
}

// StatusLog receives one line per status event.
type StatusLog interface {
	Append(hostKey string, status health.Status, detail string, now time.Time)
}

// Runner drives the check cycles: reconcile the store against the
// current host list, fan out one check per host under the concurrency
// cap, join, sleep, repeat. Nothing a single host does can abort a
// cycle.
type Runner struct {
	logger      *zap.Logger
	hosts       HostLister
	store       *health.Store
	eval        Evaluator
	sink        StatusLog
	notifier    Notifier
	interval    time.Duration
	concurrency int
}

func NewRunner(
	logger *zap.Logger,
	hosts HostLister,
	store *health.Store,
	eval Evaluator,
	sink StatusLog,
	notifier Notifier,
	interval time.Duration,
	concurrency int,
) *Runner {
	if concurrency < 1 {
		concurrency = 1
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Runner{
		logger:      logger,
		hosts:       hosts,
		store:       store,
		eval:        eval,
		sink:        sink,
		notifier:    notifier,
		interval:    interval,
		concurrency: concurrency,
	}
}

// Run starts the loop. It does an immediate pass, then runs each tick.
// Stops when ctx is cancelled.
func (r *Runner) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()

	r.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("runner_stopped")
			return
		case <-t.C:
			r.runOnce(ctx)
		}
	}
}

func (r *Runner) runOnce(ctx context.Context) {
	hosts := r.hosts.Hosts()

	keys := make([]string, 0, len(hosts))
	for _, h := range hosts {
		keys = append(keys, h.Host)
	}
	r.store.Reconcile(keys)

	if len(hosts) == 0 {
		return
	}

	sem := make(chan struct{}, r.concurrency)
	var wg sync.WaitGroup

	for _, h := range hosts {
		h := h
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer func() { <-sem }()
			defer wg.Done()
			r.checkHost(ctx, h)
		}()
	}

	wg.Wait()
}

func (r *Runner) checkHost(ctx context.Context, h config.Host) {
	isUp, detail := r.eval.Evaluate(ctx, h.Host)
	now := time.Now()

	transitioned, prev, cur := r.store.ApplyResult(h.Host, h.Name, isUp, now)

	if transitioned {
		r.sink.Append(h.Host, cur, fmt.Sprintf("Status changed from %s to %s", prev, cur), now)
		r.notifier.NotifyIfDue(ctx, h.Name, h.Host, cur, detail, now)
	}
	// a persistently down host gets a log line every cycle, without
	// re-dispatching
	if cur == health.StatusDown {
		r.sink.Append(h.Host, cur, "Server is currently unreachable.", now)
	}

	r.logger.Debug("host_checked",
		zap.String("host", h.Host),
		zap.Bool("up", isUp),
		zap.Bool("transitioned", transitioned),
		zap.String("detail", detail),
	)
}
