package probe

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

// brokenPinger simulates a probe tool that cannot run at all.
type brokenPinger struct{ calls int }

func (p *brokenPinger) Ping(ctx context.Context, host string, timeout time.Duration) error {
	p.calls++
	return errors.New("exec: \"ping\": executable file not found in $PATH")
}

func TestProber_ExecFaultCountsAsFailedSample(t *testing.T) {
	pinger := &brokenPinger{}
	p := &Prober{Pinger: pinger, Logger: zap.NewNop()}

	successes, total := p.Sample(context.Background(), "10.0.0.1", 4, time.Second)

	if successes != 0 || total != 4 {
		t.Fatalf("got %d/%d, want 0/4", successes, total)
	}
	if pinger.calls != 4 {
		t.Fatalf("every sample should be attempted, got %d calls", pinger.calls)
	}
}

func TestProber_ClampsSampleCount(t *testing.T) {
	pinger := &brokenPinger{}
	p := &Prober{Pinger: pinger, Logger: zap.NewNop()}

	_, total := p.Sample(context.Background(), "10.0.0.1", 0, time.Second)
	if total != 1 {
		t.Fatalf("total = %d, want 1", total)
	}
}
