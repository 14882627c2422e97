package probe

import (
	"context"
	"fmt"
	"time"
)

// Evaluator turns raw sample tallies into an up/down verdict. A first
// round whose failure count stays under FailThreshold is an immediate
// Up. A breached threshold triggers one confirmatory round after
// RecheckDelay, so a transient packet-loss burst cannot flip a host to
// Down on its own.
type Evaluator struct {
	Prober        *Prober
	SampleCount   int
	Timeout       time.Duration
	FailThreshold int
	RecheckDelay  time.Duration
}

// Evaluate runs up to two probe rounds against host and returns the
// verdict with a human-readable tally. The recheck delay waits on a
// timer local to this call and is cut short if ctx is cancelled.
func (e *Evaluator) Evaluate(ctx context.Context, host string) (isUp bool, detail string) {
	s1, t1 := e.Prober.Sample(ctx, host, e.SampleCount, e.Timeout)
	fails1 := t1 - s1
	if fails1 < e.FailThreshold {
		return true, fmt.Sprintf("1st check: %d/%d pings.", s1, t1)
	}

	timer := time.NewTimer(e.RecheckDelay)
	select {
	case <-timer.C:
	case <-ctx.Done():
		timer.Stop()
	}

	s2, t2 := e.Prober.Sample(ctx, host, e.SampleCount, e.Timeout)
	fails2 := t2 - s2
	detail = fmt.Sprintf("1st check: %d/%d pings. Recheck: %d/%d pings.", s1, t1, s2, t2)
	if fails2 >= e.FailThreshold {
		return false, detail
	}
	return true, detail + " Recovered during recheck."
}
