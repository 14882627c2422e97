package probe

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Prober runs a round of independent ping samples against a host and
// tallies the outcome. A sample that fails to execute (missing binary,
// exec error) counts as a failed sample, never as a fatal error.
type Prober struct {
	Pinger Pinger
	Logger *zap.Logger
}

// Sample issues count probes, each bounded by timeout, and returns how
// many succeeded out of the total attempted.
func (p *Prober) Sample(ctx context.Context, host string, count int, timeout time.Duration) (successes, total int) {
	if count < 1 {
		count = 1
	}
	for i := 0; i < count; i++ {
		if err := p.Pinger.Ping(ctx, host, timeout); err != nil {
			p.Logger.Debug("ping_sample_failed",
				zap.String("host", host),
				zap.Int("sample", i+1),
				zap.Error(err),
			)
			continue
		}
		successes++
	}
	return successes, count
}
