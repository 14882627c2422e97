package probe

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"time"
)

// Pinger issues a single reachability probe against a host.
type Pinger interface {
	Ping(ctx context.Context, host string, timeout time.Duration) error
}

// ExecPinger shells out to the system ping binary, one echo request
// per call. The -W timeout bounds the reply wait; CommandContext adds
// a hard stop slightly beyond it so a wedged binary can never hang a
// check.
type ExecPinger struct{}

func (ExecPinger) Ping(ctx context.Context, host string, timeout time.Duration) error {
	timeoutSec := int(timeout.Seconds())
	if timeoutSec < 1 {
		timeoutSec = 1
	}

	cctx, cancel := context.WithTimeout(ctx, timeout+time.Second)
	defer cancel()

	cmd := exec.CommandContext(cctx, "ping", "-c", "1", "-W", fmt.Sprintf("%d", timeoutSec), host)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ping %s: %w", host, err)
	}
	return nil
}
