package ingest

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/kbflow/internal/kb"
)

const (
	// backoffFactor grows the poll interval after every poll.
	backoffFactor = 1.5
	// maxPollInterval caps the poll interval.
	maxPollInterval = 30 * time.Second

	defaultPollInterval = 2 * time.Second
	defaultPollTimeout  = 15 * time.Minute
)

// PollerConfig holds processing-poller configuration.
type PollerConfig struct {
	// Interval is the first wait between polls; later waits grow by
	// backoffFactor up to maxPollInterval.
	Interval time.Duration `koanf:"interval"`
	// Timeout bounds the whole wait. Exceeding it fails the wait but does
	// not cancel remote processing.
	Timeout time.Duration `koanf:"timeout"`
}

// Poller waits for a resource to reach its terminal PROCESSED state.
type Poller struct {
	gateway  kb.Gateway
	interval time.Duration
	timeout  time.Duration
	logger   *zap.Logger

	// sleep is swapped out in tests to observe the backoff sequence.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewPoller creates a processing poller.
func NewPoller(gateway kb.Gateway, cfg PollerConfig, logger *zap.Logger) (*Poller, error) {
	if gateway == nil {
		return nil, fmt.Errorf("gateway is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultPollTimeout
	}

	return &Poller{
		gateway:  gateway,
		interval: interval,
		timeout:  timeout,
		logger:   logger.Named("poller"),
		sleep:    sleepContext,
	}, nil
}

// WaitUntilReady polls rid until its status is PROCESSED.
//
// Poll waits start at the configured interval and grow by 1.5x per poll,
// capped at 30s. The final wait is clamped to the remaining deadline, so a
// short timeout fails promptly instead of after a full interval. Returns
// ErrPollTimeout when the deadline elapses; a poll already in flight is
// not aborted by the deadline.
func (p *Poller) WaitUntilReady(ctx context.Context, rid string) (*kb.Resource, error) {
	start := time.Now()
	deadline := start.Add(p.timeout)
	interval := p.interval
	polls := 0

	for {
		res, err := p.gateway.Get(ctx, rid, kb.ShowBasic)
		if err != nil {
			return nil, fmt.Errorf("polling %s: %w", rid, err)
		}
		polls++

		if res.Metadata.Status == kb.StatusProcessed {
			pollDuration.Observe(time.Since(start).Seconds())
			p.logger.Debug("resource processed",
				zap.String("rid", rid),
				zap.Int("polls", polls),
				zap.Duration("waited", time.Since(start)))
			return res, nil
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, fmt.Errorf("%w: %s after %s", ErrPollTimeout, rid, time.Since(start).Round(time.Millisecond))
		}

		wait := interval
		if wait > remaining {
			// Sleep out the deadline, then fail; a full interval would
			// overshoot it.
			if err := p.sleep(ctx, remaining); err != nil {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %s after %s", ErrPollTimeout, rid, time.Since(start).Round(time.Millisecond))
		}

		if err := p.sleep(ctx, wait); err != nil {
			return nil, err
		}
		interval = nextInterval(interval)
	}
}

// nextInterval grows the backoff interval, capped at maxPollInterval.
func nextInterval(current time.Duration) time.Duration {
	next := time.Duration(float64(current) * backoffFactor)
	if next > maxPollInterval {
		return maxPollInterval
	}
	return next
}

// sleepContext sleeps for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
