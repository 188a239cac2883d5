package video

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/genai"

	"holosuite/internal/domain"
	"holosuite/internal/infra"
)

// PollConfig bounds how long a submitted job is tracked.
type PollConfig struct {
	Interval    time.Duration
	MaxAttempts int
	MaxWait     time.Duration
}

// RefreshFunc fetches the latest status of op.
type RefreshFunc func(ctx context.Context, op *genai.GenerateVideosOperation) (*genai.GenerateVideosOperation, error)

// Poller re-checks a long-running video operation at a fixed interval until
// it is done or one of the bounds in PollConfig is reached.
type Poller struct {
	cfg    PollConfig
	sleep  func(ctx context.Context, d time.Duration) error
	now    func() time.Time
	logger *infra.Logger
}

func NewPoller(cfg PollConfig, logger *infra.Logger) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = 10 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 60
	}
	if logger == nil {
		logger = infra.NopLogger()
	}
	return &Poller{
		cfg:    cfg,
		sleep:  sleepContext,
		now:    time.Now,
		logger: logger,
	}
}

// Wait returns the first status of op that reports done. Each re-check is
// preceded by one interval of delay, shortened so that no sleep runs past
// MaxWait; a job that is already done returns without waiting.
func (p *Poller) Wait(ctx context.Context, op *genai.GenerateVideosOperation, refresh RefreshFunc) (*genai.GenerateVideosOperation, error) {
	if op == nil {
		return nil, domain.NewError(domain.ErrProviderFailure, "Video generation did not return an operation")
	}

	start := p.now()
	for attempt := 0; !op.Done; attempt++ {
		if attempt >= p.cfg.MaxAttempts {
			return nil, domain.NewError(domain.ErrTimeout,
				fmt.Sprintf("Video generation did not finish after %d status checks", attempt))
		}

		wait := p.cfg.Interval
		if p.cfg.MaxWait > 0 {
			remaining := p.cfg.MaxWait - p.now().Sub(start)
			if remaining <= 0 {
				return nil, domain.NewError(domain.ErrTimeout,
					fmt.Sprintf("Video generation did not finish within %s", p.cfg.MaxWait))
			}
			// The last check lands on the ceiling instead of a full interval past it.
			wait = min(wait, remaining)
		}

		if err := p.sleep(ctx, wait); err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return nil, domain.WrapError(domain.ErrTimeout, "Video generation did not finish before the request deadline", err)
			}
			return nil, err
		}

		next, err := refresh(ctx, op)
		if err != nil {
			return nil, err
		}
		if next == nil {
			return nil, domain.NewError(domain.ErrProviderFailure, "Video operation status was empty")
		}
		op = next

		p.logger.Debug().
			Str("operation", op.Name).
			Int("attempt", attempt+1).
			Bool("done", op.Done).
			Msg("video operation polled")
	}
	return op, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
