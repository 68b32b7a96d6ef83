// Package poller drives the repeating fetch-then-wait cycles.
package poller

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/alertify/agent/internal/remoteapi"
	"github.com/alertify/agent/internal/service"
)

// PollFunc performs one poll tick. The loop awaits completion before arming
// the next timer, so poll ticks never overlap.
type PollFunc func(ctx context.Context) error

type Poller struct {
	name      string
	interval  func() time.Duration
	poll      PollFunc
	refreshCh chan struct{}
	logger    *slog.Logger
}

func New(name string, interval func() time.Duration, poll PollFunc, logger *slog.Logger) *Poller {
	return &Poller{
		name:      name,
		interval:  interval,
		poll:      poll,
		refreshCh: make(chan struct{}, 1),
		logger:    logger,
	}
}

// TriggerRefresh requests an immediate poll outside the regular cadence.
func (p *Poller) TriggerRefresh() {
	select {
	case p.refreshCh <- struct{}{}:
	default:
	}
}

// Run loops until the context is cancelled. Failures are logged and the loop
// simply waits for the next tick; there is no backoff policy.
func (p *Poller) Run(ctx context.Context) {
	for {
		timer := time.NewTimer(p.interval())
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-p.refreshCh:
			timer.Stop()
		case <-timer.C:
		}
		if err := p.poll(ctx); err != nil {
			switch {
			case errors.Is(err, service.ErrMonitoringDisabled):
				p.logger.Debug("poll skipped; monitoring disabled", "poller", p.name)
			case errors.Is(err, remoteapi.ErrNoBaseURL):
				p.logger.Info("poll skipped; base url not configured", "poller", p.name)
			default:
				p.logger.Error("poll failed", "poller", p.name, "err", err)
			}
		}
	}
}
