package poller

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/alertify/agent/internal/remoteapi"
	"github.com/alertify/agent/internal/service"
)

// Unified multiplexes both sources on one coarse background cadence, the
// low-power safety net for when the fast per-source pollers are disabled.
type Unified struct {
	smoke         PollFunc
	security      PollFunc
	smokeEvery    time.Duration
	securityEvery time.Duration
	tick          time.Duration
	logger        *slog.Logger
}

func NewUnified(smoke, security PollFunc, smokeEvery, securityEvery time.Duration, logger *slog.Logger) *Unified {
	return &Unified{
		smoke:         smoke,
		security:      security,
		smokeEvery:    smokeEvery,
		securityEvery: securityEvery,
		tick:          time.Minute,
		logger:        logger,
	}
}

func (u *Unified) Run(ctx context.Context) {
	var lastSmoke, lastSecurity time.Time
	ticker := time.NewTicker(u.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if now.Sub(lastSmoke) >= u.smokeEvery {
				u.runOne(ctx, "smoke", u.smoke)
				lastSmoke = now
			}
			if now.Sub(lastSecurity) >= u.securityEvery {
				u.runOne(ctx, "security", u.security)
				lastSecurity = now
			}
		}
	}
}

func (u *Unified) runOne(ctx context.Context, name string, poll PollFunc) {
	err := poll(ctx)
	if err == nil || errors.Is(err, service.ErrMonitoringDisabled) || errors.Is(err, remoteapi.ErrNoBaseURL) {
		return
	}
	u.logger.Warn("background poll failed", "source", name, "err", err)
}
