// Package notify delivers push notifications for alert conditions.
package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Channel separates smoke alerts from general security alerts so each can
// carry its own delivery treatment and re-notify window.
type Channel string

const (
	ChannelSmoke    Channel = "smoke"
	ChannelSecurity Channel = "security"
)

// Sender posts one message on one channel. Implementations own the actual
// delivery transport.
type Sender interface {
	Send(ctx context.Context, channel Channel, title, body string) error
}

const (
	// DefaultSmokeWindow and DefaultSecurityWindow bound repeat
	// notifications per channel. The smoke window is shorter: those
	// alerts are the ones worth repeating.
	DefaultSmokeWindow    = 60 * time.Second
	DefaultSecurityWindow = 5 * time.Minute
)

// Dispatcher applies the skip/guard semantics in front of a Sender:
// a nil sender (notifications not configured) is a silent no-op, delivery
// failures are logged and discarded, and repeats inside the per-channel
// window are suppressed.
type Dispatcher struct {
	sender  Sender
	logger  *slog.Logger
	windows map[Channel]time.Duration
	now     func() time.Time

	mu       sync.Mutex
	lastSent map[Channel]time.Time
}

func NewDispatcher(sender Sender, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		sender: sender,
		logger: logger,
		windows: map[Channel]time.Duration{
			ChannelSmoke:    DefaultSmokeWindow,
			ChannelSecurity: DefaultSecurityWindow,
		},
		now:      time.Now,
		lastSent: map[Channel]time.Time{},
	}
}

// Configured reports whether a delivery transport is attached.
func (d *Dispatcher) Configured() bool {
	return d.sender != nil
}

// Dispatch posts one notification and reports whether it was actually sent.
// It never returns an error: an unconfigured transport or a delivery failure
// both degrade to a skipped send.
func (d *Dispatcher) Dispatch(ctx context.Context, channel Channel, title, body string) bool {
	if d.sender == nil {
		return false
	}
	if !d.acquireWindow(channel) {
		d.logger.Debug("notification suppressed by re-notify window", "channel", channel)
		return false
	}
	if err := d.sender.Send(ctx, channel, title, body); err != nil {
		d.logger.Warn("notification delivery failed", "channel", channel, "err", err)
		d.releaseWindow(channel)
		return false
	}
	d.logger.Info("notification sent", "channel", channel, "title", title)
	return true
}

func (d *Dispatcher) acquireWindow(channel Channel) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	window := d.windows[channel]
	now := d.now()
	if last, ok := d.lastSent[channel]; ok && window > 0 && now.Sub(last) < window {
		return false
	}
	d.lastSent[channel] = now
	return true
}

func (d *Dispatcher) releaseWindow(channel Channel) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.lastSent, channel)
}
