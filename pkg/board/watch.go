package board

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/authenticator/pkg/logger"
	"github.com/dmitrymomot/authenticator/pkg/vault"
)

// DefaultInterval is the refresh rate of a watched board.
const DefaultInterval = time.Second

// Source supplies the accounts to show on every tick.
type Source interface {
	Accounts(ctx context.Context) ([]vault.Account, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) ([]vault.Account, error)

func (f SourceFunc) Accounts(ctx context.Context) ([]vault.Account, error) {
	return f(ctx)
}

// VaultSource reads the in-memory list of v, optionally reloading it from
// storage first so changes from other processes show up.
func VaultSource(v *vault.Vault, reload bool, tag string) Source {
	return SourceFunc(func(ctx context.Context) ([]vault.Account, error) {
		if reload {
			if err := v.Reload(ctx); err != nil {
				return nil, err
			}
		}
		if tag != "" {
			return v.Filter(tag), nil
		}
		return v.List(), nil
	})
}

type watchConfig struct {
	interval time.Duration
	clock    func() time.Time
	log      *slog.Logger
}

// WatchOption configures Watch.
type WatchOption func(*watchConfig)

// WithInterval sets the tick interval.
func WithInterval(d time.Duration) WatchOption {
	return func(c *watchConfig) { c.interval = d }
}

// WithClock replaces time.Now.
func WithClock(clock func() time.Time) WatchOption {
	return func(c *watchConfig) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithLogger sets the logger used to report source failures.
func WithLogger(l *slog.Logger) WatchOption {
	return func(c *watchConfig) {
		if l != nil {
			c.log = l
		}
	}
}

// Watch calls fn with a fresh snapshot immediately and then on every tick
// until ctx is cancelled. A tick whose source fails is logged and skipped.
// Watch returns nil once ctx is done.
func Watch(ctx context.Context, source Source, fn func([]Entry), opts ...WatchOption) error {
	cfg := watchConfig{
		interval: DefaultInterval,
		clock:    time.Now,
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.interval <= 0 {
		return ErrInvalidInterval
	}
	if source == nil {
		return ErrNilSource
	}
	log := cfg.log.With(logger.Component("board"))

	tick := func() {
		accounts, err := source.Accounts(ctx)
		if err != nil {
			if ctx.Err() == nil {
				log.WarnContext(ctx, "read accounts", logger.Error(err))
			}
			return
		}
		entries := Snapshot(ctx, accounts, cfg.clock())
		if ctx.Err() != nil {
			return
		}
		fn(entries)
	}

	ticker := time.NewTicker(cfg.interval)
	defer ticker.Stop()

	tick()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			tick()
		}
	}
}
