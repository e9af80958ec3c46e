package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"copaweb/internal/domain"
)

// CountSource reads the aggregate counters shown on the landing page
type CountSource interface {
	PoolCount(ctx context.Context) (int, error)
	GuessCount(ctx context.Context) (int, error)
	UserCount(ctx context.Context) (int, error)
}

// Bootstrapper produces the render input of the landing page
type Bootstrapper struct {
	source CountSource
	logger *slog.Logger
}

// NewBootstrapper creates a new bootstrapper
func NewBootstrapper(source CountSource, logger *slog.Logger) *Bootstrapper {
	return &Bootstrapper{source: source, logger: logger}
}

// Load fetches the three counters concurrently and waits for all of them.
// The first failure cancels the remaining reads and fails the whole load;
// no partial or default counters are ever returned.
func (b *Bootstrapper) Load(ctx context.Context) (domain.Counters, error) {
	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)

	var counters domain.Counters
	g.Go(func() error {
		n, err := b.source.PoolCount(gctx)
		if err != nil {
			return fmt.Errorf("pool count: %w", err)
		}
		counters.Pools = n
		return nil
	})
	g.Go(func() error {
		n, err := b.source.GuessCount(gctx)
		if err != nil {
			return fmt.Errorf("guess count: %w", err)
		}
		counters.Guesses = n
		return nil
	})
	g.Go(func() error {
		n, err := b.source.UserCount(gctx)
		if err != nil {
			return fmt.Errorf("user count: %w", err)
		}
		counters.Users = n
		return nil
	})

	if err := g.Wait(); err != nil {
		return domain.Counters{}, err
	}

	b.logger.Debug("counters loaded",
		"pools", counters.Pools,
		"guesses", counters.Guesses,
		"users", counters.Users,
		"duration", time.Since(start),
	)
	return counters, nil
}
