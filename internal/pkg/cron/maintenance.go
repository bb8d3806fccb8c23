package cron

import (
	"context"
	"log/slog"
	"time"
)

// TokenPurger deletes refresh tokens that stopped being usable before cutoff.
type TokenPurger interface {
	DeleteExpiredRefreshTokens(ctx context.Context, cutoff time.Time) (int64, error)
}

// Pruner drops idle in-memory state, such as per-IP rate limiters.
type Pruner interface {
	Prune() int
}

// PurgeRefreshTokens keeps revoked and expired tokens around for retention before deleting them.
func PurgeRefreshTokens(purger TokenPurger, retention time.Duration, now func() time.Time) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		deleted, err := purger.DeleteExpiredRefreshTokens(ctx, now().Add(-retention))
		if err != nil {
			return err
		}
		if deleted > 0 {
			slog.Info("Purged refresh tokens", "count", deleted)
		}
		return nil
	}
}

func PruneIdle(name string, p Pruner) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if n := p.Prune(); n > 0 {
			slog.Debug("Pruned idle entries", "name", name, "count", n)
		}
		return nil
	}
}
