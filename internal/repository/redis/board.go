package redisrepo

import (
	"context"
	"time"

	"github.com/kordei/zoneboard/internal/domain"
	redisx "github.com/kordei/zoneboard/internal/redis"
)

// BoardCache holds short-lived zones-with-bookings snapshots per branch.
// The TTL is short on purpose: the board polls every 30 seconds and any
// mutation invalidates the affected branch immediately.
type BoardCache struct {
	cache *Cache
	ttl   time.Duration
}

func NewBoardCache(cache *Cache, ttl time.Duration) *BoardCache {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &BoardCache{cache: cache, ttl: ttl}
}

func (b *BoardCache) GetOrLoad(
	ctx context.Context,
	branch string,
	loader func(ctx context.Context) ([]domain.ZoneWithBookings, error),
) ([]domain.ZoneWithBookings, error) {
	return GetOrSetJSON(ctx, b.cache, redisx.KeyBranchBoard(branch), b.ttl, loader)
}

// Invalidate drops cached snapshots for the given branches. The all-branches
// snapshot is always dropped alongside, since it contains every branch.
func (b *BoardCache) Invalidate(ctx context.Context, branches ...string) error {
	keys := []string{redisx.KeyBranchBoard("")}
	for _, branch := range branches {
		if branch != "" {
			keys = append(keys, redisx.KeyBranchBoard(branch))
		}
	}
	return b.cache.Del(ctx, keys...)
}
