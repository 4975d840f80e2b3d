// Package cache keeps computed progress charts in Redis. Entries are keyed by a
// per-user version number; bumping the version on every write orphans the old
// entries, which then expire on their TTL.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/dto"
)

type SeriesCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSeriesCache returns a cache backed by client. A nil client yields a cache that
// always misses.
func NewSeriesCache(client *redis.Client, ttl time.Duration) *SeriesCache {
	return &SeriesCache{client: client, ttl: ttl}
}

func versionKey(uid string) string {
	return fmt.Sprintf("progress:%s:version", uid)
}

func chartKey(uid string, version int64, rng, day string) string {
	return fmt.Sprintf("progress:%s:v%d:%s:%s", uid, version, rng, day)
}

func (c *SeriesCache) version(ctx context.Context, uid string) (int64, error) {
	v, err := c.client.Get(ctx, versionKey(uid)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

// Get returns the cached chart for the user, range and day, or false on a miss.
// The returned version is the one the lookup used; pass it to Set so a chart
// computed before an Invalidate is never stored under the newer version.
func (c *SeriesCache) Get(ctx context.Context, uid, rng, day string) (*dto.ChartResponse, int64, bool, error) {
	if c == nil || c.client == nil {
		return nil, 0, false, nil
	}
	version, err := c.version(ctx, uid)
	if err != nil {
		return nil, 0, false, err
	}
	raw, err := c.client.Get(ctx, chartKey(uid, version, rng, day)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, version, false, nil
	}
	if err != nil {
		return nil, version, false, err
	}
	var chart dto.ChartResponse
	if err := json.Unmarshal(raw, &chart); err != nil {
		return nil, version, false, err
	}
	return &chart, version, true, nil
}

// Set stores chart under the given version, normally the one Get returned.
func (c *SeriesCache) Set(ctx context.Context, uid string, version int64, rng, day string, chart *dto.ChartResponse) error {
	if c == nil || c.client == nil {
		return nil
	}
	raw, err := json.Marshal(chart)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, chartKey(uid, version, rng, day), raw, c.ttl).Err()
}

// Invalidate drops every cached chart of the user.
func (c *SeriesCache) Invalidate(ctx context.Context, uid string) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Incr(ctx, versionKey(uid)).Err()
}
