package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jcmacallan-svg/ww1/internal/ports"
)

// RedisOverrides is a Redis-backed coordinate-override cache. Entries
// carry no expiry by default; set TTL to age them out.
type RedisOverrides struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisOverrides(client *redis.Client) *RedisOverrides {
	return &RedisOverrides{Client: client}
}

func overrideKey(namespace, poiID string) string {
	return fmt.Sprintf("overrides:%s:%s", namespace, poiID)
}

func (r *RedisOverrides) Get(ctx context.Context, namespace, poiID string) (ports.ResolvedOverride, bool, error) {
	if r.Client == nil {
		return ports.ResolvedOverride{}, false, errors.New("override cache: redis client is nil")
	}

	raw, err := r.Client.Get(ctx, overrideKey(namespace, poiID)).Result()
	if errors.Is(err, redis.Nil) {
		return ports.ResolvedOverride{}, false, nil
	}
	if err != nil {
		return ports.ResolvedOverride{}, false, fmt.Errorf("get override %s/%s: redis get: %w", namespace, poiID, err)
	}

	var o ports.ResolvedOverride
	if err := json.Unmarshal([]byte(raw), &o); err != nil {
		return ports.ResolvedOverride{}, false, fmt.Errorf("get override %s/%s: decode value: %w", namespace, poiID, err)
	}
	return o, true, nil
}

func (r *RedisOverrides) Put(ctx context.Context, namespace, poiID string, o ports.ResolvedOverride) error {
	if r.Client == nil {
		return errors.New("override cache: redis client is nil")
	}
	if err := o.Coord.Validate(); err != nil {
		return fmt.Errorf("put override %s/%s: %w", namespace, poiID, err)
	}

	raw, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("put override %s/%s: encode value: %w", namespace, poiID, err)
	}

	if err := r.Client.Set(ctx, overrideKey(namespace, poiID), raw, r.TTL).Err(); err != nil {
		return fmt.Errorf("put override %s/%s: redis set: %w", namespace, poiID, err)
	}
	return nil
}

var _ ports.OverrideCache = (*RedisOverrides)(nil)
