package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/phrazzld/taskboard-api/internal/store"
)

// namespace groups the keys cached for one table. Every key embeds the
// current generation of the namespace, so bumping the generation invalidates
// all of them at once; stale entries then expire through their TTL.
type namespace struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
	logger *slog.Logger
}

func (n namespace) enabled() bool {
	return n.client != nil && n.ttl > 0
}

func (n namespace) generationKey() string {
	return n.prefix + ":gen"
}

// generation returns the current generation. ok is false when Redis cannot
// be reached, in which case the cache is bypassed.
func (n namespace) generation(ctx context.Context) (gen int64, ok bool) {
	v, err := n.client.Get(ctx, n.generationKey()).Result()
	if errors.Is(err, redis.Nil) {
		return 0, true
	}
	if err != nil {
		n.logger.Debug("cache generation unavailable", slog.String("error", err.Error()))
		return 0, false
	}
	gen, err = strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return gen, true
}

func (n namespace) key(gen int64, suffix string) string {
	return fmt.Sprintf("%s:v%d:%s", n.prefix, gen, suffix)
}

// invalidate bumps the generation, orphaning every cached entry of the namespace.
func (n namespace) invalidate(ctx context.Context) {
	if n.client == nil {
		return
	}
	if err := n.client.Incr(ctx, n.generationKey()).Err(); err != nil {
		n.logger.Warn("failed to invalidate cache",
			slog.String("namespace", n.prefix),
			slog.String("error", err.Error()))
	}
}

// invalidateOnCommit defers invalidate until the surrounding transaction
// commits. A reader that loads the old row before then caches it under the
// old generation, which the bump orphans.
func (n namespace) invalidateOnCommit(ctx context.Context) {
	store.AfterCommit(ctx, n.invalidate)
}

// readThrough returns the cached value for suffix, or loads it with fetch and
// caches the result. Errors from fetch are returned and never cached.
func readThrough[T any](ctx context.Context, n namespace, suffix string, fetch func() (T, error)) (T, error) {
	if !n.enabled() {
		return fetch()
	}

	gen, ok := n.generation(ctx)
	if !ok {
		return fetch()
	}
	key := n.key(gen, suffix)

	data, err := n.client.Get(ctx, key).Bytes()
	if err == nil {
		var v T
		if err := json.Unmarshal(data, &v); err == nil {
			return v, nil
		}
		_ = n.client.Del(ctx, key).Err()
	} else if !errors.Is(err, redis.Nil) {
		n.logger.Debug("cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	}

	v, err := fetch()
	if err != nil {
		return v, err
	}

	if data, err := json.Marshal(v); err == nil {
		_ = n.client.Set(ctx, key, data, n.ttl).Err()
	}
	return v, nil
}
