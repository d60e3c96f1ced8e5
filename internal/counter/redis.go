package counter

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"social-service/internal/store"
)

type redisCounter struct {
	rdb *redis.Client
	st  *store.Client
}

// NewRedis builds a counter on redis INCRBY, the native atomic increment.
// The resulting value is mirrored into the document record best-effort so
// feed reads still see counts without touching redis.
func NewRedis(rdb *redis.Client, st *store.Client) Counter {
	return &redisCounter{rdb: rdb, st: st}
}

func key(path, field string) string {
	return "cnt:" + strings.ReplaceAll(strings.Trim(path, "/"), "/", ":") + ":" + field
}

func (c *redisCounter) Incr(ctx context.Context, path, field string, delta int64) (int64, error) {
	n, err := c.rdb.IncrBy(ctx, key(path, field), delta).Result()
	if err != nil {
		return 0, fmt.Errorf("counter incr %s/%s: %w", path, field, err)
	}
	if c.st != nil {
		if err := c.st.Update(ctx, path, map[string]any{field: n}); err != nil {
			log.Warn().Err(err).Str("path", path).Str("field", field).Msg("counter mirror write failed")
		}
	}
	return n, nil
}
