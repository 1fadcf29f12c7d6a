package claim

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseLua deletes the key only while it still holds our token.
const releaseLua = `
if redis.call('GET', KEYS[1]) == ARGV[1] then
    return redis.call('DEL', KEYS[1])
end
return 0
`

type Redis struct {
	rdb     *redis.Client
	release *redis.Script
	prefix  string
}

func NewRedis(rdb *redis.Client) *Redis {
	return &Redis{rdb: rdb, release: redis.NewScript(releaseLua), prefix: "claim:"}
}

// DialRedis parses a redis:// URL and pings the server.
func DialRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("claim: parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("claim: ping redis: %w", err)
	}
	return rdb, nil
}

func (r *Redis) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	token := uuid.NewString()
	k := r.prefix + key
	ok, err := r.rdb.SetNX(ctx, k, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("claim: acquire %s: %w", key, err)
	}
	if !ok {
		return nil, ErrClaimHeld
	}
	released := false
	return func() {
		if released {
			return
		}
		released = true
		// The caller's context may already be done.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = r.release.Run(releaseCtx, r.rdb, []string{k}, token).Err()
	}, nil
}

var (
	_ Guard = (*Redis)(nil)
	_ Guard = (*Local)(nil)
)
