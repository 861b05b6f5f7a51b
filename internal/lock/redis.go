package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	defaultRedisPrefix     = "courtbook:lock:"
	defaultRedisRetryDelay = 25 * time.Millisecond
	redisReleaseTimeout    = 2 * time.Second
)

// releaseScript deletes the key only while it still carries our token, so an
// expired lock that another holder re-acquired is left alone.
const releaseScript = `if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0`

// Redis is a Locker shared by every process pointing at the same Redis.
// Locks carry a TTL so a crashed holder cannot block a key forever.
type Redis struct {
	client     redis.Cmdable
	ttl        time.Duration
	retryDelay time.Duration
	prefix     string
	newToken   func() string
}

type RedisOption func(*Redis)

func WithRetryDelay(d time.Duration) RedisOption {
	return func(r *Redis) {
		if d > 0 {
			r.retryDelay = d
		}
	}
}

func WithKeyPrefix(prefix string) RedisOption {
	return func(r *Redis) {
		r.prefix = prefix
	}
}

func withTokenSource(fn func() string) RedisOption {
	return func(r *Redis) {
		r.newToken = fn
	}
}

func NewRedis(client redis.Cmdable, ttl time.Duration, opts ...RedisOption) (*Redis, error) {
	if client == nil {
		return nil, errors.New("redis locker requires a client")
	}
	if ttl <= 0 {
		return nil, errors.New("redis locker requires a positive ttl")
	}
	r := &Redis{
		client:     client,
		ttl:        ttl,
		retryDelay: defaultRedisRetryDelay,
		prefix:     defaultRedisPrefix,
		newToken:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func (r *Redis) Acquire(ctx context.Context, key string) (Unlock, error) {
	redisKey := r.prefix + key
	token := r.newToken()

	for {
		ok, err := r.client.SetNX(ctx, redisKey, token, r.ttl).Result()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, fmt.Errorf("%w: %s: %w", ErrNotAcquired, key, ctxErr)
			}
			return nil, fmt.Errorf("acquire redis lock %s: %w", key, err)
		}
		if ok {
			break
		}

		timer := time.NewTimer(r.retryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("%w: %s: %w", ErrNotAcquired, key, ctx.Err())
		case <-timer.C:
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			releaseCtx, cancel := context.WithTimeout(context.Background(), redisReleaseTimeout)
			defer cancel()
			if err := r.client.Eval(releaseCtx, releaseScript, []string{redisKey}, token).Err(); err != nil {
				log.Error().Err(err).Str("component", "redis_lock").Str("key", key).Msg("Failed to release lock")
			}
		})
	}, nil
}
