package lock

import (
	"context"
	"log/slog"
	"time"

	"bloodlink/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix          = "bloodlink:slot:"
	defaultLockTTL     = 10 * time.Second
	defaultRetryPeriod = 25 * time.Millisecond
)

// releaseScript deletes the key only while it still holds our token.
//
//nolint:gochecknoglobals
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// redisLocker shares slot locks between API replicas.
type redisLocker struct {
	client redis.UniversalClient
	ttl    time.Duration
	retry  time.Duration
	logger *slog.Logger
}

// NewRedisLocker creates a SlotLocker backed by SET NX PX.
func NewRedisLocker(client redis.UniversalClient, ttl time.Duration, logger *slog.Logger) service.SlotLocker {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}

	return &redisLocker{client: client, ttl: ttl, retry: defaultRetryPeriod, logger: logger}
}

func (l *redisLocker) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := keyPrefix + key
	token := uuid.NewString()

	ticker := time.NewTicker(l.retry)
	defer ticker.Stop()

	for {
		acquired, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			return nil, errors.Wrap(err, "failed to acquire slot lock")
		}
		if acquired {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}

	return func() {
		// Release must run even when the request context is already cancelled.
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.ttl)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, l.client, []string{redisKey}, token).Err(); err != nil {
			// The key still expires after ttl.
			l.logger.Warn("Failed to release slot lock",
				slog.String("key", redisKey),
				slog.Duration("ttl", l.ttl),
				slog.Any("error", err))
		}
	}, nil
}
