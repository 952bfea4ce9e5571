package lock

import (
	"bytes"
	"context"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedRedis answers commands without a server: SET NX always wins and
// script calls fail with evalErr.
type scriptedRedis struct {
	evalErr  error
	released []string
}

func (h *scriptedRedis) DialHook(next redis.DialHook) redis.DialHook {
	return func(context.Context, string, string) (net.Conn, error) {
		return nil, errors.New("no redis server in tests")
	}
}

func (h *scriptedRedis) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(_ context.Context, cmd redis.Cmder) error {
		switch cmd.Name() {
		case "set":
			if b, ok := cmd.(*redis.BoolCmd); ok {
				b.SetVal(true)
			}

			return nil
		case "evalsha", "eval":
			h.released = append(h.released, cmd.Name())
			if h.evalErr != nil {
				cmd.SetErr(h.evalErr)

				return h.evalErr
			}

			return nil
		}

		return errors.Errorf("unexpected command %s", cmd.Name())
	}
}

func (h *scriptedRedis) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func newScriptedLocker(hook *scriptedRedis, logs *bytes.Buffer) *redisLocker {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	client.AddHook(hook)
	logger := slog.New(slog.NewJSONHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	return NewRedisLocker(client, time.Second, logger).(*redisLocker)
}

func TestRedisLocker_ReleaseFailureIsLogged(t *testing.T) {
	hook := &scriptedRedis{evalErr: errors.New("connection reset")}
	var logs bytes.Buffer
	locker := newScriptedLocker(hook, &logs)

	unlock, err := locker.Lock(context.Background(), "h1|2026-05-01|10:00 AM")
	require.NoError(t, err)
	unlock()

	require.NotEmpty(t, hook.released)
	out := logs.String()
	assert.Contains(t, out, `"level":"WARN"`)
	assert.Contains(t, out, "Failed to release slot lock")
	assert.Contains(t, out, "bloodlink:slot:h1|2026-05-01|10:00 AM")
	assert.Contains(t, out, "connection reset")
}

func TestRedisLocker_ReleaseSuccessIsQuiet(t *testing.T) {
	hook := &scriptedRedis{}
	var logs bytes.Buffer
	locker := newScriptedLocker(hook, &logs)

	unlock, err := locker.Lock(context.Background(), "h1|2026-05-01|11:00 AM")
	require.NoError(t, err)
	unlock()

	assert.Equal(t, []string{"evalsha"}, hook.released)
	assert.Empty(t, logs.String())
}
