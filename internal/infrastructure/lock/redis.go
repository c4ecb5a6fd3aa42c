package lock

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gdugdh24/matrimony-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const retryInterval = 25 * time.Millisecond

// unlockScript deletes the key only while it still holds our token.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// renewScript extends the key's expiry only while it still holds our token.
var renewScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// RedisLocker holds locks as SET NX PX keys. The holder renews the key every
// ttl/3 until it unlocks, so a lock whose holder dies expires after ttl while a
// slow holder keeps it.
type RedisLocker struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisLocker(client *redis.Client, prefix string, ttl time.Duration) *RedisLocker {
	return &RedisLocker{client: client, prefix: prefix, ttl: ttl}
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	fullKey := l.prefix + key
	token := uuid.NewString()

	// waiting longer than one ttl means the holder is stuck; give up
	ctx, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	ticker := time.NewTicker(retryInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, fullKey, token, l.ttl).Result()
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return nil, busy(err)
			}
			return nil, domain.WrapError(err, domain.KindTransient, domain.ErrUnavailable.Message)
		}
		if ok {
			return l.unlocker(fullKey, token), nil
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return nil, busy(ctx.Err())
		}
	}
}

func (l *RedisLocker) unlocker(key, token string) func() {
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		keepAlive(stop, l.ttl/3, func() bool { return l.renew(key, token) })
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			<-done

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			// an error leaves the key to expire on its own
			_ = unlockScript.Run(ctx, l.client, []string{key}, token).Err()
		})
	}
}

// renew reports whether the key is still ours.
func (l *RedisLocker) renew(key, token string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), l.ttl/3)
	defer cancel()

	n, err := renewScript.Run(ctx, l.client, []string{key}, token, l.ttl.Milliseconds()).Int()
	if err != nil {
		// transient failure: keep trying until the key expires
		return true
	}
	return n == 1
}

// keepAlive calls renew every interval until stop closes or renew reports the
// lock lost.
func keepAlive(stop <-chan struct{}, every time.Duration, renew func() bool) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !renew() {
				return
			}
		}
	}
}
