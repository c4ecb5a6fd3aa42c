package lock

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gdugdh24/matrimony-backend/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLocker_MutualExclusion(t *testing.T) {
	l := NewLocalLocker()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(context.Background(), "user-1")
			if !assert.NoError(t, err) {
				return
			}
			defer unlock()

			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	assert.Empty(t, l.slots)
}

func TestLocalLocker_ContextCancel(t *testing.T) {
	l := NewLocalLocker()

	unlock, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, "k")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, domain.KindTransient, domain.KindOf(err))

	cancelled, stop := context.WithCancel(context.Background())
	stop()
	_, err = l.Lock(cancelled, "free")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, domain.KindTransient, domain.KindOf(err))

	unlock()
	unlock()

	other, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)
	other()
	assert.Empty(t, l.slots)
}

func TestLocalLocker_IndependentKeys(t *testing.T) {
	l := NewLocalLocker()

	a, err := l.Lock(context.Background(), "a")
	require.NoError(t, err)
	defer a()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	b, err := l.Lock(ctx, "b")
	require.NoError(t, err)
	b()
}

func TestRedisLocker_UnreachableIsTransient(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	l := NewRedisLocker(client, "test:", time.Second)
	_, err := l.Lock(context.Background(), "k")
	require.Error(t, err)
	assert.Equal(t, domain.KindTransient, domain.KindOf(err))
}

func TestKeepAlive_RenewsUntilStopped(t *testing.T) {
	stop := make(chan struct{})
	done := make(chan struct{})
	var renewals atomic.Int32

	go func() {
		defer close(done)
		keepAlive(stop, 5*time.Millisecond, func() bool {
			renewals.Add(1)
			return true
		})
	}()

	require.Eventually(t, func() bool { return renewals.Load() >= 3 }, time.Second, time.Millisecond)
	close(stop)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("keepAlive did not return after stop")
	}
}

func TestKeepAlive_StopsWhenLockLost(t *testing.T) {
	done := make(chan struct{})
	var renewals atomic.Int32

	go func() {
		defer close(done)
		keepAlive(make(chan struct{}), 5*time.Millisecond, func() bool {
			renewals.Add(1)
			return false
		})
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("keepAlive kept running after the lock was lost")
	}
	assert.Equal(t, int32(1), renewals.Load())
}

// TestRedisLocker_HeldPastTTL needs a live server, e.g. REDIS_ADDR=127.0.0.1:6379.
func TestRedisLocker_HeldPastTTL(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()
	require.NoError(t, client.Ping(context.Background()).Err())

	ttl := 150 * time.Millisecond
	l := NewRedisLocker(client, "test:"+time.Now().Format("150405.000000")+":", ttl)

	unlock, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)

	// a holder slower than ttl must not let a second caller in
	time.Sleep(3 * ttl)
	_, err = l.Lock(context.Background(), "k")
	require.Error(t, err)
	assert.Equal(t, domain.KindTransient, domain.KindOf(err))

	unlock()
	again, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)
	again()
}
