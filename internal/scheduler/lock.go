package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/solobill/solobill/internal/config"
	"go.uber.org/zap"
)

// RunLock serializes dispatch runs so overlapping schedulers cannot process
// the same due reminders twice. TryAcquire reports false when another holder
// owns the key; the caller skips the run instead of blocking.
type RunLock interface {
	TryAcquire(ctx context.Context, key string, ttl time.Duration) (release func(), acquired bool, err error)
}

// ProvideLock returns a redis-backed lock when an address is configured and
// an in-process lock otherwise. The in-process fallback only protects a
// single scheduler instance.
func ProvideLock(cfg config.Config, log *zap.Logger) RunLock {
	if cfg.RedisAddr == "" {
		return newProcessLock()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	log.Named("scheduler").Info("using redis run lock", zap.String("addr", cfg.RedisAddr))
	return &redisLock{client: client}
}

type redisLock struct {
	client *redis.Client
}

func (l *redisLock) TryAcquire(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	token := time.Now().UnixNano()
	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	release := func() {
		// Only delete our own token; an expired lock may have been
		// re-acquired by another holder.
		const script = `if redis.call("get", KEYS[1]) == ARGV[1] then return redis.call("del", KEYS[1]) else return 0 end`
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = l.client.Eval(releaseCtx, script, []string{key}, token).Err()
	}
	return release, true, nil
}

type processLock struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func newProcessLock() *processLock {
	return &processLock{held: make(map[string]struct{})}
}

func (l *processLock) TryAcquire(_ context.Context, key string, _ time.Duration) (func(), bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, taken := l.held[key]; taken {
		return nil, false, nil
	}
	l.held[key] = struct{}{}
	release := func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.held, key)
	}
	return release, true, nil
}
