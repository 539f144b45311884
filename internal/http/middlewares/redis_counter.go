package middlewares

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCounterStore backs the rate limiter with a shared Redis counter
// so limits hold across replicas.
type RedisCounterStore struct {
	redisdb *redis.Client
	prefix  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func NewRedisCounterStore(cfg RedisConfig) *RedisCounterStore {
	redisdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	return &RedisCounterStore{
		redisdb: redisdb,
		prefix:  "ratelimit:v1:",
	}
}

func (s *RedisCounterStore) Incr(ctx context.Context, key string, window time.Duration) (int, time.Duration, error) {
	k := s.prefix + key

	count, err := s.redisdb.Incr(ctx, k).Result()

	if err != nil {
		return 0, 0, err
	}

	// first hit opens the window
	if count == 1 {
		err = s.redisdb.Expire(ctx, k, window).Err()

		if err != nil {
			return 0, 0, err
		}

		return int(count), window, nil
	}

	ttl, err := s.redisdb.TTL(ctx, k).Result()

	if err != nil || ttl < 0 {
		ttl = window
	}

	return int(count), ttl, nil
}

// Ping checks redis connectivity at startup.
func (s *RedisCounterStore) Ping(ctx context.Context) error {
	return s.redisdb.Ping(ctx).Err()
}

func (s *RedisCounterStore) Close() error {
	return s.redisdb.Close()
}
