package credential

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKey = "momu:" + tokenFile

// RedisStore keeps the token in a redis instance. Useful when several
// processes on the same host must share one signed-in session.
type RedisStore struct {
	client  *redis.Client
	timeout time.Duration
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, timeout: 3 * time.Second}
}

func (s *RedisStore) Save(token string) error {
	if token == "" {
		return ErrEmptyToken
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.client.Set(ctx, redisKey, token, 0).Err()
}

func (s *RedisStore) Get() (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	value, err := s.client.Get(ctx, redisKey).Result()
	if err != nil || value == "" {
		return "", false
	}
	return value, true
}

func (s *RedisStore) Clear() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.client.Del(ctx, redisKey).Err()
}
