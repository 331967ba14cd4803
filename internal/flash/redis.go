package flash

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "flash_"

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Set(ctx context.Context, id string, message string, ttl time.Duration) error {
	return s.client.Set(ctx, keyPrefix+id, message, ttl).Err()
}

func (s *RedisStore) Pop(ctx context.Context, id string) (string, error) {
	// GETDEL 保证同一条信息只能被读取一次
	message, err := s.client.GetDel(ctx, keyPrefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNoMessage
		}
		return "", err
	}
	return message, nil
}
