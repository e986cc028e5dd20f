package credential

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"splitspecs/internal/common"
)

// DefaultRedisHash is the hash holding all items of a RedisStore.
const DefaultRedisHash = "splitspecs:local_storage"

// RedisStore keeps items as fields of one Redis hash.
type RedisStore struct {
	client redis.UniversalClient
	hash   string
}

// NewRedisStore returns a RedisStore over client. An empty hash uses DefaultRedisHash.
func NewRedisStore(client redis.UniversalClient, hash string) *RedisStore {
	if hash == "" {
		hash = DefaultRedisHash
	}
	return &RedisStore{client: client, hash: hash}
}

func (s *RedisStore) GetItem(key string) (string, error) {
	v, err := s.client.HGet(context.Background(), s.hash, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", common.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (s *RedisStore) SetItem(key, value string) error {
	if key == "" {
		return common.ErrInvalidKey
	}
	return s.client.HSet(context.Background(), s.hash, key, value).Err()
}

func (s *RedisStore) RemoveItem(key string) error {
	return s.client.HDel(context.Background(), s.hash, key).Err()
}
