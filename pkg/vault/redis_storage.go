package vault

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStorage keeps the account list as one JSON value under
// prefix+StorageKey, so several devices can share a vault.
type RedisStorage struct {
	client redis.UniversalClient
	key    string
}

func NewRedisStorage(client redis.UniversalClient, prefix string) *RedisStorage {
	return &RedisStorage{client: client, key: prefix + StorageKey}
}

// Key returns the Redis key holding the vault.
func (s *RedisStorage) Key() string {
	return s.key
}

func (s *RedisStorage) Load(ctx context.Context) ([]Account, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return []Account{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", s.key, err)
	}

	var accounts []Account
	if err := json.Unmarshal(data, &accounts); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.key, err)
	}
	return accounts, nil
}

func (s *RedisStorage) Save(ctx context.Context, accounts []Account) error {
	data, err := json.Marshal(accounts)
	if err != nil {
		return fmt.Errorf("encode accounts: %w", err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}
	return nil
}
