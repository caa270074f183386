package redis

import (
	"context"
	"time"

	"github.com/pkg/errors"
	goredis "github.com/redis/go-redis/v9"
)

type Config struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// TokenStore keeps tokens in redis so every replica and operator tooling sees the same entry.
type TokenStore struct {
	client *goredis.Client
	prefix string
}

func NewTokenStore(cfg Config) (*TokenStore, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "redis ping")
	}
	return NewTokenStoreWithClient(client, cfg.Prefix), nil
}

func NewTokenStoreWithClient(client *goredis.Client, prefix string) *TokenStore {
	return &TokenStore{client: client, prefix: prefix}
}

func (s *TokenStore) key(k string) string { return s.prefix + k }

func (s *TokenStore) Get(ctx context.Context, key string) (string, time.Duration, bool, error) {
	pipe := s.client.Pipeline()
	getCmd := pipe.Get(ctx, s.key(key))
	ttlCmd := pipe.TTL(ctx, s.key(key))
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, goredis.Nil) {
		return "", 0, false, errors.Wrapf(err, "redis get %s", key)
	}

	val, err := getCmd.Result()
	if errors.Is(err, goredis.Nil) {
		return "", 0, false, nil
	}
	if err != nil {
		return "", 0, false, errors.Wrapf(err, "redis get %s", key)
	}
	ttl := ttlCmd.Val()
	if ttl < 0 {
		// -1: no expiry
		ttl = -1
	}
	return val, ttl, true, nil
}

func (s *TokenStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(key), value, ttl).Err(); err != nil {
		return errors.Wrapf(err, "redis set %s", key)
	}
	return nil
}

func (s *TokenStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.key(k)
	}
	if err := s.client.Del(ctx, full...).Err(); err != nil {
		return errors.Wrap(err, "redis del")
	}
	return nil
}

func (s *TokenStore) Close() error {
	return s.client.Close()
}
