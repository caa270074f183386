package cache

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// TokenStore keeps tokens in process memory. It is used when no redis address is configured.
type TokenStore struct {
	kv KV
}

func NewTokenStore(kv KV) *TokenStore {
	return &TokenStore{kv: kv}
}

func (s *TokenStore) Get(_ context.Context, key string) (string, time.Duration, bool, error) {
	v, ttl, ok := s.kv.Get(key)
	if !ok {
		return "", 0, false, nil
	}
	str, ok := v.(string)
	if !ok {
		return "", 0, false, errors.Errorf("token store: key %s holds %T, want string", key, v)
	}
	return str, ttl, true, nil
}

func (s *TokenStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.kv.Put(key, value, ttl)
	return nil
}

func (s *TokenStore) Delete(_ context.Context, keys ...string) error {
	s.kv.Delete(keys...)
	return nil
}
