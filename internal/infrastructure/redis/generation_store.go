package redisstore

import (
	"context"
	"errors"
	"time"

	"exchange-desk/internal/application"

	"github.com/redis/go-redis/v9"
)

var _ application.GenerationStore = (*Store)(nil)

const keyPrefix = "quote_gen:"

// Store keeps request generations in Redis so that every replica sees the
// same latest request per session.
type Store struct {
	Client *redis.Client
	TTL    time.Duration
}

func New(client *redis.Client, ttl time.Duration) *Store {
	return &Store{Client: client, TTL: ttl}
}

func (s *Store) Next(ctx context.Context, session string) (int64, error) {
	key := keyPrefix + session
	pipe := s.Client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	if s.TTL > 0 {
		pipe.Expire(ctx, key, s.TTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

func (s *Store) Current(ctx context.Context, session string) (int64, error) {
	v, err := s.Client.Get(ctx, keyPrefix+session).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}
