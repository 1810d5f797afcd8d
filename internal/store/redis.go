package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps artifacts in Redis so every server replica can serve a
// download. Keys expire with the artifact.
type RedisStore struct {
	client *redis.Client
	codec  *codec
	prefix string
}

func newRedisStore(url string, db int, prefix string, c *codec) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		opts = &redis.Options{Addr: url}
	}
	if db != 0 {
		opts.DB = db
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if prefix == "" {
		prefix = "rdplines"
	}
	return &RedisStore{client: client, codec: c, prefix: prefix}, nil
}

func (s *RedisStore) key(id string) string {
	return fmt.Sprintf("%s:artifact:%s", s.prefix, id)
}

func (s *RedisStore) Put(ctx context.Context, a *Artifact) error {
	ttl, err := ttlFor(a, time.Now())
	if err != nil {
		return err
	}

	raw, err := s.codec.encode(a)
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, s.key(a.ID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store artifact %s: %w", a.ID, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Artifact, error) {
	raw, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact %s: %w", id, err)
	}

	a, err := s.codec.decode(raw)
	if err != nil {
		return nil, err
	}
	if a.Expired(time.Now()) {
		return nil, ErrExpired
	}
	return a, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.key(id)).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
