package store

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/tbeckers/floatdeck/pkg/errors"
	"github.com/tbeckers/floatdeck/pkg/grid"
)

const redisKeyPrefix = "floatdeck:layout:"

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Addr     string // host:port
	Password string
	DB       int
}

// RedisStore keeps layouts in Redis, one JSON value per name.
// Suitable when several server instances share state.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection with a ping.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", cfg.Addr, err)
	}
	return &RedisStore{client: client}, nil
}

func redisKey(name string) string { return redisKeyPrefix + name }

func (s *RedisStore) Get(ctx context.Context, name string) (grid.Record, error) {
	if err := ValidateName(name); err != nil {
		return grid.Record{}, err
	}
	data, err := s.client.Get(ctx, redisKey(name)).Bytes()
	if err == redis.Nil {
		return grid.Record{}, notFound(name)
	}
	if err != nil {
		return grid.Record{}, fmt.Errorf("redis get: %w", err)
	}

	var rec grid.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return grid.Record{}, errors.Wrap(errors.ErrCodeInvalidRecord, err, "parse layout %s", name)
	}
	return rec, nil
}

func (s *RedisStore) Put(ctx context.Context, name string, rec grid.Record) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal layout: %w", err)
	}
	if err := s.client.Set(ctx, redisKey(name), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	n, err := s.client.Del(ctx, redisKey(name)).Result()
	if err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	if n == 0 {
		return notFound(name)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	var names []string
	iter := s.client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		names = append(names, strings.TrimPrefix(iter.Val(), redisKeyPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan: %w", err)
	}
	slices.Sort(names)
	return names, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
