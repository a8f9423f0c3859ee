package repository

import (
	"context"
	"errors"

	"github.com/go-redis/redis/v8"
)

// RedisBackend 每个集合一个 string key，SET 本身就是原子替换
type RedisBackend struct {
	Client *redis.Client
	Prefix string
}

func NewRedisBackend(client *redis.Client, prefix string) *RedisBackend {
	return &RedisBackend{Client: client, Prefix: prefix}
}

func (b *RedisBackend) Read(ctx context.Context, key string) ([]byte, error) {
	v, err := b.Client.Get(ctx, b.Prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (b *RedisBackend) Write(ctx context.Context, key string, payload []byte) error {
	return b.Client.Set(ctx, b.Prefix+key, payload, 0).Err()
}

func (b *RedisBackend) Ping(ctx context.Context) error {
	return b.Client.Ping(ctx).Err()
}

func (b *RedisBackend) Close() error {
	return b.Client.Close()
}
