package kv

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// Redis 基于 Redis 的存储，所有键加上 prefix
type Redis struct {
	rdb    *redis.Client
	prefix string
}

// OpenRedis 创建 Redis 存储并测试连接
func OpenRedis(addr, password string, db int, prefix string) (*Redis, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	r := &Redis{rdb: rdb, prefix: prefix}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := r.Ping(ctx); err != nil {
		rdb.Close()
		return nil, err
	}
	return r, nil
}

// Ping 测试连接
func (r *Redis) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	v, err := r.rdb.Get(ctx, r.prefix+key).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	return v, err
}

// Set 永久有效
func (r *Redis) Set(ctx context.Context, key, value string) error {
	return r.rdb.Set(ctx, r.prefix+key, value, 0).Err()
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, r.prefix+key).Err()
}

func (r *Redis) Close() error {
	return r.rdb.Close()
}
