// Package kv 提供播放器状态使用的持久化键值存储。
package kv

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// ErrNotFound 键不存在
var ErrNotFound = errors.New("kv: key not found")

// Store 字符串键值存储
type Store interface {
	// Get 读取值，键不存在时返回 ErrNotFound
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Backend 需要关闭的存储后端
type Backend interface {
	Store
	io.Closer
}

const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendBolt   = "bolt"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Options 后端选择参数
type Options struct {
	Backend string
	Path    string // file / bolt / sqlite 使用

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

// Open 根据 Options.Backend 打开存储后端
func Open(opts Options) (Backend, error) {
	switch opts.Backend {
	case BackendMemory, "":
		return NewMemory(), nil
	case BackendFile:
		return OpenFile(opts.Path)
	case BackendBolt:
		return OpenBolt(opts.Path)
	case BackendSQLite:
		return OpenSQLite(opts.Path)
	case BackendRedis:
		return OpenRedis(opts.RedisAddr, opts.RedisPassword, opts.RedisDB, opts.RedisPrefix)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", opts.Backend)
	}
}
