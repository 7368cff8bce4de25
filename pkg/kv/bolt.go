package kv

import (
	"context"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

var playerBucket = []byte("player")

// bbolt 打开期间独占数据库文件，等待其他进程释放的最长时间
const boltLockTimeout = 5 * time.Second

// Bolt 基于 bbolt 的存储。
// 每次操作单独打开数据库，守护进程和命令行可以交替访问同一个文件。
type Bolt struct {
	path string
}

func OpenBolt(path string) (*Bolt, error) {
	if path == "" {
		return nil, fmt.Errorf("bolt backend requires a path")
	}

	b := &Bolt{path: path}
	err := b.update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(playerBucket)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("could not create player bucket: %w", err)
	}
	return b, nil
}

func (b *Bolt) open(readOnly bool) (*bbolt.DB, error) {
	db, err := bbolt.Open(b.path, 0600, &bbolt.Options{Timeout: boltLockTimeout, ReadOnly: readOnly})
	if err != nil {
		return nil, fmt.Errorf("could not open bbolt database: %w", err)
	}
	return db, nil
}

func (b *Bolt) update(fn func(tx *bbolt.Tx) error) error {
	db, err := b.open(false)
	if err != nil {
		return err
	}
	defer db.Close()
	return db.Update(fn)
}

func (b *Bolt) Get(_ context.Context, key string) (string, error) {
	db, err := b.open(true)
	if err != nil {
		return "", err
	}
	defer db.Close()

	var value string
	err = db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(playerBucket)
		if bucket == nil {
			return ErrNotFound
		}
		v := bucket.Get([]byte(key))
		if v == nil {
			return ErrNotFound
		}
		value = string(v)
		return nil
	})
	return value, err
}

func (b *Bolt) Set(_ context.Context, key, value string) error {
	return b.update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(playerBucket)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(key), []byte(value))
	})
}

func (b *Bolt) Delete(_ context.Context, key string) error {
	return b.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(playerBucket)
		if bucket == nil {
			return nil
		}
		return bucket.Delete([]byte(key))
	})
}

func (b *Bolt) Close() error { return nil }
