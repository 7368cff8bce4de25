package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"syscall"

	"player-core/pkg/fileutil"
)

// File 把所有键值保存在一个 JSON 文件里。
// 每次操作都在文件锁内重新读取文件，修改时整体重写，多个进程可共用同一个文件。
type File struct {
	path     string
	lockPath string
	mu       sync.Mutex
}

// OpenFile 打开（或创建）JSON 存储文件
func OpenFile(path string) (*File, error) {
	if path == "" {
		return nil, fmt.Errorf("file backend requires a path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	f := &File{path: path, lockPath: path + ".lock"}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Info().Str("path", path).Msg("Storage file not found, starting empty")
	}
	return f, nil
}

func (f *File) Get(_ context.Context, key string) (string, error) {
	var (
		value string
		found bool
	)
	err := f.withLock(syscall.LOCK_SH, func() error {
		data, err := f.read()
		if err != nil {
			return err
		}
		value, found = data[key]
		return nil
	})
	if err != nil {
		return "", err
	}
	if !found {
		return "", ErrNotFound
	}
	return value, nil
}

func (f *File) Set(_ context.Context, key, value string) error {
	return f.withLock(syscall.LOCK_EX, func() error {
		data, err := f.read()
		if err != nil {
			return err
		}
		data[key] = value
		return f.write(data)
	})
}

func (f *File) Delete(_ context.Context, key string) error {
	return f.withLock(syscall.LOCK_EX, func() error {
		data, err := f.read()
		if err != nil {
			return err
		}
		if _, ok := data[key]; !ok {
			return nil
		}
		delete(data, key)
		return f.write(data)
	})
}

func (f *File) Close() error { return nil }

// withLock 持有进程内互斥锁和兄弟 .lock 文件上的 flock 执行 fn
func (f *File) withLock(how int, fn func() error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	lock, err := os.OpenFile(f.lockPath, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("failed to open storage lock: %w", err)
	}
	defer lock.Close()

	if err := syscall.Flock(int(lock.Fd()), how); err != nil {
		return fmt.Errorf("failed to lock storage: %w", err)
	}
	defer syscall.Flock(int(lock.Fd()), syscall.LOCK_UN)

	return fn()
}

func (f *File) read() (map[string]string, error) {
	data := make(map[string]string)

	content, err := os.ReadFile(f.path)
	switch {
	case os.IsNotExist(err):
		return data, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read storage file %s: %w", f.path, err)
	case len(content) == 0:
		return data, nil
	}

	if err := json.Unmarshal(content, &data); err != nil {
		// 文件损坏时按空存储处理，下一次写入会覆盖
		logger.Warn().Err(err).Str("path", f.path).Msg("Corrupt storage file, treating as empty")
		return make(map[string]string), nil
	}
	return data, nil
}

func (f *File) write(data map[string]string) error {
	content, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode storage: %w", err)
	}
	return fileutil.WriteFileAtomic(f.path, content, 0644)
}
