package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
	"github.com/taskboard/backend/internal/infrastructure/config"
)

// WriteLocker 包裹一次 读-改-写 序列
// RLock 供只读操作使用，与写锁互斥，读锁之间共享
type WriteLocker interface {
	Lock() error
	Unlock() error
	RLock() error
	RUnlock() error
}

// NoopLocker 不做任何协调，并发写入时后写覆盖先写
type NoopLocker struct{}

// Lock 实现 WriteLocker
func (NoopLocker) Lock() error { return nil }

// Unlock 实现 WriteLocker
func (NoopLocker) Unlock() error { return nil }

// RLock 实现 WriteLocker
func (NoopLocker) RLock() error { return nil }

// RUnlock 实现 WriteLocker
func (NoopLocker) RUnlock() error { return nil }

// FileLocker 进程内读写锁 + 跨进程文件锁（<data file>.lock）
// flock 对同一实例可重入，进程内的 goroutine 由 mu 协调；
// 进程内第一个读者获取共享 flock，最后一个读者释放
type FileLocker struct {
	mu sync.RWMutex
	fl *flock.Flock

	readersMu sync.Mutex
	readers   int
}

// NewFileLocker 创建文件锁
func NewFileLocker(path string) *FileLocker {
	return &FileLocker{fl: flock.New(path)}
}

// Lock 阻塞直到获得排他锁
func (l *FileLocker) Lock() error {
	l.mu.Lock()
	if err := l.ensureDir(); err != nil {
		l.mu.Unlock()
		return err
	}
	if err := l.fl.Lock(); err != nil {
		l.mu.Unlock()
		return fmt.Errorf("failed to lock %s: %w", l.fl.Path(), err)
	}
	return nil
}

// Unlock 释放锁
func (l *FileLocker) Unlock() error {
	defer l.mu.Unlock()
	if err := l.fl.Unlock(); err != nil {
		return fmt.Errorf("failed to unlock %s: %w", l.fl.Path(), err)
	}
	return nil
}

// RLock 阻塞直到获得共享锁
func (l *FileLocker) RLock() error {
	l.mu.RLock()
	l.readersMu.Lock()
	defer l.readersMu.Unlock()

	if l.readers == 0 {
		if err := l.ensureDir(); err != nil {
			l.mu.RUnlock()
			return err
		}
		if err := l.fl.RLock(); err != nil {
			l.mu.RUnlock()
			return fmt.Errorf("failed to read-lock %s: %w", l.fl.Path(), err)
		}
	}
	l.readers++
	return nil
}

// RUnlock 释放共享锁
func (l *FileLocker) RUnlock() error {
	defer l.mu.RUnlock()
	l.readersMu.Lock()
	defer l.readersMu.Unlock()

	l.readers--
	if l.readers > 0 {
		return nil
	}
	if err := l.fl.Unlock(); err != nil {
		return fmt.Errorf("failed to unlock %s: %w", l.fl.Path(), err)
	}
	return nil
}

func (l *FileLocker) ensureDir() error {
	if err := os.MkdirAll(filepath.Dir(l.fl.Path()), 0755); err != nil {
		return fmt.Errorf("failed to create lock directory: %w", err)
	}
	return nil
}

// NewWriteLocker 按配置选择写入协调方式
func NewWriteLocker(cfg *config.StorageConfig) WriteLocker {
	if cfg.LockWrites {
		return NewFileLocker(cfg.DataFile + ".lock")
	}
	return NoopLocker{}
}
