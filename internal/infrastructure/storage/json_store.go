package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/taskboard/backend/internal/domain/task"
	"github.com/taskboard/backend/internal/infrastructure/config"
	"github.com/taskboard/backend/internal/infrastructure/log"
)

// DocumentStore 任务文档读写原语
// Load 不会失败：文件缺失、不可读或无法解析时返回空文档
// Save 失败时返回 *WriteError
type DocumentStore interface {
	Load() *task.Document
	Save(doc *task.Document) error
}

// WriteError 文档写入失败
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write task document %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Is 使 errors.Is(err, task.ErrStorageWrite) 成立
func (e *WriteError) Is(target error) bool {
	return target == task.ErrStorageWrite
}

// JSONStore 单个 JSON 文件上的文档存储
// 每次调用都重新打开文件，不缓存句柄也不缓存内容
// mu 保证进程内 Load 不会读到写了一半的文件；Load 与 Save 之间不加锁，跨请求的丢失更新由 WriteLocker 决定
type JSONStore struct {
	path   string
	mu     sync.RWMutex
	logger *slog.Logger
}

// NewJSONStore 创建 JSON 文档存储
func NewJSONStore(cfg *config.StorageConfig) *JSONStore {
	return &JSONStore{
		path:   cfg.DataFile,
		logger: log.NewModuleLogger("storage", "json_store"),
	}
}

// Path 返回文档文件路径
func (s *JSONStore) Path() string {
	return s.path
}

// Load 读取并解析文档
func (s *JSONStore) Load() *task.Document {
	s.mu.RLock()
	data, err := os.ReadFile(s.path)
	s.mu.RUnlock()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("Task document not found, using empty document", "path", s.path)
		} else {
			s.logger.Warn("Failed to read task document, using empty document",
				"path", s.path,
				"error", err,
			)
		}
		return task.NewDocument()
	}

	var doc task.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		s.logger.Warn("Failed to parse task document, using empty document",
			"path", s.path,
			"error", err,
		)
		return task.NewDocument()
	}

	doc.Normalize()
	return &doc
}

// Save 以 2 空格缩进写回整个文档，直接覆盖原文件
func (s *JSONStore) Save(doc *task.Document) error {
	if doc.Tasks == nil {
		doc.Tasks = []task.Task{}
	}

	data, err := encodeDocument(doc)
	if err != nil {
		return &WriteError{Path: s.path, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return &WriteError{Path: s.path, Err: err}
		}
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		s.logger.Error("Failed to write task document",
			"path", s.path,
			"error", err,
		)
		return &WriteError{Path: s.path, Err: err}
	}

	s.logger.Debug("Task document saved",
		"path", s.path,
		"tasks", len(doc.Tasks),
		"next_id", doc.NextID,
	)
	return nil
}

// encodeDocument 2 空格缩进、不转义 HTML 字符、末尾换行
func encodeDocument(doc *task.Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// 编译时检查接口实现
var _ DocumentStore = (*JSONStore)(nil)
