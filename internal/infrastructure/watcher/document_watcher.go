package watcher

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/taskboard/backend/internal/domain/events"
	"github.com/taskboard/backend/internal/infrastructure/log"
)

// DefaultDebounceDelay 连续写入合并为一次事件的窗口
const DefaultDebounceDelay = 200 * time.Millisecond

// DocumentWatcher 监听任务文档所在目录，文档变更时发布事件
// 监听目录而不是文件本身：文件可能尚未创建，编辑器也可能用 rename 替换文件
type DocumentWatcher struct {
	path     string
	debounce time.Duration
	eventBus events.EventBus
	watcher  *fsnotify.Watcher
	logger   *slog.Logger

	timerMu sync.Mutex
	timer   *time.Timer
	pending fsnotify.Op

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewDocumentWatcher 创建文档监听器
func NewDocumentWatcher(path string, debounce time.Duration, eventBus events.EventBus) (*DocumentWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounceDelay
	}

	return &DocumentWatcher{
		path:     filepath.Clean(path),
		debounce: debounce,
		eventBus: eventBus,
		watcher:  w,
		logger:   log.NewModuleLogger("watcher", "document_watcher"),
		stopCh:   make(chan struct{}),
	}, nil
}

// Start 开始监听
func (dw *DocumentWatcher) Start() error {
	dir := filepath.Dir(dw.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}
	if err := dw.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	dw.logger.Info("Watching task document", "path", dw.path)

	dw.wg.Add(1)
	go dw.loop()
	return nil
}

// Stop 停止监听，可重复调用
func (dw *DocumentWatcher) Stop() {
	dw.stopOnce.Do(func() {
		close(dw.stopCh)
		_ = dw.watcher.Close()
		dw.wg.Wait()

		dw.timerMu.Lock()
		if dw.timer != nil {
			dw.timer.Stop()
		}
		dw.timerMu.Unlock()
	})
}

func (dw *DocumentWatcher) loop() {
	defer dw.wg.Done()

	for {
		select {
		case <-dw.stopCh:
			return

		case ev, ok := <-dw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != dw.path {
				continue
			}
			dw.schedule(ev.Op)

		case err, ok := <-dw.watcher.Errors:
			if !ok {
				return
			}
			dw.logger.Error("Watcher error", "error", err)
		}
	}
}

// schedule 防抖：窗口内的操作合并，窗口结束时发布一次
func (dw *DocumentWatcher) schedule(op fsnotify.Op) {
	dw.timerMu.Lock()
	defer dw.timerMu.Unlock()

	dw.pending |= op
	if dw.timer != nil {
		dw.timer.Stop()
	}
	dw.timer = time.AfterFunc(dw.debounce, dw.flush)
}

func (dw *DocumentWatcher) flush() {
	dw.timerMu.Lock()
	op := dw.pending
	dw.pending = 0
	dw.timer = nil
	dw.timerMu.Unlock()

	if op == 0 {
		return
	}

	eventType := events.DocumentChanged
	if _, err := os.Stat(dw.path); os.IsNotExist(err) {
		eventType = events.DocumentRemoved
	}

	dw.logger.Debug("Task document changed",
		"path", dw.path,
		"op", op.String(),
		"event", eventType,
	)

	dw.eventBus.Publish(&events.DocumentEvent{
		EventType: eventType,
		Path:      dw.path,
		EventTime: time.Now(),
	})
}
