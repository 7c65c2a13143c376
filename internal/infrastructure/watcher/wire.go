package watcher

import (
	"github.com/google/wire"
	"github.com/taskboard/backend/internal/domain/events"
	"github.com/taskboard/backend/internal/infrastructure/config"
)

// ProvideDocumentWatcher 按配置提供文档监听器，关闭监听时返回 nil
func ProvideDocumentWatcher(cfg *config.StorageConfig, eventBus events.EventBus) (*DocumentWatcher, error) {
	if !cfg.Watch {
		return nil, nil
	}
	return NewDocumentWatcher(cfg.DataFile, DefaultDebounceDelay, eventBus)
}

// ProviderSet 文件监听 ProviderSet
var ProviderSet = wire.NewSet(
	NewEventBus,
	ProvideDocumentWatcher,
)
