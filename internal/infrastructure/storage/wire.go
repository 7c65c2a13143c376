package storage

import (
	"github.com/google/wire"
	"github.com/taskboard/backend/internal/domain/task"
)

// ProviderSet Storage 基础设施层 ProviderSet
var ProviderSet = wire.NewSet(
	NewJSONStore,      // 任务文档读写
	NewWriteLocker,    // 写入串行化（按配置）
	NewTaskRepository, // 任务仓储
	wire.Bind(new(DocumentStore), new(*JSONStore)),
	wire.Bind(new(task.Repository), new(*TaskRepository)),
)
