package task

import "context"

// Repository 任务仓储接口，唯一允许修改 Document 的组件
type Repository interface {
	// ListAll 按插入顺序返回全部任务
	ListAll(ctx context.Context) ([]Task, error)

	// Create 以下一个 ID 创建任务
	Create(ctx context.Context, title string, completed bool) (Task, error)

	// UpdateByID 按补丁更新任务，不存在返回 ErrNotFound
	UpdateByID(ctx context.Context, id int, patch Patch) (Task, error)

	// DeleteByID 删除任务，不存在返回 ErrNotFound
	DeleteByID(ctx context.Context, id int) (Task, error)
}
