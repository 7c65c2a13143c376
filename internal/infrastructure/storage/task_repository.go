package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taskboard/backend/internal/domain/task"
	"github.com/taskboard/backend/internal/infrastructure/log"
)

// TaskRepository 基于 DocumentStore 的任务仓储
// 每个操作恰好 Load 一次，成功的写操作恰好 Save 一次
type TaskRepository struct {
	store  DocumentStore
	locker WriteLocker
	logger *slog.Logger
}

// NewTaskRepository 创建任务仓储实例
func NewTaskRepository(store DocumentStore, locker WriteLocker) *TaskRepository {
	if locker == nil {
		locker = NoopLocker{}
	}
	return &TaskRepository{
		store:  store,
		locker: locker,
		logger: log.NewModuleLogger("storage", "task_repository"),
	}
}

// ListAll 按插入顺序返回全部任务
func (r *TaskRepository) ListAll(ctx context.Context) ([]task.Task, error) {
	if err := r.locker.RLock(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer func() {
		if err := r.locker.RUnlock(); err != nil {
			log.FromContext(ctx, r.logger).Error("Failed to release read lock", "error", err)
		}
	}()

	doc := r.store.Load()
	return doc.Tasks, nil
}

// Create 分配 NextID 并追加任务
func (r *TaskRepository) Create(ctx context.Context, title string, completed bool) (task.Task, error) {
	created, err := r.mutate(ctx, "create", func(doc *task.Document) (task.Task, error) {
		return doc.Append(title, completed), nil
	})
	if err != nil {
		return task.Task{}, err
	}

	log.FromContext(ctx, r.logger).Info("Task created", "id", created.ID)
	return created, nil
}

// UpdateByID 只覆盖补丁中出现的字段
func (r *TaskRepository) UpdateByID(ctx context.Context, id int, patch task.Patch) (task.Task, error) {
	updated, err := r.mutate(ctx, "update", func(doc *task.Document) (task.Task, error) {
		idx := doc.IndexOf(id)
		if idx < 0 {
			return task.Task{}, task.ErrNotFound
		}
		doc.Tasks[idx].Apply(patch)
		return doc.Tasks[idx], nil
	})
	if err != nil {
		return task.Task{}, err
	}

	log.FromContext(ctx, r.logger).Info("Task updated", "id", id)
	return updated, nil
}

// DeleteByID 删除任务，ID 不会被回收
func (r *TaskRepository) DeleteByID(ctx context.Context, id int) (task.Task, error) {
	removed, err := r.mutate(ctx, "delete", func(doc *task.Document) (task.Task, error) {
		idx := doc.IndexOf(id)
		if idx < 0 {
			return task.Task{}, task.ErrNotFound
		}
		return doc.Remove(idx), nil
	})
	if err != nil {
		return task.Task{}, err
	}

	log.FromContext(ctx, r.logger).Info("Task deleted", "id", id)
	return removed, nil
}

// mutate 执行 加载-修改-保存；fn 返回错误时不保存
func (r *TaskRepository) mutate(ctx context.Context, op string, fn func(doc *task.Document) (task.Task, error)) (task.Task, error) {
	if err := r.locker.Lock(); err != nil {
		return task.Task{}, fmt.Errorf("%s task: %w", op, err)
	}
	defer func() {
		if err := r.locker.Unlock(); err != nil {
			log.FromContext(ctx, r.logger).Error("Failed to release write lock", "op", op, "error", err)
		}
	}()

	doc := r.store.Load()
	result, err := fn(doc)
	if err != nil {
		return task.Task{}, err
	}

	if err := r.store.Save(doc); err != nil {
		return task.Task{}, fmt.Errorf("%s task: %w", op, err)
	}
	return result, nil
}

// 编译时检查接口实现
var _ task.Repository = (*TaskRepository)(nil)
