package task

import "errors"

var (
	// ErrNotFound 任务不存在
	ErrNotFound = errors.New("task not found")

	// ErrStorageWrite 文档写入失败
	ErrStorageWrite = errors.New("failed to write task document")
)
