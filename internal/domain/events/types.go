// Package events 定义任务文档相关的领域事件
package events

import "time"

// EventType 事件类型标识
type EventType string

const (
	// DocumentChanged 任务文档在磁盘上被写入（API 写入或外部编辑）
	DocumentChanged EventType = "document.changed"
	// DocumentRemoved 任务文档被删除或移走
	DocumentRemoved EventType = "document.removed"
)

// Event 领域事件接口
type Event interface {
	Type() EventType
	Timestamp() time.Time
}

// DocumentEvent 文档变更事件
type DocumentEvent struct {
	EventType EventType
	// Path 文档文件路径
	Path      string
	EventTime time.Time
}

// Type 实现 Event 接口
func (e *DocumentEvent) Type() EventType {
	return e.EventType
}

// Timestamp 实现 Event 接口
func (e *DocumentEvent) Timestamp() time.Time {
	return e.EventTime
}
