package events

// Handler 事件处理器
// 返回的 error 只用于记录日志，不会重试
type Handler interface {
	HandleEvent(event Event) error
}

// HandlerFunc 函数适配器
type HandlerFunc func(event Event) error

// HandleEvent 实现 Handler 接口
func (f HandlerFunc) HandleEvent(event Event) error {
	return f(event)
}

// EventBus 事件总线
type EventBus interface {
	// Subscribe 订阅某类事件，返回取消订阅函数
	Subscribe(eventType EventType, handler Handler) (unsubscribe func())

	// Publish 异步分发事件给所有订阅者
	Publish(event Event)

	// Close 停止接收新事件并等待已分发的事件处理完
	Close()
}
