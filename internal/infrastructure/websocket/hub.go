package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/taskboard/backend/internal/domain/events"
	"github.com/taskboard/backend/internal/infrastructure/log"
)

// sendBufferSize 每个连接的待发送队列长度，写满的慢连接会被断开
const sendBufferSize = 16

// Hub WebSocket 连接管理中心，向所有客户端广播任务变更通知
type Hub struct {
	clients    map[*Connection]bool
	register   chan *Connection
	unregister chan *Connection
	broadcast  chan []byte
	stop       chan struct{}
	stopOnce   sync.Once
	done       chan struct{}
	mu         sync.RWMutex
	logger     *slog.Logger
}

// Connection 单个客户端连接
type Connection struct {
	Send chan []byte
}

// NewConnection 创建连接
func NewConnection() *Connection {
	return &Connection{Send: make(chan []byte, sendBufferSize)}
}

// ChangeNotification 推送给客户端的变更通知
type ChangeNotification struct {
	Type string    `json:"type"`
	Time time.Time `json:"time"`
}

// 通知类型
const (
	NotificationTasksChanged = "tasks.changed"
)

// NewHub 创建 Hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Connection]bool),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan []byte, sendBufferSize),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
		logger:     log.NewModuleLogger("websocket", "hub"),
	}
}

// Run 运行 Hub（需要在 goroutine 中运行）
func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.clients[conn] = true
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				close(conn.Send)
			}
			h.mu.Unlock()

		case data := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.clients {
				select {
				case conn.Send <- data:
				default:
					close(conn.Send)
					delete(h.clients, conn)
				}
			}
			h.mu.Unlock()

		case <-h.stop:
			h.mu.Lock()
			for conn := range h.clients {
				close(conn.Send)
				delete(h.clients, conn)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Start 启动 Hub（启动后台 goroutine）
func (h *Hub) Start() {
	go h.Run()
}

// Stop 停止 Hub 并关闭所有连接的发送队列
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.stop)
	})
	<-h.done
}

// Register 注册连接，Hub 已停止时返回 false
func (h *Hub) Register(conn *Connection) bool {
	select {
	case h.register <- conn:
		return true
	case <-h.stop:
		return false
	}
}

// Unregister 注销连接
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.stop:
	}
}

// ClientCount 当前连接数
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast 向所有连接广播消息
func (h *Hub) Broadcast(data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	select {
	case h.broadcast <- jsonData:
	case <-h.stop:
	}
	return nil
}

// HandleEvent 将文档事件转换为 tasks.changed 通知
func (h *Hub) HandleEvent(event events.Event) error {
	h.logger.Debug("Broadcasting change notification",
		"event", event.Type(),
		"clients", h.ClientCount(),
	)
	return h.Broadcast(ChangeNotification{
		Type: NotificationTasksChanged,
		Time: event.Timestamp(),
	})
}

// 编译时检查接口实现
var _ events.Handler = (*Hub)(nil)
