package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/taskboard/backend/internal/infrastructure/config"
	"github.com/taskboard/backend/internal/infrastructure/log"
	infraWS "github.com/taskboard/backend/internal/infrastructure/websocket"
)

const (
	// writeWait 单次写入超时
	writeWait = 10 * time.Second
	// pongWait 超过此时间未收到 pong 则断开
	pongWait = 60 * time.Second
	// pingPeriod 必须小于 pongWait
	pingPeriod = (pongWait * 9) / 10
	// maxMessageSize 客户端只发送控制帧，限制读取大小
	maxMessageSize = 512
)

// EventsHandler 任务变更推送（WebSocket）
type EventsHandler struct {
	hub      *infraWS.Hub
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewEventsHandler 创建变更推送处理器
func NewEventsHandler(hub *infraWS.Hub, cfg *config.WebSocketConfig) *EventsHandler {
	return &EventsHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			CheckOrigin: func(r *http.Request) bool {
				return true // 与 REST 接口一致，不做来源限制
			},
		},
		logger: log.NewModuleLogger("http", "events_handler"),
	}
}

// Stream 订阅任务变更通知
// @Summary 订阅任务变更（WebSocket）
// @Description 文档每次变更推送 {"type":"tasks.changed","time":"..."}，客户端收到后重新拉取列表
// @Tags 任务
// @Success 101 {string} string "Switching Protocols"
// @Router /tasks/events [get]
func (h *EventsHandler) Stream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade 已写入错误响应
		log.FromContext(c.Request.Context(), h.logger).Warn("Failed to upgrade connection", "error", err)
		return
	}

	client := infraWS.NewConnection()
	if !h.hub.Register(client) {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		_ = conn.Close()
		return
	}

	h.logger.Debug("Client connected", "remote", conn.RemoteAddr().String())

	go h.writePump(conn, client)
	h.readPump(conn, client)
}

// readPump 只处理控制帧，连接断开时注销
func (h *EventsHandler) readPump(conn *websocket.Conn, client *infraWS.Connection) {
	defer func() {
		h.hub.Unregister(client)
		_ = conn.Close()
		h.logger.Debug("Client disconnected", "remote", conn.RemoteAddr().String())
	}()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump 转发 Hub 消息并定期 ping
func (h *EventsHandler) writePump(conn *websocket.Conn, client *infraWS.Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case msg, ok := <-client.Send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
