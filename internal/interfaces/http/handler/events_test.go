package handler

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskboard/backend/internal/domain/events"
	"github.com/taskboard/backend/internal/infrastructure/config"
	infraWS "github.com/taskboard/backend/internal/infrastructure/websocket"
)

// dialEvents 启动测试服务器并建立 WebSocket 连接
func dialEvents(t *testing.T, hub *infraWS.Hub) *websocket.Conn {
	t.Helper()

	h := NewEventsHandler(hub, &config.WebSocketConfig{ReadBufferSize: 1024, WriteBufferSize: 1024})
	router := gin.New()
	router.GET("/api/tasks/events", h.Stream)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/tasks/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
	return conn
}

func TestEventsHandler_PushesChangeNotification(t *testing.T) {
	hub := infraWS.NewHub()
	hub.Start()
	t.Cleanup(hub.Stop)

	conn := dialEvents(t, hub)

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, hub.HandleEvent(&events.DocumentEvent{
		EventType: events.DocumentChanged,
		Path:      "tasks.json",
		EventTime: at,
	}))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg infraWS.ChangeNotification
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, infraWS.NotificationTasksChanged, msg.Type)
	assert.True(t, at.Equal(msg.Time))
}

func TestEventsHandler_ClientDisconnectUnregisters(t *testing.T) {
	hub := infraWS.NewHub()
	hub.Start()
	t.Cleanup(hub.Stop)

	conn := dialEvents(t, hub)
	require.NoError(t, conn.Close())

	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestEventsHandler_HubStopClosesConnection(t *testing.T) {
	hub := infraWS.NewHub()
	hub.Start()

	conn := dialEvents(t, hub)
	hub.Stop()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err, "Hub 停止后连接应关闭")
}
