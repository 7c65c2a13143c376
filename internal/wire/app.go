package wire

import (
	"log/slog"

	"github.com/taskboard/backend/internal/domain/events"
	applog "github.com/taskboard/backend/internal/infrastructure/log"
	"github.com/taskboard/backend/internal/infrastructure/watcher"
	"github.com/taskboard/backend/internal/infrastructure/websocket"
	"github.com/taskboard/backend/internal/interfaces"
)

// httpServer App 对 HTTP 服务器的依赖
type httpServer interface {
	Start() error
	Stop() error
	Addr() string
}

// App 应用主结构，组合所有服务
type App struct {
	httpServer httpServer
	wsHub      *websocket.Hub
	logger     *slog.Logger

	// 文档监听相关，docWatcher 在关闭监听时为 nil
	eventBus    events.EventBus
	docWatcher  *watcher.DocumentWatcher
	unsubscribe []func()

	errCh chan error
}

// NewApp 创建应用实例
func NewApp(
	server *interfaces.HTTPServer,
	wsHub *websocket.Hub,
	eventBus events.EventBus,
	docWatcher *watcher.DocumentWatcher,
) *App {
	return &App{
		httpServer: server,
		wsHub:      wsHub,
		eventBus:   eventBus,
		docWatcher: docWatcher,
		logger:     applog.NewModuleLogger("app", "main"),
		errCh:      make(chan error, 1),
	}
}

// Start 启动所有服务，HTTP 服务器在后台运行
func (a *App) Start() error {
	a.logger.Info("Starting tasks backend application")

	a.wsHub.Start()

	// 注册事件订阅者并启动文档监听
	a.setupEventSubscribers()
	if a.docWatcher != nil {
		if err := a.docWatcher.Start(); err != nil {
			a.logger.Error("Failed to start document watcher",
				"error", err,
			)
		} else {
			a.logger.Info("Document watcher started successfully")
		}
	}

	go func() {
		if err := a.httpServer.Start(); err != nil {
			a.logger.Error("Failed to start HTTP server",
				"error", err,
			)
			a.errCh <- err
		}
	}()

	a.logger.Info("Tasks backend application started successfully",
		"addr", a.httpServer.Addr(),
	)
	return nil
}

// Errors HTTP 服务器异常退出时收到错误（如端口被占用）
func (a *App) Errors() <-chan error {
	return a.errCh
}

// setupEventSubscribers Hub 订阅文档变更事件
func (a *App) setupEventSubscribers() {
	if a.eventBus == nil {
		return
	}

	for _, eventType := range []events.EventType{events.DocumentChanged, events.DocumentRemoved} {
		a.unsubscribe = append(a.unsubscribe, a.eventBus.Subscribe(eventType, a.wsHub))
	}
	a.logger.Info("WebSocket hub subscribed to document events")
}

// Stop 停止所有服务，顺序与启动相反
// 某一步失败时继续关闭其余服务，返回第一个错误
func (a *App) Stop() error {
	a.logger.Info("Stopping tasks backend application")

	var firstErr error
	if err := a.httpServer.Stop(); err != nil {
		a.logger.Error("Failed to stop HTTP server",
			"error", err,
		)
		firstErr = err
	}

	if a.docWatcher != nil {
		a.docWatcher.Stop()
		a.logger.Info("Document watcher stopped")
	}

	for _, unsubscribe := range a.unsubscribe {
		unsubscribe()
	}
	a.unsubscribe = nil

	if a.eventBus != nil {
		a.eventBus.Close()
		a.logger.Info("Event bus closed")
	}

	a.wsHub.Stop()

	a.logger.Info("Tasks backend application stopped")
	return firstErr
}
