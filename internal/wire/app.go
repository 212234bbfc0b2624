package wire

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"log/slog"

	appKnowledge "github.com/voyagent/backend/internal/application/knowledge"
	"github.com/voyagent/backend/internal/domain/events"
	"github.com/voyagent/backend/internal/infrastructure/config"
	applog "github.com/voyagent/backend/internal/infrastructure/log"
	"github.com/voyagent/backend/internal/infrastructure/vector"
	"github.com/voyagent/backend/internal/infrastructure/watcher"
	"github.com/voyagent/backend/internal/interfaces"
)

// ensureTimeout 启动时等待向量库就绪的上限
const ensureTimeout = 10 * time.Second

// App 应用主结构，组合所有服务
type App struct {
	HTTPServer *interfaces.HTTPServer
	MCPServer  *interfaces.MCPServer

	indexer      *appKnowledge.Indexer
	knowledgeCfg *config.KnowledgeConfig
	store        *vector.QdrantStore
	db           *sql.DB
	logger       *slog.Logger

	// 文件监听相关
	eventBus    events.EventBus
	fileWatcher *watcher.FileWatcher
}

// NewApp 创建应用实例
func NewApp(
	httpServer *interfaces.HTTPServer,
	mcpServer *interfaces.MCPServer,
	indexer *appKnowledge.Indexer,
	knowledgeCfg *config.KnowledgeConfig,
	eventBus events.EventBus,
	fileWatcher *watcher.FileWatcher,
	store *vector.QdrantStore,
	db *sql.DB,
) *App {
	return &App{
		HTTPServer:   httpServer,
		MCPServer:    mcpServer,
		indexer:      indexer,
		knowledgeCfg: knowledgeCfg,
		store:        store,
		db:           db,
		logger:       applog.NewModuleLogger("app", "main"),
		eventBus:     eventBus,
		fileWatcher:  fileWatcher,
	}
}

// Start 启动所有服务
func (a *App) Start() error {
	a.logger.Info("Starting voyagent backend application")

	// 向量库不可用时降级运行：对话照常，只是没有知识检索
	ctx, cancel := context.WithTimeout(context.Background(), ensureTimeout)
	defer cancel()
	if err := a.indexer.EnsureReady(ctx); err != nil {
		a.logger.Warn("Vector store unavailable, chat will run without knowledge retrieval",
			"error", err,
		)
	} else if count, err := a.indexer.Count(ctx); err == nil {
		a.logger.Info("Knowledge collection ready", "documents", count)
	}

	// 注册事件订阅者并启动文件监听
	a.setupEventSubscribers()
	if a.knowledgeCfg.Dir != "" {
		if err := a.fileWatcher.Start(); err != nil {
			a.logger.Error("Failed to start file watcher",
				"error", err,
			)
		} else {
			a.logger.Info("File watcher started successfully")
		}
	} else {
		a.logger.Info("Knowledge directory not configured, file watcher disabled")
	}

	// 启动 HTTP 服务器（goroutine）
	go func() {
		if err := a.HTTPServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("Failed to start HTTP server",
				"error", err,
			)
		}
	}()

	a.logger.Info("voyagent backend application started successfully")

	// MCP 服务器通过 HTTP Handler 提供服务，不需要单独启动
	// 已在 HTTP 服务器中注册 /mcp/sse 端点

	return nil
}

// setupEventSubscribers 注册事件订阅者
func (a *App) setupEventSubscribers() {
	if a.eventBus == nil {
		return
	}

	// 索引器订阅知识文档变更：新增和修改触发重索引，删除触发向量清理
	a.eventBus.SubscribeMultiple(
		[]events.EventType{
			events.KnowledgeFileCreated,
			events.KnowledgeFileModified,
			events.KnowledgeFileDeleted,
		},
		events.HandlerFunc(func(event events.Event) error {
			fileEvent, ok := event.(*events.KnowledgeFileEvent)
			if !ok {
				return nil
			}
			return a.indexer.HandleFileEvent(fileEvent)
		}),
	)
	a.logger.Info("Knowledge indexer subscribed to file events")
}

// Stop 停止所有服务
func (a *App) Stop() error {
	a.logger.Info("Stopping voyagent backend application")

	// 停止文件监听器
	if a.fileWatcher != nil {
		a.fileWatcher.Stop()
		a.logger.Info("File watcher stopped")
	}

	// 关闭事件总线
	if a.eventBus != nil {
		a.eventBus.Close()
		a.logger.Info("Event bus closed")
	}

	if err := a.HTTPServer.Stop(); err != nil {
		a.logger.Error("Failed to stop HTTP server",
			"error", err,
		)
		return err
	}
	if err := a.MCPServer.Stop(); err != nil {
		a.logger.Error("Failed to stop MCP server",
			"error", err,
		)
		return err
	}

	// 关闭向量库连接
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Error("Failed to close vector store connection",
				"error", err,
			)
		}
	}

	// 关闭数据库连接
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error("Failed to close database connection",
				"error", err,
			)
			return err
		}
	}

	a.logger.Info("voyagent backend application stopped successfully")

	return nil
}
