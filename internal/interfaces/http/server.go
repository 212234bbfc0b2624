package http

import (
	"context"
	"net/http"
	"time"

	"log/slog"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/voyagent/backend/internal/infrastructure/config"
	"github.com/voyagent/backend/internal/infrastructure/log"
	"github.com/voyagent/backend/internal/interfaces/http/handler"
	"github.com/voyagent/backend/internal/interfaces/http/middleware"
	"github.com/voyagent/backend/internal/interfaces/mcp"
	"github.com/gin-gonic/gin"

	_ "github.com/voyagent/backend/docs" // Swagger docs
)

// APIVersion 根路径返回的版本号
const APIVersion = "1.0.0"

// HTTPServer HTTP 服务器
type HTTPServer struct {
	router   *gin.Engine
	httpPort string
	server   *http.Server
	logger   *slog.Logger
}

// NewServer 创建 HTTP 服务器
func NewServer(
	chatHandler *handler.ChatHandler,
	tripHandler *handler.TripHandler,
	knowledgeHandler *handler.KnowledgeHandler,
	mcpServer *mcp.MCPServer,
	serverCfg *config.ServerConfig,
) *HTTPServer {
	router := gin.Default()

	logger := log.NewModuleLogger("http", "server")

	router.Use(middleware.CORS(serverCfg.CORSOrigins))
	router.Use(middleware.EnsureUTF8Body())

	// 注册路由
	api := router.Group("/api")
	{
		chat := api.Group("/chat")
		{
			chat.POST("/message", chatHandler.SendMessage)
		}

		// 行程路由带尾部斜杠，gin 默认的 RedirectTrailingSlash 兼容两种写法
		trips := api.Group("/trips")
		{
			trips.POST("/", tripHandler.Create)
			trips.GET("/", tripHandler.List)
			trips.GET("/:id", tripHandler.Get)
			trips.PUT("/:id", tripHandler.Update)
		}

		knowledge := api.Group("/knowledge")
		{
			knowledge.POST("/search", knowledgeHandler.Search)
			knowledge.GET("/stats", knowledgeHandler.Stats)
		}
	}

	// 根路径
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Travel Planning Assistant API",
			"version": APIVersion,
		})
	})

	// 健康检查
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Prometheus 指标
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// MCP SSE 端点
	if mcpServer != nil {
		router.Any("/mcp/sse", gin.WrapH(mcpServer.GetHandler()))
	}

	return &HTTPServer{
		router:   router,
		httpPort: serverCfg.HTTPPort,
		logger:   logger,
	}
}

// Start 启动服务器
func (s *HTTPServer) Start() error {
	s.server = &http.Server{
		Addr:    s.httpPort,
		Handler: s.router,
	}

	s.logger.Info("HTTP server starting",
		"port", s.httpPort,
	)

	return s.server.ListenAndServe()
}

// Shutdown 优雅关闭
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// Stop 停止服务器
func (s *HTTPServer) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Shutdown(ctx)
}
