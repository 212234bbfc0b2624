package mcp

import (
	"fmt"
	"net/http"

	appKnowledge "github.com/voyagent/backend/internal/application/knowledge"
	appTrip "github.com/voyagent/backend/internal/application/trip"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// MCPServer MCP 服务器
// 把知识检索和行程查询暴露为 MCP 工具，供外部 AI 客户端调用
type MCPServer struct {
	server      *mcp.Server
	handler     http.Handler
	retriever   *appKnowledge.Retriever
	tripService *appTrip.Service
}

// NewServer 创建 MCP 服务器
func NewServer(
	retriever *appKnowledge.Retriever,
	tripService *appTrip.Service,
) *MCPServer {
	// 创建 MCP 服务器实例
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "voyagent",
			Version: "1.0.0",
		},
		nil, // 使用默认能力
	)

	// 创建服务器实例（用于闭包捕获依赖）
	mcpServer := &MCPServer{
		server:      server,
		retriever:   retriever,
		tripService: tripService,
	}

	// 注册工具：search_travel_knowledge
	mcp.AddTool(server, &mcp.Tool{
		Name: "search_travel_knowledge",
		Description: `Search the curated travel knowledge base using semantic similarity.

Use this tool when you need factual information about destinations: attractions, food, transport, accommodation, budget hints.

Parameters:
- query (string, required): Natural language description of the information you need, e.g., "best museums in Paris"
- city (string, optional): Restrict results to one city, e.g., "Paris"
- top_k (int, optional): Maximum number of documents to return (1-20, default: server config)

Returns: List of matching documents with text, city/topic/category metadata, and similarity score.`,
	}, mcpServer.searchTravelKnowledgeTool)

	// 注册工具：get_trip
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_trip",
		Description: "Get the full details of a trip by its ID. Parameters: trip_id (string, required). Returns: trip with destination, dates, budget, status, and itinerary.",
	}, mcpServer.getTripTool)

	// 注册工具：list_trips
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_trips",
		Description: "List trips, newest first. Parameters: user_id (string, optional) - filter by user, defaults to all users; limit (int, optional) - maximum number of trips, default 20. Returns: trips list and total count.",
	}, mcpServer.listTripsTool)

	// 创建 SSE Handler
	handler := mcp.NewSSEHandler(
		func(r *http.Request) *mcp.Server {
			// 每个请求返回同一个服务器实例
			return server
		},
		nil, // SSEOptions，使用默认值
	)

	mcpServer.handler = handler
	return mcpServer
}

// GetHandler 获取 HTTP Handler（用于集成到 HTTP 服务器）
func (s *MCPServer) GetHandler() http.Handler {
	return s.handler
}

// Start 启动服务器（HTTP/SSE 模式）
// 注意：MCP 服务器通过 HTTP Handler 提供服务，不需要单独启动
func (s *MCPServer) Start() error {
	// HTTP/SSE 模式下，由 HTTP 服务器统一管理生命周期
	fmt.Println("MCP 服务器已就绪（HTTP/SSE 模式）")
	return nil
}

// Stop 停止服务器
func (s *MCPServer) Stop() error {
	// HTTP/SSE 模式下，由 HTTP 服务器统一管理生命周期
	return nil
}
