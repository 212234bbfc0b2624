package mcp

import (
	"context"
	"errors"
	"fmt"

	domainKnowledge "github.com/voyagent/backend/internal/domain/knowledge"
	domainTrip "github.com/voyagent/backend/internal/domain/trip"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SearchTravelKnowledgeInput 知识检索工具输入
type SearchTravelKnowledgeInput struct {
	Query string `json:"query" jsonschema:"Natural language search query (required), e.g., 'best museums in Paris'"`
	City  string `json:"city,omitempty" jsonschema:"Restrict results to one city, e.g., 'Paris'"`
	TopK  int    `json:"top_k,omitempty" jsonschema:"Maximum number of documents to return, defaults to server config, max 20"`
}

// SearchTravelKnowledgeOutput 知识检索工具输出
type SearchTravelKnowledgeOutput struct {
	Results    []*TravelKnowledgeResult `json:"results" jsonschema:"Matching knowledge documents, best first"`
	TotalCount int                      `json:"total_count" jsonschema:"Number of documents returned"`
}

// TravelKnowledgeResult 知识检索结果条目
type TravelKnowledgeResult struct {
	Text     string  `json:"text" jsonschema:"Document text"`
	City     string  `json:"city,omitempty" jsonschema:"City the document is about"`
	Topic    string  `json:"topic,omitempty" jsonschema:"Document topic, e.g., 'museums'"`
	Category string  `json:"category,omitempty" jsonschema:"Document category, e.g., 'attraction'"`
	Score    float32 `json:"score" jsonschema:"Cosine similarity score (0.0-1.0)"`
}

// searchTravelKnowledgeTool 知识检索工具实现
func (s *MCPServer) searchTravelKnowledgeTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input SearchTravelKnowledgeInput,
) (*mcp.CallToolResult, SearchTravelKnowledgeOutput, error) {
	output := SearchTravelKnowledgeOutput{
		Results: []*TravelKnowledgeResult{},
	}

	if input.Query == "" {
		return nil, output, fmt.Errorf("query is required")
	}

	// 限制返回量，避免撑爆调用方的上下文
	topK := input.TopK
	if topK > 20 {
		topK = 20
	}

	results, err := s.retriever.RetrieveWith(
		ctx,
		input.Query,
		domainKnowledge.Filter{City: input.City},
		topK,
		-1, // 阈值使用服务端配置
	)
	if err != nil {
		return nil, output, fmt.Errorf("knowledge search failed: %w", err)
	}

	output.Results = make([]*TravelKnowledgeResult, 0, len(results))
	for _, r := range results {
		output.Results = append(output.Results, &TravelKnowledgeResult{
			Text:     r.Text,
			City:     r.Metadata.City,
			Topic:    r.Metadata.Topic,
			Category: r.Metadata.Category,
			Score:    r.Score,
		})
	}
	output.TotalCount = len(output.Results)

	// 返回 nil，SDK 会自动序列化 output
	return nil, output, nil
}

// GetTripInput 行程查询工具输入
type GetTripInput struct {
	TripID string `json:"trip_id" jsonschema:"Trip ID (required)"`
}

// GetTripOutput 行程查询工具输出
type GetTripOutput struct {
	Trip  *domainTrip.Trip `json:"trip,omitempty" jsonschema:"Trip details"`
	Found bool             `json:"found" jsonschema:"Whether the trip exists"`
}

// getTripTool 行程查询工具实现
func (s *MCPServer) getTripTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input GetTripInput,
) (*mcp.CallToolResult, GetTripOutput, error) {
	output := GetTripOutput{}

	if input.TripID == "" {
		return nil, output, fmt.Errorf("trip_id is required")
	}

	trip, err := s.tripService.Get(input.TripID)
	if err != nil {
		// 不存在不算工具错误，让 AI 拿到明确的 found=false
		if errors.Is(err, domainTrip.ErrTripNotFound) {
			return nil, output, nil
		}
		return nil, output, fmt.Errorf("failed to get trip: %w", err)
	}

	output.Trip = trip
	output.Found = true
	return nil, output, nil
}

// ListTripsInput 行程列表工具输入
type ListTripsInput struct {
	UserID string `json:"user_id,omitempty" jsonschema:"Filter trips by user ID, defaults to all users"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Maximum number of trips to return, defaults to 20"`
}

// ListTripsOutput 行程列表工具输出
type ListTripsOutput struct {
	Trips      []*domainTrip.Trip `json:"trips" jsonschema:"Trips, newest first"`
	TotalCount int                `json:"total_count" jsonschema:"Number of trips returned"`
}

// listTripsTool 行程列表工具实现
func (s *MCPServer) listTripsTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input ListTripsInput,
) (*mcp.CallToolResult, ListTripsOutput, error) {
	output := ListTripsOutput{
		Trips: []*domainTrip.Trip{},
	}

	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}

	trips, err := s.tripService.List(input.UserID, 0, limit)
	if err != nil {
		return nil, output, fmt.Errorf("failed to list trips: %w", err)
	}

	output.Trips = trips
	output.TotalCount = len(trips)
	return nil, output, nil
}
