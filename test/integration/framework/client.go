//go:build integration
// +build integration

// APIClient 基于 resty 封装的 HTTP 客户端，直接复用业务结构体
package framework

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	appChat "github.com/voyagent/backend/internal/application/chat"
	domainKnowledge "github.com/voyagent/backend/internal/domain/knowledge"
	domainTrip "github.com/voyagent/backend/internal/domain/trip"
)

// ErrEmptyMessage 空白消息在客户端即被拒绝，不发起请求
var ErrEmptyMessage = errors.New("message cannot be empty")

// APIClient 测试用 HTTP 客户端
type APIClient struct {
	client  *resty.Client
	baseURL string
}

// NewAPIClient 创建测试用 HTTP 客户端
func NewAPIClient(baseURL string) *APIClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetHeader("Content-Type", "application/json")

	return &APIClient{
		client:  client,
		baseURL: baseURL,
	}
}

// --- 通用响应结构 ---

// APIResponse 统一响应（复用 response.Response 的 JSON 结构）
type APIResponse[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}

// APIError 错误响应（复用 response.ErrorResponse 的 JSON 结构）
// Status 从 HTTP 状态码补充，不参与 JSON 解析
type APIError struct {
	Status  int    `json:"-"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// --- 各接口 DTO（与 handler 请求结构对应） ---

// ChatMessageRequest POST /chat/message 请求体
type ChatMessageRequest struct {
	Message string `json:"message"`
	TripID  string `json:"trip_id,omitempty"`
	UserID  string `json:"user_id,omitempty"`
}

// TripRequest 创建/更新行程请求体
type TripRequest struct {
	Destination string          `json:"destination"`
	StartDate   string          `json:"start_date,omitempty"`
	EndDate     string          `json:"end_date,omitempty"`
	Budget      *int            `json:"budget,omitempty"`
	Preferences json.RawMessage `json:"preferences,omitempty"`
	Status      string          `json:"status,omitempty"`
	Itinerary   json.RawMessage `json:"itinerary,omitempty"`
	UserID      string          `json:"user_id,omitempty"`
}

// SearchData POST /knowledge/search 响应 data
type SearchData struct {
	Results []domainKnowledge.SearchResult `json:"results"`
	Count   int                            `json:"count"`
}

// StatsData GET /knowledge/stats 响应 data
type StatsData struct {
	TotalDocuments uint64 `json:"total_documents"`
}

// RootInfo GET / 响应
type RootInfo struct {
	Message string `json:"message"`
	Version string `json:"version"`
}

// do 执行请求并统一处理成功/错误响应的 JSON 解析
// resty 的 SetResult 仅在 2xx 时解析，SetError 在 4xx/5xx 时解析
// 由于两者的 code/message 字段一致，用同类型接收即可
func do[T any](r *resty.Request, result *APIResponse[T]) *resty.Request {
	return r.SetResult(result).SetError(result)
}

// errorOf 从响应中取出解析好的错误体并补上状态码
func errorOf(resp *resty.Response, apiErr *APIError) *APIError {
	apiErr.Status = resp.StatusCode()
	return apiErr
}

// --- 健康检查 ---

// HealthCheck 健康检查
func (c *APIClient) HealthCheck() error {
	resp, err := c.client.R().Get("/health")
	if err != nil {
		return err
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("health check failed: status %d", resp.StatusCode())
	}
	return nil
}

// Root 获取服务信息
func (c *APIClient) Root() (*RootInfo, error) {
	var info RootInfo
	resp, err := c.client.R().SetResult(&info).Get("/")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("root endpoint failed: status %d", resp.StatusCode())
	}
	return &info, nil
}

// --- 对话 ---

// SendMessage 发送对话消息
// 空白消息直接在客户端拒绝，不发起网络请求
func (c *APIClient) SendMessage(message, tripID, userID string) (*appChat.Result, *APIError, error) {
	if strings.TrimSpace(message) == "" {
		return nil, nil, ErrEmptyMessage
	}
	return c.SendMessageRaw(ChatMessageRequest{Message: message, TripID: tripID, UserID: userID})
}

// SendMessageRaw 不经客户端校验直接发送请求体，用于验证服务端校验
func (c *APIClient) SendMessageRaw(req ChatMessageRequest) (*appChat.Result, *APIError, error) {
	var result appChat.Result
	var apiErr APIError
	resp, err := c.client.R().SetBody(req).SetResult(&result).SetError(&apiErr).
		Post("/api/chat/message")
	if err != nil {
		return nil, nil, err
	}
	if resp.IsError() {
		return nil, errorOf(resp, &apiErr), nil
	}
	return &result, nil, nil
}

// --- 行程管理 ---

// CreateTrip 创建行程
func (c *APIClient) CreateTrip(req TripRequest) (*domainTrip.Trip, *APIError, error) {
	var result domainTrip.Trip
	var apiErr APIError
	resp, err := c.client.R().SetBody(req).SetResult(&result).SetError(&apiErr).
		Post("/api/trips")
	if err != nil {
		return nil, nil, err
	}
	if resp.IsError() {
		return nil, errorOf(resp, &apiErr), nil
	}
	return &result, nil, nil
}

// GetTrip 获取行程详情
func (c *APIClient) GetTrip(id string) (*domainTrip.Trip, *APIError, error) {
	var result domainTrip.Trip
	var apiErr APIError
	resp, err := c.client.R().SetResult(&result).SetError(&apiErr).
		Get(fmt.Sprintf("/api/trips/%s", id))
	if err != nil {
		return nil, nil, err
	}
	if resp.IsError() {
		return nil, errorOf(resp, &apiErr), nil
	}
	return &result, nil, nil
}

// ListTrips 获取行程列表
func (c *APIClient) ListTrips(userID string, skip, limit int) ([]domainTrip.Trip, *APIError, error) {
	var result []domainTrip.Trip
	var apiErr APIError
	resp, err := c.client.R().
		SetQueryParam("skip", fmt.Sprintf("%d", skip)).
		SetQueryParam("limit", fmt.Sprintf("%d", limit)).
		SetQueryParam("user_id", userID).
		SetResult(&result).SetError(&apiErr).
		Get("/api/trips")
	if err != nil {
		return nil, nil, err
	}
	if resp.IsError() {
		return nil, errorOf(resp, &apiErr), nil
	}
	return result, nil, nil
}

// UpdateTrip 更新行程
func (c *APIClient) UpdateTrip(id string, req TripRequest) (*domainTrip.Trip, *APIError, error) {
	var result domainTrip.Trip
	var apiErr APIError
	resp, err := c.client.R().SetBody(req).SetResult(&result).SetError(&apiErr).
		Put(fmt.Sprintf("/api/trips/%s", id))
	if err != nil {
		return nil, nil, err
	}
	if resp.IsError() {
		return nil, errorOf(resp, &apiErr), nil
	}
	return &result, nil, nil
}

// --- 知识库 ---

// SearchKnowledge 检索旅行知识
func (c *APIClient) SearchKnowledge(query string, topK int, city string) (*APIResponse[SearchData], error) {
	var result APIResponse[SearchData]
	_, err := do(c.client.R().SetBody(map[string]interface{}{
		"query": query,
		"top_k": topK,
		"city":  city,
	}), &result).
		Post("/api/knowledge/search")
	return &result, err
}

// KnowledgeStats 获取知识库统计
func (c *APIClient) KnowledgeStats() (*APIResponse[StatsData], error) {
	var result APIResponse[StatsData]
	_, err := do(c.client.R(), &result).
		Get("/api/knowledge/stats")
	return &result, err
}
