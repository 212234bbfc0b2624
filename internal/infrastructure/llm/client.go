package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"github.com/voyagent/backend/internal/infrastructure/config"
	"github.com/voyagent/backend/internal/infrastructure/log"
	"github.com/voyagent/backend/internal/infrastructure/metrics"
)

// Client OpenAI 兼容的 Chat Completions 客户端
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	logger     *slog.Logger
}

// Message Chat 消息
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest Chat API 请求
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

// ChatResponse Chat API 响应
type ChatResponse struct {
	ID      string `json:"id,omitempty"`
	Object  string `json:"object,omitempty"`
	Created int64  `json:"created,omitempty"`
	Model   string `json:"model,omitempty"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// NewClient 创建 Chat 客户端
func NewClient(cfg *config.OpenAIConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: log.NewModuleLogger("llm", "client"),
	}
}

// Model 返回配置的模型名
func (c *Client) Model() string {
	return c.model
}

// Complete 发送 Chat Completion 请求，返回首个回复内容
func (c *Client) Complete(messages []Message, temperature float64, maxTokens int) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("messages cannot be empty")
	}

	reqBody := ChatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/chat/completions", c.baseURL)
	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))

	c.logger.Debug("Sending chat completion request",
		"url", url,
		"model", c.model,
		"message_count", len(messages),
		"temperature", temperature,
		"api_key", maskAPIKey(c.apiKey),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.OpenAIRequestsTotal.WithLabelValues("chat", "error").Inc()
		return "", fmt.Errorf("chat API request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		metrics.OpenAIRequestsTotal.WithLabelValues("chat", "error").Inc()
		body, _ := c.readResponseBody(resp)
		return "", fmt.Errorf("chat API returned status %d: %s", resp.StatusCode, body)
	}
	metrics.OpenAIRequestsTotal.WithLabelValues("chat", "success").Inc()

	var chatResp ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode chat response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("chat API returned no choices")
	}

	c.logger.Debug("Chat completion successful",
		"model", c.model,
		"tokens", chatResp.Usage.TotalTokens,
		"finish_reason", chatResp.Choices[0].FinishReason,
	)

	return chatResp.Choices[0].Message.Content, nil
}

// TestConnection 测试 Chat API 连接
func (c *Client) TestConnection() error {
	c.logger.Debug("Testing chat API connection",
		"base_url", c.baseURL,
		"model", c.model,
	)

	_, err := c.Complete([]Message{
		{Role: "user", Content: "Reply with OK."},
	}, 0, 5)
	if err != nil {
		return fmt.Errorf("chat API connection test failed: %w", err)
	}

	c.logger.Info("Chat API connection test successful",
		"model", c.model,
	)

	return nil
}

// readResponseBody 读取响应体
func (c *Client) readResponseBody(resp *http.Response) (string, error) {
	if resp.Body == nil {
		return "", nil
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// maskAPIKey API Key 脱敏
func maskAPIKey(key string) string {
	if len(key) > 8 {
		return key[:4] + "..." + key[len(key)-4:]
	}
	return "***"
}
