// Package metrics 定义 Prometheus 指标，通过 /metrics 暴露
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ChatTurnsTotal 聊天轮次计数，按结果区分
	ChatTurnsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voyagent_chat_turns_total",
		Help: "Total number of chat turns processed, labeled by outcome.",
	}, []string{"status"})

	// SummariesTotal 对话摘要生成计数
	SummariesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voyagent_summaries_total",
		Help: "Total number of conversation summarizations, labeled by outcome.",
	}, []string{"status"})

	// OpenAIRequestsTotal OpenAI 兼容 API 请求计数，按操作和结果区分
	OpenAIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voyagent_openai_requests_total",
		Help: "Total number of OpenAI-compatible API requests, labeled by operation and outcome.",
	}, []string{"op", "status"})

	// RetrievalDocuments 每次检索返回的文档数分布
	RetrievalDocuments = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "voyagent_retrieval_documents",
		Help:    "Number of knowledge documents returned per retrieval.",
		Buckets: prometheus.LinearBuckets(0, 2, 8),
	})

	// PromptTokens 发送给模型的 prompt token 数分布（tiktoken 估算）
	PromptTokens = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "voyagent_prompt_tokens",
		Help:    "Estimated prompt tokens per chat completion request.",
		Buckets: prometheus.ExponentialBuckets(128, 2, 8),
	})
)
