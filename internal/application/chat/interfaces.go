package chat

import (
	"context"

	"github.com/voyagent/backend/internal/domain/knowledge"
	"github.com/voyagent/backend/internal/infrastructure/llm"
)

// Completer LLM 补全接口
// 用于依赖注入和测试 mock
type Completer interface {
	// Complete 发送消息序列并返回补全文本
	Complete(messages []llm.Message, temperature float64, maxTokens int) (string, error)
}

// Retriever 知识检索接口
// 用于依赖注入和测试 mock
type Retriever interface {
	// Retrieve 检索与查询相关的知识文档，按相似度降序
	Retrieve(ctx context.Context, query string, filter knowledge.Filter) ([]knowledge.SearchResult, error)
}
