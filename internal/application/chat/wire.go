package chat

import (
	"github.com/google/wire"
	appKnowledge "github.com/voyagent/backend/internal/application/knowledge"
	"github.com/voyagent/backend/internal/infrastructure/llm"
)

// ProvideCompleter 绑定 OpenAI Chat 客户端
func ProvideCompleter(client *llm.Client) Completer {
	return client
}

// ProvideRetriever 绑定知识检索器
func ProvideRetriever(retriever *appKnowledge.Retriever) Retriever {
	return retriever
}

// ProviderSet 对话应用层 ProviderSet
var ProviderSet = wire.NewSet(
	ProvideCompleter,
	ProvideRetriever,
	NewService,
	NewWindowManager,
	NewExtractor,
	NewEnhancer,
	NewPromptBuilder,
)
