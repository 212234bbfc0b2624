package knowledge

import (
	"github.com/google/wire"
	"github.com/voyagent/backend/internal/infrastructure/embedding"
	"github.com/voyagent/backend/internal/infrastructure/vector"
)

// ProvideEmbedder 绑定 OpenAI 嵌入客户端
func ProvideEmbedder(client *embedding.Client) Embedder {
	return client
}

// ProvideVectorStore 绑定 Qdrant 向量库
func ProvideVectorStore(store *vector.QdrantStore) VectorStore {
	return store
}

// ProviderSet 知识应用层 ProviderSet
var ProviderSet = wire.NewSet(
	ProvideEmbedder,
	ProvideVectorStore,
	NewRetriever,
	NewIndexer,
)
