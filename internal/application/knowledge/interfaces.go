package knowledge

import (
	"context"

	"github.com/voyagent/backend/internal/domain/knowledge"
)

// Embedder 文本向量化接口
// 用于依赖注入和测试 mock
type Embedder interface {
	// EmbedText 向量化单个查询文本
	EmbedText(text string) ([]float32, error)
	// EmbedTexts 批量向量化文本
	EmbedTexts(texts []string) ([][]float32, error)
}

// VectorStore 向量库接口
// 用于依赖注入和测试 mock
type VectorStore interface {
	// EnsureCollection 确保集合存在
	EnsureCollection(ctx context.Context, vectorSize uint64) error
	// Upsert 写入文档向量
	Upsert(ctx context.Context, docs []knowledge.Document, vectors [][]float32) error
	// Search 向量检索，按相似度降序返回
	Search(ctx context.Context, vector []float32, limit uint64, filter knowledge.Filter) ([]knowledge.SearchResult, error)
	// DeleteBySourceFile 删除指定来源文件的所有向量
	DeleteBySourceFile(ctx context.Context, sourceFile string) error
	// Count 统计集合中的文档数
	Count(ctx context.Context) (uint64, error)
}
