package knowledge

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/samber/lo"
	"github.com/voyagent/backend/internal/domain/knowledge"
	"github.com/voyagent/backend/internal/infrastructure/config"
	"github.com/voyagent/backend/internal/infrastructure/log"
	"github.com/voyagent/backend/internal/infrastructure/metrics"
)

// Retriever 旅行知识检索器
// 检索流程：查询向量化 → 超量拉取 2×K → 相似度阈值过滤 → 截断到 K
// 超量拉取为阈值过滤留出余量，避免刚好卡在 K 条时漏掉达标文档
type Retriever struct {
	embedder  Embedder
	store     VectorStore
	topK      int
	threshold float32
	logger    *slog.Logger
}

// NewRetriever 创建知识检索器
func NewRetriever(embedder Embedder, store VectorStore, cfg *config.RAGConfig) *Retriever {
	return &Retriever{
		embedder:  embedder,
		store:     store,
		topK:      cfg.TopK,
		threshold: cfg.SimilarityThreshold,
		logger:    log.NewModuleLogger("knowledge", "retriever"),
	}
}

// Retrieve 检索与查询相关的知识文档
// 返回按相似度降序、分数不低于阈值、最多 topK 条的结果；
// 没有文档达标时返回空列表，由调用方决定如何降级
func (r *Retriever) Retrieve(ctx context.Context, query string, filter knowledge.Filter) ([]knowledge.SearchResult, error) {
	return r.RetrieveWith(ctx, query, filter, r.topK, r.threshold)
}

// RetrieveWith 以指定的 K 和阈值检索
// 搜索接口和 MCP 工具允许每次请求覆盖默认参数
func (r *Retriever) RetrieveWith(ctx context.Context, query string, filter knowledge.Filter, topK int, threshold float32) ([]knowledge.SearchResult, error) {
	if query == "" {
		return nil, fmt.Errorf("query cannot be empty")
	}
	if topK <= 0 {
		topK = r.topK
	}
	if threshold < 0 || threshold > 1 {
		threshold = r.threshold
	}

	vector, err := r.embedder.EmbedText(query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	// 超量拉取：过滤可能淘汰部分结果
	fetchLimit := uint64(topK * 2)
	hits, err := r.store.Search(ctx, vector, fetchLimit, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search knowledge: %w", err)
	}

	results := lo.Filter(hits, func(hit knowledge.SearchResult, _ int) bool {
		return hit.Score >= threshold
	})

	// Qdrant 本身按分数降序返回，这里兜底保证排序不依赖存储实现
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > topK {
		results = results[:topK]
	}

	metrics.RetrievalDocuments.Observe(float64(len(results)))

	if len(results) == 0 {
		r.logger.Debug("No documents above threshold",
			"query", query,
			"threshold", threshold,
		)
		return []knowledge.SearchResult{}, nil
	}

	r.logger.Debug("Knowledge retrieved",
		"query", query,
		"hits", len(hits),
		"returned", len(results),
		"top_score", results[0].Score,
	)

	return results, nil
}
