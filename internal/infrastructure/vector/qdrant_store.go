package vector

import (
	"context"
	"fmt"

	"log/slog"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"github.com/voyagent/backend/internal/domain/knowledge"
	"github.com/voyagent/backend/internal/infrastructure/config"
	"github.com/voyagent/backend/internal/infrastructure/log"
)

// QdrantStore 旅行知识向量库
// 连接外部 Qdrant 服务（gRPC），负责集合管理与向量读写
type QdrantStore struct {
	client     *qdrant.Client
	collection string
	logger     *slog.Logger
}

// NewQdrantStore 创建向量库客户端
func NewQdrantStore(cfg *config.QdrantConfig) (*QdrantStore, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host: cfg.Host,
		Port: cfg.Port,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to qdrant: %w", err)
	}

	return &QdrantStore{
		client:     client,
		collection: cfg.Collection,
		logger:     log.NewModuleLogger("vector", "qdrant_store"),
	}, nil
}

// Collection 返回集合名
func (s *QdrantStore) Collection() string {
	return s.collection
}

// Close 关闭连接
func (s *QdrantStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// TestConnection 测试 Qdrant 连接
func (s *QdrantStore) TestConnection(ctx context.Context) error {
	_, err := s.client.ListCollections(ctx)
	if err != nil {
		return fmt.Errorf("qdrant connection test failed: %w", err)
	}
	return nil
}

// EnsureCollection 确保集合存在（余弦距离）
func (s *QdrantStore) EnsureCollection(ctx context.Context, vectorSize uint64) error {
	existingCollections, err := s.client.ListCollections(ctx)
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}

	for _, name := range existingCollections {
		if name == s.collection {
			return nil
		}
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection %s: %w", s.collection, err)
	}

	s.logger.Info("Created qdrant collection",
		"collection", s.collection,
		"vector_size", vectorSize,
	)

	return nil
}

// Upsert 写入文档向量
func (s *QdrantStore) Upsert(ctx context.Context, docs []knowledge.Document, vectors [][]float32) error {
	if len(docs) != len(vectors) {
		return fmt.Errorf("documents and vectors length mismatch: %d != %d", len(docs), len(vectors))
	}
	if len(docs) == 0 {
		return nil
	}

	points := buildPoints(docs, vectors)

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert points: %w", err)
	}

	s.logger.Debug("Upserted documents",
		"collection", s.collection,
		"count", len(docs),
	)

	return nil
}

// Search 向量检索，按相似度降序返回
func (s *QdrantStore) Search(ctx context.Context, vector []float32, limit uint64, filter knowledge.Filter) ([]knowledge.SearchResult, error) {
	if len(vector) == 0 {
		return nil, fmt.Errorf("query vector cannot be empty")
	}

	searchResp, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          &limit,
		Filter:         buildCityFilter(filter),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query qdrant: %w", err)
	}

	results := make([]knowledge.SearchResult, 0, len(searchResp))
	for _, hit := range searchResp {
		if result := hitToResult(hit); result != nil {
			results = append(results, *result)
		}
	}

	return results, nil
}

// DeleteBySourceFile 删除指定来源文件的所有向量
func (s *QdrantStore) DeleteBySourceFile(ctx context.Context, sourceFile string) error {
	_, err := s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: s.collection,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: &qdrant.Filter{
					Must: []*qdrant.Condition{
						qdrant.NewMatch("source_file", sourceFile),
					},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete points by source file: %w", err)
	}

	s.logger.Debug("Deleted documents by source file",
		"collection", s.collection,
		"source_file", sourceFile,
	)

	return nil
}

// Count 统计集合中的文档数
func (s *QdrantStore) Count(ctx context.Context) (uint64, error) {
	count, err := s.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: s.collection,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count points: %w", err)
	}
	return count, nil
}

// buildPoints 构建 Qdrant 点
func buildPoints(docs []knowledge.Document, vectors [][]float32) []*qdrant.PointStruct {
	points := make([]*qdrant.PointStruct, len(docs))
	for i, doc := range docs {
		// 将 []float32 转换为可变参数
		vectorArgs := make([]float32, len(vectors[i]))
		copy(vectorArgs, vectors[i])

		payload := map[string]interface{}{
			"doc_id":   doc.ID,
			"text":     doc.Text,
			"city":     doc.Metadata.City,
			"topic":    doc.Metadata.Topic,
			"category": doc.Metadata.Category,
		}
		if doc.Metadata.SourceFile != "" {
			payload["source_file"] = doc.Metadata.SourceFile
		}

		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(pointID(doc.ID)),
			Vectors: qdrant.NewVectors(vectorArgs...),
			Payload: qdrant.NewValueMap(payload),
		}
	}
	return points
}

// pointID 将文档 ID 映射为确定性 UUID
// Qdrant 点 ID 只接受 UUID 或无符号整数，相同文档 ID 总是得到相同的点，重复写入即覆盖
func pointID(docID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(docID)).String()
}

// buildCityFilter 构建城市过滤条件
func buildCityFilter(filter knowledge.Filter) *qdrant.Filter {
	if filter.IsEmpty() {
		return nil // 不过滤
	}

	return &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("city", filter.City),
		},
	}
}

// hitToResult 将 Qdrant 命中转换为检索结果
func hitToResult(hit *qdrant.ScoredPoint) *knowledge.SearchResult {
	payload := hit.GetPayload()
	if payload == nil {
		return nil
	}

	result := &knowledge.SearchResult{
		Score: hit.GetScore(),
	}

	if val, ok := payload["doc_id"]; ok {
		result.ID = extractStringValue(val)
	}
	if val, ok := payload["text"]; ok {
		result.Text = extractStringValue(val)
	}
	if val, ok := payload["city"]; ok {
		result.Metadata.City = extractStringValue(val)
	}
	if val, ok := payload["topic"]; ok {
		result.Metadata.Topic = extractStringValue(val)
	}
	if val, ok := payload["category"]; ok {
		result.Metadata.Category = extractStringValue(val)
	}
	if val, ok := payload["source_file"]; ok {
		result.Metadata.SourceFile = extractStringValue(val)
	}

	return result
}

// extractStringValue 从 qdrant.Value 提取字符串值
func extractStringValue(val *qdrant.Value) string {
	if val == nil {
		return ""
	}
	return val.GetStringValue()
}
