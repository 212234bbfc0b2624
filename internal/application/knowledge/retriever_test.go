package knowledge

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voyagent/backend/internal/domain/knowledge"
	"github.com/voyagent/backend/internal/infrastructure/config"
)

// mockEmbedder 实现 Embedder 用于测试
type mockEmbedder struct {
	vector  []float32
	err     error
	queries []string
	batches [][]string
}

func newMockEmbedder() *mockEmbedder {
	return &mockEmbedder{vector: []float32{0.1, 0.2, 0.3}}
}

func (m *mockEmbedder) EmbedText(text string) ([]float32, error) {
	m.queries = append(m.queries, text)
	if m.err != nil {
		return nil, m.err
	}
	return m.vector, nil
}

func (m *mockEmbedder) EmbedTexts(texts []string) ([][]float32, error) {
	m.batches = append(m.batches, texts)
	if m.err != nil {
		return nil, m.err
	}
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = m.vector
	}
	return vectors, nil
}

// mockVectorStore 实现 VectorStore 用于测试，记录所有调用参数
type mockVectorStore struct {
	hits       []knowledge.SearchResult
	count      uint64
	searchErr  error
	upsertErr  error
	ensureErr  error
	lastLimit  uint64
	lastFilter knowledge.Filter
	upserted   []knowledge.Document
	batches    int
	deleted    []string
	ensured    []uint64
}

func (m *mockVectorStore) EnsureCollection(_ context.Context, vectorSize uint64) error {
	m.ensured = append(m.ensured, vectorSize)
	return m.ensureErr
}

func (m *mockVectorStore) Upsert(_ context.Context, docs []knowledge.Document, vectors [][]float32) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	if len(docs) != len(vectors) {
		return errors.New("docs and vectors length mismatch")
	}
	m.upserted = append(m.upserted, docs...)
	m.batches++
	return nil
}

func (m *mockVectorStore) Search(_ context.Context, _ []float32, limit uint64, filter knowledge.Filter) ([]knowledge.SearchResult, error) {
	m.lastLimit = limit
	m.lastFilter = filter
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if uint64(len(m.hits)) > limit {
		return m.hits[:limit], nil
	}
	return m.hits, nil
}

func (m *mockVectorStore) DeleteBySourceFile(_ context.Context, sourceFile string) error {
	m.deleted = append(m.deleted, sourceFile)
	return nil
}

func (m *mockVectorStore) Count(context.Context) (uint64, error) {
	return m.count, nil
}

func newRetrieverFixture(store *mockVectorStore) (*Retriever, *mockEmbedder) {
	embedder := newMockEmbedder()
	cfg := &config.RAGConfig{TopK: 10, SimilarityThreshold: 0.5}
	return NewRetriever(embedder, store, cfg), embedder
}

func TestRetriever_FiltersSortsAndTruncates(t *testing.T) {
	store := &mockVectorStore{hits: []knowledge.SearchResult{
		{ID: "low", Text: "below threshold", Score: 0.3},
		{ID: "best", Text: "top match", Score: 0.9},
		{ID: "mid", Text: "decent match", Score: 0.6},
		{ID: "good", Text: "good match", Score: 0.7},
	}}
	embedder := newMockEmbedder()
	retriever := NewRetriever(embedder, store, &config.RAGConfig{TopK: 2, SimilarityThreshold: 0.5})

	results, err := retriever.Retrieve(context.Background(), "things to do in Paris", knowledge.Filter{})
	require.NoError(t, err)

	require.Len(t, results, 2, "应截断到 topK 条")
	assert.Equal(t, "best", results[0].ID, "结果应按相似度降序")
	assert.Equal(t, "good", results[1].ID)
	assert.EqualValues(t, 4, store.lastLimit, "应超量拉取 2 倍 topK")
	assert.Equal(t, []string{"things to do in Paris"}, embedder.queries)
}

func TestRetriever_EmptyQuery(t *testing.T) {
	store := &mockVectorStore{}
	retriever, embedder := newRetrieverFixture(store)

	_, err := retriever.Retrieve(context.Background(), "", knowledge.Filter{})

	assert.Error(t, err)
	assert.Empty(t, embedder.queries, "空查询不应触发向量化")
}

func TestRetriever_WithOverrides(t *testing.T) {
	store := &mockVectorStore{hits: []knowledge.SearchResult{
		{ID: "a", Score: 0.95},
		{ID: "b", Score: 0.85},
		{ID: "c", Score: 0.75},
	}}
	retriever, _ := newRetrieverFixture(store)

	results, err := retriever.RetrieveWith(context.Background(), "paris", knowledge.Filter{}, 1, 0.8)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "a", results[0].ID)
	assert.EqualValues(t, 2, store.lastLimit, "覆盖 topK 后拉取量应随之变化")
}

func TestRetriever_InvalidOverridesFallBack(t *testing.T) {
	store := &mockVectorStore{hits: []knowledge.SearchResult{
		{ID: "keep", Score: 0.6},
		{ID: "drop", Score: 0.4},
	}}
	retriever, _ := newRetrieverFixture(store)

	// topK<=0 和 threshold 越界时回落到配置默认值
	results, err := retriever.RetrieveWith(context.Background(), "paris", knowledge.Filter{}, 0, -1)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "keep", results[0].ID)
	assert.EqualValues(t, 20, store.lastLimit, "默认 topK 为 10 时应拉取 20 条")
}

func TestRetriever_ZeroThresholdKeepsAll(t *testing.T) {
	store := &mockVectorStore{hits: []knowledge.SearchResult{
		{ID: "a", Score: 0.9},
		{ID: "b", Score: 0.1},
	}}
	retriever, _ := newRetrieverFixture(store)

	results, err := retriever.RetrieveWith(context.Background(), "paris", knowledge.Filter{}, 5, 0)
	require.NoError(t, err)

	assert.Len(t, results, 2, "显式阈值 0 不应过滤任何结果")
}

func TestRetriever_NoMatchesReturnsEmpty(t *testing.T) {
	store := &mockVectorStore{hits: []knowledge.SearchResult{
		{ID: "a", Score: 0.2},
	}}
	retriever, _ := newRetrieverFixture(store)

	results, err := retriever.Retrieve(context.Background(), "paris", knowledge.Filter{})
	require.NoError(t, err)

	assert.NotNil(t, results, "无达标结果时应返回空列表而非 nil")
	assert.Empty(t, results)
}

func TestRetriever_EmbedError(t *testing.T) {
	store := &mockVectorStore{}
	retriever, embedder := newRetrieverFixture(store)
	embedder.err = errors.New("embedding api down")

	_, err := retriever.Retrieve(context.Background(), "paris", knowledge.Filter{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to embed query")
}

func TestRetriever_SearchError(t *testing.T) {
	store := &mockVectorStore{searchErr: errors.New("qdrant unavailable")}
	retriever, _ := newRetrieverFixture(store)

	_, err := retriever.Retrieve(context.Background(), "paris", knowledge.Filter{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to search knowledge")
}

func TestRetriever_CityFilterReachesStore(t *testing.T) {
	store := &mockVectorStore{}
	retriever, _ := newRetrieverFixture(store)

	_, err := retriever.Retrieve(context.Background(), "best museums", knowledge.Filter{City: "Paris"})
	require.NoError(t, err)

	assert.Equal(t, "Paris", store.lastFilter.City, "城市过滤条件应透传到向量库")
}
