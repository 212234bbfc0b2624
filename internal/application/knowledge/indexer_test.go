package knowledge

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voyagent/backend/internal/domain/events"
	"github.com/voyagent/backend/internal/domain/knowledge"
	"github.com/voyagent/backend/internal/infrastructure/config"
)

func newIndexerFixture(store *mockVectorStore) (*Indexer, *mockEmbedder) {
	embedder := newMockEmbedder()
	cfg := &config.OpenAIConfig{EmbeddingDimensions: 3}
	return NewIndexer(embedder, store, cfg), embedder
}

// writeDocumentFile 写入测试用的 JSON 文档文件
func writeDocumentFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestIndexer_EnsureReady(t *testing.T) {
	store := &mockVectorStore{}
	indexer, _ := newIndexerFixture(store)

	require.NoError(t, indexer.EnsureReady(context.Background()))
	assert.Equal(t, []uint64{3}, store.ensured, "应使用配置的向量维度创建集合")
}

func TestIndexer_EnsureReady_StoreDown(t *testing.T) {
	store := &mockVectorStore{ensureErr: errors.New("connection refused")}
	indexer, _ := newIndexerFixture(store)

	err := indexer.EnsureReady(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to ensure knowledge collection")
}

func TestIndexer_IndexDocuments(t *testing.T) {
	store := &mockVectorStore{}
	indexer, embedder := newIndexerFixture(store)

	docs := []knowledge.Document{
		{ID: "paris_overview", Text: "Paris is the capital of France."},
		{ID: "paris_museums", Text: "The Louvre is the world's largest art museum."},
		{ID: "paris_food", Text: "Paris has excellent bistros."},
	}

	count, err := indexer.IndexDocuments(context.Background(), docs)
	require.NoError(t, err)

	assert.Equal(t, 3, count)
	assert.Equal(t, 1, store.batches, "少量文档应在单批内完成")
	require.Len(t, embedder.batches, 1)
	assert.Equal(t, "Paris is the capital of France.", embedder.batches[0][0], "应按文档文本向量化")
	require.Len(t, store.upserted, 3)
	assert.Equal(t, "paris_overview", store.upserted[0].ID)
}

func TestIndexer_IndexDocuments_Empty(t *testing.T) {
	store := &mockVectorStore{}
	indexer, embedder := newIndexerFixture(store)

	count, err := indexer.IndexDocuments(context.Background(), nil)
	require.NoError(t, err)

	assert.Zero(t, count)
	assert.Empty(t, embedder.batches, "空文档列表不应触发向量化")
}

func TestIndexer_IndexDocuments_SplitsBatches(t *testing.T) {
	store := &mockVectorStore{}
	indexer, embedder := newIndexerFixture(store)

	docs := make([]knowledge.Document, indexBatchSize+1)
	for i := range docs {
		docs[i] = knowledge.Document{
			ID:   fmt.Sprintf("doc_%d", i),
			Text: fmt.Sprintf("document %d", i),
		}
	}

	count, err := indexer.IndexDocuments(context.Background(), docs)
	require.NoError(t, err)

	assert.Equal(t, indexBatchSize+1, count)
	assert.Equal(t, 2, store.batches, "超过批大小应拆成两批")
	require.Len(t, embedder.batches, 2)
	assert.Len(t, embedder.batches[0], indexBatchSize)
	assert.Len(t, embedder.batches[1], 1)
}

func TestIndexer_IndexDocuments_EmbedFailure(t *testing.T) {
	store := &mockVectorStore{}
	indexer, embedder := newIndexerFixture(store)
	embedder.err = errors.New("embedding api down")

	count, err := indexer.IndexDocuments(context.Background(), []knowledge.Document{
		{ID: "a", Text: "a"},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to embed documents")
	assert.Zero(t, count)
	assert.Empty(t, store.upserted, "向量化失败不应写入")
}

func TestLoadDocumentFile(t *testing.T) {
	dir := t.TempDir()
	path := writeDocumentFile(t, dir, "paris.json", `[
		{"id": "paris_overview", "text": "Paris is the capital of France.", "metadata": {"city": "Paris", "topic": "overview", "category": "general"}},
		{"id": "blank", "text": "   "},
		{"text": "The Louvre is the world's largest art museum.", "metadata": {"city": "Paris", "topic": "museums", "category": "attractions"}}
	]`)

	docs, err := LoadDocumentFile(path)
	require.NoError(t, err)

	require.Len(t, docs, 2, "空白文本的条目应被丢弃")
	assert.Equal(t, "paris_overview", docs[0].ID)
	assert.Equal(t, "Paris", docs[0].Metadata.City)
	assert.Equal(t, "overview", docs[0].Metadata.Topic)
	assert.Equal(t, "paris_2", docs[1].ID, "缺失 ID 应按文件名和序号补齐")
	assert.Equal(t, "The Louvre is the world's largest art museum.", docs[1].Text)
}

func TestLoadDocumentFile_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeDocumentFile(t, dir, "broken.json", `{"not": "a list"}`)

	_, err := LoadDocumentFile(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse document file")
}

func TestLoadDocumentFile_Missing(t *testing.T) {
	_, err := LoadDocumentFile(filepath.Join(t.TempDir(), "nope.json"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read document file")
}

func TestIndexer_IndexFile(t *testing.T) {
	store := &mockVectorStore{}
	indexer, _ := newIndexerFixture(store)

	dir := t.TempDir()
	path := writeDocumentFile(t, dir, "tokyo.json", `[
		{"id": "tokyo_overview", "text": "Tokyo is the capital of Japan.", "metadata": {"city": "Tokyo", "topic": "overview", "category": "general"}}
	]`)

	count, err := indexer.IndexFile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 1, count)
	require.Len(t, store.upserted, 1)
	assert.Equal(t, path, store.upserted[0].Metadata.SourceFile, "写入的向量应带来源文件标记")
}

func TestIndexer_IndexFile_EmptyFile(t *testing.T) {
	store := &mockVectorStore{}
	indexer, _ := newIndexerFixture(store)

	dir := t.TempDir()
	path := writeDocumentFile(t, dir, "empty.json", `[]`)

	count, err := indexer.IndexFile(context.Background(), path)
	require.NoError(t, err)

	assert.Zero(t, count)
	assert.Empty(t, store.upserted)
}

func TestIndexer_IndexDir(t *testing.T) {
	store := &mockVectorStore{}
	indexer, _ := newIndexerFixture(store)

	dir := t.TempDir()
	writeDocumentFile(t, dir, "paris.json", `[
		{"id": "paris_1", "text": "Paris doc one."},
		{"id": "paris_2", "text": "Paris doc two."}
	]`)
	writeDocumentFile(t, dir, "broken.json", `not json at all`)
	writeDocumentFile(t, dir, "notes.txt", `plain text, not indexed`)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0755))

	count, err := indexer.IndexDir(context.Background(), dir)
	require.NoError(t, err, "单个文件解析失败不应中断目录索引")

	assert.Equal(t, 2, count, "只统计成功索引的文档")
	assert.Len(t, store.upserted, 2)
}

func TestIndexer_IndexDir_Missing(t *testing.T) {
	store := &mockVectorStore{}
	indexer, _ := newIndexerFixture(store)

	_, err := indexer.IndexDir(context.Background(), filepath.Join(t.TempDir(), "missing"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read knowledge directory")
}

func TestIndexer_RemoveFile(t *testing.T) {
	store := &mockVectorStore{}
	indexer, _ := newIndexerFixture(store)

	require.NoError(t, indexer.RemoveFile(context.Background(), "/data/knowledge/paris.json"))
	assert.Equal(t, []string{"/data/knowledge/paris.json"}, store.deleted)
}

func TestIndexer_HandleFileEvent(t *testing.T) {
	store := &mockVectorStore{}
	indexer, _ := newIndexerFixture(store)

	dir := t.TempDir()
	path := writeDocumentFile(t, dir, "rome.json", `[
		{"id": "rome_overview", "text": "Rome is the capital of Italy."}
	]`)

	t.Run("文件新增触发索引", func(t *testing.T) {
		err := indexer.HandleFileEvent(&events.KnowledgeFileEvent{
			EventType: events.KnowledgeFileCreated,
			FilePath:  path,
		})
		require.NoError(t, err)
		assert.Len(t, store.upserted, 1)
	})

	t.Run("文件修改触发重索引", func(t *testing.T) {
		err := indexer.HandleFileEvent(&events.KnowledgeFileEvent{
			EventType: events.KnowledgeFileModified,
			FilePath:  path,
		})
		require.NoError(t, err)
		assert.Len(t, store.upserted, 2, "修改事件应再次写入")
	})

	t.Run("文件删除触发向量清理", func(t *testing.T) {
		err := indexer.HandleFileEvent(&events.KnowledgeFileEvent{
			EventType: events.KnowledgeFileDeleted,
			FilePath:  path,
		})
		require.NoError(t, err)
		assert.Equal(t, []string{path}, store.deleted)
	})
}

func TestIndexer_Count(t *testing.T) {
	store := &mockVectorStore{count: 10}
	indexer, _ := newIndexerFixture(store)

	count, err := indexer.Count(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 10, count)
}
