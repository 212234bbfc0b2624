package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/voyagent/backend/internal/domain/events"
	"github.com/voyagent/backend/internal/domain/knowledge"
	"github.com/voyagent/backend/internal/infrastructure/config"
	"github.com/voyagent/backend/internal/infrastructure/log"
)

// indexBatchSize 每批向量化并写入的文档数
const indexBatchSize = 64

// Indexer 知识文档索引器
// 把 JSON 文档文件向量化后写入向量库；文档 ID 确定性映射到向量点，
// 重复索引同一文件只是覆盖写入，没有副作用
type Indexer struct {
	embedder   Embedder
	store      VectorStore
	vectorSize uint64
	logger     *slog.Logger
}

// NewIndexer 创建索引器
func NewIndexer(embedder Embedder, store VectorStore, openaiCfg *config.OpenAIConfig) *Indexer {
	return &Indexer{
		embedder:   embedder,
		store:      store,
		vectorSize: uint64(openaiCfg.EmbeddingDimensions),
		logger:     log.NewModuleLogger("knowledge", "indexer"),
	}
}

// EnsureReady 确保向量集合存在
// 启动时调用；向量库不可用时返回错误，由调用方决定是否降级运行
func (idx *Indexer) EnsureReady(ctx context.Context) error {
	if err := idx.store.EnsureCollection(ctx, idx.vectorSize); err != nil {
		return fmt.Errorf("failed to ensure knowledge collection: %w", err)
	}
	return nil
}

// Count 统计已索引的文档数
func (idx *Indexer) Count(ctx context.Context) (uint64, error) {
	return idx.store.Count(ctx)
}

// IndexDocuments 向量化并写入一组文档
// 返回成功写入的文档数
func (idx *Indexer) IndexDocuments(ctx context.Context, docs []knowledge.Document) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}

	indexed := 0
	for _, batch := range lo.Chunk(docs, indexBatchSize) {
		texts := lo.Map(batch, func(doc knowledge.Document, _ int) string {
			return doc.Text
		})

		vectors, err := idx.embedder.EmbedTexts(texts)
		if err != nil {
			return indexed, fmt.Errorf("failed to embed documents: %w", err)
		}

		if err := idx.store.Upsert(ctx, batch, vectors); err != nil {
			return indexed, fmt.Errorf("failed to upsert documents: %w", err)
		}

		indexed += len(batch)
	}

	idx.logger.Info("Documents indexed", "count", indexed)
	return indexed, nil
}

// IndexFile 索引单个 JSON 文档文件
// 文件格式：[{"id": "...", "text": "...", "metadata": {"city": "...", "topic": "...", "category": "..."}}]
// 写入的向量带上来源文件标记，文件删除时按标记清理
func (idx *Indexer) IndexFile(ctx context.Context, path string) (int, error) {
	docs, err := LoadDocumentFile(path)
	if err != nil {
		return 0, err
	}
	if len(docs) == 0 {
		idx.logger.Warn("Document file contains no usable documents", "path", path)
		return 0, nil
	}

	for i := range docs {
		docs[i].Metadata.SourceFile = path
	}

	count, err := idx.IndexDocuments(ctx, docs)
	if err != nil {
		return count, fmt.Errorf("failed to index file %s: %w", path, err)
	}

	idx.logger.Info("Knowledge file indexed",
		"path", path,
		"documents", count,
	)
	return count, nil
}

// IndexDir 索引目录下的所有 JSON 文档文件
// 单个文件失败只记录并跳过，不中断整个目录
func (idx *Indexer) IndexDir(ctx context.Context, dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read knowledge directory: %w", err)
	}

	total := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		count, err := idx.IndexFile(ctx, filepath.Join(dir, entry.Name()))
		if err != nil {
			idx.logger.Error("Failed to index knowledge file",
				"file", entry.Name(),
				"error", err,
			)
			continue
		}
		total += count
	}

	return total, nil
}

// RemoveFile 清理来源于指定文件的所有向量
func (idx *Indexer) RemoveFile(ctx context.Context, path string) error {
	if err := idx.store.DeleteBySourceFile(ctx, path); err != nil {
		return fmt.Errorf("failed to remove documents of %s: %w", path, err)
	}

	idx.logger.Info("Knowledge file removed from index", "path", path)
	return nil
}

// HandleFileEvent 处理知识目录的文件变更事件
// 由事件总线订阅调用：新增和修改触发重索引，删除触发向量清理
func (idx *Indexer) HandleFileEvent(event *events.KnowledgeFileEvent) error {
	ctx := context.Background()

	switch event.EventType {
	case events.KnowledgeFileCreated, events.KnowledgeFileModified:
		_, err := idx.IndexFile(ctx, event.FilePath)
		return err
	case events.KnowledgeFileDeleted:
		return idx.RemoveFile(ctx, event.FilePath)
	default:
		return nil
	}
}

// documentFile JSON 文档文件的条目结构
type documentFile struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Metadata struct {
		City     string `json:"city"`
		Topic    string `json:"topic"`
		Category string `json:"category"`
	} `json:"metadata"`
}

// LoadDocumentFile 解析 JSON 文档文件
// 缺失 ID 的条目按 "文件名_序号" 补齐；空文本条目被丢弃
func LoadDocumentFile(path string) ([]knowledge.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document file: %w", err)
	}

	var entries []documentFile
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse document file %s: %w", path, err)
	}

	base := strings.TrimSuffix(filepath.Base(path), ".json")

	docs := make([]knowledge.Document, 0, len(entries))
	for i, entry := range entries {
		text := strings.TrimSpace(entry.Text)
		if text == "" {
			continue
		}

		id := entry.ID
		if id == "" {
			id = fmt.Sprintf("%s_%d", base, i)
		}

		docs = append(docs, knowledge.Document{
			ID:   id,
			Text: text,
			Metadata: knowledge.DocumentMetadata{
				City:     entry.Metadata.City,
				Topic:    entry.Metadata.Topic,
				Category: entry.Metadata.Category,
			},
		})
	}

	return docs, nil
}
