package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDataDir 隔离测试数据目录
func setupTestDataDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv(EnvDataDir, dir)
	ResetDataDir()
	t.Cleanup(ResetDataDir)

	return dir
}

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, ":8000", cfg.Server.HTTPPort, "默认 HTTP 端口应为 :8000")
	assert.Equal(t, "gpt-4.1-nano", cfg.OpenAI.Model, "默认对话模型不匹配")
	assert.Equal(t, "text-embedding-3-small", cfg.OpenAI.EmbeddingModel, "默认向量模型不匹配")
	assert.Equal(t, 1536, cfg.OpenAI.EmbeddingDimensions, "默认向量维度应为 1536")
	assert.Equal(t, "travel_knowledge", cfg.Qdrant.Collection, "默认集合名不匹配")
	assert.Equal(t, 10, cfg.RAG.TopK, "默认 TopK 应为 10")
	assert.InDelta(t, 0.5, cfg.RAG.SimilarityThreshold, 0.001, "默认相似度阈值应为 0.5")
	assert.Equal(t, 10, cfg.Context.WindowSize, "默认窗口大小应为 10")
	assert.Equal(t, 15, cfg.Context.SummarizeThreshold, "默认摘要阈值应为 15")
}

func TestLoadRequiresAPIKey(t *testing.T) {
	setupTestDataDir(t)
	t.Setenv("OPENAI_API_KEY", "")

	_, err := Load()
	assert.Error(t, err, "缺少 API Key 时应返回错误")
}

func TestLoadEnvOverrides(t *testing.T) {
	setupTestDataDir(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("VOYAGENT_HTTP_PORT", ":18000")
	t.Setenv("VOYAGENT_QDRANT_HOST", "qdrant.internal")
	t.Setenv("VOYAGENT_QDRANT_PORT", "7334")
	t.Setenv("VOYAGENT_RAG_SIMILARITY_THRESHOLD", "0.4")
	t.Setenv("VOYAGENT_CONTEXT_WINDOW_SIZE", "6")

	cfg, err := Load()
	require.NoError(t, err, "加载配置不应失败")

	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
	assert.Equal(t, ":18000", cfg.Server.HTTPPort, "环境变量应覆盖默认端口")
	assert.Equal(t, "qdrant.internal", cfg.Qdrant.Host)
	assert.Equal(t, 7334, cfg.Qdrant.Port)
	assert.InDelta(t, 0.4, cfg.RAG.SimilarityThreshold, 0.001)
	assert.Equal(t, 6, cfg.Context.WindowSize)
}

func TestLoadConfigFile(t *testing.T) {
	dir := setupTestDataDir(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("VOYAGENT_HTTP_PORT", "")

	content := []byte(`
server:
  http_port: ":9000"
rag:
  top_k: 5
context:
  summarize_threshold: 20
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), content, 0644))

	cfg, err := Load()
	require.NoError(t, err, "加载配置文件不应失败")

	assert.Equal(t, ":9000", cfg.Server.HTTPPort, "配置文件应覆盖默认端口")
	assert.Equal(t, 5, cfg.RAG.TopK, "配置文件应覆盖 TopK")
	assert.Equal(t, 20, cfg.Context.SummarizeThreshold)
	// 未出现在文件中的字段保留默认值
	assert.Equal(t, 10, cfg.Context.WindowSize, "未配置的字段应保留默认值")
}

func TestLoadEnvBeatsFile(t *testing.T) {
	dir := setupTestDataDir(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("VOYAGENT_HTTP_PORT", ":18001")

	content := []byte("server:\n  http_port: \":9000\"\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), content, 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":18001", cfg.Server.HTTPPort, "环境变量优先级应高于配置文件")
}

func TestLoadKnowledgeDirDefault(t *testing.T) {
	dir := setupTestDataDir(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("VOYAGENT_KNOWLEDGE_DIR", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "knowledge"), cfg.Knowledge.Dir, "知识库目录应默认在数据目录下")
}
