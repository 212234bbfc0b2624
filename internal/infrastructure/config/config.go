package config

// Config 应用配置
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Qdrant    QdrantConfig    `yaml:"qdrant"`
	RAG       RAGConfig       `yaml:"rag"`
	Context   ContextConfig   `yaml:"context"`
	Knowledge KnowledgeConfig `yaml:"knowledge"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	// HTTPPort 固定端口，用于单例锁
	HTTPPort string `yaml:"http_port" validate:"required"`
	// CORSOrigins 允许跨域的前端来源
	CORSOrigins []string `yaml:"cors_origins"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	// Path SQLite 文件路径，留空表示使用数据目录下的默认位置
	Path string `yaml:"path"`
}

// OpenAIConfig OpenAI 兼容 API 配置
type OpenAIConfig struct {
	APIKey         string  `yaml:"api_key" validate:"required"`
	BaseURL        string  `yaml:"base_url"`
	Model          string  `yaml:"model" validate:"required"`
	EmbeddingModel string  `yaml:"embedding_model" validate:"required"`
	// EmbeddingDimensions 向量维度，需与采集管线一致
	EmbeddingDimensions int     `yaml:"embedding_dimensions" validate:"min=1"`
	Temperature         float64 `yaml:"temperature" validate:"gte=0,lte=2"`
	MaxTokens           int     `yaml:"max_tokens" validate:"min=1"`
	TimeoutSeconds      int     `yaml:"timeout_seconds" validate:"min=1"`
	MaxRetries          int     `yaml:"max_retries" validate:"min=0"`
}

// QdrantConfig Qdrant 向量数据库配置
type QdrantConfig struct {
	Host       string `yaml:"host" validate:"required"`
	Port       int    `yaml:"port" validate:"min=1"`
	Collection string `yaml:"collection" validate:"required"`
}

// RAGConfig 检索配置
type RAGConfig struct {
	// TopK 过滤后返回的最大文档数
	TopK int `yaml:"top_k" validate:"min=1"`
	// SimilarityThreshold 最低余弦相似度（0.0-1.0）
	SimilarityThreshold float32 `yaml:"similarity_threshold" validate:"gte=0,lte=1"`
}

// ContextConfig 对话上下文窗口配置
type ContextConfig struct {
	// WindowSize 完整保留的最近消息条数
	WindowSize int `yaml:"window_size" validate:"min=1"`
	// SummarizeThreshold 未折叠消息数达到该值时触发摘要
	SummarizeThreshold int `yaml:"summarize_threshold" validate:"min=1"`
}

// KnowledgeConfig 知识库配置
type KnowledgeConfig struct {
	// Dir 知识文档目录，目录下的 *.json 文件会被索引并监听变更
	Dir string `yaml:"dir"`
}

// NewConfig 创建配置（默认值）
func NewConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:    ":8000",
			CORSOrigins: []string{"http://localhost:3000"},
		},
		Database: DatabaseConfig{
			Path: "",
		},
		OpenAI: OpenAIConfig{
			Model:               "gpt-4.1-nano",
			EmbeddingModel:      "text-embedding-3-small",
			EmbeddingDimensions: 1536,
			Temperature:         0.7,
			MaxTokens:           2000,
			TimeoutSeconds:      60,
			MaxRetries:          3,
		},
		Qdrant: QdrantConfig{
			Host:       "localhost",
			Port:       6334,
			Collection: "travel_knowledge",
		},
		RAG: RAGConfig{
			TopK:                10,
			SimilarityThreshold: 0.5,
		},
		Context: ContextConfig{
			WindowSize:         10,
			SummarizeThreshold: 15,
		},
		Knowledge: KnowledgeConfig{
			Dir: "",
		},
	}
}

// NewServerConfig 创建服务器配置
func NewServerConfig(cfg *Config) *ServerConfig {
	return &cfg.Server
}

// NewDatabaseConfig 创建数据库配置
func NewDatabaseConfig(cfg *Config) *DatabaseConfig {
	return &cfg.Database
}

// NewOpenAIConfig 创建 OpenAI 配置
func NewOpenAIConfig(cfg *Config) *OpenAIConfig {
	return &cfg.OpenAI
}

// NewQdrantConfig 创建 Qdrant 配置
func NewQdrantConfig(cfg *Config) *QdrantConfig {
	return &cfg.Qdrant
}

// NewRAGConfig 创建检索配置
func NewRAGConfig(cfg *Config) *RAGConfig {
	return &cfg.RAG
}

// NewContextConfig 创建上下文窗口配置
func NewContextConfig(cfg *Config) *ContextConfig {
	return &cfg.Context
}

// NewKnowledgeConfig 创建知识库配置
func NewKnowledgeConfig(cfg *Config) *KnowledgeConfig {
	return &cfg.Knowledge
}
