package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ConfigFileName 数据目录下的配置文件名
const ConfigFileName = "config.yaml"

// Load 加载配置
// 合并顺序：默认值 → 配置文件（如存在）→ 环境变量
// 启动目录下的 .env 文件会先被加载进环境
func Load() (*Config, error) {
	// .env 不存在时静默忽略
	_ = godotenv.Load()

	cfg := NewConfig()

	if err := loadFile(cfg, filepath.Join(GetDataDir(), ConfigFileName)); err != nil {
		return nil, err
	}

	applyEnv(cfg)

	// 留空的路径解析到数据目录下的默认位置
	if cfg.Knowledge.Dir == "" {
		cfg.Knowledge.Dir = filepath.Join(GetDataDir(), "knowledge")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFile 从 YAML 文件加载配置，文件不存在时跳过
func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// applyEnv 应用环境变量覆盖
func applyEnv(cfg *Config) {
	setString(&cfg.Server.HTTPPort, "VOYAGENT_HTTP_PORT")
	setString(&cfg.Database.Path, "VOYAGENT_DB_PATH")
	setString(&cfg.OpenAI.APIKey, "OPENAI_API_KEY")
	setString(&cfg.OpenAI.BaseURL, "OPENAI_BASE_URL")
	setString(&cfg.OpenAI.Model, "OPENAI_MODEL")
	setString(&cfg.OpenAI.EmbeddingModel, "OPENAI_EMBEDDING_MODEL")
	setString(&cfg.Qdrant.Host, "VOYAGENT_QDRANT_HOST")
	setInt(&cfg.Qdrant.Port, "VOYAGENT_QDRANT_PORT")
	setString(&cfg.Qdrant.Collection, "VOYAGENT_QDRANT_COLLECTION")
	setInt(&cfg.RAG.TopK, "VOYAGENT_RAG_TOP_K")
	setFloat32(&cfg.RAG.SimilarityThreshold, "VOYAGENT_RAG_SIMILARITY_THRESHOLD")
	setInt(&cfg.Context.WindowSize, "VOYAGENT_CONTEXT_WINDOW_SIZE")
	setInt(&cfg.Context.SummarizeThreshold, "VOYAGENT_CONTEXT_SUMMARIZE_THRESHOLD")
	setString(&cfg.Knowledge.Dir, "VOYAGENT_KNOWLEDGE_DIR")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat32(dst *float32, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			*dst = float32(f)
		}
	}
}
