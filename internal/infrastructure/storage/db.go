package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/voyagent/backend/internal/infrastructure/config"
	_ "modernc.org/sqlite"
)

// GetDBPath 获取数据库文件路径
// 配置留空时使用数据目录下的默认位置 ~/.voyagent/voyagent.db
func GetDBPath(cfg *config.DatabaseConfig) string {
	if cfg != nil && cfg.Path != "" {
		return cfg.Path
	}
	return filepath.Join(config.GetDataDir(), "voyagent.db")
}

// OpenDB 打开数据库连接
func OpenDB(dbPath string) (*sql.DB, error) {
	// 确保目录存在
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// 启用 WAL 模式，降低读写互斥
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	// 测试连接
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// InitDatabase 初始化表结构
func InitDatabase(db *sql.DB) error {
	createTripsSQL := `
	CREATE TABLE IF NOT EXISTS trips (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		destination TEXT NOT NULL,
		start_date INTEGER,
		end_date INTEGER,
		budget INTEGER,
		status TEXT NOT NULL,
		itinerary TEXT,
		preferences TEXT,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);`

	if _, err := db.Exec(createTripsSQL); err != nil {
		return fmt.Errorf("failed to create trips table: %w", err)
	}

	createTripsIndexSQL := `
	CREATE INDEX IF NOT EXISTS idx_trips_user_id ON trips(user_id);
	CREATE INDEX IF NOT EXISTS idx_trips_status ON trips(status);`

	if _, err := db.Exec(createTripsIndexSQL); err != nil {
		return fmt.Errorf("failed to create trips indexes: %w", err)
	}

	createConversationsSQL := `
	CREATE TABLE IF NOT EXISTS conversations (
		id TEXT PRIMARY KEY,
		trip_id TEXT,
		user_id TEXT NOT NULL,
		messages TEXT NOT NULL,
		context TEXT NOT NULL,
		summary TEXT,
		message_count INTEGER NOT NULL DEFAULT 0,
		last_summarized_index INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);`

	if _, err := db.Exec(createConversationsSQL); err != nil {
		return fmt.Errorf("failed to create conversations table: %w", err)
	}

	createConversationsIndexSQL := `
	CREATE INDEX IF NOT EXISTS idx_conversations_trip_id ON conversations(trip_id);
	CREATE INDEX IF NOT EXISTS idx_conversations_user_id ON conversations(user_id);`

	if _, err := db.Exec(createConversationsIndexSQL); err != nil {
		return fmt.Errorf("failed to create conversations indexes: %w", err)
	}

	return nil
}

// ProvideDB 打开数据库并完成表结构初始化（wire 提供者）
func ProvideDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	db, err := OpenDB(GetDBPath(cfg))
	if err != nil {
		return nil, err
	}

	if err := InitDatabase(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init database: %w", err)
	}

	return db, nil
}
