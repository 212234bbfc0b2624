package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/voyagent/backend/internal/domain/chat"
)

// conversationRepository 对话 SQLite 仓储实现
// 消息日志和提取的上下文以 JSON 形式存储在单行内，
// 与"每轮对话同步读改写整个对话"的访问模式匹配
type conversationRepository struct {
	db *sql.DB
}

// NewConversationRepository 创建对话仓储实例
func NewConversationRepository(db *sql.DB) chat.Repository {
	return &conversationRepository{db: db}
}

// Save 保存对话
func (r *conversationRepository) Save(conv *chat.Conversation) error {
	if conv.ID == "" {
		conv.ID = uuid.New().String()
	}

	now := time.Now()
	if conv.CreatedAt.IsZero() {
		conv.CreatedAt = now
	}
	conv.UpdatedAt = now

	messages, err := json.Marshal(conv.Messages)
	if err != nil {
		return fmt.Errorf("failed to marshal messages: %w", err)
	}
	context, err := json.Marshal(conv.Context)
	if err != nil {
		return fmt.Errorf("failed to marshal context: %w", err)
	}

	var tripID, summary sql.NullString
	if conv.TripID != "" {
		tripID = sql.NullString{String: conv.TripID, Valid: true}
	}
	if conv.Summary != "" {
		summary = sql.NullString{String: conv.Summary, Valid: true}
	}

	query := `
		INSERT OR REPLACE INTO conversations
		(id, trip_id, user_id, messages, context, summary, message_count, last_summarized_index, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.Exec(query,
		conv.ID,
		tripID,
		conv.UserID,
		string(messages),
		string(context),
		summary,
		conv.MessageCount,
		conv.LastSummarizedIndex,
		conv.CreatedAt.UnixMilli(),
		conv.UpdatedAt.UnixMilli(),
	)

	if err != nil {
		return fmt.Errorf("failed to save conversation: %w", err)
	}

	return nil
}

// FindByID 根据 ID 查找对话，不存在时返回 (nil, nil)
func (r *conversationRepository) FindByID(id string) (*chat.Conversation, error) {
	query := selectConversationSQL + ` WHERE id = ?`
	return r.queryOne(query, id)
}

// FindByTripID 查找行程关联的对话
func (r *conversationRepository) FindByTripID(tripID string) (*chat.Conversation, error) {
	query := selectConversationSQL + ` WHERE trip_id = ? ORDER BY created_at ASC LIMIT 1`
	return r.queryOne(query, tripID)
}

// FindStandalone 查找用户的独立规划对话
func (r *conversationRepository) FindStandalone(userID string) (*chat.Conversation, error) {
	query := selectConversationSQL + ` WHERE trip_id IS NULL AND user_id = ? ORDER BY created_at ASC LIMIT 1`
	return r.queryOne(query, userID)
}

const selectConversationSQL = `
	SELECT id, trip_id, user_id, messages, context, summary, message_count, last_summarized_index, created_at, updated_at
	FROM conversations`

// queryOne 执行单行查询并扫描对话实体
func (r *conversationRepository) queryOne(query string, args ...interface{}) (*chat.Conversation, error) {
	var conv chat.Conversation
	var tripID, summary sql.NullString
	var messages, context string
	var createdAt, updatedAt int64

	err := r.db.QueryRow(query, args...).Scan(
		&conv.ID,
		&tripID,
		&conv.UserID,
		&messages,
		&context,
		&summary,
		&conv.MessageCount,
		&conv.LastSummarizedIndex,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query conversation: %w", err)
	}

	if tripID.Valid {
		conv.TripID = tripID.String
	}
	if summary.Valid {
		conv.Summary = summary.String
	}
	if err := json.Unmarshal([]byte(messages), &conv.Messages); err != nil {
		return nil, fmt.Errorf("failed to unmarshal messages: %w", err)
	}
	if err := json.Unmarshal([]byte(context), &conv.Context); err != nil {
		return nil, fmt.Errorf("failed to unmarshal context: %w", err)
	}
	conv.CreatedAt = time.UnixMilli(createdAt)
	conv.UpdatedAt = time.UnixMilli(updatedAt)

	return &conv, nil
}

// 编译时检查接口实现
var _ chat.Repository = (*conversationRepository)(nil)
