package chat

import "time"

// Role 消息角色
type Role string

const (
	// RoleUser 用户消息
	RoleUser Role = "user"
	// RoleAssistant 助手消息
	RoleAssistant Role = "assistant"
	// RoleSystem 系统提示词
	RoleSystem Role = "system"
)

// Message 对话消息
// 消息一旦创建不可变，按到达顺序追加到对话日志
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage 创建消息
func NewMessage(role Role, content string) Message {
	return Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// Conversation 对话实体
// 持有按序追加的消息日志、滚动摘要和提取的上下文事实
type Conversation struct {
	ID                  string           `json:"id"`                // 唯一标识
	TripID              string           `json:"trip_id,omitempty"` // 关联行程（可为空，表示独立规划对话）
	UserID              string           `json:"user_id"`           // 所属用户
	Messages            []Message        `json:"messages"`          // 消息日志（只追加）
	Context             ExtractedContext `json:"context"`           // 提取的上下文事实
	Summary             string           `json:"summary,omitempty"` // 滚动摘要（覆盖已折叠的前缀消息）
	MessageCount        int              `json:"message_count"`
	LastSummarizedIndex int              `json:"last_summarized_index"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

// Append 追加一条消息并更新计数
func (c *Conversation) Append(role Role, content string) {
	c.Messages = append(c.Messages, NewMessage(role, content))
	c.MessageCount = len(c.Messages)
}

// UnsummarizedCount 返回尚未折叠进摘要的消息数
func (c *Conversation) UnsummarizedCount() int {
	return c.MessageCount - c.LastSummarizedIndex
}

// UserMessages 返回所有用户消息的内容
func (c *Conversation) UserMessages() []string {
	var texts []string
	for _, m := range c.Messages {
		if m.Role == RoleUser {
			texts = append(texts, m.Content)
		}
	}
	return texts
}
