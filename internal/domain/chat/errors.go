package chat

import "errors"

var (
	// ErrConversationNotFound 对话不存在
	ErrConversationNotFound = errors.New("conversation not found")
	// ErrEmptyMessage 消息内容为空
	ErrEmptyMessage = errors.New("message must not be empty")
)
