package events

import "time"

// KnowledgeFileEvent 知识文档文件变更事件
// 当知识库目录下的 *.json 文档文件发生变更时触发
type KnowledgeFileEvent struct {
	// EventType 事件类型（created/modified/deleted）
	EventType EventType
	// FilePath 文件完整路径
	FilePath string
	// ModTime 文件最后修改时间
	ModTime time.Time
	// FileSize 文件大小（字节）
	FileSize int64
	// EventTime 事件发生时间
	EventTime time.Time
}

// Type 实现 Event 接口
func (e *KnowledgeFileEvent) Type() EventType {
	return e.EventType
}

// Timestamp 实现 Event 接口
func (e *KnowledgeFileEvent) Timestamp() time.Time {
	return e.EventTime
}
