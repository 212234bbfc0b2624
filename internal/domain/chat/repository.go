package chat

// Repository 对话仓储接口
type Repository interface {
	// Save 保存对话（创建或更新）
	Save(conv *Conversation) error

	// FindByID 根据 ID 查找对话
	FindByID(id string) (*Conversation, error)

	// FindByTripID 查找行程关联的对话
	FindByTripID(tripID string) (*Conversation, error)

	// FindStandalone 查找用户的独立规划对话（未关联行程）
	FindStandalone(userID string) (*Conversation, error)
}
