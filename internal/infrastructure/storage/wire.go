package storage

import "github.com/google/wire"

// ProviderSet Storage 基础设施层 ProviderSet
var ProviderSet = wire.NewSet(
	ProvideDB,                 // 提供数据库连接
	NewTripRepository,         // 行程仓储
	NewConversationRepository, // 对话仓储
)
