package vector

import "github.com/google/wire"

// ProviderSet 向量库基础设施 ProviderSet
var ProviderSet = wire.NewSet(
	NewQdrantStore,
)
