package embedding

import "github.com/google/wire"

// ProviderSet Embedding 基础设施 ProviderSet
var ProviderSet = wire.NewSet(
	NewClient,
)
