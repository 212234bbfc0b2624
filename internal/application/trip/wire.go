package trip

import "github.com/google/wire"

// ProviderSet 行程应用层 ProviderSet
var ProviderSet = wire.NewSet(
	NewService,
)
