package infrastructure

import (
	"github.com/google/wire"
	"github.com/voyagent/backend/internal/infrastructure/config"
	"github.com/voyagent/backend/internal/infrastructure/embedding"
	"github.com/voyagent/backend/internal/infrastructure/llm"
	"github.com/voyagent/backend/internal/infrastructure/storage"
	"github.com/voyagent/backend/internal/infrastructure/vector"
	"github.com/voyagent/backend/internal/infrastructure/watcher"
)

// ProviderSet Infrastructure 层总 ProviderSet
var ProviderSet = wire.NewSet(
	config.ProviderSet,
	storage.ProviderSet,
	llm.ProviderSet,
	embedding.ProviderSet,
	vector.ProviderSet,
	watcher.ProviderSet,
)
