package application

import (
	"github.com/google/wire"
	"github.com/voyagent/backend/internal/application/chat"
	"github.com/voyagent/backend/internal/application/knowledge"
	"github.com/voyagent/backend/internal/application/trip"
)

// ProviderSet Application 层总 ProviderSet
var ProviderSet = wire.NewSet(
	chat.ProviderSet,
	trip.ProviderSet,
	knowledge.ProviderSet,
)
