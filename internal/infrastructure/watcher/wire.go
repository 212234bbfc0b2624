package watcher

import (
	"github.com/google/wire"
	"github.com/voyagent/backend/internal/domain/events"
	"github.com/voyagent/backend/internal/infrastructure/config"
)

// ProvideEventBus 提供事件总线实例
func ProvideEventBus() events.EventBus {
	return NewEventBus()
}

// ProvideFileWatcher 提供文件监听器实例
func ProvideFileWatcher(eventBus events.EventBus, kcfg *config.KnowledgeConfig) (*FileWatcher, error) {
	return NewFileWatcher(NewWatchConfig(kcfg), eventBus)
}

// ProviderSet 监听器基础设施 ProviderSet
var ProviderSet = wire.NewSet(
	ProvideEventBus,
	ProvideFileWatcher,
)
