package watcher

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/voyagent/backend/internal/infrastructure/config"
)

// ScanMetadata 知识库扫描元数据
// 记录上次全量扫描时间，决定启动时是否重新索引整个知识目录
type ScanMetadata struct {
	mu           sync.RWMutex
	lastScanTime time.Time
	filePath     string
}

// scanMetadataData 元数据文件结构
type scanMetadataData struct {
	LastScanTime time.Time `json:"last_scan_time"`
}

// NewScanMetadata 创建扫描元数据管理器
// 元数据持久化在数据目录下的 knowledge_scan.json
func NewScanMetadata() *ScanMetadata {
	sm := &ScanMetadata{
		filePath: filepath.Join(config.GetDataDir(), "knowledge_scan.json"),
	}
	sm.load()
	return sm
}

// GetLastScanTime 获取上次扫描时间
// 从未扫描过时返回零值
func (sm *ScanMetadata) GetLastScanTime() time.Time {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.lastScanTime
}

// SetLastScanTime 设置上次扫描时间并持久化
func (sm *ScanMetadata) SetLastScanTime(t time.Time) {
	sm.mu.Lock()
	sm.lastScanTime = t
	sm.mu.Unlock()

	sm.save()
}

// load 从文件加载元数据
// 文件不存在或损坏时保持零值，下次启动会触发全量扫描
func (sm *ScanMetadata) load() {
	data, err := os.ReadFile(sm.filePath)
	if err != nil {
		return
	}

	var metadata scanMetadataData
	if err := json.Unmarshal(data, &metadata); err != nil {
		return
	}

	sm.mu.Lock()
	sm.lastScanTime = metadata.LastScanTime
	sm.mu.Unlock()
}

// save 保存元数据到文件
func (sm *ScanMetadata) save() {
	sm.mu.RLock()
	metadata := scanMetadataData{
		LastScanTime: sm.lastScanTime,
	}
	sm.mu.RUnlock()

	data, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return
	}

	if err := os.MkdirAll(filepath.Dir(sm.filePath), 0755); err != nil {
		return
	}

	_ = os.WriteFile(sm.filePath, data, 0644)
}
