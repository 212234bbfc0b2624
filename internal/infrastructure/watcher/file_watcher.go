package watcher

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/voyagent/backend/internal/domain/events"
	"github.com/voyagent/backend/internal/infrastructure/config"
	"github.com/voyagent/backend/internal/infrastructure/log"
)

// WatchConfig FileWatcher 配置
type WatchConfig struct {
	// KnowledgeDir 知识文档目录，目录下的 *.json 文件会被监听
	KnowledgeDir string
	// DebounceDelay 防抖延迟
	DebounceDelay time.Duration
	// FullScanThreshold 全量扫描阈值（距上次扫描超过此时间则执行全量扫描）
	FullScanThreshold time.Duration
}

// NewWatchConfig 从知识库配置创建监听配置
func NewWatchConfig(kcfg *config.KnowledgeConfig) WatchConfig {
	return WatchConfig{
		KnowledgeDir:      kcfg.Dir,
		DebounceDelay:     500 * time.Millisecond,
		FullScanThreshold: 24 * time.Hour,
	}
}

// FileWatcher 知识库文件监听器
// 监听知识目录下的文档变更，通过事件总线通知索引器
type FileWatcher struct {
	config   WatchConfig
	eventBus events.EventBus
	watcher  *fsnotify.Watcher
	logger   *slog.Logger

	// 防抖相关
	debounceTimers map[string]*time.Timer
	debounceMu     sync.Mutex

	// 控制
	stopCh chan struct{}
	wg     sync.WaitGroup

	// 扫描元数据
	metadata *ScanMetadata
}

// NewFileWatcher 创建文件监听器
func NewFileWatcher(config WatchConfig, eventBus events.EventBus) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &FileWatcher{
		config:         config,
		eventBus:       eventBus,
		watcher:        watcher,
		logger:         log.NewModuleLogger("watcher", "file_watcher"),
		debounceTimers: make(map[string]*time.Timer),
		stopCh:         make(chan struct{}),
		metadata:       NewScanMetadata(),
	}, nil
}

// Start 启动文件监听
func (fw *FileWatcher) Start() error {
	fw.logger.Info("Starting knowledge file watcher",
		"knowledge_dir", fw.config.KnowledgeDir,
	)

	// 确保知识目录存在，用户可以直接往里放文档
	if err := os.MkdirAll(fw.config.KnowledgeDir, 0755); err != nil {
		return err
	}

	// 检查是否需要全量扫描
	if fw.needsFullScan() {
		fw.logger.Info("Performing full scan on startup")
		fw.performFullScan()
	}

	// 添加监听目录
	if err := fw.watcher.Add(fw.config.KnowledgeDir); err != nil {
		return err
	}

	// 启动事件处理循环
	fw.wg.Add(1)
	go fw.watchLoop()

	return nil
}

// Stop 停止文件监听
func (fw *FileWatcher) Stop() {
	fw.logger.Info("Stopping file watcher")

	close(fw.stopCh)
	fw.watcher.Close()
	fw.wg.Wait()

	// 取消所有防抖定时器
	fw.debounceMu.Lock()
	for _, timer := range fw.debounceTimers {
		timer.Stop()
	}
	fw.debounceMu.Unlock()

	fw.logger.Info("File watcher stopped")
}

// needsFullScan 判断是否需要全量扫描
func (fw *FileWatcher) needsFullScan() bool {
	lastScan := fw.metadata.GetLastScanTime()

	// 从未扫描过
	if lastScan.IsZero() {
		fw.logger.Info("No previous scan found, full scan required")
		return true
	}

	// 距上次扫描超过阈值
	elapsed := time.Since(lastScan)
	if elapsed > fw.config.FullScanThreshold {
		fw.logger.Info("Last scan too old, full scan required",
			"last_scan", lastScan,
			"elapsed", elapsed,
			"threshold", fw.config.FullScanThreshold,
		)
		return true
	}

	fw.logger.Info("Recent scan found, skipping full scan",
		"last_scan", lastScan,
		"elapsed", elapsed,
	)
	return false
}

// performFullScan 执行全量扫描
// 为目录下每个文档文件发布 Created 事件，索引器按文档 ID 覆盖写入，重复索引无副作用
func (fw *FileWatcher) performFullScan() {
	startTime := time.Now()
	count := fw.scanKnowledgeDirectory()

	// 更新扫描时间
	fw.metadata.SetLastScanTime(time.Now())

	fw.logger.Info("Full scan completed",
		"files", count,
		"duration", time.Since(startTime),
	)
}

// scanKnowledgeDirectory 扫描知识目录
func (fw *FileWatcher) scanKnowledgeDirectory() int {
	count := 0

	if fw.config.KnowledgeDir == "" {
		return count
	}

	entries, err := os.ReadDir(fw.config.KnowledgeDir)
	if err != nil {
		fw.logger.Error("Failed to read knowledge directory", "error", err)
		return count
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		filePath := filepath.Join(fw.config.KnowledgeDir, entry.Name())
		fileInfo, err := os.Stat(filePath)
		if err != nil {
			continue
		}

		// 发布 Created 事件
		fw.eventBus.Publish(&events.KnowledgeFileEvent{
			EventType: events.KnowledgeFileCreated,
			FilePath:  filePath,
			ModTime:   fileInfo.ModTime(),
			FileSize:  fileInfo.Size(),
			EventTime: time.Now(),
		})
		count++
	}

	return count
}

// watchLoop 事件监听循环
func (fw *FileWatcher) watchLoop() {
	defer fw.wg.Done()

	for {
		select {
		case <-fw.stopCh:
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleFsEvent(event)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Error("Watcher error", "error", err)
		}
	}
}

// handleFsEvent 处理文件系统事件
func (fw *FileWatcher) handleFsEvent(event fsnotify.Event) {
	if fw.isKnowledgeFile(event.Name) {
		fw.handleKnowledgeFileEvent(event)
	}
}

// isKnowledgeFile 判断是否为知识文档文件
func (fw *FileWatcher) isKnowledgeFile(path string) bool {
	if !strings.HasSuffix(path, ".json") {
		return false
	}
	return filepath.Clean(filepath.Dir(path)) == filepath.Clean(fw.config.KnowledgeDir)
}

// handleKnowledgeFileEvent 处理知识文档事件（带防抖）
func (fw *FileWatcher) handleKnowledgeFileEvent(fsEvent fsnotify.Event) {
	fw.debounceMu.Lock()
	defer fw.debounceMu.Unlock()

	// 取消之前的定时器
	if timer, exists := fw.debounceTimers[fsEvent.Name]; exists {
		timer.Stop()
	}

	// 创建新的防抖定时器
	fw.debounceTimers[fsEvent.Name] = time.AfterFunc(fw.config.DebounceDelay, func() {
		fw.emitKnowledgeFileEvent(fsEvent)

		// 清理定时器
		fw.debounceMu.Lock()
		delete(fw.debounceTimers, fsEvent.Name)
		fw.debounceMu.Unlock()
	})
}

// emitKnowledgeFileEvent 发送知识文档事件
func (fw *FileWatcher) emitKnowledgeFileEvent(fsEvent fsnotify.Event) {
	// 确定事件类型
	var eventType events.EventType
	switch {
	case fsEvent.Has(fsnotify.Create):
		eventType = events.KnowledgeFileCreated
	case fsEvent.Has(fsnotify.Write):
		eventType = events.KnowledgeFileModified
	case fsEvent.Has(fsnotify.Remove), fsEvent.Has(fsnotify.Rename):
		eventType = events.KnowledgeFileDeleted
	default:
		return
	}

	// 获取文件信息
	var modTime time.Time
	var fileSize int64
	if fileInfo, err := os.Stat(fsEvent.Name); err == nil {
		modTime = fileInfo.ModTime()
		fileSize = fileInfo.Size()
	}

	fw.eventBus.Publish(&events.KnowledgeFileEvent{
		EventType: eventType,
		FilePath:  fsEvent.Name,
		ModTime:   modTime,
		FileSize:  fileSize,
		EventTime: time.Now(),
	})

	fw.logger.Debug("Knowledge file event emitted",
		"type", eventType,
		"file", filepath.Base(fsEvent.Name),
	)
}
