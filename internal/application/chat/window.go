package chat

import (
	"fmt"
	"log/slog"
	"strings"

	domainChat "github.com/voyagent/backend/internal/domain/chat"
	"github.com/voyagent/backend/internal/infrastructure/config"
	"github.com/voyagent/backend/internal/infrastructure/llm"
	"github.com/voyagent/backend/internal/infrastructure/log"
	"github.com/voyagent/backend/internal/infrastructure/metrics"
)

// 摘要调用参数：低温度保证事实性，200 token 足够 2-3 句话
const (
	summarizeTemperature = 0.3
	summarizeMaxTokens   = 200
)

// WindowManager 上下文窗口管理器
// 控制发送给 LLM 的历史规模：最近 windowSize 条消息原样保留，
// 更早的消息折叠进滚动摘要；消息一旦折叠不再原文回放
type WindowManager struct {
	windowSize         int
	summarizeThreshold int
	completer          Completer
	logger             *slog.Logger
}

// NewWindowManager 创建窗口管理器
func NewWindowManager(cfg *config.ContextConfig, completer Completer) *WindowManager {
	return &WindowManager{
		windowSize:         cfg.WindowSize,
		summarizeThreshold: cfg.SummarizeThreshold,
		completer:          completer,
		logger:             log.NewModuleLogger("chat", "window"),
	}
}

// ContextForAI 计算发送给 LLM 的窗口消息和上下文描述
// 上下文描述由滚动摘要和已知事实两段组成，用空行分隔；两者皆空时返回空串
func (w *WindowManager) ContextForAI(messages []domainChat.Message, summary string, extracted domainChat.ExtractedContext) ([]domainChat.Message, string) {
	recent := messages
	if len(messages) > w.windowSize {
		recent = messages[len(messages)-w.windowSize:]
	}

	var parts []string
	if summary != "" {
		parts = append(parts, "Previous conversation summary: "+summary)
	}
	if desc := extracted.Describe(); desc != "" {
		parts = append(parts, "Known information: "+desc)
	}

	return recent, strings.Join(parts, "\n\n")
}

// ShouldSummarize 判断未折叠消息数是否达到摘要阈值
func (w *WindowManager) ShouldSummarize(messageCount, lastSummarizedIndex int) bool {
	return messageCount-lastSummarizedIndex >= w.summarizeThreshold
}

// Summarize 把窗口之外的旧消息折叠为新摘要
// 新摘要吸收旧摘要；调用失败时返回旧摘要和错误，由调用方记录并降级为纯截断
func (w *WindowManager) Summarize(messages []domainChat.Message, existingSummary string) (string, error) {
	if len(messages) <= w.windowSize {
		return existingSummary, nil
	}

	toSummarize := messages[:len(messages)-w.windowSize]

	lines := make([]string, 0, len(toSummarize))
	for _, msg := range toSummarize {
		lines = append(lines, strings.ToUpper(string(msg.Role))+": "+msg.Content)
	}
	conversationText := strings.Join(lines, "\n")

	previousSummary := existingSummary
	if previousSummary == "" {
		previousSummary = "None"
	}

	prompt := fmt.Sprintf(`Summarize this travel planning conversation into 2-3 concise sentences. Focus on key facts: destination, dates, budget, preferences, and any decisions made.

Conversation:
%s

Previous summary (if any):
%s

Concise summary:`, conversationText, previousSummary)

	summary, err := w.completer.Complete(
		[]llm.Message{{Role: "user", Content: prompt}},
		summarizeTemperature,
		summarizeMaxTokens,
	)
	if err != nil {
		metrics.SummariesTotal.WithLabelValues("error").Inc()
		return existingSummary, fmt.Errorf("failed to create summary: %w", err)
	}

	metrics.SummariesTotal.WithLabelValues("success").Inc()
	w.logger.Debug("Conversation summarized",
		"folded_messages", len(toSummarize),
		"summary_length", len(summary),
	)

	return strings.TrimSpace(summary), nil
}
