package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	domainChat "github.com/voyagent/backend/internal/domain/chat"
	domainTrip "github.com/voyagent/backend/internal/domain/trip"
	"github.com/voyagent/backend/internal/infrastructure/config"
	"github.com/voyagent/backend/internal/infrastructure/llm"
	"github.com/voyagent/backend/internal/infrastructure/log"
	"github.com/voyagent/backend/internal/infrastructure/metrics"
	"github.com/voyagent/backend/internal/infrastructure/tokenizer"
)

// Result 一轮对话的处理结果
type Result struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id"`
	TripID         string `json:"trip_id,omitempty"`
}

// Service 对话服务
// 每轮消息同步走完整条管线：提取事实 → 计算窗口 → 增强检索 → 组装提示词
// → 调用 LLM → 追加消息 → 按阈值摘要 → 持久化
// 同一对话不做并发控制，竞争时后写覆盖
type Service struct {
	trips         domainTrip.Repository
	conversations domainChat.Repository
	window        *WindowManager
	extractor     *Extractor
	enhancer      *Enhancer
	prompts       *PromptBuilder
	completer     Completer
	retriever     Retriever
	temperature   float64
	maxTokens     int
	logger        *slog.Logger
}

// NewService 创建对话服务
func NewService(
	trips domainTrip.Repository,
	conversations domainChat.Repository,
	window *WindowManager,
	extractor *Extractor,
	enhancer *Enhancer,
	prompts *PromptBuilder,
	completer Completer,
	retriever Retriever,
	openaiCfg *config.OpenAIConfig,
) *Service {
	return &Service{
		trips:         trips,
		conversations: conversations,
		window:        window,
		extractor:     extractor,
		enhancer:      enhancer,
		prompts:       prompts,
		completer:     completer,
		retriever:     retriever,
		temperature:   openaiCfg.Temperature,
		maxTokens:     openaiCfg.MaxTokens,
		logger:        log.NewModuleLogger("chat", "service"),
	}
}

// ProcessMessage 处理一条用户消息并返回 AI 回复
// tripID 为空时使用（或创建）用户的独立规划对话；
// 检索和摘要失败只降级不中断，LLM 调用失败才会让整轮失败
func (s *Service) ProcessMessage(ctx context.Context, userID, tripID, message string) (*Result, error) {
	if strings.TrimSpace(message) == "" {
		return nil, domainChat.ErrEmptyMessage
	}

	// 行程归属校验，并准备注入提示词的行程上下文
	var tripContext *domainTrip.Context
	if tripID != "" {
		trip, err := s.trips.FindByID(tripID)
		if err != nil {
			return nil, fmt.Errorf("failed to load trip: %w", err)
		}
		if trip == nil {
			return nil, domainTrip.ErrTripNotFound
		}
		if trip.UserID != userID {
			return nil, domainTrip.ErrNotAuthorized
		}
		tripContext = trip.BuildContext()
	}

	conv, err := s.findOrCreateConversation(userID, tripID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Processing message",
		"conversation_id", conv.ID,
		"trip_id", tripID,
		"history_messages", conv.MessageCount,
	)

	// 事实提取覆盖全部用户消息（含当前这条），新值覆盖旧值
	userTexts := append(conv.UserMessages(), message)
	conv.Context = conv.Context.Merge(s.extractor.Extract(userTexts))

	// 窗口只作用于历史消息，当前消息单独追加在末尾
	recent, contextDescription := s.window.ContextForAI(conv.Messages, conv.Summary, conv.Context)

	ragContext := s.retrieveKnowledge(ctx, message, conv.Context)

	systemPrompt := s.prompts.BuildSystemPrompt(contextDescription, conv.Context, ragContext, tripContext)

	llmMessages := make([]llm.Message, 0, len(recent)+2)
	llmMessages = append(llmMessages, llm.Message{Role: string(domainChat.RoleSystem), Content: systemPrompt})
	for _, m := range recent {
		llmMessages = append(llmMessages, llm.Message{Role: string(m.Role), Content: m.Content})
	}
	llmMessages = append(llmMessages, llm.Message{Role: string(domainChat.RoleUser), Content: message})

	s.observePromptSize(llmMessages)

	response, err := s.completer.Complete(llmMessages, s.temperature, s.maxTokens)
	if err != nil {
		metrics.ChatTurnsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to get completion: %w", err)
	}

	conv.Append(domainChat.RoleUser, message)
	conv.Append(domainChat.RoleAssistant, response)

	s.maybeSummarize(conv)

	if err := s.conversations.Save(conv); err != nil {
		metrics.ChatTurnsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to save conversation: %w", err)
	}

	metrics.ChatTurnsTotal.WithLabelValues("success").Inc()

	return &Result{
		Message:        response,
		ConversationID: conv.ID,
		TripID:         conv.TripID,
	}, nil
}

// findOrCreateConversation 获取或创建对话
// 行程对话按 trip_id 定位；独立对话按用户定位，每个用户一个
func (s *Service) findOrCreateConversation(userID, tripID string) (*domainChat.Conversation, error) {
	var conv *domainChat.Conversation
	var err error

	if tripID != "" {
		conv, err = s.conversations.FindByTripID(tripID)
	} else {
		conv, err = s.conversations.FindStandalone(userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}

	if conv == nil {
		conv = &domainChat.Conversation{
			TripID: tripID,
			UserID: userID,
		}
		if err := s.conversations.Save(conv); err != nil {
			return nil, fmt.Errorf("failed to create conversation: %w", err)
		}
		s.logger.Info("Conversation created", "conversation_id", conv.ID, "trip_id", tripID)
	}

	return conv, nil
}

// retrieveKnowledge 检索相关知识并拼接为提示词文本
// 任何失败都降级为无知识回答，不中断本轮对话
func (s *Service) retrieveKnowledge(ctx context.Context, message string, extracted domainChat.ExtractedContext) string {
	enhancedQuery := s.enhancer.Enhance(message, extracted)
	if enhancedQuery != message {
		s.logger.Debug("Query enhanced", "original", message, "enhanced", enhancedQuery)
	}

	results, err := s.retriever.Retrieve(ctx, enhancedQuery, s.enhancer.Filter(extracted))
	if err != nil {
		s.logger.Warn("Knowledge retrieval failed, continuing without context", "error", err)
		return ""
	}
	if len(results) == 0 {
		return ""
	}

	texts := make([]string, 0, len(results))
	for _, result := range results {
		texts = append(texts, result.Text)
	}

	s.logger.Debug("Knowledge retrieved", "documents", len(results))
	return strings.Join(texts, "\n\n")
}

// maybeSummarize 达到阈值时把窗口外的旧消息折叠进滚动摘要
// 失败时保留旧摘要，窗口截断自然兜底，留到下一轮再试
func (s *Service) maybeSummarize(conv *domainChat.Conversation) {
	if !s.window.ShouldSummarize(conv.MessageCount, conv.LastSummarizedIndex) {
		return
	}

	summary, err := s.window.Summarize(conv.Messages, conv.Summary)
	if err != nil {
		s.logger.Warn("Summarization failed, falling back to window truncation", "error", err)
		return
	}

	conv.Summary = summary
	conv.LastSummarizedIndex = conv.MessageCount
	s.logger.Info("Conversation summarized",
		"conversation_id", conv.ID,
		"summarized_through", conv.LastSummarizedIndex,
	)
}

// observePromptSize 估算并上报本轮 prompt 的 token 规模
// 仅用于观测，估算器不可用时跳过
func (s *Service) observePromptSize(messages []llm.Message) {
	estimator, err := tokenizer.GetEstimator()
	if err != nil {
		s.logger.Debug("Token estimator unavailable", "error", err)
		return
	}

	texts := make([]string, 0, len(messages))
	for _, m := range messages {
		texts = append(texts, m.Content)
	}

	tokens := estimator.CountTokensBatch(texts)
	metrics.PromptTokens.Observe(float64(tokens))

	s.logger.Debug("Sending messages to LLM",
		"messages", len(messages),
		"estimated_tokens", tokens,
	)
}
