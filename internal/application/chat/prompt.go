package chat

import (
	"encoding/json"
	"strings"

	domainChat "github.com/voyagent/backend/internal/domain/chat"
	domainTrip "github.com/voyagent/backend/internal/domain/trip"
)

// ragContextLimit 注入提示词的知识文本上限（字符）
const ragContextLimit = 4000

// promptRoleLine 系统提示词首行
const promptRoleLine = "You are an expert travel planning assistant."

// promptInstructions 固定的角色与回答规范
const promptInstructions = `
YOUR ROLE:
- Help users plan detailed, personalized travel itineraries
- Provide specific recommendations for activities, restaurants, and attractions
- Consider budget constraints, travel dates, and user preferences
- Ask clarifying questions when needed
- Be enthusiastic, friendly, and practical

RESPONSE GUIDELINES:
- Be conversational and warm
- Give specific names and details, not generic suggestions
- Include estimated costs when relevant
- If you need more information, ask specific questions
- Use the knowledge base and conversation context to give accurate information
`

// PromptBuilder 系统提示词构造器
// 按固定顺序组装：角色行 → 对话上下文 → 用户偏好 → 检索知识 → 当前行程 → 回答规范
type PromptBuilder struct{}

// NewPromptBuilder 创建提示词构造器
func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildSystemPrompt 组装系统提示词
// contextDescription: 窗口管理器产出的摘要与已知事实
// ragContext: 检索到的知识文本（超长会被截断）
// tripContext: 关联行程信息，独立对话时为 nil
func (b *PromptBuilder) BuildSystemPrompt(
	contextDescription string,
	extracted domainChat.ExtractedContext,
	ragContext string,
	tripContext *domainTrip.Context,
) string {
	parts := []string{promptRoleLine}

	if contextDescription != "" {
		parts = append(parts, "\nCONVERSATION CONTEXT:\n"+contextDescription)
	}

	if prefs := extracted.PromptPreferences(); prefs != "" {
		parts = append(parts, "\nUSER PREFERENCES:\n"+prefs)
	}

	if ragContext != "" {
		parts = append(parts, "\nRELEVANT TRAVEL KNOWLEDGE:\n"+truncateRunes(ragContext, ragContextLimit))
	}

	if tripContext != nil {
		if tripInfo, err := json.MarshalIndent(tripContext, "", "  "); err == nil {
			parts = append(parts, "\nCURRENT TRIP:\n"+string(tripInfo))
		}
	}

	parts = append(parts, promptInstructions)

	return strings.Join(parts, "\n")
}

// truncateRunes 按字符数截断
func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
