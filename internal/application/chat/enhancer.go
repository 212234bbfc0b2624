package chat

import (
	"strings"

	domainChat "github.com/voyagent/backend/internal/domain/chat"
	"github.com/voyagent/backend/internal/domain/knowledge"
)

// Enhancer 检索查询增强器
// 两级策略：目的地总是补充（若查询中未出现）；模糊查询再补充前两个兴趣
// 天数、预算、风格不进检索查询，走系统提示词
type Enhancer struct{}

// NewEnhancer 创建查询增强器
func NewEnhancer() *Enhancer {
	return &Enhancer{}
}

// benefitPatterns 受益于兴趣补充的查询特征
var benefitPatterns = []string{
	"what should", "what can", "where should", "where can",
	"any suggestions", "what else", "tell me more",
	"things to do", "what to see", "what to do",
	"activities", "attractions", "places to visit",
	"help me plan", "itinerary", "recommendations",
}

// skipPatterns 具体事实类查询特征，补充兴趣反而干扰检索
var skipPatterns = []string{
	"what time", "how much", "how far", "how long",
	"how to get", "when does", "where is",
	"is it open", "is there", "ticket", "price",
}

// queryCleaner 修复拼接后的标点
var queryCleaner = strings.NewReplacer(
	"? in", " in",
	"? focusing", " focusing",
	". in", " in",
	". focusing", " focusing",
)

// Enhance 用已知事实增强检索查询
// 例："What should I see?" + {Paris, museums} → "What should I see in Paris focusing on museums"
func (e *Enhancer) Enhance(query string, extracted domainChat.ExtractedContext) string {
	queryLower := strings.ToLower(query)
	parts := []string{query}

	// 第一级：补充目的地
	if extracted.Destination != "" && !strings.Contains(queryLower, strings.ToLower(extracted.Destination)) {
		parts = append(parts, "in "+extracted.Destination)
	}

	// 第二级：模糊查询补充前两个兴趣，避免过度收窄
	if len(extracted.Interests) > 0 && e.shouldAddInterests(queryLower) {
		topInterests := extracted.Interests
		if len(topInterests) > 2 {
			topInterests = topInterests[:2]
		}
		parts = append(parts, "focusing on "+strings.Join(topInterests, " and "))
	}

	return cleanQuery(strings.Join(parts, " "))
}

// shouldAddInterests 判断查询是否值得补充兴趣
// 事实类问题跳过；明显的规划类问题或五个词以内的短问题补充
func (e *Enhancer) shouldAddInterests(queryLower string) bool {
	for _, pattern := range skipPatterns {
		if strings.Contains(queryLower, pattern) {
			return false
		}
	}
	for _, pattern := range benefitPatterns {
		if strings.Contains(queryLower, pattern) {
			return true
		}
	}
	return len(strings.Fields(queryLower)) <= 5
}

// cleanQuery 规范空白并修复拼接产生的标点
func cleanQuery(query string) string {
	query = strings.Join(strings.Fields(query), " ")
	return strings.TrimSpace(queryCleaner.Replace(query))
}

// Filter 基于已知事实构造检索过滤条件
func (e *Enhancer) Filter(extracted domainChat.ExtractedContext) knowledge.Filter {
	return knowledge.Filter{City: extracted.Destination}
}
