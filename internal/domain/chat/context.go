package chat

import (
	"fmt"
	"strings"
)

// ExtractedContext 从对话中提取的结构化事实
// 字段单调细化：仅在识别到新证据时覆盖，不会静默清空
type ExtractedContext struct {
	Destination  string   `json:"destination,omitempty"`   // 目的地
	DurationDays int      `json:"duration_days,omitempty"` // 行程天数
	Budget       int      `json:"budget,omitempty"`        // 预算（美元）
	Interests    []string `json:"interests,omitempty"`     // 兴趣偏好
	TravelStyle  string   `json:"travel_style,omitempty"`  // 旅行风格：budget / mid-range / luxury
	Pace         string   `json:"pace,omitempty"`          // 节奏：relaxed / moderate / packed
}

// IsEmpty 是否没有任何已提取的事实
func (c ExtractedContext) IsEmpty() bool {
	return c.Destination == "" && c.DurationDays == 0 && c.Budget == 0 &&
		len(c.Interests) == 0 && c.TravelStyle == "" && c.Pace == ""
}

// Merge 将新提取的事实合并到当前上下文
// 新值覆盖旧值，未提取到的字段保留原值
func (c ExtractedContext) Merge(newer ExtractedContext) ExtractedContext {
	merged := c
	if newer.Destination != "" {
		merged.Destination = newer.Destination
	}
	if newer.DurationDays > 0 {
		merged.DurationDays = newer.DurationDays
	}
	if newer.Budget > 0 {
		merged.Budget = newer.Budget
	}
	if len(newer.Interests) > 0 {
		merged.Interests = newer.Interests
	}
	if newer.TravelStyle != "" {
		merged.TravelStyle = newer.TravelStyle
	}
	if newer.Pace != "" {
		merged.Pace = newer.Pace
	}
	return merged
}

// Describe 格式化为提示词可读的事实描述
// 例："Destination: Paris; Duration: 5 days; Budget: $2,000; Interests: museums, food"
func (c ExtractedContext) Describe() string {
	var parts []string

	if c.Destination != "" {
		parts = append(parts, fmt.Sprintf("Destination: %s", c.Destination))
	}
	if c.DurationDays > 0 {
		parts = append(parts, fmt.Sprintf("Duration: %d days", c.DurationDays))
	}
	if c.Budget > 0 {
		parts = append(parts, fmt.Sprintf("Budget: $%s", groupDigits(c.Budget)))
	}
	if len(c.Interests) > 0 {
		parts = append(parts, fmt.Sprintf("Interests: %s", strings.Join(c.Interests, ", ")))
	}
	if c.TravelStyle != "" {
		parts = append(parts, fmt.Sprintf("Travel style: %s", c.TravelStyle))
	}
	if c.Pace != "" {
		parts = append(parts, fmt.Sprintf("Pace: %s", c.Pace))
	}

	return strings.Join(parts, "; ")
}

// PromptPreferences 格式化仅进入系统提示词的偏好字段
// 天数、预算、风格不参与检索查询，只注入提示词
func (c ExtractedContext) PromptPreferences() string {
	var parts []string

	if c.DurationDays > 0 {
		parts = append(parts, fmt.Sprintf("Trip duration: %d days", c.DurationDays))
	}
	if c.Budget > 0 {
		parts = append(parts, fmt.Sprintf("Budget: $%s", groupDigits(c.Budget)))
	}
	if c.TravelStyle != "" {
		parts = append(parts, fmt.Sprintf("Travel style: %s", c.TravelStyle))
	}
	if c.Pace != "" {
		parts = append(parts, fmt.Sprintf("Pace: %s", c.Pace))
	}

	return strings.Join(parts, "; ")
}

// groupDigits 千分位分组，如 2000 -> "2,000"
func groupDigits(n int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	head := len(s) % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
