package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractor_Destination(t *testing.T) {
	e := NewExtractor()

	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{
			name:     "verb pattern with trailing words",
			text:     "I want to visit Paris for 5 days",
			expected: "Paris",
		},
		{
			name:     "going to pattern",
			text:     "We're going to Tokyo in March",
			expected: "Tokyo",
		},
		{
			name:     "planning a trip to multi-word city",
			text:     "planning a trip to New York with my family",
			expected: "New York",
		},
		{
			name:     "lowercase known city fallback",
			text:     "thinking about barcelona maybe",
			expected: "Barcelona",
		},
		{
			name:     "special capitalization",
			text:     "flying to rio de janeiro next month",
			expected: "Rio de Janeiro",
		},
		{
			name:     "connector word is not a destination",
			text:     "going to the beach",
			expected: "",
		},
		{
			name:     "no destination mentioned",
			text:     "I like good food and long walks",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := e.Extract([]string{tt.text})
			assert.Equal(t, tt.expected, ctx.Destination, "目的地提取结果不符")
		})
	}
}

func TestExtractor_Duration(t *testing.T) {
	e := NewExtractor()

	tests := []struct {
		name     string
		text     string
		expected int
	}{
		{"numeric days", "I'll stay for 5 days", 5},
		{"hyphenated day", "a 7-day itinerary sounds good", 7},
		{"word number", "for three days", 3},
		{"single week", "a week trip in summer", 7},
		{"multiple weeks", "probably 2 weeks total", 14},
		{"no duration", "sometime next year", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := e.Extract([]string{tt.text})
			assert.Equal(t, tt.expected, ctx.DurationDays, "天数提取结果不符")
		})
	}
}

func TestExtractor_Budget(t *testing.T) {
	e := NewExtractor()

	tests := []struct {
		name     string
		text     string
		expected int
	}{
		{"dollar sign with comma", "my budget is $2,000", 2000},
		{"dollars word", "I can spend 3000 dollars", 3000},
		{"spend around", "happy to spend around 3000", 3000},
		{"number without budget context", "we leave on the 15th and return on the 30th", 0},
		{"amount below sanity range", "it cost $50", 0},
		{"amount above sanity range", "this hotel costs $500000 per night", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := e.Extract([]string{tt.text})
			assert.Equal(t, tt.expected, ctx.Budget, "预算提取结果不符")
		})
	}
}

func TestExtractor_Interests(t *testing.T) {
	e := NewExtractor()

	ctx := e.Extract([]string{"We love museums and trying local food"})

	// 顺序与关键词表一致
	assert.Equal(t, []string{"museums", "food", "culture"}, ctx.Interests, "兴趣提取结果不符")
}

func TestExtractor_TravelStyle(t *testing.T) {
	e := NewExtractor()

	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"luxury keywords", "looking for luxury hotels", "luxury"},
		{"budget keywords", "cheap eats and hostels", "budget"},
		{"mid-range keywords", "something comfortable but not fancy", "mid-range"},
		{"no style mentioned", "visiting Rome in April", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := e.Extract([]string{tt.text})
			assert.Equal(t, tt.expected, ctx.TravelStyle, "旅行风格提取结果不符")
		})
	}
}

func TestExtractor_Pace(t *testing.T) {
	e := NewExtractor()

	tests := []struct {
		name         string
		text         string
		expectedPace string
	}{
		{"relaxed pace", "a relaxed pace please, nothing rushed", "relaxed"},
		{"packed pace", "give me a jam-packed itinerary", "packed"},
		{"backpacking is not packed pace", "backpacked through europe last year", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := e.Extract([]string{tt.text})
			assert.Equal(t, tt.expectedPace, ctx.Pace, "节奏提取结果不符")
		})
	}
}

func TestExtractor_MultipleMessages(t *testing.T) {
	e := NewExtractor()

	// 事实分散在多条消息中
	ctx := e.Extract([]string{
		"I want to visit Paris for 5 days",
		"my budget is $2000 and I love museums",
	})

	assert.Equal(t, "Paris", ctx.Destination)
	assert.Equal(t, 5, ctx.DurationDays)
	assert.Equal(t, 2000, ctx.Budget)
	assert.Equal(t, []string{"museums"}, ctx.Interests)
}

func TestExtractor_Empty(t *testing.T) {
	e := NewExtractor()

	ctx := e.Extract(nil)

	assert.True(t, ctx.IsEmpty(), "空输入应返回空上下文")
}
