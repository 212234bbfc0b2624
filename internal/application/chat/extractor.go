package chat

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	domainChat "github.com/voyagent/backend/internal/domain/chat"
)

// Extractor 对话事实提取器
// 从用户消息中提取目的地、天数、预算、兴趣等结构化事实
// 提取按优先级顺序进行：目的地 → 天数（先于预算，避免 "5 days" 被误认为金额）→ 预算 → 兴趣 → 风格 → 节奏
type Extractor struct{}

// NewExtractor 创建事实提取器
func NewExtractor() *Extractor {
	return &Extractor{}
}

// knownCities 常见旅行城市表，用于目的地提取的兜底匹配
var knownCities = []string{
	// 欧洲
	"paris", "london", "rome", "barcelona", "amsterdam", "prague", "vienna",
	"berlin", "munich", "venice", "florence", "athens", "dublin", "edinburgh",
	"lisbon", "madrid", "copenhagen", "stockholm", "budapest", "krakow",
	// 亚洲
	"tokyo", "bangkok", "singapore", "hong kong", "seoul", "dubai", "bali",
	"kyoto", "shanghai", "beijing", "taipei", "hanoi", "ho chi minh city",
	"kuala lumpur", "manila", "istanbul", "jerusalem", "tel aviv", "mumbai",
	// 美洲
	"new york", "los angeles", "san francisco", "miami", "las vegas",
	"mexico city", "cancun", "rio de janeiro", "buenos aires", "vancouver",
	"toronto", "montreal", "chicago", "boston", "seattle", "washington",
	// 大洋洲及其他
	"sydney", "melbourne", "auckland", "cairo", "cape town", "marrakech",
}

// placePattern 地名捕获组：一个或多个英文单词
const placePattern = `([A-Za-z]{2,}(?:\s+[A-Za-z]{2,})*)`

// destinationVerbPatterns 动词引导的目的地模式，按可靠性排序
var destinationVerbPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:visit|visiting|visited)\s+` + placePattern),
	regexp.MustCompile(`(?i)(?:go|going|went)\s+to\s+` + placePattern),
	regexp.MustCompile(`(?i)(?:travel|traveling|travelled)\s+to\s+` + placePattern),
	regexp.MustCompile(`(?i)(?:trip|vacation|holiday)\s+(?:to|in)\s+` + placePattern),
	regexp.MustCompile(`(?i)(?:plan|planning|planned)\s+(?:a\s+)?(?:trip|visit)\s+to\s+` + placePattern),
	regexp.MustCompile(`(?i)(?:plan|planning|planned)\s+to\s+(?:visit|go\s+to|travel\s+to)\s+` + placePattern),
	regexp.MustCompile(`(?i)(?:want|wanting|wanted)\s+to\s+(?:visit|see|explore|go\s+to)\s+` + placePattern),
	regexp.MustCompile(`(?i)(?:explore|exploring|explored)\s+` + placePattern),
	regexp.MustCompile(`(?i)(?:see|seeing|saw)\s+` + placePattern),
	regexp.MustCompile(`(?i)(?:destination|headed|heading)\s+(?:is|to|for)\s+` + placePattern),
	regexp.MustCompile(`(?i)(?:fly|flying|flew)\s+to\s+` + placePattern),
}

// destinationPrepPatterns 介词引导的目的地模式，要求后随终止词
var destinationPrepPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:in|at)\s+` + placePattern + `\s+(?:for|during|with|and|or|,|\.|\?|!|$)`),
	regexp.MustCompile(`(?i)(?:to|from)\s+` + placePattern + `\s+(?:for|and|or|,|\.|\?|!|$)`),
}

// connectorWords 截断捕获地名的连接词
// 大小写不敏感匹配会把 "Paris for next week" 整体捕获，遇到连接词即截断
var connectorWords = map[string]bool{
	"for": true, "during": true, "with": true, "and": true, "or": true,
	"in": true, "on": true, "at": true, "to": true, "from": true,
	"the": true, "an": true, "this": true, "next": true,
	"about": true, "around": true,
}

// destinationStopWords 不可能是目的地的常见词
var destinationStopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true,
	"for": true, "with": true, "about": true,
	"january": true, "february": true, "march": true, "april": true,
	"may": true, "june": true, "july": true, "august": true,
	"september": true, "october": true, "november": true, "december": true,
	"days": true, "weeks": true, "months": true,
	"day": true, "week": true, "month": true,
	"trip": true, "vacation": true, "holiday": true, "travel": true, "visit": true,
}

// specialCityNames 非常规大写的城市名
var specialCityNames = map[string]string{
	"new york":         "New York",
	"los angeles":      "Los Angeles",
	"san francisco":    "San Francisco",
	"las vegas":        "Las Vegas",
	"hong kong":        "Hong Kong",
	"ho chi minh city": "Ho Chi Minh City",
	"kuala lumpur":     "Kuala Lumpur",
	"mexico city":      "Mexico City",
	"rio de janeiro":   "Rio de Janeiro",
	"buenos aires":     "Buenos Aires",
	"cape town":        "Cape Town",
	"tel aviv":         "Tel Aviv",
}

// durationKind 天数模式的换算方式
type durationKind int

const (
	durationDays durationKind = iota // 捕获数字即天数
	durationWordDays                 // 捕获英文数词
	durationSingleWeek               // 无捕获组，固定 7 天
	durationWeeks                    // 捕获数字按周换算
)

// durationPatterns 行程天数模式
// 必须带 day/week 上下文，避免把孤立数字当作天数
var durationPatterns = []struct {
	re   *regexp.Regexp
	kind durationKind
}{
	{regexp.MustCompile(`(?:for\s+)?(\d+)\s*days?(?:\s+trip)?`), durationDays},
	{regexp.MustCompile(`(\d+)-day`), durationDays},
	{regexp.MustCompile(`(?:for\s+)?(one|two|three|four|five|six|seven|eight|nine|ten)\s*days?`), durationWordDays},
	{regexp.MustCompile(`(?:for\s+)?a\s+week(?:\s+trip)?`), durationSingleWeek},
	{regexp.MustCompile(`(?:for\s+)?(\d+)\s*weeks?`), durationWeeks},
}

// wordToNumber 英文数词映射
var wordToNumber = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
}

// budgetIndicators 预算上下文词
// 没有这些词时不提取金额，避免把随机数字当作预算
var budgetIndicators = []string{
	"budget", "spend", "cost", "price", "afford",
	"expensive", "cheap", "dollar", "euro", "$", "€",
}

// budgetPatterns 预算金额模式
var budgetPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\$\s*([\d,]+)`),
	regexp.MustCompile(`([\d,]+)\s*(?:dollars|usd)`),
	regexp.MustCompile(`([\d,]+)\s*(?:euros|eur)`),
	regexp.MustCompile(`budget.*?(?:of|is|around)?\s*\$?\s*([\d,]+)`),
	regexp.MustCompile(`spend.*?(?:about|around)?\s*\$?\s*([\d,]+)`),
}

// interestKeywords 兴趣关键词表
// 顺序固定，保证提取结果可复现
var interestKeywords = []struct {
	name     string
	keywords []string
}{
	{"museums", []string{"museum", "museums", "art", "gallery", "galleries"}},
	{"food", []string{"food", "restaurant", "restaurants", "eating", "cuisine", "dining", "foodie"}},
	{"history", []string{"history", "historical", "castle", "monument", "heritage"}},
	{"nature", []string{"nature", "hiking", "park", "parks", "beach", "outdoor"}},
	{"nightlife", []string{"nightlife", "club", "clubs", "bar", "bars", "party"}},
	{"shopping", []string{"shopping", "shop", "shops", "mall", "market", "markets"}},
	{"culture", []string{"culture", "cultural", "local", "traditional"}},
	{"adventure", []string{"adventure", "activities", "sports"}},
	{"relaxation", []string{"relax", "spa", "peaceful"}},
	{"architecture", []string{"architecture", "buildings", "monuments"}},
}

// travelStyleKeywords 旅行风格关键词，按优先级排列
var travelStyleKeywords = []struct {
	style    string
	keywords []string
}{
	{"budget", []string{"budget", "cheap", "affordable", "backpack"}},
	{"luxury", []string{"luxury", "upscale", "premium", "5-star", "high-end"}},
	{"mid-range", []string{"mid-range", "moderate", "comfortable"}},
}

// paceKeywords 行程节奏关键词
// 短语刻意具体化，"packed" 单独出现会误伤 "backpacked"
var paceKeywords = []struct {
	pace     string
	keywords []string
}{
	{"relaxed", []string{"relaxed pace", "slow pace", "leisurely", "laid-back", "laid back", "take it slow"}},
	{"packed", []string{"packed schedule", "packed itinerary", "jam-packed", "fast-paced", "action-packed", "see as much as possible"}},
	{"moderate", []string{"moderate pace", "balanced pace"}},
}

// Extract 从用户消息中提取结构化事实
// messages: 按时间顺序的全部用户消息内容
func (e *Extractor) Extract(messages []string) domainChat.ExtractedContext {
	var ctx domainChat.ExtractedContext
	if len(messages) == 0 {
		return ctx
	}

	fullText := strings.Join(messages, " ")
	loweredText := strings.ToLower(fullText)

	ctx.Destination = e.extractDestination(fullText)
	ctx.DurationDays = e.extractDuration(loweredText)
	ctx.Budget = e.extractBudget(loweredText)
	ctx.Interests = e.extractInterests(loweredText)
	ctx.TravelStyle = e.extractTravelStyle(loweredText)
	ctx.Pace = e.extractPace(loweredText)

	return ctx
}

// extractDestination 提取目的地
// 依次尝试：动词模式 → 介词模式 → 已知城市表
func (e *Extractor) extractDestination(text string) string {
	if dest := e.extractWithPatterns(text, destinationVerbPatterns); dest != "" {
		return dest
	}
	if dest := e.extractWithPatterns(text, destinationPrepPatterns); dest != "" {
		return dest
	}
	return e.extractKnownCity(text)
}

// extractWithPatterns 按模式列表提取目的地
func (e *Extractor) extractWithPatterns(text string, patterns []*regexp.Regexp) string {
	for _, pattern := range patterns {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}

		destination := trimAtConnector(strings.TrimSpace(match[1]))
		if destination == "" {
			continue
		}

		destination = capitalizeCity(destination)
		if e.isValidDestination(destination) {
			return destination
		}
	}
	return ""
}

// extractKnownCity 在文本中查找已知城市
// 长名优先，"new york" 不会被更短的名字抢先
func (e *Extractor) extractKnownCity(text string) string {
	loweredText := strings.ToLower(text)

	for _, city := range citiesByLength {
		if cityWordPatterns[city].MatchString(loweredText) {
			return capitalizeCity(city)
		}
	}
	return ""
}

// citiesByLength 已知城市按名字长度降序
var citiesByLength = func() []string {
	cities := make([]string, len(knownCities))
	copy(cities, knownCities)
	sort.Slice(cities, func(i, j int) bool {
		return len(cities[i]) > len(cities[j])
	})
	return cities
}()

// cityWordPatterns 每个城市的词边界匹配模式
var cityWordPatterns = func() map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp, len(knownCities))
	for _, city := range knownCities {
		patterns[city] = regexp.MustCompile(`\b` + regexp.QuoteMeta(city) + `\b`)
	}
	return patterns
}()

// trimAtConnector 在第一个连接词处截断捕获的地名
func trimAtConnector(phrase string) string {
	words := strings.Fields(phrase)
	for i, word := range words {
		if connectorWords[strings.ToLower(word)] {
			words = words[:i]
			break
		}
	}
	return strings.Join(words, " ")
}

// capitalizeCity 规范化城市名大写
func capitalizeCity(city string) string {
	if special, ok := specialCityNames[strings.ToLower(city)]; ok {
		return special
	}

	words := strings.Fields(strings.ToLower(city))
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

// isValidDestination 过滤明显不是目的地的捕获结果
func (e *Extractor) isValidDestination(destination string) bool {
	if len(destination) < 3 {
		return false
	}

	lowered := strings.ToLower(destination)
	if destinationStopWords[lowered] {
		return false
	}

	// 已知城市最可靠
	for _, city := range knownCities {
		if lowered == city {
			return true
		}
	}

	// 形如专有名词（首字母大写）也接受
	return destination[0] >= 'A' && destination[0] <= 'Z'
}

// extractDuration 提取行程天数
func (e *Extractor) extractDuration(text string) int {
	for _, p := range durationPatterns {
		match := p.re.FindStringSubmatch(text)
		if match == nil {
			continue
		}

		switch p.kind {
		case durationDays:
			if days, err := strconv.Atoi(match[1]); err == nil {
				return days
			}
		case durationWordDays:
			if days, ok := wordToNumber[match[1]]; ok {
				return days
			}
		case durationSingleWeek:
			return 7
		case durationWeeks:
			if weeks, err := strconv.Atoi(match[1]); err == nil {
				return weeks * 7
			}
		}
	}
	return 0
}

// extractBudget 提取预算金额
// 仅在文本包含预算上下文词时提取，金额需通过 100-100000 合理性检查
func (e *Extractor) extractBudget(text string) int {
	hasContext := false
	for _, indicator := range budgetIndicators {
		if strings.Contains(text, indicator) {
			hasContext = true
			break
		}
	}
	if !hasContext {
		return 0
	}

	for _, pattern := range budgetPatterns {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}

		amount, err := strconv.Atoi(strings.ReplaceAll(match[1], ",", ""))
		if err != nil {
			continue
		}
		if amount >= 100 && amount <= 100000 {
			return amount
		}
	}
	return 0
}

// extractInterests 提取兴趣偏好
func (e *Extractor) extractInterests(text string) []string {
	var interests []string
	for _, entry := range interestKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(text, keyword) {
				interests = append(interests, entry.name)
				break
			}
		}
	}
	return interests
}

// extractTravelStyle 提取旅行风格
func (e *Extractor) extractTravelStyle(text string) string {
	for _, entry := range travelStyleKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(text, keyword) {
				return entry.style
			}
		}
	}
	return ""
}

// extractPace 提取行程节奏
func (e *Extractor) extractPace(text string) string {
	for _, entry := range paceKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(text, keyword) {
				return entry.pace
			}
		}
	}
	return ""
}
