// Package knowledge 定义旅行知识库的领域模型
package knowledge

// DocumentMetadata 文档元数据
// 采集管线为每篇文档打上城市/主题/分类标签，检索时可按城市过滤
type DocumentMetadata struct {
	City     string `json:"city"`
	Topic    string `json:"topic"`
	Category string `json:"category"`
	// SourceFile 来源文件路径，目录索引的文档才有值，文件删除时按它清理向量
	SourceFile string `json:"source_file,omitempty"`
}

// Document 旅行知识文档
type Document struct {
	ID       string           `json:"id"`
	Text     string           `json:"text"`
	Metadata DocumentMetadata `json:"metadata"`
}

// SearchResult 检索结果
// Score 为余弦相似度（0.0-1.0），查询时只读
type SearchResult struct {
	ID       string           `json:"id"`
	Text     string           `json:"text"`
	Metadata DocumentMetadata `json:"metadata"`
	Score    float32          `json:"score"`
}

// Filter 检索过滤条件
type Filter struct {
	// City 按城市过滤，空值表示不过滤
	City string
}

// IsEmpty 是否没有任何过滤条件
func (f Filter) IsEmpty() bool {
	return f.City == ""
}
