package handler

import (
	"net/http"

	"log/slog"

	appKnowledge "github.com/voyagent/backend/internal/application/knowledge"
	"github.com/voyagent/backend/internal/domain/knowledge"
	"github.com/voyagent/backend/internal/infrastructure/log"
	"github.com/voyagent/backend/internal/interfaces/http/response"
	"github.com/gin-gonic/gin"
)

// KnowledgeHandler 知识库处理器
type KnowledgeHandler struct {
	retriever *appKnowledge.Retriever
	indexer   *appKnowledge.Indexer
	logger    *slog.Logger
}

// NewKnowledgeHandler 创建知识库处理器
func NewKnowledgeHandler(retriever *appKnowledge.Retriever, indexer *appKnowledge.Indexer) *KnowledgeHandler {
	return &KnowledgeHandler{
		retriever: retriever,
		indexer:   indexer,
		logger:    log.NewModuleLogger("knowledge", "handler"),
	}
}

// SearchKnowledgeRequest 知识检索请求
type SearchKnowledgeRequest struct {
	Query     string  `json:"query" binding:"required"`
	TopK      int     `json:"top_k"`
	Threshold float32 `json:"threshold"`
	City      string  `json:"city"`
}

// Search 检索旅行知识
// @Summary 检索旅行知识
// @Description 语义检索知识库，top_k 和 threshold 缺省时使用服务端配置
// @Tags 知识库
// @Accept json
// @Produce json
// @Param body body SearchKnowledgeRequest true "检索条件"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Router /knowledge/search [post]
func (h *KnowledgeHandler) Search(c *gin.Context) {
	var req SearchKnowledgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, 100001, "参数错误")
		return
	}

	// threshold 零值表示未指定，由检索器回落到配置默认值
	threshold := req.Threshold
	if threshold == 0 {
		threshold = -1
	}

	results, err := h.retriever.RetrieveWith(
		c.Request.Context(),
		req.Query,
		knowledge.Filter{City: req.City},
		req.TopK,
		threshold,
	)
	if err != nil {
		h.logger.Error("Knowledge search failed", "error", err)
		response.Error(c, http.StatusInternalServerError, 400001, "知识检索失败")
		return
	}

	response.Success(c, gin.H{
		"results": results,
		"count":   len(results),
	})
}

// Stats 获取知识库统计
// @Summary 获取知识库统计
// @Tags 知识库
// @Produce json
// @Success 200 {object} response.Response
// @Router /knowledge/stats [get]
func (h *KnowledgeHandler) Stats(c *gin.Context) {
	count, err := h.indexer.Count(c.Request.Context())
	if err != nil {
		h.logger.Error("Knowledge stats failed", "error", err)
		response.Error(c, http.StatusInternalServerError, 400002, "获取知识库统计失败")
		return
	}

	response.Success(c, gin.H{
		"total_documents": count,
	})
}
