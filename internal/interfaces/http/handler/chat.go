package handler

import (
	"errors"
	"net/http"

	"log/slog"

	appChat "github.com/voyagent/backend/internal/application/chat"
	domainChat "github.com/voyagent/backend/internal/domain/chat"
	domainTrip "github.com/voyagent/backend/internal/domain/trip"
	"github.com/voyagent/backend/internal/infrastructure/log"
	"github.com/voyagent/backend/internal/interfaces/http/response"
	"github.com/gin-gonic/gin"
)

// DefaultUserID 认证接入前所有请求使用的固定用户
const DefaultUserID = "default_user"

// ChatHandler 对话处理器
type ChatHandler struct {
	service *appChat.Service
	logger  *slog.Logger
}

// NewChatHandler 创建对话处理器
func NewChatHandler(service *appChat.Service) *ChatHandler {
	return &ChatHandler{
		service: service,
		logger:  log.NewModuleLogger("chat", "handler"),
	}
}

// ChatMessageRequest 对话请求
type ChatMessageRequest struct {
	Message string `json:"message" binding:"required"`
	TripID  string `json:"trip_id"`
	UserID  string `json:"user_id"`
}

// SendMessage 处理一轮对话
// @Summary 发送对话消息
// @Description 同步处理一条用户消息，走完提取、检索、补全、摘要的完整管线后返回 AI 回复
// @Tags 对话
// @Accept json
// @Produce json
// @Param body body ChatMessageRequest true "消息内容"
// @Success 200 {object} chat.Result
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /chat/message [post]
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req ChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, 100001, "参数错误")
		return
	}

	userID := req.UserID
	if userID == "" {
		userID = DefaultUserID
	}

	result, err := h.service.ProcessMessage(c.Request.Context(), userID, req.TripID, req.Message)
	if err != nil {
		h.renderError(c, err)
		return
	}

	// 对话响应按前端约定直接返回，不套通用信封
	c.JSON(http.StatusOK, result)
}

// renderError 将领域错误映射为 HTTP 状态码
func (h *ChatHandler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainChat.ErrEmptyMessage):
		response.Error(c, http.StatusBadRequest, 300001, "消息内容不能为空")
	case errors.Is(err, domainTrip.ErrTripNotFound):
		response.Error(c, http.StatusNotFound, 300002, "行程不存在")
	case errors.Is(err, domainTrip.ErrNotAuthorized):
		response.Error(c, http.StatusForbidden, 300003, "无权访问该行程")
	default:
		h.logger.Error("Chat turn failed", "error", err)
		response.Error(c, http.StatusInternalServerError, 300004, "对话处理失败")
	}
}
