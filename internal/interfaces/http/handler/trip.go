package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"log/slog"

	appTrip "github.com/voyagent/backend/internal/application/trip"
	domainTrip "github.com/voyagent/backend/internal/domain/trip"
	"github.com/voyagent/backend/internal/infrastructure/log"
	"github.com/voyagent/backend/internal/interfaces/http/response"
	"github.com/gin-gonic/gin"
)

// TripHandler 行程处理器
type TripHandler struct {
	service *appTrip.Service
	logger  *slog.Logger
}

// NewTripHandler 创建行程处理器
func NewTripHandler(service *appTrip.Service) *TripHandler {
	return &TripHandler{
		service: service,
		logger:  log.NewModuleLogger("trip", "handler"),
	}
}

// CreateTripRequest 创建行程请求
type CreateTripRequest struct {
	Destination string          `json:"destination" binding:"required"`
	StartDate   string          `json:"start_date"`
	EndDate     string          `json:"end_date"`
	Budget      *int            `json:"budget"`
	Preferences json.RawMessage `json:"preferences"`
	UserID      string          `json:"user_id"`
}

// UpdateTripRequest 更新行程请求
type UpdateTripRequest struct {
	Destination string          `json:"destination" binding:"required"`
	StartDate   string          `json:"start_date"`
	EndDate     string          `json:"end_date"`
	Budget      *int            `json:"budget"`
	Preferences json.RawMessage `json:"preferences"`
	Status      string          `json:"status"`
	Itinerary   json.RawMessage `json:"itinerary"`
}

// Create 创建行程
// @Summary 创建行程
// @Description 创建一条新行程，初始状态为 gathering
// @Tags 行程
// @Accept json
// @Produce json
// @Param body body CreateTripRequest true "行程信息"
// @Success 200 {object} trip.Trip
// @Failure 400 {object} response.ErrorResponse
// @Router /trips [post]
func (h *TripHandler) Create(c *gin.Context) {
	var req CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, 100001, "参数错误")
		return
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		response.ErrorWithDetail(c, http.StatusBadRequest, 100001, "参数错误", err.Error())
		return
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		response.ErrorWithDetail(c, http.StatusBadRequest, 100001, "参数错误", err.Error())
		return
	}

	userID := req.UserID
	if userID == "" {
		userID = DefaultUserID
	}

	trip, err := h.service.Create(appTrip.CreateInput{
		UserID:      userID,
		Destination: req.Destination,
		StartDate:   startDate,
		EndDate:     endDate,
		Budget:      req.Budget,
		Preferences: req.Preferences,
	})
	if err != nil {
		h.renderError(c, err, "创建行程失败")
		return
	}

	// 行程响应按前端约定直接返回实体 JSON
	c.JSON(http.StatusOK, trip)
}

// List 获取行程列表
// @Summary 获取行程列表
// @Tags 行程
// @Produce json
// @Param skip query int false "跳过条数"
// @Param limit query int false "返回条数上限"
// @Param user_id query string false "按用户过滤"
// @Success 200 {array} trip.Trip
// @Router /trips [get]
func (h *TripHandler) List(c *gin.Context) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	userID := c.Query("user_id")

	trips, err := h.service.List(userID, skip, limit)
	if err != nil {
		h.renderError(c, err, "获取行程列表失败")
		return
	}

	c.JSON(http.StatusOK, trips)
}

// Get 获取单条行程
// @Summary 获取行程详情
// @Tags 行程
// @Produce json
// @Param id path string true "行程ID"
// @Success 200 {object} trip.Trip
// @Failure 404 {object} response.ErrorResponse
// @Router /trips/{id} [get]
func (h *TripHandler) Get(c *gin.Context) {
	trip, err := h.service.Get(c.Param("id"))
	if err != nil {
		h.renderError(c, err, "查询行程失败")
		return
	}

	c.JSON(http.StatusOK, trip)
}

// Update 更新行程
// @Summary 更新行程
// @Description 整体替换行程信息；状态和行程安排未携带时保留原值
// @Tags 行程
// @Accept json
// @Produce json
// @Param id path string true "行程ID"
// @Param body body UpdateTripRequest true "行程信息"
// @Success 200 {object} trip.Trip
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /trips/{id} [put]
func (h *TripHandler) Update(c *gin.Context) {
	var req UpdateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, 100001, "参数错误")
		return
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		response.ErrorWithDetail(c, http.StatusBadRequest, 100001, "参数错误", err.Error())
		return
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		response.ErrorWithDetail(c, http.StatusBadRequest, 100001, "参数错误", err.Error())
		return
	}

	trip, err := h.service.Update(c.Param("id"), appTrip.UpdateInput{
		Destination: req.Destination,
		StartDate:   startDate,
		EndDate:     endDate,
		Budget:      req.Budget,
		Preferences: req.Preferences,
		Status:      req.Status,
		Itinerary:   req.Itinerary,
	})
	if err != nil {
		h.renderError(c, err, "更新行程失败")
		return
	}

	c.JSON(http.StatusOK, trip)
}

// renderError 将领域错误映射为 HTTP 状态码
func (h *TripHandler) renderError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, domainTrip.ErrMissingDestination):
		response.Error(c, http.StatusBadRequest, 200001, "缺少目的地")
	case errors.Is(err, domainTrip.ErrInvalidStatus):
		response.Error(c, http.StatusBadRequest, 200002, "无效的行程状态")
	case errors.Is(err, domainTrip.ErrTripNotFound):
		response.Error(c, http.StatusNotFound, 200003, "行程不存在")
	default:
		h.logger.Error("Trip request failed", "error", err)
		response.Error(c, http.StatusInternalServerError, 200004, fallback)
	}
}

// parseDate 解析日期参数，兼容 2026-05-01 和 RFC3339 两种格式
func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}
	return nil, errors.New("invalid date: " + value)
}
