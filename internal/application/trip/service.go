package trip

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	domainTrip "github.com/voyagent/backend/internal/domain/trip"
	"github.com/voyagent/backend/internal/infrastructure/log"
)

// 列表分页默认值与上限
const (
	defaultListLimit = 100
	maxListLimit     = 500
)

// CreateInput 创建行程入参
type CreateInput struct {
	UserID      string
	Destination string
	StartDate   *time.Time
	EndDate     *time.Time
	Budget      *int
	Preferences json.RawMessage
}

// UpdateInput 更新行程入参
// PUT 语义：除状态和行程安排外整体替换，未携带的可选字段会被清空
type UpdateInput struct {
	Destination string
	StartDate   *time.Time
	EndDate     *time.Time
	Budget      *int
	Preferences json.RawMessage
	// Status 为空时保持原状态
	Status string
	// Itinerary 为 nil 时保持原行程安排
	Itinerary json.RawMessage
}

// Service 行程服务
// 行程只有创建和更新，没有物理删除；取消通过状态流转表达
type Service struct {
	trips  domainTrip.Repository
	logger *slog.Logger
}

// NewService 创建行程服务
func NewService(trips domainTrip.Repository) *Service {
	return &Service{
		trips:  trips,
		logger: log.NewModuleLogger("trip", "service"),
	}
}

// Create 创建行程
// 目的地必填；新行程总是从 gathering 状态开始
func (s *Service) Create(input CreateInput) (*domainTrip.Trip, error) {
	if strings.TrimSpace(input.Destination) == "" {
		return nil, domainTrip.ErrMissingDestination
	}

	t := &domainTrip.Trip{
		UserID:      input.UserID,
		Destination: strings.TrimSpace(input.Destination),
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Budget:      input.Budget,
		Preferences: input.Preferences,
		Status:      domainTrip.StatusGathering,
	}

	if err := s.trips.Save(t); err != nil {
		return nil, fmt.Errorf("failed to create trip: %w", err)
	}

	s.logger.Info("Trip created",
		"trip_id", t.ID,
		"user_id", t.UserID,
		"destination", t.Destination,
	)

	return t, nil
}

// Get 根据 ID 获取行程
func (s *Service) Get(id string) (*domainTrip.Trip, error) {
	t, err := s.trips.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load trip: %w", err)
	}
	if t == nil {
		return nil, domainTrip.ErrTripNotFound
	}
	return t, nil
}

// List 分页获取行程列表
// userID 为空时返回所有用户的行程（认证未接入，前端按 mock 用户查询）
func (s *Service) List(userID string, skip, limit int) ([]*domainTrip.Trip, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	trips, err := s.trips.FindAll(userID, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	if trips == nil {
		trips = []*domainTrip.Trip{}
	}
	return trips, nil
}

// Update 更新行程
// 未知状态被拒绝；状态或行程安排未携带时保留原值
func (s *Service) Update(id string, input UpdateInput) (*domainTrip.Trip, error) {
	if strings.TrimSpace(input.Destination) == "" {
		return nil, domainTrip.ErrMissingDestination
	}
	if input.Status != "" && !domainTrip.Status(input.Status).IsValid() {
		return nil, domainTrip.ErrInvalidStatus
	}

	t, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	t.Destination = strings.TrimSpace(input.Destination)
	t.StartDate = input.StartDate
	t.EndDate = input.EndDate
	t.Budget = input.Budget
	t.Preferences = input.Preferences
	if input.Status != "" {
		t.Status = domainTrip.Status(input.Status)
	}
	if input.Itinerary != nil {
		t.Itinerary = input.Itinerary
	}

	if err := s.trips.Save(t); err != nil {
		return nil, fmt.Errorf("failed to update trip: %w", err)
	}

	s.logger.Info("Trip updated",
		"trip_id", t.ID,
		"status", t.Status,
	)

	return t, nil
}
