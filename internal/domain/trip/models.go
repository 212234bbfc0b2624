package trip

import (
	"encoding/json"
	"time"
)

// Status 行程状态
type Status string

const (
	// StatusGathering 收集需求阶段（创建后的初始状态）
	StatusGathering Status = "gathering"
	// StatusPlanning 规划中
	StatusPlanning Status = "planning"
	// StatusBooked 已预订
	StatusBooked Status = "booked"
	// StatusCompleted 已完成
	StatusCompleted Status = "completed"
	// StatusCancelled 已取消
	StatusCancelled Status = "cancelled"
)

// IsValid 检查状态是否合法
func (s Status) IsValid() bool {
	switch s {
	case StatusGathering, StatusPlanning, StatusBooked, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Trip 行程实体
// 行程不做物理删除，取消的行程置为 cancelled 状态
type Trip struct {
	ID          string          `json:"id"`                    // 唯一标识
	UserID      string          `json:"user_id"`               // 所属用户
	Destination string          `json:"destination"`           // 目的地
	StartDate   *time.Time      `json:"start_date,omitempty"`  // 开始日期（可选）
	EndDate     *time.Time      `json:"end_date,omitempty"`    // 结束日期（可选）
	Budget      *int            `json:"budget,omitempty"`      // 预算（可选）
	Status      Status          `json:"status"`                // 状态
	Itinerary   json.RawMessage `json:"itinerary,omitempty"`   // 行程安排（结构化数据，可选）
	Preferences json.RawMessage `json:"preferences,omitempty"` // 用户偏好（可选）
	CreatedAt   time.Time       `json:"created_at"`            // 创建时间
	UpdatedAt   time.Time       `json:"updated_at"`            // 更新时间
}

// Context 行程上下文
// 注入对话系统提示词的行程摘要信息
type Context struct {
	Destination string  `json:"destination"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	Budget      *int    `json:"budget"`
	Status      string  `json:"status"`
}

// BuildContext 构造注入提示词的行程上下文
func (t *Trip) BuildContext() *Context {
	ctx := &Context{
		Destination: t.Destination,
		Budget:      t.Budget,
		Status:      string(t.Status),
	}
	if t.StartDate != nil {
		s := t.StartDate.Format(time.RFC3339)
		ctx.StartDate = &s
	}
	if t.EndDate != nil {
		s := t.EndDate.Format(time.RFC3339)
		ctx.EndDate = &s
	}
	return ctx
}
