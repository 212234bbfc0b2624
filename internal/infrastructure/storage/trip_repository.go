package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/voyagent/backend/internal/domain/trip"
)

// tripRepository 行程 SQLite 仓储实现
type tripRepository struct {
	db *sql.DB
}

// NewTripRepository 创建行程仓储实例
func NewTripRepository(db *sql.DB) trip.Repository {
	return &tripRepository{db: db}
}

// Save 保存行程
func (r *tripRepository) Save(t *trip.Trip) error {
	// 如果 ID 为空，生成新的 UUID
	if t.ID == "" {
		t.ID = uuid.New().String()
	}

	now := time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now

	var startDate, endDate, budget sql.NullInt64
	if t.StartDate != nil {
		startDate = sql.NullInt64{Int64: t.StartDate.UnixMilli(), Valid: true}
	}
	if t.EndDate != nil {
		endDate = sql.NullInt64{Int64: t.EndDate.UnixMilli(), Valid: true}
	}
	if t.Budget != nil {
		budget = sql.NullInt64{Int64: int64(*t.Budget), Valid: true}
	}

	var itinerary, preferences sql.NullString
	if len(t.Itinerary) > 0 {
		itinerary = sql.NullString{String: string(t.Itinerary), Valid: true}
	}
	if len(t.Preferences) > 0 {
		preferences = sql.NullString{String: string(t.Preferences), Valid: true}
	}

	// 使用 INSERT OR REPLACE 实现 upsert
	query := `
		INSERT OR REPLACE INTO trips
		(id, user_id, destination, start_date, end_date, budget, status, itinerary, preferences, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.Exec(query,
		t.ID,
		t.UserID,
		t.Destination,
		startDate,
		endDate,
		budget,
		string(t.Status),
		itinerary,
		preferences,
		t.CreatedAt.UnixMilli(),
		t.UpdatedAt.UnixMilli(),
	)

	if err != nil {
		return fmt.Errorf("failed to save trip: %w", err)
	}

	return nil
}

// FindByID 根据 ID 查找行程，不存在时返回 (nil, nil)
func (r *tripRepository) FindByID(id string) (*trip.Trip, error) {
	query := `
		SELECT id, user_id, destination, start_date, end_date, budget, status, itinerary, preferences, created_at, updated_at
		FROM trips
		WHERE id = ?`

	t, err := scanTrip(r.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query trip: %w", err)
	}

	return t, nil
}

// FindAll 分页获取行程列表
func (r *tripRepository) FindAll(userID string, offset, limit int) ([]*trip.Trip, error) {
	query := `
		SELECT id, user_id, destination, start_date, end_date, budget, status, itinerary, preferences, created_at, updated_at
		FROM trips`
	args := []interface{}{}

	if userID != "" {
		query += ` WHERE user_id = ?`
		args = append(args, userID)
	}
	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trips: %w", err)
	}
	defer rows.Close()

	var trips []*trip.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			continue
		}
		trips = append(trips, t)
	}

	return trips, nil
}

// Count 统计行程数量
func (r *tripRepository) Count(userID string) (int, error) {
	query := `SELECT COUNT(*) FROM trips`
	args := []interface{}{}

	if userID != "" {
		query += ` WHERE user_id = ?`
		args = append(args, userID)
	}

	var count int
	if err := r.db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count trips: %w", err)
	}

	return count, nil
}

// rowScanner 兼容 *sql.Row 和 *sql.Rows 的扫描接口
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanTrip 从查询结果扫描行程实体
func scanTrip(row rowScanner) (*trip.Trip, error) {
	var t trip.Trip
	var status string
	var startDate, endDate, budget sql.NullInt64
	var itinerary, preferences sql.NullString
	var createdAt, updatedAt int64

	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Destination,
		&startDate,
		&endDate,
		&budget,
		&status,
		&itinerary,
		&preferences,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Status = trip.Status(status)
	if startDate.Valid {
		d := time.UnixMilli(startDate.Int64)
		t.StartDate = &d
	}
	if endDate.Valid {
		d := time.UnixMilli(endDate.Int64)
		t.EndDate = &d
	}
	if budget.Valid {
		b := int(budget.Int64)
		t.Budget = &b
	}
	if itinerary.Valid {
		t.Itinerary = json.RawMessage(itinerary.String)
	}
	if preferences.Valid {
		t.Preferences = json.RawMessage(preferences.String)
	}
	t.CreatedAt = time.UnixMilli(createdAt)
	t.UpdatedAt = time.UnixMilli(updatedAt)

	return &t, nil
}

// 编译时检查接口实现
var _ trip.Repository = (*tripRepository)(nil)
