package trip

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainTrip "github.com/voyagent/backend/internal/domain/trip"
)

// mockRepository 实现 trip.Repository 用于测试
type mockRepository struct {
	trips   map[string]*domainTrip.Trip
	saveErr error
}

func newMockRepository() *mockRepository {
	return &mockRepository{trips: make(map[string]*domainTrip.Trip)}
}

func (m *mockRepository) Save(t *domainTrip.Trip) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	if t.ID == "" {
		t.ID = fmt.Sprintf("trip-%d", len(m.trips)+1)
	}
	m.trips[t.ID] = t
	return nil
}

func (m *mockRepository) FindByID(id string) (*domainTrip.Trip, error) {
	return m.trips[id], nil
}

func (m *mockRepository) FindAll(userID string, offset, limit int) ([]*domainTrip.Trip, error) {
	var result []*domainTrip.Trip
	for _, t := range m.trips {
		if userID == "" || t.UserID == userID {
			result = append(result, t)
		}
	}
	return result, nil
}

func (m *mockRepository) Count(userID string) (int, error) {
	trips, _ := m.FindAll(userID, 0, 0)
	return len(trips), nil
}

func TestService_Create(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)

	budget := 2000
	trip, err := service.Create(CreateInput{
		UserID:      "default_user",
		Destination: "Paris",
		Budget:      &budget,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, trip.ID, "应生成行程 ID")
	assert.Equal(t, "Paris", trip.Destination, "目的地应原样保留")
	require.NotNil(t, trip.Budget)
	assert.Equal(t, 2000, *trip.Budget, "预算应原样保留")
	assert.Equal(t, domainTrip.StatusGathering, trip.Status, "新行程应为 gathering 状态")
}

func TestService_Create_MissingDestination(t *testing.T) {
	service := NewService(newMockRepository())

	for _, destination := range []string{"", "   "} {
		_, err := service.Create(CreateInput{UserID: "default_user", Destination: destination})
		assert.ErrorIs(t, err, domainTrip.ErrMissingDestination)
	}
}

func TestService_Create_TrimsDestination(t *testing.T) {
	service := NewService(newMockRepository())

	trip, err := service.Create(CreateInput{UserID: "default_user", Destination: "  Tokyo  "})
	require.NoError(t, err)
	assert.Equal(t, "Tokyo", trip.Destination)
}

func TestService_Get(t *testing.T) {
	repo := newMockRepository()
	repo.trips["trip-1"] = &domainTrip.Trip{ID: "trip-1", UserID: "default_user", Destination: "Rome"}
	service := NewService(repo)

	trip, err := service.Get("trip-1")
	require.NoError(t, err)
	assert.Equal(t, "Rome", trip.Destination)

	_, err = service.Get("missing")
	assert.ErrorIs(t, err, domainTrip.ErrTripNotFound)
}

func TestService_List(t *testing.T) {
	repo := newMockRepository()
	repo.trips["trip-1"] = &domainTrip.Trip{ID: "trip-1", UserID: "alice", Destination: "Rome"}
	repo.trips["trip-2"] = &domainTrip.Trip{ID: "trip-2", UserID: "bob", Destination: "Lisbon"}
	service := NewService(repo)

	all, err := service.List("", 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := service.List("alice", 0, 0)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Rome", mine[0].Destination)
}

func TestService_List_EmptyResultIsNotNil(t *testing.T) {
	service := NewService(newMockRepository())

	trips, err := service.List("nobody", 0, 10)
	require.NoError(t, err)
	assert.NotNil(t, trips, "空列表应返回空切片而不是 nil")
	assert.Empty(t, trips)
}

func TestService_Update(t *testing.T) {
	repo := newMockRepository()
	budget := 1500
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	repo.trips["trip-1"] = &domainTrip.Trip{
		ID:          "trip-1",
		UserID:      "default_user",
		Destination: "Rome",
		Budget:      &budget,
		Status:      domainTrip.StatusGathering,
	}
	service := NewService(repo)

	newBudget := 3000
	updated, err := service.Update("trip-1", UpdateInput{
		Destination: "Florence",
		StartDate:   &start,
		Budget:      &newBudget,
		Status:      string(domainTrip.StatusPlanning),
	})
	require.NoError(t, err)

	assert.Equal(t, "Florence", updated.Destination)
	assert.Equal(t, domainTrip.StatusPlanning, updated.Status)
	require.NotNil(t, updated.Budget)
	assert.Equal(t, 3000, *updated.Budget)
	require.NotNil(t, updated.StartDate)
	assert.True(t, updated.StartDate.Equal(start))
}

func TestService_Update_ReplacesOptionalFields(t *testing.T) {
	repo := newMockRepository()
	budget := 1500
	repo.trips["trip-1"] = &domainTrip.Trip{
		ID:          "trip-1",
		UserID:      "default_user",
		Destination: "Rome",
		Budget:      &budget,
		Status:      domainTrip.StatusGathering,
	}
	service := NewService(repo)

	// PUT 语义：未携带预算时清空
	updated, err := service.Update("trip-1", UpdateInput{Destination: "Rome"})
	require.NoError(t, err)
	assert.Nil(t, updated.Budget, "未携带的可选字段应被清空")
	assert.Equal(t, domainTrip.StatusGathering, updated.Status, "未携带状态时应保留原状态")
}

func TestService_Update_InvalidStatus(t *testing.T) {
	repo := newMockRepository()
	repo.trips["trip-1"] = &domainTrip.Trip{ID: "trip-1", UserID: "default_user", Destination: "Rome"}
	service := NewService(repo)

	_, err := service.Update("trip-1", UpdateInput{Destination: "Rome", Status: "teleporting"})
	assert.ErrorIs(t, err, domainTrip.ErrInvalidStatus)
}

func TestService_Update_NotFound(t *testing.T) {
	service := NewService(newMockRepository())

	_, err := service.Update("missing", UpdateInput{Destination: "Rome"})
	assert.ErrorIs(t, err, domainTrip.ErrTripNotFound)
}
