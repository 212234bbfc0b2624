//go:build integration
// +build integration

// 行程管理集成测试（黑盒）
// 覆盖创建 → 查询 → 列表 → 更新的完整流程及错误路径

package integration

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainTrip "github.com/voyagent/backend/internal/domain/trip"
	"github.com/voyagent/backend/test/integration/framework"
)

// TestTripCRUD 行程增删查改全流程
func TestTripCRUD(t *testing.T) {
	framework.RequireDaemonBinary(t)

	daemon, err := framework.NewTestDaemon(framework.BinaryPath, "trips")
	require.NoError(t, err, "创建 daemon 失败")
	require.NoError(t, daemon.Start(), "启动 daemon 失败")
	defer daemon.Stop()

	client := framework.NewAPIClient(daemon.BaseURL())

	// === 阶段 1: 创建行程 ===
	t.Log("--- 阶段 1: 创建行程 ---")

	budget := 2500
	created, apiErr, err := client.CreateTrip(framework.TripRequest{
		Destination: "Paris",
		StartDate:   "2026-09-01",
		EndDate:     "2026-09-06",
		Budget:      &budget,
		UserID:      "alice",
	})
	require.NoError(t, err, "创建行程请求失败")
	require.Nil(t, apiErr, "创建行程不应返回错误")

	assert.NotEmpty(t, created.ID, "应生成行程 ID")
	assert.Equal(t, "Paris", created.Destination)
	assert.Equal(t, "alice", created.UserID)
	assert.Equal(t, domainTrip.StatusGathering, created.Status, "新行程应处于 gathering 状态")
	require.NotNil(t, created.Budget)
	assert.Equal(t, 2500, *created.Budget)
	require.NotNil(t, created.StartDate)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), created.StartDate.UTC())
	t.Logf("Trip created: %s", created.ID)

	// === 阶段 2: 查询行程 ===
	t.Log("--- 阶段 2: 查询行程 ---")

	fetched, apiErr, err := client.GetTrip(created.ID)
	require.NoError(t, err, "查询行程请求失败")
	require.Nil(t, apiErr, "查询行程不应返回错误")
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, "Paris", fetched.Destination)

	// === 阶段 3: 列表与分页 ===
	t.Log("--- 阶段 3: 列表与分页 ---")

	_, apiErr, err = client.CreateTrip(framework.TripRequest{Destination: "Tokyo", UserID: "alice"})
	require.NoError(t, err)
	require.Nil(t, apiErr)
	_, apiErr, err = client.CreateTrip(framework.TripRequest{Destination: "Rome", UserID: "bob"})
	require.NoError(t, err)
	require.Nil(t, apiErr)

	aliceTrips, apiErr, err := client.ListTrips("alice", 0, 100)
	require.NoError(t, err, "获取行程列表失败")
	require.Nil(t, apiErr)
	assert.Len(t, aliceTrips, 2, "alice 应有 2 条行程")

	page, apiErr, err := client.ListTrips("alice", 1, 1)
	require.NoError(t, err)
	require.Nil(t, apiErr)
	require.Len(t, page, 1, "分页应只返回 1 条")

	// === 阶段 4: 更新行程 ===
	t.Log("--- 阶段 4: 更新行程 ---")

	newBudget := 3000
	updated, apiErr, err := client.UpdateTrip(created.ID, framework.TripRequest{
		Destination: "Paris",
		StartDate:   "2026-09-02",
		EndDate:     "2026-09-07",
		Budget:      &newBudget,
		Status:      "planning",
	})
	require.NoError(t, err, "更新行程请求失败")
	require.Nil(t, apiErr, "更新行程不应返回错误")
	assert.Equal(t, domainTrip.StatusPlanning, updated.Status)
	require.NotNil(t, updated.Budget)
	assert.Equal(t, 3000, *updated.Budget)

	// 未携带状态时保留原值
	kept, apiErr, err := client.UpdateTrip(created.ID, framework.TripRequest{
		Destination: "Paris and Versailles",
	})
	require.NoError(t, err)
	require.Nil(t, apiErr)
	assert.Equal(t, "Paris and Versailles", kept.Destination)
	assert.Equal(t, domainTrip.StatusPlanning, kept.Status, "未携带状态时应保留 planning")
	assert.Nil(t, kept.Budget, "PUT 整体替换语义下未携带的预算应被清空")
}

// TestTripCRUD_ErrorPaths 行程接口的错误路径
func TestTripCRUD_ErrorPaths(t *testing.T) {
	framework.RequireDaemonBinary(t)

	daemon, err := framework.NewTestDaemon(framework.BinaryPath, "trip-errors")
	require.NoError(t, err, "创建 daemon 失败")
	require.NoError(t, daemon.Start(), "启动 daemon 失败")
	defer daemon.Stop()

	client := framework.NewAPIClient(daemon.BaseURL())

	t.Run("缺少目的地", func(t *testing.T) {
		_, apiErr, err := client.CreateTrip(framework.TripRequest{UserID: "alice"})
		require.NoError(t, err)
		require.NotNil(t, apiErr)
		assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	})

	t.Run("非法日期", func(t *testing.T) {
		_, apiErr, err := client.CreateTrip(framework.TripRequest{
			Destination: "Paris",
			StartDate:   "not-a-date",
		})
		require.NoError(t, err)
		require.NotNil(t, apiErr)
		assert.Equal(t, http.StatusBadRequest, apiErr.Status)
		assert.Equal(t, 100001, apiErr.Code)
	})

	t.Run("行程不存在", func(t *testing.T) {
		_, apiErr, err := client.GetTrip("no-such-trip")
		require.NoError(t, err)
		require.NotNil(t, apiErr)
		assert.Equal(t, http.StatusNotFound, apiErr.Status)
		assert.Equal(t, 200003, apiErr.Code)
	})

	t.Run("无效状态", func(t *testing.T) {
		created, apiErr, err := client.CreateTrip(framework.TripRequest{Destination: "Kyoto"})
		require.NoError(t, err)
		require.Nil(t, apiErr)

		_, apiErr, err = client.UpdateTrip(created.ID, framework.TripRequest{
			Destination: "Kyoto",
			Status:      "teleporting",
		})
		require.NoError(t, err)
		require.NotNil(t, apiErr)
		assert.Equal(t, http.StatusBadRequest, apiErr.Status)
		assert.Equal(t, 200002, apiErr.Code)
	})
}

// TestTripPersistence_Restart 行程在服务重启后仍可查询
func TestTripPersistence_Restart(t *testing.T) {
	framework.RequireDaemonBinary(t)

	daemon, err := framework.NewTestDaemon(framework.BinaryPath, "restart")
	require.NoError(t, err, "创建 daemon 失败")
	require.NoError(t, daemon.Start(), "启动 daemon 失败")

	client := framework.NewAPIClient(daemon.BaseURL())
	created, apiErr, err := client.CreateTrip(framework.TripRequest{
		Destination: "Lisbon",
		UserID:      "alice",
	})
	require.NoError(t, err)
	require.Nil(t, apiErr)

	// 停止但保留数据目录
	require.NoError(t, daemon.StopWithCleanup(false), "停止 daemon 失败")

	// 用同一数据目录重启
	restarted, err := framework.NewTestDaemonWithConfig(
		framework.BinaryPath, "restart", daemon.DataDir, daemon.HTTPPort)
	require.NoError(t, err)
	require.NoError(t, restarted.Start(), "重启 daemon 失败")
	defer restarted.Stop()

	client = framework.NewAPIClient(restarted.BaseURL())
	fetched, apiErr, err := client.GetTrip(created.ID)
	require.NoError(t, err, "重启后查询行程失败")
	require.Nil(t, apiErr, "重启后行程应仍然存在")
	assert.Equal(t, "Lisbon", fetched.Destination)
	assert.Equal(t, created.CreatedAt.UTC(), fetched.CreatedAt.UTC(), "创建时间应保持不变")
}
