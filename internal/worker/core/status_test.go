package core_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gongguhub/gonggu/internal/worker/core"
	"github.com/redis/rueidis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupMonitor(t *testing.T) *core.Monitor {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{mr.Addr()},
		DisableCache: true,
	})
	require.NoError(t, err)
	t.Cleanup(client.Close)

	return core.NewMonitor(client, zap.NewNop())
}

func TestMonitorReportAndGetStatuses(t *testing.T) {
	monitor := setupMonitor(t)
	ctx := context.Background()

	err := monitor.ReportStatus(ctx, core.Status{
		WorkerID:    "worker-1",
		WorkerType:  "sweep",
		CurrentTask: "sweeping expired deadlines",
		IsHealthy:   true,
	})
	require.NoError(t, err)

	err = monitor.ReportStatus(ctx, core.Status{
		WorkerID:   "worker-2",
		WorkerType: "sweep",
		IsHealthy:  false,
	})
	require.NoError(t, err)

	statuses, err := monitor.GetAllStatuses(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 2)

	byID := make(map[string]core.Status, len(statuses))
	for _, status := range statuses {
		assert.False(t, status.LastSeen.IsZero())
		byID[status.WorkerID] = status
	}

	assert.True(t, byID["worker-1"].IsHealthy)
	assert.Equal(t, "sweeping expired deadlines", byID["worker-1"].CurrentTask)
	assert.False(t, byID["worker-2"].IsHealthy)
}

func TestMonitorOverwritesPreviousStatus(t *testing.T) {
	monitor := setupMonitor(t)
	ctx := context.Background()

	require.NoError(t, monitor.ReportStatus(ctx, core.Status{
		WorkerID:   "worker-1",
		WorkerType: "sweep",
		IsHealthy:  true,
	}))
	require.NoError(t, monitor.ReportStatus(ctx, core.Status{
		WorkerID:   "worker-1",
		WorkerType: "sweep",
		IsHealthy:  false,
	}))

	statuses, err := monitor.GetAllStatuses(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.False(t, statuses[0].IsHealthy)
}
