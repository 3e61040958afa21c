package types_test

import (
	"testing"
	"time"

	"github.com/gongguhub/gonggu/internal/database/types"
	"github.com/gongguhub/gonggu/internal/database/types/enum"
	"github.com/stretchr/testify/assert"
)

func TestNoShowPenaltyDays(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		strikes int
		want    int
	}{
		{"first strike restricts one day", 1, 1},
		{"second strike restricts two days", 2, 2},
		{"third strike restricts three days", 3, 3},
		{"later strikes stay at three days", 7, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, types.NoShowPenaltyDays(tt.strikes))
		})
	}
}

func TestNeedsManualReview(t *testing.T) {
	t.Parallel()

	assert.False(t, types.NeedsManualReview(1))
	assert.False(t, types.NeedsManualReview(2))
	assert.True(t, types.NeedsManualReview(3))
	assert.True(t, types.NeedsManualReview(10))
}

func TestPenaltyInForce(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)

	t.Run("active within the window restricts", func(t *testing.T) {
		t.Parallel()

		penalty := &types.Penalty{
			Status:  enum.PenaltyStatusActive,
			EndDate: now.Add(24 * time.Hour),
		}
		assert.True(t, penalty.InForce(now))
	})

	t.Run("lapsed end date no longer restricts even if still marked active", func(t *testing.T) {
		t.Parallel()

		penalty := &types.Penalty{
			Status:  enum.PenaltyStatusActive,
			EndDate: now.Add(-time.Minute),
		}
		assert.True(t, penalty.IsExpired(now))
		assert.False(t, penalty.InForce(now))
	})

	t.Run("revoked penalty no longer restricts", func(t *testing.T) {
		t.Parallel()

		penalty := &types.Penalty{
			Status:  enum.PenaltyStatusRevoked,
			EndDate: now.Add(24 * time.Hour),
		}
		assert.False(t, penalty.InForce(now))
	})
}

func TestWithinDedupWindow(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, types.WithinDedupWindow(now.Add(-2*time.Hour), now))
	assert.False(t, types.WithinDedupWindow(now.Add(-25*time.Hour), now))
	assert.False(t, types.WithinDedupWindow(now.Add(-types.ReportDedupWindow), now))
}
