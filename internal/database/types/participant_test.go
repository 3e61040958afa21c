package types_test

import (
	"testing"

	"github.com/gongguhub/gonggu/internal/database/types"
	"github.com/stretchr/testify/assert"
)

func TestConfirmationStatsRate(t *testing.T) {
	t.Parallel()

	t.Run("zero participants yield a zero rate", func(t *testing.T) {
		t.Parallel()

		stats := types.ConfirmationStats{}
		assert.InDelta(t, 0.0, stats.Rate(), 0.001)
	})

	t.Run("rate is confirmed over total", func(t *testing.T) {
		t.Parallel()

		stats := types.ConfirmationStats{Total: 10, Confirmed: 6, Cancelled: 4}
		assert.InDelta(t, 60.0, stats.Rate(), 0.001)
	})

	t.Run("pending counts against the rate", func(t *testing.T) {
		t.Parallel()

		stats := types.ConfirmationStats{Total: 10, Confirmed: 4, Pending: 6}
		assert.InDelta(t, 40.0, stats.Rate(), 0.001)
	})
}

func TestConfirmationStatsPenalizesWithdrawal(t *testing.T) {
	t.Parallel()

	const threshold = 50.0

	t.Run("withdrawal above the threshold is penalized", func(t *testing.T) {
		t.Parallel()

		stats := types.ConfirmationStats{Total: 10, Confirmed: 6, Cancelled: 4}
		assert.True(t, stats.PenalizesWithdrawal(threshold))
	})

	t.Run("withdrawal below the threshold is free", func(t *testing.T) {
		t.Parallel()

		stats := types.ConfirmationStats{Total: 10, Confirmed: 4, Cancelled: 6}
		assert.False(t, stats.PenalizesWithdrawal(threshold))
	})

	t.Run("exactly at the threshold is free", func(t *testing.T) {
		t.Parallel()

		stats := types.ConfirmationStats{Total: 10, Confirmed: 5, Cancelled: 5}
		assert.False(t, stats.PenalizesWithdrawal(threshold))
	})
}
