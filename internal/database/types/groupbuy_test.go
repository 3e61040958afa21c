package types_test

import (
	"testing"
	"time"

	"github.com/gongguhub/gonggu/internal/database/types"
	"github.com/stretchr/testify/assert"
)

func TestGroupBuyDeadlines(t *testing.T) {
	t.Parallel()

	endTime := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	selectionEnd := endTime.Add(24 * time.Hour)
	groupBuy := &types.GroupBuy{
		EndTime:           endTime,
		FinalSelectionEnd: &selectionEnd,
	}

	t.Run("bidding ends at the end time", func(t *testing.T) {
		t.Parallel()

		assert.False(t, groupBuy.BiddingEnded(endTime.Add(-time.Second)))
		assert.True(t, groupBuy.BiddingEnded(endTime))
	})

	t.Run("final selection closes at its deadline", func(t *testing.T) {
		t.Parallel()

		assert.True(t, groupBuy.FinalSelectionOpen(selectionEnd.Add(-time.Second)))
		assert.False(t, groupBuy.FinalSelectionOpen(selectionEnd))
	})

	t.Run("no final selection deadline means closed", func(t *testing.T) {
		t.Parallel()

		recruiting := &types.GroupBuy{EndTime: endTime}
		assert.False(t, recruiting.FinalSelectionOpen(endTime))
	})
}

func TestGroupBuyFull(t *testing.T) {
	t.Parallel()

	groupBuy := &types.GroupBuy{MaxParticipants: 5, CurrentParticipants: 4}
	assert.False(t, groupBuy.Full())

	groupBuy.CurrentParticipants = 5
	assert.True(t, groupBuy.Full())
}
