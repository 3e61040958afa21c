package service_test

import (
	"testing"
	"time"

	"github.com/gongguhub/gonggu/internal/database/service"
	"github.com/gongguhub/gonggu/internal/database/types"
	"github.com/gongguhub/gonggu/internal/database/types/enum"
	"github.com/stretchr/testify/assert"
)

func TestRankBids(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)

	t.Run("support bids rank highest subsidy first", func(t *testing.T) {
		t.Parallel()

		bids := []*types.Bid{
			{ID: 1, Amount: 100000, Type: enum.BidTypeSupport, CreatedAt: base},
			{ID: 2, Amount: 150000, Type: enum.BidTypeSupport, CreatedAt: base.Add(time.Hour)},
			{ID: 3, Amount: 120000, Type: enum.BidTypeSupport, CreatedAt: base.Add(2 * time.Hour)},
		}

		service.RankBids(bids)

		assert.Equal(t, int64(2), bids[0].ID)
		assert.Equal(t, int64(3), bids[1].ID)
		assert.Equal(t, int64(1), bids[2].ID)
	})

	t.Run("price bids rank lowest price first", func(t *testing.T) {
		t.Parallel()

		bids := []*types.Bid{
			{ID: 1, Amount: 150000, Type: enum.BidTypePrice, CreatedAt: base},
			{ID: 2, Amount: 100000, Type: enum.BidTypePrice, CreatedAt: base.Add(time.Hour)},
		}

		service.RankBids(bids)

		assert.Equal(t, int64(2), bids[0].ID)
		assert.Equal(t, int64(1), bids[1].ID)
	})

	t.Run("ties break toward the earlier submission", func(t *testing.T) {
		t.Parallel()

		bids := []*types.Bid{
			{ID: 1, Amount: 100000, Type: enum.BidTypeSupport, CreatedAt: base.Add(time.Minute)},
			{ID: 2, Amount: 100000, Type: enum.BidTypeSupport, CreatedAt: base},
		}

		service.RankBids(bids)

		assert.Equal(t, int64(2), bids[0].ID)
		assert.Equal(t, int64(1), bids[1].ID)
	})

	t.Run("empty slice is a no-op", func(t *testing.T) {
		t.Parallel()

		var bids []*types.Bid
		service.RankBids(bids)
		assert.Empty(t, bids)
	})
}
