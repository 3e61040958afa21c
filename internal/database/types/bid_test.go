package types_test

import (
	"testing"
	"time"

	"github.com/gongguhub/gonggu/internal/database/types"
	"github.com/gongguhub/gonggu/internal/database/types/enum"
	"github.com/stretchr/testify/assert"
)

func TestBidOutranks(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)

	t.Run("support bids favor the higher subsidy", func(t *testing.T) {
		t.Parallel()

		high := &types.Bid{Amount: 150000, Type: enum.BidTypeSupport, CreatedAt: base.Add(time.Hour)}
		low := &types.Bid{Amount: 100000, Type: enum.BidTypeSupport, CreatedAt: base}

		assert.True(t, high.Outranks(low))
		assert.False(t, low.Outranks(high))
	})

	t.Run("price bids favor the lower price", func(t *testing.T) {
		t.Parallel()

		cheap := &types.Bid{Amount: 100000, Type: enum.BidTypePrice, CreatedAt: base.Add(time.Hour)}
		expensive := &types.Bid{Amount: 150000, Type: enum.BidTypePrice, CreatedAt: base}

		assert.True(t, cheap.Outranks(expensive))
		assert.False(t, expensive.Outranks(cheap))
	})

	t.Run("equal amounts fall back to submission time", func(t *testing.T) {
		t.Parallel()

		early := &types.Bid{Amount: 100000, Type: enum.BidTypeSupport, CreatedAt: base}
		late := &types.Bid{Amount: 100000, Type: enum.BidTypeSupport, CreatedAt: base.Add(time.Minute)}

		assert.True(t, early.Outranks(late))
		assert.False(t, late.Outranks(early))
	})
}
