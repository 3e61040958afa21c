package convert_test

import (
	"testing"
	"time"

	dbTypes "github.com/gongguhub/gonggu/internal/database/types"
	"github.com/gongguhub/gonggu/internal/database/types/enum"
	"github.com/gongguhub/gonggu/internal/rest/convert"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupBuy(t *testing.T) {
	t.Parallel()

	t.Run("nil passes through", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, convert.GroupBuy(nil))
	})

	t.Run("status renders as its name", func(t *testing.T) {
		t.Parallel()

		winningBid := int64(9)
		groupBuy := &dbTypes.GroupBuy{
			ID:           3,
			Title:        "mechanical keyboards",
			Status:       enum.GroupBuyStatusFinalSelectionBuyers,
			WinningBidID: &winningBid,
		}

		out := convert.GroupBuy(groupBuy)
		require.NotNil(t, out)
		assert.Equal(t, "final_selection_buyers", out.Status)
		assert.Equal(t, &winningBid, out.WinningBidID)
	})
}

func TestBids(t *testing.T) {
	t.Parallel()

	bids := []*dbTypes.Bid{
		{ID: 1, Type: enum.BidTypeSupport, Status: enum.BidStatusSelected},
		{ID: 2, Type: enum.BidTypePrice, Status: enum.BidStatusRejected},
	}

	out := convert.Bids(bids)
	require.Len(t, out, 2)
	assert.Equal(t, "support", out[0].Type)
	assert.Equal(t, "selected", out[0].Status)
	assert.Equal(t, "price", out[1].Type)
	assert.Equal(t, "rejected", out[1].Status)
}

func TestConfirmationStats(t *testing.T) {
	t.Parallel()

	out := convert.ConfirmationStats(dbTypes.ConfirmationStats{
		Total:     10,
		Confirmed: 6,
		Cancelled: 3,
		Pending:   1,
	})

	require.NotNil(t, out)
	assert.Equal(t, 10, out.Total)
	assert.InDelta(t, 60.0, out.Rate, 0.001)
}

func TestReport(t *testing.T) {
	t.Parallel()

	reportID := uuid.New()
	processed := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	report := &dbTypes.NoShowReport{
		ID:          reportID,
		Type:        enum.ReportTypeSellerNoShow,
		Status:      enum.ReportStatusResolved,
		ProcessedAt: &processed,
	}

	out := convert.Report(report)
	require.NotNil(t, out)
	assert.Equal(t, reportID.String(), out.ID)
	assert.Equal(t, "seller_noshow", out.Type)
	assert.Equal(t, "resolved", out.Status)
	assert.Equal(t, &processed, out.ProcessedAt)
}

func TestPenalty(t *testing.T) {
	t.Parallel()

	penalty := &dbTypes.Penalty{
		ID:           uuid.New(),
		Type:         enum.PenaltyTypeFalseReport,
		Status:       enum.PenaltyStatusActive,
		DurationDays: 30,
	}

	out := convert.Penalty(penalty)
	require.NotNil(t, out)
	assert.Equal(t, "false_report_suspension", out.Type)
	assert.Equal(t, "active", out.Status)
	assert.Equal(t, 30, out.DurationDays)
}
