package enum_test

import (
	"testing"

	"github.com/gongguhub/gonggu/internal/database/types/enum"
	"github.com/stretchr/testify/assert"
)

func TestGroupBuyStatusCanTransitionTo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		from    enum.GroupBuyStatus
		to      enum.GroupBuyStatus
		allowed bool
	}{
		{"recruiting to bidding", enum.GroupBuyStatusRecruiting, enum.GroupBuyStatusBidding, true},
		{"recruiting skips to confirmed", enum.GroupBuyStatusRecruiting, enum.GroupBuyStatusConfirmed, false},
		{"bidding to seller selection", enum.GroupBuyStatusBidding, enum.GroupBuyStatusFinalSelectionSeller, true},
		{"bidding skips seller phase", enum.GroupBuyStatusBidding, enum.GroupBuyStatusFinalSelectionBuyers, false},
		{"seller confirm opens buyer phase", enum.GroupBuyStatusFinalSelectionSeller, enum.GroupBuyStatusFinalSelectionBuyers, true},
		{"seller phase back to bidding", enum.GroupBuyStatusFinalSelectionSeller, enum.GroupBuyStatusBidding, true},
		{"buyer phase to confirmed", enum.GroupBuyStatusFinalSelectionBuyers, enum.GroupBuyStatusConfirmed, true},
		{"buyer phase back to bidding", enum.GroupBuyStatusFinalSelectionBuyers, enum.GroupBuyStatusBidding, true},
		{"buyer phase skips to completed", enum.GroupBuyStatusFinalSelectionBuyers, enum.GroupBuyStatusCompleted, false},
		{"confirmed to in progress", enum.GroupBuyStatusConfirmed, enum.GroupBuyStatusInProgress, true},
		{"in progress to completed", enum.GroupBuyStatusInProgress, enum.GroupBuyStatusCompleted, true},
		{"completed is terminal", enum.GroupBuyStatusCompleted, enum.GroupBuyStatusCancelled, false},
		{"cancelled is terminal", enum.GroupBuyStatusCancelled, enum.GroupBuyStatusRecruiting, false},
		{"recruiting can cancel", enum.GroupBuyStatusRecruiting, enum.GroupBuyStatusCancelled, true},
		{"bidding can cancel", enum.GroupBuyStatusBidding, enum.GroupBuyStatusCancelled, true},
		{"in progress can cancel", enum.GroupBuyStatusInProgress, enum.GroupBuyStatusCancelled, true},
		{"no backward from confirmed", enum.GroupBuyStatusConfirmed, enum.GroupBuyStatusBidding, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestGroupBuyStatusIsTerminal(t *testing.T) {
	t.Parallel()

	assert.True(t, enum.GroupBuyStatusCompleted.IsTerminal())
	assert.True(t, enum.GroupBuyStatusCancelled.IsTerminal())
	assert.False(t, enum.GroupBuyStatusRecruiting.IsTerminal())
	assert.False(t, enum.GroupBuyStatusFinalSelectionBuyers.IsTerminal())
}
