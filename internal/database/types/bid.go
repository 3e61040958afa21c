package types

import (
	"time"

	"github.com/gongguhub/gonggu/internal/database/types/enum"
)

// Bid represents a seller's price or support offer against an open group-buy.
type Bid struct {
	ID         int64          `bun:",pk,autoincrement"` // Unique numeric identifier
	GroupBuyID int64          `bun:",notnull"`          // Group-buy the bid targets
	SellerID   int64          `bun:",notnull"`          // Seller who submitted the bid
	Amount     int64          `bun:",notnull"`          // Offer in integer currency units
	Type       enum.BidType   `bun:",notnull"`          // Price (lowest wins) or support (highest wins)
	Status     enum.BidStatus `bun:",notnull"`          // Selection state, mutated only by winner selection
	CreatedAt  time.Time      `bun:",notnull"`          // Submission time, used as the tie-breaker
}

// Outranks reports whether the bid beats other under the group-buy's bid
// type: higher subsidy wins for support bids, lower price wins for price
// bids, earlier submission breaks ties.
func (b *Bid) Outranks(other *Bid) bool {
	if b.Amount != other.Amount {
		if b.Type == enum.BidTypeSupport {
			return b.Amount > other.Amount
		}

		return b.Amount < other.Amount
	}

	return b.CreatedAt.Before(other.CreatedAt)
}
