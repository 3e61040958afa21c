package types

import (
	"time"

	"github.com/gongguhub/gonggu/internal/database/types/enum"
)

// GroupBuy represents a single recruiting-to-completion purchase campaign.
type GroupBuy struct {
	ID                  int64               `bun:",pk,autoincrement"` // Unique numeric identifier
	Title               string              `bun:",notnull"`          // Campaign title shown to buyers
	ProductID           int64               `bun:",notnull"`          // Read-only reference into the catalog service
	SellerID            int64               `bun:",nullzero"`         // Opening seller (0 when buyer-opened)
	Status              enum.GroupBuyStatus `bun:",notnull"`          // Current lifecycle stage
	MaxParticipants     int                 `bun:",notnull"`          // Participant cap
	CurrentParticipants int                 `bun:",notnull"`          // Joined participant count, never exceeds the cap
	StartTime           time.Time           `bun:",notnull"`          // When recruitment opened
	EndTime             time.Time           `bun:",notnull"`          // When the bidding stage closes
	FinalSelectionEnd   *time.Time          `bun:",nullzero"`         // Deadline for seller and buyer decisions
	WinningBidID        *int64              `bun:",nullzero"`         // Bid chosen by winner selection
	WinningBidAmount    *int64              `bun:",nullzero"`         // Amount of the selected bid
	CreatedAt           time.Time           `bun:",notnull"`
	UpdatedAt           time.Time           `bun:",notnull"`
}

// BiddingEnded checks if the bidding window has elapsed.
func (g *GroupBuy) BiddingEnded(now time.Time) bool {
	return !now.Before(g.EndTime)
}

// FinalSelectionOpen checks if decisions are still accepted. Deadlines are
// re-evaluated against the wall clock on every call rather than trusting a
// previously stored status.
func (g *GroupBuy) FinalSelectionOpen(now time.Time) bool {
	return g.FinalSelectionEnd != nil && now.Before(*g.FinalSelectionEnd)
}

// Full checks if the participant cap has been reached.
func (g *GroupBuy) Full() bool {
	return g.CurrentParticipants >= g.MaxParticipants
}
