package types

import (
	"time"

	"github.com/gongguhub/gonggu/internal/database/types/enum"
)

// Participant represents a buyer's membership in a group-buy. One row exists
// per (group-buy, buyer) pair.
type Participant struct {
	GroupBuyID    int64              `bun:",pk"`       // Group-buy the buyer joined
	BuyerID       int64              `bun:",pk"`       // Buyer reference from the auth provider
	FinalDecision enum.FinalDecision `bun:",notnull"`  // Set at most once per final-selection cycle
	ConfirmedAt   *time.Time         `bun:",nullzero"` // When the decision was recorded
	JoinedAt      time.Time          `bun:",notnull"`
}

// ConfirmationStats is a snapshot of buyer decisions for one group-buy. The
// tallies are computed on demand and may trail in-flight writes.
type ConfirmationStats struct {
	Total     int
	Confirmed int
	Cancelled int
	Pending   int
}

// Rate returns the confirmation rate as a percentage. Zero participants
// yield a zero rate.
func (s ConfirmationStats) Rate() float64 {
	if s.Total == 0 {
		return 0
	}

	return float64(s.Confirmed) / float64(s.Total) * 100
}

// PenalizesWithdrawal reports whether a seller withdrawing at this snapshot
// is penalized. Sellers may walk away free only while the confirmation rate
// is at or below the threshold, protecting buyers once a critical mass has
// committed.
func (s ConfirmationStats) PenalizesWithdrawal(threshold float64) bool {
	return s.Rate() > threshold
}
