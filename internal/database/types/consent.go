package types

import (
	"time"

	"github.com/gongguhub/gonggu/internal/database/types/enum"
)

// Consent duration bounds in hours.
const (
	ConsentMinHours     = 1
	ConsentMaxHours     = 168
	ConsentDefaultHours = 24
)

// ClampConsentHours bounds an admin-supplied consent duration to [1,168]
// hours, substituting the default when unset.
func ClampConsentHours(hours int) int {
	switch {
	case hours == 0:
		return ConsentDefaultHours
	case hours < ConsentMinHours:
		return ConsentMinHours
	case hours > ConsentMaxHours:
		return ConsentMaxHours
	default:
		return hours
	}
}

// ConsentProcess represents an administrator-triggered, time-boxed batch
// agree/decline gate on the winning bid.
type ConsentProcess struct {
	ID         int64                     `bun:",pk,autoincrement"` // Unique numeric identifier
	GroupBuyID int64                     `bun:",notnull"`          // Group-buy being gated
	BidID      int64                     `bun:",notnull"`          // Winning bid participants consent to
	Status     enum.ConsentProcessStatus `bun:",notnull"`          // Open until approved or cancelled
	Deadline   time.Time                 `bun:",notnull"`          // Start time plus the clamped duration
	StartedBy  int64                     `bun:",notnull"`          // Admin who opened the process
	StartedAt  time.Time                 `bun:",notnull"`
	ClosedAt   *time.Time                `bun:",nullzero"` // When the process reached an outcome
}

// Expired checks if the deadline has passed.
func (p *ConsentProcess) Expired(now time.Time) bool {
	return !now.Before(p.Deadline)
}

// ConsentResponse represents one participant's answer in a consent process.
type ConsentResponse struct {
	ProcessID  int64             `bun:",pk"`       // Consent process being answered
	BuyerID    int64             `bun:",pk"`       // Participant reference
	State      enum.ConsentState `bun:",notnull"`  // Answered at most once
	AnsweredAt *time.Time        `bun:",nullzero"` // When the answer was recorded
}
