package types

import (
	"time"

	"github.com/gongguhub/gonggu/internal/database/types/enum"
	"github.com/google/uuid"
)

// NoShowPenaltyDays returns the restriction duration for the nth verified
// no-show: 24h, then 48h, then 72h for every strike after the second.
func NoShowPenaltyDays(verifiedCount int) int {
	switch {
	case verifiedCount <= 1:
		return 1
	case verifiedCount == 2:
		return 2
	default:
		return 3
	}
}

// NeedsManualReview reports whether the strike count flags the account for
// manual review and possible suspension.
func NeedsManualReview(verifiedCount int) bool {
	return verifiedCount >= 3
}

// Penalty represents a time-boxed restriction on starting or joining
// group-buys.
type Penalty struct {
	ID           uuid.UUID          `bun:",pk,type:uuid"` // Unique identifier
	UserID       int64              `bun:",notnull"`      // Restricted user
	Type         enum.PenaltyType   `bun:",notnull"`      // No-show ladder or false-report suspension
	Status       enum.PenaltyStatus `bun:",notnull"`      // Enforcement state; expiry is still wall-clock checked
	Reason       string             `bun:",type:text"`    // Human-readable issuance reason
	DurationDays int                `bun:",notnull"`      // Restriction length in days
	StartDate    time.Time          `bun:",notnull"`
	EndDate      time.Time          `bun:",notnull"`               // Always StartDate + DurationDays
	ReportCount  int                `bun:",notnull"`               // Verified no-show count at issuance
	ManualReview bool               `bun:",notnull,default:false"` // Third strike and beyond
	IssuedBy     int64              `bun:",nullzero"`              // Admin who issued the penalty (0 if system)
	RevokedBy    *int64             `bun:",nullzero"`              // Admin who revoked it
	CreatedAt    time.Time          `bun:",notnull"`
	UpdatedAt    time.Time          `bun:",notnull"`
}

// IsExpired checks if the restriction window has lapsed, regardless of the
// stored status.
func (p *Penalty) IsExpired(now time.Time) bool {
	return !now.Before(p.EndDate)
}

// InForce checks if the penalty currently restricts the user.
func (p *Penalty) InForce(now time.Time) bool {
	return p.Status == enum.PenaltyStatusActive && !p.IsExpired(now)
}
