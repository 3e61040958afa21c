package types

import (
	"time"

	"github.com/gongguhub/gonggu/internal/database/types/enum"
	"github.com/google/uuid"
)

// ReportDedupWindow is the rolling window within which a reporter may file
// at most one report against the same user.
const ReportDedupWindow = 24 * time.Hour

// NoShowReport represents a no-show report awaiting adjudication.
type NoShowReport struct {
	ID             uuid.UUID         `bun:",pk,type:uuid"`          // Unique identifier
	ReporterID     int64             `bun:",notnull"`               // User who filed the report
	ReportedUserID int64             `bun:",notnull"`               // User being reported
	GroupBuyID     int64             `bun:",notnull"`               // Trade the no-show occurred in
	Type           enum.ReportType   `bun:",notnull"`               // Buyer or seller no-show
	Status         enum.ReportStatus `bun:",notnull"`               // Adjudication state
	Description    string            `bun:",type:text"`             // Reporter's account of what happened
	AdminComment   string            `bun:",type:text,nullzero"`    // Verdict notes from the adjudicator
	FalseReport    bool              `bun:",notnull,default:false"` // Set when the report was determined to be intentionally false
	CreatedAt      time.Time         `bun:",notnull"`
	ProcessedAt    *time.Time        `bun:",nullzero"` // When a final verdict was recorded
}

// WithinDedupWindow checks if a report created at createdAt still blocks a
// new report from the same reporter against the same user at now.
func WithinDedupWindow(createdAt, now time.Time) bool {
	return now.Sub(createdAt) < ReportDedupWindow
}
