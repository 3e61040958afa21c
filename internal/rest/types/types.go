package types

import "time"

// GroupBuy represents a group-buy campaign on the wire.
type GroupBuy struct {
	ID                  int64      `json:"id"`
	Title               string     `json:"title"`
	ProductID           int64      `json:"productId"`
	SellerID            int64      `json:"sellerId,omitempty"`
	Status              string     `json:"status"`
	MaxParticipants     int        `json:"maxParticipants"`
	CurrentParticipants int        `json:"currentParticipants"`
	StartTime           time.Time  `json:"startTime"`
	EndTime             time.Time  `json:"endTime"`
	FinalSelectionEnd   *time.Time `json:"finalSelectionEnd,omitempty"`
	WinningBidID        *int64     `json:"winningBidId,omitempty"`
	WinningBidAmount    *int64     `json:"winningBidAmount,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
}

// Bid represents a seller's offer on the wire.
type Bid struct {
	ID         int64     `json:"id"`
	GroupBuyID int64     `json:"groupBuyId"`
	SellerID   int64     `json:"sellerId"`
	Amount     int64     `json:"amount"`
	Type       string    `json:"type"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ConfirmationStats represents a snapshot of buyer decisions.
type ConfirmationStats struct {
	Total     int     `json:"total"`
	Confirmed int     `json:"confirmed"`
	Cancelled int     `json:"cancelled"`
	Pending   int     `json:"pending"`
	Rate      float64 `json:"rate"`
}

// ConsentProcess represents a consent gate on the wire.
type ConsentProcess struct {
	ID         int64      `json:"id"`
	GroupBuyID int64      `json:"groupBuyId"`
	BidID      int64      `json:"bidId"`
	Status     string     `json:"status"`
	Deadline   time.Time  `json:"deadline"`
	StartedAt  time.Time  `json:"startedAt"`
	ClosedAt   *time.Time `json:"closedAt,omitempty"`
}

// Report represents a no-show report on the wire.
type Report struct {
	ID             string     `json:"id"`
	ReporterID     int64      `json:"reporterId"`
	ReportedUserID int64      `json:"reportedUserId"`
	GroupBuyID     int64      `json:"groupBuyId"`
	Type           string     `json:"type"`
	Status         string     `json:"status"`
	Description    string     `json:"description"`
	AdminComment   string     `json:"adminComment,omitempty"`
	FalseReport    bool       `json:"falseReport"`
	CreatedAt      time.Time  `json:"createdAt"`
	ProcessedAt    *time.Time `json:"processedAt,omitempty"`
}

// Penalty represents a participation restriction on the wire.
type Penalty struct {
	ID           string    `json:"id"`
	UserID       int64     `json:"userId"`
	Type         string    `json:"type"`
	Status       string    `json:"status"`
	Reason       string    `json:"reason"`
	DurationDays int       `json:"durationDays"`
	StartDate    time.Time `json:"startDate"`
	EndDate      time.Time `json:"endDate"`
	ManualReview bool      `json:"manualReview"`
}

// CreateGroupBuyRequest is the payload for opening a group-buy.
type CreateGroupBuyRequest struct {
	Title           string    `json:"title"`
	ProductID       int64     `json:"productId"`
	MaxParticipants int       `json:"maxParticipants"`
	StartTime       time.Time `json:"startTime"`
	EndTime         time.Time `json:"endTime"`
}

// SubmitBidRequest is the payload for a seller bid.
type SubmitBidRequest struct {
	Amount int64  `json:"amount"`
	Type   string `json:"type"`
}

// StartConsentRequest is the payload for opening a consent process.
type StartConsentRequest struct {
	DurationHours int `json:"durationHours"`
}

// ConsentRespondRequest is a participant's consent answer.
type ConsentRespondRequest struct {
	Agreed bool `json:"agreed"`
}

// SubmitReportRequest is the payload for filing a no-show report.
type SubmitReportRequest struct {
	ReportedUserID int64  `json:"reportedUserId"`
	GroupBuyID     int64  `json:"groupBuyId"`
	Type           string `json:"type"`
	Description    string `json:"description"`
}

// AdjudicateReportRequest is the payload for moving a report through
// review.
type AdjudicateReportRequest struct {
	Status       string `json:"status"`
	AdminComment string `json:"adminComment"`
}

// ErrorResponse carries a business-rule violation to the caller.
type ErrorResponse struct {
	Error string `json:"error"`
}
