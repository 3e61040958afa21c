package enum

// ReportType represents which side of a trade failed to show.
type ReportType int

const (
	// ReportTypeBuyerNoShow indicates a buyer failed to complete a committed trade.
	ReportTypeBuyerNoShow ReportType = iota
	// ReportTypeSellerNoShow indicates a seller failed to complete a committed trade.
	ReportTypeSellerNoShow
)

// String returns the snake_case name used in logs and API responses.
func (t ReportType) String() string {
	switch t {
	case ReportTypeBuyerNoShow:
		return "buyer_noshow"
	case ReportTypeSellerNoShow:
		return "seller_noshow"
	default:
		return "unknown"
	}
}

// ReportStatus represents the adjudication state of a no-show report.
type ReportStatus int

const (
	ReportStatusPending ReportStatus = iota
	ReportStatusProcessing
	ReportStatusResolved
	ReportStatusOnHold
	ReportStatusRejected
)

// String returns the snake_case name used in logs and API responses.
func (s ReportStatus) String() string {
	switch s {
	case ReportStatusPending:
		return "pending"
	case ReportStatusProcessing:
		return "processing"
	case ReportStatusResolved:
		return "resolved"
	case ReportStatusOnHold:
		return "on_hold"
	case ReportStatusRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// IsFinal checks if the report has been adjudicated.
func (s ReportStatus) IsFinal() bool {
	return s == ReportStatusResolved || s == ReportStatusRejected
}

// CanTransitionTo reports whether an admin may move the report to next.
// Pending reports enter processing before a verdict; on_hold parks a
// report mid-review without a verdict.
func (s ReportStatus) CanTransitionTo(next ReportStatus) bool {
	switch s {
	case ReportStatusPending:
		return next == ReportStatusProcessing
	case ReportStatusProcessing:
		return next == ReportStatusResolved ||
			next == ReportStatusRejected ||
			next == ReportStatusOnHold
	case ReportStatusOnHold:
		return next == ReportStatusProcessing
	case ReportStatusResolved, ReportStatusRejected:
		return false
	default:
		return false
	}
}
