package enum

// BidType represents what a seller's bid amount means.
type BidType int

const (
	// BidTypePrice is a sale price offer; the lowest amount wins.
	BidTypePrice BidType = iota
	// BidTypeSupport is a subsidy offer; the highest amount wins.
	BidTypeSupport
)

// String returns the snake_case name used in logs and API responses.
func (t BidType) String() string {
	switch t {
	case BidTypePrice:
		return "price"
	case BidTypeSupport:
		return "support"
	default:
		return "unknown"
	}
}

// BidStatus represents the selection state of a bid.
type BidStatus int

const (
	BidStatusPending BidStatus = iota
	BidStatusSelected
	BidStatusRejected
)

// String returns the snake_case name used in logs and API responses.
func (s BidStatus) String() string {
	switch s {
	case BidStatusPending:
		return "pending"
	case BidStatusSelected:
		return "selected"
	case BidStatusRejected:
		return "rejected"
	default:
		return "unknown"
	}
}
