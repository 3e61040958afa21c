package enum

// GroupBuyStatus represents the lifecycle stage of a group-buy.
type GroupBuyStatus int

const (
	// GroupBuyStatusRecruiting indicates the group-buy is open for participant signup.
	GroupBuyStatusRecruiting GroupBuyStatus = iota
	// GroupBuyStatusBidding indicates sellers may submit bids.
	GroupBuyStatusBidding
	// GroupBuyStatusFinalSelectionSeller indicates the winning seller must confirm or decline.
	GroupBuyStatusFinalSelectionSeller
	// GroupBuyStatusFinalSelectionBuyers indicates every participant must confirm or cancel.
	GroupBuyStatusFinalSelectionBuyers
	// GroupBuyStatusConfirmed indicates the trade is committed on both sides.
	GroupBuyStatusConfirmed
	// GroupBuyStatusInProgress indicates the trade is being fulfilled.
	GroupBuyStatusInProgress
	// GroupBuyStatusCompleted indicates the buyer marked receipt; terminal success state.
	GroupBuyStatusCompleted
	// GroupBuyStatusCancelled is the terminal failure state.
	GroupBuyStatusCancelled
)

// String returns the snake_case name used in logs and API responses.
func (s GroupBuyStatus) String() string {
	switch s {
	case GroupBuyStatusRecruiting:
		return "recruiting"
	case GroupBuyStatusBidding:
		return "bidding"
	case GroupBuyStatusFinalSelectionSeller:
		return "final_selection_seller"
	case GroupBuyStatusFinalSelectionBuyers:
		return "final_selection_buyers"
	case GroupBuyStatusConfirmed:
		return "confirmed"
	case GroupBuyStatusInProgress:
		return "in_progress"
	case GroupBuyStatusCompleted:
		return "completed"
	case GroupBuyStatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// IsTerminal checks if the status is a terminal state.
func (s GroupBuyStatus) IsTerminal() bool {
	return s == GroupBuyStatusCompleted || s == GroupBuyStatusCancelled
}

// CanTransitionTo reports whether moving to next is a legal forward step.
// The graph is monotonic; the only backward edge is consent failure
// reopening bidding, and cancellation is reachable from any non-terminal
// state.
func (s GroupBuyStatus) CanTransitionTo(next GroupBuyStatus) bool {
	if next == GroupBuyStatusCancelled {
		return !s.IsTerminal()
	}

	switch s {
	case GroupBuyStatusRecruiting:
		return next == GroupBuyStatusBidding
	case GroupBuyStatusBidding:
		return next == GroupBuyStatusFinalSelectionSeller
	case GroupBuyStatusFinalSelectionSeller:
		return next == GroupBuyStatusFinalSelectionBuyers ||
			next == GroupBuyStatusBidding
	case GroupBuyStatusFinalSelectionBuyers:
		return next == GroupBuyStatusConfirmed ||
			next == GroupBuyStatusBidding
	case GroupBuyStatusConfirmed:
		return next == GroupBuyStatusInProgress
	case GroupBuyStatusInProgress:
		return next == GroupBuyStatusCompleted
	case GroupBuyStatusCompleted, GroupBuyStatusCancelled:
		return false
	default:
		return false
	}
}
