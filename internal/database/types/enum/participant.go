package enum

// FinalDecision represents a buyer's decision during final selection.
type FinalDecision int

const (
	// FinalDecisionPending indicates the buyer has not decided yet.
	FinalDecisionPending FinalDecision = iota
	// FinalDecisionConfirmed indicates the buyer committed to the purchase.
	FinalDecisionConfirmed
	// FinalDecisionCancelled indicates the buyer backed out.
	FinalDecisionCancelled
)

// String returns the snake_case name used in logs and API responses.
func (d FinalDecision) String() string {
	switch d {
	case FinalDecisionPending:
		return "pending"
	case FinalDecisionConfirmed:
		return "confirmed"
	case FinalDecisionCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Decided checks if the buyer has made a final decision.
func (d FinalDecision) Decided() bool {
	return d != FinalDecisionPending
}
