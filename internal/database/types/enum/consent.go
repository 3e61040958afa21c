package enum

// ConsentState represents a single participant's answer in a consent process.
type ConsentState int

const (
	ConsentStatePending ConsentState = iota
	ConsentStateAgreed
	ConsentStateDeclined
)

// String returns the snake_case name used in logs and API responses.
func (s ConsentState) String() string {
	switch s {
	case ConsentStatePending:
		return "pending"
	case ConsentStateAgreed:
		return "agreed"
	case ConsentStateDeclined:
		return "declined"
	default:
		return "unknown"
	}
}

// Decided checks if the participant has answered.
func (s ConsentState) Decided() bool {
	return s != ConsentStatePending
}

// ConsentProcessStatus represents the overall state of a consent process.
type ConsentProcessStatus int

const (
	// ConsentProcessStatusOpen indicates the window is still accepting answers.
	ConsentProcessStatusOpen ConsentProcessStatus = iota
	// ConsentProcessStatusApproved indicates every participant agreed before the deadline.
	ConsentProcessStatusApproved
	// ConsentProcessStatusCancelled indicates a decline or an expired deadline closed the process.
	ConsentProcessStatusCancelled
)

// String returns the snake_case name used in logs and API responses.
func (s ConsentProcessStatus) String() string {
	switch s {
	case ConsentProcessStatusOpen:
		return "open"
	case ConsentProcessStatusApproved:
		return "approved"
	case ConsentProcessStatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Closed checks if the process has reached a final outcome.
func (s ConsentProcessStatus) Closed() bool {
	return s != ConsentProcessStatusOpen
}
