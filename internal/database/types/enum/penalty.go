package enum

// PenaltyType represents why a participation restriction was issued.
type PenaltyType int

const (
	// PenaltyTypeNoShow is a graduated restriction after a verified no-show.
	PenaltyTypeNoShow PenaltyType = iota
	// PenaltyTypeFalseReport is a suspension issued against a reporter whose
	// report was determined to be intentionally false.
	PenaltyTypeFalseReport
)

// String returns the snake_case name used in logs and API responses.
func (t PenaltyType) String() string {
	switch t {
	case PenaltyTypeNoShow:
		return "noshow_restriction"
	case PenaltyTypeFalseReport:
		return "false_report_suspension"
	default:
		return "unknown"
	}
}

// PenaltyStatus represents the enforcement state of a penalty.
type PenaltyStatus int

const (
	PenaltyStatusActive PenaltyStatus = iota
	PenaltyStatusExpired
	PenaltyStatusRevoked
)

// String returns the snake_case name used in logs and API responses.
func (s PenaltyStatus) String() string {
	switch s {
	case PenaltyStatusActive:
		return "active"
	case PenaltyStatusExpired:
		return "expired"
	case PenaltyStatusRevoked:
		return "revoked"
	default:
		return "unknown"
	}
}
