package types

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidTransition indicates an event is not legal in the group-buy's current status.
	ErrInvalidTransition = errors.New("invalid lifecycle transition")
	// ErrAlreadyDecided indicates a duplicate decision on a bid, consent answer, or confirmation.
	ErrAlreadyDecided = errors.New("decision already made")
	// ErrWindowClosed indicates the operation's deadline has passed.
	ErrWindowClosed = errors.New("decision window closed")
	// ErrNotParticipant indicates the buyer has not joined the group-buy.
	ErrNotParticipant = errors.New("buyer is not a participant")
	// ErrSelfReport indicates a reporter tried to report themselves.
	ErrSelfReport = errors.New("cannot report yourself")
	// ErrDuplicateReport indicates a report against the same user within the dedup window.
	ErrDuplicateReport = errors.New("duplicate report within dedup window")
	// ErrPenaltyActive indicates the user is restricted from group-buy participation.
	ErrPenaltyActive = errors.New("active penalty restricts participation")
	// ErrProcessAlreadyStarted indicates a consent process already ran for the group-buy.
	ErrProcessAlreadyStarted = errors.New("consent process already started")
	// ErrNoBids indicates winner selection ran against an empty bid set.
	ErrNoBids = errors.New("no pending bids to select from")
	// ErrGroupBuyFull indicates the participant cap has been reached.
	ErrGroupBuyFull = errors.New("group-buy participant cap reached")

	ErrGroupBuyNotFound = errors.New("group-buy not found")
	ErrBidNotFound      = errors.New("bid not found")
	ErrReportNotFound   = errors.New("report not found")
	ErrPenaltyNotFound  = errors.New("penalty not found")
)

// PenaltyActiveError carries the restriction end date so callers can render it.
type PenaltyActiveError struct {
	UserID  int64
	EndDate time.Time
}

func (e *PenaltyActiveError) Error() string {
	return fmt.Sprintf("user %d is restricted until %s", e.UserID, e.EndDate.Format(time.RFC3339))
}

// Is makes the error match ErrPenaltyActive under errors.Is.
func (e *PenaltyActiveError) Is(target error) bool {
	return target == ErrPenaltyActive
}

// DuplicateReportError carries the conflicting report so callers can render it.
type DuplicateReportError struct {
	ExistingID uuid.UUID
	ReportedAt time.Time
}

func (e *DuplicateReportError) Error() string {
	return fmt.Sprintf("duplicate of report %s submitted at %s", e.ExistingID, e.ReportedAt.Format(time.RFC3339))
}

// Is makes the error match ErrDuplicateReport under errors.Is.
func (e *DuplicateReportError) Is(target error) bool {
	return target == ErrDuplicateReport
}

// WindowClosedError carries the missed deadline so callers can render it.
type WindowClosedError struct {
	Deadline time.Time
}

func (e *WindowClosedError) Error() string {
	return fmt.Sprintf("window closed at %s", e.Deadline.Format(time.RFC3339))
}

// Is makes the error match ErrWindowClosed under errors.Is.
func (e *WindowClosedError) Is(target error) bool {
	return target == ErrWindowClosed
}
