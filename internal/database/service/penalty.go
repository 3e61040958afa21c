package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gongguhub/gonggu/internal/database/models"
	"github.com/gongguhub/gonggu/internal/database/types"
	"github.com/gongguhub/gonggu/internal/database/types/enum"
	"github.com/gongguhub/gonggu/internal/events"
	"github.com/gongguhub/gonggu/internal/setup/config"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PenaltyService issues and enforces participation restrictions.
type PenaltyService struct {
	model    *models.PenaltyModel
	notifier *events.Notifier
	policy   *config.Policy
	logger   *zap.Logger
}

// NewPenalty creates a new penalty service.
func NewPenalty(
	model *models.PenaltyModel, notifier *events.Notifier,
	policy *config.Policy, logger *zap.Logger,
) *PenaltyService {
	return &PenaltyService{
		model:    model,
		notifier: notifier,
		policy:   policy,
		logger:   logger.Named("penalty_service"),
	}
}

// EnsureEligible checks that the user is not under an active restriction.
// Returns a PenaltyActiveError carrying the end date when they are.
func (s *PenaltyService) EnsureEligible(ctx context.Context, userID int64) error {
	penalty, err := s.model.ActiveFor(ctx, userID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to check penalty for user %d: %w", userID, err)
	}

	if penalty != nil {
		return &types.PenaltyActiveError{UserID: userID, EndDate: penalty.EndDate}
	}

	return nil
}

// IssueNoShowStrike issues the next-rung penalty for a verified no-show or
// a penalized seller withdrawal. The strike number drives the ladder: one
// day for the first, two for the second, three for every strike after
// that, with the third-and-beyond flagging the account for manual review.
func (s *PenaltyService) IssueNoShowStrike(
	ctx context.Context, userID int64, strike int, reason string,
) (*types.Penalty, error) {
	now := time.Now()
	durationDays := types.NoShowPenaltyDays(strike)

	start, superseded, err := s.resolveOverlap(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	penalty := &types.Penalty{
		ID:           uuid.New(),
		UserID:       userID,
		Type:         enum.PenaltyTypeNoShow,
		Status:       enum.PenaltyStatusActive,
		Reason:       reason,
		DurationDays: durationDays,
		StartDate:    start,
		EndDate:      start.AddDate(0, 0, durationDays),
		ReportCount:  strike,
		ManualReview: types.NeedsManualReview(strike),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.model.Create(ctx, penalty); err != nil {
		return nil, fmt.Errorf("failed to issue no-show penalty for user %d: %w", userID, err)
	}

	s.logger.Info("Issued no-show penalty",
		zap.Int64("userID", userID),
		zap.Int("strike", strike),
		zap.Int("durationDays", durationDays),
		zap.Bool("manualReview", penalty.ManualReview),
		zap.Bool("supersededPrior", superseded))

	s.notifier.Publish(ctx, events.Event{
		Name:   events.PenaltyIssued,
		UserID: userID,
		Payload: map[string]any{
			"penalty_id":    penalty.ID.String(),
			"penalty_type":  penalty.Type.String(),
			"duration_days": durationDays,
			"end_date":      penalty.EndDate,
			"manual_review": penalty.ManualReview,
		},
	})

	return penalty, nil
}

// IssueFalseReportSuspension penalizes a reporter whose report was
// determined to be intentionally false, independent of the no-show ladder.
func (s *PenaltyService) IssueFalseReportSuspension(
	ctx context.Context, reporterID, issuedBy int64, reportID uuid.UUID,
) (*types.Penalty, error) {
	now := time.Now()
	durationDays := s.policy.FalseReportSuspensionDays

	start, _, err := s.resolveOverlap(ctx, reporterID, now)
	if err != nil {
		return nil, err
	}

	penalty := &types.Penalty{
		ID:           uuid.New(),
		UserID:       reporterID,
		Type:         enum.PenaltyTypeFalseReport,
		Status:       enum.PenaltyStatusActive,
		Reason:       fmt.Sprintf("intentionally false report %s", reportID),
		DurationDays: durationDays,
		StartDate:    start,
		EndDate:      start.AddDate(0, 0, durationDays),
		IssuedBy:     issuedBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.model.Create(ctx, penalty); err != nil {
		return nil, fmt.Errorf("failed to suspend reporter %d: %w", reporterID, err)
	}

	s.logger.Info("Issued false-report suspension",
		zap.Int64("reporterID", reporterID),
		zap.String("reportID", reportID.String()),
		zap.Int("durationDays", durationDays))

	s.notifier.Publish(ctx, events.Event{
		Name:   events.PenaltyIssued,
		UserID: reporterID,
		Payload: map[string]any{
			"penalty_id":    penalty.ID.String(),
			"penalty_type":  penalty.Type.String(),
			"duration_days": durationDays,
			"end_date":      penalty.EndDate,
		},
	})

	return penalty, nil
}

// resolveOverlap applies the configured overlap policy when the user
// already has an active penalty. Supersede closes the prior penalty and
// starts the new one now; stack queues the new window behind the existing
// one so one restriction is in force at a time.
func (s *PenaltyService) resolveOverlap(
	ctx context.Context, userID int64, now time.Time,
) (start time.Time, superseded bool, err error) {
	existing, err := s.model.LatestActive(ctx, userID, now)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to check existing penalty: %w", err)
	}

	if existing == nil {
		return now, false, nil
	}

	if s.policy.StackPenalties() {
		return existing.EndDate, false, nil
	}

	if _, err := s.model.Supersede(ctx, existing.ID, now); err != nil {
		return time.Time{}, false, err
	}

	return now, true, nil
}

// Revoke lifts an active penalty on behalf of an admin.
func (s *PenaltyService) Revoke(ctx context.Context, penaltyID uuid.UUID, revokedBy int64) error {
	revoked, err := s.model.Revoke(ctx, penaltyID, revokedBy)
	if err != nil {
		return err
	}

	if !revoked {
		return fmt.Errorf("%w: penalty %s is not active", types.ErrPenaltyNotFound, penaltyID)
	}

	s.logger.Info("Revoked penalty",
		zap.String("penaltyID", penaltyID.String()),
		zap.Int64("revokedBy", revokedBy))

	return nil
}

// ListForUser returns a user's penalty history.
func (s *PenaltyService) ListForUser(ctx context.Context, userID int64) ([]*types.Penalty, error) {
	return s.model.ListForUser(ctx, userID)
}

// ExpireLapsed marks lapsed penalties as expired. Called by the sweep
// worker; enforcement always re-checks wall-clock time regardless.
func (s *PenaltyService) ExpireLapsed(ctx context.Context) (int64, error) {
	return s.model.ExpireLapsed(ctx, time.Now())
}
