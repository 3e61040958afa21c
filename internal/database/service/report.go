package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gongguhub/gonggu/internal/database/models"
	"github.com/gongguhub/gonggu/internal/database/types"
	"github.com/gongguhub/gonggu/internal/database/types/enum"
	"github.com/gongguhub/gonggu/internal/events"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReportService handles no-show report intake, dedup, and adjudication.
// Verified reports feed the penalty ladder.
type ReportService struct {
	report   *models.ReportModel
	penalty  *PenaltyService
	notifier *events.Notifier
	logger   *zap.Logger
}

// NewReport creates a new report service.
func NewReport(
	report *models.ReportModel, penalty *PenaltyService,
	notifier *events.Notifier, logger *zap.Logger,
) *ReportService {
	return &ReportService{
		report:   report,
		penalty:  penalty,
		notifier: notifier,
		logger:   logger.Named("report_service"),
	}
}

// Submit files a no-show report. A reporter cannot report themselves and
// may file at most one report against the same user within a rolling
// 24-hour window.
func (s *ReportService) Submit(
	ctx context.Context, reporterID, reportedUserID, groupBuyID int64,
	reportType enum.ReportType, description string,
) (*types.NoShowReport, error) {
	if reporterID == reportedUserID {
		return nil, fmt.Errorf("%w: user %d", types.ErrSelfReport, reporterID)
	}

	now := time.Now()

	recent, err := s.report.FindRecent(ctx, reporterID, reportedUserID, now.Add(-types.ReportDedupWindow))
	if err != nil {
		return nil, err
	}

	if recent != nil && types.WithinDedupWindow(recent.CreatedAt, now) {
		return nil, &types.DuplicateReportError{
			ExistingID: recent.ID,
			ReportedAt: recent.CreatedAt,
		}
	}

	report := &types.NoShowReport{
		ID:             uuid.New(),
		ReporterID:     reporterID,
		ReportedUserID: reportedUserID,
		GroupBuyID:     groupBuyID,
		Type:           reportType,
		Status:         enum.ReportStatusPending,
		Description:    description,
		CreatedAt:      now,
	}

	if err := s.report.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to submit report: %w", err)
	}

	s.logger.Info("No-show report submitted",
		zap.String("reportID", report.ID.String()),
		zap.Int64("reporterID", reporterID),
		zap.Int64("reportedUserID", reportedUserID),
		zap.Int64("groupBuyID", groupBuyID),
		zap.String("type", reportType.String()))

	return report, nil
}

// Get returns a report by ID.
func (s *ReportService) Get(ctx context.Context, id uuid.UUID) (*types.NoShowReport, error) {
	return s.report.Get(ctx, id)
}

// Queue returns reports in a given adjudication state for the back-office
// review queue.
func (s *ReportService) Queue(
	ctx context.Context, status enum.ReportStatus, limit int,
) ([]*types.NoShowReport, error) {
	return s.report.ListByStatus(ctx, status, limit)
}

// Adjudicate moves a report along the review pipeline. Resolving a report
// verifies the no-show: the reported user's strike count increments and
// the next-rung penalty is issued.
func (s *ReportService) Adjudicate(
	ctx context.Context, id uuid.UUID, to enum.ReportStatus, adminComment string,
) (*types.NoShowReport, error) {
	report, err := s.report.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !report.Status.CanTransitionTo(to) {
		return nil, fmt.Errorf("%w: report %s is %s, cannot move to %s",
			types.ErrInvalidTransition, id, report.Status, to)
	}

	updated, err := s.report.UpdateStatus(ctx, id, report.Status, to, adminComment)
	if err != nil {
		return nil, err
	}

	if !updated {
		return nil, fmt.Errorf("%w: report %s left %s",
			types.ErrAlreadyDecided, id, report.Status)
	}

	s.logger.Info("Report adjudicated",
		zap.String("reportID", id.String()),
		zap.String("from", report.Status.String()),
		zap.String("to", to.String()))

	if to == enum.ReportStatusResolved {
		if err := s.applyVerdict(ctx, report); err != nil {
			return nil, err
		}
	}

	return s.report.Get(ctx, id)
}

// applyVerdict issues the ladder penalty for a freshly verified no-show
// and notifies the reporter.
func (s *ReportService) applyVerdict(ctx context.Context, report *types.NoShowReport) error {
	strikes, err := s.report.CountVerifiedAgainst(ctx, report.ReportedUserID)
	if err != nil {
		return err
	}

	reason := fmt.Sprintf("%s verified for group-buy %d (report %s)",
		report.Type, report.GroupBuyID, report.ID)

	if _, err := s.penalty.IssueNoShowStrike(ctx, report.ReportedUserID, strikes, reason); err != nil {
		return err
	}

	s.notifier.Publish(ctx, events.Event{
		Name:       events.ReportResolved,
		UserID:     report.ReporterID,
		GroupBuyID: report.GroupBuyID,
		Payload: map[string]any{
			"report_id": report.ID.String(),
			"type":      report.Type.String(),
		},
	})

	return nil
}

// MarkFalse flags an adjudicated report as intentionally false and
// suspends the reporter, independent of the no-show ladder.
func (s *ReportService) MarkFalse(ctx context.Context, id uuid.UUID, adminID int64) error {
	report, err := s.report.Get(ctx, id)
	if err != nil {
		return err
	}

	if !report.Status.IsFinal() {
		return fmt.Errorf("%w: report %s is still %s",
			types.ErrInvalidTransition, id, report.Status)
	}

	marked, err := s.report.MarkFalse(ctx, id)
	if err != nil {
		return err
	}

	if !marked {
		return fmt.Errorf("%w: report %s already marked false", types.ErrAlreadyDecided, id)
	}

	if _, err := s.penalty.IssueFalseReportSuspension(ctx, report.ReporterID, adminID, id); err != nil {
		return err
	}

	s.logger.Info("Report marked as intentionally false",
		zap.String("reportID", id.String()),
		zap.Int64("reporterID", report.ReporterID),
		zap.Int64("adminID", adminID))

	return nil
}
