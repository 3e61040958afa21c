package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gongguhub/gonggu/internal/database/dbretry"
	"github.com/gongguhub/gonggu/internal/database/types"
	"github.com/gongguhub/gonggu/internal/database/types/enum"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// ReportModel handles database operations for no-show reports.
type ReportModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewReport creates a new ReportModel instance.
func NewReport(db *bun.DB, logger *zap.Logger) *ReportModel {
	return &ReportModel{
		db:     db,
		logger: logger.Named("db_report"),
	}
}

// Create inserts a new report record.
func (m *ReportModel) Create(ctx context.Context, report *types.NoShowReport) error {
	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := m.db.NewInsert().
			Model(report).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create report: %w", err)
		}

		return nil
	})
}

// Get retrieves a report by ID.
func (m *ReportModel) Get(ctx context.Context, id uuid.UUID) (*types.NoShowReport, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.NoShowReport, error) {
		report := new(types.NoShowReport)

		err := m.db.NewSelect().
			Model(report).
			Where("id = ?", id).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, types.ErrReportNotFound
			}

			return nil, fmt.Errorf("failed to get report %s: %w", id, err)
		}

		return report, nil
	})
}

// FindRecent returns the newest report from a reporter against a user
// created at or after since, or nil when none exists. This is the
// authoritative dedup check.
func (m *ReportModel) FindRecent(
	ctx context.Context, reporterID, reportedUserID int64, since time.Time,
) (*types.NoShowReport, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.NoShowReport, error) {
		report := new(types.NoShowReport)

		err := m.db.NewSelect().
			Model(report).
			Where("reporter_id = ?", reporterID).
			Where("reported_user_id = ?", reportedUserID).
			Where("created_at >= ?", since).
			OrderExpr("created_at DESC").
			Limit(1).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, nil
			}

			return nil, fmt.Errorf("failed to find recent report: %w", err)
		}

		return report, nil
	})
}

// UpdateStatus moves a report between adjudication states with a
// conditional update. Returns false when the report was not in the expected
// status.
func (m *ReportModel) UpdateStatus(
	ctx context.Context, id uuid.UUID, from, to enum.ReportStatus, adminComment string,
) (bool, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (bool, error) {
		query := m.db.NewUpdate().
			Model((*types.NoShowReport)(nil)).
			Set("status = ?", to).
			Where("id = ?", id).
			Where("status = ?", from)

		if adminComment != "" {
			query = query.Set("admin_comment = ?", adminComment)
		}

		if to.IsFinal() {
			query = query.Set("processed_at = ?", time.Now())
		}

		result, err := query.Exec(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to update report %s: %w", id, err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return false, err
		}

		return affected > 0, nil
	})
}

// MarkFalse flags a finalized report as intentionally false.
func (m *ReportModel) MarkFalse(ctx context.Context, id uuid.UUID) (bool, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (bool, error) {
		result, err := m.db.NewUpdate().
			Model((*types.NoShowReport)(nil)).
			Set("false_report = TRUE").
			Where("id = ?", id).
			Where("false_report = FALSE").
			Exec(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to mark report %s as false: %w", id, err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return false, err
		}

		return affected > 0, nil
	})
}

// CountVerifiedAgainst returns the number of resolved, non-false reports
// against a user. This is the strike count the penalty ladder runs on.
func (m *ReportModel) CountVerifiedAgainst(ctx context.Context, userID int64) (int, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (int, error) {
		count, err := m.db.NewSelect().
			Model((*types.NoShowReport)(nil)).
			Where("reported_user_id = ?", userID).
			Where("status = ?", enum.ReportStatusResolved).
			Where("false_report = FALSE").
			Count(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to count verified reports against user %d: %w", userID, err)
		}

		return count, nil
	})
}

// ListByStatus returns reports in a given adjudication state, oldest first,
// for the back-office review queue.
func (m *ReportModel) ListByStatus(
	ctx context.Context, status enum.ReportStatus, limit int,
) ([]*types.NoShowReport, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.NoShowReport, error) {
		var reports []*types.NoShowReport

		err := m.db.NewSelect().
			Model(&reports).
			Where("status = ?", status).
			OrderExpr("created_at ASC").
			Limit(limit).
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s reports: %w", status, err)
		}

		return reports, nil
	})
}
