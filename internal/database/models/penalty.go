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

// PenaltyModel handles database operations for participation penalties.
type PenaltyModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewPenalty creates a new PenaltyModel instance.
func NewPenalty(db *bun.DB, logger *zap.Logger) *PenaltyModel {
	return &PenaltyModel{
		db:     db,
		logger: logger.Named("db_penalty"),
	}
}

// Create inserts a new penalty record.
func (m *PenaltyModel) Create(ctx context.Context, penalty *types.Penalty) error {
	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := m.db.NewInsert().
			Model(penalty).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create penalty: %w", err)
		}

		return nil
	})
}

// Get retrieves a penalty by ID.
func (m *PenaltyModel) Get(ctx context.Context, id uuid.UUID) (*types.Penalty, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.Penalty, error) {
		penalty := new(types.Penalty)

		err := m.db.NewSelect().
			Model(penalty).
			Where("id = ?", id).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, types.ErrPenaltyNotFound
			}

			return nil, fmt.Errorf("failed to get penalty %s: %w", id, err)
		}

		return penalty, nil
	})
}

// ActiveFor returns the penalty currently restricting a user, or nil. The
// end date is checked against the wall clock here rather than trusting the
// stored status, so a lapsed penalty never blocks anyone even before the
// sweep expires it.
func (m *PenaltyModel) ActiveFor(
	ctx context.Context, userID int64, now time.Time,
) (*types.Penalty, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.Penalty, error) {
		penalty := new(types.Penalty)

		err := m.db.NewSelect().
			Model(penalty).
			Where("user_id = ?", userID).
			Where("status = ?", enum.PenaltyStatusActive).
			Where("start_date <= ?", now).
			Where("end_date > ?", now).
			OrderExpr("end_date DESC").
			Limit(1).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, nil
			}

			return nil, fmt.Errorf("failed to get active penalty for user %d: %w", userID, err)
		}

		return penalty, nil
	})
}

// LatestActive returns the user's active penalty with the furthest end
// date regardless of whether it has started, for overlap policy decisions.
func (m *PenaltyModel) LatestActive(
	ctx context.Context, userID int64, now time.Time,
) (*types.Penalty, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.Penalty, error) {
		penalty := new(types.Penalty)

		err := m.db.NewSelect().
			Model(penalty).
			Where("user_id = ?", userID).
			Where("status = ?", enum.PenaltyStatusActive).
			Where("end_date > ?", now).
			OrderExpr("end_date DESC").
			Limit(1).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, nil
			}

			return nil, fmt.Errorf("failed to get latest active penalty for user %d: %w", userID, err)
		}

		return penalty, nil
	})
}

// ListForUser returns all penalties issued against a user, newest first.
func (m *PenaltyModel) ListForUser(ctx context.Context, userID int64) ([]*types.Penalty, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.Penalty, error) {
		var penalties []*types.Penalty

		err := m.db.NewSelect().
			Model(&penalties).
			Where("user_id = ?", userID).
			OrderExpr("created_at DESC").
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list penalties for user %d: %w", userID, err)
		}

		return penalties, nil
	})
}

// Supersede closes out an active penalty that is being replaced.
func (m *PenaltyModel) Supersede(ctx context.Context, id uuid.UUID, endedAt time.Time) (bool, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (bool, error) {
		result, err := m.db.NewUpdate().
			Model((*types.Penalty)(nil)).
			Set("status = ?", enum.PenaltyStatusExpired).
			Set("end_date = ?", endedAt).
			Set("updated_at = ?", endedAt).
			Where("id = ?", id).
			Where("status = ?", enum.PenaltyStatusActive).
			Exec(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to supersede penalty %s: %w", id, err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return false, err
		}

		return affected > 0, nil
	})
}

// Revoke lifts an active penalty. Returns false when the penalty was not
// active.
func (m *PenaltyModel) Revoke(ctx context.Context, id uuid.UUID, revokedBy int64) (bool, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (bool, error) {
		result, err := m.db.NewUpdate().
			Model((*types.Penalty)(nil)).
			Set("status = ?", enum.PenaltyStatusRevoked).
			Set("revoked_by = ?", revokedBy).
			Set("updated_at = ?", time.Now()).
			Where("id = ?", id).
			Where("status = ?", enum.PenaltyStatusActive).
			Exec(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to revoke penalty %s: %w", id, err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return false, err
		}

		return affected > 0, nil
	})
}

// ExpireLapsed marks active penalties whose window has passed as expired.
// Consistency aid for the sweep worker; enforcement never depends on it.
func (m *PenaltyModel) ExpireLapsed(ctx context.Context, now time.Time) (int64, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (int64, error) {
		result, err := m.db.NewUpdate().
			Model((*types.Penalty)(nil)).
			Set("status = ?", enum.PenaltyStatusExpired).
			Set("updated_at = ?", now).
			Where("status = ?", enum.PenaltyStatusActive).
			Where("end_date <= ?", now).
			Exec(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to expire lapsed penalties: %w", err)
		}

		return result.RowsAffected()
	})
}
