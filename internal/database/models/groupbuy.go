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
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// GroupBuyModel handles database operations for group-buy campaigns.
type GroupBuyModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewGroupBuy creates a new GroupBuyModel instance.
func NewGroupBuy(db *bun.DB, logger *zap.Logger) *GroupBuyModel {
	return &GroupBuyModel{
		db:     db,
		logger: logger.Named("db_groupbuy"),
	}
}

// Create inserts a new group-buy record.
func (m *GroupBuyModel) Create(ctx context.Context, groupBuy *types.GroupBuy) error {
	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := m.db.NewInsert().
			Model(groupBuy).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create group-buy: %w", err)
		}

		return nil
	})
}

// Get retrieves a group-buy by ID.
func (m *GroupBuyModel) Get(ctx context.Context, id int64) (*types.GroupBuy, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.GroupBuy, error) {
		groupBuy := new(types.GroupBuy)

		err := m.db.NewSelect().
			Model(groupBuy).
			Where("id = ?", id).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, types.ErrGroupBuyNotFound
			}

			return nil, fmt.Errorf("failed to get group-buy %d: %w", id, err)
		}

		return groupBuy, nil
	})
}

// TransitionStatus moves a group-buy from one status to another with a
// conditional update. Returns false when the row was not in the expected
// status, which means another writer got there first.
func (m *GroupBuyModel) TransitionStatus(
	ctx context.Context, id int64, from, to enum.GroupBuyStatus,
) (bool, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (bool, error) {
		result, err := m.db.NewUpdate().
			Model((*types.GroupBuy)(nil)).
			Set("status = ?", to).
			Set("updated_at = ?", time.Now()).
			Where("id = ?", id).
			Where("status = ?", from).
			Exec(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to transition group-buy %d: %w", id, err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return false, err
		}

		return affected > 0, nil
	})
}

// TransitionWithDeadline moves a group-buy to a new status and stamps the
// final-selection deadline in the same conditional update.
func (m *GroupBuyModel) TransitionWithDeadline(
	ctx context.Context, id int64, from, to enum.GroupBuyStatus, deadline time.Time,
) (bool, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (bool, error) {
		result, err := m.db.NewUpdate().
			Model((*types.GroupBuy)(nil)).
			Set("status = ?", to).
			Set("final_selection_end = ?", deadline).
			Set("updated_at = ?", time.Now()).
			Where("id = ?", id).
			Where("status = ?", from).
			Exec(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to transition group-buy %d: %w", id, err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return false, err
		}

		return affected > 0, nil
	})
}

// ParticipantCount is the occupancy of a group-buy as claimed by a single
// statement, so each writer sees its own post-claim total.
type ParticipantCount struct {
	Current int
	Max     int
}

// Full reports whether the claim that produced this count took the last slot.
func (c ParticipantCount) Full() bool {
	return c.Current >= c.Max
}

// IncrementParticipants adds one participant slot under the cap. The cap
// check rides in the WHERE clause so two concurrent joins cannot both take
// the last slot. Returns nil without error when the claim was rejected.
func (m *GroupBuyModel) IncrementParticipants(ctx context.Context, id int64) (*ParticipantCount, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*ParticipantCount, error) {
		var count ParticipantCount

		err := m.db.NewUpdate().
			Model((*types.GroupBuy)(nil)).
			Set("current_participants = current_participants + 1").
			Set("updated_at = ?", time.Now()).
			Where("id = ?", id).
			Where("status = ?", enum.GroupBuyStatusRecruiting).
			Where("current_participants < max_participants").
			Returning("current_participants, max_participants").
			Scan(ctx, &count.Current, &count.Max)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, nil
			}

			return nil, fmt.Errorf("failed to increment participants for group-buy %d: %w", id, err)
		}

		return &count, nil
	})
}

// DecrementParticipants releases one participant slot during recruitment.
func (m *GroupBuyModel) DecrementParticipants(ctx context.Context, id int64) (bool, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (bool, error) {
		result, err := m.db.NewUpdate().
			Model((*types.GroupBuy)(nil)).
			Set("current_participants = current_participants - 1").
			Set("updated_at = ?", time.Now()).
			Where("id = ?", id).
			Where("status = ?", enum.GroupBuyStatusRecruiting).
			Where("current_participants > 0").
			Exec(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to decrement participants for group-buy %d: %w", id, err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return false, err
		}

		return affected > 0, nil
	})
}

// ListExpiredBidding returns group-buys still marked as bidding whose end
// time has passed, for the sweep worker to force-close.
func (m *GroupBuyModel) ListExpiredBidding(
	ctx context.Context, now time.Time, limit int,
) ([]*types.GroupBuy, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.GroupBuy, error) {
		var groupBuys []*types.GroupBuy

		err := m.db.NewSelect().
			Model(&groupBuys).
			Where("status = ?", enum.GroupBuyStatusBidding).
			Where("end_time <= ?", now).
			OrderExpr("end_time ASC").
			Limit(limit).
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list expired bidding group-buys: %w", err)
		}

		return groupBuys, nil
	})
}

// ListExpiredFinalSelection returns group-buys whose final-selection
// deadline has passed without being settled.
func (m *GroupBuyModel) ListExpiredFinalSelection(
	ctx context.Context, now time.Time, limit int,
) ([]*types.GroupBuy, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.GroupBuy, error) {
		var groupBuys []*types.GroupBuy

		err := m.db.NewSelect().
			Model(&groupBuys).
			Where("status IN (?)", bun.In([]enum.GroupBuyStatus{
				enum.GroupBuyStatusFinalSelectionSeller,
				enum.GroupBuyStatusFinalSelectionBuyers,
			})).
			Where("final_selection_end IS NOT NULL").
			Where("final_selection_end <= ?", now).
			OrderExpr("final_selection_end ASC").
			Limit(limit).
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list expired final-selection group-buys: %w", err)
		}

		return groupBuys, nil
	})
}

// GetForUpdate locks and returns a group-buy row inside the caller's
// transaction, serializing winner selection per group-buy.
func (m *GroupBuyModel) GetForUpdate(
	ctx context.Context, tx bun.Tx, id int64,
) (*types.GroupBuy, error) {
	groupBuy := new(types.GroupBuy)

	err := tx.NewSelect().
		Model(groupBuy).
		Where("id = ?", id).
		For("UPDATE").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrGroupBuyNotFound
		}

		return nil, fmt.Errorf("failed to lock group-buy %d: %w", id, err)
	}

	return groupBuy, nil
}

// RecordWinnerTx stamps the winning bid and opens the seller
// final-selection window inside the caller's transaction.
func (m *GroupBuyModel) RecordWinnerTx(
	ctx context.Context, tx bun.Tx, id, bidID, amount int64, deadline time.Time,
) error {
	result, err := tx.NewUpdate().
		Model((*types.GroupBuy)(nil)).
		Set("status = ?", enum.GroupBuyStatusFinalSelectionSeller).
		Set("winning_bid_id = ?", bidID).
		Set("winning_bid_amount = ?", amount).
		Set("final_selection_end = ?", deadline).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Where("status = ?", enum.GroupBuyStatusBidding).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to record winner for group-buy %d: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return fmt.Errorf("%w: group-buy %d already left bidding", types.ErrAlreadyDecided, id)
	}

	return nil
}

// ReopenBidding sends a group-buy back to the bidding stage with a fresh
// end time, clearing the failed winner.
func (m *GroupBuyModel) ReopenBidding(
	ctx context.Context, id int64, from enum.GroupBuyStatus, newEndTime time.Time,
) (bool, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (bool, error) {
		result, err := m.db.NewUpdate().
			Model((*types.GroupBuy)(nil)).
			Set("status = ?", enum.GroupBuyStatusBidding).
			Set("winning_bid_id = NULL").
			Set("winning_bid_amount = NULL").
			Set("final_selection_end = NULL").
			Set("end_time = ?", newEndTime).
			Set("updated_at = ?", time.Now()).
			Where("id = ?", id).
			Where("status = ?", from).
			Exec(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to reopen bidding for group-buy %d: %w", id, err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return false, err
		}

		return affected > 0, nil
	})
}
