package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gongguhub/gonggu/internal/database/dbretry"
	"github.com/gongguhub/gonggu/internal/database/types"
	"github.com/gongguhub/gonggu/internal/database/types/enum"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// BidModel handles database operations for seller bids.
type BidModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewBid creates a new BidModel instance.
func NewBid(db *bun.DB, logger *zap.Logger) *BidModel {
	return &BidModel{
		db:     db,
		logger: logger.Named("db_bid"),
	}
}

// Create inserts a new bid record.
func (m *BidModel) Create(ctx context.Context, bid *types.Bid) error {
	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := m.db.NewInsert().
			Model(bid).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create bid: %w", err)
		}

		return nil
	})
}

// Get retrieves a bid by ID.
func (m *BidModel) Get(ctx context.Context, id int64) (*types.Bid, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.Bid, error) {
		bid := new(types.Bid)

		err := m.db.NewSelect().
			Model(bid).
			Where("id = ?", id).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, types.ErrBidNotFound
			}

			return nil, fmt.Errorf("failed to get bid %d: %w", id, err)
		}

		return bid, nil
	})
}

// ListByGroupBuy returns all bids for a group-buy, newest first.
func (m *BidModel) ListByGroupBuy(ctx context.Context, groupBuyID int64) ([]*types.Bid, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.Bid, error) {
		var bids []*types.Bid

		err := m.db.NewSelect().
			Model(&bids).
			Where("group_buy_id = ?", groupBuyID).
			OrderExpr("created_at DESC").
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list bids for group-buy %d: %w", groupBuyID, err)
		}

		return bids, nil
	})
}

// ListPendingForUpdate locks and returns the pending bids of a group-buy
// inside the caller's transaction. The row locks keep a concurrent winner
// selection from reading the same pending set.
func (m *BidModel) ListPendingForUpdate(
	ctx context.Context, tx bun.Tx, groupBuyID int64,
) ([]*types.Bid, error) {
	var bids []*types.Bid

	err := tx.NewSelect().
		Model(&bids).
		Where("group_buy_id = ?", groupBuyID).
		Where("status = ?", enum.BidStatusPending).
		For("UPDATE").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to lock pending bids for group-buy %d: %w", groupBuyID, err)
	}

	return bids, nil
}

// CountSelected returns the number of selected bids for a group-buy. More
// than one indicates the single-writer guarantee was violated.
func (m *BidModel) CountSelected(ctx context.Context, groupBuyID int64) (int, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (int, error) {
		count, err := m.db.NewSelect().
			Model((*types.Bid)(nil)).
			Where("group_buy_id = ?", groupBuyID).
			Where("status = ?", enum.BidStatusSelected).
			Count(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to count selected bids for group-buy %d: %w", groupBuyID, err)
		}

		return count, nil
	})
}

// SettleSelectionTx marks the winner as selected and every other pending
// bid as rejected inside the caller's transaction.
func (m *BidModel) SettleSelectionTx(
	ctx context.Context, tx bun.Tx, groupBuyID, winnerID int64,
) error {
	result, err := tx.NewUpdate().
		Model((*types.Bid)(nil)).
		Set("status = ?", enum.BidStatusSelected).
		Where("id = ?", winnerID).
		Where("status = ?", enum.BidStatusPending).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to select bid %d: %w", winnerID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return fmt.Errorf("%w: bid %d is no longer pending", types.ErrAlreadyDecided, winnerID)
	}

	if _, err := tx.NewUpdate().
		Model((*types.Bid)(nil)).
		Set("status = ?", enum.BidStatusRejected).
		Where("group_buy_id = ?", groupBuyID).
		Where("status = ?", enum.BidStatusPending).
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to reject losing bids for group-buy %d: %w", groupBuyID, err)
	}

	return nil
}

// ReopenRejected returns rejected bids to the pending pool, excluding the
// failed winner, when a group-buy reopens for bidding.
func (m *BidModel) ReopenRejected(
	ctx context.Context, groupBuyID, excludeBidID int64,
) (int64, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (int64, error) {
		result, err := m.db.NewUpdate().
			Model((*types.Bid)(nil)).
			Set("status = ?", enum.BidStatusPending).
			Where("group_buy_id = ?", groupBuyID).
			Where("status = ?", enum.BidStatusRejected).
			Where("id != ?", excludeBidID).
			Exec(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to reopen rejected bids for group-buy %d: %w", groupBuyID, err)
		}

		return result.RowsAffected()
	})
}

// DemoteSelected marks a group-buy's selected bid as rejected after its
// seller or the consent gate fell through.
func (m *BidModel) DemoteSelected(ctx context.Context, groupBuyID int64) (bool, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (bool, error) {
		result, err := m.db.NewUpdate().
			Model((*types.Bid)(nil)).
			Set("status = ?", enum.BidStatusRejected).
			Where("group_buy_id = ?", groupBuyID).
			Where("status = ?", enum.BidStatusSelected).
			Exec(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to demote selected bid for group-buy %d: %w", groupBuyID, err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return false, err
		}

		return affected > 0, nil
	})
}
