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

// ParticipantModel handles database operations for group-buy memberships.
type ParticipantModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewParticipant creates a new ParticipantModel instance.
func NewParticipant(db *bun.DB, logger *zap.Logger) *ParticipantModel {
	return &ParticipantModel{
		db:     db,
		logger: logger.Named("db_participant"),
	}
}

// Add inserts a membership row for a buyer.
func (m *ParticipantModel) Add(ctx context.Context, participant *types.Participant) error {
	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := m.db.NewInsert().
			Model(participant).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to add participant: %w", err)
		}

		return nil
	})
}

// Remove deletes a membership row. Returns false if the buyer was not a
// participant.
func (m *ParticipantModel) Remove(ctx context.Context, groupBuyID, buyerID int64) (bool, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (bool, error) {
		result, err := m.db.NewDelete().
			Model((*types.Participant)(nil)).
			Where("group_buy_id = ?", groupBuyID).
			Where("buyer_id = ?", buyerID).
			Exec(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to remove participant: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return false, err
		}

		return affected > 0, nil
	})
}

// Get retrieves a buyer's membership in a group-buy.
func (m *ParticipantModel) Get(
	ctx context.Context, groupBuyID, buyerID int64,
) (*types.Participant, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.Participant, error) {
		participant := new(types.Participant)

		err := m.db.NewSelect().
			Model(participant).
			Where("group_buy_id = ?", groupBuyID).
			Where("buyer_id = ?", buyerID).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, types.ErrNotParticipant
			}

			return nil, fmt.Errorf("failed to get participant: %w", err)
		}

		return participant, nil
	})
}

// ListByGroupBuy returns all memberships for a group-buy.
func (m *ParticipantModel) ListByGroupBuy(
	ctx context.Context, groupBuyID int64,
) ([]*types.Participant, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.Participant, error) {
		var participants []*types.Participant

		err := m.db.NewSelect().
			Model(&participants).
			Where("group_buy_id = ?", groupBuyID).
			OrderExpr("joined_at ASC").
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list participants for group-buy %d: %w", groupBuyID, err)
		}

		return participants, nil
	})
}

// SetDecision records a buyer's final decision with a conditional update on
// the pending state. Returns false when the decision was already made, so a
// retried request cannot flip an answer.
func (m *ParticipantModel) SetDecision(
	ctx context.Context, groupBuyID, buyerID int64, decision enum.FinalDecision, decidedAt time.Time,
) (bool, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (bool, error) {
		result, err := m.db.NewUpdate().
			Model((*types.Participant)(nil)).
			Set("final_decision = ?", decision).
			Set("confirmed_at = ?", decidedAt).
			Where("group_buy_id = ?", groupBuyID).
			Where("buyer_id = ?", buyerID).
			Where("final_decision = ?", enum.FinalDecisionPending).
			Exec(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to set decision for buyer %d: %w", buyerID, err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return false, err
		}

		return affected > 0, nil
	})
}

// Stats tallies buyer decisions for one group-buy. The result is a snapshot
// and may trail in-flight decision writes.
func (m *ParticipantModel) Stats(
	ctx context.Context, groupBuyID int64,
) (types.ConfirmationStats, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (types.ConfirmationStats, error) {
		var rows []struct {
			FinalDecision enum.FinalDecision `bun:"final_decision"`
			Count         int                `bun:"count"`
		}

		err := m.db.NewSelect().
			Model((*types.Participant)(nil)).
			ColumnExpr("final_decision").
			ColumnExpr("COUNT(*) AS count").
			Where("group_buy_id = ?", groupBuyID).
			GroupExpr("final_decision").
			Scan(ctx, &rows)
		if err != nil {
			return types.ConfirmationStats{}, fmt.Errorf(
				"failed to tally decisions for group-buy %d: %w", groupBuyID, err)
		}

		var stats types.ConfirmationStats
		for _, row := range rows {
			stats.Total += row.Count

			switch row.FinalDecision {
			case enum.FinalDecisionConfirmed:
				stats.Confirmed = row.Count
			case enum.FinalDecisionCancelled:
				stats.Cancelled = row.Count
			case enum.FinalDecisionPending:
				stats.Pending = row.Count
			}
		}

		return stats, nil
	})
}

// ConfirmAllPending commits every undecided participant, used when a
// consent process ends in unanimous agreement.
func (m *ParticipantModel) ConfirmAllPending(
	ctx context.Context, groupBuyID int64, decidedAt time.Time,
) (int64, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (int64, error) {
		result, err := m.db.NewUpdate().
			Model((*types.Participant)(nil)).
			Set("final_decision = ?", enum.FinalDecisionConfirmed).
			Set("confirmed_at = ?", decidedAt).
			Where("group_buy_id = ?", groupBuyID).
			Where("final_decision = ?", enum.FinalDecisionPending).
			Exec(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to confirm pending participants for group-buy %d: %w", groupBuyID, err)
		}

		return result.RowsAffected()
	})
}

// ResetDecisions clears all final decisions for a new selection cycle
// after a group-buy reopens for bidding.
func (m *ParticipantModel) ResetDecisions(ctx context.Context, groupBuyID int64) error {
	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := m.db.NewUpdate().
			Model((*types.Participant)(nil)).
			Set("final_decision = ?", enum.FinalDecisionPending).
			Set("confirmed_at = NULL").
			Where("group_buy_id = ?", groupBuyID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to reset decisions for group-buy %d: %w", groupBuyID, err)
		}

		return nil
	})
}
