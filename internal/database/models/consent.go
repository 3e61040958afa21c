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

// ConsentModel handles database operations for consent processes and their
// per-participant responses.
type ConsentModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewConsent creates a new ConsentModel instance.
func NewConsent(db *bun.DB, logger *zap.Logger) *ConsentModel {
	return &ConsentModel{
		db:     db,
		logger: logger.Named("db_consent"),
	}
}

// CreateProcess inserts a consent process and seeds a pending response for
// every current participant in one transaction.
func (m *ConsentModel) CreateProcess(
	ctx context.Context, process *types.ConsentProcess, participantIDs []int64,
) error {
	return dbretry.Transaction(ctx, m.db, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(process).Exec(ctx); err != nil {
			return fmt.Errorf("failed to create consent process: %w", err)
		}

		responses := make([]*types.ConsentResponse, 0, len(participantIDs))
		for _, buyerID := range participantIDs {
			responses = append(responses, &types.ConsentResponse{
				ProcessID: process.ID,
				BuyerID:   buyerID,
				State:     enum.ConsentStatePending,
			})
		}

		if len(responses) == 0 {
			return nil
		}

		if _, err := tx.NewInsert().Model(&responses).Exec(ctx); err != nil {
			return fmt.Errorf("failed to seed consent responses: %w", err)
		}

		return nil
	})
}

// GetLatestProcess retrieves the most recent consent process for a
// group-buy, or nil when none has been started.
func (m *ConsentModel) GetLatestProcess(
	ctx context.Context, groupBuyID int64,
) (*types.ConsentProcess, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.ConsentProcess, error) {
		process := new(types.ConsentProcess)

		err := m.db.NewSelect().
			Model(process).
			Where("group_buy_id = ?", groupBuyID).
			OrderExpr("started_at DESC").
			Limit(1).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, nil
			}

			return nil, fmt.Errorf("failed to get consent process for group-buy %d: %w", groupBuyID, err)
		}

		return process, nil
	})
}

// GetResponse retrieves one participant's answer in a process.
func (m *ConsentModel) GetResponse(
	ctx context.Context, processID, buyerID int64,
) (*types.ConsentResponse, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.ConsentResponse, error) {
		response := new(types.ConsentResponse)

		err := m.db.NewSelect().
			Model(response).
			Where("process_id = ?", processID).
			Where("buyer_id = ?", buyerID).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, types.ErrNotParticipant
			}

			return nil, fmt.Errorf("failed to get consent response: %w", err)
		}

		return response, nil
	})
}

// SetResponse records a participant's answer with a conditional update on
// the pending state. Returns false when the answer was already given.
func (m *ConsentModel) SetResponse(
	ctx context.Context, processID, buyerID int64, state enum.ConsentState, answeredAt time.Time,
) (bool, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (bool, error) {
		result, err := m.db.NewUpdate().
			Model((*types.ConsentResponse)(nil)).
			Set("state = ?", state).
			Set("answered_at = ?", answeredAt).
			Where("process_id = ?", processID).
			Where("buyer_id = ?", buyerID).
			Where("state = ?", enum.ConsentStatePending).
			Exec(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to set consent response for buyer %d: %w", buyerID, err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return false, err
		}

		return affected > 0, nil
	})
}

// CountResponses tallies answers for a process by state.
func (m *ConsentModel) CountResponses(
	ctx context.Context, processID int64,
) (pending, agreed, declined int, err error) {
	type tally struct {
		Pending  int
		Agreed   int
		Declined int
	}

	counts, err := dbretry.Operation(ctx, func(ctx context.Context) (tally, error) {
		var rows []struct {
			State enum.ConsentState `bun:"state"`
			Count int               `bun:"count"`
		}

		err := m.db.NewSelect().
			Model((*types.ConsentResponse)(nil)).
			ColumnExpr("state").
			ColumnExpr("COUNT(*) AS count").
			Where("process_id = ?", processID).
			GroupExpr("state").
			Scan(ctx, &rows)
		if err != nil {
			return tally{}, fmt.Errorf("failed to tally consent responses for process %d: %w", processID, err)
		}

		var t tally
		for _, row := range rows {
			switch row.State {
			case enum.ConsentStatePending:
				t.Pending = row.Count
			case enum.ConsentStateAgreed:
				t.Agreed = row.Count
			case enum.ConsentStateDeclined:
				t.Declined = row.Count
			}
		}

		return t, nil
	})
	if err != nil {
		return 0, 0, 0, err
	}

	return counts.Pending, counts.Agreed, counts.Declined, nil
}

// CloseProcess records the outcome with a conditional update on the open
// status. Returns false when another writer already closed the process.
func (m *ConsentModel) CloseProcess(
	ctx context.Context, processID int64, outcome enum.ConsentProcessStatus, closedAt time.Time,
) (bool, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (bool, error) {
		result, err := m.db.NewUpdate().
			Model((*types.ConsentProcess)(nil)).
			Set("status = ?", outcome).
			Set("closed_at = ?", closedAt).
			Where("id = ?", processID).
			Where("status = ?", enum.ConsentProcessStatusOpen).
			Exec(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to close consent process %d: %w", processID, err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return false, err
		}

		return affected > 0, nil
	})
}

// ListExpiredOpen returns open processes whose deadline has passed, for the
// sweep worker to settle.
func (m *ConsentModel) ListExpiredOpen(
	ctx context.Context, now time.Time, limit int,
) ([]*types.ConsentProcess, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.ConsentProcess, error) {
		var processes []*types.ConsentProcess

		err := m.db.NewSelect().
			Model(&processes).
			Where("status = ?", enum.ConsentProcessStatusOpen).
			Where("deadline <= ?", now).
			OrderExpr("deadline ASC").
			Limit(limit).
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list expired consent processes: %w", err)
		}

		return processes, nil
	})
}
