package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gongguhub/gonggu/internal/database/dbretry"
	"github.com/gongguhub/gonggu/internal/database/models"
	"github.com/gongguhub/gonggu/internal/database/types"
	"github.com/gongguhub/gonggu/internal/database/types/enum"
	"github.com/gongguhub/gonggu/internal/events"
	"github.com/gongguhub/gonggu/internal/setup/config"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// WinnerService settles bidding by selecting the winning bid and opening
// the seller final-selection window.
type WinnerService struct {
	db       *bun.DB
	bid      *models.BidModel
	groupBuy *models.GroupBuyModel
	notifier *events.Notifier
	policy   *config.Policy
	logger   *zap.Logger
}

// NewWinner creates a new winner selection service.
func NewWinner(
	db *bun.DB, bid *models.BidModel, groupBuy *models.GroupBuyModel,
	notifier *events.Notifier, policy *config.Policy, logger *zap.Logger,
) *WinnerService {
	return &WinnerService{
		db:       db,
		bid:      bid,
		groupBuy: groupBuy,
		notifier: notifier,
		policy:   policy,
		logger:   logger.Named("winner_service"),
	}
}

// SelectWinner picks the winning bid for a group-buy whose bidding window
// has ended and advances the lifecycle to seller final selection. The
// group-buy row is locked for the duration, so a second concurrent call
// observes the settled state and fails with ErrAlreadyDecided. Admins may
// pass adminOverride to settle before the window elapses.
func (s *WinnerService) SelectWinner(
	ctx context.Context, groupBuyID int64, adminOverride bool,
) (*types.Bid, error) {
	var winner *types.Bid

	err := dbretry.Transaction(ctx, s.db, func(ctx context.Context, tx bun.Tx) error {
		groupBuy, err := s.groupBuy.GetForUpdate(ctx, tx, groupBuyID)
		if err != nil {
			return err
		}

		switch groupBuy.Status {
		case enum.GroupBuyStatusBidding:
		case enum.GroupBuyStatusRecruiting:
			return fmt.Errorf("%w: group-buy %d has not started bidding",
				types.ErrInvalidTransition, groupBuyID)
		default:
			return fmt.Errorf("%w: winner already settled for group-buy %d",
				types.ErrAlreadyDecided, groupBuyID)
		}

		now := time.Now()
		if !adminOverride && !groupBuy.BiddingEnded(now) {
			return fmt.Errorf("%w: bidding runs until %s",
				types.ErrInvalidTransition, groupBuy.EndTime.Format(time.RFC3339))
		}

		pending, err := s.bid.ListPendingForUpdate(ctx, tx, groupBuyID)
		if err != nil {
			return err
		}

		if len(pending) == 0 {
			return fmt.Errorf("%w: group-buy %d", types.ErrNoBids, groupBuyID)
		}

		RankBids(pending)
		winner = pending[0]

		if err := s.bid.SettleSelectionTx(ctx, tx, groupBuyID, winner.ID); err != nil {
			return err
		}

		deadline := now.Add(time.Duration(s.policy.FinalSelectionHours) * time.Hour)

		return s.groupBuy.RecordWinnerTx(ctx, tx, groupBuyID, winner.ID, winner.Amount, deadline)
	})
	if err != nil {
		return nil, err
	}

	winner.Status = enum.BidStatusSelected
	s.assertSingleWinner(ctx, groupBuyID)

	s.logger.Info("Winner selected",
		zap.Int64("groupBuyID", groupBuyID),
		zap.Int64("bidID", winner.ID),
		zap.Int64("sellerID", winner.SellerID),
		zap.Int64("amount", winner.Amount),
		zap.Bool("adminOverride", adminOverride))

	s.notifier.Publish(ctx, events.Event{
		Name:       events.BidSelected,
		UserID:     winner.SellerID,
		GroupBuyID: groupBuyID,
		Payload: map[string]any{
			"bid_id": winner.ID,
			"amount": winner.Amount,
			"type":   winner.Type.String(),
		},
	})

	return winner, nil
}

// assertSingleWinner fails loudly when more than one bid ended up
// selected, which means the row locking above was violated.
func (s *WinnerService) assertSingleWinner(ctx context.Context, groupBuyID int64) {
	count, err := s.bid.CountSelected(ctx, groupBuyID)
	if err != nil {
		s.logger.Warn("Failed to verify selected bid count",
			zap.Int64("groupBuyID", groupBuyID),
			zap.Error(err))

		return
	}

	if count > 1 {
		panic(fmt.Sprintf("group-buy %d has %d selected bids", groupBuyID, count))
	}
}
