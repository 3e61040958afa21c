package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/gongguhub/gonggu/internal/database/models"
	"github.com/gongguhub/gonggu/internal/database/types"
	"github.com/gongguhub/gonggu/internal/database/types/enum"
	"go.uber.org/zap"
)

// BidService handles seller bid submission and ranking against open
// group-buys.
type BidService struct {
	bid      *models.BidModel
	groupBuy *models.GroupBuyModel
	penalty  *PenaltyService
	logger   *zap.Logger
}

// NewBid creates a new bid service.
func NewBid(
	bid *models.BidModel, groupBuy *models.GroupBuyModel,
	penalty *PenaltyService, logger *zap.Logger,
) *BidService {
	return &BidService{
		bid:      bid,
		groupBuy: groupBuy,
		penalty:  penalty,
		logger:   logger.Named("bid_service"),
	}
}

// Submit records a seller's bid against a group-buy in the bidding stage.
// The bidding window is re-checked against the wall clock, not just the
// stored status.
func (s *BidService) Submit(
	ctx context.Context, groupBuyID, sellerID, amount int64, bidType enum.BidType,
) (*types.Bid, error) {
	if err := s.penalty.EnsureEligible(ctx, sellerID); err != nil {
		return nil, err
	}

	groupBuy, err := s.groupBuy.Get(ctx, groupBuyID)
	if err != nil {
		return nil, err
	}

	if groupBuy.Status != enum.GroupBuyStatusBidding {
		return nil, fmt.Errorf("%w: bids are only accepted during bidding, group-buy %d is %s",
			types.ErrInvalidTransition, groupBuyID, groupBuy.Status)
	}

	now := time.Now()
	if groupBuy.BiddingEnded(now) {
		return nil, &types.WindowClosedError{Deadline: groupBuy.EndTime}
	}

	bid := &types.Bid{
		GroupBuyID: groupBuyID,
		SellerID:   sellerID,
		Amount:     amount,
		Type:       bidType,
		Status:     enum.BidStatusPending,
		CreatedAt:  now,
	}

	if err := s.bid.Create(ctx, bid); err != nil {
		return nil, fmt.Errorf("failed to submit bid: %w", err)
	}

	s.logger.Info("Bid submitted",
		zap.Int64("groupBuyID", groupBuyID),
		zap.Int64("sellerID", sellerID),
		zap.Int64("amount", amount),
		zap.String("type", bidType.String()))

	return bid, nil
}

// Get returns a bid by ID.
func (s *BidService) Get(ctx context.Context, id int64) (*types.Bid, error) {
	return s.bid.Get(ctx, id)
}

// ListRanked returns a group-buy's bids in winning order.
func (s *BidService) ListRanked(ctx context.Context, groupBuyID int64) ([]*types.Bid, error) {
	bids, err := s.bid.ListByGroupBuy(ctx, groupBuyID)
	if err != nil {
		return nil, err
	}

	RankBids(bids)

	return bids, nil
}

// RankBids sorts bids in place into winning order: highest subsidy first
// for support bids, lowest price first for price bids, earliest submission
// breaking ties.
func RankBids(bids []*types.Bid) {
	sort.SliceStable(bids, func(i, j int) bool {
		return bids[i].Outranks(bids[j])
	})
}
