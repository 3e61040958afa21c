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
	"go.uber.org/zap"
)

// ConfirmationService runs the final-selection phase: the winning seller
// commits or declines, then every participant individually confirms or
// cancels before the shared deadline.
type ConfirmationService struct {
	groupBuy    *models.GroupBuyModel
	participant *models.ParticipantModel
	bid         *models.BidModel
	report      *models.ReportModel
	penalty     *PenaltyService
	notifier    *events.Notifier
	policy      *config.Policy
	logger      *zap.Logger
}

// NewConfirmation creates a new confirmation service.
func NewConfirmation(
	groupBuy *models.GroupBuyModel, participant *models.ParticipantModel,
	bid *models.BidModel, report *models.ReportModel, penalty *PenaltyService,
	notifier *events.Notifier, policy *config.Policy, logger *zap.Logger,
) *ConfirmationService {
	return &ConfirmationService{
		groupBuy:    groupBuy,
		participant: participant,
		bid:         bid,
		report:      report,
		penalty:     penalty,
		notifier:    notifier,
		policy:      policy,
		logger:      logger.Named("confirmation_service"),
	}
}

// SellerConfirm records the winning seller's commitment and opens the
// buyer confirmation window. Seller and buyers share the final-selection
// deadline set at winner selection.
func (s *ConfirmationService) SellerConfirm(ctx context.Context, groupBuyID, sellerID int64) error {
	groupBuy, err := s.sellerPhase(ctx, groupBuyID, sellerID)
	if err != nil {
		return err
	}

	now := time.Now()
	if !groupBuy.FinalSelectionOpen(now) {
		return s.windowClosed(groupBuy)
	}

	moved, err := s.groupBuy.TransitionStatus(ctx, groupBuyID,
		enum.GroupBuyStatusFinalSelectionSeller, enum.GroupBuyStatusFinalSelectionBuyers)
	if err != nil {
		return err
	}

	if !moved {
		return fmt.Errorf("%w: group-buy %d left seller selection",
			types.ErrAlreadyDecided, groupBuyID)
	}

	s.logger.Info("Seller confirmed sale",
		zap.Int64("groupBuyID", groupBuyID),
		zap.Int64("sellerID", sellerID))

	s.notifier.Publish(ctx, events.Event{
		Name:       events.FinalSelectionOpened,
		UserID:     sellerID,
		GroupBuyID: groupBuyID,
		Payload: map[string]any{
			"deadline": groupBuy.FinalSelectionEnd,
		},
	})

	return nil
}

// SellerDecline cancels the group-buy before any buyer has committed. No
// penalty applies at this stage.
func (s *ConfirmationService) SellerDecline(ctx context.Context, groupBuyID, sellerID int64) error {
	if _, err := s.sellerPhase(ctx, groupBuyID, sellerID); err != nil {
		return err
	}

	moved, err := s.groupBuy.TransitionStatus(ctx, groupBuyID,
		enum.GroupBuyStatusFinalSelectionSeller, enum.GroupBuyStatusCancelled)
	if err != nil {
		return err
	}

	if !moved {
		return fmt.Errorf("%w: group-buy %d left seller selection",
			types.ErrAlreadyDecided, groupBuyID)
	}

	if _, err := s.bid.DemoteSelected(ctx, groupBuyID); err != nil {
		return err
	}

	s.logger.Info("Seller declined sale, group-buy cancelled",
		zap.Int64("groupBuyID", groupBuyID),
		zap.Int64("sellerID", sellerID))

	return nil
}

// Confirm records a participant's commitment to the purchase.
func (s *ConfirmationService) Confirm(ctx context.Context, groupBuyID, buyerID int64) error {
	return s.decide(ctx, groupBuyID, buyerID, enum.FinalDecisionConfirmed)
}

// Cancel records a participant backing out of the purchase.
func (s *ConfirmationService) Cancel(ctx context.Context, groupBuyID, buyerID int64) error {
	return s.decide(ctx, groupBuyID, buyerID, enum.FinalDecisionCancelled)
}

func (s *ConfirmationService) decide(
	ctx context.Context, groupBuyID, buyerID int64, decision enum.FinalDecision,
) error {
	groupBuy, err := s.groupBuy.Get(ctx, groupBuyID)
	if err != nil {
		return err
	}

	if groupBuy.Status != enum.GroupBuyStatusFinalSelectionBuyers {
		return fmt.Errorf("%w: group-buy %d is %s",
			types.ErrInvalidTransition, groupBuyID, groupBuy.Status)
	}

	now := time.Now()
	if !groupBuy.FinalSelectionOpen(now) {
		return s.windowClosed(groupBuy)
	}

	participant, err := s.participant.Get(ctx, groupBuyID, buyerID)
	if err != nil {
		return err
	}

	if participant.FinalDecision.Decided() {
		return fmt.Errorf("%w: buyer %d already chose %s",
			types.ErrAlreadyDecided, buyerID, participant.FinalDecision)
	}

	updated, err := s.participant.SetDecision(ctx, groupBuyID, buyerID, decision, now)
	if err != nil {
		return err
	}

	if !updated {
		return fmt.Errorf("%w: buyer %d already decided", types.ErrAlreadyDecided, buyerID)
	}

	s.logger.Info("Buyer decision recorded",
		zap.Int64("groupBuyID", groupBuyID),
		zap.Int64("buyerID", buyerID),
		zap.String("decision", decision.String()))

	stats, err := s.participant.Stats(ctx, groupBuyID)
	if err != nil {
		return err
	}

	if stats.Pending == 0 {
		return s.settle(ctx, groupBuyID, stats)
	}

	return nil
}

// Stats returns the confirmation tallies and rate for a group-buy. The
// snapshot may trail in-flight decisions.
func (s *ConfirmationService) Stats(ctx context.Context, groupBuyID int64) (types.ConfirmationStats, error) {
	return s.participant.Stats(ctx, groupBuyID)
}

// SellerWithdraw lets the winning seller abandon the trade while buyer
// confirmations are underway. The confirmation rate is evaluated at
// withdrawal time: above the threshold the seller is penalized, at or
// below it they walk away free. Either way the group-buy cancels.
func (s *ConfirmationService) SellerWithdraw(ctx context.Context, groupBuyID, sellerID int64) error {
	groupBuy, err := s.groupBuy.Get(ctx, groupBuyID)
	if err != nil {
		return err
	}

	if groupBuy.Status != enum.GroupBuyStatusFinalSelectionBuyers {
		return fmt.Errorf("%w: group-buy %d is %s",
			types.ErrInvalidTransition, groupBuyID, groupBuy.Status)
	}

	winner, err := s.winningSeller(ctx, groupBuy)
	if err != nil {
		return err
	}

	if winner != sellerID {
		return fmt.Errorf("%w: seller %d did not win group-buy %d",
			types.ErrInvalidTransition, sellerID, groupBuyID)
	}

	stats, err := s.participant.Stats(ctx, groupBuyID)
	if err != nil {
		return err
	}

	moved, err := s.groupBuy.TransitionStatus(ctx, groupBuyID,
		enum.GroupBuyStatusFinalSelectionBuyers, enum.GroupBuyStatusCancelled)
	if err != nil {
		return err
	}

	if !moved {
		return fmt.Errorf("%w: group-buy %d already settled",
			types.ErrAlreadyDecided, groupBuyID)
	}

	if _, err := s.bid.DemoteSelected(ctx, groupBuyID); err != nil {
		return err
	}

	penalized := stats.PenalizesWithdrawal(s.policy.ConfirmationThreshold)

	s.logger.Info("Seller withdrew from trade",
		zap.Int64("groupBuyID", groupBuyID),
		zap.Int64("sellerID", sellerID),
		zap.Float64("confirmationRate", stats.Rate()),
		zap.Bool("penalized", penalized))

	if !penalized {
		return nil
	}

	strikes, err := s.report.CountVerifiedAgainst(ctx, sellerID)
	if err != nil {
		return err
	}

	reason := fmt.Sprintf("seller withdrawal from group-buy %d at %.1f%% confirmation",
		groupBuyID, stats.Rate())

	if _, err := s.penalty.IssueNoShowStrike(ctx, sellerID, strikes+1, reason); err != nil {
		return err
	}

	return nil
}

// SettleExpired settles a group-buy whose final-selection window lapsed.
// A seller who never answered cancels the trade; an undecided buyer
// window settles on the confirmation rate. Called lazily and by the
// sweep worker.
func (s *ConfirmationService) SettleExpired(ctx context.Context, groupBuy *types.GroupBuy) error {
	if groupBuy.FinalSelectionOpen(time.Now()) {
		return nil
	}

	switch groupBuy.Status {
	case enum.GroupBuyStatusFinalSelectionSeller:
		moved, err := s.groupBuy.TransitionStatus(ctx, groupBuy.ID,
			enum.GroupBuyStatusFinalSelectionSeller, enum.GroupBuyStatusCancelled)
		if err != nil {
			return err
		}

		if moved {
			if _, err := s.bid.DemoteSelected(ctx, groupBuy.ID); err != nil {
				return err
			}

			s.logger.Info("Seller window lapsed, group-buy cancelled",
				zap.Int64("groupBuyID", groupBuy.ID))
		}

		return nil
	case enum.GroupBuyStatusFinalSelectionBuyers:
		stats, err := s.participant.Stats(ctx, groupBuy.ID)
		if err != nil {
			return err
		}

		return s.settle(ctx, groupBuy.ID, stats)
	default:
		return nil
	}
}

// settle commits or cancels once every decision is in or the window has
// lapsed. A confirmation rate above the threshold commits the trade.
func (s *ConfirmationService) settle(
	ctx context.Context, groupBuyID int64, stats types.ConfirmationStats,
) error {
	target := enum.GroupBuyStatusCancelled
	if stats.Rate() > s.policy.ConfirmationThreshold {
		target = enum.GroupBuyStatusConfirmed
	}

	moved, err := s.groupBuy.TransitionStatus(ctx, groupBuyID,
		enum.GroupBuyStatusFinalSelectionBuyers, target)
	if err != nil {
		return err
	}

	if !moved {
		// Another writer settled first.
		return nil
	}

	if target == enum.GroupBuyStatusCancelled {
		if _, err := s.bid.DemoteSelected(ctx, groupBuyID); err != nil {
			return err
		}
	}

	s.logger.Info("Buyer window settled",
		zap.Int64("groupBuyID", groupBuyID),
		zap.String("outcome", target.String()),
		zap.Float64("confirmationRate", stats.Rate()),
		zap.Int("confirmed", stats.Confirmed),
		zap.Int("cancelled", stats.Cancelled),
		zap.Int("pending", stats.Pending))

	return nil
}

// sellerPhase loads the group-buy and verifies it is waiting on this
// seller's decision.
func (s *ConfirmationService) sellerPhase(
	ctx context.Context, groupBuyID, sellerID int64,
) (*types.GroupBuy, error) {
	groupBuy, err := s.groupBuy.Get(ctx, groupBuyID)
	if err != nil {
		return nil, err
	}

	if groupBuy.Status != enum.GroupBuyStatusFinalSelectionSeller {
		return nil, fmt.Errorf("%w: group-buy %d is %s",
			types.ErrInvalidTransition, groupBuyID, groupBuy.Status)
	}

	winner, err := s.winningSeller(ctx, groupBuy)
	if err != nil {
		return nil, err
	}

	if winner != sellerID {
		return nil, fmt.Errorf("%w: seller %d did not win group-buy %d",
			types.ErrInvalidTransition, sellerID, groupBuyID)
	}

	return groupBuy, nil
}

// winningSeller resolves the seller behind the group-buy's winning bid.
func (s *ConfirmationService) winningSeller(
	ctx context.Context, groupBuy *types.GroupBuy,
) (int64, error) {
	if groupBuy.WinningBidID == nil {
		return 0, fmt.Errorf("%w: group-buy %d has no winning bid",
			types.ErrInvalidTransition, groupBuy.ID)
	}

	bid, err := s.bid.Get(ctx, *groupBuy.WinningBidID)
	if err != nil {
		return 0, err
	}

	return bid.SellerID, nil
}

func (s *ConfirmationService) windowClosed(groupBuy *types.GroupBuy) error {
	if groupBuy.FinalSelectionEnd != nil {
		return &types.WindowClosedError{Deadline: *groupBuy.FinalSelectionEnd}
	}

	return types.ErrWindowClosed
}
