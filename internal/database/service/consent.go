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

// ConsentService runs the administrator-triggered batch agree/decline gate
// on the winning bid. It is an alternative to the buyer-by-buyer
// confirmation flow: one process per selection cycle, all current
// participants answer once, unanimity commits the trade.
type ConsentService struct {
	consent     *models.ConsentModel
	groupBuy    *models.GroupBuyModel
	participant *models.ParticipantModel
	bid         *models.BidModel
	notifier    *events.Notifier
	policy      *config.Policy
	logger      *zap.Logger
}

// NewConsent creates a new consent service.
func NewConsent(
	consent *models.ConsentModel, groupBuy *models.GroupBuyModel,
	participant *models.ParticipantModel, bid *models.BidModel,
	notifier *events.Notifier, policy *config.Policy, logger *zap.Logger,
) *ConsentService {
	return &ConsentService{
		consent:     consent,
		groupBuy:    groupBuy,
		participant: participant,
		bid:         bid,
		notifier:    notifier,
		policy:      policy,
		logger:      logger.Named("consent_service"),
	}
}

// Start opens a consent process on the winning bid. The duration is
// clamped to [1,168] hours with 24 as the default; every current
// participant is seeded with a pending answer. A process that already ran
// this selection cycle blocks a restart.
func (s *ConsentService) Start(
	ctx context.Context, groupBuyID, startedBy int64, durationHours int,
) (*types.ConsentProcess, error) {
	groupBuy, err := s.groupBuy.Get(ctx, groupBuyID)
	if err != nil {
		return nil, err
	}

	if groupBuy.Status != enum.GroupBuyStatusFinalSelectionBuyers {
		return nil, fmt.Errorf("%w: consent requires buyer final selection, group-buy %d is %s",
			types.ErrInvalidTransition, groupBuyID, groupBuy.Status)
	}

	if groupBuy.WinningBidID == nil {
		return nil, fmt.Errorf("%w: group-buy %d has no winning bid",
			types.ErrInvalidTransition, groupBuyID)
	}

	prior, err := s.consent.GetLatestProcess(ctx, groupBuyID)
	if err != nil {
		return nil, err
	}

	// A cancelled prior process only unblocks a restart once the
	// group-buy has cycled back through bidding, which replaces the
	// winning bid the prior process was gating.
	if prior != nil &&
		(prior.Status != enum.ConsentProcessStatusCancelled || prior.BidID == *groupBuy.WinningBidID) {
		return nil, fmt.Errorf("%w: process %d is %s",
			types.ErrProcessAlreadyStarted, prior.ID, prior.Status)
	}

	participants, err := s.participant.ListByGroupBuy(ctx, groupBuyID)
	if err != nil {
		return nil, err
	}

	participantIDs := make([]int64, len(participants))
	for i, p := range participants {
		participantIDs[i] = p.BuyerID
	}

	now := time.Now()
	hours := types.ClampConsentHours(durationHours)

	process := &types.ConsentProcess{
		GroupBuyID: groupBuyID,
		BidID:      *groupBuy.WinningBidID,
		Status:     enum.ConsentProcessStatusOpen,
		Deadline:   now.Add(time.Duration(hours) * time.Hour),
		StartedBy:  startedBy,
		StartedAt:  now,
	}

	if err := s.consent.CreateProcess(ctx, process, participantIDs); err != nil {
		return nil, fmt.Errorf("failed to start consent process: %w", err)
	}

	s.logger.Info("Consent process started",
		zap.Int64("groupBuyID", groupBuyID),
		zap.Int64("processID", process.ID),
		zap.Int64("startedBy", startedBy),
		zap.Int("durationHours", hours),
		zap.Int("participants", len(participantIDs)))

	s.notifier.Publish(ctx, events.Event{
		Name:       events.ConsentOpened,
		UserID:     startedBy,
		GroupBuyID: groupBuyID,
		Payload: map[string]any{
			"process_id": process.ID,
			"bid_id":     process.BidID,
			"deadline":   process.Deadline,
		},
	})

	return process, nil
}

// Respond records a participant's agree or decline. Each participant
// answers exactly once before the deadline; a decline closes the process
// immediately, the final agreement closes it approved.
func (s *ConsentService) Respond(
	ctx context.Context, groupBuyID, buyerID int64, agreed bool,
) error {
	process, err := s.consent.GetLatestProcess(ctx, groupBuyID)
	if err != nil {
		return err
	}

	if process == nil || process.Status.Closed() {
		return fmt.Errorf("%w: no open consent process for group-buy %d",
			types.ErrInvalidTransition, groupBuyID)
	}

	now := time.Now()
	if process.Expired(now) {
		// The stored status trails the wall clock; settle before
		// rejecting the late answer.
		if err := s.settleExpired(ctx, process, now); err != nil {
			return err
		}

		return &types.WindowClosedError{Deadline: process.Deadline}
	}

	response, err := s.consent.GetResponse(ctx, process.ID, buyerID)
	if err != nil {
		return err
	}

	if response.State.Decided() {
		return fmt.Errorf("%w: buyer %d already answered %s",
			types.ErrAlreadyDecided, buyerID, response.State)
	}

	state := enum.ConsentStateDeclined
	if agreed {
		state = enum.ConsentStateAgreed
	}

	updated, err := s.consent.SetResponse(ctx, process.ID, buyerID, state, now)
	if err != nil {
		return err
	}

	if !updated {
		return fmt.Errorf("%w: buyer %d already answered", types.ErrAlreadyDecided, buyerID)
	}

	s.logger.Info("Consent answer recorded",
		zap.Int64("groupBuyID", groupBuyID),
		zap.Int64("processID", process.ID),
		zap.Int64("buyerID", buyerID),
		zap.String("state", state.String()))

	if !agreed {
		return s.closeFailed(ctx, process, now)
	}

	pending, _, declined, err := s.consent.CountResponses(ctx, process.ID)
	if err != nil {
		return err
	}

	if pending == 0 && declined == 0 {
		return s.closeApproved(ctx, process, now)
	}

	return nil
}

// Settle closes an open process whose deadline has passed. Mutating paths
// call this lazily; the sweep worker calls it for consistency.
func (s *ConsentService) Settle(ctx context.Context, process *types.ConsentProcess) error {
	now := time.Now()
	if process.Status.Closed() || !process.Expired(now) {
		return nil
	}

	return s.settleExpired(ctx, process, now)
}

// GetLatest returns the most recent consent process for a group-buy, or
// nil when none was started.
func (s *ConsentService) GetLatest(ctx context.Context, groupBuyID int64) (*types.ConsentProcess, error) {
	return s.consent.GetLatestProcess(ctx, groupBuyID)
}

// settleExpired applies the deadline outcome: unanimous agreement wins,
// anything else fails the process.
func (s *ConsentService) settleExpired(
	ctx context.Context, process *types.ConsentProcess, now time.Time,
) error {
	pending, _, declined, err := s.consent.CountResponses(ctx, process.ID)
	if err != nil {
		return err
	}

	if pending == 0 && declined == 0 {
		return s.closeApproved(ctx, process, now)
	}

	return s.closeFailed(ctx, process, now)
}

// closeApproved commits the trade: the process closes approved, the
// group-buy advances to confirmed, and every still-pending participant is
// committed alongside their unanimous consent.
func (s *ConsentService) closeApproved(
	ctx context.Context, process *types.ConsentProcess, now time.Time,
) error {
	closed, err := s.consent.CloseProcess(ctx, process.ID, enum.ConsentProcessStatusApproved, now)
	if err != nil {
		return err
	}

	if !closed {
		// Another writer settled it first.
		return nil
	}

	if _, err := s.groupBuy.TransitionStatus(ctx, process.GroupBuyID,
		enum.GroupBuyStatusFinalSelectionBuyers, enum.GroupBuyStatusConfirmed); err != nil {
		return err
	}

	if _, err := s.participant.ConfirmAllPending(ctx, process.GroupBuyID, now); err != nil {
		return err
	}

	s.logger.Info("Consent process approved",
		zap.Int64("groupBuyID", process.GroupBuyID),
		zap.Int64("processID", process.ID))

	return nil
}

// closeFailed cancels the process and applies the configured failure
// policy: cancel the group-buy outright, or send it back to bidding with
// the remaining bids and a fresh window.
func (s *ConsentService) closeFailed(
	ctx context.Context, process *types.ConsentProcess, now time.Time,
) error {
	closed, err := s.consent.CloseProcess(ctx, process.ID, enum.ConsentProcessStatusCancelled, now)
	if err != nil {
		return err
	}

	if !closed {
		return nil
	}

	if !s.policy.ReopenOnConsentFailure() {
		if _, err := s.groupBuy.TransitionStatus(ctx, process.GroupBuyID,
			enum.GroupBuyStatusFinalSelectionBuyers, enum.GroupBuyStatusCancelled); err != nil {
			return err
		}

		s.logger.Info("Consent process failed, group-buy cancelled",
			zap.Int64("groupBuyID", process.GroupBuyID),
			zap.Int64("processID", process.ID))

		return nil
	}

	return s.reopenBidding(ctx, process, now)
}

// reopenBidding returns the group-buy to the bidding stage: the failed
// winner stays rejected, the other bids go back to pending, and buyer
// decisions reset for the next cycle.
func (s *ConsentService) reopenBidding(
	ctx context.Context, process *types.ConsentProcess, now time.Time,
) error {
	newEndTime := now.Add(time.Duration(s.policy.ReopenBiddingHours) * time.Hour)

	reopened, err := s.groupBuy.ReopenBidding(ctx, process.GroupBuyID,
		enum.GroupBuyStatusFinalSelectionBuyers, newEndTime)
	if err != nil {
		return err
	}

	if !reopened {
		return nil
	}

	if _, err := s.bid.DemoteSelected(ctx, process.GroupBuyID); err != nil {
		return err
	}

	restored, err := s.bid.ReopenRejected(ctx, process.GroupBuyID, process.BidID)
	if err != nil {
		return err
	}

	if err := s.participant.ResetDecisions(ctx, process.GroupBuyID); err != nil {
		return err
	}

	s.logger.Info("Consent process failed, bidding reopened",
		zap.Int64("groupBuyID", process.GroupBuyID),
		zap.Int64("processID", process.ID),
		zap.Int64("bidsRestored", restored),
		zap.Time("newEndTime", newEndTime))

	return nil
}
