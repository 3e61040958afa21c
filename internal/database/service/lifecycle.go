package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gongguhub/gonggu/internal/database/models"
	"github.com/gongguhub/gonggu/internal/database/types"
	"github.com/gongguhub/gonggu/internal/database/types/enum"
	"go.uber.org/zap"
)

// LifecycleService owns the group-buy status field and enforces legal
// transitions between lifecycle stages. Every transition rides a
// conditional update keyed on the current status, so two concurrent
// writers cannot both succeed.
type LifecycleService struct {
	groupBuy    *models.GroupBuyModel
	participant *models.ParticipantModel
	penalty     *PenaltyService
	logger      *zap.Logger
}

// NewLifecycle creates a new lifecycle service.
func NewLifecycle(
	groupBuy *models.GroupBuyModel, participant *models.ParticipantModel,
	penalty *PenaltyService, logger *zap.Logger,
) *LifecycleService {
	return &LifecycleService{
		groupBuy:    groupBuy,
		participant: participant,
		penalty:     penalty,
		logger:      logger.Named("lifecycle_service"),
	}
}

// Create opens a new group-buy in the recruiting stage. Users under an
// active penalty may not start one.
func (s *LifecycleService) Create(
	ctx context.Context, groupBuy *types.GroupBuy, createdBy int64,
) error {
	if err := s.penalty.EnsureEligible(ctx, createdBy); err != nil {
		return err
	}

	now := time.Now()
	groupBuy.Status = enum.GroupBuyStatusRecruiting
	groupBuy.CurrentParticipants = 0
	groupBuy.CreatedAt = now
	groupBuy.UpdatedAt = now

	if err := s.groupBuy.Create(ctx, groupBuy); err != nil {
		return fmt.Errorf("failed to create group-buy: %w", err)
	}

	s.logger.Info("Created group-buy",
		zap.Int64("groupBuyID", groupBuy.ID),
		zap.Int64("createdBy", createdBy),
		zap.Int("maxParticipants", groupBuy.MaxParticipants))

	return nil
}

// Get returns a group-buy by ID.
func (s *LifecycleService) Get(ctx context.Context, id int64) (*types.GroupBuy, error) {
	return s.groupBuy.Get(ctx, id)
}

// Join adds a buyer to a recruiting group-buy. The slot is claimed under
// the cap first, then the membership row is written; reaching the cap
// closes recruitment and opens bidding.
func (s *LifecycleService) Join(ctx context.Context, groupBuyID, buyerID int64) error {
	if err := s.penalty.EnsureEligible(ctx, buyerID); err != nil {
		return err
	}

	groupBuy, err := s.groupBuy.Get(ctx, groupBuyID)
	if err != nil {
		return err
	}

	if groupBuy.Status != enum.GroupBuyStatusRecruiting {
		return fmt.Errorf("%w: cannot join a %s group-buy",
			types.ErrInvalidTransition, groupBuy.Status)
	}

	count, err := s.groupBuy.IncrementParticipants(ctx, groupBuyID)
	if err != nil {
		return err
	}

	if count == nil {
		return fmt.Errorf("%w: group-buy %d", types.ErrGroupBuyFull, groupBuyID)
	}

	err = s.participant.Add(ctx, &types.Participant{
		GroupBuyID:    groupBuyID,
		BuyerID:       buyerID,
		FinalDecision: enum.FinalDecisionPending,
		JoinedAt:      time.Now(),
	})
	if err != nil {
		// Release the slot the failed join claimed.
		if _, rollbackErr := s.groupBuy.DecrementParticipants(ctx, groupBuyID); rollbackErr != nil {
			s.logger.Error("Failed to release participant slot after failed join",
				zap.Int64("groupBuyID", groupBuyID),
				zap.Int64("buyerID", buyerID),
				zap.Error(rollbackErr))
		}

		return fmt.Errorf("failed to add participant: %w", err)
	}

	s.logger.Info("Buyer joined group-buy",
		zap.Int64("groupBuyID", groupBuyID),
		zap.Int64("buyerID", buyerID))

	// The claiming statement reports the post-claim count, so the join that
	// takes the last slot is the one that closes recruitment.
	if count.Full() {
		if err := s.closeRecruitment(ctx, groupBuyID); err != nil {
			return err
		}
	}

	return nil
}

// Leave removes a buyer from a group-buy during recruitment.
func (s *LifecycleService) Leave(ctx context.Context, groupBuyID, buyerID int64) error {
	groupBuy, err := s.groupBuy.Get(ctx, groupBuyID)
	if err != nil {
		return err
	}

	if groupBuy.Status != enum.GroupBuyStatusRecruiting {
		return fmt.Errorf("%w: cannot leave a %s group-buy",
			types.ErrInvalidTransition, groupBuy.Status)
	}

	removed, err := s.participant.Remove(ctx, groupBuyID, buyerID)
	if err != nil {
		return err
	}

	if !removed {
		return fmt.Errorf("%w: buyer %d in group-buy %d",
			types.ErrNotParticipant, buyerID, groupBuyID)
	}

	if _, err := s.groupBuy.DecrementParticipants(ctx, groupBuyID); err != nil {
		return err
	}

	s.logger.Info("Buyer left group-buy",
		zap.Int64("groupBuyID", groupBuyID),
		zap.Int64("buyerID", buyerID))

	return nil
}

// CloseRecruitment lets the opening seller end recruitment early and open
// bidding. Any non-zero participant count permits early closure.
func (s *LifecycleService) CloseRecruitment(ctx context.Context, groupBuyID, sellerID int64) error {
	groupBuy, err := s.groupBuy.Get(ctx, groupBuyID)
	if err != nil {
		return err
	}

	if groupBuy.SellerID != sellerID {
		return fmt.Errorf("%w: only the opening seller may close recruitment",
			types.ErrInvalidTransition)
	}

	if groupBuy.CurrentParticipants == 0 {
		return fmt.Errorf("%w: cannot open bidding with no participants",
			types.ErrInvalidTransition)
	}

	return s.closeRecruitment(ctx, groupBuyID)
}

func (s *LifecycleService) closeRecruitment(ctx context.Context, groupBuyID int64) error {
	if err := s.transition(ctx, groupBuyID,
		enum.GroupBuyStatusRecruiting, enum.GroupBuyStatusBidding); err != nil {
		return err
	}

	s.logger.Info("Recruitment closed, bidding open", zap.Int64("groupBuyID", groupBuyID))

	return nil
}

// StartFulfillment moves a committed trade into fulfillment.
func (s *LifecycleService) StartFulfillment(ctx context.Context, groupBuyID int64) error {
	return s.transition(ctx, groupBuyID,
		enum.GroupBuyStatusConfirmed, enum.GroupBuyStatusInProgress)
}

// Complete records buyer-confirmed receipt and closes the trade in its
// terminal success state.
func (s *LifecycleService) Complete(ctx context.Context, groupBuyID, buyerID int64) error {
	if _, err := s.participant.Get(ctx, groupBuyID, buyerID); err != nil {
		return err
	}

	return s.transition(ctx, groupBuyID,
		enum.GroupBuyStatusInProgress, enum.GroupBuyStatusCompleted)
}

// Cancel moves a group-buy to the terminal failure state from any
// non-terminal stage.
func (s *LifecycleService) Cancel(ctx context.Context, groupBuyID int64, reason string) error {
	groupBuy, err := s.groupBuy.Get(ctx, groupBuyID)
	if err != nil {
		return err
	}

	if groupBuy.Status.IsTerminal() {
		if groupBuy.Status == enum.GroupBuyStatusCancelled {
			return nil
		}

		return fmt.Errorf("%w: %s group-buys cannot be cancelled",
			types.ErrInvalidTransition, groupBuy.Status)
	}

	moved, err := s.groupBuy.TransitionStatus(ctx, groupBuyID,
		groupBuy.Status, enum.GroupBuyStatusCancelled)
	if err != nil {
		return err
	}

	if !moved {
		// Lost the race; idempotent if the other writer also cancelled.
		return s.verifyStatus(ctx, groupBuyID, enum.GroupBuyStatusCancelled)
	}

	s.logger.Info("Cancelled group-buy",
		zap.Int64("groupBuyID", groupBuyID),
		zap.String("reason", reason))

	return nil
}

// transition applies a status edge with retry-idempotency: when the
// conditional update loses a race, the call still succeeds if the target
// status already holds.
func (s *LifecycleService) transition(
	ctx context.Context, groupBuyID int64, from, to enum.GroupBuyStatus,
) error {
	if !from.CanTransitionTo(to) {
		return fmt.Errorf("%w: %s -> %s", types.ErrInvalidTransition, from, to)
	}

	moved, err := s.groupBuy.TransitionStatus(ctx, groupBuyID, from, to)
	if err != nil {
		return err
	}

	if !moved {
		return s.verifyStatus(ctx, groupBuyID, to)
	}

	return nil
}

// verifyStatus treats a lost conditional update as success when the
// desired status already holds, keeping transitions idempotent under
// retry.
func (s *LifecycleService) verifyStatus(
	ctx context.Context, groupBuyID int64, want enum.GroupBuyStatus,
) error {
	groupBuy, err := s.groupBuy.Get(ctx, groupBuyID)
	if err != nil {
		return err
	}

	if groupBuy.Status == want {
		return nil
	}

	return fmt.Errorf("%w: group-buy %d is %s",
		types.ErrInvalidTransition, groupBuyID, groupBuy.Status)
}
