package database

import (
	"github.com/gongguhub/gonggu/internal/database/service"
	"github.com/gongguhub/gonggu/internal/events"
	"github.com/gongguhub/gonggu/internal/setup/config"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// Service provides access to all business services.
type Service struct {
	lifecycle    *service.LifecycleService
	bid          *service.BidService
	winner       *service.WinnerService
	consent      *service.ConsentService
	confirmation *service.ConfirmationService
	report       *service.ReportService
	penalty      *service.PenaltyService
}

// NewService creates a new service instance with all services.
func NewService(
	db *bun.DB, repo *Repository, notifier *events.Notifier,
	policy *config.Policy, logger *zap.Logger,
) *Service {
	penalty := service.NewPenalty(repo.Penalty(), notifier, policy, logger)

	return &Service{
		lifecycle: service.NewLifecycle(repo.GroupBuy(), repo.Participant(), penalty, logger),
		bid:       service.NewBid(repo.Bid(), repo.GroupBuy(), penalty, logger),
		winner:    service.NewWinner(db, repo.Bid(), repo.GroupBuy(), notifier, policy, logger),
		consent: service.NewConsent(repo.Consent(), repo.GroupBuy(), repo.Participant(),
			repo.Bid(), notifier, policy, logger),
		confirmation: service.NewConfirmation(repo.GroupBuy(), repo.Participant(), repo.Bid(),
			repo.Report(), penalty, notifier, policy, logger),
		report:  service.NewReport(repo.Report(), penalty, notifier, logger),
		penalty: penalty,
	}
}

// Lifecycle returns the group-buy lifecycle service.
func (s *Service) Lifecycle() *service.LifecycleService {
	return s.lifecycle
}

// Bid returns the bid service.
func (s *Service) Bid() *service.BidService {
	return s.bid
}

// Winner returns the winner selection service.
func (s *Service) Winner() *service.WinnerService {
	return s.winner
}

// Consent returns the consent process service.
func (s *Service) Consent() *service.ConsentService {
	return s.consent
}

// Confirmation returns the confirmation service.
func (s *Service) Confirmation() *service.ConfirmationService {
	return s.confirmation
}

// Report returns the no-show report service.
func (s *Service) Report() *service.ReportService {
	return s.report
}

// Penalty returns the penalty service.
func (s *Service) Penalty() *service.PenaltyService {
	return s.penalty
}
