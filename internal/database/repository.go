package database

import (
	"github.com/gongguhub/gonggu/internal/database/models"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// Repository provides access to all database models.
type Repository struct {
	groupBuy    *models.GroupBuyModel
	bid         *models.BidModel
	participant *models.ParticipantModel
	consent     *models.ConsentModel
	report      *models.ReportModel
	penalty     *models.PenaltyModel
}

// NewRepository creates a new repository instance with all models.
func NewRepository(db *bun.DB, logger *zap.Logger) *Repository {
	return &Repository{
		groupBuy:    models.NewGroupBuy(db, logger),
		bid:         models.NewBid(db, logger),
		participant: models.NewParticipant(db, logger),
		consent:     models.NewConsent(db, logger),
		report:      models.NewReport(db, logger),
		penalty:     models.NewPenalty(db, logger),
	}
}

// GroupBuy returns the group-buy model repository.
func (r *Repository) GroupBuy() *models.GroupBuyModel {
	return r.groupBuy
}

// Bid returns the bid model repository.
func (r *Repository) Bid() *models.BidModel {
	return r.bid
}

// Participant returns the participant model repository.
func (r *Repository) Participant() *models.ParticipantModel {
	return r.participant
}

// Consent returns the consent model repository.
func (r *Repository) Consent() *models.ConsentModel {
	return r.consent
}

// Report returns the report model repository.
func (r *Repository) Report() *models.ReportModel {
	return r.report
}

// Penalty returns the penalty model repository.
func (r *Repository) Penalty() *models.PenaltyModel {
	return r.penalty
}
