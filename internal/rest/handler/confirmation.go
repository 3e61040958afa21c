package handler

import (
	"context"
	"net/http"

	"github.com/gongguhub/gonggu/internal/database"
	"github.com/gongguhub/gonggu/internal/rest/convert"
	"github.com/gongguhub/gonggu/internal/rest/middleware/identity"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// ConfirmationHandler handles the final-selection decision endpoints.
type ConfirmationHandler struct {
	db     database.Client
	logger *zap.Logger
}

// NewConfirmationHandler creates a new confirmation handler.
func NewConfirmationHandler(db database.Client, logger *zap.Logger) *ConfirmationHandler {
	return &ConfirmationHandler{
		db:     db,
		logger: logger,
	}
}

// SellerConfirm records the winning seller's commitment, opening the buyer
// confirmation phase.
func (h *ConfirmationHandler) SellerConfirm(w http.ResponseWriter, req bunrouter.Request) error {
	return h.callerAction(w, req, h.db.Service().Confirmation().SellerConfirm)
}

// SellerDecline lets the winning seller back out before committing.
func (h *ConfirmationHandler) SellerDecline(w http.ResponseWriter, req bunrouter.Request) error {
	return h.callerAction(w, req, h.db.Service().Confirmation().SellerDecline)
}

// SellerWithdraw lets the winning seller back out during buyer
// confirmation, with a penalty once enough buyers have committed.
func (h *ConfirmationHandler) SellerWithdraw(w http.ResponseWriter, req bunrouter.Request) error {
	return h.callerAction(w, req, h.db.Service().Confirmation().SellerWithdraw)
}

// Confirm records the caller's purchase commitment.
func (h *ConfirmationHandler) Confirm(w http.ResponseWriter, req bunrouter.Request) error {
	return h.callerAction(w, req, h.db.Service().Confirmation().Confirm)
}

// Cancel records the caller's withdrawal from the purchase.
func (h *ConfirmationHandler) Cancel(w http.ResponseWriter, req bunrouter.Request) error {
	return h.callerAction(w, req, h.db.Service().Confirmation().Cancel)
}

// Stats returns the current buyer decision tallies.
func (h *ConfirmationHandler) Stats(w http.ResponseWriter, req bunrouter.Request) error {
	groupBuyID, err := pathID(req, "id")
	if err != nil {
		return writeError(w, http.StatusBadRequest, "invalid group-buy ID")
	}

	stats, err := h.db.Service().Confirmation().Stats(req.Context(), groupBuyID)
	if err != nil {
		return writeServiceError(w, h.logger, err)
	}

	return bunrouter.JSON(w, convert.ConfirmationStats(stats))
}

// callerAction runs a (groupBuyID, callerID) confirmation operation and
// responds with the updated decision tallies.
func (h *ConfirmationHandler) callerAction(
	w http.ResponseWriter, req bunrouter.Request,
	action func(ctx context.Context, groupBuyID, userID int64) error,
) error {
	groupBuyID, err := pathID(req, "id")
	if err != nil {
		return writeError(w, http.StatusBadRequest, "invalid group-buy ID")
	}

	callerID := identity.UserIDFromContext(req.Context())
	if err := action(req.Context(), groupBuyID, callerID); err != nil {
		return writeServiceError(w, h.logger, err)
	}

	stats, err := h.db.Service().Confirmation().Stats(req.Context(), groupBuyID)
	if err != nil {
		return writeServiceError(w, h.logger, err)
	}

	return bunrouter.JSON(w, convert.ConfirmationStats(stats))
}
