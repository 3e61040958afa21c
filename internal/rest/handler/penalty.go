package handler

import (
	"net/http"

	"github.com/gongguhub/gonggu/internal/database"
	"github.com/gongguhub/gonggu/internal/rest/convert"
	"github.com/gongguhub/gonggu/internal/rest/middleware/identity"
	"github.com/google/uuid"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// PenaltyHandler handles penalty history and revocation endpoints.
type PenaltyHandler struct {
	db     database.Client
	logger *zap.Logger
}

// NewPenaltyHandler creates a new penalty handler.
func NewPenaltyHandler(db database.Client, logger *zap.Logger) *PenaltyHandler {
	return &PenaltyHandler{
		db:     db,
		logger: logger,
	}
}

// ListForUser returns a user's penalty history. Users may view their own;
// admins may view anyone's.
func (h *PenaltyHandler) ListForUser(w http.ResponseWriter, req bunrouter.Request) error {
	userID, err := pathID(req, "id")
	if err != nil {
		return writeError(w, http.StatusBadRequest, "invalid user ID")
	}

	ctx := req.Context()
	if userID != identity.UserIDFromContext(ctx) && !identity.IsAdmin(ctx) {
		return writeError(w, http.StatusForbidden, "may only view your own penalties")
	}

	penalties, err := h.db.Service().Penalty().ListForUser(ctx, userID)
	if err != nil {
		return writeServiceError(w, h.logger, err)
	}

	return bunrouter.JSON(w, convert.Penalties(penalties))
}

// Revoke lifts an active penalty. Admin only.
func (h *PenaltyHandler) Revoke(w http.ResponseWriter, req bunrouter.Request) error {
	penaltyID, err := uuid.Parse(req.Param("id"))
	if err != nil {
		return writeError(w, http.StatusBadRequest, "invalid penalty ID")
	}

	adminID := identity.UserIDFromContext(req.Context())

	if err := h.db.Service().Penalty().Revoke(req.Context(), penaltyID, adminID); err != nil {
		return writeServiceError(w, h.logger, err)
	}

	w.WriteHeader(http.StatusNoContent)

	return nil
}
