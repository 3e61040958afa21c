package handler

import (
	"net/http"

	"github.com/gongguhub/gonggu/internal/database"
	"github.com/gongguhub/gonggu/internal/rest/convert"
	"github.com/gongguhub/gonggu/internal/rest/middleware/identity"
	restTypes "github.com/gongguhub/gonggu/internal/rest/types"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// ConsentHandler handles the consent gate endpoints.
type ConsentHandler struct {
	db     database.Client
	logger *zap.Logger
}

// NewConsentHandler creates a new consent handler.
func NewConsentHandler(db database.Client, logger *zap.Logger) *ConsentHandler {
	return &ConsentHandler{
		db:     db,
		logger: logger,
	}
}

// Start opens a consent process on the winning bid. Admin only.
func (h *ConsentHandler) Start(w http.ResponseWriter, req bunrouter.Request) error {
	groupBuyID, err := pathID(req, "id")
	if err != nil {
		return writeError(w, http.StatusBadRequest, "invalid group-buy ID")
	}

	var payload restTypes.StartConsentRequest
	if err := decodeJSON(req, &payload); err != nil {
		return writeError(w, http.StatusBadRequest, "invalid request body")
	}

	adminID := identity.UserIDFromContext(req.Context())

	process, err := h.db.Service().Consent().Start(req.Context(), groupBuyID, adminID, payload.DurationHours)
	if err != nil {
		return writeServiceError(w, h.logger, err)
	}

	w.WriteHeader(http.StatusCreated)

	return bunrouter.JSON(w, convert.ConsentProcess(process))
}

// Get returns the group-buy's most recent consent process.
func (h *ConsentHandler) Get(w http.ResponseWriter, req bunrouter.Request) error {
	groupBuyID, err := pathID(req, "id")
	if err != nil {
		return writeError(w, http.StatusBadRequest, "invalid group-buy ID")
	}

	process, err := h.db.Service().Consent().GetLatest(req.Context(), groupBuyID)
	if err != nil {
		return writeServiceError(w, h.logger, err)
	}

	if process == nil {
		return writeError(w, http.StatusNotFound, "no consent process for this group-buy")
	}

	return bunrouter.JSON(w, convert.ConsentProcess(process))
}

// Respond records the caller's agree or decline answer.
func (h *ConsentHandler) Respond(w http.ResponseWriter, req bunrouter.Request) error {
	groupBuyID, err := pathID(req, "id")
	if err != nil {
		return writeError(w, http.StatusBadRequest, "invalid group-buy ID")
	}

	var payload restTypes.ConsentRespondRequest
	if err := decodeJSON(req, &payload); err != nil {
		return writeError(w, http.StatusBadRequest, "invalid request body")
	}

	buyerID := identity.UserIDFromContext(req.Context())

	if err := h.db.Service().Consent().Respond(req.Context(), groupBuyID, buyerID, payload.Agreed); err != nil {
		return writeServiceError(w, h.logger, err)
	}

	process, err := h.db.Service().Consent().GetLatest(req.Context(), groupBuyID)
	if err != nil {
		return writeServiceError(w, h.logger, err)
	}

	return bunrouter.JSON(w, convert.ConsentProcess(process))
}
