package handler

import (
	"context"
	"net/http"

	"github.com/gongguhub/gonggu/internal/database"
	dbTypes "github.com/gongguhub/gonggu/internal/database/types"
	"github.com/gongguhub/gonggu/internal/rest/convert"
	"github.com/gongguhub/gonggu/internal/rest/middleware/identity"
	restTypes "github.com/gongguhub/gonggu/internal/rest/types"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// GroupBuyHandler handles group-buy lifecycle endpoints.
type GroupBuyHandler struct {
	db     database.Client
	logger *zap.Logger
}

// NewGroupBuyHandler creates a new group-buy handler.
func NewGroupBuyHandler(db database.Client, logger *zap.Logger) *GroupBuyHandler {
	return &GroupBuyHandler{
		db:     db,
		logger: logger,
	}
}

// Create opens a new group-buy with the caller as its opener.
func (h *GroupBuyHandler) Create(w http.ResponseWriter, req bunrouter.Request) error {
	var payload restTypes.CreateGroupBuyRequest
	if err := decodeJSON(req, &payload); err != nil {
		return writeError(w, http.StatusBadRequest, "invalid request body")
	}

	if payload.Title == "" || payload.MaxParticipants < 1 || !payload.EndTime.After(payload.StartTime) {
		return writeError(w, http.StatusBadRequest, "title, positive participant cap, and a valid time range are required")
	}

	callerID := identity.UserIDFromContext(req.Context())
	groupBuy := &dbTypes.GroupBuy{
		Title:           payload.Title,
		ProductID:       payload.ProductID,
		SellerID:        callerID,
		MaxParticipants: payload.MaxParticipants,
		StartTime:       payload.StartTime,
		EndTime:         payload.EndTime,
	}

	if err := h.db.Service().Lifecycle().Create(req.Context(), groupBuy, callerID); err != nil {
		return writeServiceError(w, h.logger, err)
	}

	w.WriteHeader(http.StatusCreated)

	return bunrouter.JSON(w, convert.GroupBuy(groupBuy))
}

// Get returns a single group-buy.
func (h *GroupBuyHandler) Get(w http.ResponseWriter, req bunrouter.Request) error {
	groupBuyID, err := pathID(req, "id")
	if err != nil {
		return writeError(w, http.StatusBadRequest, "invalid group-buy ID")
	}

	groupBuy, err := h.db.Service().Lifecycle().Get(req.Context(), groupBuyID)
	if err != nil {
		return writeServiceError(w, h.logger, err)
	}

	return bunrouter.JSON(w, convert.GroupBuy(groupBuy))
}

// Join adds the caller as a participant.
func (h *GroupBuyHandler) Join(w http.ResponseWriter, req bunrouter.Request) error {
	return h.memberAction(w, req, h.db.Service().Lifecycle().Join)
}

// Leave removes the caller from the participant list.
func (h *GroupBuyHandler) Leave(w http.ResponseWriter, req bunrouter.Request) error {
	return h.memberAction(w, req, h.db.Service().Lifecycle().Leave)
}

// CloseRecruitment moves the group-buy into bidding at the opener's request.
func (h *GroupBuyHandler) CloseRecruitment(w http.ResponseWriter, req bunrouter.Request) error {
	return h.memberAction(w, req, h.db.Service().Lifecycle().CloseRecruitment)
}

// Complete marks the trade as fulfilled at a participant's request.
func (h *GroupBuyHandler) Complete(w http.ResponseWriter, req bunrouter.Request) error {
	return h.memberAction(w, req, h.db.Service().Lifecycle().Complete)
}

// StartFulfillment moves a committed trade into fulfillment.
func (h *GroupBuyHandler) StartFulfillment(w http.ResponseWriter, req bunrouter.Request) error {
	groupBuyID, err := pathID(req, "id")
	if err != nil {
		return writeError(w, http.StatusBadRequest, "invalid group-buy ID")
	}

	if err := h.db.Service().Lifecycle().StartFulfillment(req.Context(), groupBuyID); err != nil {
		return writeServiceError(w, h.logger, err)
	}

	return h.respondCurrent(w, req, groupBuyID)
}

// Cancel aborts a group-buy. Admin only.
func (h *GroupBuyHandler) Cancel(w http.ResponseWriter, req bunrouter.Request) error {
	groupBuyID, err := pathID(req, "id")
	if err != nil {
		return writeError(w, http.StatusBadRequest, "invalid group-buy ID")
	}

	if err := h.db.Service().Lifecycle().Cancel(req.Context(), groupBuyID, "cancelled by administrator"); err != nil {
		return writeServiceError(w, h.logger, err)
	}

	return h.respondCurrent(w, req, groupBuyID)
}

// memberAction runs a (groupBuyID, callerID) lifecycle operation and
// responds with the updated group-buy.
func (h *GroupBuyHandler) memberAction(
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

	return h.respondCurrent(w, req, groupBuyID)
}

func (h *GroupBuyHandler) respondCurrent(
	w http.ResponseWriter, req bunrouter.Request, groupBuyID int64,
) error {
	groupBuy, err := h.db.Service().Lifecycle().Get(req.Context(), groupBuyID)
	if err != nil {
		return writeServiceError(w, h.logger, err)
	}

	return bunrouter.JSON(w, convert.GroupBuy(groupBuy))
}
