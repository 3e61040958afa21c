package handler

import (
	"net/http"

	"github.com/gongguhub/gonggu/internal/database"
	"github.com/gongguhub/gonggu/internal/database/types/enum"
	"github.com/gongguhub/gonggu/internal/rest/convert"
	"github.com/gongguhub/gonggu/internal/rest/middleware/identity"
	restTypes "github.com/gongguhub/gonggu/internal/rest/types"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// BidHandler handles bid submission, listing, and winner selection.
type BidHandler struct {
	db     database.Client
	logger *zap.Logger
}

// NewBidHandler creates a new bid handler.
func NewBidHandler(db database.Client, logger *zap.Logger) *BidHandler {
	return &BidHandler{
		db:     db,
		logger: logger,
	}
}

// Submit records a seller bid against an open group-buy.
func (h *BidHandler) Submit(w http.ResponseWriter, req bunrouter.Request) error {
	groupBuyID, err := pathID(req, "id")
	if err != nil {
		return writeError(w, http.StatusBadRequest, "invalid group-buy ID")
	}

	var payload restTypes.SubmitBidRequest
	if err := decodeJSON(req, &payload); err != nil {
		return writeError(w, http.StatusBadRequest, "invalid request body")
	}

	if payload.Amount <= 0 {
		return writeError(w, http.StatusBadRequest, "bid amount must be positive")
	}

	bidType, ok := parseBidType(payload.Type)
	if !ok {
		return writeError(w, http.StatusBadRequest, "bid type must be price or support")
	}

	sellerID := identity.UserIDFromContext(req.Context())

	bid, err := h.db.Service().Bid().Submit(req.Context(), groupBuyID, sellerID, payload.Amount, bidType)
	if err != nil {
		return writeServiceError(w, h.logger, err)
	}

	w.WriteHeader(http.StatusCreated)

	return bunrouter.JSON(w, convert.Bid(bid))
}

// List returns the group-buy's bids in winning order.
func (h *BidHandler) List(w http.ResponseWriter, req bunrouter.Request) error {
	groupBuyID, err := pathID(req, "id")
	if err != nil {
		return writeError(w, http.StatusBadRequest, "invalid group-buy ID")
	}

	bids, err := h.db.Service().Bid().ListRanked(req.Context(), groupBuyID)
	if err != nil {
		return writeServiceError(w, h.logger, err)
	}

	return bunrouter.JSON(w, convert.Bids(bids))
}

// SelectWinner runs winner selection ahead of the bidding deadline. Admin
// only; the automatic sweep handles the deadline path.
func (h *BidHandler) SelectWinner(w http.ResponseWriter, req bunrouter.Request) error {
	groupBuyID, err := pathID(req, "id")
	if err != nil {
		return writeError(w, http.StatusBadRequest, "invalid group-buy ID")
	}

	winner, err := h.db.Service().Winner().SelectWinner(req.Context(), groupBuyID, true)
	if err != nil {
		return writeServiceError(w, h.logger, err)
	}

	return bunrouter.JSON(w, convert.Bid(winner))
}

func parseBidType(s string) (enum.BidType, bool) {
	switch s {
	case enum.BidTypePrice.String():
		return enum.BidTypePrice, true
	case enum.BidTypeSupport.String():
		return enum.BidTypeSupport, true
	default:
		return 0, false
	}
}
