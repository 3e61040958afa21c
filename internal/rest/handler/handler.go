// Package handler implements the REST endpoints for the group-buy API.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/gongguhub/gonggu/internal/database/types"
	restTypes "github.com/gongguhub/gonggu/internal/rest/types"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// decodeJSON reads a request body into dst.
func decodeJSON(req bunrouter.Request, dst any) error {
	return sonic.ConfigDefault.NewDecoder(req.Body).Decode(dst)
}

// pathID parses a numeric path parameter.
func pathID(req bunrouter.Request, name string) (int64, error) {
	return strconv.ParseInt(req.Param(name), 10, 64)
}

// writeError sends a JSON error body with the given status.
func writeError(w http.ResponseWriter, status int, msg string) error {
	w.WriteHeader(status)
	return bunrouter.JSON(w, restTypes.ErrorResponse{Error: msg})
}

// writeServiceError maps service errors onto HTTP statuses. Business-rule
// violations surface their message; anything unrecognized is logged and
// returned as a 500.
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, err error) error {
	switch {
	case errors.Is(err, types.ErrGroupBuyNotFound),
		errors.Is(err, types.ErrBidNotFound),
		errors.Is(err, types.ErrReportNotFound),
		errors.Is(err, types.ErrPenaltyNotFound):
		return writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, types.ErrInvalidTransition),
		errors.Is(err, types.ErrAlreadyDecided),
		errors.Is(err, types.ErrWindowClosed),
		errors.Is(err, types.ErrProcessAlreadyStarted),
		errors.Is(err, types.ErrDuplicateReport),
		errors.Is(err, types.ErrPenaltyActive),
		errors.Is(err, types.ErrGroupBuyFull),
		errors.Is(err, types.ErrNoBids):
		return writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, types.ErrNotParticipant):
		return writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, types.ErrSelfReport):
		return writeError(w, http.StatusBadRequest, err.Error())
	default:
		logger.Error("Unhandled service error", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)

		return nil
	}
}
