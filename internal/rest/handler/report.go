package handler

import (
	"net/http"
	"strconv"

	"github.com/gongguhub/gonggu/internal/database"
	"github.com/gongguhub/gonggu/internal/database/types/enum"
	"github.com/gongguhub/gonggu/internal/rest/convert"
	"github.com/gongguhub/gonggu/internal/rest/middleware/identity"
	restTypes "github.com/gongguhub/gonggu/internal/rest/types"
	"github.com/google/uuid"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

const defaultQueueLimit = 50

// ReportHandler handles the no-show report pipeline endpoints.
type ReportHandler struct {
	db     database.Client
	logger *zap.Logger
}

// NewReportHandler creates a new report handler.
func NewReportHandler(db database.Client, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		db:     db,
		logger: logger,
	}
}

// Submit files a no-show report by the caller.
func (h *ReportHandler) Submit(w http.ResponseWriter, req bunrouter.Request) error {
	var payload restTypes.SubmitReportRequest
	if err := decodeJSON(req, &payload); err != nil {
		return writeError(w, http.StatusBadRequest, "invalid request body")
	}

	reportType, ok := parseReportType(payload.Type)
	if !ok {
		return writeError(w, http.StatusBadRequest, "report type must be buyer_noshow or seller_noshow")
	}

	if payload.ReportedUserID <= 0 || payload.GroupBuyID <= 0 {
		return writeError(w, http.StatusBadRequest, "reported user and group-buy are required")
	}

	reporterID := identity.UserIDFromContext(req.Context())

	report, err := h.db.Service().Report().Submit(
		req.Context(), reporterID, payload.ReportedUserID, payload.GroupBuyID,
		reportType, payload.Description,
	)
	if err != nil {
		return writeServiceError(w, h.logger, err)
	}

	w.WriteHeader(http.StatusCreated)

	return bunrouter.JSON(w, convert.Report(report))
}

// Get returns a single report.
func (h *ReportHandler) Get(w http.ResponseWriter, req bunrouter.Request) error {
	reportID, err := uuid.Parse(req.Param("id"))
	if err != nil {
		return writeError(w, http.StatusBadRequest, "invalid report ID")
	}

	report, err := h.db.Service().Report().Get(req.Context(), reportID)
	if err != nil {
		return writeServiceError(w, h.logger, err)
	}

	return bunrouter.JSON(w, convert.Report(report))
}

// Queue returns the review queue for one adjudication state. Admin only.
func (h *ReportHandler) Queue(w http.ResponseWriter, req bunrouter.Request) error {
	status := enum.ReportStatusPending
	if s := req.URL.Query().Get("status"); s != "" {
		parsed, ok := parseReportStatus(s)
		if !ok {
			return writeError(w, http.StatusBadRequest, "unknown report status")
		}

		status = parsed
	}

	limit := defaultQueueLimit
	if l := req.URL.Query().Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed < 1 {
			return writeError(w, http.StatusBadRequest, "invalid limit")
		}

		limit = parsed
	}

	reports, err := h.db.Service().Report().Queue(req.Context(), status, limit)
	if err != nil {
		return writeServiceError(w, h.logger, err)
	}

	return bunrouter.JSON(w, convert.Reports(reports))
}

// Adjudicate moves a report along the review pipeline. Admin only.
func (h *ReportHandler) Adjudicate(w http.ResponseWriter, req bunrouter.Request) error {
	reportID, err := uuid.Parse(req.Param("id"))
	if err != nil {
		return writeError(w, http.StatusBadRequest, "invalid report ID")
	}

	var payload restTypes.AdjudicateReportRequest
	if err := decodeJSON(req, &payload); err != nil {
		return writeError(w, http.StatusBadRequest, "invalid request body")
	}

	to, ok := parseReportStatus(payload.Status)
	if !ok {
		return writeError(w, http.StatusBadRequest, "unknown report status")
	}

	report, err := h.db.Service().Report().Adjudicate(req.Context(), reportID, to, payload.AdminComment)
	if err != nil {
		return writeServiceError(w, h.logger, err)
	}

	return bunrouter.JSON(w, convert.Report(report))
}

// MarkFalse flags an adjudicated report as intentionally false and
// suspends the reporter. Admin only.
func (h *ReportHandler) MarkFalse(w http.ResponseWriter, req bunrouter.Request) error {
	reportID, err := uuid.Parse(req.Param("id"))
	if err != nil {
		return writeError(w, http.StatusBadRequest, "invalid report ID")
	}

	adminID := identity.UserIDFromContext(req.Context())

	if err := h.db.Service().Report().MarkFalse(req.Context(), reportID, adminID); err != nil {
		return writeServiceError(w, h.logger, err)
	}

	report, err := h.db.Service().Report().Get(req.Context(), reportID)
	if err != nil {
		return writeServiceError(w, h.logger, err)
	}

	return bunrouter.JSON(w, convert.Report(report))
}

func parseReportType(s string) (enum.ReportType, bool) {
	switch s {
	case enum.ReportTypeBuyerNoShow.String():
		return enum.ReportTypeBuyerNoShow, true
	case enum.ReportTypeSellerNoShow.String():
		return enum.ReportTypeSellerNoShow, true
	default:
		return 0, false
	}
}

func parseReportStatus(s string) (enum.ReportStatus, bool) {
	for _, status := range []enum.ReportStatus{
		enum.ReportStatusPending,
		enum.ReportStatusProcessing,
		enum.ReportStatusResolved,
		enum.ReportStatusOnHold,
		enum.ReportStatusRejected,
	} {
		if status.String() == s {
			return status, true
		}
	}

	return 0, false
}
