// Package rest exposes the group-buy lifecycle over HTTP.
package rest

import (
	"net/http"

	"github.com/gongguhub/gonggu/internal/database"
	"github.com/gongguhub/gonggu/internal/rest/handler"
	"github.com/gongguhub/gonggu/internal/rest/middleware/identity"
	"github.com/gongguhub/gonggu/internal/rest/middleware/ratelimit"
	"github.com/gongguhub/gonggu/internal/setup/config"
	"github.com/klauspost/compress/gzhttp"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// Server implements the REST API service.
type Server struct {
	groupBuyHandler     *handler.GroupBuyHandler
	bidHandler          *handler.BidHandler
	consentHandler      *handler.ConsentHandler
	confirmationHandler *handler.ConfirmationHandler
	reportHandler       *handler.ReportHandler
	penaltyHandler      *handler.PenaltyHandler
}

// NewServer creates a new REST API server.
func NewServer(db database.Client, logger *zap.Logger, config *config.APIConfig) (http.Handler, error) {
	// Create server instance with handlers
	server := &Server{
		groupBuyHandler:     handler.NewGroupBuyHandler(db, logger),
		bidHandler:          handler.NewBidHandler(db, logger),
		consentHandler:      handler.NewConsentHandler(db, logger),
		confirmationHandler: handler.NewConfirmationHandler(db, logger),
		reportHandler:       handler.NewReportHandler(db, logger),
		penaltyHandler:      handler.NewPenaltyHandler(db, logger),
	}

	// Create middleware instances
	identityMiddleware := identity.New(logger)
	rateLimiter := ratelimit.New(&config.RateLimit, logger)

	// Create base router
	router := bunrouter.New()

	// Create API routes group
	router.Use(
		rateLimiter.AsRESTMiddleware,
		identityMiddleware.AsRESTMiddleware,
	).WithGroup("/v1", func(g *bunrouter.Group) {
		g.POST("/group-buys", server.groupBuyHandler.Create)
		g.GET("/group-buys/:id", server.groupBuyHandler.Get)
		g.POST("/group-buys/:id/join", server.groupBuyHandler.Join)
		g.POST("/group-buys/:id/leave", server.groupBuyHandler.Leave)
		g.POST("/group-buys/:id/close-recruitment", server.groupBuyHandler.CloseRecruitment)
		g.POST("/group-buys/:id/start-fulfillment", server.groupBuyHandler.StartFulfillment)
		g.POST("/group-buys/:id/complete", server.groupBuyHandler.Complete)

		g.POST("/group-buys/:id/bids", server.bidHandler.Submit)
		g.GET("/group-buys/:id/bids", server.bidHandler.List)

		g.GET("/group-buys/:id/consent", server.consentHandler.Get)
		g.POST("/group-buys/:id/consent/respond", server.consentHandler.Respond)

		g.POST("/group-buys/:id/seller/confirm", server.confirmationHandler.SellerConfirm)
		g.POST("/group-buys/:id/seller/decline", server.confirmationHandler.SellerDecline)
		g.POST("/group-buys/:id/seller/withdraw", server.confirmationHandler.SellerWithdraw)
		g.POST("/group-buys/:id/confirm", server.confirmationHandler.Confirm)
		g.POST("/group-buys/:id/cancel-participation", server.confirmationHandler.Cancel)
		g.GET("/group-buys/:id/confirmations", server.confirmationHandler.Stats)

		g.POST("/reports", server.reportHandler.Submit)
		g.GET("/reports/:id", server.reportHandler.Get)

		g.GET("/users/:id/penalties", server.penaltyHandler.ListForUser)

		// Back-office routes require an elevated role claim
		g.Use(identityMiddleware.RequireAdmin).WithGroup("/admin", func(admin *bunrouter.Group) {
			admin.POST("/group-buys/:id/select-winner", server.bidHandler.SelectWinner)
			admin.POST("/group-buys/:id/consent", server.consentHandler.Start)
			admin.POST("/group-buys/:id/cancel", server.groupBuyHandler.Cancel)
			admin.GET("/reports", server.reportHandler.Queue)
			admin.POST("/reports/:id/adjudicate", server.reportHandler.Adjudicate)
			admin.POST("/reports/:id/mark-false", server.reportHandler.MarkFalse)
			admin.POST("/penalties/:id/revoke", server.penaltyHandler.Revoke)
		})
	})

	// Add gzip compression
	return gzhttp.GzipHandler(router), nil
}
