// Package convert translates database layer types into REST API types.
package convert

import (
	dbTypes "github.com/gongguhub/gonggu/internal/database/types"
	restTypes "github.com/gongguhub/gonggu/internal/rest/types"
)

// GroupBuy converts a database group-buy to its API representation.
func GroupBuy(groupBuy *dbTypes.GroupBuy) *restTypes.GroupBuy {
	if groupBuy == nil {
		return nil
	}

	return &restTypes.GroupBuy{
		ID:                  groupBuy.ID,
		Title:               groupBuy.Title,
		ProductID:           groupBuy.ProductID,
		SellerID:            groupBuy.SellerID,
		Status:              groupBuy.Status.String(),
		MaxParticipants:     groupBuy.MaxParticipants,
		CurrentParticipants: groupBuy.CurrentParticipants,
		StartTime:           groupBuy.StartTime,
		EndTime:             groupBuy.EndTime,
		FinalSelectionEnd:   groupBuy.FinalSelectionEnd,
		WinningBidID:        groupBuy.WinningBidID,
		WinningBidAmount:    groupBuy.WinningBidAmount,
		CreatedAt:           groupBuy.CreatedAt,
	}
}

// Bid converts a database bid to its API representation.
func Bid(bid *dbTypes.Bid) *restTypes.Bid {
	if bid == nil {
		return nil
	}

	return &restTypes.Bid{
		ID:         bid.ID,
		GroupBuyID: bid.GroupBuyID,
		SellerID:   bid.SellerID,
		Amount:     bid.Amount,
		Type:       bid.Type.String(),
		Status:     bid.Status.String(),
		CreatedAt:  bid.CreatedAt,
	}
}

// Bids converts a ranked bid slice, preserving order.
func Bids(bids []*dbTypes.Bid) []*restTypes.Bid {
	result := make([]*restTypes.Bid, 0, len(bids))
	for _, bid := range bids {
		result = append(result, Bid(bid))
	}

	return result
}

// ConfirmationStats converts a decision snapshot to its API representation.
func ConfirmationStats(stats dbTypes.ConfirmationStats) *restTypes.ConfirmationStats {
	return &restTypes.ConfirmationStats{
		Total:     stats.Total,
		Confirmed: stats.Confirmed,
		Cancelled: stats.Cancelled,
		Pending:   stats.Pending,
		Rate:      stats.Rate(),
	}
}

// ConsentProcess converts a database consent process to its API representation.
func ConsentProcess(process *dbTypes.ConsentProcess) *restTypes.ConsentProcess {
	if process == nil {
		return nil
	}

	return &restTypes.ConsentProcess{
		ID:         process.ID,
		GroupBuyID: process.GroupBuyID,
		BidID:      process.BidID,
		Status:     process.Status.String(),
		Deadline:   process.Deadline,
		StartedAt:  process.StartedAt,
		ClosedAt:   process.ClosedAt,
	}
}

// Report converts a database no-show report to its API representation.
func Report(report *dbTypes.NoShowReport) *restTypes.Report {
	if report == nil {
		return nil
	}

	return &restTypes.Report{
		ID:             report.ID.String(),
		ReporterID:     report.ReporterID,
		ReportedUserID: report.ReportedUserID,
		GroupBuyID:     report.GroupBuyID,
		Type:           report.Type.String(),
		Status:         report.Status.String(),
		Description:    report.Description,
		AdminComment:   report.AdminComment,
		FalseReport:    report.FalseReport,
		CreatedAt:      report.CreatedAt,
		ProcessedAt:    report.ProcessedAt,
	}
}

// Reports converts a report slice, preserving order.
func Reports(reports []*dbTypes.NoShowReport) []*restTypes.Report {
	result := make([]*restTypes.Report, 0, len(reports))
	for _, report := range reports {
		result = append(result, Report(report))
	}

	return result
}

// Penalty converts a database penalty to its API representation.
func Penalty(penalty *dbTypes.Penalty) *restTypes.Penalty {
	if penalty == nil {
		return nil
	}

	return &restTypes.Penalty{
		ID:           penalty.ID.String(),
		UserID:       penalty.UserID,
		Type:         penalty.Type.String(),
		Status:       penalty.Status.String(),
		Reason:       penalty.Reason,
		DurationDays: penalty.DurationDays,
		StartDate:    penalty.StartDate,
		EndDate:      penalty.EndDate,
		ManualReview: penalty.ManualReview,
	}
}

// Penalties converts a penalty slice, preserving order.
func Penalties(penalties []*dbTypes.Penalty) []*restTypes.Penalty {
	result := make([]*restTypes.Penalty, 0, len(penalties))
	for _, penalty := range penalties {
		result = append(result, Penalty(penalty))
	}

	return result
}
