// controllers/report.go
package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"salonbook-backend/store"
	"salonbook-backend/utils"
)

// ReportController handles all reporting functions
type ReportController struct {
	reports ReportStore
	salons  SalonStore
	users   UserStore
	loc     *time.Location
	now     func() time.Time
}

// AnalyticsSummary represents the Analytics data
type AnalyticsSummary struct {
	CurrentMonthRevenue   float64                `json:"currentMonthRevenue"`
	MonthGrowth           float64                `json:"monthGrowth"`
	CurrentQuarterRevenue float64                `json:"currentQuarterRevenue"`
	QuarterGrowth         float64                `json:"quarterGrowth"`
	CurrentYearRevenue    float64                `json:"currentYearRevenue"`
	YearGrowth            float64                `json:"yearGrowth"`
	TopServices           []store.ServiceSummary `json:"topServices"`
	TopClients            []store.ClientSummary  `json:"topClients"`
}

// period is a half-open [start, end) range.
type period struct {
	start, end time.Time
}

func (p period) previous(months int) period {
	return period{start: p.start.AddDate(0, -months, 0), end: p.end.AddDate(0, -months, 0)}
}

func NewReportController(reports ReportStore, salons SalonStore, users UserStore, loc *time.Location) *ReportController {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportController{reports: reports, salons: salons, users: users, loc: loc, now: time.Now}
}

// GetReportAnalytics returns paid revenue for the current month, quarter and
// year with growth against the previous period, plus the month's top services
// and clients.
func (rc *ReportController) GetReportAnalytics(c *gin.Context) {
	_, salon, ok := salonAccess(c, rc.users, rc.salons, isManager)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	now := rc.now().In(rc.loc)
	month := period{start: utils.BeginningOfMonth(now), end: utils.BeginningOfMonth(now).AddDate(0, 1, 0)}
	quarter := period{start: getQuarterStart(now), end: getQuarterStart(now).AddDate(0, 3, 0)}
	yearStart := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, rc.loc)
	year := period{start: yearStart, end: yearStart.AddDate(1, 0, 0)}

	var summary AnalyticsSummary
	var err error
	if summary.CurrentMonthRevenue, summary.MonthGrowth, err = rc.revenueWithGrowth(ctx, salon.ID, month, 1); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get monthly revenue")
		return
	}
	if summary.CurrentQuarterRevenue, summary.QuarterGrowth, err = rc.revenueWithGrowth(ctx, salon.ID, quarter, 3); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get quarterly revenue")
		return
	}
	if summary.CurrentYearRevenue, summary.YearGrowth, err = rc.revenueWithGrowth(ctx, salon.ID, year, 12); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get yearly revenue")
		return
	}

	if summary.TopServices, err = rc.reports.TopServices(ctx, salon.ID, month.start, month.end, 4); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get top services")
		return
	}
	if summary.TopClients, err = rc.reports.TopClients(ctx, salon.ID, month.start, month.end, 4); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get top clients")
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (rc *ReportController) revenueWithGrowth(ctx context.Context, salonID uuid.UUID, p period, months int) (float64, float64, error) {
	current, err := rc.reports.PaidRevenue(ctx, &salonID, p.start, p.end)
	if err != nil {
		return 0, 0, err
	}
	prev := p.previous(months)
	previous, err := rc.reports.PaidRevenue(ctx, &salonID, prev.start, prev.end)
	if err != nil {
		return 0, 0, err
	}
	return current, calculateGrowthPercentage(current, previous), nil
}

func getQuarterStart(date time.Time) time.Time {
	quarter := (int(date.Month())-1)/3 + 1
	startMonth := time.Month((quarter-1)*3 + 1)
	return time.Date(date.Year(), startMonth, 1, 0, 0, 0, 0, date.Location())
}

func calculateGrowthPercentage(current, previous float64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return ((current - previous) / previous) * 100
}
