package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"salonbook-backend/models"
	"salonbook-backend/store"
	"salonbook-backend/utils"
)

type DashboardOverview struct {
	TodayAppointments   int64                 `json:"todayAppointments"`
	PendingAppointments int64                 `json:"pendingAppointments"`
	MonthlyRevenue      float64               `json:"monthlyRevenue"`
	Upcoming            []UpcomingAppointment `json:"upcoming"`
}

type UpcomingAppointment struct {
	ID      string    `json:"id"`
	Client  string    `json:"client"`
	Service string    `json:"service"`
	Start   time.Time `json:"startTime"`
	When    string    `json:"when"` // e.g. "Today", "Tomorrow", "3 days"
}

const upcomingLimit = 5

type DashboardController struct {
	appts   AppointmentStore
	reports ReportStore
	salons  SalonStore
	users   UserStore
	loc     *time.Location
	now     func() time.Time
}

func NewDashboardController(appts AppointmentStore, reports ReportStore, salons SalonStore, users UserStore, loc *time.Location) *DashboardController {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardController{appts: appts, reports: reports, salons: salons, users: users, loc: loc, now: time.Now}
}

func (dc *DashboardController) GetDashboardOverview(c *gin.Context) {
	_, salon, ok := salonAccess(c, dc.users, dc.salons, isStaff)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	now := dc.now().In(dc.loc)
	today := utils.BeginningOfDay(now)
	tomorrow := today.AddDate(0, 0, 1)

	var overview DashboardOverview
	var err error

	// Today's live bookings
	overview.TodayAppointments, err = dc.appts.CountAppointments(ctx, store.AppointmentFilter{
		SalonID: &salon.ID, Status: models.AppointmentAccepted, From: &today, To: &tomorrow,
	})
	if err != nil {
		respondStoreError(c, err, "Salon not found")
		return
	}
	pendingToday, err := dc.appts.CountAppointments(ctx, store.AppointmentFilter{
		SalonID: &salon.ID, Status: models.AppointmentPending, From: &today, To: &tomorrow,
	})
	if err != nil {
		respondStoreError(c, err, "Salon not found")
		return
	}
	overview.TodayAppointments += pendingToday

	overview.PendingAppointments, err = dc.appts.CountAppointments(ctx, store.AppointmentFilter{
		SalonID: &salon.ID, Status: models.AppointmentPending, From: &now,
	})
	if err != nil {
		respondStoreError(c, err, "Salon not found")
		return
	}

	// This Month's Revenue
	firstOfMonth := utils.BeginningOfMonth(now)
	overview.MonthlyRevenue, err = dc.reports.PaidRevenue(ctx, &salon.ID, firstOfMonth, firstOfMonth.AddDate(0, 1, 0))
	if err != nil {
		respondStoreError(c, err, "Salon not found")
		return
	}

	next, err := dc.appts.ListAppointments(ctx, store.AppointmentFilter{
		SalonID: &salon.ID, Status: models.AppointmentAccepted, From: &now, Limit: upcomingLimit, Ascending: true,
	})
	if err != nil {
		respondStoreError(c, err, "Salon not found")
		return
	}
	overview.Upcoming = make([]UpcomingAppointment, 0, len(next))
	for _, a := range next {
		item := UpcomingAppointment{ID: a.ID.String(), Start: a.StartTime, When: dayLabel(now, a.StartTime.In(dc.loc))}
		if a.User != nil {
			item.Client = a.User.Name
		}
		if a.Service != nil {
			item.Service = a.Service.Name
		}
		overview.Upcoming = append(overview.Upcoming, item)
	}

	c.JSON(http.StatusOK, overview)
}

func dayLabel(now, t time.Time) string {
	switch days := utils.DaysBetween(now, t); days {
	case 0:
		return "Today"
	case 1:
		return "Tomorrow"
	default:
		return strconv.Itoa(days) + " days"
	}
}
