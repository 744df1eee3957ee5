package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"salonbook-backend/config"
	"salonbook-backend/models"
	"salonbook-backend/store"
	"salonbook-backend/utils"
)

type BookAppointmentInput struct {
	SalonID   uuid.UUID `json:"salonId" binding:"required"`
	ServiceID uuid.UUID `json:"serviceId" binding:"required"`
	StartTime time.Time `json:"startTime" binding:"required"`
	Notes     string    `json:"notes" binding:"max=500"`
}

type AvailabilityResponse struct {
	Date      string      `json:"date"`
	ServiceID uuid.UUID   `json:"serviceId"`
	Duration  int         `json:"duration"`
	Slots     []time.Time `json:"slots"`
}

type AppointmentController struct {
	appts    AppointmentStore
	salons   SalonStore
	users    UserStore
	notifier StatusNotifier
	metrics  *config.Metrics
	loc      *time.Location
	now      func() time.Time
}

func NewAppointmentController(appts AppointmentStore, salons SalonStore, users UserStore, notifier StatusNotifier, metrics *config.Metrics, loc *time.Location) *AppointmentController {
	if loc == nil {
		loc = time.UTC
	}
	return &AppointmentController{
		appts:    appts,
		salons:   salons,
		users:    users,
		notifier: notifier,
		metrics:  metrics,
		loc:      loc,
		now:      time.Now,
	}
}

// Availability lists the free start times of a service on one day.
func (ac *AppointmentController) Availability(c *gin.Context) {
	salon, ok := salonFromParam(c, ac.salons)
	if !ok {
		return
	}
	if !salon.IsApproved {
		utils.RespondWithError(c, http.StatusNotFound, "Salon not found")
		return
	}

	serviceID, err := uuid.Parse(c.Query("serviceId"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service ID format")
		return
	}
	day, err := utils.ParseDate(c.Query("date"), ac.loc)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}

	service, err := ac.salons.GetService(c.Request.Context(), salon.ID, serviceID)
	if err != nil {
		respondStoreError(c, err, "Service not found")
		return
	}
	if !service.IsActive {
		utils.RespondWithError(c, http.StatusBadRequest, "Service is not available")
		return
	}

	booked, err := ac.appts.BookedStartTimes(c.Request.Context(), salon.ID, day, day.AddDate(0, 0, 1))
	if err != nil {
		respondStoreError(c, err, "Salon not found")
		return
	}

	c.JSON(http.StatusOK, AvailabilityResponse{
		Date:      day.Format(utils.DateLayout),
		ServiceID: service.ID,
		Duration:  int(service.Length() / time.Minute),
		Slots:     salon.WorkingHours.Slots(day, service.Length(), booked, ac.now()),
	})
}

// CreateAppointment books a pending appointment for the caller.
func (ac *AppointmentController) CreateAppointment(c *gin.Context) {
	user, ok := currentUser(c, ac.users)
	if !ok {
		return
	}

	var input BookAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	ctx := c.Request.Context()
	salon, err := ac.salons.GetSalon(ctx, input.SalonID)
	if err != nil {
		respondStoreError(c, err, "Salon not found")
		return
	}
	if !salon.IsApproved {
		utils.RespondWithError(c, http.StatusBadRequest, "Salon is not accepting bookings")
		return
	}

	service, err := ac.salons.GetService(ctx, salon.ID, input.ServiceID)
	if err != nil {
		respondStoreError(c, err, "Service not found")
		return
	}
	if !service.IsActive {
		utils.RespondWithError(c, http.StatusBadRequest, "Service is not available")
		return
	}

	start := input.StartTime.In(ac.loc)
	if !start.After(ac.now()) {
		utils.RespondWithError(c, http.StatusBadRequest, "Appointment must be in the future")
		return
	}
	end := start.Add(service.Length())
	if !salon.WorkingHours.Covers(start, end) {
		utils.RespondWithError(c, http.StatusBadRequest, "Appointment is outside working hours")
		return
	}

	appt := models.Appointment{
		UserID:    user.ID,
		SalonID:   salon.ID,
		ServiceID: service.ID,
		StartTime: start.UTC(),
		EndTime:   end.UTC(),
		Status:    models.AppointmentPending,
		Notes:     input.Notes,
	}
	if err := ac.appts.BookAppointment(ctx, &appt); err != nil {
		respondStoreError(c, err, "Salon not found")
		return
	}
	ac.metrics.AppointmentStatus(appt.Status)

	appt.Salon = salon
	appt.Service = service
	c.JSON(http.StatusCreated, appt)
}

// MyAppointments lists the caller's bookings, newest first.
func (ac *AppointmentController) MyAppointments(c *gin.Context) {
	user, ok := currentUser(c, ac.users)
	if !ok {
		return
	}
	appts, err := ac.appts.ListAppointments(c.Request.Context(), store.AppointmentFilter{
		UserID: &user.ID,
		Status: c.Query("status"),
	})
	if err != nil {
		respondStoreError(c, err, "Appointment not found")
		return
	}
	c.JSON(http.StatusOK, appts)
}

// SalonAppointments lists a salon's bookings for its staff, filtered by status and date range.
func (ac *AppointmentController) SalonAppointments(c *gin.Context) {
	_, salon, ok := salonAccess(c, ac.users, ac.salons, isStaff)
	if !ok {
		return
	}

	filter := store.AppointmentFilter{SalonID: &salon.ID, Status: c.Query("status"), Ascending: true}
	if from := c.Query("from"); from != "" {
		day, err := utils.ParseDate(from, ac.loc)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid from date, expected YYYY-MM-DD")
			return
		}
		filter.From = &day
	}
	if to := c.Query("to"); to != "" {
		day, err := utils.ParseDate(to, ac.loc)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid to date, expected YYYY-MM-DD")
			return
		}
		// inclusive of the whole day
		end := day.AddDate(0, 0, 1)
		filter.To = &end
	}

	appts, err := ac.appts.ListAppointments(c.Request.Context(), filter)
	if err != nil {
		respondStoreError(c, err, "Appointment not found")
		return
	}
	c.JSON(http.StatusOK, appts)
}

func (ac *AppointmentController) GetAppointment(c *gin.Context) {
	user, appt, ok := ac.load(c)
	if !ok {
		return
	}
	if appt.UserID != user.ID && !user.IsStaffOf(appt.Salon) {
		utils.RespondWithError(c, http.StatusForbidden, "You do not have access to this appointment")
		return
	}
	c.JSON(http.StatusOK, appt)
}

// AcceptAppointment confirms a pending booking and issues its unpaid invoice.
func (ac *AppointmentController) AcceptAppointment(c *gin.Context) {
	user, appt, ok := ac.load(c)
	if !ok {
		return
	}
	if !user.IsStaffOf(appt.Salon) {
		utils.RespondWithError(c, http.StatusForbidden, "Only salon staff can accept appointments")
		return
	}
	if !ac.checkTransition(c, appt, models.AppointmentAccepted) {
		return
	}

	ctx := c.Request.Context()
	if appt.Service == nil {
		svc, err := ac.salons.GetService(ctx, appt.SalonID, appt.ServiceID)
		if err != nil {
			respondStoreError(c, err, "Service not found")
			return
		}
		appt.Service = svc
	}

	now := ac.now()
	invoice := &models.Invoice{
		AppointmentID: appt.ID,
		SalonID:       appt.SalonID,
		UserID:        appt.UserID,
		InvoiceNumber: "INV-" + now.Format("20060102") + "-" + utils.GenerateRandomString(6),
		Amount:        appt.Service.Price,
		Status:        models.InvoiceUnpaid,
	}

	from := appt.Status
	appt.Status = models.AppointmentAccepted
	if err := ac.appts.TransitionAppointment(ctx, appt, from, invoice); err != nil {
		respondStoreError(c, err, "Appointment not found")
		return
	}
	ac.afterTransition(c, appt)

	c.JSON(http.StatusOK, gin.H{"appointment": appt, "invoice": invoice})
}

func (ac *AppointmentController) RejectAppointment(c *gin.Context) {
	user, appt, ok := ac.load(c)
	if !ok {
		return
	}
	if !user.IsStaffOf(appt.Salon) {
		utils.RespondWithError(c, http.StatusForbidden, "Only salon staff can reject appointments")
		return
	}
	if !ac.checkTransition(c, appt, models.AppointmentRejected) {
		return
	}

	from := appt.Status
	appt.Status = models.AppointmentRejected
	if err := ac.appts.TransitionAppointment(c.Request.Context(), appt, from, nil); err != nil {
		respondStoreError(c, err, "Appointment not found")
		return
	}
	ac.afterTransition(c, appt)

	c.JSON(http.StatusOK, appt)
}

// CancelAppointment lets the client who booked withdraw a pending appointment.
func (ac *AppointmentController) CancelAppointment(c *gin.Context) {
	user, appt, ok := ac.load(c)
	if !ok {
		return
	}
	if appt.UserID != user.ID {
		utils.RespondWithError(c, http.StatusForbidden, "Only the client who booked can cancel this appointment")
		return
	}
	if !ac.checkTransition(c, appt, models.AppointmentCancelled) {
		return
	}

	now := ac.now()
	from := appt.Status
	appt.Status = models.AppointmentCancelled
	appt.CancelledAt = &now
	if err := ac.appts.TransitionAppointment(c.Request.Context(), appt, from, nil); err != nil {
		respondStoreError(c, err, "Appointment not found")
		return
	}
	ac.metrics.AppointmentStatus(appt.Status)

	c.JSON(http.StatusOK, appt)
}

// load resolves the caller and the :id appointment with its salon.
func (ac *AppointmentController) load(c *gin.Context) (*models.User, *models.Appointment, bool) {
	user, ok := currentUser(c, ac.users)
	if !ok {
		return nil, nil, false
	}
	apptID, ok := utils.ParamUUID(c, "id", "appointment")
	if !ok {
		return nil, nil, false
	}
	appt, err := ac.appts.GetAppointment(c.Request.Context(), apptID)
	if err != nil {
		respondStoreError(c, err, "Appointment not found")
		return nil, nil, false
	}
	if appt.Salon == nil {
		salon, err := ac.salons.GetSalon(c.Request.Context(), appt.SalonID)
		if err != nil {
			respondStoreError(c, err, "Salon not found")
			return nil, nil, false
		}
		appt.Salon = salon
	}
	return user, appt, true
}

func (ac *AppointmentController) checkTransition(c *gin.Context, appt *models.Appointment, next string) bool {
	if !appt.CanTransition(next) {
		utils.RespondWithError(c, http.StatusBadRequest, "Cannot change appointment from "+appt.Status+" to "+next)
		return false
	}
	return true
}

func (ac *AppointmentController) afterTransition(c *gin.Context, appt *models.Appointment) {
	ac.metrics.AppointmentStatus(appt.Status)
	if err := ac.notifier.AppointmentStatusChanged(c.Request.Context(), appt); err != nil {
		logger(c).WithError(err).WithField("appointment_id", appt.ID).Warn("Client notification failed")
	}
}
