package controllers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salonbook-backend/models"
)

// Monday 19 Oct 2026, 10:15 UTC
var testNow = time.Date(2026, 10, 19, 10, 15, 0, 0, time.UTC)

type apptFixture struct {
	st       *fakeStore
	notifier *fakeNotifier
	ctl      *AppointmentController
	owner    *models.User
	client   *models.User
	salon    *models.Salon
	service  *models.Service
}

func newApptFixture(t *testing.T) *apptFixture {
	st := newFakeStore()
	owner := st.addUser(t, models.RoleProfessional)
	salon := st.addSalon(t, owner, true)
	fx := &apptFixture{
		st:       st,
		notifier: &fakeNotifier{},
		owner:    owner,
		client:   st.addUser(t, models.RoleClient),
		salon:    salon,
		service:  st.addService(t, salon, 60, 45),
	}
	fx.ctl = NewAppointmentController(st, st, st, fx.notifier, nil, time.UTC)
	fx.ctl.now = func() time.Time { return testNow }
	return fx
}

func (fx *apptFixture) router(as *models.User) *gin.Engine {
	r := gin.New()
	r.Use(asUser(as))
	r.GET("/salons/:id/availability", fx.ctl.Availability)
	r.GET("/salons/:id/appointments", fx.ctl.SalonAppointments)
	r.POST("/appointments", fx.ctl.CreateAppointment)
	r.GET("/appointments", fx.ctl.MyAppointments)
	r.GET("/appointments/:id", fx.ctl.GetAppointment)
	r.PUT("/appointments/:id/accept", fx.ctl.AcceptAppointment)
	r.PUT("/appointments/:id/reject", fx.ctl.RejectAppointment)
	r.PUT("/appointments/:id/cancel", fx.ctl.CancelAppointment)
	return r
}

func TestAvailability_SkipsPastAndBookedSlots(t *testing.T) {
	fx := newApptFixture(t)
	fx.st.addAppointment(fx.salon, fx.service, fx.client, time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC), models.AppointmentPending)
	fx.st.addAppointment(fx.salon, fx.service, fx.client, time.Date(2026, 10, 19, 13, 0, 0, 0, time.UTC), models.AppointmentRejected)

	w := serve(fx.router(nil), http.MethodGet,
		"/salons/"+fx.salon.ID.String()+"/availability?serviceId="+fx.service.ID.String()+"&date=2026-10-19", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp AvailabilityResponse
	decode(t, w, &resp)
	assert.Equal(t, "2026-10-19", resp.Date)
	assert.Equal(t, 60, resp.Duration)

	var hours []int
	for _, s := range resp.Slots {
		hours = append(hours, s.UTC().Hour())
	}
	// 09:00 and 10:00 are past, 12:00 is held; the rejected 13:00 booking frees its slot.
	assert.Equal(t, []int{11, 13, 14, 15, 16, 17, 18, 19}, hours)
}

func TestAvailability_Validation(t *testing.T) {
	fx := newApptFixture(t)
	r := fx.router(nil)
	base := "/salons/" + fx.salon.ID.String() + "/availability?serviceId=" + fx.service.ID.String()

	w := serve(r, http.MethodGet, base+"&date=19-10-2026", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid date, expected YYYY-MM-DD", errorMessage(t, w))

	w = serve(r, http.MethodGet, "/salons/"+fx.salon.ID.String()+"/availability?serviceId=nope&date=2026-10-19", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Sunday is closed
	w = serve(r, http.MethodGet, base+"&date=2026-10-18", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp AvailabilityResponse
	decode(t, w, &resp)
	assert.Empty(t, resp.Slots)
}

func TestCreateAppointment(t *testing.T) {
	fx := newApptFixture(t)
	r := fx.router(fx.client)
	start := time.Date(2026, 10, 19, 14, 0, 0, 0, time.UTC)

	body := gin.H{"salonId": fx.salon.ID, "serviceId": fx.service.ID, "startTime": start, "notes": "short please"}
	w := serve(r, http.MethodPost, "/appointments", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var appt models.Appointment
	decode(t, w, &appt)
	assert.Equal(t, models.AppointmentPending, appt.Status)
	assert.True(t, appt.EndTime.Equal(start.Add(time.Hour)))
	assert.Equal(t, fx.client.ID, appt.UserID)

	w = serve(r, http.MethodPost, "/appointments", body)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "This time slot is already booked", errorMessage(t, w))
}

func TestCreateAppointment_Rejections(t *testing.T) {
	fx := newApptFixture(t)
	r := fx.router(fx.client)

	cases := map[string]time.Time{
		"in the past":         time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC),
		"salon closed sunday": time.Date(2026, 10, 25, 11, 0, 0, 0, time.UTC),
		"runs past closing":   time.Date(2026, 10, 19, 19, 30, 0, 0, time.UTC),
	}
	for name, start := range cases {
		t.Run(name, func(t *testing.T) {
			w := serve(r, http.MethodPost, "/appointments", gin.H{"salonId": fx.salon.ID, "serviceId": fx.service.ID, "startTime": start})
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}

	pending := fx.st.addSalon(t, fx.owner, false)
	svc := fx.st.addService(t, pending, 30, 20)
	w := serve(r, http.MethodPost, "/appointments", gin.H{"salonId": pending.ID, "serviceId": svc.ID, "startTime": testNow.Add(2 * time.Hour)})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	other := fx.st.addService(t, pending, 30, 20)
	w = serve(r, http.MethodPost, "/appointments", gin.H{"salonId": fx.salon.ID, "serviceId": other.ID, "startTime": testNow.Add(2 * time.Hour)})
	assert.Equal(t, http.StatusNotFound, w.Code, "service of another salon")
}

func TestAcceptAppointment_IssuesInvoiceAndNotifies(t *testing.T) {
	fx := newApptFixture(t)
	employee := fx.st.addUser(t, models.RoleClient)
	fx.st.employ(employee, fx.salon, models.StaffRoleEmployee)
	appt := fx.st.addAppointment(fx.salon, fx.service, fx.client, testNow.Add(3*time.Hour), models.AppointmentPending)

	w := serve(fx.router(fx.client), http.MethodPut, "/appointments/"+appt.ID.String()+"/accept", nil)
	assert.Equal(t, http.StatusForbidden, w.Code, "clients cannot accept")

	w = serve(fx.router(employee), http.MethodPut, "/appointments/"+appt.ID.String()+"/accept", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Appointment models.Appointment `json:"appointment"`
		Invoice     models.Invoice     `json:"invoice"`
	}
	decode(t, w, &resp)
	assert.Equal(t, models.AppointmentAccepted, resp.Appointment.Status)
	assert.Equal(t, 45.0, resp.Invoice.Amount)
	assert.Equal(t, models.InvoiceUnpaid, resp.Invoice.Status)
	assert.Regexp(t, `^INV-20261019-[A-Z2-9]{6}$`, resp.Invoice.InvoiceNumber)
	assert.Len(t, fx.st.invoices, 1)
	assert.Equal(t, []string{models.AppointmentAccepted}, fx.notifier.statuses)

	w = serve(fx.router(employee), http.MethodPut, "/appointments/"+appt.ID.String()+"/accept", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, "already accepted")
}

func TestRejectAppointment_NotificationFailureIsNotFatal(t *testing.T) {
	fx := newApptFixture(t)
	fx.notifier.err = assert.AnError
	appt := fx.st.addAppointment(fx.salon, fx.service, fx.client, testNow.Add(3*time.Hour), models.AppointmentPending)

	w := serve(fx.router(fx.owner), http.MethodPut, "/appointments/"+appt.ID.String()+"/reject", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, models.AppointmentRejected, fx.st.appointments[appt.ID].Status)
	assert.Empty(t, fx.st.invoices)
}

func TestCancelAppointment(t *testing.T) {
	fx := newApptFixture(t)
	appt := fx.st.addAppointment(fx.salon, fx.service, fx.client, testNow.Add(3*time.Hour), models.AppointmentPending)
	path := "/appointments/" + appt.ID.String() + "/cancel"

	w := serve(fx.router(fx.owner), http.MethodPut, path, nil)
	assert.Equal(t, http.StatusForbidden, w.Code, "only the booking client may cancel")

	w = serve(fx.router(fx.client), http.MethodPut, path, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	stored := fx.st.appointments[appt.ID]
	assert.Equal(t, models.AppointmentCancelled, stored.Status)
	require.NotNil(t, stored.CancelledAt)

	w = serve(fx.router(fx.client), http.MethodPut, path, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, fx.notifier.statuses)
}

func TestGetAppointment_Access(t *testing.T) {
	fx := newApptFixture(t)
	appt := fx.st.addAppointment(fx.salon, fx.service, fx.client, testNow.Add(3*time.Hour), models.AppointmentPending)
	stranger := fx.st.addUser(t, models.RoleClient)
	path := "/appointments/" + appt.ID.String()

	assert.Equal(t, http.StatusOK, serve(fx.router(fx.client), http.MethodGet, path, nil).Code)
	assert.Equal(t, http.StatusOK, serve(fx.router(fx.owner), http.MethodGet, path, nil).Code)
	assert.Equal(t, http.StatusForbidden, serve(fx.router(stranger), http.MethodGet, path, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(fx.router(nil), http.MethodGet, path, nil).Code)
	assert.Equal(t, http.StatusBadRequest, serve(fx.router(fx.client), http.MethodGet, "/appointments/xyz", nil).Code)
}

func TestSalonAppointments_Filters(t *testing.T) {
	fx := newApptFixture(t)
	fx.st.addAppointment(fx.salon, fx.service, fx.client, time.Date(2026, 10, 20, 9, 0, 0, 0, time.UTC), models.AppointmentPending)
	fx.st.addAppointment(fx.salon, fx.service, fx.client, time.Date(2026, 10, 21, 9, 0, 0, 0, time.UTC), models.AppointmentAccepted)
	fx.st.addAppointment(fx.salon, fx.service, fx.client, time.Date(2026, 10, 23, 9, 0, 0, 0, time.UTC), models.AppointmentPending)
	base := "/salons/" + fx.salon.ID.String() + "/appointments"

	w := serve(fx.router(fx.client), http.MethodGet, base, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = serve(fx.router(fx.owner), http.MethodGet, base+"?status=pending&from=2026-10-20&to=2026-10-22", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var appts []models.Appointment
	decode(t, w, &appts)
	require.Len(t, appts, 1)
	assert.Equal(t, 20, appts[0].StartTime.Day())

	w = serve(fx.router(fx.owner), http.MethodGet, base+"?from=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMyAppointments(t *testing.T) {
	fx := newApptFixture(t)
	fx.st.addAppointment(fx.salon, fx.service, fx.client, testNow.Add(time.Hour), models.AppointmentPending)
	fx.st.addAppointment(fx.salon, fx.service, fx.client, testNow.Add(26*time.Hour), models.AppointmentAccepted)
	fx.st.addAppointment(fx.salon, fx.service, fx.owner, testNow.Add(5*time.Hour), models.AppointmentPending)

	w := serve(fx.router(fx.client), http.MethodGet, "/appointments?status=accepted", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var appts []models.Appointment
	decode(t, w, &appts)
	require.Len(t, appts, 1)
	assert.Equal(t, models.AppointmentAccepted, appts[0].Status)
}
