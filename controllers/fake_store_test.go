package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"salonbook-backend/models"
	"salonbook-backend/store"
	"salonbook-backend/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.BcryptCost = bcrypt.MinCost
}

// fakeStore is an in-memory stand-in for *store.Store.
type fakeStore struct {
	mu sync.Mutex

	users        map[uuid.UUID]*models.User
	salons       map[uuid.UUID]*models.Salon
	services     map[uuid.UUID]*models.Service
	appointments map[uuid.UUID]*models.Appointment
	invoices     map[uuid.UUID]*models.Invoice
	invitations  map[uuid.UUID]*models.Invitation
	gallery      map[uuid.UUID]*models.SalonGallery
	demos        map[uuid.UUID]*models.DemoRequest

	revenue float64
	err     error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:        map[uuid.UUID]*models.User{},
		salons:       map[uuid.UUID]*models.Salon{},
		services:     map[uuid.UUID]*models.Service{},
		appointments: map[uuid.UUID]*models.Appointment{},
		invoices:     map[uuid.UUID]*models.Invoice{},
		invitations:  map[uuid.UUID]*models.Invitation{},
		gallery:      map[uuid.UUID]*models.SalonGallery{},
		demos:        map[uuid.UUID]*models.DemoRequest{},
	}
}

func notFound(what string) error { return fmt.Errorf("%s: %w", what, store.ErrNotFound) }

// users

func (f *fakeStore) CreateUser(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, other := range f.users {
		if other.Email == u.Email {
			return fmt.Errorf("create user: %w", store.ErrConflict)
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeStore) GetUserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, notFound("user")
	}
	cp := *u
	return &cp, nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, notFound("user")
}

func (f *fakeStore) UpdateUser(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeStore) ListUsers(_ context.Context, filter store.UserFilter) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.User
	for _, u := range f.users {
		if filter.Role == "" || u.Role == filter.Role {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeStore) RecordLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		u.LastLogin = &at
	}
	return nil
}

// salons and services

func (f *fakeStore) CreateSalon(_ context.Context, s *models.Salon) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	cp := *s
	f.salons[s.ID] = &cp
	return nil
}

func (f *fakeStore) GetSalon(_ context.Context, id uuid.UUID) (*models.Salon, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.salons[id]
	if !ok {
		return nil, notFound("salon")
	}
	cp := *s
	return &cp, nil
}

func (f *fakeStore) GetSalonDetail(ctx context.Context, id uuid.UUID) (*models.Salon, error) {
	s, err := f.GetSalon(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Services, _ = f.ListServices(ctx, id, true)
	s.Gallery, _ = f.ListGallery(ctx, id)
	return s, nil
}

func (f *fakeStore) UpdateSalon(_ context.Context, s *models.Salon) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *s
	f.salons[s.ID] = &cp
	return nil
}

func (f *fakeStore) DeleteSalon(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.appointments {
		if a.SalonID == id {
			return fmt.Errorf("delete salon: %w", store.ErrConflict)
		}
	}
	if _, ok := f.salons[id]; !ok {
		return notFound("salon")
	}
	delete(f.salons, id)
	for gid, g := range f.gallery {
		if g.SalonID == id {
			delete(f.gallery, gid)
		}
	}
	return nil
}

func (f *fakeStore) ListSalons(_ context.Context, filter store.SalonFilter) ([]models.Salon, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Salon
	for _, s := range f.salons {
		if filter.Approved != nil && s.IsApproved != *filter.Approved {
			continue
		}
		if filter.OwnerID != nil && s.OwnerID != *filter.OwnerID {
			continue
		}
		if filter.City != "" && s.City != filter.City {
			continue
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeStore) CreateService(_ context.Context, svc *models.Service) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if svc.ID == uuid.Nil {
		svc.ID = uuid.New()
	}
	cp := *svc
	f.services[svc.ID] = &cp
	return nil
}

func (f *fakeStore) GetService(_ context.Context, salonID, id uuid.UUID) (*models.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	svc, ok := f.services[id]
	if !ok || svc.SalonID != salonID {
		return nil, notFound("service")
	}
	cp := *svc
	return &cp, nil
}

func (f *fakeStore) UpdateService(_ context.Context, svc *models.Service) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *svc
	f.services[svc.ID] = &cp
	return nil
}

func (f *fakeStore) DeleteService(_ context.Context, salonID, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	svc, ok := f.services[id]
	if !ok || svc.SalonID != salonID {
		return notFound("service")
	}
	for _, a := range f.appointments {
		if a.ServiceID == id {
			svc.IsActive = false
			return nil
		}
	}
	delete(f.services, id)
	return nil
}

func (f *fakeStore) ListServices(_ context.Context, salonID uuid.UUID, activeOnly bool) ([]models.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Service{}
	for _, svc := range f.services {
		if svc.SalonID == salonID && (!activeOnly || svc.IsActive) {
			out = append(out, *svc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// appointments

func (f *fakeStore) BookAppointment(_ context.Context, appt *models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.appointments {
		if a.SalonID == appt.SalonID && a.StartTime.Equal(appt.StartTime) && a.Live() {
			return fmt.Errorf("book appointment: %w", store.ErrSlotTaken)
		}
	}
	if appt.ID == uuid.Nil {
		appt.ID = uuid.New()
	}
	cp := *appt
	f.appointments[appt.ID] = &cp
	return nil
}

func (f *fakeStore) GetAppointment(_ context.Context, id uuid.UUID) (*models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.appointments[id]
	if !ok {
		return nil, notFound("appointment")
	}
	return f.hydrate(*a), nil
}

func (f *fakeStore) hydrate(a models.Appointment) *models.Appointment {
	if u, ok := f.users[a.UserID]; ok {
		cp := *u
		a.User = &cp
	}
	if s, ok := f.salons[a.SalonID]; ok {
		cp := *s
		a.Salon = &cp
	}
	if svc, ok := f.services[a.ServiceID]; ok {
		cp := *svc
		a.Service = &cp
	}
	return &a
}

func (f *fakeStore) matching(filter store.AppointmentFilter) []models.Appointment {
	var out []models.Appointment
	for _, a := range f.appointments {
		switch {
		case filter.UserID != nil && a.UserID != *filter.UserID,
			filter.SalonID != nil && a.SalonID != *filter.SalonID,
			filter.Status != "" && a.Status != filter.Status,
			filter.From != nil && a.StartTime.Before(*filter.From),
			filter.To != nil && !a.StartTime.Before(*filter.To):
			continue
		}
		out = append(out, *f.hydrate(*a))
	}
	sort.Slice(out, func(i, j int) bool {
		if filter.Ascending {
			return out[i].StartTime.Before(out[j].StartTime)
		}
		return out[i].StartTime.After(out[j].StartTime)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out
}

func (f *fakeStore) ListAppointments(_ context.Context, filter store.AppointmentFilter) ([]models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.matching(filter), nil
}

func (f *fakeStore) CountAppointments(_ context.Context, filter store.AppointmentFilter) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.matching(filter))), nil
}

func (f *fakeStore) TransitionAppointment(_ context.Context, appt *models.Appointment, from string, invoice *models.Invoice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.appointments[appt.ID]
	if !ok {
		return notFound("appointment")
	}
	if stored.Status != from {
		return fmt.Errorf("appointment: %w", store.ErrConflict)
	}
	stored.Status = appt.Status
	stored.CancelledAt = appt.CancelledAt
	if invoice != nil {
		if invoice.ID == uuid.Nil {
			invoice.ID = uuid.New()
		}
		cp := *invoice
		f.invoices[invoice.ID] = &cp
	}
	return nil
}

func (f *fakeStore) BookedStartTimes(_ context.Context, salonID uuid.UUID, from, to time.Time) ([]time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []time.Time
	for _, a := range f.appointments {
		if a.SalonID == salonID && a.Live() && !a.StartTime.Before(from) && a.StartTime.Before(to) {
			out = append(out, a.StartTime)
		}
	}
	return out, nil
}

// invoices

func (f *fakeStore) ListInvoices(_ context.Context, filter store.InvoiceFilter) ([]models.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Invoice{}
	for _, inv := range f.invoices {
		if filter.UserID != nil && inv.UserID != *filter.UserID {
			continue
		}
		if filter.SalonID != nil && inv.SalonID != *filter.SalonID {
			continue
		}
		out = append(out, *inv)
	}
	return out, nil
}

func (f *fakeStore) GetInvoice(_ context.Context, id uuid.UUID) (*models.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.invoices[id]
	if !ok {
		return nil, notFound("invoice")
	}
	cp := *inv
	return &cp, nil
}

func (f *fakeStore) TransitionInvoice(_ context.Context, inv *models.Invoice, from string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.invoices[inv.ID]
	if !ok {
		return notFound("invoice")
	}
	if stored.Status != from {
		return fmt.Errorf("invoice: %w", store.ErrConflict)
	}
	stored.Status = inv.Status
	stored.PaidAt = inv.PaidAt
	return nil
}

// invitations

func (f *fakeStore) CreateInvitation(_ context.Context, inv *models.Invitation, now time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, other := range f.invitations {
		if other.SalonID == inv.SalonID && other.Email == inv.Email && other.Usable(now) {
			return fmt.Errorf("invitation: %w", store.ErrConflict)
		}
	}
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	cp := *inv
	f.invitations[inv.ID] = &cp
	return nil
}

func (f *fakeStore) GetInvitationByToken(_ context.Context, token string) (*models.Invitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, inv := range f.invitations {
		if inv.Token == token {
			cp := *inv
			if s, ok := f.salons[inv.SalonID]; ok {
				sc := *s
				cp.Salon = &sc
			}
			return &cp, nil
		}
	}
	return nil, notFound("invitation")
}

func (f *fakeStore) GetInvitation(_ context.Context, salonID, id uuid.UUID) (*models.Invitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.invitations[id]
	if !ok || inv.SalonID != salonID {
		return nil, notFound("invitation")
	}
	cp := *inv
	return &cp, nil
}

func (f *fakeStore) ListInvitations(_ context.Context, salonID uuid.UUID) ([]models.Invitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Invitation{}
	for _, inv := range f.invitations {
		if inv.SalonID == salonID {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (f *fakeStore) SetInvitationStatus(_ context.Context, id uuid.UUID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.invitations[id]
	if !ok {
		return notFound("invitation")
	}
	if inv.Status != models.InvitationPending {
		return fmt.Errorf("invitation: %w", store.ErrConflict)
	}
	inv.Status = status
	return nil
}

func (f *fakeStore) AcceptInvitation(_ context.Context, inv *models.Invitation, user *models.User, create bool, now time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.invitations[inv.ID]
	if !ok {
		return notFound("invitation")
	}
	if stored.Status != models.InvitationPending {
		return fmt.Errorf("invitation: %w", store.ErrConflict)
	}
	stored.Status = models.InvitationAccepted
	stored.AcceptedAt = &now
	if create && user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

// gallery

func (f *fakeStore) ListGallery(_ context.Context, salonID uuid.UUID) ([]models.SalonGallery, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.SalonGallery{}
	for _, g := range f.gallery {
		if g.SalonID == salonID {
			out = append(out, *g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (f *fakeStore) CountGallery(ctx context.Context, salonID uuid.UUID) (int64, error) {
	images, err := f.ListGallery(ctx, salonID)
	return int64(len(images)), err
}

func (f *fakeStore) AddGalleryImage(ctx context.Context, img *models.SalonGallery) error {
	n, _ := f.CountGallery(ctx, img.SalonID)
	if n >= models.MaxGalleryImages {
		return fmt.Errorf("gallery: %w", store.ErrGalleryFull)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	img.IsPrimary = n == 0
	img.Order = int(n)
	if img.ID == uuid.Nil {
		img.ID = uuid.New()
	}
	cp := *img
	f.gallery[img.ID] = &cp
	return nil
}

func (f *fakeStore) SetPrimaryImage(_ context.Context, salonID, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	target, ok := f.gallery[id]
	if !ok || target.SalonID != salonID {
		return notFound("image")
	}
	for _, g := range f.gallery {
		if g.SalonID == salonID {
			g.IsPrimary = g.ID == id
		}
	}
	return nil
}

func (f *fakeStore) ReorderGallery(_ context.Context, salonID uuid.UUID, ids []uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int
	for _, g := range f.gallery {
		if g.SalonID == salonID {
			count++
		}
	}
	if count != len(ids) {
		return store.ErrInvalidOrder
	}
	for i, id := range ids {
		g, ok := f.gallery[id]
		if !ok || g.SalonID != salonID {
			return store.ErrInvalidOrder
		}
		g.Order = i
	}
	return nil
}

func (f *fakeStore) DeleteGalleryImage(_ context.Context, salonID, id uuid.UUID) (*models.SalonGallery, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.gallery[id]
	if !ok || g.SalonID != salonID {
		return nil, notFound("image")
	}
	delete(f.gallery, id)
	return g, nil
}

// demo requests

func (f *fakeStore) CreateDemoRequest(_ context.Context, d *models.DemoRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	cp := *d
	f.demos[d.ID] = &cp
	return nil
}

func (f *fakeStore) ListDemoRequests(_ context.Context, status string) ([]models.DemoRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.DemoRequest{}
	for _, d := range f.demos {
		if status == "" || d.Status == status {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeStore) GetDemoRequest(_ context.Context, id uuid.UUID) (*models.DemoRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.demos[id]
	if !ok {
		return nil, notFound("demo request")
	}
	cp := *d
	return &cp, nil
}

func (f *fakeStore) UpdateDemoRequest(_ context.Context, d *models.DemoRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *d
	f.demos[d.ID] = &cp
	return nil
}

// reports

func (f *fakeStore) PaidRevenue(_ context.Context, _ *uuid.UUID, _, _ time.Time) (float64, error) {
	return f.revenue, nil
}

func (f *fakeStore) TopServices(_ context.Context, _ uuid.UUID, _, _ time.Time, _ int) ([]store.ServiceSummary, error) {
	return []store.ServiceSummary{{Name: "Cut", Count: 2, Revenue: f.revenue}}, nil
}

func (f *fakeStore) TopClients(_ context.Context, _ uuid.UUID, _, _ time.Time, _ int) ([]store.ClientSummary, error) {
	return []store.ClientSummary{}, nil
}

func (f *fakeStore) AdminStats(_ context.Context) (*store.AdminStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := &store.AdminStats{UsersByRole: map[string]int64{}, AppointmentsByStatus: map[string]int64{}}
	for _, u := range f.users {
		stats.UsersByRole[u.Role]++
	}
	stats.SalonsTotal = int64(len(f.salons))
	return stats, nil
}

// fixtures

func (f *fakeStore) addUser(t *testing.T, role string) *models.User {
	t.Helper()
	hash, err := utils.HashPassword("password123")
	require.NoError(t, err)
	u := &models.User{
		ID:       uuid.New(),
		Email:    uuid.NewString()[:8] + "@example.com",
		Password: hash,
		Name:     "User " + role,
		Phone:    "+15550001111",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, f.CreateUser(context.Background(), u))
	return u
}

func (f *fakeStore) addSalon(t *testing.T, owner *models.User, approved bool) *models.Salon {
	t.Helper()
	s := &models.Salon{
		ID:           uuid.New(),
		OwnerID:      owner.ID,
		Name:         "Salon " + owner.Name,
		City:         "Paris",
		Category:     "barber",
		WorkingHours: models.DefaultWorkingHours(),
		IsApproved:   approved,
	}
	require.NoError(t, f.CreateSalon(context.Background(), s))
	return s
}

func (f *fakeStore) addService(t *testing.T, salon *models.Salon, minutes int, price float64) *models.Service {
	t.Helper()
	svc := &models.Service{ID: uuid.New(), SalonID: salon.ID, Name: "Cut", Price: price, Duration: minutes, IsActive: true}
	require.NoError(t, f.CreateService(context.Background(), svc))
	return svc
}

func (f *fakeStore) addAppointment(salon *models.Salon, svc *models.Service, client *models.User, start time.Time, status string) *models.Appointment {
	a := &models.Appointment{
		ID:        uuid.New(),
		UserID:    client.ID,
		SalonID:   salon.ID,
		ServiceID: svc.ID,
		StartTime: start,
		EndTime:   start.Add(svc.Length()),
		Status:    status,
	}
	f.mu.Lock()
	f.appointments[a.ID] = a
	f.mu.Unlock()
	return a
}

func (f *fakeStore) employ(u *models.User, salon *models.Salon, staffRole string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := salon.ID
	f.users[u.ID].Role = models.RoleEmployee
	f.users[u.ID].SalonID = &id
	f.users[u.ID].StaffRole = staffRole
}

// fakeNotifier records status changes and invitation emails.
type fakeNotifier struct {
	mu       sync.Mutex
	statuses []string
	links    []string
	err      error
}

func (n *fakeNotifier) AppointmentStatusChanged(_ context.Context, appt *models.Appointment) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.statuses = append(n.statuses, appt.Status)
	return n.err
}

func (n *fakeNotifier) Invitation(_ context.Context, _ *models.Invitation, _, link string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.links = append(n.links, link)
	return n.err
}

// fakeImages keeps uploaded objects in memory.
type fakeImages struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
}

func newFakeImages() *fakeImages { return &fakeImages{objects: map[string][]byte{}} }

func (i *fakeImages) Put(_ context.Context, key, _ string, body io.Reader, _ int64) (string, error) {
	b, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	i.objects[key] = b
	return "https://cdn.example.com/" + key, nil
}

func (i *fakeImages) Delete(_ context.Context, key string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	delete(i.objects, key)
	i.deleted = append(i.deleted, key)
	return nil
}

// request helpers

// asUser stands in for AuthMiddleware.
func asUser(u *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		if u != nil {
			c.Set("userId", u.ID.String())
			c.Set("role", u.Role)
		}
		c.Next()
	}
}

func serve(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var rdr io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	decode(t, w, &body)
	return body.Error
}
