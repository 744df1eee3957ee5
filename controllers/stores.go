package controllers

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"salonbook-backend/models"
	"salonbook-backend/store"
)

// The interfaces below are satisfied by *store.Store.

type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, u *models.User) error
	ListUsers(ctx context.Context, f store.UserFilter) ([]models.User, error)
	RecordLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type SalonStore interface {
	CreateSalon(ctx context.Context, s *models.Salon) error
	GetSalon(ctx context.Context, id uuid.UUID) (*models.Salon, error)
	GetSalonDetail(ctx context.Context, id uuid.UUID) (*models.Salon, error)
	UpdateSalon(ctx context.Context, s *models.Salon) error
	DeleteSalon(ctx context.Context, id uuid.UUID) error
	ListSalons(ctx context.Context, f store.SalonFilter) ([]models.Salon, error)

	CreateService(ctx context.Context, svc *models.Service) error
	GetService(ctx context.Context, salonID, id uuid.UUID) (*models.Service, error)
	UpdateService(ctx context.Context, svc *models.Service) error
	DeleteService(ctx context.Context, salonID, id uuid.UUID) error
	ListServices(ctx context.Context, salonID uuid.UUID, activeOnly bool) ([]models.Service, error)
}

type AppointmentStore interface {
	BookAppointment(ctx context.Context, appt *models.Appointment) error
	GetAppointment(ctx context.Context, id uuid.UUID) (*models.Appointment, error)
	ListAppointments(ctx context.Context, f store.AppointmentFilter) ([]models.Appointment, error)
	CountAppointments(ctx context.Context, f store.AppointmentFilter) (int64, error)
	TransitionAppointment(ctx context.Context, appt *models.Appointment, from string, invoice *models.Invoice) error
	BookedStartTimes(ctx context.Context, salonID uuid.UUID, from, to time.Time) ([]time.Time, error)
}

type InvoiceStore interface {
	ListInvoices(ctx context.Context, f store.InvoiceFilter) ([]models.Invoice, error)
	GetInvoice(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
	TransitionInvoice(ctx context.Context, inv *models.Invoice, from string) error
}

type InvitationStore interface {
	CreateInvitation(ctx context.Context, inv *models.Invitation, now time.Time) error
	GetInvitationByToken(ctx context.Context, token string) (*models.Invitation, error)
	GetInvitation(ctx context.Context, salonID, id uuid.UUID) (*models.Invitation, error)
	ListInvitations(ctx context.Context, salonID uuid.UUID) ([]models.Invitation, error)
	SetInvitationStatus(ctx context.Context, id uuid.UUID, status string) error
	AcceptInvitation(ctx context.Context, inv *models.Invitation, user *models.User, create bool, now time.Time) error
}

type GalleryStore interface {
	ListGallery(ctx context.Context, salonID uuid.UUID) ([]models.SalonGallery, error)
	CountGallery(ctx context.Context, salonID uuid.UUID) (int64, error)
	AddGalleryImage(ctx context.Context, img *models.SalonGallery) error
	SetPrimaryImage(ctx context.Context, salonID, id uuid.UUID) error
	ReorderGallery(ctx context.Context, salonID uuid.UUID, ids []uuid.UUID) error
	DeleteGalleryImage(ctx context.Context, salonID, id uuid.UUID) (*models.SalonGallery, error)
}

type DemoRequestStore interface {
	CreateDemoRequest(ctx context.Context, d *models.DemoRequest) error
	ListDemoRequests(ctx context.Context, status string) ([]models.DemoRequest, error)
	GetDemoRequest(ctx context.Context, id uuid.UUID) (*models.DemoRequest, error)
	UpdateDemoRequest(ctx context.Context, d *models.DemoRequest) error
}

type ReportStore interface {
	PaidRevenue(ctx context.Context, salonID *uuid.UUID, from, to time.Time) (float64, error)
	TopServices(ctx context.Context, salonID uuid.UUID, from, to time.Time, limit int) ([]store.ServiceSummary, error)
	TopClients(ctx context.Context, salonID uuid.UUID, from, to time.Time, limit int) ([]store.ClientSummary, error)
	AdminStats(ctx context.Context) (*store.AdminStats, error)
}

// StatusNotifier tells clients about decisions on their bookings.
type StatusNotifier interface {
	AppointmentStatusChanged(ctx context.Context, appt *models.Appointment) error
}

type InvitationSender interface {
	Invitation(ctx context.Context, inv *models.Invitation, salon, link string) error
}

type ImageStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
	Delete(ctx context.Context, key string) error
}
