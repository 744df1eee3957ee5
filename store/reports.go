package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"salonbook-backend/models"
)

type ServiceSummary struct {
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

type ClientSummary struct {
	Name   string  `json:"name"`
	Visits int     `json:"visits"`
	Spent  float64 `json:"spent"`
}

type AdminStats struct {
	UsersByRole           map[string]int64 `json:"usersByRole"`
	SalonsTotal           int64            `json:"salonsTotal"`
	SalonsPendingApproval int64            `json:"salonsPendingApproval"`
	AppointmentsByStatus  map[string]int64 `json:"appointmentsByStatus"`
	PaidRevenue           float64          `json:"paidRevenue"`
	NewDemoRequests       int64            `json:"newDemoRequests"`
}

type groupCount struct {
	Name  string
	Total int64
}

// TopServices ranks the salon's services by paid revenue over [from, to).
func (s *Store) TopServices(ctx context.Context, salonID uuid.UUID, from, to time.Time, limit int) ([]ServiceSummary, error) {
	var out []ServiceSummary
	err := s.db.WithContext(ctx).Table("invoices").
		Select("services.name, COUNT(invoices.id) AS count, COALESCE(SUM(invoices.amount), 0) AS revenue").
		Joins("JOIN appointments ON appointments.id = invoices.appointment_id").
		Joins("JOIN services ON services.id = appointments.service_id").
		Where("invoices.salon_id = ? AND invoices.status = ? AND invoices.paid_at >= ? AND invoices.paid_at < ?",
			salonID, models.InvoicePaid, from, to).
		Group("services.name").
		Order("revenue DESC").
		Limit(limit).
		Scan(&out).Error
	if err != nil {
		return nil, wrap("top services", err)
	}
	return out, nil
}

// TopClients ranks the salon's clients by paid spend over [from, to).
func (s *Store) TopClients(ctx context.Context, salonID uuid.UUID, from, to time.Time, limit int) ([]ClientSummary, error) {
	var out []ClientSummary
	err := s.db.WithContext(ctx).Table("invoices").
		Select("users.name, COUNT(invoices.id) AS visits, COALESCE(SUM(invoices.amount), 0) AS spent").
		Joins("JOIN users ON users.id = invoices.user_id").
		Where("invoices.salon_id = ? AND invoices.status = ? AND invoices.paid_at >= ? AND invoices.paid_at < ?",
			salonID, models.InvoicePaid, from, to).
		Group("users.id, users.name").
		Order("spent DESC").
		Limit(limit).
		Scan(&out).Error
	if err != nil {
		return nil, wrap("top clients", err)
	}
	return out, nil
}

func (s *Store) AdminStats(ctx context.Context) (*AdminStats, error) {
	db := s.db.WithContext(ctx)
	stats := &AdminStats{
		UsersByRole:          map[string]int64{},
		AppointmentsByStatus: map[string]int64{},
	}

	var rows []groupCount
	if err := db.Model(&models.User{}).Select("role AS name, COUNT(*) AS total").Group("role").Scan(&rows).Error; err != nil {
		return nil, wrap("count users", err)
	}
	for _, r := range rows {
		stats.UsersByRole[r.Name] = r.Total
	}

	rows = nil
	if err := db.Model(&models.Appointment{}).Select("status AS name, COUNT(*) AS total").Group("status").Scan(&rows).Error; err != nil {
		return nil, wrap("count appointments", err)
	}
	for _, r := range rows {
		stats.AppointmentsByStatus[r.Name] = r.Total
	}

	if err := db.Model(&models.Salon{}).Count(&stats.SalonsTotal).Error; err != nil {
		return nil, wrap("count salons", err)
	}
	if err := db.Model(&models.Salon{}).Where("is_approved = ?", false).Count(&stats.SalonsPendingApproval).Error; err != nil {
		return nil, wrap("count pending salons", err)
	}
	if err := db.Model(&models.Invoice{}).Where("status = ?", models.InvoicePaid).
		Select("COALESCE(SUM(amount), 0)").Scan(&stats.PaidRevenue).Error; err != nil {
		return nil, wrap("sum revenue", err)
	}
	if err := db.Model(&models.DemoRequest{}).Where("status = ?", models.DemoNew).Count(&stats.NewDemoRequests).Error; err != nil {
		return nil, wrap("count demo requests", err)
	}
	return stats, nil
}

func (s *Store) LogNotification(ctx context.Context, entry *models.NotificationLog) error {
	return wrap("log notification", s.db.WithContext(ctx).Create(entry).Error)
}
