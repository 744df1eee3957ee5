package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"salonbook-backend/models"
)

type InvoiceFilter struct {
	UserID  *uuid.UUID
	SalonID *uuid.UUID
	Status  string
}

func (s *Store) ListInvoices(ctx context.Context, f InvoiceFilter) ([]models.Invoice, error) {
	q := s.db.WithContext(ctx).Preload("Appointment.Service").Order("created_at DESC")
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.SalonID != nil {
		q = q.Where("salon_id = ?", *f.SalonID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var invoices []models.Invoice
	if err := q.Find(&invoices).Error; err != nil {
		return nil, wrap("list invoices", err)
	}
	return invoices, nil
}

func (s *Store) GetInvoice(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	var inv models.Invoice
	if err := s.db.WithContext(ctx).Preload("Appointment.Service").First(&inv, "id = ?", id).Error; err != nil {
		return nil, wrap("get invoice", err)
	}
	return &inv, nil
}

// TransitionInvoice moves an unpaid invoice to inv.Status, stamping paidAt when paid.
func (s *Store) TransitionInvoice(ctx context.Context, inv *models.Invoice, from string) error {
	updates := map[string]interface{}{"status": inv.Status}
	if inv.PaidAt != nil {
		updates["paid_at"] = *inv.PaidAt
	}
	return transition(s.db.WithContext(ctx), &models.Invoice{}, inv.ID, from, updates)
}

// PaidRevenue sums paid invoices of the salon whose paidAt falls in [from, to).
// A nil salonID sums across all salons.
func (s *Store) PaidRevenue(ctx context.Context, salonID *uuid.UUID, from, to time.Time) (float64, error) {
	q := s.db.WithContext(ctx).Model(&models.Invoice{}).
		Where("status = ? AND paid_at >= ? AND paid_at < ?", models.InvoicePaid, from, to)
	if salonID != nil {
		q = q.Where("salon_id = ?", *salonID)
	}
	var total float64
	if err := q.Select("COALESCE(SUM(amount), 0)").Scan(&total).Error; err != nil {
		return 0, wrap("paid revenue", err)
	}
	return total, nil
}
