package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"salonbook-backend/models"
)

var liveStatuses = []string{models.AppointmentPending, models.AppointmentAccepted}

type AppointmentFilter struct {
	UserID  *uuid.UUID
	SalonID *uuid.UUID
	Status  string
	From    *time.Time
	To      *time.Time
	Limit   int
	// Ascending lists the earliest start first; the default is newest first.
	Ascending bool
}

func (f AppointmentFilter) apply(q *gorm.DB) *gorm.DB {
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.SalonID != nil {
		q = q.Where("salon_id = ?", *f.SalonID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.From != nil {
		q = q.Where("start_time >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("start_time < ?", *f.To)
	}
	return q
}

// BookAppointment inserts a pending appointment unless the salon already holds a
// live appointment starting at the same instant. The check and the insert share a
// transaction and the partial unique index catches concurrent inserts.
func (s *Store) BookAppointment(ctx context.Context, appt *models.Appointment) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taken int64
		err := tx.Model(&models.Appointment{}).
			Where("salon_id = ? AND start_time = ? AND status IN ?", appt.SalonID, appt.StartTime, liveStatuses).
			Count(&taken).Error
		if err != nil {
			return err
		}
		if taken > 0 {
			return ErrSlotTaken
		}
		return tx.Create(appt).Error
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrSlotTaken), errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("book appointment at %s: %w", appt.StartTime.Format(time.RFC3339), ErrSlotTaken)
	default:
		return wrap("book appointment", err)
	}
}

func (s *Store) GetAppointment(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	var appt models.Appointment
	err := s.db.WithContext(ctx).
		Preload("User").Preload("Salon").Preload("Service").
		First(&appt, "id = ?", id).Error
	if err != nil {
		return nil, wrap("get appointment", err)
	}
	return &appt, nil
}

func (s *Store) ListAppointments(ctx context.Context, f AppointmentFilter) ([]models.Appointment, error) {
	q := f.apply(s.db.WithContext(ctx).Preload("User").Preload("Salon").Preload("Service"))
	if f.Ascending {
		q = q.Order("start_time ASC")
	} else {
		q = q.Order("start_time DESC")
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	var appts []models.Appointment
	if err := q.Find(&appts).Error; err != nil {
		return nil, wrap("list appointments", err)
	}
	return appts, nil
}

func (s *Store) CountAppointments(ctx context.Context, f AppointmentFilter) (int64, error) {
	var n int64
	if err := f.apply(s.db.WithContext(ctx).Model(&models.Appointment{})).Count(&n).Error; err != nil {
		return 0, wrap("count appointments", err)
	}
	return n, nil
}

// TransitionAppointment persists appt.Status provided the stored status is still
// from. A non-nil invoice is created in the same transaction.
func (s *Store) TransitionAppointment(ctx context.Context, appt *models.Appointment, from string, invoice *models.Invoice) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"status": appt.Status}
		if appt.CancelledAt != nil {
			updates["cancelled_at"] = *appt.CancelledAt
		}
		if err := transition(tx, &models.Appointment{}, appt.ID, from, updates); err != nil {
			return fmt.Errorf("appointment %s: %w", appt.ID, err)
		}
		if invoice != nil {
			if err := tx.Create(invoice).Error; err != nil {
				return wrap("create invoice", err)
			}
		}
		return nil
	})
}

// BookedStartTimes returns the start of every live appointment of the salon in [from, to).
func (s *Store) BookedStartTimes(ctx context.Context, salonID uuid.UUID, from, to time.Time) ([]time.Time, error) {
	var starts []time.Time
	err := s.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("salon_id = ? AND status IN ? AND start_time >= ? AND start_time < ?", salonID, liveStatuses, from, to).
		Pluck("start_time", &starts).Error
	if err != nil {
		return nil, wrap("booked start times", err)
	}
	return starts, nil
}

// DueReminders lists accepted, not yet reminded appointments starting in [from, to).
func (s *Store) DueReminders(ctx context.Context, from, to time.Time) ([]models.Appointment, error) {
	var appts []models.Appointment
	err := s.db.WithContext(ctx).
		Preload("User").Preload("Salon").Preload("Service").
		Where("status = ? AND reminded_at IS NULL AND start_time >= ? AND start_time < ?", models.AppointmentAccepted, from, to).
		Order("start_time ASC").
		Find(&appts).Error
	if err != nil {
		return nil, wrap("due reminders", err)
	}
	return appts, nil
}

func (s *Store) MarkReminded(ctx context.Context, id uuid.UUID, at time.Time) error {
	return mustAffect("mark reminded", s.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("id = ?", id).Update("reminded_at", at))
}

// transition applies updates to the row only while its status still equals from.
// A lost race surfaces as ErrConflict.
func transition(tx *gorm.DB, model interface{}, id uuid.UUID, from string, updates map[string]interface{}) error {
	res := tx.Model(model).Where("id = ? AND status = ?", id, from).Updates(updates)
	if res.Error != nil {
		return wrap("update status", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("status is no longer %q: %w", from, ErrConflict)
	}
	return nil
}
