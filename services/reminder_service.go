// services/reminder_service.go
package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"salonbook-backend/models"
)

const reminderWindow = 24 * time.Hour

type ReminderStore interface {
	DueReminders(ctx context.Context, from, to time.Time) ([]models.Appointment, error)
	MarkReminded(ctx context.Context, id uuid.UUID, at time.Time) error
	ExpireInvitations(ctx context.Context, now time.Time) (int64, error)
}

type AppointmentReminder interface {
	AppointmentReminder(ctx context.Context, appt *models.Appointment) error
}

// ReminderService runs the periodic jobs: SMS reminders for upcoming accepted
// appointments and expiry of stale invitations.
type ReminderService struct {
	store    ReminderStore
	notifier AppointmentReminder
	log      logrus.FieldLogger
	cron     *cron.Cron
	now      func() time.Time
}

func NewReminderService(store ReminderStore, notifier AppointmentReminder, log logrus.FieldLogger, loc *time.Location) *ReminderService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReminderService{
		store:    store,
		notifier: notifier,
		log:      log,
		cron:     cron.New(cron.WithLocation(loc), cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
		now:      time.Now,
	}
}

// StartScheduler registers both jobs and starts the cron runner.
func (s *ReminderService) StartScheduler(reminderSpec, expirySpec string) error {
	if _, err := s.cron.AddFunc(reminderSpec, func() { s.SendDueReminders(context.Background()) }); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(expirySpec, func() { s.ExpireInvitations(context.Background()) }); err != nil {
		return err
	}
	s.cron.Start()
	s.log.WithFields(logrus.Fields{"reminders": reminderSpec, "expiry": expirySpec}).Info("Reminder scheduler started")
	return nil
}

// Stop halts the scheduler; the returned context is done once running jobs finish.
func (s *ReminderService) Stop() context.Context {
	return s.cron.Stop()
}

// SendDueReminders texts every client whose accepted appointment starts within the
// next 24 hours and has not been reminded yet. It returns the number of reminders sent.
func (s *ReminderService) SendDueReminders(ctx context.Context) int {
	now := s.now()
	appts, err := s.store.DueReminders(ctx, now, now.Add(reminderWindow))
	if err != nil {
		s.log.WithError(err).Error("Failed to fetch appointments due for a reminder")
		return 0
	}

	sent := 0
	for i := range appts {
		appt := &appts[i]
		entry := s.log.WithFields(logrus.Fields{"appointment_id": appt.ID, "salon_id": appt.SalonID})
		if err := s.notifier.AppointmentReminder(ctx, appt); err != nil {
			entry.WithError(err).Warn("Reminder not delivered")
			// Without a phone number there is nothing to retry.
			if !errors.Is(err, ErrNoRecipient) {
				continue
			}
		} else {
			sent++
		}
		if err := s.store.MarkReminded(ctx, appt.ID, now); err != nil {
			entry.WithError(err).Error("Failed to mark appointment as reminded")
		}
	}
	s.log.WithFields(logrus.Fields{"due": len(appts), "sent": sent}).Info("Reminder run completed")
	return sent
}

func (s *ReminderService) ExpireInvitations(ctx context.Context) int64 {
	n, err := s.store.ExpireInvitations(ctx, s.now())
	if err != nil {
		s.log.WithError(err).Error("Failed to expire invitations")
		return 0
	}
	if n > 0 {
		s.log.WithField("count", n).Info("Expired pending invitations")
	}
	return n
}
