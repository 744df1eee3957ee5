package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"salonbook-backend/config"
	"salonbook-backend/models"
)

var ErrNoRecipient = errors.New("recipient has no contact address")

const (
	NotifyAccepted   = "accepted"
	NotifyRejected   = "rejected"
	NotifyReminder   = "reminder"
	NotifyInvitation = "invitation"
)

const messageTimeLayout = "Mon 02 Jan at 15:04"

type NotificationRecorder interface {
	LogNotification(ctx context.Context, entry *models.NotificationLog) error
}

// Notifier sends appointment SMS and invitation emails, recording every attempt
// in the notification log.
type Notifier struct {
	sms     SMSSender
	mail    Mailer
	logs    NotificationRecorder
	metrics *config.Metrics
	log     logrus.FieldLogger
	loc     *time.Location
	now     func() time.Time
}

func NewNotifier(sms SMSSender, mail Mailer, logs NotificationRecorder, metrics *config.Metrics, log logrus.FieldLogger, loc *time.Location) *Notifier {
	if loc == nil {
		loc = time.UTC
	}
	return &Notifier{sms: sms, mail: mail, logs: logs, metrics: metrics, log: log, loc: loc, now: time.Now}
}

// AppointmentStatusChanged tells the client that their booking was accepted or rejected.
// appt must carry its User, Salon and Service.
func (n *Notifier) AppointmentStatusChanged(ctx context.Context, appt *models.Appointment) error {
	var kind, body string
	switch appt.Status {
	case models.AppointmentAccepted:
		kind = NotifyAccepted
		body = fmt.Sprintf("Hi %s, your %s appointment at %s on %s is confirmed.",
			userName(appt), serviceName(appt), salonName(appt), n.when(appt.StartTime))
	case models.AppointmentRejected:
		kind = NotifyRejected
		body = fmt.Sprintf("Hi %s, %s could not accept your %s appointment on %s. Please pick another time.",
			userName(appt), salonName(appt), serviceName(appt), n.when(appt.StartTime))
	default:
		return nil
	}
	return n.sendSMS(ctx, kind, appt, body)
}

func (n *Notifier) AppointmentReminder(ctx context.Context, appt *models.Appointment) error {
	body := fmt.Sprintf("Reminder: your %s appointment at %s is on %s.",
		serviceName(appt), salonName(appt), n.when(appt.StartTime))
	return n.sendSMS(ctx, NotifyReminder, appt, body)
}

// Invitation emails the accept link for inv.
func (n *Notifier) Invitation(ctx context.Context, inv *models.Invitation, salon, link string) error {
	subject := fmt.Sprintf("You're invited to join %s", salon)
	body := fmt.Sprintf("Hello,\n\n%s invited you to join their team as %s on SalonBook.\n"+
		"Accept the invitation before %s:\n\n%s\n",
		salon, inv.Role, inv.ExpiresAt.In(n.loc).Format(messageTimeLayout), link)

	entry := &models.NotificationLog{
		Recipient: inv.Email,
		Type:      NotifyInvitation,
		Message:   subject,
		Channel:   models.ChannelEmail,
	}
	err := n.mail.Send(ctx, inv.Email, subject, body)
	n.record(ctx, entry, "", err)
	return err
}

func (n *Notifier) sendSMS(ctx context.Context, kind string, appt *models.Appointment, body string) error {
	entry := &models.NotificationLog{
		AppointmentID: &appt.ID,
		UserID:        &appt.UserID,
		Type:          kind,
		Message:       body,
		Channel:       models.ChannelSMS,
	}
	if appt.User == nil || appt.User.Phone == "" {
		n.record(ctx, entry, "", ErrNoRecipient)
		return ErrNoRecipient
	}
	entry.Recipient = appt.User.Phone

	id, err := n.sms.Send(ctx, appt.User.Phone, body)
	n.record(ctx, entry, id, err)
	return err
}

func (n *Notifier) record(ctx context.Context, entry *models.NotificationLog, providerID string, sendErr error) {
	entry.SentAt = n.now()
	entry.ProviderID = providerID
	entry.Status = models.NotificationSent
	fields := logrus.Fields{"channel": entry.Channel, "type": entry.Type}
	if entry.AppointmentID != nil {
		fields["appointment_id"] = *entry.AppointmentID
	}
	if sendErr != nil {
		entry.Status = models.NotificationFailed
		entry.ErrorMessage = sendErr.Error()
		n.log.WithFields(fields).WithError(sendErr).Warn("Notification failed")
	} else {
		n.log.WithFields(fields).Debug("Notification sent")
	}
	n.metrics.Notification(entry.Channel, entry.Status)

	if err := n.logs.LogNotification(ctx, entry); err != nil {
		n.log.WithFields(fields).WithError(err).Error("Failed to write notification log")
	}
}

func (n *Notifier) when(t time.Time) string {
	return t.In(n.loc).Format(messageTimeLayout)
}

func userName(a *models.Appointment) string {
	if a.User == nil {
		return "there"
	}
	return a.User.Name
}

func salonName(a *models.Appointment) string {
	if a.Salon == nil {
		return "the salon"
	}
	return a.Salon.Name
}

func serviceName(a *models.Appointment) string {
	if a.Service == nil {
		return "salon"
	}
	return a.Service.Name
}
