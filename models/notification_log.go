// models/notification_log.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ChannelSMS   = "sms"
	ChannelEmail = "email"

	NotificationSent   = "sent"
	NotificationFailed = "failed"
)

type NotificationLog struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	AppointmentID *uuid.UUID `gorm:"type:uuid;index" json:"appointmentId,omitempty"`
	UserID        *uuid.UUID `gorm:"type:uuid;index" json:"userId,omitempty"`
	Recipient     string     `gorm:"type:varchar(255)" json:"recipient"`
	Type          string     `gorm:"type:varchar(30)" json:"type"` // accepted, rejected, reminder, invitation
	Message       string     `gorm:"type:text" json:"message"`
	Status        string     `gorm:"type:varchar(20)" json:"status"` // sent, failed
	ErrorMessage  string     `gorm:"type:text" json:"errorMessage,omitempty"`
	Channel       string     `gorm:"type:varchar(20)" json:"channel"` // sms, email
	ProviderID    string     `gorm:"type:varchar(64)" json:"providerId,omitempty"`
	SentAt        time.Time  `json:"sentAt"`
}

func (r *NotificationLog) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
