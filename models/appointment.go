package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AppointmentPending   = "pending"
	AppointmentAccepted  = "accepted"
	AppointmentRejected  = "rejected"
	AppointmentCancelled = "cancelled"
)

// Appointment links a client, a salon and one of its services at a start time.
// A salon cannot hold two live (pending or accepted) appointments starting at the same instant.
type Appointment struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"userId"`
	SalonID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_salon_live_slot,where:status <> 'rejected' AND status <> 'cancelled'" json:"salonId"`
	ServiceID uuid.UUID `gorm:"type:uuid;index;not null" json:"serviceId"`
	StartTime time.Time `gorm:"not null;uniqueIndex:idx_salon_live_slot" json:"startTime"`
	EndTime   time.Time `gorm:"not null" json:"endTime"`
	Status    string    `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Notes     string    `gorm:"type:text" json:"notes"`

	CancelledAt *time.Time `json:"cancelledAt,omitempty"`
	RemindedAt  *time.Time `json:"remindedAt,omitempty"`

	User    *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Salon   *Salon   `gorm:"foreignKey:SalonID" json:"salon,omitempty"`
	Service *Service `gorm:"foreignKey:ServiceID" json:"service,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}

var appointmentTransitions = map[string][]string{
	AppointmentPending: {AppointmentAccepted, AppointmentRejected, AppointmentCancelled},
}

// CanTransition reports whether status may move from the current value to next.
func (a *Appointment) CanTransition(next string) bool {
	return allowed(appointmentTransitions, a.Status, next)
}

// Live appointments hold their slot.
func (a *Appointment) Live() bool {
	return a.Status == AppointmentPending || a.Status == AppointmentAccepted
}

func allowed(table map[string][]string, from, to string) bool {
	for _, s := range table[from] {
		if s == to {
			return true
		}
	}
	return false
}
