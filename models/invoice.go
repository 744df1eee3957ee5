package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	InvoiceUnpaid = "unpaid"
	InvoicePaid   = "paid"
	InvoiceVoid   = "void"
)

type Invoice struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	AppointmentID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"appointmentId"`
	SalonID       uuid.UUID `gorm:"type:uuid;index;not null" json:"salonId"`
	UserID        uuid.UUID `gorm:"type:uuid;index;not null" json:"userId"`

	InvoiceNumber string     `gorm:"uniqueIndex;not null" json:"invoiceNumber"`
	Amount        float64    `gorm:"type:decimal(10,2);not null" json:"amount"`
	Status        string     `gorm:"type:varchar(20);not null;default:'unpaid';index" json:"status"`
	PaidAt        *time.Time `json:"paidAt,omitempty"`

	Appointment *Appointment `gorm:"foreignKey:AppointmentID" json:"appointment,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}

var invoiceTransitions = map[string][]string{
	InvoiceUnpaid: {InvoicePaid, InvoiceVoid},
}

func (i *Invoice) CanTransition(next string) bool {
	return allowed(invoiceTransitions, i.Status, next)
}
