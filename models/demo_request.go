package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DemoNew       = "new"
	DemoContacted = "contacted"
	DemoScheduled = "scheduled"
	DemoConverted = "converted"
	DemoRejected  = "rejected"
)

// DemoRequest is a lead left by a professional who wants a product demo.
type DemoRequest struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"index;not null" json:"email"`
	Phone     string    `json:"phone"`
	SalonName string    `gorm:"not null" json:"salonName"`
	City      string    `json:"city"`
	Message   string    `gorm:"type:text" json:"message"`
	Status    string    `gorm:"type:varchar(20);not null;default:'new';index" json:"status"`
	Notes     string    `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (d *DemoRequest) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return
}

var demoTransitions = map[string][]string{
	DemoNew:       {DemoContacted, DemoRejected},
	DemoContacted: {DemoScheduled, DemoRejected},
	DemoScheduled: {DemoConverted, DemoRejected},
}

func (d *DemoRequest) CanTransition(next string) bool {
	return allowed(demoTransitions, d.Status, next)
}
