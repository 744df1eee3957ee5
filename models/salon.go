package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Salon struct {
	ID           uuid.UUID    `gorm:"type:uuid;primary_key" json:"id"`
	OwnerID      uuid.UUID    `gorm:"type:uuid;index;not null" json:"ownerId"`
	Name         string       `gorm:"not null" json:"name"`
	Description  string       `gorm:"type:text" json:"description"`
	Address      string       `json:"address"`
	City         string       `gorm:"index" json:"city"`
	Category     string       `gorm:"index;default:'General'" json:"category"`
	Phone        string       `json:"phone"`
	WorkingHours WorkingHours `gorm:"type:jsonb;default:'{}'" json:"workingHours"`
	IsApproved   bool         `gorm:"default:false;index" json:"isApproved"`
	IsValidated  bool         `gorm:"default:false" json:"isValidated"`

	Services []Service      `gorm:"foreignKey:SalonID" json:"services,omitempty"`
	Gallery  []SalonGallery `gorm:"foreignKey:SalonID" json:"gallery,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (s *Salon) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
