package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const MaxGalleryImages = 10

type SalonGallery struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SalonID    uuid.UUID `gorm:"type:uuid;index;not null" json:"salonId"`
	ImageURL   string    `gorm:"not null" json:"imageUrl"`
	StorageKey string    `gorm:"not null" json:"-"`
	Caption    string    `json:"caption"`
	IsPrimary  bool      `gorm:"default:false" json:"isPrimary"`
	Order      int       `gorm:"column:sort_order;default:0" json:"order"`

	CreatedAt time.Time `json:"createdAt"`
}

func (SalonGallery) TableName() string {
	return "salon_gallery"
}

func (g *SalonGallery) BeforeCreate(tx *gorm.DB) (err error) {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return
}
