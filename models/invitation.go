package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
	InvitationRevoked  = "revoked"
	InvitationExpired  = "expired"
)

// Invitation lets someone join a salon's staff until ExpiresAt.
type Invitation struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SalonID     uuid.UUID `gorm:"type:uuid;index;not null" json:"salonId"`
	InvitedByID uuid.UUID `gorm:"type:uuid;not null" json:"invitedById"`
	Email       string    `gorm:"index;not null" json:"email"`
	Role        string    `gorm:"type:varchar(20);not null" json:"role"`
	Token       string    `gorm:"uniqueIndex;not null" json:"-"`
	ExpiresAt   time.Time `gorm:"not null" json:"expiresAt"`
	Status      string    `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`

	AcceptedAt *time.Time `json:"acceptedAt,omitempty"`

	Salon *Salon `gorm:"foreignKey:SalonID" json:"salon,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (i *Invitation) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}

// Expired reports whether the invitation's deadline has passed at now.
func (i *Invitation) Expired(now time.Time) bool {
	return !now.Before(i.ExpiresAt)
}

// Usable is true for pending invitations that have not expired.
func (i *Invitation) Usable(now time.Time) bool {
	return i.Status == InvitationPending && !i.Expired(now)
}
