package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleClient       = "client"
	RoleProfessional = "professional"
	RoleEmployee     = "employee"
	RoleAdmin        = "admin"
)

const (
	StaffRoleEmployee = "employee"
	StaffRoleManager  = "manager"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Email    string    `gorm:"uniqueIndex;not null" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	Name     string    `gorm:"not null" json:"name"`
	Phone    string    `json:"phone"`

	Role      string     `gorm:"type:varchar(20);not null;default:'client'" json:"role"`
	SalonID   *uuid.UUID `gorm:"type:uuid;index" json:"salonId,omitempty"`
	StaffRole string     `gorm:"type:varchar(20)" json:"staffRole,omitempty"`

	LastLogin *time.Time `json:"lastLogin,omitempty"`
	IsActive  bool       `gorm:"default:true" json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Initialize UUID before creating
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return
}

// IsStaffOf reports whether the user works at (or owns) the given salon.
func (u *User) IsStaffOf(s *Salon) bool {
	if u.Role == RoleAdmin || s.OwnerID == u.ID {
		return true
	}
	return u.SalonID != nil && *u.SalonID == s.ID
}

// CanManage reports whether the user may edit the salon's catalogue and gallery.
func (u *User) CanManage(s *Salon) bool {
	if u.Role == RoleAdmin || s.OwnerID == u.ID {
		return true
	}
	return u.SalonID != nil && *u.SalonID == s.ID && u.StaffRole == StaffRoleManager
}

// Owns is true for the salon owner and for admins.
func (u *User) Owns(s *Salon) bool {
	return u.Role == RoleAdmin || s.OwnerID == u.ID
}
