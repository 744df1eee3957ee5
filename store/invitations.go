package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"salonbook-backend/models"
)

// CreateInvitation stores inv unless the salon already has a usable invitation
// for the same email.
func (s *Store) CreateInvitation(ctx context.Context, inv *models.Invitation, now time.Time) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var open int64
		err := tx.Model(&models.Invitation{}).
			Where("salon_id = ? AND email = ? AND status = ? AND expires_at > ?", inv.SalonID, inv.Email, models.InvitationPending, now).
			Count(&open).Error
		if err != nil {
			return wrap("count open invitations", err)
		}
		if open > 0 {
			return fmt.Errorf("invitation for %s: %w", inv.Email, ErrConflict)
		}
		return wrap("create invitation", tx.Create(inv).Error)
	})
}

func (s *Store) GetInvitationByToken(ctx context.Context, token string) (*models.Invitation, error) {
	var inv models.Invitation
	if err := s.db.WithContext(ctx).Preload("Salon").Where("token = ?", token).First(&inv).Error; err != nil {
		return nil, wrap("get invitation", err)
	}
	return &inv, nil
}

func (s *Store) GetInvitation(ctx context.Context, salonID, id uuid.UUID) (*models.Invitation, error) {
	var inv models.Invitation
	if err := s.db.WithContext(ctx).Where("salon_id = ? AND id = ?", salonID, id).First(&inv).Error; err != nil {
		return nil, wrap("get invitation", err)
	}
	return &inv, nil
}

func (s *Store) ListInvitations(ctx context.Context, salonID uuid.UUID) ([]models.Invitation, error) {
	var invs []models.Invitation
	err := s.db.WithContext(ctx).Where("salon_id = ?", salonID).Order("created_at DESC").Find(&invs).Error
	if err != nil {
		return nil, wrap("list invitations", err)
	}
	return invs, nil
}

// SetInvitationStatus moves a pending invitation to status.
func (s *Store) SetInvitationStatus(ctx context.Context, id uuid.UUID, status string) error {
	return transition(s.db.WithContext(ctx), &models.Invitation{}, id, models.InvitationPending,
		map[string]interface{}{"status": status})
}

// AcceptInvitation attaches user to the invitation's salon and closes the
// invitation. create selects between inserting a new user and updating an
// existing one.
func (s *Store) AcceptInvitation(ctx context.Context, inv *models.Invitation, user *models.User, create bool, now time.Time) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := transition(tx, &models.Invitation{}, inv.ID, models.InvitationPending,
			map[string]interface{}{"status": models.InvitationAccepted, "accepted_at": now})
		if err != nil {
			return fmt.Errorf("invitation %s: %w", inv.ID, err)
		}
		if create {
			return wrap("create invited user", tx.Create(user).Error)
		}
		return wrap("attach invited user", tx.Save(user).Error)
	})
}

// ExpireInvitations marks every pending invitation past its deadline as expired.
func (s *Store) ExpireInvitations(ctx context.Context, now time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.Invitation{}).
		Where("status = ? AND expires_at <= ?", models.InvitationPending, now).
		Update("status", models.InvitationExpired)
	if res.Error != nil {
		return 0, wrap("expire invitations", res.Error)
	}
	return res.RowsAffected, nil
}
