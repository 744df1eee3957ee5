package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"salonbook-backend/models"
)

type SalonFilter struct {
	Category string
	City     string
	Query    string
	OwnerID  *uuid.UUID
	Approved *bool
}

func (s *Store) CreateSalon(ctx context.Context, salon *models.Salon) error {
	return wrap("create salon", s.db.WithContext(ctx).Omit(clause.Associations).Create(salon).Error)
}

func (s *Store) GetSalon(ctx context.Context, id uuid.UUID) (*models.Salon, error) {
	var salon models.Salon
	if err := s.db.WithContext(ctx).First(&salon, "id = ?", id).Error; err != nil {
		return nil, wrap("get salon", err)
	}
	return &salon, nil
}

// GetSalonDetail loads the salon with its active services and ordered gallery.
func (s *Store) GetSalonDetail(ctx context.Context, id uuid.UUID) (*models.Salon, error) {
	var salon models.Salon
	err := s.db.WithContext(ctx).
		Preload("Services", "is_active = ?", true, func(db *gorm.DB) *gorm.DB {
			return db.Order("name ASC")
		}).
		Preload("Gallery", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		First(&salon, "id = ?", id).Error
	if err != nil {
		return nil, wrap("get salon detail", err)
	}
	return &salon, nil
}

func (s *Store) UpdateSalon(ctx context.Context, salon *models.Salon) error {
	return wrap("update salon", s.db.WithContext(ctx).Omit(clause.Associations).Save(salon).Error)
}

// DeleteSalon removes a salon that has never been booked, together with its
// services, gallery rows and invitations, and detaches its employees.
func (s *Store) DeleteSalon(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var booked int64
		if err := tx.Model(&models.Appointment{}).Where("salon_id = ?", id).Count(&booked).Error; err != nil {
			return wrap("count salon appointments", err)
		}
		if booked > 0 {
			return fmt.Errorf("delete salon with %d appointments: %w", booked, ErrConflict)
		}
		for _, m := range []interface{}{&models.Service{}, &models.SalonGallery{}, &models.Invitation{}} {
			if err := tx.Where("salon_id = ?", id).Delete(m).Error; err != nil {
				return wrap("delete salon children", err)
			}
		}
		if err := tx.Model(&models.User{}).Where("salon_id = ?", id).
			Updates(map[string]interface{}{"salon_id": nil, "staff_role": "", "role": models.RoleClient}).Error; err != nil {
			return wrap("detach salon staff", err)
		}
		return mustAffect("delete salon", tx.Delete(&models.Salon{}, "id = ?", id))
	})
}

func (s *Store) ListSalons(ctx context.Context, f SalonFilter) ([]models.Salon, error) {
	q := s.db.WithContext(ctx).Order("name ASC")
	if f.Category != "" {
		q = q.Where("LOWER(category) = ?", strings.ToLower(f.Category))
	}
	if f.City != "" {
		q = q.Where("city ILIKE ?", "%"+f.City+"%")
	}
	if f.Query != "" {
		q = q.Where("name ILIKE ?", "%"+f.Query+"%")
	}
	if f.OwnerID != nil {
		q = q.Where("owner_id = ?", *f.OwnerID)
	}
	if f.Approved != nil {
		q = q.Where("is_approved = ?", *f.Approved)
	}
	var salons []models.Salon
	if err := q.Find(&salons).Error; err != nil {
		return nil, wrap("list salons", err)
	}
	return salons, nil
}

func (s *Store) CreateService(ctx context.Context, svc *models.Service) error {
	return wrap("create service", s.db.WithContext(ctx).Create(svc).Error)
}

func (s *Store) GetService(ctx context.Context, salonID, id uuid.UUID) (*models.Service, error) {
	var svc models.Service
	if err := s.db.WithContext(ctx).Where("salon_id = ? AND id = ?", salonID, id).First(&svc).Error; err != nil {
		return nil, wrap("get service", err)
	}
	return &svc, nil
}

func (s *Store) UpdateService(ctx context.Context, svc *models.Service) error {
	return wrap("update service", s.db.WithContext(ctx).Save(svc).Error)
}

// DeleteService deactivates services that were already booked and removes the others.
func (s *Store) DeleteService(ctx context.Context, salonID, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var booked int64
		if err := tx.Model(&models.Appointment{}).Where("service_id = ?", id).Count(&booked).Error; err != nil {
			return wrap("count service appointments", err)
		}
		if booked > 0 {
			return mustAffect("deactivate service", tx.Model(&models.Service{}).
				Where("salon_id = ? AND id = ?", salonID, id).Update("is_active", false))
		}
		return mustAffect("delete service", tx.Where("salon_id = ? AND id = ?", salonID, id).Delete(&models.Service{}))
	})
}

func (s *Store) ListServices(ctx context.Context, salonID uuid.UUID, activeOnly bool) ([]models.Service, error) {
	q := s.db.WithContext(ctx).Where("salon_id = ?", salonID).Order("name ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var services []models.Service
	if err := q.Find(&services).Error; err != nil {
		return nil, wrap("list services", err)
	}
	return services, nil
}
