package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"salonbook-backend/models"
)

var (
	ErrGalleryFull  = errors.New("gallery is full")
	ErrInvalidOrder = errors.New("image ids do not match the gallery")
)

func (s *Store) ListGallery(ctx context.Context, salonID uuid.UUID) ([]models.SalonGallery, error) {
	var images []models.SalonGallery
	err := s.db.WithContext(ctx).Where("salon_id = ?", salonID).Order("sort_order ASC").Find(&images).Error
	if err != nil {
		return nil, wrap("list gallery", err)
	}
	return images, nil
}

func (s *Store) CountGallery(ctx context.Context, salonID uuid.UUID) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.SalonGallery{}).Where("salon_id = ?", salonID).Count(&n).Error; err != nil {
		return 0, wrap("count gallery", err)
	}
	return n, nil
}

// AddGalleryImage appends img to the salon's gallery. The first image becomes primary.
func (s *Store) AddGalleryImage(ctx context.Context, img *models.SalonGallery) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.SalonGallery{}).Where("salon_id = ?", img.SalonID).Count(&n).Error; err != nil {
			return wrap("count gallery", err)
		}
		if n >= models.MaxGalleryImages {
			return fmt.Errorf("salon %s has %d images: %w", img.SalonID, n, ErrGalleryFull)
		}
		img.IsPrimary = n == 0
		img.Order = int(n)
		return wrap("add gallery image", tx.Create(img).Error)
	})
}

func (s *Store) GetGalleryImage(ctx context.Context, salonID, id uuid.UUID) (*models.SalonGallery, error) {
	var img models.SalonGallery
	if err := s.db.WithContext(ctx).Where("salon_id = ? AND id = ?", salonID, id).First(&img).Error; err != nil {
		return nil, wrap("get gallery image", err)
	}
	return &img, nil
}

func (s *Store) SetPrimaryImage(ctx context.Context, salonID, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.SalonGallery{}).Where("salon_id = ? AND id <> ?", salonID, id).
			Update("is_primary", false).Error; err != nil {
			return wrap("clear primary image", err)
		}
		return mustAffect("set primary image", tx.Model(&models.SalonGallery{}).
			Where("salon_id = ? AND id = ?", salonID, id).Update("is_primary", true))
	})
}

// ReorderGallery assigns positions following ids, which must name every image of
// the salon exactly once.
func (s *Store) ReorderGallery(ctx context.Context, salonID uuid.UUID, ids []uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []uuid.UUID
		if err := tx.Model(&models.SalonGallery{}).Where("salon_id = ?", salonID).Pluck("id", &existing).Error; err != nil {
			return wrap("list gallery ids", err)
		}
		if !sameIDs(existing, ids) {
			return ErrInvalidOrder
		}
		for i, id := range ids {
			if err := tx.Model(&models.SalonGallery{}).Where("id = ?", id).Update("sort_order", i).Error; err != nil {
				return wrap("reorder gallery", err)
			}
		}
		return nil
	})
}

// DeleteGalleryImage removes the image and returns it so the caller can drop the
// stored object. Removing the primary image promotes the next one by order.
func (s *Store) DeleteGalleryImage(ctx context.Context, salonID, id uuid.UUID) (*models.SalonGallery, error) {
	var img models.SalonGallery
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("salon_id = ? AND id = ?", salonID, id).First(&img).Error; err != nil {
			return wrap("get gallery image", err)
		}
		if err := tx.Delete(&models.SalonGallery{}, "id = ?", id).Error; err != nil {
			return wrap("delete gallery image", err)
		}
		if !img.IsPrimary {
			return nil
		}
		var next models.SalonGallery
		err := tx.Where("salon_id = ?", salonID).Order("sort_order ASC").First(&next).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return wrap("find next primary", err)
		}
		return wrap("promote primary image", tx.Model(&next).Update("is_primary", true).Error)
	})
	if err != nil {
		return nil, err
	}
	return &img, nil
}

func sameIDs(a, b []uuid.UUID) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[uuid.UUID]bool, len(a))
	for _, id := range a {
		seen[id] = true
	}
	for _, id := range b {
		if !seen[id] {
			return false
		}
		delete(seen, id)
	}
	return true
}
