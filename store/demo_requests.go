package store

import (
	"context"

	"github.com/google/uuid"

	"salonbook-backend/models"
)

func (s *Store) CreateDemoRequest(ctx context.Context, d *models.DemoRequest) error {
	return wrap("create demo request", s.db.WithContext(ctx).Create(d).Error)
}

func (s *Store) ListDemoRequests(ctx context.Context, status string) ([]models.DemoRequest, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var out []models.DemoRequest
	if err := q.Find(&out).Error; err != nil {
		return nil, wrap("list demo requests", err)
	}
	return out, nil
}

func (s *Store) GetDemoRequest(ctx context.Context, id uuid.UUID) (*models.DemoRequest, error) {
	var d models.DemoRequest
	if err := s.db.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		return nil, wrap("get demo request", err)
	}
	return &d, nil
}

func (s *Store) UpdateDemoRequest(ctx context.Context, d *models.DemoRequest) error {
	return wrap("update demo request", s.db.WithContext(ctx).Save(d).Error)
}
