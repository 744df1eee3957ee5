package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"salonbook-backend/models"
)

type UserFilter struct {
	Role string
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	return wrap("create user", s.db.WithContext(ctx).Create(u).Error)
}

func (s *Store) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, wrap("get user", err)
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, wrap("get user by email", err)
	}
	return &u, nil
}

func (s *Store) UpdateUser(ctx context.Context, u *models.User) error {
	return wrap("update user", s.db.WithContext(ctx).Save(u).Error)
}

func (s *Store) ListUsers(ctx context.Context, f UserFilter) ([]models.User, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC")
	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}
	var users []models.User
	if err := q.Find(&users).Error; err != nil {
		return nil, wrap("list users", err)
	}
	return users, nil
}

func (s *Store) RecordLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return wrap("record login", s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).Update("last_login", at).Error)
}
