package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"discord-offices/internal/domain"
	"discord-offices/internal/feature/user"
)

func (s *GormStore) GetUser(ctx context.Context, id string) (*domain.User, error) {
	var m user.UserModel
	err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, mapErr(err, domain.ErrUserNotFound, "get user")
	}
	u := m.ToDomain()
	return &u, nil
}

func (s *GormStore) CreateUser(ctx context.Context, u domain.User) (*domain.User, error) {
	m := user.FromDomain(u)
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, mapErr(err, domain.ErrUserNotFound, "create user")
	}
	out := m.ToDomain()
	return &out, nil
}

func (s *GormStore) UpdateUser(ctx context.Context, id string, p domain.UserPatch) (*domain.User, error) {
	var m user.UserModel
	if err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, mapErr(err, domain.ErrUserNotFound, "update user")
	}

	cols := map[string]any{}
	if p.Username != nil {
		cols["username"] = *p.Username
	}
	if p.Discriminator != nil {
		cols["discriminator"] = *p.Discriminator
	}
	if p.Avatar != nil {
		cols["avatar"] = *p.Avatar
	}
	if p.IsAdmin != nil {
		cols["is_admin"] = *p.IsAdmin
	}
	if len(cols) > 0 {
		if err := s.db.WithContext(ctx).Model(&m).Updates(cols).Error; err != nil {
			return nil, mapErr(err, domain.ErrUserNotFound, "update user")
		}
	}
	if err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, mapErr(err, domain.ErrUserNotFound, "reload user")
	}
	u := m.ToDomain()
	return &u, nil
}

func (s *GormStore) ListUsers(ctx context.Context, offset, limit int) ([]domain.User, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&user.UserModel{}).Count(&total).Error; err != nil {
		return nil, 0, mapErr(err, domain.ErrUserNotFound, "count users")
	}
	var ms []user.UserModel
	if err := s.db.WithContext(ctx).Offset(offset).Limit(limit).Order("created_at desc").Find(&ms).Error; err != nil {
		return nil, 0, mapErr(err, domain.ErrUserNotFound, "list users")
	}
	out := make([]domain.User, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.ToDomain())
	}
	return out, total, nil
}
