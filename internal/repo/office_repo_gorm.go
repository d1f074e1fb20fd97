package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"discord-offices/internal/domain"
	"discord-offices/internal/feature/office"
)

func (s *GormStore) UserOwnsAnyOffice(ctx context.Context, userID string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&office.OfficeModel{}).Where("owner_id = ?", userID).Count(&n).Error
	if err != nil {
		return false, mapErr(err, domain.ErrOfficeNotFound, "count owned offices")
	}
	return n > 0, nil
}

func (s *GormStore) ListOffices(ctx context.Context) ([]domain.Office, error) {
	var ms []office.OfficeModel
	if err := s.db.WithContext(ctx).Order("id asc").Find(&ms).Error; err != nil {
		return nil, mapErr(err, domain.ErrOfficeNotFound, "list offices")
	}
	return toOffices(ms), nil
}

func (s *GormStore) GetOffice(ctx context.Context, id uint) (*domain.Office, error) {
	var m office.OfficeModel
	err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, mapErr(err, domain.ErrOfficeNotFound, "get office")
	}
	o := m.ToDomain()
	return &o, nil
}

func (s *GormStore) ListOfficesByOwner(ctx context.Context, userID string) ([]domain.Office, error) {
	var ms []office.OfficeModel
	if err := s.db.WithContext(ctx).Where("owner_id = ?", userID).Order("id asc").Find(&ms).Error; err != nil {
		return nil, mapErr(err, domain.ErrOfficeNotFound, "list offices by owner")
	}
	return toOffices(ms), nil
}

func (s *GormStore) InsertOffice(ctx context.Context, in domain.NewOffice) (*domain.Office, error) {
	m := office.OfficeModel{
		Name:        in.Name,
		Description: in.Description,
		IsPrivate:   in.IsPrivate,
		OwnerID:     in.OwnerID,
		Status:      string(domain.StatusActive),
	}
	// owner 不存在时由外键拒绝
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&m).Error; err != nil {
		return nil, mapErr(err, domain.ErrUserNotFound, "insert office")
	}
	o := m.ToDomain()
	return &o, nil
}

func (s *GormStore) UpdateOffice(ctx context.Context, id uint, p domain.OfficePatch) (*domain.Office, error) {
	var m office.OfficeModel
	if err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, mapErr(err, domain.ErrOfficeNotFound, "update office")
	}

	cols := map[string]any{}
	if p.Name != nil {
		cols["name"] = *p.Name
	}
	if p.Description != nil {
		cols["description"] = *p.Description
	}
	if p.IsPrivate != nil {
		cols["is_private"] = *p.IsPrivate
	}
	if p.Status != nil {
		cols["status"] = string(*p.Status)
	}
	if p.VoiceChannelID != nil {
		cols["voice_channel_id"] = *p.VoiceChannelID
	}
	if len(cols) > 0 {
		if err := s.db.WithContext(ctx).Model(&m).Omit(clause.Associations).Updates(cols).Error; err != nil {
			return nil, mapErr(err, domain.ErrOfficeNotFound, "update office")
		}
	}
	if err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, mapErr(err, domain.ErrOfficeNotFound, "reload office")
	}
	o := m.ToDomain()
	return &o, nil
}

func (s *GormStore) DeleteOffice(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&office.OfficeModel{})
	if res.Error != nil {
		return mapErr(res.Error, domain.ErrOfficeNotFound, "delete office")
	}
	if res.RowsAffected == 0 {
		return domain.ErrOfficeNotFound
	}
	return nil
}

func toOffices(ms []office.OfficeModel) []domain.Office {
	out := make([]domain.Office, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.ToDomain())
	}
	return out
}
