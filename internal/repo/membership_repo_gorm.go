package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"discord-offices/internal/domain"
	"discord-offices/internal/feature/office"
)

func (s *GormStore) ListMemberships(ctx context.Context, officeID uint) ([]domain.OfficeMembership, error) {
	var ms []office.MembershipModel
	err := s.db.WithContext(ctx).Where("office_id = ?", officeID).Order("joined_at asc, user_id asc").Find(&ms).Error
	if err != nil {
		return nil, mapErr(err, domain.ErrMemberNotFound, "list memberships")
	}
	return toMemberships(ms), nil
}

func (s *GormStore) ListMembershipsByUser(ctx context.Context, userID string) ([]domain.OfficeMembership, error) {
	var ms []office.MembershipModel
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("joined_at asc, office_id asc").Find(&ms).Error
	if err != nil {
		return nil, mapErr(err, domain.ErrMemberNotFound, "list memberships by user")
	}
	return toMemberships(ms), nil
}

func (s *GormStore) GetMembership(ctx context.Context, officeID uint, userID string) (*domain.OfficeMembership, error) {
	var m office.MembershipModel
	err := s.db.WithContext(ctx).First(&m, "office_id = ? AND user_id = ?", officeID, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, mapErr(err, domain.ErrMemberNotFound, "get membership")
	}
	om := m.ToDomain()
	return &om, nil
}

func (s *GormStore) InsertMembership(ctx context.Context, officeID uint, userID string, isOwner bool) (*domain.OfficeMembership, error) {
	m := office.MembershipModel{OfficeID: officeID, UserID: userID, IsOwner: isOwner}
	err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&m).Error
	if err != nil {
		err = mapErr(err, domain.ErrNotFound, "insert membership")
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.ErrDuplicateMember
		}
		return nil, err
	}
	om := m.ToDomain()
	return &om, nil
}

func (s *GormStore) DeleteMembership(ctx context.Context, officeID uint, userID string) error {
	res := s.db.WithContext(ctx).Where("office_id = ? AND user_id = ?", officeID, userID).Delete(&office.MembershipModel{})
	if res.Error != nil {
		return mapErr(res.Error, domain.ErrMemberNotFound, "delete membership")
	}
	if res.RowsAffected == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

func toMemberships(ms []office.MembershipModel) []domain.OfficeMembership {
	out := make([]domain.OfficeMembership, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.ToDomain())
	}
	return out
}
