package office

import (
	"time"

	"discord-offices/internal/domain"
	"discord-offices/internal/feature/user"
)

type OfficeModel struct {
	ID             uint    `gorm:"primaryKey;autoIncrement"`
	Name           string  `gorm:"size:100;not null"`
	Description    *string `gorm:"type:text"`
	IsPrivate      bool    `gorm:"not null"`
	OwnerID        string  `gorm:"type:varchar(32);not null;index"`
	Status         string  `gorm:"size:16;not null;default:active"`
	VoiceChannelID *string `gorm:"type:varchar(32)"`

	CreatedAt time.Time `gorm:"autoCreateTime"`

	Owner user.UserModel `gorm:"foreignKey:OwnerID;references:ID;constraint:OnDelete:RESTRICT"`
}

func (OfficeModel) TableName() string { return "offices" }

func (m OfficeModel) ToDomain() domain.Office {
	return domain.Office{
		ID:             m.ID,
		Name:           m.Name,
		Description:    m.Description,
		IsPrivate:      m.IsPrivate,
		OwnerID:        m.OwnerID,
		Status:         domain.OfficeStatus(m.Status),
		CreatedAt:      m.CreatedAt,
		VoiceChannelID: m.VoiceChannelID,
	}
}

// MembershipModel 复合主键 (office_id, user_id)
type MembershipModel struct {
	OfficeID uint      `gorm:"primaryKey;autoIncrement:false"`
	UserID   string    `gorm:"primaryKey;type:varchar(32);index"`
	IsOwner  bool      `gorm:"not null;default:false"`
	JoinedAt time.Time `gorm:"autoCreateTime"`

	Office OfficeModel    `gorm:"foreignKey:OfficeID;references:ID;constraint:OnDelete:CASCADE"`
	User   user.UserModel `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

func (MembershipModel) TableName() string { return "office_members" }

func (m MembershipModel) ToDomain() domain.OfficeMembership {
	return domain.OfficeMembership{
		OfficeID: m.OfficeID,
		UserID:   m.UserID,
		IsOwner:  m.IsOwner,
		JoinedAt: m.JoinedAt,
	}
}

// Models AutoMigrate 顺序
func Models() []any {
	return []any{&user.UserModel{}, &OfficeModel{}, &MembershipModel{}}
}
