package user

import (
	"time"

	"discord-offices/internal/domain"
)

type UserModel struct {
	ID            string  `gorm:"primaryKey;type:varchar(32)"`
	Username      string  `gorm:"size:64;not null"`
	Discriminator string  `gorm:"size:8;not null"`
	Avatar        *string `gorm:"size:64"`
	IsAdmin       bool    `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (UserModel) TableName() string { return "users" }

func (m UserModel) ToDomain() domain.User {
	return domain.User{
		ID:            m.ID,
		Username:      m.Username,
		Discriminator: m.Discriminator,
		Avatar:        m.Avatar,
		IsAdmin:       m.IsAdmin,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func FromDomain(u domain.User) UserModel {
	return UserModel{
		ID:            u.ID,
		Username:      u.Username,
		Discriminator: u.Discriminator,
		Avatar:        u.Avatar,
		IsAdmin:       u.IsAdmin,
	}
}
