package domain

import (
	"context"
	"time"
)

type OfficeStatus string

const (
	StatusActive  OfficeStatus = "active"
	StatusAway    OfficeStatus = "away"    // 预留
	StatusOffline OfficeStatus = "offline" // 预留
)

func (s OfficeStatus) Valid() bool {
	switch s {
	case StatusActive, StatusAway, StatusOffline:
		return true
	}
	return false
}

type Office struct {
	ID             uint         `json:"id"`
	Name           string       `json:"name"`
	Description    *string      `json:"description,omitempty"`
	IsPrivate      bool         `json:"isPrivate"`
	OwnerID        string       `json:"ownerId"`
	Status         OfficeStatus `json:"status"`
	CreatedAt      time.Time    `json:"createdAt"`
	VoiceChannelID *string      `json:"voiceChannelId"`
}

// NewOffice 插入参数；ID/CreatedAt/Status 由存储层分配
type NewOffice struct {
	Name        string
	Description *string
	IsPrivate   bool
	OwnerID     string
}

// OfficePatch 部分更新；nil 字段保持不变
type OfficePatch struct {
	Name           *string
	Description    *string
	IsPrivate      *bool
	Status         *OfficeStatus
	VoiceChannelID *string
}

type OfficeMembership struct {
	OfficeID uint      `json:"officeId"`
	UserID   string    `json:"userId"`
	IsOwner  bool      `json:"isOwner"`
	JoinedAt time.Time `json:"joinedAt"`
}

// MemberView 成员 + 解析后的用户
type MemberView struct {
	OfficeMembership
	User User `json:"user"`
}

// OfficeView 读时组装，不落库
type OfficeView struct {
	Office
	Owner       User         `json:"owner"`
	Members     []MemberView `json:"members"`
	MemberCount int          `json:"memberCount"`
}

type OfficeRepository interface {
	UserOwnsAnyOffice(ctx context.Context, userID string) (bool, error)
	ListOffices(ctx context.Context) ([]Office, error)
	GetOffice(ctx context.Context, id uint) (*Office, error)
	ListOfficesByOwner(ctx context.Context, userID string) ([]Office, error)
	InsertOffice(ctx context.Context, in NewOffice) (*Office, error)
	UpdateOffice(ctx context.Context, id uint, p OfficePatch) (*Office, error)
	DeleteOffice(ctx context.Context, id uint) error
}

type MembershipRepository interface {
	ListMemberships(ctx context.Context, officeID uint) ([]OfficeMembership, error)
	ListMembershipsByUser(ctx context.Context, userID string) ([]OfficeMembership, error)
	GetMembership(ctx context.Context, officeID uint, userID string) (*OfficeMembership, error)
	InsertMembership(ctx context.Context, officeID uint, userID string, isOwner bool) (*OfficeMembership, error)
	DeleteMembership(ctx context.Context, officeID uint, userID string) error
}

// Store 两种后端（gorm / 内存）语义一致
type Store interface {
	UserRepository
	OfficeRepository
	MembershipRepository
}
