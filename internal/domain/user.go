package domain

import (
	"context"
	"time"
)

type User struct {
	ID            string    `json:"id"` // Discord 用户 ID
	Username      string    `json:"username"`
	Discriminator string    `json:"discriminator"`
	Avatar        *string   `json:"avatar,omitempty"`
	IsAdmin       bool      `json:"isAdmin"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// UserPatch 部分更新；nil 字段保持不变
type UserPatch struct {
	Username      *string
	Discriminator *string
	Avatar        *string
	IsAdmin       *bool
}

// UnknownUser 悬空引用时的占位
func UnknownUser(id string) User {
	return User{ID: id, Username: "Unknown", Discriminator: "0000"}
}

type UserRepository interface {
	GetUser(ctx context.Context, id string) (*User, error)
	CreateUser(ctx context.Context, u User) (*User, error)
	UpdateUser(ctx context.Context, id string, p UserPatch) (*User, error)
	ListUsers(ctx context.Context, offset, limit int) ([]User, int64, error)
}
