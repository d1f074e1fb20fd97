// Package session 会话 ID ↔ 已登录用户
package session

import (
	"bytes"
	"context"
	"encoding/gob"
	"time"

	"github.com/google/uuid"
)

type Session struct {
	UserID    string
	CreatedAt time.Time
}

type Store interface {
	Create(ctx context.Context, s Session) (string, error)
	// Get 不存在或已过期时返回 (nil, nil)
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

func newID() string { return uuid.NewString() }

func encode(s Session) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decode(b []byte) (*Session, error) {
	var s Session
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&s); err != nil {
		return nil, err
	}
	return &s, nil
}
