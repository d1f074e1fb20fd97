package service

import (
	"context"

	"go.uber.org/zap"

	"discord-offices/internal/domain"
)

// Profile 身份提供方返回的用户资料
type Profile struct {
	ID            string
	Username      string
	Discriminator string
	Avatar        *string
}

// RoleChecker 外部角色查询（是否持有管理员角色）
type RoleChecker interface {
	IsAdmin(ctx context.Context, userID string) (bool, error)
	Forget(ctx context.Context, userID string)
}

type UserService struct {
	users domain.UserRepository
	roles RoleChecker
	log   *zap.Logger
}

func NewUserService(users domain.UserRepository, roles RoleChecker, l *zap.Logger) *UserService {
	if l == nil {
		l = zap.NewNop()
	}
	return &UserService{users: users, roles: roles, log: l.Named("user")}
}

// SyncFromIdentity 登录时 upsert：首次创建，之后刷新资料和管理员标记
func (s *UserService) SyncFromIdentity(ctx context.Context, p Profile) (*domain.User, error) {
	existing, err := s.users.GetUser(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		u, err := s.users.CreateUser(ctx, domain.User{
			ID:            p.ID,
			Username:      p.Username,
			Discriminator: p.Discriminator,
			Avatar:        p.Avatar,
			IsAdmin:       s.checkAdmin(ctx, p.ID, false),
		})
		if err != nil {
			return nil, err
		}
		s.log.Info("user created", zap.String("user_id", u.ID), zap.Bool("admin", u.IsAdmin))
		return u, nil
	}
	if p.Avatar == nil {
		p.Avatar = existing.Avatar
	}
	patch := domain.UserPatch{
		Username:      &p.Username,
		Discriminator: &p.Discriminator,
		Avatar:        p.Avatar,
	}
	// 没有角色来源时不动库里的标记
	if s.roles != nil {
		isAdmin := s.checkAdmin(ctx, p.ID, existing.IsAdmin)
		patch.IsAdmin = &isAdmin
	}
	return s.users.UpdateUser(ctx, p.ID, patch)
}

// RefreshAdmin 受保护接口触发的重新检查；fresh 为 true 时跳过角色缓存
func (s *UserService) RefreshAdmin(ctx context.Context, userID string, fresh bool) (*domain.User, error) {
	u, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	if fresh && s.roles != nil {
		s.roles.Forget(ctx, userID)
	}
	isAdmin := s.checkAdmin(ctx, userID, u.IsAdmin)
	if isAdmin == u.IsAdmin {
		return u, nil
	}
	s.log.Info("admin flag changed", zap.String("user_id", userID), zap.Bool("admin", isAdmin))
	return s.users.UpdateUser(ctx, userID, domain.UserPatch{IsAdmin: &isAdmin})
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.users.GetUser(ctx, id)
}

func (s *UserService) List(ctx context.Context, offset, limit int) ([]domain.User, int64, error) {
	return s.users.ListUsers(ctx, offset, limit)
}

// checkAdmin 查询失败时沿用 fallback（本地缓存的标记）
func (s *UserService) checkAdmin(ctx context.Context, userID string, fallback bool) bool {
	if s.roles == nil {
		return fallback
	}
	ok, err := s.roles.IsAdmin(ctx, userID)
	if err != nil {
		s.log.Warn("admin role check failed", zap.String("user_id", userID), zap.Error(err))
		return fallback
	}
	return ok
}
