package identity

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/bwmarrin/discordgo"

	"discord-offices/internal/core/cache"
)

// MemberLookup 返回用户在服务器里的角色 ID
type MemberLookup interface {
	MemberRoles(ctx context.Context, guildID, userID string) ([]string, error)
}

type botMembers struct{ s *discordgo.Session }

func BotMembers(s *discordgo.Session) MemberLookup { return botMembers{s: s} }

func (b botMembers) MemberRoles(ctx context.Context, guildID, userID string) ([]string, error) {
	m, err := b.s.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		var rest *discordgo.RESTError
		if errors.As(err, &rest) && rest.Response != nil && rest.Response.StatusCode == http.StatusNotFound {
			// 不在服务器里
			return nil, nil
		}
		return nil, err
	}
	return m.Roles, nil
}

// RoleChecker hasRole(userID, adminRoleID)，结果缓存 ttl
type RoleChecker struct {
	members     MemberLookup
	guildID     string
	adminRoleID string
	cache       *cache.Cache
	ttl         time.Duration
}

func NewRoleChecker(members MemberLookup, guildID, adminRoleID string, c *cache.Cache, ttl time.Duration) *RoleChecker {
	if c == nil {
		c = cache.New(nil, "")
	}
	return &RoleChecker{members: members, guildID: guildID, adminRoleID: adminRoleID, cache: c, ttl: ttl}
}

func (r *RoleChecker) IsAdmin(ctx context.Context, userID string) (bool, error) {
	if r.adminRoleID == "" || r.members == nil {
		return false, nil
	}
	return cache.GetOrLoadJSON(r.cache, ctx, r.key(userID), r.ttl, func(ctx context.Context) (bool, error) {
		roles, err := r.members.MemberRoles(ctx, r.guildID, userID)
		if err != nil {
			return false, err
		}
		return slices.Contains(roles, r.adminRoleID), nil
	})
}

func (r *RoleChecker) Forget(ctx context.Context, userID string) {
	_ = r.cache.Invalidate(ctx, r.key(userID))
}

func (r *RoleChecker) key(userID string) string { return "role:admin:" + userID }
