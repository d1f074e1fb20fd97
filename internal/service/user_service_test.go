package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"discord-offices/internal/domain"
	"discord-offices/internal/repo"
)

func TestSyncFromIdentity(t *testing.T) {
	ctx := context.Background()
	store := repo.NewMemoryStore()
	roles := &fakeRoles{admins: map[string]bool{"U1": true}}
	svc := NewUserService(store, roles, nil)

	avatar := "abc"
	u, err := svc.SyncFromIdentity(ctx, Profile{ID: "U1", Username: "alice", Discriminator: "0", Avatar: &avatar})
	require.NoError(t, err)
	assert.True(t, u.IsAdmin)
	assert.Equal(t, "alice", u.Username)

	// 再次登录：资料刷新，头像缺省时保留旧值
	roles.admins["U1"] = false
	u, err = svc.SyncFromIdentity(ctx, Profile{ID: "U1", Username: "alice2", Discriminator: "0"})
	require.NoError(t, err)
	assert.False(t, u.IsAdmin)
	assert.Equal(t, "alice2", u.Username)
	require.NotNil(t, u.Avatar)
	assert.Equal(t, "abc", *u.Avatar)

	_, total, err := svc.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestSyncFromIdentity_RoleCheckFailure(t *testing.T) {
	ctx := context.Background()
	store := repo.NewMemoryStore()
	svc := NewUserService(store, &fakeRoles{err: errors.New("discord down")}, nil)

	u, err := svc.SyncFromIdentity(ctx, Profile{ID: "U1", Username: "alice"})
	require.NoError(t, err)
	assert.False(t, u.IsAdmin)
}

func TestSyncFromIdentity_KeepsStoredAdmin(t *testing.T) {
	cases := []struct {
		name  string
		roles RoleChecker
	}{
		{"no role checker", nil},
		{"role check error", &fakeRoles{err: errors.New("discord down")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			store := repo.NewMemoryStore()
			_, err := store.CreateUser(ctx, domain.User{ID: "U1", Username: "alice", IsAdmin: true})
			require.NoError(t, err)

			svc := NewUserService(store, tc.roles, nil)
			u, err := svc.SyncFromIdentity(ctx, Profile{ID: "U1", Username: "alice2"})
			require.NoError(t, err)
			assert.True(t, u.IsAdmin)
			assert.Equal(t, "alice2", u.Username)

			stored, err := store.GetUser(ctx, "U1")
			require.NoError(t, err)
			assert.True(t, stored.IsAdmin)
		})
	}
}

func TestRefreshAdmin(t *testing.T) {
	ctx := context.Background()
	store := repo.NewMemoryStore()
	roles := &fakeRoles{admins: map[string]bool{}}
	svc := NewUserService(store, roles, nil)
	_, err := svc.SyncFromIdentity(ctx, Profile{ID: "U1", Username: "alice"})
	require.NoError(t, err)

	roles.admins["U1"] = true
	u, err := svc.RefreshAdmin(ctx, "U1", true)
	require.NoError(t, err)
	assert.True(t, u.IsAdmin)
	assert.Equal(t, []string{"U1"}, roles.forgotten)

	stored, err := store.GetUser(ctx, "U1")
	require.NoError(t, err)
	assert.True(t, stored.IsAdmin)

	// 查询失败时沿用库里的标记
	roles.err = errors.New("timeout")
	u, err = svc.RefreshAdmin(ctx, "U1", false)
	require.NoError(t, err)
	assert.True(t, u.IsAdmin)

	_, err = svc.RefreshAdmin(ctx, "ghost", false)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestRefreshAdmin_NoRoleChecker(t *testing.T) {
	ctx := context.Background()
	store := repo.NewMemoryStore()
	_, err := store.CreateUser(ctx, domain.User{ID: "U1", Username: "alice", IsAdmin: true})
	require.NoError(t, err)

	u, err := NewUserService(store, nil, nil).RefreshAdmin(ctx, "U1", true)
	require.NoError(t, err)
	assert.True(t, u.IsAdmin)
}
