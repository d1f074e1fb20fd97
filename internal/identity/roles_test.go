package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"discord-offices/internal/core/cache"
)

type stubMembers struct {
	roles map[string][]string
	err   error
	calls int
}

func (s *stubMembers) MemberRoles(_ context.Context, _, userID string) ([]string, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.roles[userID], nil
}

func TestRoleChecker(t *testing.T) {
	ctx := context.Background()
	members := &stubMembers{roles: map[string][]string{"U1": {"r-mod", "r-admin"}, "U2": {"r-mod"}}}
	rc := NewRoleChecker(members, "g1", "r-admin", cache.New(nil, "test:"), time.Minute)

	ok, err := rc.IsAdmin(ctx, "U1")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = rc.IsAdmin(ctx, "U2")
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = rc.IsAdmin(ctx, "U3")
	require.NoError(t, err)
	assert.False(t, ok, "not in guild")

	_, _ = rc.IsAdmin(ctx, "U1")
	assert.Equal(t, 3, members.calls, "cached")

	members.roles["U1"] = nil
	rc.Forget(ctx, "U1")
	ok, err = rc.IsAdmin(ctx, "U1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 4, members.calls)
}

func TestRoleChecker_Errors(t *testing.T) {
	ctx := context.Background()
	members := &stubMembers{err: errors.New("discord down")}
	rc := NewRoleChecker(members, "g1", "r-admin", nil, time.Minute)

	_, err := rc.IsAdmin(ctx, "U1")
	assert.Error(t, err)

	noRole := NewRoleChecker(members, "g1", "", nil, time.Minute)
	ok, err := noRole.IsAdmin(ctx, "U1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProfileOf(t *testing.T) {
	p := ProfileOf(&discordgo.User{ID: "1", Username: "alice", Avatar: "hash"})
	assert.Equal(t, "1", p.ID)
	assert.Equal(t, "0", p.Discriminator)
	require.NotNil(t, p.Avatar)
	assert.Equal(t, "hash", *p.Avatar)

	p = ProfileOf(&discordgo.User{ID: "2", Username: "bob", Discriminator: "1234"})
	assert.Nil(t, p.Avatar)
	assert.Equal(t, "1234", p.Discriminator)
}
