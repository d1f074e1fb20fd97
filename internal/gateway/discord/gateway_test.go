package discord

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"discord-offices/internal/domain"
)

type recorded struct {
	Method string
	Path   string
	Body   []byte
}

// fakeDiscord 把 discordgo 的 REST 端点指向本地 httptest
func fakeDiscord(t *testing.T, status int) (*Gateway, *[]recorded) {
	t.Helper()
	var (
		mu   sync.Mutex
		reqs []recorded
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
		}
		mu.Lock()
		reqs = append(reqs, recorded{Method: r.Method, Path: r.URL.Path, Body: body})
		mu.Unlock()
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"message":"Missing Permissions","code":50013}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"ch-1","type":2,"name":"x"}`))
	}))

	oldGuilds, oldChannels := discordgo.EndpointGuilds, discordgo.EndpointChannels
	discordgo.EndpointGuilds = srv.URL + "/guilds/"
	discordgo.EndpointChannels = srv.URL + "/channels/"
	t.Cleanup(func() {
		discordgo.EndpointGuilds, discordgo.EndpointChannels = oldGuilds, oldChannels
		srv.Close()
	})

	s, err := NewBotSession("token")
	require.NoError(t, err)
	s.MaxRestRetries = 0
	return New(s, "g1"), &reqs
}

func TestCreateChannel(t *testing.T) {
	gw, reqs := fakeDiscord(t, http.StatusOK)

	id, err := gw.CreateChannel(context.Background(), "Alpha", "cat-1")
	require.NoError(t, err)
	assert.Equal(t, "ch-1", id)

	require.Len(t, *reqs, 1)
	r := (*reqs)[0]
	assert.Equal(t, http.MethodPost, r.Method)
	assert.Equal(t, "/guilds/g1/channels", r.Path)

	var data discordgo.GuildChannelCreateData
	require.NoError(t, json.Unmarshal(r.Body, &data))
	assert.Equal(t, "Alpha", data.Name)
	assert.Equal(t, discordgo.ChannelTypeGuildVoice, data.Type)
	assert.Equal(t, "cat-1", data.ParentID)
	require.Len(t, data.PermissionOverwrites, 1)
	assert.Equal(t, "g1", data.PermissionOverwrites[0].ID)
	assert.Equal(t, int64(domain.PermVoice), data.PermissionOverwrites[0].Deny)
	assert.Zero(t, data.PermissionOverwrites[0].Allow)
}

func TestSetMemberPermission(t *testing.T) {
	gw, reqs := fakeDiscord(t, http.StatusOK)

	require.NoError(t, gw.SetMemberPermission(context.Background(), "ch-1", "U2", 0, domain.PermVoice))

	require.Len(t, *reqs, 1)
	r := (*reqs)[0]
	assert.Equal(t, http.MethodPut, r.Method)
	assert.Equal(t, "/channels/ch-1/permissions/U2", r.Path)

	var ow discordgo.PermissionOverwrite
	require.NoError(t, json.Unmarshal(r.Body, &ow))
	assert.Equal(t, discordgo.PermissionOverwriteTypeMember, ow.Type)
	assert.Equal(t, int64(domain.PermVoice), ow.Deny)
	assert.Zero(t, ow.Allow)
}

func TestRenameAndDelete(t *testing.T) {
	gw, reqs := fakeDiscord(t, http.StatusOK)
	ctx := context.Background()

	require.NoError(t, gw.RenameChannel(ctx, "ch-1", "Beta"))
	require.NoError(t, gw.DeleteChannel(ctx, "ch-1"))

	require.Len(t, *reqs, 2)
	assert.Equal(t, http.MethodPatch, (*reqs)[0].Method)
	var edit map[string]any
	require.NoError(t, json.Unmarshal((*reqs)[0].Body, &edit))
	assert.Equal(t, "Beta", edit["name"])
	assert.Equal(t, http.MethodDelete, (*reqs)[1].Method)
	assert.Equal(t, "/channels/ch-1", (*reqs)[1].Path)
}

func TestGatewayErrors(t *testing.T) {
	gw, _ := fakeDiscord(t, http.StatusForbidden)

	_, err := gw.CreateChannel(context.Background(), "Alpha", "")
	var rest *discordgo.RESTError
	require.ErrorAs(t, err, &rest)
	assert.Equal(t, http.StatusForbidden, rest.Response.StatusCode)
}
