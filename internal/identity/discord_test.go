package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestAuthCodeURL(t *testing.T) {
	p := NewProvider("client", "secret", "http://localhost/cb")
	u, err := url.Parse(p.AuthCodeURL("state-1"))
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "discord.com", u.Host)
	assert.Equal(t, "client", q.Get("client_id"))
	assert.Equal(t, "state-1", q.Get("state"))
	assert.Equal(t, "identify", q.Get("scope"))
	assert.Equal(t, "http://localhost/cb", q.Get("redirect_uri"))
}

func TestExchange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "the-code", r.PostForm.Get("code"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "tok", "token_type": "Bearer", "expires_in": 3600})
	}))
	defer srv.Close()

	p := NewProvider("client", "secret", "http://localhost/cb")
	p.conf.Endpoint = oauth2.Endpoint{AuthURL: srv.URL + "/authorize", TokenURL: srv.URL + "/token"}
	p.fetch = func(_ context.Context, accessToken string) (*discordgo.User, error) {
		assert.Equal(t, "tok", accessToken)
		return &discordgo.User{ID: "U1", Username: "alice"}, nil
	}

	prof, err := p.Exchange(context.Background(), "the-code")
	require.NoError(t, err)
	assert.Equal(t, "U1", prof.ID)
	assert.Equal(t, "alice", prof.Username)

	_, err = p.Exchange(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyCode)
}

func TestBotMembers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/guilds/g1/members/U1":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"user":{"id":"U1"},"roles":["r-admin"]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Unknown Member","code":10007}`))
		}
	}))
	old := discordgo.EndpointGuilds
	discordgo.EndpointGuilds = srv.URL + "/guilds/"
	defer func() {
		discordgo.EndpointGuilds = old
		srv.Close()
	}()

	s, err := discordgo.New("Bot token")
	require.NoError(t, err)
	m := BotMembers(s)

	roles, err := m.MemberRoles(context.Background(), "g1", "U1")
	require.NoError(t, err)
	assert.Equal(t, []string{"r-admin"}, roles)

	roles, err = m.MemberRoles(context.Background(), "g1", "U2")
	require.NoError(t, err)
	assert.Nil(t, roles)
}
