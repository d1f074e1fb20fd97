// Package identity Discord OAuth 登录与管理员角色查询
package identity

import (
	"context"
	"errors"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/oauth2"

	"discord-offices/internal/service"
)

var Endpoint = oauth2.Endpoint{
	AuthURL:  "https://discord.com/api/oauth2/authorize",
	TokenURL: "https://discord.com/api/oauth2/token",
}

var ErrEmptyCode = errors.New("authorization code is empty")

// Provider 授权码换 token，再用 token 取 /users/@me
type Provider struct {
	conf  *oauth2.Config
	fetch func(ctx context.Context, accessToken string) (*discordgo.User, error)
}

func NewProvider(clientID, clientSecret, redirectURL string) *Provider {
	return &Provider{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"identify"},
			Endpoint:     Endpoint,
		},
		fetch: fetchSelf,
	}
}

func (p *Provider) AuthCodeURL(state string) string {
	return p.conf.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "none"))
}

func (p *Provider) Exchange(ctx context.Context, code string) (*service.Profile, error) {
	if code == "" {
		return nil, ErrEmptyCode
	}
	tok, err := p.conf.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}
	u, err := p.fetch(ctx, tok.AccessToken)
	if err != nil {
		return nil, err
	}
	return ProfileOf(u), nil
}

func ProfileOf(u *discordgo.User) *service.Profile {
	p := &service.Profile{ID: u.ID, Username: u.Username, Discriminator: u.Discriminator}
	if u.Avatar != "" {
		a := u.Avatar
		p.Avatar = &a
	}
	if p.Discriminator == "" {
		p.Discriminator = "0"
	}
	return p
}

func fetchSelf(ctx context.Context, accessToken string) (*discordgo.User, error) {
	s, err := discordgo.New("Bearer " + accessToken)
	if err != nil {
		return nil, err
	}
	return s.User("@me", discordgo.WithContext(ctx))
}
