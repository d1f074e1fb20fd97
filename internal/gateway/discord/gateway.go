// Package discord 语音频道网关：频道增删改 + 成员权限覆盖
package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"discord-offices/internal/domain"
)

type Gateway struct {
	s       *discordgo.Session
	guildID string
}

var _ domain.VoiceGateway = (*Gateway)(nil)

// NewBotSession 只走 REST，不打开 websocket
func NewBotSession(botToken string) (*discordgo.Session, error) {
	return discordgo.New("Bot " + botToken)
}

// New guildID 同时也是 @everyone 角色 ID
func New(s *discordgo.Session, guildID string) *Gateway {
	return &Gateway{s: s, guildID: guildID}
}

// CreateChannel 建语音频道，@everyone 默认 deny CONNECT|SPEAK
func (g *Gateway) CreateChannel(ctx context.Context, label string, categoryID string) (string, error) {
	ch, err := g.s.GuildChannelCreateComplex(g.guildID, discordgo.GuildChannelCreateData{
		Name:     label,
		Type:     discordgo.ChannelTypeGuildVoice,
		ParentID: categoryID,
		PermissionOverwrites: []*discordgo.PermissionOverwrite{{
			ID:   g.guildID,
			Type: discordgo.PermissionOverwriteTypeRole,
			Deny: int64(domain.PermVoice),
		}},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", err
	}
	return ch.ID, nil
}

func (g *Gateway) DeleteChannel(ctx context.Context, channelID string) error {
	_, err := g.s.ChannelDelete(channelID, discordgo.WithContext(ctx))
	return err
}

func (g *Gateway) RenameChannel(ctx context.Context, channelID, label string) error {
	_, err := g.s.ChannelEdit(channelID, &discordgo.ChannelEdit{Name: label}, discordgo.WithContext(ctx))
	return err
}

func (g *Gateway) SetMemberPermission(ctx context.Context, channelID, userID string, allow, deny domain.Permission) error {
	return g.s.ChannelPermissionSet(
		channelID, userID, discordgo.PermissionOverwriteTypeMember,
		int64(allow), int64(deny),
		discordgo.WithContext(ctx),
	)
}
