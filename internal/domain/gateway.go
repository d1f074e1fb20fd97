package domain

import "context"

// Permission 语音频道权限位，取值与 Discord 一致
type Permission int64

const (
	PermConnect Permission = 1 << 20
	PermSpeak   Permission = 1 << 21

	PermVoice = PermConnect | PermSpeak
)

// VoiceGateway 外部语音平台边界；所有失败由调用方吞掉并记录
type VoiceGateway interface {
	CreateChannel(ctx context.Context, label string, categoryID string) (string, error)
	DeleteChannel(ctx context.Context, channelID string) error
	RenameChannel(ctx context.Context, channelID, label string) error
	SetMemberPermission(ctx context.Context, channelID, userID string, allow, deny Permission) error
}
