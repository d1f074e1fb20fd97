package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"discord-offices/internal/domain"
	"discord-offices/internal/policy"
)

const maxChannelName = 100 // Discord 频道名上限

type CreateOfficeInput struct {
	OwnerID     string
	Name        string
	Description *string
	IsPrivate   bool
}

type UpdateOfficeInput struct {
	Name        *string
	Description *string
	IsPrivate   *bool
	Status      *domain.OfficeStatus
}

// OfficeDirectory 办公室/成员生命周期编排。
// 数据库是真相来源，语音频道只是尽力同步的镜像：网关失败只记日志，不回滚、不向上抛。
// 多步操作不是原子的；同一办公室上的并发请求不做串行化，
// 重复成员只靠存储层的 (office_id, user_id) 唯一约束兜底。
type OfficeDirectory struct {
	store      domain.Store
	gateway    domain.VoiceGateway
	categoryID string
	log        *zap.Logger
}

// NewOfficeDirectory gateway 可以为 nil（未配置 Discord 机器人）
func NewOfficeDirectory(store domain.Store, gateway domain.VoiceGateway, categoryID string, l *zap.Logger) *OfficeDirectory {
	if l == nil {
		l = zap.NewNop()
	}
	return &OfficeDirectory{store: store, gateway: gateway, categoryID: categoryID, log: l.Named("office")}
}

func (d *OfficeDirectory) CreateOffice(ctx context.Context, in CreateOfficeInput) (*domain.OfficeView, error) {
	name, err := normalizeName(in.Name)
	if err != nil {
		return nil, err
	}
	owns, err := d.store.UserOwnsAnyOffice(ctx, in.OwnerID)
	if err != nil {
		return nil, err
	}
	if owns {
		return nil, domain.ErrOfficeLimit
	}

	o, err := d.store.InsertOffice(ctx, domain.NewOffice{
		Name:        name,
		Description: in.Description,
		IsPrivate:   in.IsPrivate,
		OwnerID:     in.OwnerID,
	})
	if err != nil {
		return nil, err
	}
	log := d.log.With(zap.Uint("office_id", o.ID), zap.String("owner_id", o.OwnerID))

	if d.gateway != nil {
		chID, gwErr := d.gateway.CreateChannel(ctx, channelLabel(name), d.categoryID)
		if gwErr != nil {
			d.gatewayFailed(log, "create_channel", gwErr)
		} else {
			updated, err := d.store.UpdateOffice(ctx, o.ID, domain.OfficePatch{VoiceChannelID: &chID})
			if err != nil {
				log.Error("store voice channel id failed", zap.String("channel_id", chID), zap.Error(err))
				// 频道 id 没落库就没人会再删它；office 行保留，无 owner 成员
				if gwErr := d.gateway.DeleteChannel(ctx, chID); gwErr != nil {
					d.gatewayFailed(log.With(zap.String("channel_id", chID)), "delete_channel", gwErr)
				}
				return nil, err
			}
			o = updated
		}
	}

	// owner 的成员行；此时若有频道会顺带授权
	if _, err := d.AddMember(ctx, o.ID, o.OwnerID, true); err != nil {
		log.Error("insert owner membership failed", zap.Error(err))
		return nil, err
	}
	log.Info("office created", zap.Bool("voice_channel", o.VoiceChannelID != nil))
	return d.enrich(ctx, *o)
}

func (d *OfficeDirectory) UpdateOffice(ctx context.Context, id uint, in UpdateOfficeInput) (*domain.OfficeView, error) {
	existing, err := d.mustGetOffice(ctx, id)
	if err != nil {
		return nil, err
	}

	patch := domain.OfficePatch{
		Description: in.Description,
		IsPrivate:   in.IsPrivate,
		Status:      in.Status,
	}
	if in.Status != nil && !in.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidArgument, *in.Status)
	}
	if in.Name != nil {
		name, err := normalizeName(*in.Name)
		if err != nil {
			return nil, err
		}
		patch.Name = &name
	}

	o, err := d.store.UpdateOffice(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil && *patch.Name != existing.Name && o.VoiceChannelID != nil && d.gateway != nil {
		if gwErr := d.gateway.RenameChannel(ctx, *o.VoiceChannelID, channelLabel(*patch.Name)); gwErr != nil {
			d.gatewayFailed(d.log.With(zap.Uint("office_id", id), zap.String("channel_id", *o.VoiceChannelID)), "rename_channel", gwErr)
		}
	}
	return d.enrich(ctx, *o)
}

// DeleteOffice 先逐个移除成员（撤销权限），再删频道，最后删记录
func (d *OfficeDirectory) DeleteOffice(ctx context.Context, id uint) error {
	o, err := d.mustGetOffice(ctx, id)
	if err != nil {
		return err
	}
	members, err := d.store.ListMemberships(ctx, id)
	if err != nil {
		return err
	}
	for _, m := range members {
		if err := d.removeMembership(ctx, o, m.UserID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
	}

	if o.VoiceChannelID != nil && d.gateway != nil {
		if gwErr := d.gateway.DeleteChannel(ctx, *o.VoiceChannelID); gwErr != nil {
			d.gatewayFailed(d.log.With(zap.Uint("office_id", id), zap.String("channel_id", *o.VoiceChannelID)), "delete_channel", gwErr)
		}
	}

	if err := d.store.DeleteOffice(ctx, id); err != nil {
		return err
	}
	d.log.Info("office deleted", zap.Uint("office_id", id), zap.Int("members_removed", len(members)))
	return nil
}

// AddMember 不预先检查重复，交给存储层拒绝（ErrDuplicateMember）
func (d *OfficeDirectory) AddMember(ctx context.Context, officeID uint, userID string, isOwner bool) (*domain.OfficeMembership, error) {
	o, err := d.mustGetOffice(ctx, officeID)
	if err != nil {
		return nil, err
	}
	m, err := d.store.InsertMembership(ctx, officeID, userID, isOwner)
	if err != nil {
		return nil, err
	}
	if o.VoiceChannelID != nil && d.gateway != nil {
		if gwErr := d.gateway.SetMemberPermission(ctx, *o.VoiceChannelID, userID, domain.PermVoice, 0); gwErr != nil {
			d.gatewayFailed(d.log.With(
				zap.Uint("office_id", officeID),
				zap.String("channel_id", *o.VoiceChannelID),
				zap.String("user_id", userID),
			), "grant_permission", gwErr)
		}
	}
	return m, nil
}

// RemoveMember owner 永远不能通过这里移除
func (d *OfficeDirectory) RemoveMember(ctx context.Context, officeID uint, userID string) error {
	o, err := d.mustGetOffice(ctx, officeID)
	if err != nil {
		return err
	}
	if userID == o.OwnerID {
		return domain.ErrOwnerRemoval
	}
	m, err := d.store.GetMembership(ctx, officeID, userID)
	if err != nil {
		return err
	}
	if m == nil {
		return domain.ErrMemberNotFound
	}
	if m.IsOwner {
		return domain.ErrOwnerRemoval
	}
	return d.removeMembership(ctx, o, userID)
}

// removeMembership 显式 deny（而不是只去掉 allow），防止继承 @everyone 的权限
func (d *OfficeDirectory) removeMembership(ctx context.Context, o *domain.Office, userID string) error {
	if o.VoiceChannelID != nil && d.gateway != nil {
		if gwErr := d.gateway.SetMemberPermission(ctx, *o.VoiceChannelID, userID, 0, domain.PermVoice); gwErr != nil {
			d.gatewayFailed(d.log.With(
				zap.Uint("office_id", o.ID),
				zap.String("channel_id", *o.VoiceChannelID),
				zap.String("user_id", userID),
			), "revoke_permission", gwErr)
		}
	}
	return d.store.DeleteMembership(ctx, o.ID, userID)
}

func (d *OfficeDirectory) IsMember(ctx context.Context, officeID uint, userID string) (bool, error) {
	m, err := d.store.GetMembership(ctx, officeID, userID)
	if err != nil {
		return false, err
	}
	return m != nil, nil
}

// GetEnrichedOffice 不存在时返回 (nil, nil)
func (d *OfficeDirectory) GetEnrichedOffice(ctx context.Context, id uint) (*domain.OfficeView, error) {
	o, err := d.store.GetOffice(ctx, id)
	if err != nil || o == nil {
		return nil, err
	}
	return d.enrich(ctx, *o)
}

func (d *OfficeDirectory) ListEnrichedOffices(ctx context.Context) ([]domain.OfficeView, error) {
	offices, err := d.store.ListOffices(ctx)
	if err != nil {
		return nil, err
	}
	return d.enrichAll(ctx, offices)
}

// GetUserOffice 优先自己拥有的，其次所在的那一个
func (d *OfficeDirectory) GetUserOffice(ctx context.Context, userID string) (*domain.OfficeView, error) {
	owned, err := d.store.ListOfficesByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(owned) > 0 {
		return d.enrich(ctx, owned[0])
	}
	ms, err := d.store.ListMembershipsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, m := range ms {
		o, err := d.store.GetOffice(ctx, m.OfficeID)
		if err != nil {
			return nil, err
		}
		if o != nil {
			return d.enrich(ctx, *o)
		}
	}
	return nil, nil
}

// ListAvailableOffices 公开的、或已加入的；不含自己拥有的
func (d *OfficeDirectory) ListAvailableOffices(ctx context.Context, userID string) ([]domain.OfficeView, error) {
	offices, err := d.store.ListOffices(ctx)
	if err != nil {
		return nil, err
	}
	ms, err := d.store.ListMembershipsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	joined := make(map[uint]bool, len(ms))
	for _, m := range ms {
		joined[m.OfficeID] = true
	}

	avail := make([]domain.Office, 0, len(offices))
	for i := range offices {
		o := &offices[i]
		if o.OwnerID == userID {
			continue
		}
		if policy.CanJoin(o, userID, joined[o.ID]) {
			avail = append(avail, *o)
		}
	}
	return d.enrichAll(ctx, avail)
}

func (d *OfficeDirectory) mustGetOffice(ctx context.Context, id uint) (*domain.Office, error) {
	o, err := d.store.GetOffice(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrOfficeNotFound
	}
	return o, nil
}

func (d *OfficeDirectory) gatewayFailed(l *zap.Logger, op string, err error) {
	gatewayFailures.WithLabelValues(op).Inc()
	l.Warn("voice gateway call failed", zap.String("op", op), zap.Error(err))
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", domain.ErrInvalidArgument)
	}
	if utf8.RuneCountInString(name) > maxChannelName {
		return "", fmt.Errorf("%w: name longer than %d characters", domain.ErrInvalidArgument, maxChannelName)
	}
	return name, nil
}

func channelLabel(name string) string {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) <= maxChannelName {
		return name
	}
	return string([]rune(name)[:maxChannelName])
}
