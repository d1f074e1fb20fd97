package service

import (
	"context"

	"discord-offices/internal/domain"
)

// userResolver 单次读取内的用户查找缓存；缺失的引用返回占位用户
type userResolver struct {
	store domain.UserRepository
	seen  map[string]domain.User
}

func newUserResolver(store domain.UserRepository) *userResolver {
	return &userResolver{store: store, seen: map[string]domain.User{}}
}

func (r *userResolver) resolve(ctx context.Context, id string) (domain.User, error) {
	if u, ok := r.seen[id]; ok {
		return u, nil
	}
	u, err := r.store.GetUser(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	out := domain.UnknownUser(id)
	if u != nil {
		out = *u
	}
	r.seen[id] = out
	return out, nil
}

// enrich 每次读都重新计算，不缓存；成员列表和计数之间没有跨读原子性
func (d *OfficeDirectory) enrich(ctx context.Context, o domain.Office) (*domain.OfficeView, error) {
	return d.enrichWith(ctx, newUserResolver(d.store), o)
}

func (d *OfficeDirectory) enrichAll(ctx context.Context, offices []domain.Office) ([]domain.OfficeView, error) {
	users := newUserResolver(d.store)
	out := make([]domain.OfficeView, 0, len(offices))
	for _, o := range offices {
		v, err := d.enrichWith(ctx, users, o)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, nil
}

func (d *OfficeDirectory) enrichWith(ctx context.Context, users *userResolver, o domain.Office) (*domain.OfficeView, error) {
	owner, err := users.resolve(ctx, o.OwnerID)
	if err != nil {
		return nil, err
	}
	ms, err := d.store.ListMemberships(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	members := make([]domain.MemberView, 0, len(ms))
	for _, m := range ms {
		u, err := users.resolve(ctx, m.UserID)
		if err != nil {
			return nil, err
		}
		members = append(members, domain.MemberView{OfficeMembership: m, User: u})
	}
	return &domain.OfficeView{
		Office:      o,
		Owner:       owner,
		Members:     members,
		MemberCount: len(members),
	}, nil
}
