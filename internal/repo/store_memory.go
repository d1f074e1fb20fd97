package repo

import (
	"context"
	"sort"
	"sync"
	"time"

	"discord-offices/internal/domain"
)

// MemoryStore 单进程、非持久化后端；与 GormStore 保持相同语义
type MemoryStore struct {
	mu      sync.RWMutex
	users   map[string]domain.User
	offices map[uint]domain.Office
	members map[uint]map[string]domain.OfficeMembership
	nextID  uint
	now     func() time.Time
}

var _ domain.Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:   map[string]domain.User{},
		offices: map[uint]domain.Office{},
		members: map[uint]map[string]domain.OfficeMembership{},
		now:     time.Now,
	}
}

// ---------- users ----------

func (s *MemoryStore) GetUser(_ context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *MemoryStore) CreateUser(_ context.Context, u domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; ok {
		return nil, domain.ErrConflict
	}
	now := s.now()
	u.CreatedAt, u.UpdatedAt = now, now
	s.users[u.ID] = u
	return &u, nil
}

func (s *MemoryStore) UpdateUser(_ context.Context, id string, p domain.UserPatch) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Discriminator != nil {
		u.Discriminator = *p.Discriminator
	}
	if p.Avatar != nil {
		v := *p.Avatar
		u.Avatar = &v
	}
	if p.IsAdmin != nil {
		u.IsAdmin = *p.IsAdmin
	}
	u.UpdatedAt = s.now()
	s.users[id] = u
	return &u, nil
}

func (s *MemoryStore) ListUsers(_ context.Context, offset, limit int) ([]domain.User, int64, error) {
	s.mu.RLock()
	all := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		all = append(all, u)
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	total := int64(len(all))
	if offset < 0 {
		offset = 0
	}
	if offset >= len(all) {
		return []domain.User{}, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

// ---------- offices ----------

func (s *MemoryStore) UserOwnsAnyOffice(_ context.Context, userID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.offices {
		if o.OwnerID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) ListOffices(_ context.Context) ([]domain.Office, error) {
	return s.filterOffices(func(domain.Office) bool { return true }), nil
}

func (s *MemoryStore) GetOffice(_ context.Context, id uint) (*domain.Office, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.offices[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (s *MemoryStore) ListOfficesByOwner(_ context.Context, userID string) ([]domain.Office, error) {
	return s.filterOffices(func(o domain.Office) bool { return o.OwnerID == userID }), nil
}

func (s *MemoryStore) InsertOffice(_ context.Context, in domain.NewOffice) (*domain.Office, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[in.OwnerID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	s.nextID++
	o := domain.Office{
		ID:          s.nextID,
		Name:        in.Name,
		Description: in.Description,
		IsPrivate:   in.IsPrivate,
		OwnerID:     in.OwnerID,
		Status:      domain.StatusActive,
		CreatedAt:   s.now(),
	}
	s.offices[o.ID] = o
	return &o, nil
}

func (s *MemoryStore) UpdateOffice(_ context.Context, id uint, p domain.OfficePatch) (*domain.Office, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.offices[id]
	if !ok {
		return nil, domain.ErrOfficeNotFound
	}
	if p.Name != nil {
		o.Name = *p.Name
	}
	if p.Description != nil {
		v := *p.Description
		o.Description = &v
	}
	if p.IsPrivate != nil {
		o.IsPrivate = *p.IsPrivate
	}
	if p.Status != nil {
		o.Status = *p.Status
	}
	if p.VoiceChannelID != nil {
		v := *p.VoiceChannelID
		o.VoiceChannelID = &v
	}
	s.offices[id] = o
	return &o, nil
}

// DeleteOffice 同时清掉残留成员行，对齐关系型后端的 ON DELETE CASCADE
func (s *MemoryStore) DeleteOffice(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.offices[id]; !ok {
		return domain.ErrOfficeNotFound
	}
	delete(s.offices, id)
	delete(s.members, id)
	return nil
}

func (s *MemoryStore) filterOffices(keep func(domain.Office) bool) []domain.Office {
	s.mu.RLock()
	out := make([]domain.Office, 0, len(s.offices))
	for _, o := range s.offices {
		if keep(o) {
			out = append(out, o)
		}
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ---------- memberships ----------

func (s *MemoryStore) ListMemberships(_ context.Context, officeID uint) ([]domain.OfficeMembership, error) {
	s.mu.RLock()
	out := make([]domain.OfficeMembership, 0, len(s.members[officeID]))
	for _, m := range s.members[officeID] {
		out = append(out, m)
	}
	s.mu.RUnlock()
	sortMemberships(out)
	return out, nil
}

func (s *MemoryStore) ListMembershipsByUser(_ context.Context, userID string) ([]domain.OfficeMembership, error) {
	s.mu.RLock()
	var out []domain.OfficeMembership
	for _, byUser := range s.members {
		if m, ok := byUser[userID]; ok {
			out = append(out, m)
		}
	}
	s.mu.RUnlock()
	sortMemberships(out)
	return out, nil
}

func (s *MemoryStore) GetMembership(_ context.Context, officeID uint, userID string) (*domain.OfficeMembership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.members[officeID][userID]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (s *MemoryStore) InsertMembership(_ context.Context, officeID uint, userID string, isOwner bool) (*domain.OfficeMembership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.offices[officeID]; !ok {
		return nil, domain.ErrOfficeNotFound
	}
	if _, ok := s.users[userID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	if _, ok := s.members[officeID][userID]; ok {
		return nil, domain.ErrDuplicateMember
	}
	m := domain.OfficeMembership{OfficeID: officeID, UserID: userID, IsOwner: isOwner, JoinedAt: s.now()}
	if s.members[officeID] == nil {
		s.members[officeID] = map[string]domain.OfficeMembership{}
	}
	s.members[officeID][userID] = m
	return &m, nil
}

func (s *MemoryStore) DeleteMembership(_ context.Context, officeID uint, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.members[officeID][userID]; !ok {
		return domain.ErrMemberNotFound
	}
	delete(s.members[officeID], userID)
	if len(s.members[officeID]) == 0 {
		delete(s.members, officeID)
	}
	return nil
}

func sortMemberships(ms []domain.OfficeMembership) {
	sort.Slice(ms, func(i, j int) bool {
		if !ms[i].JoinedAt.Equal(ms[j].JoinedAt) {
			return ms[i].JoinedAt.Before(ms[j].JoinedAt)
		}
		if ms[i].OfficeID != ms[j].OfficeID {
			return ms[i].OfficeID < ms[j].OfficeID
		}
		return ms[i].UserID < ms[j].UserID
	})
}
