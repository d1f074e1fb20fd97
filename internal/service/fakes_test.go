package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"discord-offices/internal/domain"
)

var errGateway = errors.New("discord unavailable")

type permCall struct {
	ChannelID string
	UserID    string
	Allow     domain.Permission
	Deny      domain.Permission
}

// fakeGateway 记录调用；fail 中的操作名返回 errGateway
type fakeGateway struct {
	mu       sync.Mutex
	fail     map[string]bool
	next     int
	created  []string
	deleted  []string
	renamed  map[string]string
	perms    []permCall
	category string
	calls    []string // 按顺序记录成功的调用
}

func newFakeGateway(failing ...string) *fakeGateway {
	g := &fakeGateway{fail: map[string]bool{}, renamed: map[string]string{}}
	for _, op := range failing {
		g.fail[op] = true
	}
	return g
}

func (g *fakeGateway) CreateChannel(_ context.Context, label, categoryID string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fail["create"] {
		return "", errGateway
	}
	g.next++
	id := fmt.Sprintf("ch-%d", g.next)
	g.created = append(g.created, label)
	g.calls = append(g.calls, "create:"+id)
	g.category = categoryID
	return id, nil
}

func (g *fakeGateway) DeleteChannel(_ context.Context, channelID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fail["delete"] {
		return errGateway
	}
	g.deleted = append(g.deleted, channelID)
	g.calls = append(g.calls, "delete:"+channelID)
	return nil
}

func (g *fakeGateway) RenameChannel(_ context.Context, channelID, label string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fail["rename"] {
		return errGateway
	}
	g.renamed[channelID] = label
	g.calls = append(g.calls, "rename:"+channelID)
	return nil
}

func (g *fakeGateway) SetMemberPermission(_ context.Context, channelID, userID string, allow, deny domain.Permission) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fail["perm"] {
		return errGateway
	}
	g.perms = append(g.perms, permCall{ChannelID: channelID, UserID: userID, Allow: allow, Deny: deny})
	kind := "grant"
	if deny != 0 {
		kind = "revoke"
	}
	g.calls = append(g.calls, kind+":"+userID)
	return nil
}

func (g *fakeGateway) permsFor(userID string) []permCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []permCall
	for _, p := range g.perms {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out
}

// callIndex 返回 call 在调用日志里第一次出现的位置，没有则为 -1
func (g *fakeGateway) callIndex(call string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, c := range g.calls {
		if c == call {
			return i
		}
	}
	return -1
}

type fakeRoles struct {
	admins    map[string]bool
	err       error
	forgotten []string
}

func (r *fakeRoles) IsAdmin(_ context.Context, userID string) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	return r.admins[userID], nil
}

func (r *fakeRoles) Forget(_ context.Context, userID string) {
	r.forgotten = append(r.forgotten, userID)
}
