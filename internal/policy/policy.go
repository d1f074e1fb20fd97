// Package policy 纯判定函数，不做任何 I/O
package policy

import "discord-offices/internal/domain"

// CanManageOffice 管理员或 owner
func CanManageOffice(u *domain.User, o *domain.Office) bool {
	if u == nil || o == nil {
		return false
	}
	return u.IsAdmin || u.ID == o.OwnerID
}

// CanJoin 公开办公室，或已经是成员
func CanJoin(o *domain.Office, userID string, isAlreadyMember bool) bool {
	if o == nil {
		return false
	}
	return !o.IsPrivate || isAlreadyMember
}

func CanCreateOrListAllOffices(u *domain.User) bool {
	return u != nil && u.IsAdmin
}

// CanView 私有办公室只对成员和管理者可见
func CanView(u *domain.User, o *domain.Office, isMember bool) bool {
	return CanJoin(o, idOf(u), isMember) || CanManageOffice(u, o)
}

func idOf(u *domain.User) string {
	if u == nil {
		return ""
	}
	return u.ID
}
