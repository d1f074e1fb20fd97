package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"discord-offices/internal/domain"
)

func TestCanManageOffice(t *testing.T) {
	o := &domain.Office{ID: 1, OwnerID: "owner"}
	cases := []struct {
		name string
		user *domain.User
		want bool
	}{
		{"owner", &domain.User{ID: "owner"}, true},
		{"admin", &domain.User{ID: "x", IsAdmin: true}, true},
		{"stranger", &domain.User{ID: "x"}, false},
		{"anonymous", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanManageOffice(tc.user, o))
		})
	}
	assert.False(t, CanManageOffice(&domain.User{ID: "owner"}, nil))
}

func TestCanJoin(t *testing.T) {
	public := &domain.Office{IsPrivate: false}
	private := &domain.Office{IsPrivate: true}

	assert.True(t, CanJoin(public, "u", false))
	assert.False(t, CanJoin(private, "u", false))
	assert.True(t, CanJoin(private, "u", true))
	assert.False(t, CanJoin(nil, "u", true))
}

func TestCanCreateOrListAllOffices(t *testing.T) {
	assert.True(t, CanCreateOrListAllOffices(&domain.User{IsAdmin: true}))
	assert.False(t, CanCreateOrListAllOffices(&domain.User{}))
	assert.False(t, CanCreateOrListAllOffices(nil))
}

func TestCanView(t *testing.T) {
	private := &domain.Office{OwnerID: "owner", IsPrivate: true}

	assert.True(t, CanView(&domain.User{ID: "owner"}, private, false))
	assert.True(t, CanView(&domain.User{ID: "m"}, private, true))
	assert.True(t, CanView(&domain.User{ID: "a", IsAdmin: true}, private, false))
	assert.False(t, CanView(&domain.User{ID: "x"}, private, false))
	assert.True(t, CanView(nil, &domain.Office{IsPrivate: false}, false))
}
