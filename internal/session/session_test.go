package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stores(t *testing.T) map[string]Store {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return map[string]Store{
		"memory": NewMemoryStore(time.Hour),
		"redis":  NewRedisStore(rdb, time.Hour),
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			id, err := s.Create(ctx, Session{UserID: "U1"})
			require.NoError(t, err)
			require.NotEmpty(t, id)

			got, err := s.Get(ctx, id)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, "U1", got.UserID)
			assert.False(t, got.CreatedAt.IsZero())

			require.NoError(t, s.Delete(ctx, id))
			got, err = s.Get(ctx, id)
			require.NoError(t, err)
			assert.Nil(t, got)

			got, err = s.Get(ctx, "missing")
			require.NoError(t, err)
			assert.Nil(t, got)
		})
	}
}

func TestRedisStoreExpires(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	s := NewRedisStore(rdb, time.Minute)

	id, err := s.Create(ctx, Session{UserID: "U1"})
	require.NoError(t, err)
	assert.True(t, mr.Exists("session:"+id))

	mr.FastForward(2 * time.Minute)
	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got)
}
