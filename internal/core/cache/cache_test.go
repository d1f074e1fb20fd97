package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrLoadJSON(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	for name, c := range map[string]*Cache{"redis": New(rdb, "t:"), "local": New(nil, "t:")} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			calls := 0
			load := func(context.Context) (bool, error) {
				calls++
				return true, nil
			}

			v, err := GetOrLoadJSON(c, ctx, "k", time.Minute, load)
			require.NoError(t, err)
			assert.True(t, v)
			v, err = GetOrLoadJSON(c, ctx, "k", time.Minute, load)
			require.NoError(t, err)
			assert.True(t, v)
			assert.Equal(t, 1, calls)

			require.NoError(t, c.Invalidate(ctx, "k"))
			_, err = GetOrLoadJSON(c, ctx, "k", time.Minute, load)
			require.NoError(t, err)
			assert.Equal(t, 2, calls)
		})
	}
	assert.True(t, mr.Exists("t:k"))
}

func TestGetOrLoad_ErrorNotCached(t *testing.T) {
	c := New(nil, "")
	ctx := context.Background()
	boom := errors.New("boom")

	_, err := c.GetOrLoad(ctx, "k", time.Minute, func(context.Context) ([]byte, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)

	b, err := c.GetOrLoad(ctx, "k", time.Minute, func(context.Context) ([]byte, error) { return []byte("ok"), nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", string(b))
}
